/*
   Copyright 2021 Joseph Cumines

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package platformer implements the simulation core of a 2D tile based platformer.
package platformer

import (
	"fmt"
	"time"

	bt "github.com/joeycumines/go-behaviortree"
	"github.com/zyedidia/generic/mapset"
	"go.uber.org/zap"
)

type (
	// Engine is the per-frame kinematics and rule engine. It's not safe for concurrent use.
	Engine struct {
		config Config
		sink   Sink
		logger *zap.Logger
		// world is the world the brains were built for, they are discarded if it changes
		world  *World
		brains map[*Entity]bt.Node
		coins  int
	}
)

// NewEngine constructs a new Engine, see also WithConfig, WithSink, and WithLogger.
func NewEngine(opts ...Option) (*Engine, error) {
	c, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{
		config: c.config,
		sink:   c.sink,
		logger: c.logger,
	}, nil
}

// Config returns the constants in use.
func (e *Engine) Config() Config { return e.config }

// Coins is the number of coins collected, across all worlds.
func (e *Engine) Coins() int { return e.coins }

// Update advances the world by a single frame, of the given elapsed time, with the given player input, returning
// the transition (if any) the caller must perform. The world must have a player, or Update will panic.
//
// Within the frame, the player moves first, then every other creature (in iteration order). Each mover resolves
// X fully, then Y (using the corrected X), against the tile grid. Every entity then advances its visual state,
// and creatures that are dead are removed, as the last step.
func (e *Engine) Update(w *World, input Intent, elapsed time.Duration) Transition {
	player := w.Player()
	if player == nil || player.Creature == nil {
		panic(fmt.Errorf(`platformer.Engine.Update world has no player`))
	}

	if player.State() == Dead {
		e.logger.Debug(`player dead, restarting`)
		return TransitionRestart
	}

	e.bind(w)

	ms := float64(elapsed) / float64(time.Millisecond)

	e.input(player, input)

	if t := e.move(w, player, ms); t != TransitionNone {
		return t
	}
	e.advance(player, elapsed)

	var (
		entities = w.Entities()
		dead     = mapset.New[ID]()
	)
	for _, v := range entities {
		if !w.Contains(v.ID) {
			continue
		}
		if v.IsCreature() && v.State() != Dead {
			e.think(w, v)
			// only the player's moves can cause transitions
			_ = e.move(w, v, ms)
		}
		e.advance(v, elapsed)
		if v.IsCreature() && v.State() == Dead {
			dead.Put(v.ID)
		}
	}

	// removed in iteration order
	for _, v := range entities {
		if dead.Has(v.ID) {
			delete(e.brains, v)
			w.RemoveEntity(v.ID)
			e.logger.Debug(`creature removed`, zap.Uint64(`id`, uint64(v.ID)), zap.Stringer(`kind`, v.Kind))
		}
	}

	return TransitionNone
}

func (e *Engine) bind(w *World) {
	if e.world != w {
		e.world = w
		e.brains = make(map[*Entity]bt.Node)
	}
}

// input applies the player's movement intent, note that it's ignored unless the player is alive.
func (e *Engine) input(player *Entity, input Intent) {
	if !player.Alive() {
		return
	}
	var vx float64
	if input.Left {
		vx -= player.Creature.MaxSpeed
	}
	if input.Right {
		vx += player.Creature.MaxSpeed
	}
	if input.Jump && player.Jump(e.config.JumpSpeed, false) {
		e.sink.Cue(CueJump)
	}
	player.Vel[0] = vx
}

func (e *Engine) think(w *World, c *Entity) {
	brain, ok := e.brains[c]
	if !ok {
		brain = e.newBrain(w, c)
		e.brains[c] = brain
	}
	if _, err := brain.Tick(); err != nil {
		e.logger.Error(`brain tick failed`, zap.Uint64(`id`, uint64(c.ID)), zap.Error(err))
	}
}

// move applies gravity and velocity to the creature c, resolving collisions with the grid one axis at a time.
func (e *Engine) move(w *World, c *Entity, ms float64) Transition {
	state := c.Creature

	if !c.Flying() {
		c.Vel[1] += e.config.Gravity * ms
	}

	// x axis
	state.BlockedX = false
	for remaining := c.Vel.X() * ms; ; {
		step := axisStep(remaining)
		remaining -= step
		newX := c.Pos.X() + step
		tx, _, ok := TileCollision(w.grid, c, newX, c.Pos.Y())
		if !ok {
			c.Pos[0] = newX
			if remaining == 0 {
				break
			}
			continue
		}
		// line up with the tile boundary
		if step > 0 {
			c.Pos[0] = TilesToPixels(tx) - float64(c.Width)
		} else if step < 0 {
			c.Pos[0] = TilesToPixels(tx + 1)
		}
		c.Vel[0] = 0
		state.BlockedX = true
		break
	}
	if c.IsPlayer() {
		if t := e.checkPlayer(w, c, false); t != TransitionNone {
			return t
		}
	}

	// y axis
	oldY := c.Pos.Y()
	for remaining := c.Vel.Y() * ms; ; {
		step := axisStep(remaining)
		if y := c.Pos.Y(); (step > 0 && y >= w.grid.PixelHeight()) || (step < 0 && y+float64(c.Height) <= 0) {
			// clear of every row, nothing left to hit
			step = remaining
		}
		remaining -= step
		newY := c.Pos.Y() + step
		_, ty, ok := TileCollision(w.grid, c, c.Pos.X(), newY)
		if !ok {
			setY(c, newY)
			if remaining == 0 {
				break
			}
			continue
		}
		if step > 0 {
			setY(c, TilesToPixels(ty)-float64(c.Height))
			state.OnGround = true
		} else if step < 0 {
			setY(c, TilesToPixels(ty+1))
		}
		c.Vel[1] = 0
		break
	}

	if c.State() == Alive && c.Pos.Y() > w.grid.PixelHeight()+e.config.FallMargin {
		c.SetState(Dying)
		if c.IsPlayer() {
			e.sink.Cue(CueDeath)
		}
		e.logger.Debug(`creature fell`, zap.Uint64(`id`, uint64(c.ID)), zap.Stringer(`kind`, c.Kind))
	}

	if c.IsPlayer() {
		return e.checkPlayer(w, c, oldY < c.Pos.Y())
	}

	return TransitionNone
}

// axisStep limits a single collision check to at most one tile of travel, so the first solid tile found is always
// the nearest one in the direction of travel.
func axisStep(remaining float64) float64 { return max(-TileSize, min(TileSize, remaining)) }

// setY moves the creature vertically, noting that any downward (whole pixel) movement means it's left the ground.
func setY(c *Entity, y float64) {
	if roundPixel(y) > roundPixel(c.Pos.Y()) {
		c.Creature.OnGround = false
	}
	c.Pos[1] = y
}

// checkPlayer handles the player overlapping other entities, where canKill indicates the player is falling, and
// will defeat (rather than be defeated by) any creature it lands on.
func (e *Engine) checkPlayer(w *World, player *Entity, canKill bool) Transition {
	if !player.Alive() {
		return TransitionNone
	}
	other := w.Overlapping(player)
	switch {
	case other == nil:
	case other.IsItem():
		return e.collect(w, other)
	case other.IsCreature():
		if canKill {
			e.sink.Cue(CueImpact)
			other.SetState(Dying)
			player.Pos[1] = other.Pos.Y() - float64(player.Height)
			player.Jump(e.config.JumpSpeed, true)
			e.logger.Debug(`creature defeated`, zap.Uint64(`id`, uint64(other.ID)), zap.Stringer(`kind`, other.Kind))
		} else {
			e.sink.Cue(CueDeath)
			player.SetState(Dying)
			e.logger.Debug(`player defeated`, zap.Uint64(`by`, uint64(other.ID)), zap.Stringer(`kind`, other.Kind))
		}
	}
	return TransitionNone
}

func (e *Engine) collect(w *World, item *Entity) Transition {
	w.RemoveEntity(item.ID)
	switch item.Kind {
	case KindCoin:
		e.coins++
		e.sink.Cue(CueCoin)
	case KindDoor:
		e.sink.Cue(CueDoor)
		e.logger.Debug(`door reached`)
		return TransitionAdvance
	}
	return TransitionNone
}

// advance tells the entity's visual that time passed, and completes the dying -> dead transition for creatures.
func (e *Engine) advance(v *Entity, elapsed time.Duration) {
	if v.Visual != nil {
		v.Visual.Advance(elapsed)
	}
	if c := v.Creature; c != nil {
		c.StateTime += elapsed
		if c.State == Dying && c.StateTime >= v.deathDuration(e.config.DieTime) {
			v.SetState(Dead)
		}
	}
}
