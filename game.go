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

package platformer

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type (
	// Game is the driving loop's view of the simulation: it owns the level sequence, the engine, and the current
	// world, and performs the transitions the engine requests.
	Game struct {
		levels *Levels
		engine *Engine
		world  *World
		sink   Sink
		logger *zap.Logger
	}
)

// NewGame loads the first level from source, failing with an error wrapping ErrNoLevels if there isn't one.
func NewGame(source LevelSource, opts ...Option) (*Game, error) {
	c, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(opts...)
	if err != nil {
		return nil, err
	}
	g := Game{
		levels: NewLevels(source, c.logger),
		engine: engine,
		sink:   c.sink,
		logger: c.logger,
	}
	if err := g.load(g.levels.Next); err != nil {
		return nil, err
	}
	g.sink.Cue(CueMusic)
	return &g, nil
}

func (g *Game) World() *World   { return g.world }
func (g *Game) Engine() *Engine { return g.engine }

// Level is the (1-based) index of the current level.
func (g *Game) Level() int { return g.levels.Index() }

// Score is the number of coins collected.
func (g *Game) Score() int { return g.engine.Coins() }

// Step runs a single frame, then performs any transition, replacing the world. An error is only possible if a
// transition fails to load a level.
func (g *Game) Step(input Intent, elapsed time.Duration) (Transition, error) {
	t := g.engine.Update(g.world, input, elapsed)
	switch t {
	case TransitionRestart:
		if err := g.load(g.levels.Reload); err != nil {
			return t, err
		}
		g.logger.Info(`level restarted`, zap.Int(`level`, g.levels.Index()))
	case TransitionAdvance:
		if err := g.load(g.levels.Next); err != nil {
			return t, err
		}
		g.logger.Info(`level advanced`, zap.Int(`level`, g.levels.Index()))
	}
	return t, nil
}

// Snapshot captures the current state, see World.Snapshot.
func (g *Game) Snapshot() Snapshot {
	s := g.world.Snapshot()
	s.Level = g.levels.Index()
	s.Score = g.engine.Coins()
	return s
}

func (g *Game) load(fn func() (*Level, error)) error {
	level, err := fn()
	if err != nil {
		return err
	}
	world, err := BuildWorld(level)
	if err != nil {
		return fmt.Errorf(`platformer: build level %d: %w`, g.levels.Index(), err)
	}
	g.world = world
	return nil
}
