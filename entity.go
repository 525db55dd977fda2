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

	"github.com/go-gl/mathgl/mgl64"
)

const (
	KindPlayer Kind = iota + 1
	KindGrub
	KindBat
	KindHound
	KindCoin
	KindDoor
)

const (
	CapabilityCreature Capability = iota + 1
	CapabilityItem
)

const (
	Alive Lifecycle = iota
	Dying
	Dead
)

type (
	// ID uniquely identifies an entity within a World.
	ID uint64

	// Kind is the closed set of entity variants, selecting behavior by tag rather than by type.
	Kind uint8

	// Capability splits kinds into creatures (have a lifecycle and move) and items (collected on contact).
	Capability uint8

	// Lifecycle is the state of a creature, Alive -> Dying -> Dead, where Dead is terminal.
	Lifecycle uint8

	// Archetype holds the per-kind constants used to spawn entities.
	Archetype struct {
		Name          string
		Capability    Capability
		Width, Height int32
		// MaxSpeed is in pixels per millisecond, and is only relevant to creatures
		MaxSpeed float64
		// Flies exempts the creature from gravity while it is alive
		Flies bool
	}

	// Entity models a single sprite in the world, either a creature or an item, see Kind.
	Entity struct {
		ID   ID
		Kind Kind
		// Pos is the top left corner, in pixels
		Pos mgl64.Vec2
		// Vel is in pixels per millisecond
		Vel           mgl64.Vec2
		Width, Height int32
		// Visual is the presentation layer's handle (may be nil), the core only ever tells it that time passed
		Visual Visual
		// Creature is non-nil for (and only for) kinds with CapabilityCreature
		Creature *Creature
	}

	// Creature is the variant payload for creature kinds.
	Creature struct {
		MaxSpeed  float64
		Flies     bool
		State     Lifecycle
		StateTime time.Duration
		OnGround  bool
		// Awake is set by the creature's brain, dormant creatures don't move on their own
		Awake bool
		// BlockedX is set if the last horizontal move was stopped by a tile
		BlockedX bool
		// Heading is the last direction the creature chose to walk, -1 (left) or 1 (right)
		Heading float64
	}

	// Visual is the opaque, per-entity presentation state (e.g. an animation cursor over shared frames).
	Visual interface {
		Advance(elapsed time.Duration)
	}

	// DeathTimer may be implemented by a Visual to report how long the death animation takes, a non-positive
	// duration falls back to Config.DieTime.
	DeathTimer interface {
		DeathDuration() time.Duration
	}
)

var (
	archetypes = map[Kind]Archetype{
		KindPlayer: {Name: `player`, Capability: CapabilityCreature, Width: 40, Height: 60, MaxSpeed: 0.5},
		KindGrub:   {Name: `grub`, Capability: CapabilityCreature, Width: 40, Height: 24, MaxSpeed: 0.05},
		KindBat:    {Name: `bat`, Capability: CapabilityCreature, Width: 40, Height: 32, MaxSpeed: 0.2, Flies: true},
		KindHound:  {Name: `hound`, Capability: CapabilityCreature, Width: 56, Height: 40, MaxSpeed: 0.09, Flies: true},
		KindCoin:   {Name: `coin`, Capability: CapabilityItem, Width: 24, Height: 24},
		KindDoor:   {Name: `door`, Capability: CapabilityItem, Width: 48, Height: 64},
	}

	spawners = map[Kind]func(id ID, x, y float64) *Entity{
		KindPlayer: NewPlayer,
		KindGrub:   NewGrub,
		KindBat:    NewBat,
		KindHound:  NewHound,
		KindCoin:   NewCoin,
		KindDoor:   NewDoor,
	}
)

// ArchetypeOf returns the constants for the given kind, and false if the kind is unknown.
func ArchetypeOf(kind Kind) (Archetype, bool) {
	v, ok := archetypes[kind]
	return v, ok
}

// Spawn creates a new entity of the given kind, with its top left corner at x, y.
func Spawn(kind Kind, id ID, x, y float64) (*Entity, error) {
	fn, ok := spawners[kind]
	if !ok {
		return nil, fmt.Errorf(`platformer: unknown kind: %d`, kind)
	}
	return fn(id, x, y), nil
}

func NewPlayer(id ID, x, y float64) *Entity { return newEntity(KindPlayer, id, x, y) }
func NewGrub(id ID, x, y float64) *Entity   { return newEntity(KindGrub, id, x, y) }
func NewBat(id ID, x, y float64) *Entity    { return newEntity(KindBat, id, x, y) }
func NewHound(id ID, x, y float64) *Entity  { return newEntity(KindHound, id, x, y) }
func NewCoin(id ID, x, y float64) *Entity   { return newEntity(KindCoin, id, x, y) }
func NewDoor(id ID, x, y float64) *Entity   { return newEntity(KindDoor, id, x, y) }

func newEntity(kind Kind, id ID, x, y float64) *Entity {
	a := archetypes[kind]
	e := Entity{
		ID:     id,
		Kind:   kind,
		Pos:    mgl64.Vec2{x, y},
		Width:  a.Width,
		Height: a.Height,
	}
	if a.Capability == CapabilityCreature {
		e.Creature = &Creature{
			MaxSpeed: a.MaxSpeed,
			Flies:    a.Flies,
			Heading:  -1,
		}
	}
	return &e
}

func (k Kind) String() string {
	if a, ok := archetypes[k]; ok {
		return a.Name
	}
	return fmt.Sprintf(`kind(%d)`, uint8(k))
}

// Capability returns the capability of the kind, or 0 if unknown.
func (k Kind) Capability() Capability { return archetypes[k].Capability }

func (l Lifecycle) String() string {
	switch l {
	case Alive:
		return `alive`
	case Dying:
		return `dying`
	case Dead:
		return `dead`
	default:
		return fmt.Sprintf(`lifecycle(%d)`, uint8(l))
	}
}

func (e *Entity) IsCreature() bool { return e.Creature != nil }
func (e *Entity) IsItem() bool     { return e.Kind.Capability() == CapabilityItem }
func (e *Entity) IsPlayer() bool   { return e.Kind == KindPlayer }

// Alive is true for items, and for creatures in the Alive state.
func (e *Entity) Alive() bool { return e.Creature == nil || e.Creature.State == Alive }

// State returns the lifecycle state, items are always Alive.
func (e *Entity) State() Lifecycle {
	if e.Creature == nil {
		return Alive
	}
	return e.Creature.State
}

// SetState transitions a creature's lifecycle. Dead is never left, and entering Dying stops the creature.
func (e *Entity) SetState(state Lifecycle) {
	c := e.Creature
	if c == nil || c.State == state || c.State == Dead {
		return
	}
	c.State = state
	c.StateTime = 0
	if state == Dying {
		e.Vel = mgl64.Vec2{}
	}
}

// Flying is true if the entity is currently exempt from gravity.
func (e *Entity) Flying() bool { return e.Creature != nil && e.Creature.Flies && e.Creature.State == Alive }

// Jump sets the upward impulse if the creature is resting on a surface, or unconditionally if force is set, and
// reports if it took effect.
func (e *Entity) Jump(speed float64, force bool) bool {
	c := e.Creature
	if c == nil || (!c.OnGround && !force) {
		return false
	}
	c.OnGround = false
	e.Vel[1] = speed
	return true
}

// RoundPosition returns the position rounded to whole pixels.
func (e *Entity) RoundPosition() (x, y int32) {
	return roundPixel(e.Pos.X()), roundPixel(e.Pos.Y())
}

// Clone returns a deep copy of the entity, note that the Visual handle is shared.
func (e *Entity) Clone() *Entity {
	r := *e
	if e.Creature != nil {
		c := *e.Creature
		r.Creature = &c
	}
	return &r
}

func (e *Entity) deathDuration(fallback time.Duration) time.Duration {
	if v, ok := e.Visual.(DeathTimer); ok {
		if d := v.DeathDuration(); d > 0 {
			return d
		}
	}
	return fallback
}
