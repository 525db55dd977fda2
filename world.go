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
)

type (
	// World is the container for a single level: the tile grid, the live (non-player) entities, in insertion
	// order, and the player. It is created from a Level, mutated by the Engine every frame, and replaced wholesale
	// on restart or advance.
	//
	// World isn't safe for concurrent use, it's designed to be driven by exactly one goroutine.
	World struct {
		grid     *TileGrid
		entities []*Entity
		index    map[ID]*Entity
		player   *Entity
		nextID   ID
	}
)

// NewWorld returns an empty world, using the given grid, which must be non-nil.
func NewWorld(grid *TileGrid) *World {
	if grid == nil {
		panic(fmt.Errorf(`platformer.NewWorld nil grid`))
	}
	return &World{
		grid:  grid,
		index: make(map[ID]*Entity),
	}
}

func (w *World) Grid() *TileGrid { return w.grid }

func (w *World) Tile(x, y int) Tile          { return w.grid.Tile(x, y) }
func (w *World) SetTile(x, y int, tile Tile) { w.grid.SetTile(x, y, tile) }

// Player returns the player, or nil if none has been set.
func (w *World) Player() *Entity { return w.player }

// SetPlayer replaces the player, which must be of KindPlayer, and may not share an ID with any other entity.
func (w *World) SetPlayer(player *Entity) error {
	if player == nil || player.Kind != KindPlayer {
		return fmt.Errorf(`platformer: invalid player`)
	}
	if _, ok := w.index[player.ID]; ok {
		return fmt.Errorf(`platformer: duplicate id: %d`, player.ID)
	}
	w.player = player
	w.reserve(player.ID)
	return nil
}

// NextID allocates an ID that is unused within the receiver.
func (w *World) NextID() ID {
	w.nextID++
	for w.used(w.nextID) {
		w.nextID++
	}
	return w.nextID
}

// AddEntity appends a (non-player) entity, failing on a duplicate ID.
func (w *World) AddEntity(e *Entity) error {
	if e == nil {
		return fmt.Errorf(`platformer: nil entity`)
	}
	if e.Kind == KindPlayer {
		return fmt.Errorf(`platformer: the player must be set using SetPlayer`)
	}
	if w.used(e.ID) {
		return fmt.Errorf(`platformer: duplicate id: %d`, e.ID)
	}
	w.entities = append(w.entities, e)
	w.index[e.ID] = e
	w.reserve(e.ID)
	return nil
}

// RemoveEntity removes the entity with the given ID, returning false if it wasn't present. The relative order of
// the remaining entities is preserved.
func (w *World) RemoveEntity(id ID) bool {
	if _, ok := w.index[id]; !ok {
		return false
	}
	delete(w.index, id)
	for i, e := range w.entities {
		if e.ID == id {
			copy(w.entities[i:], w.entities[i+1:])
			w.entities[len(w.entities)-1] = nil
			w.entities = w.entities[:len(w.entities)-1]
			break
		}
	}
	return true
}

// Contains reports if a (non-player) entity with the given ID is present.
func (w *World) Contains(id ID) bool {
	_, ok := w.index[id]
	return ok
}

// Entity returns the (non-player) entity with the given ID, or nil.
func (w *World) Entity(id ID) *Entity { return w.index[id] }

// Len is the number of (non-player) entities.
func (w *World) Len() int { return len(w.entities) }

// Entities returns a snapshot of the (non-player) entities, in iteration order. The slice is safe to range over
// while removing entities from the world, though callers must check Contains to skip removed entries.
func (w *World) Entities() []*Entity { return append([]*Entity(nil), w.entities...) }

// Each calls fn with each entity still present in the world, in iteration order, until it returns false. The
// iteration is over a snapshot, removals during iteration never skip or duplicate unvisited entities.
func (w *World) Each(fn func(e *Entity) bool) {
	for _, e := range w.Entities() {
		if !w.Contains(e.ID) {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

func (w *World) used(id ID) bool {
	if w.player != nil && w.player.ID == id {
		return true
	}
	_, ok := w.index[id]
	return ok
}

func (w *World) reserve(id ID) {
	if id > w.nextID {
		w.nextID = id
	}
}
