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

	"github.com/vmihailenco/msgpack/v5"
)

type (
	// Snapshot is a detached copy of the state of a world, suitable for presentation, or for comparing runs.
	Snapshot struct {
		Level    int           `msgpack:"level"`
		Score    int           `msgpack:"score"`
		Width    int           `msgpack:"width"`
		Height   int           `msgpack:"height"`
		Tiles    []Tile        `msgpack:"tiles"`
		Player   EntityState   `msgpack:"player"`
		Entities []EntityState `msgpack:"entities"`
	}

	EntityState struct {
		ID     ID        `msgpack:"id"`
		Kind   Kind      `msgpack:"kind"`
		X      float64   `msgpack:"x"`
		Y      float64   `msgpack:"y"`
		VX     float64   `msgpack:"vx"`
		VY     float64   `msgpack:"vy"`
		Width  int32     `msgpack:"w"`
		Height int32     `msgpack:"h"`
		State  Lifecycle `msgpack:"state"`
	}
)

// Snapshot captures the grid and entities, the Level and Score fields are left zero, see Game.Snapshot.
func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Width:  w.grid.width,
		Height: w.grid.height,
		Tiles:  append([]Tile(nil), w.grid.tiles...),
	}
	if w.player != nil {
		s.Player = entityState(w.player)
	}
	s.Entities = make([]EntityState, 0, len(w.entities))
	for _, e := range w.entities {
		s.Entities = append(s.Entities, entityState(e))
	}
	return s
}

// Encode returns the msgpack encoding of the receiver.
func (s Snapshot) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf(`platformer: encode snapshot: %w`, err)
	}
	return b, nil
}

// DecodeSnapshot is the inverse of Snapshot.Encode.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return Snapshot{}, fmt.Errorf(`platformer: decode snapshot: %w`, err)
	}
	return s, nil
}

func entityState(e *Entity) EntityState {
	return EntityState{
		ID:     e.ID,
		Kind:   e.Kind,
		X:      e.Pos.X(),
		Y:      e.Pos.Y(),
		VX:     e.Vel.X(),
		VY:     e.Vel.Y(),
		Width:  e.Width,
		Height: e.Height,
		State:  e.State(),
	}
}
