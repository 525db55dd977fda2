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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorld_nilGrid(t *testing.T) {
	assert.Panics(t, func() { NewWorld(nil) })
}

func TestWorld_AddEntity(t *testing.T) {
	w := NewWorld(NewTileGrid(2, 2))
	require.NoError(t, w.SetPlayer(NewPlayer(1, 0, 0)))

	assert.Error(t, w.AddEntity(nil))
	assert.Error(t, w.AddEntity(NewPlayer(2, 0, 0)))
	assert.Error(t, w.AddEntity(NewCoin(1, 0, 0)), `shares the player's id`)

	require.NoError(t, w.AddEntity(NewCoin(5, 0, 0)))
	assert.Error(t, w.AddEntity(NewGrub(5, 0, 0)))
	assert.Equal(t, 1, w.Len())

	// ids are allocated after the highest in use
	assert.Equal(t, ID(6), w.NextID())
	assert.Error(t, w.SetPlayer(NewPlayer(5, 0, 0)))
	assert.Error(t, w.SetPlayer(NewCoin(7, 0, 0)))
	assert.Error(t, w.SetPlayer(nil))
}

func TestWorld_RemoveEntity(t *testing.T) {
	w := NewWorld(NewTileGrid(2, 2))
	for id := ID(1); id <= 5; id++ {
		require.NoError(t, w.AddEntity(NewCoin(id, 0, 0)))
	}
	assert.True(t, w.RemoveEntity(3))
	assert.False(t, w.RemoveEntity(3))
	assert.False(t, w.Contains(3))
	assert.Nil(t, w.Entity(3))
	assert.True(t, w.RemoveEntity(1))

	var ids []ID
	for _, e := range w.Entities() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []ID{2, 4, 5}, ids)
	assert.Equal(t, ID(4), w.Entity(4).ID)
}

func TestWorld_Each_removal(t *testing.T) {
	w := NewWorld(NewTileGrid(2, 2))
	for id := ID(1); id <= 5; id++ {
		require.NoError(t, w.AddEntity(NewCoin(id, 0, 0)))
	}
	var visited []ID
	w.Each(func(e *Entity) bool {
		visited = append(visited, e.ID)
		switch e.ID {
		case 2:
			// the current and a later entity
			w.RemoveEntity(2)
			w.RemoveEntity(4)
		case 3:
			require.NoError(t, w.AddEntity(NewCoin(6, 0, 0)))
		}
		return true
	})
	assert.Equal(t, []ID{1, 2, 3, 5}, visited)
	assert.Equal(t, 4, w.Len())

	visited = nil
	w.Each(func(e *Entity) bool {
		visited = append(visited, e.ID)
		return len(visited) < 2
	})
	assert.Equal(t, []ID{1, 3}, visited)
}

func TestWorld_Entities_snapshot(t *testing.T) {
	w := NewWorld(NewTileGrid(2, 2))
	require.NoError(t, w.AddEntity(NewCoin(1, 0, 0)))
	s := w.Entities()
	w.RemoveEntity(1)
	require.Len(t, s, 1)
	assert.Equal(t, ID(1), s[0].ID)
	assert.Empty(t, w.Entities())
}

func TestWorld_SetTile(t *testing.T) {
	w := NewWorld(NewTileGrid(3, 3))
	w.SetTile(1, 2, 4)
	assert.Equal(t, Tile(4), w.Tile(1, 2))
	assert.Equal(t, NoTile, w.Tile(5, 5))
	assert.True(t, w.Grid().IsSolid(1, 2))
}
