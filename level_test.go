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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testLevels is a LevelSource over a fixed slice, where index 1 is the first element.
type testLevels []*Level

func (x testLevels) Level(index int) (*Level, error) {
	if index < 1 || index > len(x) {
		return nil, fmt.Errorf(`level %d: %w`, index, ErrNoMoreLevels)
	}
	if x[index-1] == nil {
		return nil, fmt.Errorf(`level %d: broken`, index)
	}
	return x[index-1], nil
}

// testLevel is a w x h level with a floor, and the given spawns.
func testLevel(w, h int, spawns ...SpawnPoint) *Level {
	floor := make([]Tile, w)
	for i := range floor {
		floor[i] = 1
	}
	l := Level{Width: w, Height: h, Tiles: make([][]Tile, h), Spawns: spawns}
	l.Tiles[h-1] = floor
	return &l
}

func TestLevels_Next(t *testing.T) {
	a, b := testLevel(4, 4), testLevel(5, 5)
	levels := NewLevels(testLevels{a, b}, zaptest.NewLogger(t))
	assert.Equal(t, 0, levels.Index())
	_, err := levels.Reload()
	assert.Error(t, err)

	for _, expected := range []*Level{a, b, a, b, a} {
		v, err := levels.Next()
		require.NoError(t, err)
		assert.Same(t, expected, v)
	}
	assert.Equal(t, 1, levels.Index())

	v, err := levels.Reload()
	require.NoError(t, err)
	assert.Same(t, a, v)
	assert.Equal(t, 1, levels.Index())
}

func TestLevels_Next_brokenWraps(t *testing.T) {
	a := testLevel(4, 4)
	levels := NewLevels(testLevels{a, nil, testLevel(5, 5)}, zaptest.NewLogger(t))
	for i := 0; i < 3; i++ {
		v, err := levels.Next()
		require.NoError(t, err)
		assert.Same(t, a, v)
		assert.Equal(t, 1, levels.Index())
	}
}

func TestLevels_Next_noLevels(t *testing.T) {
	for _, tc := range []struct {
		Name   string
		Source testLevels
	}{
		{`empty`, nil},
		{`broken`, testLevels{nil, testLevel(4, 4)}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			levels := NewLevels(tc.Source, nil)
			v, err := levels.Next()
			assert.Nil(t, v)
			assert.True(t, errors.Is(err, ErrNoLevels), err)
			assert.Equal(t, 0, levels.Index())
		})
	}
}

func TestNewLevels_nilSource(t *testing.T) {
	assert.Panics(t, func() { NewLevels(nil, nil) })
}

func TestBuildWorld(t *testing.T) {
	level := testLevel(6, 4,
		SpawnPoint{Kind: KindCoin, TileX: 1, TileY: 1},
		SpawnPoint{Kind: KindGrub, TileX: 3, TileY: 2},
		SpawnPoint{Kind: KindDoor, TileX: 5, TileY: 2},
	)
	level.Tiles[1] = []Tile{0, 0, 0, 0, 0, 9}

	w, err := BuildWorld(level)
	require.NoError(t, err)

	assert.Equal(t, 6, w.Grid().Width())
	assert.Equal(t, 4, w.Grid().Height())
	assert.Equal(t, Tile(1), w.Tile(0, 3))
	assert.Equal(t, Tile(9), w.Tile(5, 1))
	assert.Equal(t, NoTile, w.Tile(4, 1))

	entities := w.Entities()
	require.Len(t, entities, 3)
	for i, tc := range []struct {
		Kind Kind
		X, Y float64
	}{
		{KindCoin, 64 + 20, 128 - 24},
		{KindGrub, 192 + 12, 192 - 24},
		{KindDoor, 320 + 8, 192 - 64},
	} {
		assert.Equal(t, tc.Kind, entities[i].Kind, i)
		assert.Equal(t, tc.X, entities[i].Pos.X(), i)
		assert.Equal(t, tc.Y, entities[i].Pos.Y(), i)
	}

	player := w.Player()
	require.NotNil(t, player)
	assert.Equal(t, KindPlayer, player.Kind)
	assert.Equal(t, TilesToPixels(2), player.Pos.X())
	assert.Equal(t, 0.0, player.Pos.Y())

	ids := map[ID]bool{player.ID: true}
	for _, e := range entities {
		assert.False(t, ids[e.ID], e.ID)
		ids[e.ID] = true
	}

	// independent worlds
	w2, err := BuildWorld(level)
	require.NoError(t, err)
	assert.Equal(t, w.Snapshot(), w2.Snapshot())
	w2.Player().Pos[0] = 5
	w2.SetTile(0, 0, 3)
	assert.NotEqual(t, w.Snapshot(), w2.Snapshot())
}

func TestBuildWorld_invalid(t *testing.T) {
	for _, tc := range []struct {
		Name  string
		Level *Level
	}{
		{`nil`, nil},
		{`zero width`, &Level{Width: 0, Height: 1}},
		{`too many rows`, &Level{Width: 1, Height: 1, Tiles: [][]Tile{{1}, {1}}}},
		{`row too wide`, &Level{Width: 1, Height: 1, Tiles: [][]Tile{{1, 1}}}},
		{`player spawn`, &Level{Width: 1, Height: 1, Spawns: []SpawnPoint{{Kind: KindPlayer}}}},
		{`unknown spawn`, &Level{Width: 1, Height: 1, Spawns: []SpawnPoint{{Kind: Kind(42)}}}},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			w, err := BuildWorld(tc.Level)
			assert.Error(t, err)
			assert.Nil(t, w)
		})
	}
}
