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

	"go.uber.org/zap"
)

type (
	// Level is the parsed form of a level, as provided by a LevelSource.
	Level struct {
		Width, Height int
		// Tiles is indexed by row then column, i.e. Tiles[y][x], rows may be shorter than Width
		Tiles  [][]Tile
		Spawns []SpawnPoint
	}

	// SpawnPoint is an instruction to place an entity of the given kind, in the given tile.
	SpawnPoint struct {
		Kind         Kind
		TileX, TileY int
	}

	// LevelSource provides levels by (1-based) index, and must return an error wrapping ErrNoMoreLevels if there
	// is no level at the given index.
	LevelSource interface {
		Level(index int) (*Level, error)
	}

	// LevelSourceFunc implements LevelSource.
	LevelSourceFunc func(index int) (*Level, error)

	// Levels tracks the position within a LevelSource, wrapping back to the first level at the end.
	Levels struct {
		source  LevelSource
		current int
		logger  *zap.Logger
	}
)

var (
	// ErrNoMoreLevels indicates the end of the level sequence.
	ErrNoMoreLevels = errors.New(`platformer: no more levels`)

	// ErrNoLevels indicates that not even the first level could be loaded, which is fatal.
	ErrNoLevels = errors.New(`platformer: no levels`)
)

func (f LevelSourceFunc) Level(index int) (*Level, error) { return f(index) }

// NewLevels wraps the given source, the logger may be nil.
func NewLevels(source LevelSource, logger *zap.Logger) *Levels {
	if source == nil {
		panic(fmt.Errorf(`platformer.NewLevels nil source`))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Levels{source: source, logger: logger}
}

// Index is the (1-based) index of the current level, or 0 if Next has never succeeded.
func (l *Levels) Index() int { return l.current }

// Next loads the level after the current one. Failure to load any level other than the first is treated as the
// end of the sequence, and wraps back to the first level. Failure to load the first level returns an error
// wrapping ErrNoLevels.
func (l *Levels) Next() (*Level, error) {
	for {
		l.current++
		level, err := l.source.Level(l.current)
		if err == nil {
			l.logger.Debug(`level loaded`, zap.Int(`level`, l.current))
			return level, nil
		}
		if l.current == 1 {
			l.current = 0
			return nil, fmt.Errorf(`%w: %w`, ErrNoLevels, err)
		}
		if !errors.Is(err, ErrNoMoreLevels) {
			l.logger.Warn(`level load failed, wrapping to first level`, zap.Int(`level`, l.current), zap.Error(err))
		} else {
			l.logger.Debug(`end of levels, wrapping`, zap.Int(`level`, l.current))
		}
		l.current = 0
	}
}

// Reload loads the current level again.
func (l *Levels) Reload() (*Level, error) {
	if l.current == 0 {
		return nil, fmt.Errorf(`platformer: no current level`)
	}
	level, err := l.source.Level(l.current)
	if err != nil {
		return nil, fmt.Errorf(`platformer: reload level %d: %w`, l.current, err)
	}
	return level, nil
}

// BuildWorld creates a new world from the level. Spawned entities are centered horizontally, and bottom justified,
// within their tile. The player starts at the top of the third column.
func BuildWorld(level *Level) (*World, error) {
	if level == nil || level.Width <= 0 || level.Height <= 0 {
		return nil, fmt.Errorf(`platformer: invalid level`)
	}
	grid := NewTileGrid(level.Width, level.Height)
	for y, row := range level.Tiles {
		if y >= level.Height {
			return nil, fmt.Errorf(`platformer: level has %d rows, exceeding height %d`, len(level.Tiles), level.Height)
		}
		for x, tile := range row {
			if x >= level.Width {
				return nil, fmt.Errorf(`platformer: level row %d exceeds width %d`, y, level.Width)
			}
			grid.SetTile(x, y, tile)
		}
	}
	w := NewWorld(grid)
	for _, sp := range level.Spawns {
		a, ok := ArchetypeOf(sp.Kind)
		if !ok || sp.Kind == KindPlayer {
			return nil, fmt.Errorf(`platformer: invalid spawn kind %d at %d, %d`, sp.Kind, sp.TileX, sp.TileY)
		}
		e, err := Spawn(
			sp.Kind,
			w.NextID(),
			TilesToPixels(sp.TileX)+float64(TileSize-a.Width)/2,
			TilesToPixels(sp.TileY+1)-float64(a.Height),
		)
		if err != nil {
			return nil, err
		}
		if err := w.AddEntity(e); err != nil {
			return nil, err
		}
	}
	if err := w.SetPlayer(NewPlayer(w.NextID(), TilesToPixels(2), 0)); err != nil {
		return nil, err
	}
	return w, nil
}
