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
	"math"
)

type (
	// rect is an axis aligned rectangle in whole pixels.
	rect struct{ X, Y, W, H int32 }
)

func (s rect) collides(o rect) bool {
	if s.W <= 0 || s.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	if s.X >= o.X+o.W || o.X >= s.X+s.W {
		return false
	}
	if s.Y+s.H <= o.Y || o.Y+o.H <= s.Y {
		return false
	}
	return true
}

func entityRect(e *Entity) rect {
	x, y := e.RoundPosition()
	return rect{x, y, e.Width, e.Height}
}

// TileCollision checks a proposed move of e to newX, newY, against the grid. The swept bounds (union of the current
// and proposed bounding boxes) are scanned for the first solid tile, in raster order: left to right, then top to
// bottom within each column. The scan order is deterministic, and the receiver is never modified.
func TileCollision(grid *TileGrid, e *Entity, newX, newY float64) (tileX, tileY int, ok bool) {
	var (
		x, y     = e.Pos.X(), e.Pos.Y()
		fromTile = PixelsToTiles(min(x, newX))
		toTile   = PixelsToTiles(max(x, newX) + float64(e.Width) - 1)
		fromRow  = PixelsToTiles(min(y, newY))
		toRow    = PixelsToTiles(max(y, newY) + float64(e.Height) - 1)
	)
	for tx := fromTile; tx <= toTile; tx++ {
		for ty := fromRow; ty <= toRow; ty++ {
			if grid.IsSolid(tx, ty) {
				return tx, ty, true
			}
		}
	}
	return 0, 0, false
}

// Overlaps is the sprite vs sprite test, on bounding boxes rounded to whole pixels. An entity never overlaps itself,
// and creatures that aren't alive don't overlap anything.
func Overlaps(a, b *Entity) bool {
	if a == nil || b == nil || a == b || a.ID == b.ID {
		return false
	}
	if !a.Alive() || !b.Alive() {
		return false
	}
	return entityRect(a).collides(entityRect(b))
}

// Overlapping returns the first entity in w (in iteration order) that overlaps e, or nil.
func (w *World) Overlapping(e *Entity) *Entity {
	for _, o := range w.entities {
		if Overlaps(e, o) {
			return o
		}
	}
	return nil
}

func roundPixel(v float64) int32 { return int32(math.Round(v)) }
