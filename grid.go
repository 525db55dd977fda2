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
	"math"
)

const (
	// TileSize is the edge length of every tile, in pixels.
	TileSize = 64

	// NoTile marks an empty (passable) cell.
	NoTile Tile = 0
)

type (
	// Tile is a reference into the level's tile palette, where NoTile is empty and any other value is solid.
	Tile uint8

	// TileGrid is the fixed size 2D lookup of tiles for a single level. Its dimensions never change after
	// construction, the world is replaced wholesale (new grid) on level transition.
	TileGrid struct {
		width, height int
		// tiles is stored column major, i.e. tiles[x*height+y]
		tiles []Tile
	}
)

// NewTileGrid returns an empty grid of the given dimensions, which must both be positive.
func NewTileGrid(width, height int) *TileGrid {
	if width <= 0 || height <= 0 {
		panic(fmt.Errorf(`platformer.NewTileGrid invalid dimensions: %d, %d`, width, height))
	}
	return &TileGrid{
		width:  width,
		height: height,
		tiles:  make([]Tile, width*height),
	}
}

func (g *TileGrid) Width() int  { return g.width }
func (g *TileGrid) Height() int { return g.height }

// PixelWidth is the width of the grid in pixels.
func (g *TileGrid) PixelWidth() float64 { return TilesToPixels(g.width) }

// PixelHeight is the height of the grid in pixels.
func (g *TileGrid) PixelHeight() float64 { return TilesToPixels(g.height) }

// Tile returns the tile at the given tile coordinates, or NoTile if out of bounds (in any direction).
func (g *TileGrid) Tile(x, y int) Tile {
	if !g.inBounds(x, y) {
		return NoTile
	}
	return g.tiles[x*g.height+y]
}

// SetTile replaces the tile at the given tile coordinates, and will panic if they are out of bounds.
func (g *TileGrid) SetTile(x, y int, tile Tile) {
	if !g.inBounds(x, y) {
		panic(fmt.Errorf(`platformer.TileGrid.SetTile out of bounds: %d, %d`, x, y))
	}
	g.tiles[x*g.height+y] = tile
}

// IsSolid reports if the given tile blocks movement. Columns outside the grid are solid (world boundary), while
// rows above or below the grid are empty, allowing entities to fall off the bottom.
func (g *TileGrid) IsSolid(x, y int) bool {
	if x < 0 || x >= g.width {
		return true
	}
	return g.Tile(x, y) != NoTile
}

// Clone returns a deep copy of the receiver.
func (g *TileGrid) Clone() *TileGrid {
	r := *g
	r.tiles = append([]Tile(nil), g.tiles...)
	return &r
}

// Equal reports if both grids have the same dimensions and tiles.
func (g *TileGrid) Equal(o *TileGrid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.width != o.width || g.height != o.height {
		return false
	}
	for i, v := range g.tiles {
		if o.tiles[i] != v {
			return false
		}
	}
	return true
}

func (g *TileGrid) inBounds(x, y int) bool { return x >= 0 && x < g.width && y >= 0 && y < g.height }

// PixelsToTiles converts a pixel coordinate to the coordinate of the tile that contains it.
func PixelsToTiles(pixels float64) int { return int(math.Floor(pixels / TileSize)) }

// TilesToPixels converts a tile coordinate to the pixel coordinate of the tile's top / left edge.
func TilesToPixels(tiles int) float64 { return float64(tiles * TileSize) }
