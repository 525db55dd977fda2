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

// Package level implements the text level format, and a level source backed by a file system.
//
// Each line of a level file is a row of tiles, where lines starting with '#' are comments. The width of the level
// is the length of its longest line. The characters 'A' to 'Z' are tiles (palette entries 1 to 26), 'o' is a coin,
// '*' is a door, '1' is a grub, '2' is a bat, and '3' is a hound. Anything else is empty space.
package level

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joeycumines/go-platformer"
)

type (
	// Source loads levels from files in a file system, where the file name for each level is formatted using
	// Pattern and the level's index, e.g. "maps/map%d.txt".
	Source struct {
		fsys    fs.FS
		pattern string
	}
)

var (
	spawnRunes = map[rune]platformer.Kind{
		'o': platformer.KindCoin,
		'*': platformer.KindDoor,
		'1': platformer.KindGrub,
		'2': platformer.KindBat,
		'3': platformer.KindHound,
	}
)

var (
	_ platformer.LevelSource = (*Source)(nil)
)

// NewSource returns a level source reading files from fsys, named using pattern.
func NewSource(fsys fs.FS, pattern string) *Source {
	if fsys == nil {
		panic(fmt.Errorf(`level.NewSource nil fsys`))
	}
	if !strings.Contains(pattern, `%d`) {
		panic(fmt.Errorf(`level.NewSource invalid pattern: %q`, pattern))
	}
	return &Source{fsys: fsys, pattern: pattern}
}

// Level implements platformer.LevelSource, a missing file is reported as platformer.ErrNoMoreLevels.
func (s *Source) Level(index int) (*platformer.Level, error) {
	name := fmt.Sprintf(s.pattern, index)
	f, err := s.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(`level: %s: %w`, name, platformer.ErrNoMoreLevels)
		}
		return nil, fmt.Errorf(`level: %w`, err)
	}
	defer f.Close()
	level, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf(`level: %s: %w`, name, err)
	}
	return level, nil
}

// Parse reads a single level.
func Parse(r io.Reader) (*platformer.Level, error) {
	var (
		lines   [][]rune
		width   int
		scanner = bufio.NewScanner(r)
	)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, `#`) {
			continue
		}
		runes := []rune(line)
		lines = append(lines, runes)
		width = max(width, len(runes))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if width == 0 || len(lines) == 0 {
		return nil, fmt.Errorf(`empty level`)
	}

	level := platformer.Level{
		Width:  width,
		Height: len(lines),
		Tiles:  make([][]platformer.Tile, len(lines)),
	}
	for y, line := range lines {
		row := make([]platformer.Tile, len(line))
		for x, ch := range line {
			if ch >= 'A' && ch <= 'Z' {
				row[x] = platformer.Tile(ch-'A') + 1
			} else if kind, ok := spawnRunes[ch]; ok {
				level.Spawns = append(level.Spawns, platformer.SpawnPoint{Kind: kind, TileX: x, TileY: y})
			}
		}
		level.Tiles[y] = row
	}
	return &level, nil
}
