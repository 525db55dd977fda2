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

// Package replay records the input and timing of a game session, so that it may be played back deterministically.
package replay

import (
	"fmt"
	"io"
	"time"

	"github.com/joeycumines/go-platformer"
	"github.com/vmihailenco/msgpack/v5"
)

type (
	// Frame is the input to a single Game.Step.
	Frame struct {
		Elapsed time.Duration     `msgpack:"t"`
		Intent  platformer.Intent `msgpack:"i"`
	}

	// Recording is an ordered sequence of frames.
	Recording struct {
		Frames []Frame `msgpack:"frames"`
	}

	// Recorder wraps a Game, recording the input to every step.
	Recorder struct {
		game      *platformer.Game
		recording Recording
	}
)

// NewRecorder wraps game, which must be non-nil.
func NewRecorder(game *platformer.Game) *Recorder {
	if game == nil {
		panic(fmt.Errorf(`replay.NewRecorder nil game`))
	}
	return &Recorder{game: game}
}

// Step records then forwards to Game.Step.
func (r *Recorder) Step(input platformer.Intent, elapsed time.Duration) (platformer.Transition, error) {
	r.recording.Frames = append(r.recording.Frames, Frame{Elapsed: elapsed, Intent: input})
	return r.game.Step(input, elapsed)
}

// Game returns the wrapped game.
func (r *Recorder) Game() *platformer.Game { return r.game }

// Recording returns a copy of the frames recorded so far.
func (r *Recorder) Recording() Recording {
	return Recording{Frames: append([]Frame(nil), r.recording.Frames...)}
}

// Encode writes the msgpack encoding of the recording to w.
func (x Recording) Encode(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(&x); err != nil {
		return fmt.Errorf(`replay: encode: %w`, err)
	}
	return nil
}

// Decode reads a recording written by Recording.Encode.
func Decode(r io.Reader) (Recording, error) {
	var x Recording
	if err := msgpack.NewDecoder(r).Decode(&x); err != nil {
		return Recording{}, fmt.Errorf(`replay: decode: %w`, err)
	}
	return x, nil
}

// Run plays the recording through a new game, loaded from source, returning the final snapshot. Options are passed
// to platformer.NewGame, and must configure the game identically to the recorded one for the results to match.
func Run(source platformer.LevelSource, recording Recording, opts ...platformer.Option) (platformer.Snapshot, error) {
	game, err := platformer.NewGame(source, opts...)
	if err != nil {
		return platformer.Snapshot{}, err
	}
	for i, frame := range recording.Frames {
		if _, err := game.Step(frame.Intent, frame.Elapsed); err != nil {
			return platformer.Snapshot{}, fmt.Errorf(`replay: frame %d: %w`, i, err)
		}
	}
	return game.Snapshot(), nil
}
