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

const (
	TransitionNone Transition = iota
	// TransitionRestart indicates the player died, and the current level must be reloaded.
	TransitionRestart
	// TransitionAdvance indicates the player reached a door, and the next level must be loaded.
	TransitionAdvance
)

const (
	CueJump Cue = iota + 1
	CueCoin
	CueDoor
	CueImpact
	CueDeath
	CueMusic
)

type (
	// Transition is the outcome of a frame, which the driving loop acts on.
	Transition uint8

	// Intent is the state of the logical input actions, for a single frame. Jump and Exit should report only the
	// initial press, not held repeats.
	Intent struct {
		Left  bool `msgpack:"l"`
		Right bool `msgpack:"r"`
		Jump  bool `msgpack:"j"`
		Exit  bool `msgpack:"x"`
	}

	// InputSource is the input collaborator, polled once per frame.
	InputSource interface {
		Intent() Intent
	}

	// InputSourceFunc implements InputSource.
	InputSourceFunc func() Intent

	// Cue is a fire and forget notification for the audio / visual layer.
	Cue uint8

	// Sink receives cues, it must not block, and nothing depends on what it does.
	Sink interface {
		Cue(cue Cue)
	}

	// SinkFunc implements Sink.
	SinkFunc func(cue Cue)

	nopSink struct{}
)

var (
	// NopSink discards all cues.
	NopSink Sink = nopSink{}
)

func (f InputSourceFunc) Intent() Intent { return f() }

func (f SinkFunc) Cue(cue Cue) { f(cue) }

func (nopSink) Cue(Cue) {}

func (t Transition) String() string {
	switch t {
	case TransitionNone:
		return `none`
	case TransitionRestart:
		return `restart`
	case TransitionAdvance:
		return `advance`
	default:
		return fmt.Sprintf(`transition(%d)`, uint8(t))
	}
}

func (c Cue) String() string {
	switch c {
	case CueJump:
		return `jump`
	case CueCoin:
		return `coin`
	case CueDoor:
		return `door`
	case CueImpact:
		return `impact`
	case CueDeath:
		return `death`
	case CueMusic:
		return `music`
	default:
		return fmt.Sprintf(`cue(%d)`, uint8(c))
	}
}
