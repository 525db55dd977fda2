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

// Package audio plays game cues as short, procedurally generated sounds.
package audio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/joeycumines/go-platformer"
	"github.com/joeycumines/go-platformer/pool"
	"go.uber.org/zap"
)

const (
	// SampleRate is used for all generated sounds.
	SampleRate = beep.SampleRate(44100)
)

type (
	// Sink implements platformer.Sink, rendering each cue on a worker pool, then handing it to an output func.
	Sink struct {
		pool   *pool.Pool
		output func(s beep.Streamer)
		logger *zap.Logger
	}

	// Option configures a Sink.
	Option func(s *Sink)

	// note is a single tone in a cue's melody, where a zero Freq is a rest
	note struct {
		Freq     float64
		Duration time.Duration
	}
)

var (
	_ platformer.Sink = (*Sink)(nil)

	melodies = map[platformer.Cue][]note{
		platformer.CueJump:   {{440, 40 * time.Millisecond}, {660, 60 * time.Millisecond}},
		platformer.CueCoin:   {{988, 60 * time.Millisecond}, {1319, 140 * time.Millisecond}},
		platformer.CueDoor:   {{523, 90 * time.Millisecond}, {659, 90 * time.Millisecond}, {784, 90 * time.Millisecond}, {1047, 180 * time.Millisecond}},
		platformer.CueImpact: {{110, 60 * time.Millisecond}, {82, 80 * time.Millisecond}},
		platformer.CueDeath:  {{392, 120 * time.Millisecond}, {0, 30 * time.Millisecond}, {330, 120 * time.Millisecond}, {0, 30 * time.Millisecond}, {262, 300 * time.Millisecond}},
		platformer.CueMusic:  {{262, 150 * time.Millisecond}, {330, 150 * time.Millisecond}, {392, 150 * time.Millisecond}, {523, 300 * time.Millisecond}},
	}

	speakerOnce sync.Once
	speakerErr  error
)

// Init initialises the speaker, it's safe to call multiple times.
func Init() error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(SampleRate, SampleRate.N(time.Second/10))
	})
	return speakerErr
}

// WithOutput replaces the output func, which defaults to speaker.Play (see Init).
func WithOutput(output func(s beep.Streamer)) Option {
	return func(s *Sink) {
		if output != nil {
			s.output = output
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Sink, which will submit work to p.
func New(p *pool.Pool, opts ...Option) *Sink {
	if p == nil {
		panic(fmt.Errorf(`audio.New nil pool`))
	}
	s := &Sink{
		pool:   p,
		output: func(streamer beep.Streamer) { speaker.Play(streamer) },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cue implements platformer.Sink.
func (s *Sink) Cue(cue platformer.Cue) {
	if err := s.pool.Submit(func(ctx context.Context) {
		if ctx.Err() != nil {
			return
		}
		streamer, err := Render(cue)
		if err != nil {
			s.logger.Warn(`cue render failed`, zap.Stringer(`cue`, cue), zap.Error(err))
			return
		}
		s.output(streamer)
	}); err != nil {
		s.logger.Debug(`cue dropped`, zap.Stringer(`cue`, cue), zap.Error(err))
	}
}

// Render builds the (finite) streamer for a cue.
func Render(cue platformer.Cue) (beep.Streamer, error) {
	melody, ok := melodies[cue]
	if !ok {
		return nil, fmt.Errorf(`audio: unknown cue: %s`, cue)
	}
	streamers := make([]beep.Streamer, 0, len(melody))
	for _, n := range melody {
		samples := SampleRate.N(n.Duration)
		if n.Freq == 0 {
			streamers = append(streamers, beep.Silence(samples))
			continue
		}
		tone, err := generators.SineTone(SampleRate, n.Freq)
		if err != nil {
			return nil, fmt.Errorf(`audio: %s: %w`, cue, err)
		}
		streamers = append(streamers, beep.Take(samples, tone))
	}
	return &effects.Gain{Streamer: beep.Seq(streamers...), Gain: -0.75}, nil
}

// Duration returns the length of the sound for a cue, or 0 if it's unknown.
func Duration(cue platformer.Cue) (d time.Duration) {
	for _, n := range melodies[cue] {
		d += n.Duration
	}
	return
}
