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

package audio

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/joeycumines/go-platformer"
	"github.com/joeycumines/go-platformer/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// drain reads all samples from a finite streamer, returning the count and peak amplitude.
func drain(t *testing.T, s beep.Streamer) (n int, peak float64) {
	t.Helper()
	buf := make([][2]float64, 512)
	for i := 0; i < 10000; i++ {
		m, ok := s.Stream(buf)
		for _, v := range buf[:m] {
			peak = math.Max(peak, math.Max(math.Abs(v[0]), math.Abs(v[1])))
		}
		n += m
		if !ok {
			return
		}
	}
	t.Fatal(`streamer didn't end`)
	return
}

func samples(cue platformer.Cue) (n int) {
	for _, v := range melodies[cue] {
		n += SampleRate.N(v.Duration)
	}
	return
}

func TestRender(t *testing.T) {
	for _, cue := range []platformer.Cue{
		platformer.CueJump,
		platformer.CueCoin,
		platformer.CueDoor,
		platformer.CueImpact,
		platformer.CueDeath,
		platformer.CueMusic,
	} {
		t.Run(cue.String(), func(t *testing.T) {
			s, err := Render(cue)
			require.NoError(t, err)
			n, peak := drain(t, s)
			assert.Equal(t, samples(cue), n)
			assert.Greater(t, peak, 0.0)
			assert.LessOrEqual(t, peak, 0.25+1e-9)
			assert.Greater(t, Duration(cue), time.Duration(0))
		})
	}
}

func TestRender_unknown(t *testing.T) {
	_, err := Render(platformer.Cue(0))
	assert.Error(t, err)
	assert.Equal(t, time.Duration(0), Duration(platformer.Cue(0)))
}

func TestSink_Cue(t *testing.T) {
	p := pool.New(1)
	out := make(chan beep.Streamer, 10)
	s := New(p, WithOutput(func(s beep.Streamer) { out <- s }), WithLogger(zaptest.NewLogger(t)))

	var sink platformer.Sink = s
	sink.Cue(platformer.CueCoin)
	sink.Cue(platformer.Cue(99))
	sink.Cue(platformer.CueJump)
	p.Join()

	require.Len(t, out, 2)
	for _, cue := range []platformer.Cue{platformer.CueCoin, platformer.CueJump} {
		t.Run(fmt.Sprint(cue), func(t *testing.T) {
			n, _ := drain(t, <-out)
			assert.Equal(t, samples(cue), n)
		})
	}

	// dropped once the pool is closed
	sink.Cue(platformer.CueCoin)
	assert.Len(t, out, 0)
}

func TestNew_nilPool(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
