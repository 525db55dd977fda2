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
	"time"

	"go.uber.org/zap"
)

type (
	// Config models the physics and rule constants, zero values are replaced by defaults, see DefaultConfig.
	Config struct {
		// Gravity is the downward acceleration, in pixels per millisecond squared
		Gravity float64
		// JumpSpeed is the vertical velocity set by a jump or a bounce, in pixels per millisecond (negative is up)
		JumpSpeed float64
		// DieTime is how long creatures spend dying, unless their Visual implements DeathTimer
		DieTime time.Duration
		// WakeDistance is the horizontal distance from the player, in pixels, at which dormant creatures wake
		WakeDistance float64
		// FallMargin is how far below the bottom of the grid, in pixels, a creature's top edge may fall before it
		// dies, note that it's not defaulted (zero is valid), and negative values are invalid
		FallMargin float64
	}

	// Option configures an Engine or a Game.
	Option interface {
		applyOption(c *options) error
	}

	optionFunc func(c *options) error

	options struct {
		config Config
		sink   Sink
		logger *zap.Logger
	}
)

const (
	DefaultGravity      = 0.002
	DefaultJumpSpeed    = -0.95
	DefaultDieTime      = time.Second
	DefaultWakeDistance = TileSize * 10
)

// DefaultConfig returns the Config used for zero values.
func DefaultConfig() Config {
	return Config{
		Gravity:      DefaultGravity,
		JumpSpeed:    DefaultJumpSpeed,
		DieTime:      DefaultDieTime,
		WakeDistance: DefaultWakeDistance,
	}
}

// WithConfig sets the physics and rule constants.
func WithConfig(config Config) Option {
	return optionFunc(func(c *options) error {
		if config.Gravity == 0 {
			config.Gravity = DefaultGravity
		}
		if config.JumpSpeed == 0 {
			config.JumpSpeed = DefaultJumpSpeed
		}
		if config.DieTime == 0 {
			config.DieTime = DefaultDieTime
		}
		if config.WakeDistance == 0 {
			config.WakeDistance = DefaultWakeDistance
		}
		if config.Gravity < 0 || config.JumpSpeed > 0 || config.DieTime < 0 || config.WakeDistance < 0 || config.FallMargin < 0 {
			return fmt.Errorf(`platformer: invalid config: %+v`, config)
		}
		c.config = config
		return nil
	})
}

// WithSink sets the receiver of audio / visual cues.
func WithSink(sink Sink) Option {
	return optionFunc(func(c *options) error {
		if sink == nil {
			return fmt.Errorf(`platformer: nil sink`)
		}
		c.sink = sink
		return nil
	})
}

// WithLogger sets the logger, which defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return optionFunc(func(c *options) error {
		if logger == nil {
			return fmt.Errorf(`platformer: nil logger`)
		}
		c.logger = logger
		return nil
	})
}

func (f optionFunc) applyOption(c *options) error { return f(c) }

func newOptions(opts []Option) (*options, error) {
	c := options{
		config: DefaultConfig(),
		sink:   NopSink,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyOption(&c); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
