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

	bt "github.com/joeycumines/go-behaviortree"
)

// newBrain builds the behavior tree driving a non-player creature. It is ticked once per frame, prior to the
// creature's movement, and only ever sets the creature's intent (horizontal velocity, Awake, Heading).
//
// Creatures lie dormant until the player comes within config.WakeDistance (horizontally), then walk in their
// heading at max speed. A wall stops them (the engine zeroes their velocity), after which they turn around.
func (e *Engine) newBrain(w *World, c *Entity) bt.Node {
	var (
		state = c.Creature
		walk  = func([]bt.Node) (bt.Status, error) {
			c.Vel[0] = state.Heading * state.MaxSpeed
			return bt.Success, nil
		}
	)
	return bt.New(
		bt.Sequence,
		bt.New(condition(func() bool { return c.State() == Alive })),
		bt.New(
			bt.Selector,
			// dormant
			bt.New(
				bt.Sequence,
				bt.New(condition(func() bool { return !state.Awake })),
				bt.New(func([]bt.Node) (bt.Status, error) {
					if player := w.Player(); player == nil ||
						math.Abs(player.Pos.X()-c.Pos.X()) > e.config.WakeDistance {
						return bt.Success, nil
					}
					state.Awake = true
					return walk(nil)
				}),
			),
			// turn around
			bt.New(
				bt.Sequence,
				bt.New(condition(func() bool { return state.BlockedX })),
				bt.New(func([]bt.Node) (bt.Status, error) {
					state.Heading = -state.Heading
					return walk(nil)
				}),
			),
			// patrol
			bt.New(walk),
		),
	)
}

func condition(fn func() bool) bt.Tick {
	return func([]bt.Node) (bt.Status, error) {
		if fn() {
			return bt.Success, nil
		}
		return bt.Failure, nil
	}
}
