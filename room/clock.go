package room

import "time"

// DefaultFrameTime is how long each animation frame is shown.
const DefaultFrameTime = 150 * time.Millisecond

// ClockMode decides what happens to the accumulator on a step.
type ClockMode uint8

const (
	// ClockReset drops the remainder when the threshold is crossed.
	ClockReset ClockMode = iota
	// ClockCarry subtracts the threshold once per step and keeps the
	// remainder.
	ClockCarry
)

// Clock accumulates frame time and reports animation steps.
type Clock struct {
	Threshold time.Duration
	Mode      ClockMode

	acc time.Duration
}

// NewClock returns a clock stepping every threshold.
func NewClock(threshold time.Duration, mode ClockMode) *Clock {
	if threshold <= 0 {
		threshold = DefaultFrameTime
	}
	return &Clock{Threshold: threshold, Mode: mode}
}

// Advance adds delta and returns how many animation steps are due. Reset mode
// reports at most one step per call; carry mode reports every whole threshold
// the accumulator holds.
func (c *Clock) Advance(delta time.Duration) int {
	if delta > 0 {
		c.acc += delta
	}
	if c.acc < c.Threshold {
		return 0
	}
	if c.Mode == ClockCarry {
		steps := int(c.acc / c.Threshold)
		c.acc -= time.Duration(steps) * c.Threshold
		return steps
	}
	c.acc = 0
	return 1
}

// Elapsed returns the accumulated time since the last step.
func (c *Clock) Elapsed() time.Duration {
	return c.acc
}

// Reset clears the accumulator. Loading a room resets its clock.
func (c *Clock) Reset() {
	c.acc = 0
}
