package common

import "time"

// MinFrame is the shortest frame the game steps by.
const MinFrame = 16667 * time.Microsecond

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampFrame raises a measured frame time to at least floor. A non-positive
// floor falls back to MinFrame.
func ClampFrame(elapsed, floor time.Duration) time.Duration {
	if floor <= 0 {
		floor = MinFrame
	}
	if elapsed < floor {
		return floor
	}
	return elapsed
}
