package sched

import (
	"errors"
	"fmt"
	"math"
)

// ErrHorizonOverflow is returned when the hyperperiod does not fit in an int64.
var ErrHorizonOverflow = errors.New("horizon overflows int64")

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm returns the least common multiple of two positive values, or false on overflow.
func lcm(a, b int64) (int64, bool) {
	q := a / gcd(a, b)
	if q > math.MaxInt64/b {
		return 0, false
	}
	return q * b, true
}

// Horizon returns the hyperperiod of the given periods: their least common multiple,
// or 1 for an empty set. Periods must be positive.
func Horizon(periods []int64) (int64, error) {
	h := int64(1)
	for _, p := range periods {
		if p <= 0 {
			return 0, fmt.Errorf("period %d: must be positive", p)
		}
		next, ok := lcm(h, p)
		if !ok {
			return 0, fmt.Errorf("lcm(%d, %d): %w", h, p, ErrHorizonOverflow)
		}
		h = next
	}
	return h, nil
}

// TaskHorizon is Horizon over the periods of a task set.
func TaskHorizon(tasks []Task) (int64, error) {
	periods := make([]int64, len(tasks))
	for i, t := range tasks {
		periods[i] = t.Period
	}
	return Horizon(periods)
}
