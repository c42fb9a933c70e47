// internal/sched/tickclock.go

package sched

// TickClock counts discrete time units up to a fixed horizon.
type TickClock struct {
	now     int64
	horizon int64
}

// NewTickClock creates a clock at time 0 that stops at horizon.
func NewTickClock(horizon int64) *TickClock {
	return &TickClock{horizon: horizon}
}

// Now returns the current time unit.
func (c *TickClock) Now() int64 { return c.now }

// Horizon returns the first time unit that is not simulated.
func (c *TickClock) Horizon() int64 { return c.horizon }

// Running reports whether the current time unit is still inside the horizon.
func (c *TickClock) Running() bool { return c.now < c.horizon }

// Advance moves to the next time unit.
func (c *TickClock) Advance() { c.now++ }
