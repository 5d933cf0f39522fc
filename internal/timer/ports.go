package timer

import "time"

// Token identifies a scheduled callback.
type Token uint32

// TickToken is the token the engine registers its display refresh under.
const TickToken Token = 1

// Clock is a monotonic time source. Now returns the time since an arbitrary
// origin fixed for the lifetime of the process.
type Clock interface {
	Now() time.Duration
}

// Scheduler registers one-shot callbacks with the host event loop. The host
// delivers a fired token back through Engine.OnTimerFired.
type Scheduler interface {
	ScheduleOnce(delay time.Duration, token Token)
	Cancel(token Token)
}

// Display receives the rendered face of the stopwatch.
type Display interface {
	ShowTime(big, adjunct string)
}

// LapRecorder is the lap history the engine feeds. Busy reports whether a
// visual transition is still in flight, in which case laps and resets are
// dropped.
type LapRecorder interface {
	Push(interval time.Duration)
	Clear()
	Busy() bool
}

// MonotonicClock measures time from its creation.
type MonotonicClock struct {
	origin time.Time
}

func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{origin: time.Now()}
}

func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration {
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.now += d
}

// Set moves the clock to an absolute reading.
func (c *ManualClock) Set(d time.Duration) {
	c.now = d
}
