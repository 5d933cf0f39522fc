package timer

import (
	"time"

	log "github.com/sirupsen/logrus"

	"stopwatch_tui/internal/timefmt"
)

// DefaultTickInterval is how often the face is refreshed while running.
const DefaultTickInterval = 100 * time.Millisecond

// HourLimit is the first elapsed value that no longer fits the hour field.
const HourLimit = (timefmt.MaxHours + 1) * time.Hour

// MaxElapsed is the value the timer freezes at once HourLimit is reached.
const MaxElapsed = HourLimit - timefmt.Resolution

// State is the persisted part of the engine. StartRef and PauseRef are clock
// readings; Elapsed and LastLapElapsed are durations.
type State struct {
	Running        bool
	StartRef       time.Duration
	Elapsed        time.Duration
	PauseRef       time.Duration
	LastLapElapsed time.Duration
}

// Engine owns the elapsed-time model and the run/pause/reset/lap transitions.
// It is driven from a single event loop and is not safe for concurrent use.
type Engine struct {
	clock    Clock
	sched    Scheduler
	laps     LapRecorder
	display  Display
	interval time.Duration
	state    State
	logger   *log.Entry
}

// Option configures an Engine.
type Option func(*Engine)

// WithDisplay renders the face after every transition.
func WithDisplay(d Display) Option {
	return func(e *Engine) {
		e.display = d
	}
}

// WithTickInterval overrides DefaultTickInterval.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.interval = d
		}
	}
}

// WithLogger sets the base log entry.
func WithLogger(l *log.Entry) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func New(clock Clock, sched Scheduler, laps LapRecorder, opts ...Option) *Engine {
	e := &Engine{
		clock:    clock,
		sched:    sched,
		laps:     laps,
		interval: DefaultTickInterval,
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithField("module", "timer")
	return e
}

// Start begins or resumes timing. Resuming shifts the start reference forward
// by the length of the pause so no accumulated time is lost.
func (e *Engine) Start() {
	if e.state.Running {
		return
	}

	now := e.clock.Now()
	if e.state.StartRef == 0 && e.state.Elapsed == 0 {
		e.state.StartRef = now
	} else {
		e.state.StartRef += now - e.state.PauseRef
	}
	e.state.Running = true
	e.sched.ScheduleOnce(e.interval, TickToken)
	e.render()
}

// Stop pauses timing and freezes the elapsed value.
func (e *Engine) Stop() {
	if !e.state.Running {
		return
	}

	now := e.clock.Now()
	e.pause(now)
	e.state.Elapsed, _ = e.capped(now)
	e.render()
}

// Toggle starts a paused timer and stops a running one.
func (e *Engine) Toggle() {
	if e.state.Running {
		e.Stop()
	} else {
		e.Start()
	}
}

// Tick refreshes the elapsed value. When the hour field would overflow the
// timer is frozen at MaxElapsed and stopped.
func (e *Engine) Tick() {
	if !e.state.Running {
		return
	}

	now := e.clock.Now()
	elapsed, full := e.capped(now)
	e.state.Elapsed = elapsed
	if full {
		e.pause(now)
	}
	e.render()
}

// OnTimerFired handles a scheduled callback. The tick re-registers itself for
// as long as the timer keeps running.
func (e *Engine) OnTimerFired(token Token) {
	if token != TickToken || !e.state.Running {
		return
	}

	e.Tick()
	if e.state.Running {
		e.sched.ScheduleOnce(e.interval, TickToken)
	}
}

// Reset zeroes the counters and clears the lap history without changing the
// run/pause state. It is dropped while the lap history is animating.
func (e *Engine) Reset() {
	if e.laps.Busy() {
		e.logger.Debug("timer: reset ignored while laps are animating")
		return
	}

	wasRunning := e.state.Running
	e.Stop()
	e.state = State{}
	e.laps.Clear()
	if wasRunning {
		e.Start()
		return
	}
	e.render()
}

// RecordLap forwards the time since the previous lap to the lap history. It
// is dropped while the lap history is animating.
func (e *Engine) RecordLap() {
	if e.laps.Busy() {
		e.logger.Debug("timer: lap ignored while laps are animating")
		return
	}

	elapsed := e.Elapsed()
	if e.state.Running {
		e.state.Elapsed = elapsed
	}
	interval := elapsed - e.state.LastLapElapsed
	e.state.LastLapElapsed = elapsed
	e.laps.Push(interval)
}

// Elapsed returns the accumulated running time.
func (e *Engine) Elapsed() time.Duration {
	if !e.state.Running {
		return e.state.Elapsed
	}
	elapsed := e.clock.Now() - e.state.StartRef
	if elapsed >= HourLimit {
		return MaxElapsed
	}
	return elapsed
}

func (e *Engine) Running() bool {
	return e.state.Running
}

// Snapshot returns the current state with Elapsed brought up to date.
func (e *Engine) Snapshot() State {
	s := e.state
	s.Elapsed = e.Elapsed()
	return s
}

// Restore replaces the engine state with s. The clock references are
// re-anchored to the current clock so that time spent while the process was
// not running is not counted; a running timer carries on from s.Elapsed.
func (e *Engine) Restore(s State) {
	if e.state.Running {
		e.sched.Cancel(TickToken)
	}

	now := e.clock.Now()
	if s.Elapsed < 0 {
		s.Elapsed = 0
	}
	if s.Elapsed > MaxElapsed {
		s.Elapsed = MaxElapsed
	}
	if s.LastLapElapsed < 0 {
		s.LastLapElapsed = 0
	}
	if s.LastLapElapsed > s.Elapsed {
		s.LastLapElapsed = s.Elapsed
	}
	s.StartRef = now - s.Elapsed
	s.PauseRef = now
	e.state = s

	if s.Running {
		e.sched.ScheduleOnce(e.interval, TickToken)
	}
	e.render()
}

// Refresh re-renders the face without changing state.
func (e *Engine) Refresh() {
	e.render()
}

// capped returns the elapsed time at now. Once HourLimit is reached the value
// is frozen at MaxElapsed and the start reference moved to match; full
// reports that case.
func (e *Engine) capped(now time.Duration) (elapsed time.Duration, full bool) {
	elapsed = now - e.state.StartRef
	if elapsed < HourLimit {
		return elapsed, false
	}
	e.logger.WithField("elapsed", elapsed).Warn("timer: hour field full, stopping")
	e.state.StartRef = now - MaxElapsed
	return MaxElapsed, true
}

func (e *Engine) pause(now time.Duration) {
	e.state.Running = false
	e.state.PauseRef = now
	e.sched.Cancel(TickToken)
}

func (e *Engine) render() {
	if e.display == nil {
		return
	}
	big, adjunct := timefmt.Face(e.Elapsed())
	e.display.ShowTime(big, adjunct)
}
