// Package stopwatch ties the timer engine and the lap history together and
// reacts to the three events the host delivers: button presses, fired
// timers and finished animations.
package stopwatch

import (
	"time"

	log "github.com/sirupsen/logrus"

	"stopwatch_tui/internal/laps"
	"stopwatch_tui/internal/storage"
	"stopwatch_tui/internal/timer"
)

// LongPressThreshold is how long the lap button has to be held to open the
// history instead of recording a lap.
const LongPressThreshold = 700 * time.Millisecond

type Button int

const (
	ButtonRunPause Button = iota
	ButtonReset
	ButtonLap
	ButtonHistory
)

func (b Button) String() string {
	switch b {
	case ButtonRunPause:
		return "run/pause"
	case ButtonReset:
		return "reset"
	case ButtonLap:
		return "lap"
	case ButtonHistory:
		return "history"
	default:
		return "unknown"
	}
}

// ClassifyLapPress maps a press of the lap button held for the given time to
// the button it stands for.
func ClassifyLapPress(held time.Duration) Button {
	if held >= LongPressThreshold {
		return ButtonHistory
	}
	return ButtonLap
}

// Screen is everything the core renders to.
type Screen interface {
	timer.Display
	laps.Display
	ShowHistory(visible bool)
}

// Records is the persistent key/value store state is saved to.
type Records interface {
	Read(key storage.Key) ([]byte, bool, error)
	Write(key storage.Key, data []byte) error
}

type Options struct {
	LapCapacity       int
	TickInterval      time.Duration
	AnimationDuration time.Duration
	Logger            *log.Entry
}

type App struct {
	Timer *timer.Engine
	Laps  *laps.Store

	screen         Screen
	historyVisible bool
	logger         *log.Entry
}

// New wires an engine and a lap store to the host ports. animator and screen
// may be nil for headless use.
func New(clock timer.Clock, sched timer.Scheduler, animator laps.Animator, screen Screen, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}

	lapOpts := []laps.Option{
		laps.WithAnimationDuration(opts.AnimationDuration),
		laps.WithLogger(logger),
	}
	timerOpts := []timer.Option{
		timer.WithTickInterval(opts.TickInterval),
		timer.WithLogger(logger),
	}
	if animator != nil {
		lapOpts = append(lapOpts, laps.WithAnimator(animator))
	}
	if screen != nil {
		lapOpts = append(lapOpts, laps.WithDisplay(screen))
		timerOpts = append(timerOpts, timer.WithDisplay(screen))
	}

	store := laps.New(opts.LapCapacity, lapOpts...)
	return &App{
		Timer:  timer.New(clock, sched, store, timerOpts...),
		Laps:   store,
		screen: screen,
		logger: logger.WithField("module", "stopwatch"),
	}
}

// Press handles a button press.
func (a *App) Press(b Button) {
	a.logger.WithField("button", b).Debug("stopwatch: button pressed")

	switch b {
	case ButtonRunPause:
		a.Timer.Toggle()
	case ButtonReset:
		a.Timer.Reset()
	case ButtonLap:
		a.Timer.RecordLap()
	case ButtonHistory:
		a.historyVisible = !a.historyVisible
		if a.screen != nil {
			a.screen.ShowHistory(a.historyVisible)
			a.screen.ResizeHistory(a.Laps.Displayed())
		}
	}
}

// OnTimerFired forwards a fired scheduler token.
func (a *App) OnTimerFired(token timer.Token) {
	a.Timer.OnTimerFired(token)
}

// OnAnimationDone forwards a finished animation.
func (a *App) OnAnimationDone(token laps.Token) {
	a.Laps.OnAnimationDone(token)
}

func (a *App) HistoryVisible() bool {
	return a.historyVisible
}

// Load restores persisted state. Missing, unreadable or undecodable records
// leave the corresponding part at its zero state.
func (a *App) Load(r Records) {
	if data, found, err := r.Read(storage.KeyLapHistory); err != nil {
		a.logger.WithError(err).Warn("stopwatch: could not read lap history")
	} else if found {
		if err := a.Laps.Restore(data, a.Laps.Push); err != nil {
			a.logger.WithError(err).Warn("stopwatch: discarding lap history")
		}
	}

	if data, found, err := r.Read(storage.KeyTimerState); err != nil {
		a.logger.WithError(err).Warn("stopwatch: could not read timer state")
	} else if found {
		if err := a.Timer.Deserialize(data); err != nil {
			a.logger.WithError(err).Warn("stopwatch: discarding timer state")
		}
	}

	a.Laps.Refresh()
	a.Timer.Refresh()
	a.logger.WithFields(log.Fields{
		"running": a.Timer.Running(),
		"elapsed": a.Timer.Elapsed(),
		"laps":    a.Laps.Total(),
	}).Info("stopwatch: state loaded")
}

// Save persists timer and lap state. Failures are logged; the first one is
// returned so the caller can report it, but both records are always
// attempted.
func (a *App) Save(r Records) error {
	var first error

	if err := r.Write(storage.KeyTimerState, a.Timer.Serialize()); err != nil {
		a.logger.WithError(err).Error("stopwatch: could not save timer state")
		first = err
	}
	if err := r.Write(storage.KeyLapHistory, a.Laps.Serialize()); err != nil {
		a.logger.WithError(err).Error("stopwatch: could not save lap history")
		if first == nil {
			first = err
		}
	}
	return first
}
