// Package laps keeps a fixed-capacity, newest-first history of lap splits and
// drives the slot animations that show it.
//
// Insertions and clears are animated by the host. While any of those slides
// are in flight the store reports Busy and callers are expected to drop new
// laps and resets rather than queue them, so slot contents never get ahead of
// what is on screen.
package laps

import (
	"time"

	log "github.com/sirupsen/logrus"

	"stopwatch_tui/internal/timefmt"
)

// DefaultCapacity is the number of slots kept when none is configured.
const DefaultCapacity = 20

// MaxCapacity is the largest capacity the history record can describe.
const MaxCapacity = 1<<16 - 1

// Store is a ring of lap durations. Slot 0 always holds the newest lap.
type Store struct {
	laps      []time.Duration
	total     int
	displayed int

	display  Display
	animator Animator
	layout   Layout
	duration time.Duration

	busy      int
	inFlight  map[Token]struct{}
	nextToken Token
	clearing  bool
	restoring bool

	logger *log.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithDisplay sends slot text and visibility changes to d.
func WithDisplay(d Display) Option {
	return func(s *Store) {
		s.display = d
	}
}

// WithAnimator animates insertions and clears through a. Without one every
// change is applied immediately and the store is never busy.
func WithAnimator(a Animator) Option {
	return func(s *Store) {
		s.animator = a
	}
}

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) Option {
	return func(s *Store) {
		s.layout = l
	}
}

// WithAnimationDuration overrides DefaultAnimationDuration.
func WithAnimationDuration(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.duration = d
		}
	}
}

// WithLogger sets the base log entry.
func WithLogger(l *log.Entry) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// New creates a store with room for capacity laps. Non-positive capacities
// fall back to DefaultCapacity and larger ones are clamped to MaxCapacity.
func New(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if capacity > MaxCapacity {
		capacity = MaxCapacity
	}
	s := &Store{
		laps:     make([]time.Duration, capacity),
		layout:   DefaultLayout,
		duration: DefaultAnimationDuration,
		inFlight: make(map[Token]struct{}),
		logger:   log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithField("module", "laps")
	return s
}

// Push records a lap at slot 0, evicting the oldest lap when full.
func (s *Store) Push(lap time.Duration) {
	capacity := len(s.laps)
	for i := capacity - 1; i >= 1; i-- {
		s.laps[i] = s.laps[i-1]
	}
	s.laps[0] = lap
	s.total++
	if s.displayed < capacity {
		s.displayed++
	}

	s.renderSlots()
	if s.animator != nil && !s.restoring {
		s.start(s.layout.pushAnimations(s.displayed, s.duration))
	}
}

// Clear forgets every lap. Slots are hidden once their slide-out completes.
func (s *Store) Clear() {
	shown := s.displayed
	s.total = 0
	s.displayed = 0
	for i := range s.laps {
		s.laps[i] = 0
	}

	if s.animator == nil || s.restoring || shown == 0 {
		s.hideAll()
		return
	}
	s.clearing = true
	s.start(s.layout.clearAnimations(shown, s.duration))
}

// Busy reports whether slide animations are still in flight.
func (s *Store) Busy() bool {
	return s.busy > 0
}

// InFlight returns the number of outstanding animations.
func (s *Store) InFlight() int {
	return s.busy
}

// OnAnimationDone releases one animation. Unknown or already completed tokens
// are ignored and reported as false.
func (s *Store) OnAnimationDone(token Token) bool {
	if _, ok := s.inFlight[token]; !ok {
		s.logger.WithField("token", token).Debug("laps: completion for unknown animation")
		return false
	}
	delete(s.inFlight, token)
	s.busy--

	if s.busy == 0 && s.clearing {
		s.clearing = false
		s.hideAll()
	}
	return true
}

// FormatSlot renders slot i as "<seq>) HH:MM:SS.T" where seq counts laps
// since the last clear. Empty slots render as "".
func (s *Store) FormatSlot(i int) string {
	if i < 0 || i >= s.displayed {
		return ""
	}
	return timefmt.Sequence(s.total-i) + ") " + timefmt.Clock(s.laps[i])
}

// Lap returns the duration held in slot i.
func (s *Store) Lap(i int) (time.Duration, bool) {
	if i < 0 || i >= s.displayed {
		return 0, false
	}
	return s.laps[i], true
}

// Laps returns the displayed laps, newest first.
func (s *Store) Laps() []time.Duration {
	out := make([]time.Duration, s.displayed)
	copy(out, s.laps[:s.displayed])
	return out
}

// Total is the number of laps recorded since the last clear.
func (s *Store) Total() int {
	return s.total
}

// Displayed is the number of slots holding a lap.
func (s *Store) Displayed() int {
	return s.displayed
}

func (s *Store) Capacity() int {
	return len(s.laps)
}

// Refresh re-sends every slot to the display.
func (s *Store) Refresh() {
	if s.display == nil {
		return
	}
	s.renderSlots()
	for i := s.displayed; i < len(s.laps); i++ {
		s.display.SetSlotHidden(i, true)
	}
}

func (s *Store) start(anims []Animation) {
	for _, a := range anims {
		s.nextToken++
		a.Token = s.nextToken
		s.inFlight[a.Token] = struct{}{}
		s.busy++
		s.animator.Animate(a)
	}
	s.logger.WithFields(log.Fields{"animations": len(anims), "inFlight": s.busy}).Debug("laps: animations scheduled")
}

func (s *Store) renderSlots() {
	if s.display == nil {
		return
	}
	for i := 0; i < s.displayed; i++ {
		s.display.SetSlotText(i, s.FormatSlot(i))
		s.display.SetSlotHidden(i, false)
	}
	s.display.ResizeHistory(s.displayed)
}

func (s *Store) hideAll() {
	if s.display == nil {
		return
	}
	s.display.HideAllSlots()
	s.display.ResizeHistory(s.displayed)
}
