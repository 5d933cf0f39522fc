package internal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"stopwatch_tui/internal/config"
	"stopwatch_tui/internal/laps"
	"stopwatch_tui/internal/stopwatch"
	"stopwatch_tui/internal/storage"
	"stopwatch_tui/internal/timer"
)

// frameInterval paces redraws while a slot is sliding.
const frameInterval = 33 * time.Millisecond

// MsgTimerFired is delivered when a scheduled tick comes due. Gen lets the
// model drop ticks that were cancelled after being scheduled.
type MsgTimerFired struct {
	Token timer.Token
	Gen   uint64
}

// MsgAnimationDone is delivered once per finished slot slide.
type MsgAnimationDone struct {
	Token laps.Token
}

// MsgFrame asks for a redraw of in-flight slides.
type MsgFrame struct{}

// scheduler implements timer.Scheduler with tea.Tick commands.
type scheduler struct {
	gens map[timer.Token]uint64
	cmds []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{gens: make(map[timer.Token]uint64)}
}

func (s *scheduler) ScheduleOnce(delay time.Duration, token timer.Token) {
	s.gens[token]++
	gen := s.gens[token]
	s.cmds = append(s.cmds, tea.Tick(delay, func(time.Time) tea.Msg {
		return MsgTimerFired{Token: token, Gen: gen}
	}))
}

func (s *scheduler) Cancel(token timer.Token) {
	s.gens[token]++
}

func (s *scheduler) current(msg MsgTimerFired) bool {
	return s.gens[msg.Token] == msg.Gen
}

// activeSlide is an animation together with the time it was requested.
type activeSlide struct {
	laps.Animation
	started time.Time
}

// animator implements laps.Animator. Completion is reported after the
// animation's delay plus duration.
type animator struct {
	active  map[laps.Token]activeSlide
	cmds    []tea.Cmd
	now     func() time.Time
	drawing bool
}

func newAnimator() *animator {
	return &animator{active: make(map[laps.Token]activeSlide), now: time.Now}
}

func (a *animator) Animate(anim laps.Animation) {
	a.active[anim.Token] = activeSlide{Animation: anim, started: a.now()}
	token := anim.Token
	a.cmds = append(a.cmds, tea.Tick(anim.Delay+anim.Duration, func(time.Time) tea.Msg {
		return MsgAnimationDone{Token: token}
	}))
	if !a.drawing {
		a.drawing = true
		a.cmds = append(a.cmds, frame())
	}
}

func (a *animator) done(token laps.Token) {
	delete(a.active, token)
}

// slide returns the in-flight animation for slot, if any.
func (a *animator) slide(slot int) (activeSlide, bool) {
	for _, s := range a.active {
		if s.Slot == slot {
			return s, true
		}
	}
	return activeSlide{}, false
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return MsgFrame{}
	})
}

type Model struct {
	app    *stopwatch.App
	repo   *storage.Repository
	sched  *scheduler
	anim   *animator
	screen *screen
	logger *log.Entry

	historyScroll int
}

// NewModel builds the stopwatch and restores its state from repo.
func NewModel(cfg *config.Config, repo *storage.Repository, logger *log.Entry) *Model {
	m := &Model{
		repo:   repo,
		sched:  newScheduler(),
		anim:   newAnimator(),
		screen: newScreen(cfg.LapCapacity),
		logger: logger.WithField("module", "tui"),
	}
	m.app = stopwatch.New(timer.NewMonotonicClock(), m.sched, m.anim, m.screen, stopwatch.Options{
		LapCapacity:       cfg.LapCapacity,
		TickInterval:      cfg.TickInterval,
		AnimationDuration: cfg.AnimationDuration,
		Logger:            logger,
	})
	m.app.Load(repo)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.pending()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTimerFired:
		if m.sched.current(msg) {
			m.app.OnTimerFired(msg.Token)
		}
	case MsgAnimationDone:
		m.anim.done(msg.Token)
		m.app.OnAnimationDone(msg.Token)
	case MsgFrame:
		if len(m.anim.active) > 0 {
			m.anim.cmds = append(m.anim.cmds, frame())
		} else {
			m.anim.drawing = false
		}
	case tea.KeyMsg:
		if quit := m.handleKeyMsg(msg); quit {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, m.pending()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) bool {
	if m.app.HistoryVisible() {
		switch msg.String() {
		case "up", "k":
			if m.historyScroll > 0 {
				m.historyScroll--
			}
			return false
		case "down", "j":
			if m.historyScroll < m.app.Laps.Displayed()-1 {
				m.historyScroll++
			}
			return false
		case "esc":
			m.app.Press(stopwatch.ButtonHistory)
			return false
		}
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return true
	case " ", "enter":
		m.app.Press(stopwatch.ButtonRunPause)
	case "r", "down":
		m.app.Press(stopwatch.ButtonReset)
	case "l", "up":
		m.app.Press(stopwatch.ButtonLap)
	case "h":
		m.historyScroll = 0
		m.app.Press(stopwatch.ButtonHistory)
	}
	return false
}

// pending collects the commands the ports queued during the last event.
func (m *Model) pending() tea.Cmd {
	cmds := append(m.sched.cmds, m.anim.cmds...)
	m.sched.cmds = nil
	m.anim.cmds = nil
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Close persists the stopwatch state and closes the repository. A failed save
// is logged and reported but the repository is closed regardless.
func (m *Model) Close() error {
	saveErr := m.app.Save(m.repo)
	if err := m.repo.Close(); err != nil {
		m.logger.WithError(err).Error("tui: closing database")
		return err
	}
	return saveErr
}
