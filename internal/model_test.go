package internal

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stopwatch_tui/internal/config"
	"stopwatch_tui/internal/laps"
	"stopwatch_tui/internal/storage"
	"stopwatch_tui/internal/timer"
)

func newTestModel(t *testing.T, dbPath string) *Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LapCapacity = 5
	cfg.DBPath = dbPath

	repo, err := storage.Open(dbPath)
	require.NoError(t, err)
	return NewModel(cfg, repo, log.NewEntry(log.New()))
}

func press(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	if key == " " {
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	} else {
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func TestSchedulerDropsCancelledTicks(t *testing.T) {
	s := newScheduler()

	s.ScheduleOnce(time.Millisecond, timer.TickToken)
	stale := MsgTimerFired{Token: timer.TickToken, Gen: s.gens[timer.TickToken]}
	assert.True(t, s.current(stale))

	s.Cancel(timer.TickToken)
	assert.False(t, s.current(stale))

	s.ScheduleOnce(time.Millisecond, timer.TickToken)
	assert.False(t, s.current(stale))
	assert.True(t, s.current(MsgTimerFired{Token: timer.TickToken, Gen: s.gens[timer.TickToken]}))
	assert.Len(t, s.cmds, 2)
}

func TestAnimatorTracksSlides(t *testing.T) {
	a := newAnimator()
	a.Animate(laps.Animation{Token: 1, Slot: 0, Duration: time.Millisecond})
	a.Animate(laps.Animation{Token: 2, Slot: 1, Duration: time.Millisecond})

	assert.Len(t, a.cmds, 3, "two completions and one frame")
	s, ok := a.slide(1)
	require.True(t, ok)
	assert.Equal(t, laps.Token(2), s.Token)

	a.done(2)
	_, ok = a.slide(1)
	assert.False(t, ok)
}

func TestSlideOffset(t *testing.T) {
	start := time.Unix(0, 0)
	s := activeSlide{
		Animation: laps.Animation{
			From:     laps.Rect{X: -10},
			To:       laps.Rect{X: 0},
			Duration: 100 * time.Millisecond,
			Delay:    100 * time.Millisecond,
			Curve:    laps.CurveLinear,
		},
		started: start,
	}

	assert.Equal(t, -10, slideOffset(s, start))
	assert.Equal(t, -10, slideOffset(s, start.Add(100*time.Millisecond)))
	assert.Equal(t, -5, slideOffset(s, start.Add(150*time.Millisecond)))
	assert.Equal(t, 0, slideOffset(s, start.Add(time.Second)))
}

func TestEaseEndpoints(t *testing.T) {
	for _, c := range []laps.Curve{laps.CurveEaseInOut, laps.CurveEaseIn, laps.CurveEaseOut, laps.CurveLinear} {
		assert.InDelta(t, 0, ease(c, 0), 1e-9, c.String())
		assert.InDelta(t, 1, ease(c, 1), 1e-9, c.String())
	}
}

func TestModelKeysDriveStopwatch(t *testing.T) {
	m := newTestModel(t, filepath.Join(t.TempDir(), "stopwatch.db"))
	defer m.Close()

	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "00:00")

	cmd := press(m, " ")
	assert.NotNil(t, cmd)
	assert.True(t, m.app.Timer.Running())

	press(m, "l")
	assert.Equal(t, 1, m.app.Laps.Total())
	require.True(t, m.app.Laps.Busy())

	press(m, "l")
	assert.Equal(t, 1, m.app.Laps.Total(), "lap dropped while sliding")

	for token := range m.anim.active {
		m.Update(MsgAnimationDone{Token: token})
	}
	assert.False(t, m.app.Laps.Busy())
	assert.Empty(t, m.anim.active)
	assert.Contains(t, m.View(), " 1) ")

	press(m, "h")
	assert.True(t, m.app.HistoryVisible())
	assert.Contains(t, m.View(), "Lap History")
	press(m, "h")
	assert.False(t, m.app.HistoryVisible())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelIgnoresStaleTick(t *testing.T) {
	m := newTestModel(t, filepath.Join(t.TempDir(), "stopwatch.db"))
	defer m.Close()

	press(m, " ")
	gen := m.sched.gens[timer.TickToken]
	press(m, " ")
	assert.False(t, m.app.Timer.Running())

	_, cmd := m.Update(MsgTimerFired{Token: timer.TickToken, Gen: gen})
	assert.Nil(t, cmd, "cancelled tick must not re-register")
}

func TestModelPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stopwatch.db")

	m := newTestModel(t, path)
	press(m, "l")
	for token := range m.anim.active {
		m.Update(MsgAnimationDone{Token: token})
	}
	press(m, "l")
	require.NoError(t, m.Close())

	reopened := newTestModel(t, path)
	defer reopened.Close()

	assert.Equal(t, 2, reopened.app.Laps.Total())
	assert.False(t, reopened.app.Laps.Busy())
	assert.True(t, strings.Contains(reopened.View(), " 2) 00:00:00.0"))
}
