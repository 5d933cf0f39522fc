package internal

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"stopwatch_tui/internal/laps"
)

// mainSlots is how many laps fit under the face on the main screen.
const mainSlots = 3

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	adjunctStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	lapHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	lapStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// screen holds what the core last asked to be rendered. It implements
// stopwatch.Screen.
type screen struct {
	big     string
	adjunct string
	slots   []string
	hidden  []bool
	rows    int
	history bool
}

func newScreen(capacity int) *screen {
	s := &screen{
		big:     "00:00",
		adjunct: ".0",
		slots:   make([]string, capacity),
		hidden:  make([]bool, capacity),
	}
	for i := range s.hidden {
		s.hidden[i] = true
	}
	return s
}

func (s *screen) ShowTime(big, adjunct string) {
	s.big = big
	s.adjunct = adjunct
}

func (s *screen) SetSlotText(slot int, text string) {
	if slot >= 0 && slot < len(s.slots) {
		s.slots[slot] = text
	}
}

func (s *screen) SetSlotHidden(slot int, hidden bool) {
	if slot >= 0 && slot < len(s.hidden) {
		s.hidden[slot] = hidden
	}
}

func (s *screen) HideAllSlots() {
	for i := range s.hidden {
		s.hidden[i] = true
	}
}

func (s *screen) ResizeHistory(rows int) {
	s.rows = rows
}

func (s *screen) ShowHistory(visible bool) {
	s.history = visible
}

func (m *Model) View() string {
	if m.screen.history {
		return m.historyView()
	}
	return m.mainView()
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(40).Render("Stopwatch"))
	sb.WriteString("\n\n")

	face := timerDisplayStyle
	status := inactiveStyle.Render("Paused")
	if m.app.Timer.Running() {
		face = timerRunningStyle
		status = timerRunningStyle.Render("Running")
	}
	sb.WriteString(boxStyle.Width(40).Render(
		face.Render(m.screen.big) + adjunctStyle.Render(m.screen.adjunct) + "\n" + status,
	))
	sb.WriteString("\n")

	var list strings.Builder
	list.WriteString(lapHeaderStyle.Render("Laps"))
	for i := 0; i < mainSlots && i < len(m.screen.slots); i++ {
		list.WriteString("\n")
		list.WriteString(m.slotLine(i))
	}
	sb.WriteString(boxStyle.Width(40).Render(list.String()))
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Run/Pause: Space | Lap: l | Reset: r | History: h | Quit: q"))

	return sb.String()
}

func (m *Model) historyView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(40).Render("Lap History"))
	sb.WriteString("\n\n")

	rows := m.screen.rows
	if rows == 0 {
		sb.WriteString(boxStyle.Width(40).Render(inactiveStyle.Render("No laps yet.")))
	} else {
		start := m.historyScroll
		if start >= rows {
			start = rows - 1
		}
		var list strings.Builder
		for i := start; i < rows && i < len(m.screen.slots); i++ {
			if i > start {
				list.WriteString("\n")
			}
			list.WriteString(m.slotLine(i))
		}
		sb.WriteString(boxStyle.Width(40).Render(list.String()))
	}
	sb.WriteString("\n\n")
	sb.WriteString(helpStyle.Render("Scroll: Up/Down | Back: h/Esc | Quit: q"))

	return sb.String()
}

// slotLine renders one lap slot, offset horizontally while it is sliding.
func (m *Model) slotLine(slot int) string {
	if m.screen.hidden[slot] {
		return ""
	}
	text := lapStyle.Render(m.screen.slots[slot])

	s, ok := m.anim.slide(slot)
	if !ok {
		return text
	}
	x := slideOffset(s, m.anim.now())
	if x > 0 {
		return strings.Repeat(" ", x) + text
	}
	if x < 0 {
		cut := -x
		plain := m.screen.slots[slot]
		if cut >= len(plain) {
			return ""
		}
		return lapStyle.Render(plain[cut:])
	}
	return text
}

// slideOffset is the horizontal position of a slide at now.
func slideOffset(s activeSlide, now time.Time) int {
	p := 1.0
	if s.Duration > 0 {
		p = float64(now.Sub(s.started)-s.Delay) / float64(s.Duration)
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	p = ease(s.Curve, p)
	return s.From.X + int(float64(s.To.X-s.From.X)*p)
}

func ease(c laps.Curve, p float64) float64 {
	switch c {
	case laps.CurveLinear:
		return p
	case laps.CurveEaseIn:
		return p * p
	case laps.CurveEaseOut:
		return p * (2 - p)
	default:
		if p < 0.5 {
			return 2 * p * p
		}
		return -1 + (4-2*p)*p
	}
}
