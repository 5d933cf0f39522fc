package laps

import "time"

// DefaultAnimationDuration is the length of one slot slide.
const DefaultAnimationDuration = 250 * time.Millisecond

// Token identifies one in-flight slide animation.
type Token uint32

// Curve is the easing applied to a slide.
type Curve int

const (
	CurveEaseInOut Curve = iota
	CurveEaseIn
	CurveEaseOut
	CurveLinear
)

func (c Curve) String() string {
	switch c {
	case CurveEaseIn:
		return "ease-in"
	case CurveEaseOut:
		return "ease-out"
	case CurveLinear:
		return "linear"
	default:
		return "ease-in-out"
	}
}

// Rect is a slot position in display cells.
type Rect struct {
	X, Y, W, H int
}

// Layout places slot rows on the display.
type Layout struct {
	Top       int
	RowHeight int
	Width     int
}

// DefaultLayout is a single-line row per slot.
var DefaultLayout = Layout{Top: 0, RowHeight: 1, Width: 16}

// Row returns the resting rectangle of slot i.
func (l Layout) Row(i int) Rect {
	return Rect{X: 0, Y: l.Top + i*l.RowHeight, W: l.Width, H: l.RowHeight}
}

// Animation asks the host to slide a slot from one rectangle to another. The
// host must report completion exactly once through Store.OnAnimationDone.
type Animation struct {
	Token    Token
	Slot     int
	From     Rect
	To       Rect
	Duration time.Duration
	Delay    time.Duration
	Curve    Curve
}

// Animator schedules slide animations on the host.
type Animator interface {
	Animate(a Animation)
}

// Display receives slot render requests.
type Display interface {
	SetSlotText(slot int, text string)
	SetSlotHidden(slot int, hidden bool)
	HideAllSlots()
	ResizeHistory(rows int)
}

// pushAnimations slides every visible slot down one row and brings the new
// lap in at the top once the shift is done.
func (l Layout) pushAnimations(displayed int, d time.Duration) []Animation {
	if displayed == 0 {
		return nil
	}
	anims := make([]Animation, 0, displayed)
	for i := displayed - 1; i >= 1; i-- {
		anims = append(anims, Animation{
			Slot:     i,
			From:     l.Row(i - 1),
			To:       l.Row(i),
			Duration: d,
			Curve:    CurveEaseInOut,
		})
	}
	from := l.Row(0)
	from.X = -l.Width
	anims = append(anims, Animation{
		Slot:     0,
		From:     from,
		To:       l.Row(0),
		Duration: d,
		Delay:    d,
		Curve:    CurveEaseOut,
	})
	return anims
}

// clearAnimations slides every visible slot off to the right.
func (l Layout) clearAnimations(displayed int, d time.Duration) []Animation {
	anims := make([]Animation, 0, displayed)
	for i := 0; i < displayed; i++ {
		to := l.Row(i)
		to.X += l.Width
		anims = append(anims, Animation{
			Slot:     i,
			From:     l.Row(i),
			To:       to,
			Duration: d,
			Curve:    CurveEaseIn,
		})
	}
	return anims
}
