// Package timefmt splits durations into display fields and renders them into
// the fixed-width strings used by the stopwatch face and the lap slots.
package timefmt

import "time"

// Resolution is the smallest unit shown on screen.
const Resolution = 100 * time.Millisecond

// MaxHours is the largest hour value the two-digit hour field can hold.
const MaxHours = 99

const digits = "0123456789"

// Parts is a duration truncated into display fields.
type Parts struct {
	Hours   int
	Minutes int
	Seconds int
	Tenths  int
}

// Split truncates d into hours, minutes, seconds and tenths. Negative
// durations are treated as zero. Hours are not capped here.
func Split(d time.Duration) Parts {
	if d < 0 {
		d = 0
	}
	tenths := int64(d / Resolution)
	secs := tenths / 10
	return Parts{
		Hours:   int(secs / 3600),
		Minutes: int((secs / 60) % 60),
		Seconds: int(secs % 60),
		Tenths:  int(tenths % 10),
	}
}

// Itoa1 renders the last decimal digit of n.
func Itoa1(n int) string {
	if n < 0 {
		n = -n
	}
	return string(digits[n%10])
}

// Itoa2 renders n as two zero-padded digits, saturating at "99".
func Itoa2(n int) string {
	if n > 99 {
		return "99"
	}
	if n < 0 {
		n = 0
	}
	return string([]byte{digits[n/10], digits[n%10]})
}

// Clock renders d as "HH:MM:SS.T".
func Clock(d time.Duration) string {
	p := Split(d)
	return Itoa2(p.Hours) + ":" + Itoa2(p.Minutes) + ":" + Itoa2(p.Seconds) + "." + Itoa1(p.Tenths)
}

// Face returns the big time field and its adjunct. Once hours are running the
// big field shows "HH:MM" with ":SS" beside it, before that "MM:SS" and ".T".
func Face(d time.Duration) (big, adjunct string) {
	p := Split(d)
	if p.Hours > 0 {
		return Itoa2(p.Hours) + ":" + Itoa2(p.Minutes), ":" + Itoa2(p.Seconds)
	}
	return Itoa2(p.Minutes) + ":" + Itoa2(p.Seconds), "." + Itoa1(p.Tenths)
}

// Sequence renders a lap number into a two character field, replacing a
// leading zero with a space.
func Sequence(n int) string {
	s := []byte(Itoa2(n))
	if s[0] == '0' {
		s[0] = ' '
	}
	return string(s)
}
