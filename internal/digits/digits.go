// Package digits converts the cash-register style digit buffer typed by the
// user into a bounded duration or time of day.
//
// A buffer is always kept left-padded with '0' to its width: six digits
// (HHMMSS) for a duration, four (HHMM) for a count-to time of day. New digits
// enter on the right and the oldest fall off the left. Backspace removes the
// most recent digit and shifts the rest right. Every buffer maps to a valid,
// clamped value; there is no invalid input state.
package digits

import (
	"strings"

	"github.com/sadopc/tock/internal/timefmt"
)

const (
	// DurationWidth is the buffer width for HH:MM:SS entry.
	DurationWidth = 6
	// ClockWidth is the buffer width for HH:MM count-to entry.
	ClockWidth = 4
)

// Width selects the buffer width for the current entry variant.
func Width(countTo bool) int {
	if countTo {
		return ClockWidth
	}
	return DurationWidth
}

// Empty returns an all-zero buffer of the given width.
func Empty(width int) string {
	return strings.Repeat("0", width)
}

// Pad left-pads buf with '0' to width. Longer buffers keep their last width characters.
func Pad(buf string, width int) string {
	if len(buf) > width {
		return buf[len(buf)-width:]
	}
	return strings.Repeat("0", width-len(buf)) + buf
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// Append pushes d onto the right of buf, dropping the leftmost digits beyond
// width. Non-digits leave the buffer unchanged (apart from padding).
func Append(buf string, d rune, width int) string {
	if !IsDigit(d) {
		return Pad(buf, width)
	}
	return Pad(buf+string(d), width)
}

// Backspace removes the most recent digit and re-pads.
func Backspace(buf string, width int) string {
	if buf != "" {
		buf = buf[:len(buf)-1]
	}
	return Pad(buf, width)
}

func pair(buf string, i int) int {
	return int(buf[i]-'0')*10 + int(buf[i+1]-'0')
}

func sanitize(buf string, width int) string {
	b := []byte(Pad(buf, width))
	for i, c := range b {
		if c < '0' || c > '9' {
			b[i] = '0'
		}
	}
	return string(b)
}

// Seconds parses a duration buffer as HH*3600+MM*60+SS, clamped to the display maximum.
func Seconds(buf string) int {
	b := sanitize(buf, DurationWidth)
	return timefmt.ClampWholeSeconds(pair(b, 0)*3600 + pair(b, 2)*60 + pair(b, 4))
}

// Minutes parses a count-to buffer as HH*60+MM, clamped to a valid time of day.
func Minutes(buf string) int {
	b := sanitize(buf, ClockWidth)
	return timefmt.ClampClockMinutes(pair(b, 0)*60 + pair(b, 2))
}
