// Package timefmt holds the display limits shared by the timer components and
// the helpers that render seconds for the terminal.
package timefmt

import (
	"fmt"
	"math"
	"time"
)

const (
	// MaxSeconds is the 99:59 display ceiling.
	MaxSeconds = 99*60 + 59
	// MaxClockMinutes is the last minute of a day (23:59).
	MaxClockMinutes = 24*60 - 1
	// MinutesPerDay is used to roll count-to targets into the next day.
	MinutesPerDay = 24 * 60
)

// ClampSeconds bounds secs to [0, MaxSeconds]. NaN maps to 0.
func ClampSeconds(secs float64) float64 {
	if math.IsNaN(secs) || secs < 0 {
		return 0
	}
	if secs > MaxSeconds {
		return MaxSeconds
	}
	return secs
}

// ClampWholeSeconds is ClampSeconds for integer durations.
func ClampWholeSeconds(secs int) int {
	return min(max(secs, 0), MaxSeconds)
}

// ClampClockMinutes bounds minutes to [0, MaxClockMinutes].
func ClampClockMinutes(minutes int) int {
	return min(max(minutes, 0), MaxClockMinutes)
}

func split(secs float64) (h, m, s int) {
	total := int(math.Floor(math.Max(secs, 0)))
	return total / 3600, (total % 3600) / 60, total % 60
}

// Clock renders secs as HH:MM when at least one hour remains, MM:SS otherwise.
func Clock(secs float64) string {
	h, m, s := split(secs)
	if h != 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Compact renders secs as 12h00 or 59m00, used for the target duration sub text.
func Compact(secs float64) string {
	h, m, s := split(secs)
	if h != 0 {
		return fmt.Sprintf("%02dh%02d", h, m)
	}
	return fmt.Sprintf("%02dm%02d", m, s)
}

// TimeOfDay renders minutes since midnight as HH:MM.
func TimeOfDay(minutes int) string {
	minutes = max(minutes, 0)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Centis returns the two-digit hundredths tail of secs.
func Centis(secs float64) string {
	if secs < 0 {
		secs = 0
	}
	_, frac := math.Modf(secs)
	return fmt.Sprintf("%02d", int(math.Floor(frac*100)))
}

// Duration renders d as HH:MM:SS.
func Duration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// Seconds is Duration for a whole number of seconds.
func Seconds(secs int64) string {
	return Duration(time.Duration(secs) * time.Second)
}

// Hours renders secs as fractional hours, e.g. 1.5h.
func Hours(secs int64) string {
	return fmt.Sprintf("%.1fh", float64(secs)/3600)
}
