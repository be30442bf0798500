// Package countto resolves a "count down until the clock reads HH:MM" target
// into an ordinary duration.
package countto

import (
	"time"

	"github.com/sadopc/tock/internal/timefmt"
)

// Remaining returns the whole seconds until targetMinutes (minutes since
// midnight) next occurs after now, rolling into the next day when the target
// has already passed. Both sides use minute granularity, so the result only
// changes once per minute. It is capped at the display maximum.
func Remaining(targetMinutes int, now time.Time) int {
	target := timefmt.ClampClockMinutes(targetMinutes)
	current := now.Hour()*60 + now.Minute()
	delta := target - current
	if delta < 0 {
		delta += timefmt.MinutesPerDay
	}
	return min(delta*60, timefmt.MaxSeconds)
}

// At returns the wall-clock time at which targetMinutes next occurs after now.
func At(targetMinutes int, now time.Time) time.Time {
	target := timefmt.ClampClockMinutes(targetMinutes)
	t := time.Date(now.Year(), now.Month(), now.Day(), target/60, target%60, 0, 0, now.Location())
	if t.Hour()*60+t.Minute() < now.Hour()*60+now.Minute() {
		t = t.AddDate(0, 0, 1)
	}
	return t
}
