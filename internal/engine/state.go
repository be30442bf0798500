package engine

import (
	"time"

	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/timefmt"
)

// State is the lifecycle position of the engine.
type State int

const (
	// StateIdle is not running and not started since the last reset.
	StateIdle State = iota
	// StateEditing has the digit buffer open. Never running.
	StateEditing
	// StateRunning is counting.
	StateRunning
	// StatePaused is stopped with progress retained.
	StatePaused
)

var stateNames = map[State]string{
	StateIdle:    "idle",
	StateEditing: "editing",
	StateRunning: "running",
	StatePaused:  "paused",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// HasStarted reports whether the state carries progress from a start.
func (s State) HasStarted() bool {
	return s == StateRunning || s == StatePaused
}

// DeriveElapsed returns the display value at now for a run anchored at
// anchor with value base. Timer mode counts down from base and floors at 0;
// Stopwatch mode counts up from base and caps at the display maximum. The
// value is recomputed from the anchor every time, so late or missed ticks
// never accumulate error.
func DeriveElapsed(mode settings.Mode, anchor time.Time, base float64, now time.Time) float64 {
	since := now.Sub(anchor).Seconds()
	if since < 0 {
		since = 0
	}
	if mode == settings.ModeStopwatch {
		return timefmt.ClampSeconds(base + since)
	}
	return timefmt.ClampSeconds(base - since)
}
