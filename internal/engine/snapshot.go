package engine

import (
	"math"
	"time"

	"github.com/sadopc/tock/internal/countto"
	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/timefmt"
)

// Snapshot is what the presentation layer renders from.
type Snapshot struct {
	Mode    settings.Mode
	State   State
	Seconds float64
	// Display is the main readout: the value, or the count-to target while
	// entering one.
	Display string
	// Centis is the hundredths tail of the value.
	Centis string
	// Initial is the Timer duration. Zero in Stopwatch mode.
	Initial int
	// Target is the progress indicator's full-scale value.
	Target int

	IsCountTo  bool
	CountTo    int
	HasCountTo bool
	// CountToRemaining previews the duration a count-to Timer would run if
	// started now.
	CountToRemaining int
	Buffer           string

	Running    bool
	Editing    bool
	HasStarted bool
	Finished   bool
	FinishedAt time.Time
	ShowReset  bool
	Progress   float64
	At         time.Time
}

func (e *Engine) snapshotLocked(now time.Time) Snapshot {
	s := Snapshot{
		Mode:       e.mode,
		State:      e.state,
		Seconds:    e.seconds,
		Display:    timefmt.Clock(e.seconds),
		Centis:     timefmt.Centis(e.seconds),
		IsCountTo:  e.isCountTo,
		CountTo:    e.countTo,
		HasCountTo: e.hasCountTo,
		Buffer:     e.buffer,
		Running:    e.state == StateRunning,
		Editing:    e.state == StateEditing,
		HasStarted: e.state.HasStarted(),
		Finished:   e.finished,
		FinishedAt: e.finishedAt,
		At:         now,
	}
	if e.mode == settings.ModeTimer {
		s.Initial = e.timerInitial
		s.Target = e.target
		if e.isCountTo {
			s.CountToRemaining = countto.Remaining(e.countTo, now)
			if s.Editing {
				s.Display = timefmt.TimeOfDay(e.countTo)
			}
		}
		s.ShowReset = s.Running || e.seconds != float64(e.timerInitial)
	} else {
		s.Target = 60
		s.ShowReset = s.Running || e.seconds > 0
	}
	s.Progress = progress(s)
	return s
}

// progress is the filled fraction of the indicator. A Timer shows the value
// against its target once started and a full ring before; a zero target
// shows full. A Stopwatch sweeps once per minute.
func progress(s Snapshot) float64 {
	if s.Mode == settings.ModeStopwatch {
		return math.Mod(s.Seconds, 60) / 60
	}
	if s.Target <= 0 {
		return 1
	}
	secs := float64(s.Initial)
	if s.HasStarted {
		secs = s.Seconds
	}
	return math.Min(math.Max(secs/float64(s.Target), 0), 1)
}

// FlashOn reports whether the finish indicator is in its highlighted phase
// at now.
func (s Snapshot) FlashOn(now time.Time, interval time.Duration) bool {
	if !s.Finished || interval <= 0 {
		return false
	}
	phase := now.Sub(s.FinishedAt) / interval
	return phase%2 == 0
}

// Subtext is the secondary readout: the duration (or count-to preview)
// while not running, and the finer tail while running.
func (s Snapshot) Subtext() string {
	if s.Mode == settings.ModeStopwatch {
		return "." + s.Centis
	}
	if s.Running || s.HasStarted {
		if s.Seconds > 3600 {
			return ":" + twoDigits(int(s.Seconds)%60)
		}
		return "." + s.Centis
	}
	if s.IsCountTo {
		return "/" + timefmt.Compact(float64(s.CountToRemaining))
	}
	return "/" + timefmt.Compact(float64(s.Initial))
}

func twoDigits(n int) string {
	return string([]byte{byte('0' + n/10%10), byte('0' + n%10)})
}
