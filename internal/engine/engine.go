// Package engine is the timer/stopwatch state machine.
//
// The engine is the single writer of timer state. Every operation is a short
// synchronous transform guarded by one mutex, so callers on different
// goroutines are serialized. Operations that are illegal in the current
// state are ignored and report false. The engine never schedules anything
// itself: whoever drives the display calls Tick while Running.
package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sadopc/tock/internal/countto"
	"github.com/sadopc/tock/internal/digits"
	"github.com/sadopc/tock/internal/logfields"
	"github.com/sadopc/tock/internal/metrics"
	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

// DefaultFlashInterval is how often the finished indicator alternates.
const DefaultFlashInterval = 500 * time.Millisecond

// Journal receives runs as they end.
type Journal interface {
	RecordRun(store.Run) (*store.Run, error)
}

// Options configures optional collaborators. Zero values select real time,
// no metrics, no journal and the default logger.
type Options struct {
	Clock         clockwork.Clock
	Recorder      metrics.Recorder
	Journal       Journal
	Logger        *slog.Logger
	SessionID     string
	FlashInterval time.Duration
}

// Engine owns mode, value and lifecycle state.
type Engine struct {
	mu       sync.Mutex
	clock    clockwork.Clock
	settings *settings.Store
	recorder metrics.Recorder
	journal  Journal
	logger   *slog.Logger
	session  string
	flash    time.Duration

	mode         settings.Mode
	state        State
	seconds      float64
	timerInitial int
	target       int
	isCountTo    bool
	countTo      int
	hasCountTo   bool
	buffer       string

	// Running anchor: the display value was base at anchor.
	anchor time.Time
	base   float64

	finished   bool
	finishedAt time.Time

	// Current run, from a fresh start until reset, finish or mode change.
	runStartedAt time.Time
	runStartSecs float64
	runTarget    int
}

// New seeds an engine from s, falling back to defaults for anything absent.
func New(s *settings.Store, opts Options) *Engine {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.FlashInterval <= 0 {
		opts.FlashInterval = DefaultFlashInterval
	}

	s.Initialize()
	e := &Engine{
		clock:    opts.Clock,
		settings: s,
		recorder: opts.Recorder,
		journal:  opts.Journal,
		logger:   opts.Logger,
		session:  opts.SessionID,
		flash:    opts.FlashInterval,
		mode:     s.Mode(),
		state:    StateIdle,
	}
	e.isCountTo = s.IsCountToTimer()
	if n, ok := s.CountTo(); ok {
		e.countTo, e.hasCountTo = timefmt.ClampClockMinutes(n), true
	}
	e.loadModeLocked()
	return e
}

// loadModeLocked reads the persisted value for the current mode.
func (e *Engine) loadModeLocked() {
	e.seconds = timefmt.ClampSeconds(e.settings.Seconds(e.mode))
	if e.mode == settings.ModeTimer {
		e.timerInitial = timefmt.ClampWholeSeconds(int(e.settings.TimerInitial()))
		e.target = e.timerInitial
	}
}

func (e *Engine) accept(event string) {
	e.recorder.IncEvent(event)
	e.logger.Debug("engine transition",
		logfields.Event(event),
		logfields.State(e.state.String()),
		logfields.Mode(string(e.mode)),
		logfields.Seconds(e.seconds),
	)
}

func (e *Engine) ignore(event string) bool {
	e.recorder.IncIgnored(event)
	e.logger.Debug("engine event ignored", logfields.Event(event), logfields.State(e.state.String()))
	return false
}

// syncLocked brings seconds up to date while Running.
func (e *Engine) syncLocked(now time.Time) {
	if e.state == StateRunning {
		e.seconds = DeriveElapsed(e.mode, e.anchor, e.base, now)
	}
}

func (e *Engine) stopLocked(next State) {
	e.state = next
	e.anchor = time.Time{}
	e.recorder.SetRunning(false)
}

func (e *Engine) persistSecondsLocked() {
	e.settings.SetSeconds(e.mode, e.seconds)
}

// endRunLocked journals the current run, if one is open.
func (e *Engine) endRunLocked(outcome store.Outcome, now time.Time) {
	if e.runStartedAt.IsZero() {
		return
	}
	measured := e.seconds - e.runStartSecs
	if e.mode == settings.ModeTimer {
		measured = e.runStartSecs - e.seconds
	}
	measured = max(measured, 0)
	run := store.Run{
		SessionID:      e.session,
		Mode:           string(e.mode),
		TargetSeconds:  int64(e.runTarget),
		ElapsedSeconds: measured,
		Outcome:        outcome,
		StartedAt:      e.runStartedAt,
		EndedAt:        now,
	}
	e.runStartedAt = time.Time{}
	e.recorder.ObserveRun(run.Mode, string(outcome), time.Duration(measured*float64(time.Second)))
	if e.journal == nil {
		return
	}
	if _, err := e.journal.RecordRun(run); err != nil {
		e.logger.Error("record run", logfields.Session(e.session), logfields.Error(err))
	}
}

// ChangeMode switches to m from any state. The run stops, the buffer
// closes, and the value and duration for m are reloaded from settings.
func (e *Engine) ChangeMode(m settings.Mode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !m.Valid() {
		return e.ignore("mode")
	}

	now := e.clock.Now()
	e.syncLocked(now)
	if e.state.HasStarted() {
		e.endRunLocked(store.OutcomeAbandoned, now)
	}
	e.persistSecondsLocked()

	e.stopLocked(StateIdle)
	e.buffer = ""
	e.finished = false
	e.mode = m
	e.settings.SetMode(m)
	e.loadModeLocked()
	e.accept("mode")
	return true
}

// FocusInput opens the digit buffer. Timer mode only, never while running.
// Opening the editor from Paused discards the paused run.
func (e *Engine) FocusInput() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != settings.ModeTimer || (e.state != StateIdle && e.state != StatePaused) {
		return e.ignore("focus")
	}
	if e.state == StatePaused {
		e.endRunLocked(store.OutcomeAbandoned, e.clock.Now())
	}
	e.finished = false
	e.state = StateEditing
	e.buffer = digits.Empty(digits.Width(e.isCountTo))
	e.accept("focus")
	return true
}

// BlurInput closes the digit buffer without changing the value.
func (e *Engine) BlurInput() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return e.ignore("blur")
	}
	e.state = StateIdle
	e.buffer = ""
	e.accept("blur")
	return true
}

// Digit types d into the buffer. Only legal while editing.
func (e *Engine) Digit(d rune) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing || !digits.IsDigit(d) {
		return e.ignore("digit")
	}
	e.buffer = digits.Append(e.buffer, d, digits.Width(e.isCountTo))
	e.applyBufferLocked()
	e.accept("digit")
	return true
}

// Backspace removes the most recent digit. Only legal while editing.
func (e *Engine) Backspace() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return e.ignore("backspace")
	}
	e.buffer = digits.Backspace(e.buffer, digits.Width(e.isCountTo))
	e.applyBufferLocked()
	e.accept("backspace")
	return true
}

// applyBufferLocked moves the parsed buffer into the value, the duration and
// the progress target together, or into the count-to target.
func (e *Engine) applyBufferLocked() {
	if e.isCountTo {
		e.countTo = digits.Minutes(e.buffer)
		e.hasCountTo = true
		e.settings.SetCountTo(e.countTo)
		return
	}
	secs := digits.Seconds(e.buffer)
	e.seconds = float64(secs)
	e.timerInitial = secs
	e.target = secs
	e.settings.SetTimer(e.seconds)
	e.settings.SetTimerInitial(e.timerInitial)
}

// ToggleCountTo switches between duration entry and count-to entry while
// editing, reopening the buffer at the new width.
func (e *Engine) ToggleCountTo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return e.ignore("count_to")
	}
	e.isCountTo = !e.isCountTo
	e.settings.SetIsCountToTimer(e.isCountTo)
	e.buffer = digits.Empty(digits.Width(e.isCountTo))
	e.accept("count_to")
	return true
}

// Start begins or resumes counting. An open buffer is closed first. A
// count-to Timer is resolved into a fixed duration at this moment.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startLocked()
}

func (e *Engine) startLocked() bool {
	if e.state == StateRunning {
		return e.ignore("start")
	}
	if e.state == StateEditing {
		e.state = StateIdle
		e.buffer = ""
	}
	now := e.clock.Now()
	fresh := e.state == StateIdle

	if fresh && e.mode == settings.ModeTimer && e.isCountTo {
		remaining := countto.Remaining(e.countTo, now)
		e.isCountTo = false
		e.settings.SetIsCountToTimer(false)
		e.seconds = float64(remaining)
		e.timerInitial = remaining
		e.target = remaining
		e.settings.SetTimer(e.seconds)
		e.settings.SetTimerInitial(e.timerInitial)
	}

	if (e.mode == settings.ModeTimer && e.seconds <= 0) ||
		(e.mode == settings.ModeStopwatch && e.seconds >= timefmt.MaxSeconds) {
		// Nothing left to count; a pending finish is still acknowledged.
		if e.finished {
			e.finished = false
			e.accept("acknowledge")
			return true
		}
		return e.ignore("start")
	}

	if fresh {
		e.runStartedAt = now
		e.runStartSecs = e.seconds
		e.runTarget = 0
		if e.mode == settings.ModeTimer {
			e.runTarget = e.timerInitial
		}
	}
	e.finished = false
	e.anchor = now
	e.base = e.seconds
	e.state = StateRunning
	e.recorder.SetRunning(true)
	e.accept("start")
	return true
}

// Pause stops counting and keeps the value. On a finished Timer it only
// acknowledges the finish indicator.
func (e *Engine) Pause() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pauseLocked()
}

func (e *Engine) pauseLocked() bool {
	if e.state != StateRunning {
		if e.finished {
			e.finished = false
			e.accept("acknowledge")
			return true
		}
		return e.ignore("pause")
	}
	e.syncLocked(e.clock.Now())
	e.stopLocked(StatePaused)
	e.persistSecondsLocked()
	e.accept("pause")
	return true
}

// Reset returns to Idle: a Timer goes back to its duration, a Stopwatch to
// zero. Calling it again in Idle changes nothing.
func (e *Engine) Reset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateEditing {
		return e.ignore("reset")
	}
	now := e.clock.Now()
	e.syncLocked(now)
	if e.state.HasStarted() {
		e.endRunLocked(store.OutcomeReset, now)
	}
	e.stopLocked(StateIdle)
	e.finished = false
	if e.mode == settings.ModeTimer {
		e.seconds = float64(e.timerInitial)
		e.target = e.timerInitial
	} else {
		e.seconds = 0
	}
	e.persistSecondsLocked()
	e.accept("reset")
	return true
}

// Toggle is the enter/space action: commit while editing, pause while
// running, dismiss a finish, start otherwise.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case e.state == StateEditing:
		e.state = StateIdle
		e.buffer = ""
		e.accept("blur")
		return true
	case e.state == StateRunning, e.finished:
		return e.pauseLocked()
	}
	return e.startLocked()
}

// Adjust adds delta seconds to the value, clamped to the display range.
// Before a Timer has started the duration and progress target move with
// it; afterwards only the live value moves.
func (e *Engine) Adjust(delta float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateEditing {
		return e.ignore("adjust")
	}
	now := e.clock.Now()
	e.syncLocked(now)
	e.seconds = timefmt.ClampSeconds(e.seconds + delta)

	if e.mode == settings.ModeTimer && !e.state.HasStarted() {
		e.timerInitial = timefmt.ClampWholeSeconds(e.timerInitial + int(delta))
		e.target = e.timerInitial
		e.settings.SetTimerInitial(e.timerInitial)
		if e.isCountTo {
			e.isCountTo = false
			e.settings.SetIsCountToTimer(false)
		}
	}
	if e.state == StateRunning {
		e.anchor = now
		e.base = e.seconds
	}
	if e.finished && e.seconds > 0 {
		e.finished = false
	}
	e.persistSecondsLocked()
	e.accept("adjust")
	return true
}

// Tick re-derives the value from the anchor. A Timer reaching zero stops
// and raises the finish indicator; a Stopwatch reaching the display
// maximum stops.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.clock.Now()
	if e.state != StateRunning {
		return e.snapshotLocked(now)
	}
	e.seconds = DeriveElapsed(e.mode, e.anchor, e.base, now)

	switch {
	case e.mode == settings.ModeTimer && e.seconds <= 0:
		e.seconds = 0
		e.stopLocked(StatePaused)
		e.finished = true
		e.finishedAt = now
		e.persistSecondsLocked()
		e.endRunLocked(store.OutcomeFinished, now)
		e.accept("finish")
	case e.mode == settings.ModeStopwatch && e.seconds >= timefmt.MaxSeconds:
		e.seconds = timefmt.MaxSeconds
		e.stopLocked(StatePaused)
		e.persistSecondsLocked()
		e.accept("limit")
	}
	return e.snapshotLocked(now)
}

// Sync persists the live value, e.g. before the program exits.
func (e *Engine) Sync() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.syncLocked(e.clock.Now())
	e.persistSecondsLocked()
}

// Snapshot returns the published read-only view of the engine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked(e.clock.Now())
}

// FlashInterval is the period of the finish indicator.
func (e *Engine) FlashInterval() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flash
}

// SetFlashInterval changes the finish indicator period. Non-positive values
// select DefaultFlashInterval.
func (e *Engine) SetFlashInterval(d time.Duration) {
	if d <= 0 {
		d = DefaultFlashInterval
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flash = d
}

// Mode returns the current mode.
func (e *Engine) Mode() settings.Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}
