package engine

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

type fakeJournal struct {
	runs []store.Run
	err  error
}

func (j *fakeJournal) RecordRun(r store.Run) (*store.Run, error) {
	if j.err != nil {
		return nil, j.err
	}
	j.runs = append(j.runs, r)
	return &r, nil
}

type harness struct {
	engine   *Engine
	clock    *clockwork.FakeClock
	settings *settings.Store
	backend  *settings.Memory
	journal  *fakeJournal
}

func newHarness(t *testing.T, seed map[string]string) *harness {
	t.Helper()
	mem := settings.NewMemory()
	for k, v := range seed {
		require.NoError(t, mem.Store(k, v))
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := settings.New(mem, logger)
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.March, 14, 9, 0, 0, 0, time.Local))
	j := &fakeJournal{}
	e := New(st, Options{Clock: clock, Journal: j, Logger: logger, SessionID: "test"})
	return &harness{engine: e, clock: clock, settings: st, backend: mem, journal: j}
}

func stopwatchHarness(t *testing.T) *harness {
	return newHarness(t, map[string]string{"mode": "stopwatch"})
}

// ============================================================
// Construction
// ============================================================

func TestNewUsesDefaults(t *testing.T) {
	h := newHarness(t, nil)
	s := h.engine.Snapshot()
	assert.Equal(t, settings.ModeTimer, s.Mode)
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, 300.0, s.Seconds)
	assert.Equal(t, 300, s.Initial)
	assert.Equal(t, "05:00", s.Display)
	assert.False(t, s.ShowReset)

	v, ok, _ := h.backend.Lookup("timerInitial")
	assert.True(t, ok)
	assert.Equal(t, "300", v)
}

func TestNewSeedsFromSettings(t *testing.T) {
	h := newHarness(t, map[string]string{
		"mode":      "stopwatch",
		"stopwatch": "42.5",
	})
	s := h.engine.Snapshot()
	assert.Equal(t, settings.ModeStopwatch, s.Mode)
	assert.Equal(t, 42.5, s.Seconds)
	assert.Equal(t, "50", s.Centis)
}

func TestNewClampsPersistedValues(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "100000", "timerInitial": "-5", "countTo": "5000"})
	s := h.engine.Snapshot()
	assert.Equal(t, float64(timefmt.MaxSeconds), s.Seconds)
	assert.Equal(t, 0, s.Initial)
	assert.Equal(t, timefmt.MaxClockMinutes, s.CountTo)
}

// ============================================================
// Anchored ticking
// ============================================================

func TestTimerTickDerivesFromAnchor(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	require.True(t, h.engine.Start())

	h.clock.Advance(25 * time.Second)
	s := h.engine.Tick()
	assert.InDelta(t, 35.0, s.Seconds, 1e-9)
	assert.True(t, s.Running)
}

func TestTickIsImmuneToMissedTicks(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	h.engine.Start()

	for i := 0; i < 7; i++ {
		h.clock.Advance(1300 * time.Millisecond)
		if i%3 == 0 {
			h.engine.Tick()
		}
	}
	s := h.engine.Tick()
	assert.InDelta(t, 60-9.1, s.Seconds, 1e-9)
}

func TestStopwatchTick(t *testing.T) {
	h := stopwatchHarness(t)
	h.engine.Start()
	h.clock.Advance(1234 * time.Millisecond)
	s := h.engine.Tick()
	assert.InDelta(t, 1.234, s.Seconds, 1e-9)
	assert.Equal(t, "23", s.Centis)
}

func TestDeriveElapsed(t *testing.T) {
	t0 := time.Unix(1000, 0)
	assert.Equal(t, 35.0, DeriveElapsed(settings.ModeTimer, t0, 60, t0.Add(25*time.Second)))
	assert.Equal(t, 0.0, DeriveElapsed(settings.ModeTimer, t0, 60, t0.Add(2*time.Minute)))
	assert.Equal(t, 85.0, DeriveElapsed(settings.ModeStopwatch, t0, 60, t0.Add(25*time.Second)))
	assert.Equal(t, float64(timefmt.MaxSeconds), DeriveElapsed(settings.ModeStopwatch, t0, 5990, t0.Add(time.Minute)))
	assert.Equal(t, 60.0, DeriveElapsed(settings.ModeTimer, t0, 60, t0.Add(-time.Second)))
}

// ============================================================
// Lifecycle
// ============================================================

func TestPauseResumePreservesValue(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	h.engine.Start()
	h.clock.Advance(10 * time.Second)
	require.True(t, h.engine.Pause())

	s := h.engine.Snapshot()
	assert.Equal(t, StatePaused, s.State)
	assert.InDelta(t, 50.0, s.Seconds, 1e-9)
	assert.True(t, s.HasStarted)

	h.clock.Advance(time.Hour)
	assert.InDelta(t, 50.0, h.engine.Tick().Seconds, 1e-9, "paused value must not move")

	require.True(t, h.engine.Start())
	h.clock.Advance(5 * time.Second)
	assert.InDelta(t, 45.0, h.engine.Tick().Seconds, 1e-9)

	v, _, _ := h.backend.Lookup("timer")
	assert.Equal(t, "50", v, "pause persists the value")
}

func TestStopwatchResume(t *testing.T) {
	h := stopwatchHarness(t)
	h.engine.Start()
	h.clock.Advance(3 * time.Second)
	h.engine.Pause()
	h.clock.Advance(time.Minute)
	h.engine.Start()
	h.clock.Advance(2 * time.Second)
	assert.InDelta(t, 5.0, h.engine.Tick().Seconds, 1e-9)
}

func TestStartWhileRunningIgnored(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.engine.Start())
	h.clock.Advance(time.Second)
	assert.False(t, h.engine.Start())
	assert.InDelta(t, 299.0, h.engine.Tick().Seconds, 1e-9)
}

func TestPauseWhenIdleIgnored(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.engine.Pause())
	assert.Equal(t, StateIdle, h.engine.Snapshot().State)
}

func TestTimerAutoPausesAtZero(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "3", "timerInitial": "3"})
	h.engine.Start()

	h.clock.Advance(2 * time.Second)
	assert.True(t, h.engine.Tick().Running)

	h.clock.Advance(1500 * time.Millisecond)
	s := h.engine.Tick()
	assert.False(t, s.Running)
	assert.Equal(t, StatePaused, s.State)
	assert.Equal(t, 0.0, s.Seconds)
	assert.True(t, s.Finished)
	assert.Equal(t, h.clock.Now(), s.FinishedAt)

	require.Len(t, h.journal.runs, 1)
	run := h.journal.runs[0]
	assert.Equal(t, store.OutcomeFinished, run.Outcome)
	assert.Equal(t, int64(3), run.TargetSeconds)
	assert.InDelta(t, 3.0, run.ElapsedSeconds, 1e-9)
	assert.Equal(t, "test", run.SessionID)
}

func TestFinishedAcknowledgedByPause(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "1", "timerInitial": "1"})
	h.engine.Start()
	h.clock.Advance(2 * time.Second)
	require.True(t, h.engine.Tick().Finished)

	assert.True(t, h.engine.Pause())
	assert.False(t, h.engine.Snapshot().Finished)
	assert.False(t, h.engine.Pause(), "second pause has nothing to do")
}

func TestFinishedClearedByReset(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "1", "timerInitial": "1"})
	h.engine.Start()
	h.clock.Advance(2 * time.Second)
	h.engine.Tick()

	require.True(t, h.engine.Reset())
	s := h.engine.Snapshot()
	assert.False(t, s.Finished)
	assert.Equal(t, 1.0, s.Seconds)
	assert.Len(t, h.journal.runs, 1, "finish already journaled; reset adds nothing")
}

func TestStartAcknowledgesFinish(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "5", "timerInitial": "5"})
	h.engine.Start()
	h.clock.Advance(6 * time.Second)
	require.True(t, h.engine.Tick().Finished)

	assert.True(t, h.engine.Start())
	s := h.engine.Snapshot()
	assert.False(t, s.Finished)
	assert.Equal(t, StatePaused, s.State)
	assert.Equal(t, 0.0, s.Seconds)
	assert.False(t, h.engine.Start(), "nothing left to acknowledge")
	assert.Len(t, h.journal.runs, 1)
}

func TestStartAtZeroIgnored(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "0", "timerInitial": "0"})
	assert.False(t, h.engine.Start())
	assert.Equal(t, StateIdle, h.engine.Snapshot().State)
}

func TestStopwatchStopsAtCeiling(t *testing.T) {
	h := newHarness(t, map[string]string{"mode": "stopwatch", "stopwatch": "5990"})
	h.engine.Start()
	h.clock.Advance(20 * time.Second)
	s := h.engine.Tick()
	assert.Equal(t, float64(timefmt.MaxSeconds), s.Seconds)
	assert.False(t, s.Running)
	assert.False(t, s.Finished)

	assert.False(t, h.engine.Start(), "cannot run past the ceiling")
}

func TestResetTimer(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	h.engine.Start()
	h.clock.Advance(15 * time.Second)
	require.True(t, h.engine.Reset())

	s := h.engine.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, 60.0, s.Seconds)
	assert.False(t, s.HasStarted)
	assert.False(t, s.ShowReset)

	require.Len(t, h.journal.runs, 1)
	assert.Equal(t, store.OutcomeReset, h.journal.runs[0].Outcome)
	assert.InDelta(t, 15.0, h.journal.runs[0].ElapsedSeconds, 1e-9)
}

func TestResetStopwatch(t *testing.T) {
	h := stopwatchHarness(t)
	h.engine.Start()
	h.clock.Advance(4 * time.Second)
	h.engine.Pause()
	h.engine.Reset()
	s := h.engine.Snapshot()
	assert.Equal(t, 0.0, s.Seconds)
	assert.False(t, s.ShowReset)
	require.Len(t, h.journal.runs, 1)
	assert.InDelta(t, 4.0, h.journal.runs[0].ElapsedSeconds, 1e-9)
}

func TestResetTwiceIsIdempotent(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "42", "timerInitial": "60"})
	h.engine.Reset()
	first := h.engine.Snapshot()
	h.engine.Reset()
	second := h.engine.Snapshot()
	assert.Equal(t, first, second)
	assert.Equal(t, 60.0, second.Seconds)
	assert.Empty(t, h.journal.runs)
}

func TestJournalFailureDoesNotAbortTransition(t *testing.T) {
	h := newHarness(t, nil)
	h.journal.err = errors.New("db locked")
	h.engine.Start()
	h.clock.Advance(time.Second)
	assert.True(t, h.engine.Reset())
	assert.Equal(t, StateIdle, h.engine.Snapshot().State)
}

func TestToggle(t *testing.T) {
	h := newHarness(t, nil)
	assert.True(t, h.engine.Toggle())
	assert.True(t, h.engine.Snapshot().Running)
	assert.True(t, h.engine.Toggle())
	assert.Equal(t, StatePaused, h.engine.Snapshot().State)

	h.engine.Reset()
	h.engine.FocusInput()
	assert.True(t, h.engine.Toggle())
	assert.Equal(t, StateIdle, h.engine.Snapshot().State, "enter commits the buffer")
}

// ============================================================
// Mode switching
// ============================================================

func TestChangeModeStopsAndClearsBuffer(t *testing.T) {
	type setup func(h *harness)
	states := map[string]setup{
		"idle":    func(h *harness) {},
		"editing": func(h *harness) { h.engine.FocusInput() },
		"running": func(h *harness) { h.engine.Start() },
		"paused":  func(h *harness) { h.engine.Start(); h.clock.Advance(time.Second); h.engine.Pause() },
	}
	for name, prepare := range states {
		for _, m := range []settings.Mode{settings.ModeTimer, settings.ModeStopwatch} {
			t.Run(name+"/"+string(m), func(t *testing.T) {
				h := newHarness(t, nil)
				prepare(h)
				require.True(t, h.engine.ChangeMode(m))
				s := h.engine.Snapshot()
				assert.False(t, s.Running)
				assert.Empty(t, s.Buffer)
				assert.Equal(t, StateIdle, s.State)
				assert.Equal(t, m, s.Mode)
			})
		}
	}
}

func TestChangeModeReloadsValues(t *testing.T) {
	h := newHarness(t, map[string]string{"stopwatch": "12"})
	h.engine.Start()
	h.clock.Advance(20 * time.Second)

	h.engine.ChangeMode(settings.ModeStopwatch)
	s := h.engine.Snapshot()
	assert.Equal(t, 12.0, s.Seconds)
	assert.Equal(t, settings.ModeStopwatch, h.settings.Mode())

	v, _, _ := h.backend.Lookup("timer")
	assert.Equal(t, "280", v, "leaving persists the live timer value")

	require.Len(t, h.journal.runs, 1)
	assert.Equal(t, store.OutcomeAbandoned, h.journal.runs[0].Outcome)

	h.engine.ChangeMode(settings.ModeTimer)
	s = h.engine.Snapshot()
	assert.Equal(t, 280.0, s.Seconds)
	assert.Equal(t, 300, s.Initial)
}

func TestChangeModeInvalid(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.engine.ChangeMode(settings.Mode("lap")))
	assert.Equal(t, settings.ModeTimer, h.engine.Mode())
}

// ============================================================
// Digit entry
// ============================================================

func TestDigitEntry(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.engine.FocusInput())
	assert.Equal(t, "000000", h.engine.Snapshot().Buffer)

	for _, d := range "300" {
		require.True(t, h.engine.Digit(d))
	}
	s := h.engine.Snapshot()
	assert.Equal(t, "000300", s.Buffer)
	assert.Equal(t, 180.0, s.Seconds)
	assert.Equal(t, 180, s.Initial)
	assert.Equal(t, 180, s.Target)

	require.True(t, h.engine.Backspace())
	s = h.engine.Snapshot()
	assert.Equal(t, "000030", s.Buffer)
	assert.Equal(t, 30.0, s.Seconds)
	assert.Equal(t, 30.0, h.settings.TimerInitial())

	require.True(t, h.engine.BlurInput())
	s = h.engine.Snapshot()
	assert.Empty(t, s.Buffer)
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, 30.0, s.Seconds, "blur keeps the value")
}

func TestDigitIgnoredOutsideEditing(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.engine.Digit('5'))
	assert.False(t, h.engine.Backspace())
	assert.False(t, h.engine.BlurInput())

	h.engine.Start()
	assert.False(t, h.engine.Digit('5'))
	assert.False(t, h.engine.FocusInput(), "cannot edit while running")
	assert.True(t, h.engine.Snapshot().Running)
}

func TestDigitRejectsNonDigit(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.FocusInput()
	assert.False(t, h.engine.Digit('x'))
	assert.Equal(t, "000000", h.engine.Snapshot().Buffer)
}

func TestFocusInputStopwatchIgnored(t *testing.T) {
	h := stopwatchHarness(t)
	assert.False(t, h.engine.FocusInput())
}

func TestFocusInputFromPausedDiscardsRun(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.Start()
	h.clock.Advance(time.Second)
	h.engine.Pause()
	require.True(t, h.engine.FocusInput())
	s := h.engine.Snapshot()
	assert.True(t, s.Editing)
	assert.False(t, s.HasStarted)
	require.Len(t, h.journal.runs, 1)
	assert.Equal(t, store.OutcomeAbandoned, h.journal.runs[0].Outcome)
}

func TestAdjustIgnoredWhileEditing(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.FocusInput()
	assert.False(t, h.engine.Adjust(30))
}

// ============================================================
// Count-to
// ============================================================

func TestCountToEntryAndStart(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.engine.FocusInput())
	require.True(t, h.engine.ToggleCountTo())
	s := h.engine.Snapshot()
	assert.True(t, s.IsCountTo)
	assert.Equal(t, "0000", s.Buffer)

	for _, d := range "0930" {
		h.engine.Digit(d)
	}
	s = h.engine.Snapshot()
	assert.Equal(t, 9*60+30, s.CountTo)
	assert.Equal(t, "09:30", s.Display)
	assert.Equal(t, 30*60, s.CountToRemaining)
	assert.Equal(t, "/30m00", s.Subtext())

	require.True(t, h.engine.Start())
	s = h.engine.Snapshot()
	assert.False(t, s.IsCountTo, "count-to resolves into a plain countdown")
	assert.Equal(t, 1800, s.Initial)
	assert.Equal(t, 1800.0, s.Seconds)
	assert.True(t, s.Running)
	assert.False(t, h.settings.IsCountToTimer())

	h.clock.Advance(time.Minute)
	assert.InDelta(t, 1740.0, h.engine.Tick().Seconds, 1e-9)
}

func TestCountToRollsOverAndClamps(t *testing.T) {
	h := newHarness(t, map[string]string{"isCountToTimer": "true", "countTo": "90"})
	h.clock.Advance(14*time.Hour + 50*time.Minute) // 23:50
	require.True(t, h.engine.Start())
	assert.Equal(t, timefmt.MaxSeconds, h.engine.Snapshot().Initial)
}

func TestToggleCountToOnlyWhileEditing(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.engine.ToggleCountTo())
}

func TestAdjustClearsCountTo(t *testing.T) {
	h := newHarness(t, map[string]string{"isCountToTimer": "true", "countTo": "600"})
	h.engine.Adjust(60)
	s := h.engine.Snapshot()
	assert.False(t, s.IsCountTo)
	assert.Equal(t, 360, s.Initial)
}

// ============================================================
// Adjust
// ============================================================

func TestAdjustBeforeStartMovesDuration(t *testing.T) {
	h := newHarness(t, nil)
	require.True(t, h.engine.Adjust(30))
	s := h.engine.Snapshot()
	assert.Equal(t, 330.0, s.Seconds)
	assert.Equal(t, 330, s.Initial)
	assert.Equal(t, 330, s.Target)
	assert.Equal(t, 1.0, s.Progress)
}

func TestAdjustWhileRunningOnlyMovesValue(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	h.engine.Start()
	h.clock.Advance(10 * time.Second)
	require.True(t, h.engine.Adjust(30))
	s := h.engine.Snapshot()
	assert.InDelta(t, 80.0, s.Seconds, 1e-9)
	assert.Equal(t, 60, s.Initial)

	h.clock.Advance(5 * time.Second)
	assert.InDelta(t, 75.0, h.engine.Tick().Seconds, 1e-9)
}

func TestAdjustClampsFromAnyState(t *testing.T) {
	prepare := []func(h *harness){
		func(h *harness) {},
		func(h *harness) { h.engine.Start() },
		func(h *harness) { h.engine.Start(); h.engine.Pause() },
		func(h *harness) { h.engine.ChangeMode(settings.ModeStopwatch) },
		func(h *harness) { h.engine.ChangeMode(settings.ModeStopwatch); h.engine.Start() },
	}
	for i, p := range prepare {
		h := newHarness(t, nil)
		p(h)
		h.engine.Adjust(100000)
		assert.Equal(t, float64(timefmt.MaxSeconds), h.engine.Snapshot().Seconds, "case %d", i)

		h.engine.Adjust(-1e9)
		assert.Equal(t, 0.0, h.engine.Snapshot().Seconds, "case %d", i)
	}
}

func TestAdjustAfterFinishClearsIndicator(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "1", "timerInitial": "1"})
	h.engine.Start()
	h.clock.Advance(2 * time.Second)
	h.engine.Tick()
	h.engine.Adjust(30)
	s := h.engine.Snapshot()
	assert.False(t, s.Finished)
	assert.Equal(t, 30.0, s.Seconds)
	assert.Equal(t, StatePaused, s.State)
}

// ============================================================
// Snapshot
// ============================================================

func TestProgress(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "60", "timerInitial": "60"})
	assert.Equal(t, 1.0, h.engine.Snapshot().Progress)

	h.engine.Start()
	h.clock.Advance(15 * time.Second)
	assert.InDelta(t, 0.75, h.engine.Tick().Progress, 1e-9)

	z := newHarness(t, map[string]string{"timer": "0", "timerInitial": "0"})
	assert.Equal(t, 1.0, z.engine.Snapshot().Progress)

	sw := newHarness(t, map[string]string{"mode": "stopwatch", "stopwatch": "90"})
	assert.InDelta(t, 0.5, sw.engine.Snapshot().Progress, 1e-9)
}

func TestShowReset(t *testing.T) {
	h := newHarness(t, nil)
	assert.False(t, h.engine.Snapshot().ShowReset)
	h.engine.Start()
	assert.True(t, h.engine.Snapshot().ShowReset)

	sw := stopwatchHarness(t)
	assert.False(t, sw.engine.Snapshot().ShowReset)
	sw.engine.Adjust(1)
	assert.True(t, sw.engine.Snapshot().ShowReset)
}

func TestFlashOn(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "1", "timerInitial": "1"})
	h.engine.Start()
	h.clock.Advance(time.Second)
	s := h.engine.Tick()
	require.True(t, s.Finished)

	interval := h.engine.FlashInterval()
	assert.Equal(t, DefaultFlashInterval, interval)
	assert.True(t, s.FlashOn(s.FinishedAt, interval))
	assert.False(t, s.FlashOn(s.FinishedAt.Add(interval), interval))
	assert.True(t, s.FlashOn(s.FinishedAt.Add(2*interval+time.Millisecond), interval))

	idle := newHarness(t, nil).engine.Snapshot()
	assert.False(t, idle.FlashOn(time.Now(), interval))
}

func TestSubtext(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, "/05m00", h.engine.Snapshot().Subtext())
	h.engine.Adjust(3600)
	h.engine.Start()
	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, ":59", h.engine.Tick().Subtext())

	sw := stopwatchHarness(t)
	assert.Equal(t, ".00", sw.engine.Snapshot().Subtext())
}

func TestSyncPersistsLiveValue(t *testing.T) {
	h := stopwatchHarness(t)
	h.engine.Start()
	h.clock.Advance(7 * time.Second)
	h.engine.Sync()
	assert.Equal(t, 7.0, h.settings.Stopwatch())
	assert.True(t, h.engine.Snapshot().Running)
}

func TestStateNames(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "editing", StateEditing.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestSetFlashInterval(t *testing.T) {
	h := newHarness(t, nil)
	h.engine.SetFlashInterval(250 * time.Millisecond)
	assert.Equal(t, 250*time.Millisecond, h.engine.FlashInterval())
	h.engine.SetFlashInterval(0)
	assert.Equal(t, DefaultFlashInterval, h.engine.FlashInterval())
}

func TestToggleDismissesFinish(t *testing.T) {
	h := newHarness(t, map[string]string{"timer": "1", "timerInitial": "1"})
	h.engine.Toggle()
	h.clock.Advance(2 * time.Second)
	require.True(t, h.engine.Tick().Finished)

	assert.True(t, h.engine.Toggle())
	s := h.engine.Snapshot()
	assert.False(t, s.Finished)
	assert.False(t, s.Running)
}
