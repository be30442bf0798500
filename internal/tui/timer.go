package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tock/internal/countto"
	"github.com/sadopc/tock/internal/digits"
	"github.com/sadopc/tock/internal/engine"
	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/timefmt"
)

// timerModel drives the engine from key presses and renders its snapshots.
// It owns the tick loop: one is scheduled while the engine is running or
// flashing and it dies out on the first tick that finds neither.
type timerModel struct {
	engine *engine.Engine
	snap   engine.Snapshot
	width  int
	height int

	steps   [3]int
	every   time.Duration
	ticking bool
	tickSeq int

	bar progress.Model
}

func newTimerModel(e *engine.Engine, steps [3]int, every time.Duration) timerModel {
	return timerModel{
		engine: e,
		snap:   e.Snapshot(),
		steps:  steps,
		every:  every,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.bar.Width = max(w-12, 10)
}

// editing reports whether digit keys belong to the buffer.
func (t timerModel) editing() bool { return t.snap.Editing }

func (t timerModel) running() bool { return t.snap.Running }

func (t *timerModel) ensureTicking() tea.Cmd {
	if t.ticking || !(t.snap.Running || t.snap.Finished) {
		return nil
	}
	t.ticking = true
	t.tickSeq++
	return tickCmd(t.tickSeq, t.every)
}

// after refreshes the snapshot following an operation and starts the tick
// loop if the operation needs one.
func (t timerModel) after(ok bool) (timerModel, tea.Cmd) {
	wasStarted := t.snap.HasStarted
	t.snap = t.engine.Snapshot()
	var cmds []tea.Cmd
	if cmd := t.ensureTicking(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if ok && wasStarted && !t.snap.HasStarted {
		cmds = append(cmds, func() tea.Msg { return runEndedMsg{} })
	}
	return t, tea.Batch(cmds...)
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if !t.ticking || msg.seq != t.tickSeq {
			return t, nil
		}
		wasFinished := t.snap.Finished
		t.snap = t.engine.Tick()
		var cmds []tea.Cmd
		if t.snap.Finished && !wasFinished {
			cmds = append(cmds,
				statusCmd("Time's up! \a", false),
				func() tea.Msg { return runEndedMsg{} },
			)
		}
		if t.snap.Running || t.snap.Finished {
			cmds = append(cmds, tickCmd(t.tickSeq, t.every))
		} else {
			t.ticking = false
		}
		return t, tea.Batch(cmds...)

	case tea.KeyMsg:
		return t.handleKey(msg)
	}
	return t, nil
}

func (t timerModel) handleKey(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	if t.snap.Editing {
		switch {
		case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9':
			return t.after(t.engine.Digit(msg.Runes[0]))
		case key.Matches(msg, keys.Backspace):
			return t.after(t.engine.Backspace())
		case key.Matches(msg, keys.Back):
			return t.after(t.engine.BlurInput())
		case key.Matches(msg, keys.CountTo):
			return t.after(t.engine.ToggleCountTo())
		}
	}

	switch {
	case key.Matches(msg, keys.Toggle):
		return t.after(t.engine.Toggle())
	case key.Matches(msg, keys.Reset):
		return t.after(t.engine.Reset())
	case key.Matches(msg, keys.Mode):
		return t.after(t.engine.ChangeMode(t.snap.Mode.Other()))
	case key.Matches(msg, keys.Edit):
		return t.after(t.engine.FocusInput())
	}
	for i := range t.steps {
		switch {
		case key.Matches(msg, keys.AdjustUp[i]):
			return t.after(t.engine.Adjust(float64(t.steps[i])))
		case key.Matches(msg, keys.AdjustDown[i]):
			return t.after(t.engine.Adjust(-float64(t.steps[i])))
		}
	}
	return t, nil
}

func (t timerModel) view() string {
	w := t.width - 4
	if w < 20 {
		return "Terminal too small"
	}
	s := t.snap

	modeTabs := t.renderModeTabs()

	readout := s.Display
	if s.Editing && !s.IsCountTo {
		readout = bufferClock(s.Buffer)
	}
	style := timerStyle
	switch {
	case s.Finished:
		style = timerFinishedStyle
		if s.FlashOn(s.At, t.engine.FlashInterval()) {
			style = timerFlashStyle
		}
	case s.Running:
		style = timerRunningStyle
	case s.State == engine.StatePaused:
		style = timerPausedStyle
	case s.Editing:
		style = timerEditingStyle
	}
	timeDisplay := style.Width(w - 6).Render(readout + mutedStyle.Render(s.Subtext()))

	indicator := t.renderIndicator()
	bar := t.bar.ViewAs(s.Progress)

	var hints []string
	hints = append(hints, t.renderAdjustHints())
	if s.ShowReset {
		hints = append(hints, mutedStyle.Render("r: reset"))
	}
	if s.Editing {
		hints = append(hints, mutedStyle.Render("0-9: digits  ⌫: delete  ~: count to clock  esc/enter: done"))
	} else if s.Mode == settings.ModeTimer && !s.Running {
		hints = append(hints, mutedStyle.Render("e: edit duration"))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		modeTabs,
		"",
		timeDisplay,
		indicator,
		"",
		bar,
		"",
		lipgloss.JoinVertical(lipgloss.Center, hints...),
	)

	panel := panelStyle
	if s.Running || s.Editing {
		panel = activePanelStyle
	}
	return panel.Width(w).Render(content)
}

func (t timerModel) renderModeTabs() string {
	timerTab := inactiveTabStyle.Render("Timer")
	stopwatchTab := inactiveTabStyle.Render("Stopwatch")
	if t.snap.Mode == settings.ModeTimer {
		timerTab = activeTabStyle.Render("Timer")
	} else {
		stopwatchTab = activeTabStyle.Render("Stopwatch")
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, timerTab, stopwatchTab)
}

func (t timerModel) renderIndicator() string {
	s := t.snap
	switch {
	case s.Finished:
		return accentStyle.Render("■  TIME'S UP  (space to dismiss)")
	case s.Running:
		if s.Mode == settings.ModeTimer {
			return successStyle.Render("●  RUNNING  ends " + s.At.Add(time.Duration(s.Seconds*float64(time.Second))).Format("15:04"))
		}
		return successStyle.Render("●  RUNNING")
	case s.State == engine.StatePaused:
		return warningStyle.Render("⏸  PAUSED")
	case s.Editing && s.IsCountTo:
		return highlightStyle.Render(fmt.Sprintf("✎  COUNT TO %s  (%s from now)", countToLabel(s.CountTo, s.At), timefmt.Clock(float64(s.CountToRemaining))))
	case s.Editing:
		return highlightStyle.Render("✎  EDITING")
	case s.Mode == settings.ModeTimer && s.IsCountTo && s.HasCountTo:
		return mutedStyle.Render("■  COUNT TO " + countToLabel(s.CountTo, s.At))
	}
	return mutedStyle.Render("■  STOPPED")
}

func (t timerModel) renderAdjustHints() string {
	up := make([]string, len(t.steps))
	for i, step := range t.steps {
		up[i] = fmt.Sprintf("+%s", timefmt.Clock(float64(step)))
	}
	return mutedStyle.Render(fmt.Sprintf("a/s/d: %s %s %s  (shift: subtract)", up[0], up[1], up[2]))
}

// countToLabel names the target time, marking one that has already passed
// today.
func countToLabel(minutes int, now time.Time) string {
	label := timefmt.TimeOfDay(minutes)
	if at := countto.At(minutes, now); at.YearDay() != now.YearDay() || at.Year() != now.Year() {
		label += " tomorrow"
	}
	return label
}

// bufferClock renders a duration buffer as HH:MM:SS so the digit being
// typed is visible.
func bufferClock(buf string) string {
	if len(buf) != digits.DurationWidth {
		return buf
	}
	return buf[0:2] + ":" + buf[2:4] + ":" + buf[4:6]
}
