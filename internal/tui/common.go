package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/tock/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
	viewPreferences
)

var viewNames = []string{"Timer", "History", "Preferences"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg drives the display while the engine is running or flashing. seq
// ties it to the loop that scheduled it so a stale loop dies out.
type tickMsg struct {
	seq int
	at  time.Time
}

// runEndedMsg is sent when a transition may have journaled a run.
type runEndedMsg struct{}

type prefsSavedMsg struct {
	prefs store.Preferences
}

type exportDoneMsg struct {
	path string
}

func tickCmd(seq int, every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg{seq: seq, at: t}
	})
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}
