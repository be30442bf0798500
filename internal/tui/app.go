// Package tui is the terminal front end: a timer view driving the engine,
// a history view over the run journal and a preferences form.
package tui

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tock/internal/engine"
	"github.com/sadopc/tock/internal/export"
	"github.com/sadopc/tock/internal/store"
)

// DefaultTick is the display refresh interval while running.
const DefaultTick = 50 * time.Millisecond

// Options tunes the front end. Zero values pick defaults.
type Options struct {
	Tick      time.Duration
	ExportDir string
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	engine *engine.Engine
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string
	now           func() time.Time

	timer       timerModel
	history     historyModel
	preferences preferencesModel

	help    help.Model
	status  string
	isError bool
	initCmd tea.Cmd
}

func NewApp(s *store.Store, e *engine.Engine, opts Options) App {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir, _ = os.UserHomeDir()
	}

	h := help.New()
	h.ShowAll = false

	prefs := s.LoadPreferences()
	e.SetFlashInterval(prefs.FlashInterval)

	a := App{
		store:       s,
		engine:      e,
		activeView:  viewTimer,
		exportDir:   opts.ExportDir,
		now:         opts.Now,
		timer:       newTimerModel(e, prefs.AdjustSteps, opts.Tick),
		history:     newHistoryModel(s, opts.Now),
		preferences: newPreferencesModel(s),
		help:        h,
	}
	// Picks up an engine that is already running when handed over.
	a.initCmd = a.timer.ensureTicking()
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.initCmd, a.history.refresh(), a.preferences.refresh())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.preferences.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms and the digit buffer capture keys before global bindings.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}
		if a.activeView == viewTimer && a.timer.editing() {
			var cmd tea.Cmd
			a.timer, cmd = a.timer.update(msg)
			return a, cmd
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, a.history.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewPreferences
			return a, a.preferences.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Ticks belong to the timer whatever view is showing.
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case runEndedMsg:
		return a, a.history.refresh()

	case prefsSavedMsg:
		a.timer.steps = msg.prefs.AdjustSteps
		a.engine.SetFlashInterval(msg.prefs.FlashInterval)
		a.status, a.isError = "Preferences saved", false
		return a, nil

	case statusMsg:
		a.status, a.isError = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.isError = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil

	case historyDataMsg:
		var cmd tea.Cmd
		a.history, cmd = a.history.update(msg)
		return a, cmd

	case preferencesDataMsg:
		var cmd tea.Cmd
		a.preferences, cmd = a.preferences.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewPreferences:
		a.preferences, cmd = a.preferences.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewPreferences && a.preferences.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewHistory:
		return a.history.refresh()
	case viewPreferences:
		return a.preferences.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewHistory:
		content = a.history.view()
	case viewPreferences:
		content = a.preferences.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("tock")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.isError {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Keep the live value visible from the other views.
	timerInfo := ""
	if a.activeView != viewTimer {
		s := a.timer.snap
		switch {
		case s.Finished:
			timerInfo = accentStyle.Render(" ■ " + s.Display)
		case s.Running:
			timerInfo = successStyle.Render(" ● " + s.Display)
		case s.HasStarted:
			timerInfo = warningStyle.Render(" ⏸ " + s.Display)
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []export.Format{export.FormatCSV, export.FormatJSON}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Run History")
	var rows []string
	rows = append(rows, title, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	return func() tea.Msg {
		runs, err := a.store.ListRuns(store.RunFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := export.DefaultFilename(a.exportDir, f, a.now())
		if err := export.ToFile(f, runs, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
