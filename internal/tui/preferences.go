package tui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

type preferencesModel struct {
	store  *store.Store
	width  int
	height int

	rows       []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	adjustSmall   *string
	adjustMedium  *string
	adjustLarge   *string
	flashInterval *string
}

func newPreferencesModel(s *store.Store) preferencesModel {
	as, am, al, fi := "", "", "", ""
	return preferencesModel{
		store:         s,
		adjustSmall:   &as,
		adjustMedium:  &am,
		adjustLarge:   &al,
		flashInterval: &fi,
	}
}

func (p *preferencesModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type preferencesDataMsg struct {
	rows []store.Setting
}

func (p preferencesModel) refresh() tea.Cmd {
	return func() tea.Msg {
		rows, _ := p.store.GetAllSettings()
		return preferencesDataMsg{rows: rows}
	}
}

func (p preferencesModel) update(msg tea.Msg) (preferencesModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case preferencesDataMsg:
		p.rows = orderSettings(msg.rows)
		return p, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Edit) {
			return p.showForm()
		}
	}
	return p, nil
}

func (p preferencesModel) showForm() (preferencesModel, tea.Cmd) {
	cur := p.store.LoadPreferences()
	*p.adjustSmall = strconv.Itoa(cur.AdjustSteps[0])
	*p.adjustMedium = strconv.Itoa(cur.AdjustSteps[1])
	*p.adjustLarge = strconv.Itoa(cur.AdjustSteps[2])
	*p.flashInterval = strconv.FormatInt(cur.FlashInterval.Milliseconds(), 10)

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Small step (seconds)").Value(p.adjustSmall).Validate(validateStep),
			huh.NewInput().Title("Medium step (seconds)").Value(p.adjustMedium).Validate(validateStep),
			huh.NewInput().Title("Large step (seconds)").Value(p.adjustLarge).Validate(validateStep),
		).Title("Adjust buttons"),
		huh.NewGroup(
			huh.NewInput().Title("Flash interval (ms)").Value(p.flashInterval).Validate(validateFlash),
		).Title("Finish indicator"),
	).WithShowHelp(true).WithShowErrors(true)

	p.formActive = true
	return p, p.form.Init()
}

func (p preferencesModel) updateForm(msg tea.Msg) (preferencesModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		prefs, err := p.values()
		if err == nil {
			err = p.store.SavePreferences(prefs)
		}
		if err != nil {
			return p, statusCmd(fmt.Sprintf("Preferences error: %v", err), true)
		}
		return p, tea.Batch(p.refresh(), func() tea.Msg { return prefsSavedMsg{prefs: prefs} })
	}

	return p, cmd
}

// values parses the form fields.
func (p preferencesModel) values() (store.Preferences, error) {
	var prefs store.Preferences
	for i, v := range []*string{p.adjustSmall, p.adjustMedium, p.adjustLarge} {
		n, err := parsePositive(*v, timefmt.MaxSeconds)
		if err != nil {
			return prefs, err
		}
		prefs.AdjustSteps[i] = n
	}
	ms, err := parsePositive(*p.flashInterval, 10000)
	if err != nil {
		return prefs, err
	}
	prefs.FlashInterval = time.Duration(ms) * time.Millisecond
	return prefs, nil
}

func (p preferencesModel) view() string {
	w := p.width - 4
	title := titleStyle.Render("Preferences")

	if p.formActive && p.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title, "")
	for _, s := range p.rows {
		label := lipgloss.NewStyle().Width(24).Render(s.Key)
		value := highlightStyle.Render(formatSettingValue(s.Key, s.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit preferences"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// orderSettings lists the engine keys first, in their display order, then the
// remaining rows as stored.
func orderSettings(rows []store.Setting) []store.Setting {
	rank := make(map[string]int, len(settings.Keys))
	for i, k := range settings.Keys {
		rank[string(k)] = i
	}
	ordered := slices.Clone(rows)
	slices.SortStableFunc(ordered, func(a, b store.Setting) int {
		ra, okA := rank[a.Key]
		rb, okB := rank[b.Key]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return 0
	})
	return ordered
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.KeyAdjustSmall, store.KeyAdjustMedium, store.KeyAdjustLarge, "timer", "timerInitial", "stopwatch":
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			return timefmt.Clock(secs)
		}
	case store.KeyFlashInterval:
		return v + " ms"
	case "countTo":
		if mins, err := strconv.Atoi(v); err == nil {
			return timefmt.TimeOfDay(mins)
		}
	}
	return v
}

var errNotPositive = errors.New("must be a positive whole number")

func parsePositive(s string, limit int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, errNotPositive
	}
	if n > limit {
		return 0, fmt.Errorf("must be at most %d", limit)
	}
	return n, nil
}

func validateStep(s string) error {
	_, err := parsePositive(s, timefmt.MaxSeconds)
	return err
}

func validateFlash(s string) error {
	_, err := parsePositive(s, 10000)
	return err
}
