package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/tock/internal/settings"
	"github.com/sadopc/tock/internal/store"
	"github.com/sadopc/tock/internal/timefmt"
)

type historyRange int

const (
	historyDaily historyRange = iota
	historyWeekly
)

const recentRunLimit = 8

// historyModel charts the run journal per day and lists the latest runs.
type historyModel struct {
	store  *store.Store
	width  int
	height int
	now    func() time.Time

	span       historyRange
	offset     int // 7-day blocks or weeks back from today (0 = current)
	summaries  []store.DailySummary
	recent     []store.Run
	todayTotal int64
	err        error

	chart barchart.Model
}

func newHistoryModel(s *store.Store, now func() time.Time) historyModel {
	return historyModel{
		store: s,
		now:   now,
		chart: barchart.New(60, 12),
	}
}

func (h *historyModel) setSize(w, ht int) {
	h.width = w
	h.height = ht
	h.buildChart()
}

type historyDataMsg struct {
	summaries  []store.DailySummary
	recent     []store.Run
	todayTotal int64
	err        error
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		from, to := h.dateRange()
		summaries, err := h.store.GetDailySummary(from, to)
		if err != nil {
			return historyDataMsg{err: err}
		}
		recent, err := h.store.ListRuns(store.RunFilter{Limit: recentRunLimit})
		if err != nil {
			return historyDataMsg{err: err}
		}
		total, err := h.store.GetTodayTotal()
		return historyDataMsg{summaries: summaries, recent: recent, todayTotal: total, err: err}
	}
}

func (h historyModel) dateRange() (time.Time, time.Time) {
	now := h.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	switch h.span {
	case historyWeekly:
		weekday := today.Weekday()
		if weekday == time.Sunday {
			weekday = 7
		}
		startOfWeek := today.AddDate(0, 0, -int(weekday-time.Monday))
		startOfWeek = startOfWeek.AddDate(0, 0, -7*h.offset)
		return startOfWeek, startOfWeek.AddDate(0, 0, 7)
	default:
		end := today.AddDate(0, 0, 1-7*h.offset)
		return end.AddDate(0, 0, -7), end
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.err = msg.err
		if msg.err == nil {
			h.summaries = msg.summaries
			h.recent = msg.recent
			h.todayTotal = msg.todayTotal
		}
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			h.offset++
			return h, h.refresh()
		case key.Matches(msg, keys.Right):
			if h.offset > 0 {
				h.offset--
			}
			return h, h.refresh()
		case key.Matches(msg, keys.Toggle):
			if h.span == historyDaily {
				h.span = historyWeekly
			} else {
				h.span = historyDaily
			}
			h.offset = 0
			return h, h.refresh()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := max(h.width-8, 20)
	chartHeight := 10
	if h.height > 36 {
		chartHeight = 14
	}

	h.chart = barchart.New(chartWidth, chartHeight)

	from, to := h.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")

		var values []barchart.BarValue
		for _, s := range h.summaries {
			if s.Date != dateStr {
				continue
			}
			values = append(values, barchart.BarValue{
				Name:  s.Mode,
				Value: float64(s.TotalSeconds) / 60,
				Style: lipgloss.NewStyle().Foreground(modeColor(s.Mode)),
			})
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}}
		}

		bars = append(bars, barchart.BarData{
			Label:  d.Format("Mon 02"),
			Values: values,
		})
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) view() string {
	w := h.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if h.span == historyDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	spanTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	from, to := h.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.AddDate(0, 0, -1).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ", spanTabs, "  ", dateLabel,
	)
	today := subtitleStyle.Render("Today: ") + highlightStyle.Render(timefmt.Seconds(h.todayTotal))

	body := []string{header, today, ""}
	if h.err != nil {
		body = append(body, errorStyle.Render("  Could not load history: "+h.err.Error()))
	} else {
		body = append(body, h.chart.View(), "", h.renderLegend(), "", h.renderRecent(w))
	}
	body = append(body, "", mutedStyle.Render("  ←/→: navigate  space: daily/weekly  x: export"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, body...))
}

func (h historyModel) renderLegend() string {
	var items []string
	for _, m := range []settings.Mode{settings.ModeTimer, settings.ModeStopwatch} {
		dot := lipgloss.NewStyle().Foreground(modeColor(string(m))).Render("●")
		total := int64(0)
		for _, s := range h.summaries {
			if s.Mode == string(m) {
				total += s.TotalSeconds
			}
		}
		items = append(items, fmt.Sprintf("%s %s %s", dot, m, mutedStyle.Render(timefmt.Hours(total))))
	}
	return "  " + strings.Join(items, "  ") + mutedStyle.Render("  (bars in minutes)")
}

func (h historyModel) renderRecent(w int) string {
	if len(h.recent) == 0 {
		return mutedStyle.Render("  No runs yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %-10s %10s %10s", "Started", "Mode", "Outcome", "Target", "Measured")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 58))))

	for _, r := range h.recent {
		dot := lipgloss.NewStyle().Foreground(modeColor(r.Mode)).Render("●")
		target := "-"
		if r.TargetSeconds > 0 {
			target = timefmt.Seconds(r.TargetSeconds)
		}
		rows = append(rows, fmt.Sprintf("  %-12s %s %-8s %-10s %10s %10s",
			r.StartedAt.Local().Format("Jan 02 15:04"), dot, r.Mode, outcomeLabel(r.Outcome),
			target, timefmt.Seconds(int64(r.ElapsedSeconds)),
		))
	}
	return strings.Join(rows, "\n")
}

func outcomeLabel(o store.Outcome) string {
	switch o {
	case store.OutcomeFinished:
		return successStyle.Render(fmt.Sprintf("%-10s", o))
	case store.OutcomeAbandoned:
		return warningStyle.Render(fmt.Sprintf("%-10s", o))
	}
	return fmt.Sprintf("%-10s", o)
}
