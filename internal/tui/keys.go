package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Mode       key.Binding
	Edit       key.Binding
	CountTo    key.Binding
	Backspace  key.Binding
	AdjustUp   [3]key.Binding
	AdjustDown [3]key.Binding
	Export     key.Binding
	Tab1       key.Binding
	Tab2       key.Binding
	Tab3       key.Binding
	Tab        key.Binding
	Help       key.Binding
	Enter      key.Binding
	Back       key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys(" ", "enter"),
		key.WithHelp("space", "start/pause"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "timer/stopwatch"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit duration"),
	),
	CountTo: key.NewBinding(
		key.WithKeys("~", "t"),
		key.WithHelp("~", "count to clock"),
	),
	Backspace: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("⌫", "delete digit"),
	),
	AdjustUp: [3]key.Binding{
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a/s/d", "add time")),
		key.NewBinding(key.WithKeys("s")),
		key.NewBinding(key.WithKeys("d")),
	},
	AdjustDown: [3]key.Binding{
		key.NewBinding(key.WithKeys("A"), key.WithHelp("A/S/D", "remove time")),
		key.NewBinding(key.WithKeys("S")),
		key.NewBinding(key.WithKeys("D")),
	},
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export"),
	),
	Tab1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "timer"),
	),
	Tab2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "history"),
	),
	Tab3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "preferences"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "earlier"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "later"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.Mode, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Mode},
		{k.Edit, k.CountTo, k.Backspace, k.Back},
		{k.AdjustUp[0], k.AdjustDown[0], k.Export},
		{k.Tab1, k.Tab2, k.Tab3, k.Tab},
		{k.Left, k.Right, k.Help, k.Quit},
	}
}
