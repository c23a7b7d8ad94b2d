package board

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the board's keybindings.
type keyMap struct {
	Quit       key.Binding
	Cancel     key.Binding
	DayView    key.Binding
	WeekView   key.Binding
	MonthView  key.Binding
	Today      key.Binding
	NextPeriod key.Binding
	PrevPeriod key.Binding
	ScrollL    key.Binding
	ScrollR    key.Binding
	NudgeL     key.Binding
	NudgeR     key.Binding
	Conflicts  key.Binding
	Reload     key.Binding
	Copy       key.Binding
}

var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	DayView:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day view")),
	WeekView:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week view")),
	MonthView:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "month view")),
	Today:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "today")),
	NextPeriod: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next period")),
	PrevPeriod: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev period")),
	ScrollL:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
	ScrollR:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
	NudgeL:     key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "nudge selection earlier")),
	NudgeR:     key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "nudge selection later")),
	Conflicts:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "conflict details")),
	Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy window")),
}
