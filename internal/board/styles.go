package board

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles for the board.
type Styles struct {
	colorBg       lipgloss.Color
	colorFg       lipgloss.Color
	colorFgMuted  lipgloss.Color
	colorAccent   lipgloss.Color
	colorWarning  lipgloss.Color
	colorDanger   lipgloss.Color
	colorNow      lipgloss.Color
	colorLocked   lipgloss.Color
	colorSelected lipgloss.Color

	TitleStyle      lipgloss.Style
	HeaderStyle     lipgloss.Style
	TickStyle       lipgloss.Style
	LaneLabelStyle  lipgloss.Style
	LaneStatusStyle map[string]lipgloss.Style

	SlotStyle         lipgloss.Style
	SlotLockedStyle   lipgloss.Style
	SlotSelectedStyle lipgloss.Style
	SlotDraggedStyle  lipgloss.Style
	SlotPreviewStyle  lipgloss.Style
	SlotConflictStyle lipgloss.Style

	NowMarkerStyle lipgloss.Style

	BadgeLowStyle    lipgloss.Style
	BadgeMediumStyle lipgloss.Style
	BadgeHighStyle   lipgloss.Style

	ConflictPanelStyle lipgloss.Style
	StatusStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
}

// NewStyles builds the board styles.
func NewStyles() *Styles {
	s := &Styles{
		colorBg:       lipgloss.Color("235"),
		colorFg:       lipgloss.Color("252"),
		colorFgMuted:  lipgloss.Color("243"),
		colorAccent:   lipgloss.Color("39"),
		colorWarning:  lipgloss.Color("214"),
		colorDanger:   lipgloss.Color("196"),
		colorNow:      lipgloss.Color("203"),
		colorLocked:   lipgloss.Color("240"),
		colorSelected: lipgloss.Color("229"),
	}

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(s.colorAccent)
	s.HeaderStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted)
	s.TickStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted)
	s.LaneLabelStyle = lipgloss.NewStyle().Foreground(s.colorFg).Bold(true)

	s.LaneStatusStyle = map[string]lipgloss.Style{
		"running":     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"idle":        lipgloss.NewStyle().Foreground(s.colorFgMuted),
		"setup":       lipgloss.NewStyle().Foreground(s.colorWarning),
		"maintenance": lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		"error":       lipgloss.NewStyle().Foreground(s.colorDanger),
	}

	s.SlotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("232"))
	s.SlotLockedStyle = lipgloss.NewStyle().Background(s.colorLocked).Foreground(s.colorFgMuted)
	s.SlotSelectedStyle = lipgloss.NewStyle().Background(s.colorSelected).Foreground(lipgloss.Color("232")).Bold(true)
	s.SlotDraggedStyle = lipgloss.NewStyle().Background(s.colorFgMuted).Foreground(lipgloss.Color("232"))
	s.SlotPreviewStyle = lipgloss.NewStyle().Background(s.colorAccent).Foreground(lipgloss.Color("232")).Bold(true)
	s.SlotConflictStyle = lipgloss.NewStyle().Background(s.colorDanger).Foreground(lipgloss.Color("255")).Bold(true)

	s.NowMarkerStyle = lipgloss.NewStyle().Foreground(s.colorNow).Bold(true)

	s.BadgeLowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(lipgloss.Color("109")).Padding(0, 1)
	s.BadgeMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("232")).Background(s.colorWarning).Padding(0, 1)
	s.BadgeHighStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(s.colorDanger).Padding(0, 1).Bold(true)

	s.ConflictPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorWarning).
		Padding(0, 1)
	s.StatusStyle = lipgloss.NewStyle().Foreground(s.colorWarning)
	s.HelpStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted)

	return s
}

// BadgeStyle returns the badge style for a severity name.
func (s *Styles) BadgeStyle(severity string) lipgloss.Style {
	switch severity {
	case "high":
		return s.BadgeHighStyle
	case "medium":
		return s.BadgeMediumStyle
	default:
		return s.BadgeLowStyle
	}
}
