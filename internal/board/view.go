package board

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// cell is one terminal cell of the board grid. Rows are painted back to
// front (background, slots, preview, now marker) and flushed to styled
// string runs at the end.
type cell struct {
	r     rune
	style *lipgloss.Style
}

type row []cell

func newRow(width int, style lipgloss.Style) row {
	r := make(row, width)
	for i := range r {
		r[i] = cell{r: ' ', style: &style}
	}
	return r
}

// paint writes text into the row at x with the given style, clipping to the
// row bounds. Remaining painted width is padded with spaces so the styled
// band covers the whole rect.
func (r row) paint(x, w int, text string, style lipgloss.Style) {
	runes := []rune(text)
	for i := 0; i < w; i++ {
		pos := x + i
		if pos < 0 || pos >= len(r) {
			continue
		}
		ch := ' '
		if i < len(runes) {
			ch = runes[i]
		}
		r[pos] = cell{r: ch, style: &style}
	}
}

// flush renders the row, batching consecutive cells with the same style.
func (r row) flush() string {
	var b strings.Builder
	i := 0
	for i < len(r) {
		j := i
		for j < len(r) && r[j].style == r[i].style {
			j++
		}
		var run strings.Builder
		for k := i; k < j; k++ {
			run.WriteRune(r[k].r)
		}
		b.WriteString(r[i].style.Render(run.String()))
		i = j
	}
	return b.String()
}

// View renders the board.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	for lane := range m.machines {
		for line := 0; line < m.layout.LaneHeight; line++ {
			b.WriteString(m.renderLaneLine(lane, line))
			b.WriteString("\n")
		}
	}

	if panel := m.renderConflictPanel(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderTitle() string {
	var label string
	switch m.mode {
	case timescale.ViewWeek:
		label = "Week of " + m.scale.Start.Format("Jan 02, 2006")
	case timescale.ViewMonth:
		label = m.scale.Start.Format("January 2006")
	default:
		label = m.scale.Start.Format("Mon, Jan 02 2006")
	}

	title := m.styles.TitleStyle.Render("shopboard") + "  " + m.styles.HeaderStyle.Render(label)
	if m.loading {
		title += "  " + m.styles.HeaderStyle.Render("(loading)")
	}
	return ansi.Truncate(title, m.width, "…")
}

// renderHeader draws the tick labels along the top.
func (m Model) renderHeader() string {
	visible := m.visibleWidth()
	r := newRow(visible, m.styles.TickStyle)

	for _, tick := range m.scale.Ticks {
		x := int(math.Round(m.scale.TimeToX(tick))) - m.scrollX
		label := m.scale.TickLabel(tick)
		if x+len(label) <= 0 || x >= visible {
			continue
		}
		r.paint(x, len(label), label, m.styles.TickStyle)
	}
	m.paintNowMarker(r, '▼')

	pad := strings.Repeat(" ", m.layout.LabelWidth)
	return pad + r.flush()
}

// renderLaneLine draws one terminal row of one machine lane.
func (m Model) renderLaneLine(lane, line int) string {
	machine := m.machines[lane]
	visible := m.visibleWidth()
	r := newRow(visible, lipgloss.NewStyle())

	for _, slot := range m.slots {
		if slot.MachineID != machine.ID {
			continue
		}
		if m.drag.Active() && m.drag.State().Slot != nil && m.drag.State().Slot.ID == slot.ID {
			// The dragged slot renders at its candidate position instead.
			continue
		}
		m.paintSlot(r, lane, slot, m.slotStyle(slot), line == 0)
	}

	// Drag preview on the candidate lane.
	if candidate := m.drag.Candidate(); candidate != nil {
		if candLane := schedule.LaneIndex(m.machines, candidate.MachineID); candLane == lane {
			style := m.styles.SlotPreviewStyle
			if len(m.drag.State().Conflicts) > 0 {
				style = m.styles.SlotConflictStyle
			}
			m.paintSlot(r, lane, candidate, style, line == 0)
		}
	}

	m.paintNowMarker(r, '│')

	return m.renderLaneLabel(machine, line) + r.flush()
}

func (m Model) renderLaneLabel(machine *schedule.Machine, line int) string {
	w := m.layout.LabelWidth
	switch line {
	case 0:
		name := ansi.Truncate(machine.Name, w-1, "…")
		return m.styles.LaneLabelStyle.Render(name) + strings.Repeat(" ", w-lipgloss.Width(name))
	case 1:
		style, ok := m.styles.LaneStatusStyle[string(machine.Status)]
		if !ok {
			style = m.styles.HeaderStyle
		}
		status := ansi.Truncate(string(machine.Status), w-1, "…")
		return style.Render(status) + strings.Repeat(" ", w-lipgloss.Width(status))
	default:
		return strings.Repeat(" ", w)
	}
}

// paintSlot draws a slot bar into a lane row. The label (work order
// reference) only goes on the lane's first line.
func (m Model) paintSlot(r row, lane int, slot *schedule.Slot, style lipgloss.Style, withLabel bool) {
	rect := m.layout.SlotRect(m.scale, lane, slot.Start, slot.End)
	x := rect.X - m.scrollX
	if x+rect.W <= 0 || x >= len(r) {
		return
	}

	label := ""
	if withLabel {
		label = m.slotLabel(slot)
		if len(label) > rect.W {
			label = string([]rune(label)[:rect.W])
		}
	}
	r.paint(x, rect.W, label, style)
}

func (m Model) slotStyle(slot *schedule.Slot) lipgloss.Style {
	switch {
	case slot.Locked:
		return m.styles.SlotLockedStyle
	case m.sel.Contains(slot.ID):
		return m.styles.SlotSelectedStyle
	case m.updating[slot.ID]:
		return m.styles.SlotDraggedStyle
	case slot.Color != "":
		return m.styles.SlotStyle.Background(lipgloss.Color(slot.Color))
	default:
		return m.styles.SlotStyle.Background(lipgloss.Color("61"))
	}
}

func (m Model) slotLabel(slot *schedule.Slot) string {
	order, op := schedule.FindOperation(m.orders, slot.OperationID)
	if order == nil {
		return fmt.Sprintf("#%d", slot.ID)
	}
	if op != nil {
		return fmt.Sprintf("%s %s", order.Reference, op.Name)
	}
	return order.Reference
}

func (m Model) paintNowMarker(r row, mark rune) {
	if !m.scale.Contains(m.now) {
		return
	}
	x := int(math.Round(m.scale.TimeToX(m.now))) - m.scrollX
	if x < 0 || x >= len(r) {
		return
	}
	r[x] = cell{r: mark, style: &m.styles.NowMarkerStyle}
}

// renderConflictPanel lists the active drag's conflicts, worst first, with
// the per-kind resolution affordances.
func (m Model) renderConflictPanel() string {
	st := m.drag.State()
	if !st.Active || len(st.Conflicts) == 0 {
		return ""
	}

	var lines []string
	worst, _ := schedule.Worst(st.Conflicts)
	badge := m.styles.BadgeStyle(worst.Severity.String()).Render(
		fmt.Sprintf("%d conflict(s) · worst: %s", len(st.Conflicts), worst.Severity))
	if st.Validating {
		badge += " " + m.styles.HelpStyle.Render("validating…")
	}
	lines = append(lines, badge)

	grouped := schedule.GroupByKind(st.Conflicts)
	for _, kind := range schedule.ConflictKinds() {
		for _, c := range grouped[kind] {
			line := fmt.Sprintf("[%s] %s", c.Kind, c.Description)
			if c.SuggestedResolution != "" {
				line += " → " + c.SuggestedResolution
			}
			lines = append(lines, ansi.Truncate(line, m.width-6, "…"))
		}
		if m.showConflicts && len(grouped[kind]) > 0 {
			actions := kind.ResolutionActions()
			lines = append(lines, m.styles.HelpStyle.Render("  actions: "+strings.Join(actions, " / ")))
		}
	}

	return m.styles.ConflictPanelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	var parts []string
	if m.statusMsg != "" {
		parts = append(parts, m.styles.StatusStyle.Render(m.statusMsg))
	}
	if n := m.sel.Len(); n > 0 {
		parts = append(parts, m.styles.HelpStyle.Render(fmt.Sprintf("%d selected", n)))
	}
	help := "d/w/m view · [/] period · n today · drag to reschedule · ctrl-click multi-select · </> nudge · c conflicts · y copy · q quit"
	parts = append(parts, m.styles.HelpStyle.Render(help))
	return ansi.Truncate(strings.Join(parts, "  "), m.width, "…")
}

func (m Model) visibleWidth() int {
	v := m.width - m.layout.LabelWidth
	if v < 1 {
		v = 1
	}
	if w := m.scale.Width() - m.scrollX; w < v {
		v = w
	}
	if v < 1 {
		v = 1
	}
	return v
}

// exportWindow renders the window as plain text for the clipboard. With an
// active selection only the selected slots are exported.
func (m Model) exportWindow() string {
	var b strings.Builder
	fmt.Fprintf(&b, "shopboard %s — %s (%s)\n",
		m.scale.Start.Format("2006-01-02"),
		m.scale.End.Format("2006-01-02"),
		m.mode)

	selectedOnly := m.sel.Len() > 0

	for _, machine := range m.machines {
		fmt.Fprintf(&b, "%s [%s]\n", machine.Name, machine.Status)
		for _, slot := range m.slots {
			if slot.MachineID != machine.ID {
				continue
			}
			if selectedOnly && !m.sel.Contains(slot.ID) {
				continue
			}
			lock := ""
			if slot.Locked {
				lock = " (locked)"
			}
			fmt.Fprintf(&b, "  %s – %s  %s%s\n",
				slot.Start.Format("Mon 15:04"),
				slot.End.Format("Mon 15:04"),
				m.slotLabel(slot),
				lock)
		}
	}
	return b.String()
}
