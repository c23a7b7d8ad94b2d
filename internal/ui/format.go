package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/shopfloor/shopboard/internal/schedule"
)

// statusColor returns the color for a machine status.
func statusColor(s schedule.MachineStatus) *color.Color {
	switch s {
	case schedule.MachineRunning:
		return colorRunning
	case schedule.MachineSetup:
		return colorSetup
	case schedule.MachineMaintenance, schedule.MachineError:
		return colorDown
	default:
		return colorMuted
	}
}

// severityColor returns the color for a conflict severity.
func severityColor(s schedule.Severity) *color.Color {
	switch s {
	case schedule.SeverityHigh:
		return colorHigh
	case schedule.SeverityMedium:
		return colorMedium
	default:
		return colorLow
	}
}

// formatSlotLine renders one slot for the slots listing.
func formatSlotLine(slot *schedule.Slot, orders []*schedule.WorkOrder) string {
	label := fmt.Sprintf("#%d", slot.ID)
	if order, op := schedule.FindOperation(orders, slot.OperationID); order != nil {
		label = order.Reference
		if op != nil {
			label += " " + op.Name
		}
	}

	line := fmt.Sprintf("  %s – %s  %s",
		slot.Start.Format("Mon 02 15:04"),
		slot.End.Format("15:04"),
		label)
	if slot.Locked {
		line += colorLocked.Sprint("  [locked]")
	}
	return line
}

// truncate trims a line to the terminal width. Styled lines are left alone
// since escape sequences make byte lengths meaningless.
func truncate(s string, width int) string {
	if width <= 3 || len(s) <= width || strings.Contains(s, "\x1b") {
		return s
	}
	return s[:width-1] + "…"
}

// formatConflict renders one conflict for the validate/advise listings.
func formatConflict(c schedule.Conflict) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s: %s",
		severityColor(c.Severity).Sprintf("[%s]", c.Severity),
		c.Kind,
		c.Description)
	if len(c.AffectedOperations) > 0 {
		fmt.Fprintf(&b, " %s", colorMuted.Sprintf("(operations %v)", c.AffectedOperations))
	}
	if c.SuggestedResolution != "" {
		fmt.Fprintf(&b, "\n    %s", colorMuted.Sprint("→ "+c.SuggestedResolution))
	}
	return b.String()
}
