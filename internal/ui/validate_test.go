package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
)

var base = time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

func TestOverlapScan(t *testing.T) {
	slots := []*schedule.Slot{
		{ID: 1, OperationID: 10, MachineID: 1, Start: base, End: base.Add(4 * time.Hour)},
		{ID: 2, OperationID: 11, MachineID: 1, Start: base.Add(2 * time.Hour), End: base.Add(6 * time.Hour)},
		{ID: 3, OperationID: 12, MachineID: 2, Start: base, End: base.Add(4 * time.Hour)},
		// Touching slot 2's end: not an overlap.
		{ID: 4, OperationID: 13, MachineID: 1, Start: base.Add(6 * time.Hour), End: base.Add(8 * time.Hour)},
	}

	conflicts := overlapScan(slots)
	if len(conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(conflicts))
	}
	c := conflicts[0]
	if c.Kind != schedule.ResourceConflict || c.Severity != schedule.SeverityHigh {
		t.Errorf("conflict = %+v", c)
	}
	if len(c.AffectedOperations) != 2 || c.AffectedOperations[0] != 10 || c.AffectedOperations[1] != 11 {
		t.Errorf("affected = %v", c.AffectedOperations)
	}
}

func TestOverlapScanEmpty(t *testing.T) {
	if got := overlapScan(nil); len(got) != 0 {
		t.Errorf("overlapScan(nil) = %v", got)
	}
}

func TestFormatConflict(t *testing.T) {
	DisableColor()

	c := schedule.Conflict{
		Kind:                schedule.DeadlineMissed,
		Severity:            schedule.SeverityHigh,
		Description:         "operation finishes after the work order due date",
		AffectedOperations:  []int64{42},
		SuggestedResolution: "Pull the operation earlier in the week",
	}

	out := formatConflict(c)
	for _, want := range []string{"[high]", "deadline_missed", "operations [42]", "Pull the operation"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatConflict missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSlotLine(t *testing.T) {
	DisableColor()

	orders := []*schedule.WorkOrder{
		{ID: 1, Reference: "WO-1001", Operations: []*schedule.Operation{{ID: 10, Seq: 1, Name: "Rough mill"}}},
	}
	slot := &schedule.Slot{ID: 5, OperationID: 10, MachineID: 1, Locked: true,
		Start: base, End: base.Add(2 * time.Hour)}

	out := formatSlotLine(slot, orders)
	for _, want := range []string{"WO-1001 Rough mill", "[locked]"} {
		if !strings.Contains(out, want) {
			t.Errorf("formatSlotLine missing %q: %s", want, out)
		}
	}

	// Unknown operation falls back to the slot id.
	out = formatSlotLine(&schedule.Slot{ID: 9, OperationID: 99, Start: base, End: base.Add(time.Hour)}, orders)
	if !strings.Contains(out, "#9") {
		t.Errorf("fallback label missing: %s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("hello", 10); got != "hello" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a very long line of text", 10); got != "a very lo…" {
		t.Errorf("truncate long = %q", got)
	}
}
