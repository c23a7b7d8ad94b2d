// Package detect implements the local conflict detector: a pure,
// synchronous check of a candidate placement against the known slots and
// the visible time window. It never performs I/O and must complete in the
// same event-loop turn it is called from.
package detect

import (
	"fmt"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// Check tests a candidate placement of the dragged slot. candidateStart is
// the (snapped) start time and candidateMachine the lane's machine id. The
// returned list is valid only for this exact placement.
func Check(dragged *schedule.Slot, candidateStart time.Time, candidateMachine int64, all []*schedule.Slot, scale timescale.Scale) []schedule.Conflict {
	if dragged == nil {
		return nil
	}

	candidateEnd := candidateStart.Add(dragged.Duration())
	var conflicts []schedule.Conflict

	if c, ok := overlapConflict(dragged, candidateStart, candidateEnd, candidateMachine, all); ok {
		conflicts = append(conflicts, c)
	}
	if c, ok := boundaryConflict(dragged, candidateStart, candidateEnd, scale); ok {
		conflicts = append(conflicts, c)
	}
	return conflicts
}

// overlapConflict reports one resource_conflict covering every slot on the
// candidate machine whose half-open interval intersects the candidate's.
func overlapConflict(dragged *schedule.Slot, start, end time.Time, machineID int64, all []*schedule.Slot) (schedule.Conflict, bool) {
	affected := []int64{dragged.OperationID}
	count := 0

	for _, other := range all {
		if other == nil || other.ID == dragged.ID || other.MachineID != machineID {
			continue
		}
		if schedule.Overlaps(start, end, other.Start, other.End) {
			affected = append(affected, other.OperationID)
			count++
		}
	}

	if count == 0 {
		return schedule.Conflict{}, false
	}

	noun := "operations"
	if count == 1 {
		noun = "operation"
	}
	return schedule.Conflict{
		Kind:               schedule.ResourceConflict,
		Severity:           schedule.SeverityHigh,
		Description:        fmt.Sprintf("Placement overlaps %d %s on the same machine", count, noun),
		AffectedOperations: affected,
	}, true
}

// boundaryConflict flags placements that leave the visible planning
// horizon [scale.Start, scale.End).
func boundaryConflict(dragged *schedule.Slot, start, end time.Time, scale timescale.Scale) (schedule.Conflict, bool) {
	if !start.Before(scale.Start) && !end.After(scale.End) {
		return schedule.Conflict{}, false
	}
	return schedule.Conflict{
		Kind:               schedule.DeadlineMissed,
		Severity:           schedule.SeverityMedium,
		Description:        "Placement falls outside the visible planning horizon",
		AffectedOperations: []int64{dragged.OperationID},
	}, true
}
