// Package validate implements the authoritative conflict validation
// service. Unlike the local detector it sees the whole dataset: operation
// precedence inside a work order, per-machine daily capacity, and work
// order due dates. It is request/response and has no persistence side
// effects.
package validate

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// DefaultDayCapacityHours is the assumed bookable hours per machine per
// calendar day (two shifts).
const DefaultDayCapacityHours = 16

// Service validates candidate slots against the authoritative schedule.
type Service interface {
	Validate(ctx context.Context, candidates []*schedule.Slot) ([]schedule.Conflict, error)
}

// Rules is the rules-based Service implementation. Candidates are treated
// as speculative overrides of their persisted counterparts; nothing is
// written.
type Rules struct {
	provider    schedule.Provider
	dayCapacity time.Duration
}

// NewRules creates a rules validator. dayCapacityHours <= 0 selects the
// default.
func NewRules(provider schedule.Provider, dayCapacityHours float64) *Rules {
	if dayCapacityHours <= 0 {
		dayCapacityHours = DefaultDayCapacityHours
	}
	return &Rules{
		provider:    provider,
		dayCapacity: time.Duration(dayCapacityHours * float64(time.Hour)),
	}
}

// Validate runs the precedence, capacity and due-date rules for each
// candidate placement.
func (r *Rules) Validate(ctx context.Context, candidates []*schedule.Slot) ([]schedule.Conflict, error) {
	persisted, err := r.provider.ListSlots(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("listing slots: %w", err)
	}
	orders, err := r.provider.ListWorkOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing work orders: %w", err)
	}

	effective := overrideSlots(persisted, candidates)

	var conflicts []schedule.Conflict
	for _, cand := range candidates {
		if cand == nil {
			continue
		}
		conflicts = append(conflicts, precedenceConflicts(cand, effective, orders)...)
		if c, ok := capacityConflict(cand, effective, r.dayCapacity); ok {
			conflicts = append(conflicts, c)
		}
		if c, ok := dueDateConflict(cand, orders); ok {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts, nil
}

// overrideSlots replaces persisted slots with their candidate versions and
// appends candidates that do not exist yet.
func overrideSlots(persisted, candidates []*schedule.Slot) []*schedule.Slot {
	byID := make(map[int64]*schedule.Slot, len(candidates))
	for _, c := range candidates {
		if c != nil {
			byID[c.ID] = c
		}
	}

	result := make([]*schedule.Slot, 0, len(persisted)+len(candidates))
	for _, s := range persisted {
		if override, ok := byID[s.ID]; ok {
			result = append(result, override)
			delete(byID, s.ID)
			continue
		}
		result = append(result, s)
	}
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if _, pending := byID[c.ID]; pending {
			result = append(result, c)
		}
	}
	return result
}

// slotForOperation finds the effective slot scheduling a given operation.
func slotForOperation(slots []*schedule.Slot, operationID int64) *schedule.Slot {
	for _, s := range slots {
		if s.OperationID == operationID {
			return s
		}
	}
	return nil
}

// precedenceConflicts checks the candidate against its work order's
// routing: predecessors must finish before it starts, successors must not
// start before it ends.
func precedenceConflicts(cand *schedule.Slot, effective []*schedule.Slot, orders []*schedule.WorkOrder) []schedule.Conflict {
	order, op := schedule.FindOperation(orders, cand.OperationID)
	if order == nil || op == nil {
		return nil
	}

	var conflicts []schedule.Conflict
	for _, other := range order.Operations {
		if other.ID == op.ID {
			continue
		}
		otherSlot := slotForOperation(effective, other.ID)
		if otherSlot == nil {
			continue
		}

		switch {
		case other.Seq < op.Seq && cand.Start.Before(otherSlot.End):
			conflicts = append(conflicts, schedule.Conflict{
				Kind:     schedule.PrecedenceViolation,
				Severity: schedule.SeverityHigh,
				Description: fmt.Sprintf("%s op %d starts before predecessor op %d finishes",
					order.Reference, op.Seq, other.Seq),
				AffectedOperations:  []int64{op.ID, other.ID},
				SuggestedResolution: "Move this operation after its predecessor, or pull the predecessor earlier",
			})
		case other.Seq > op.Seq && otherSlot.Start.Before(cand.End):
			conflicts = append(conflicts, schedule.Conflict{
				Kind:     schedule.PrecedenceViolation,
				Severity: schedule.SeverityHigh,
				Description: fmt.Sprintf("%s op %d now finishes after successor op %d starts",
					order.Reference, op.Seq, other.Seq),
				AffectedOperations:  []int64{op.ID, other.ID},
				SuggestedResolution: "Reschedule the successor operation later",
			})
		}
	}
	return conflicts
}

// capacityConflict sums booked time per calendar day on the candidate's
// machine and flags days exceeding the capacity. Only days the candidate
// touches are examined.
func capacityConflict(cand *schedule.Slot, effective []*schedule.Slot, capacity time.Duration) (schedule.Conflict, bool) {
	for day := timescale.StartOfDay(cand.Start); day.Before(cand.End); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)

		var booked time.Duration
		affected := make([]int64, 0, 4)
		for _, s := range effective {
			if s.MachineID != cand.MachineID {
				continue
			}
			if !schedule.Overlaps(s.Start, s.End, day, dayEnd) {
				continue
			}
			booked += clip(s.Start, s.End, day, dayEnd)
			affected = append(affected, s.OperationID)
		}

		if booked > capacity {
			return schedule.Conflict{
				Kind:     schedule.CapacityOverload,
				Severity: schedule.SeverityMedium,
				Description: fmt.Sprintf("Machine booked %.1fh on %s, capacity is %.1fh",
					booked.Hours(), day.Format("Jan 02"), capacity.Hours()),
				AffectedOperations:  affected,
				SuggestedResolution: "Spread work across machines or move some to another day",
			}, true
		}
	}
	return schedule.Conflict{}, false
}

// clip returns the length of [start, end) intersected with [lo, hi).
func clip(start, end, lo, hi time.Time) time.Duration {
	if start.Before(lo) {
		start = lo
	}
	if end.After(hi) {
		end = hi
	}
	if !start.Before(end) {
		return 0
	}
	return end.Sub(start)
}

// dueDateConflict flags candidates finishing after their work order's due
// date.
func dueDateConflict(cand *schedule.Slot, orders []*schedule.WorkOrder) (schedule.Conflict, bool) {
	order, op := schedule.FindOperation(orders, cand.OperationID)
	if order == nil || op == nil || order.DueDate.IsZero() {
		return schedule.Conflict{}, false
	}
	if !cand.End.After(order.DueDate) {
		return schedule.Conflict{}, false
	}
	return schedule.Conflict{
		Kind:     schedule.DeadlineMissed,
		Severity: schedule.SeverityHigh,
		Description: fmt.Sprintf("%s finishes %s, after its due date %s",
			order.Reference, cand.End.Format("Jan 02 15:04"), order.DueDate.Format("Jan 02 15:04")),
		AffectedOperations:  []int64{op.ID},
		SuggestedResolution: "Pull the operation earlier or renegotiate the due date",
	}, true
}
