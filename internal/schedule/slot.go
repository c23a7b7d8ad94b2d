// Package schedule defines the core domain types for shopboard.
package schedule

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrEndBeforeStart = errors.New("end time must be after start time")
	ErrNoMachine      = errors.New("slot must be assigned to a machine")
	ErrSlotNotFound   = errors.New("slot not found")
)

// MachineStatus represents the operational state of a machine.
type MachineStatus string

const (
	MachineRunning     MachineStatus = "running"
	MachineIdle        MachineStatus = "idle"
	MachineSetup       MachineStatus = "setup"
	MachineMaintenance MachineStatus = "maintenance"
	MachineError       MachineStatus = "error"
)

// Valid returns true if the status is a known value.
func (s MachineStatus) Valid() bool {
	switch s {
	case MachineRunning, MachineIdle, MachineSetup, MachineMaintenance, MachineError:
		return true
	default:
		return false
	}
}

// Machine represents one machine on the shop floor. Machines define the
// board's lanes; the lane index is the machine's position in the provided
// list, not a stored attribute.
type Machine struct {
	ID        int64
	Name      string
	Operation string // display label, e.g. "3-axis mill"
	Status    MachineStatus
}

// Slot represents one machine-time assignment for a work-order operation.
// The interval is half-open: [Start, End).
type Slot struct {
	ID          int64
	WorkOrderID int64
	OperationID int64
	MachineID   int64
	Start       time.Time
	End         time.Time
	Locked      bool   // excluded from dragging
	Color       string // display hint, hex or named
}

// Validate checks the slot's structural invariants.
func (s *Slot) Validate() error {
	if !s.Start.Before(s.End) {
		return ErrEndBeforeStart
	}
	if s.MachineID == 0 {
		return ErrNoMachine
	}
	return nil
}

// Duration returns the slot's length.
func (s *Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// OverlapsWith returns true if this slot overlaps another slot on the same
// machine. Touching endpoints do not overlap.
func (s *Slot) OverlapsWith(other *Slot) bool {
	if other == nil || s.MachineID != other.MachineID {
		return false
	}
	return Overlaps(s.Start, s.End, other.Start, other.End)
}

// Overlaps reports whether two half-open intervals intersect.
// Intervals overlap iff aStart < bEnd AND bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// LaneIndex returns the index of a machine in the given list, or -1.
// The board renders machines in list order, so this index is the lane.
func LaneIndex(machines []*Machine, machineID int64) int {
	for i, m := range machines {
		if m.ID == machineID {
			return i
		}
	}
	return -1
}
