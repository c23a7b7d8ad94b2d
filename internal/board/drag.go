// Package board implements the interactive schedule board: the drag state
// machine, slot selection, and the Bubble Tea model that renders machine
// lanes against a time scale.
package board

import (
	"errors"
	"time"

	"github.com/shopfloor/shopboard/internal/detect"
	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// Drag errors.
var (
	ErrSlotLocked   = errors.New("slot is locked")
	ErrDragActive   = errors.New("drag already in progress")
	ErrSlotUpdating = errors.New("slot has a commit in flight")
)

// DragState is the live state of one drag gesture. A fresh zero value means
// no drag is active.
type DragState struct {
	Active          bool
	Slot            *schedule.Slot
	GrabOffset      time.Duration // pointer offset into the slot at grab time
	OriginalMachine int64
	CurrentMachine  int64
	SnapStart       time.Time // candidate start, snapped
	HasSnap         bool      // false until the first Move
	Conflicts       []schedule.Conflict
	Validating      bool
}

// Dragger owns the pointer-driven reschedule gesture. It is pure state: the
// model feeds it board coordinates and it produces candidate placements and
// conflict lists. Authoritative validation results arrive asynchronously
// and are matched by request id so a stale response can never overwrite the
// conflicts of a newer placement.
type Dragger struct {
	scale       timescale.Scale
	layout      timescale.Layout
	snapMinutes int

	machines []*schedule.Machine
	slots    []*schedule.Slot

	state DragState

	nextRequestID    int64
	pendingRequestID int64 // 0 when no validation is in flight
}

// NewDragger creates a drag controller for the current board contents.
func NewDragger(scale timescale.Scale, layout timescale.Layout, snapMinutes int) *Dragger {
	return &Dragger{scale: scale, layout: layout, snapMinutes: snapMinutes}
}

// SetBoard replaces the machines and slots the dragger checks against.
// Called whenever the board reloads.
func (d *Dragger) SetBoard(machines []*schedule.Machine, slots []*schedule.Slot) {
	d.machines = machines
	d.slots = slots
}

// SetScale replaces the time scale, e.g. after a view-mode switch. An
// active drag is cancelled: its pixel math no longer means anything.
func (d *Dragger) SetScale(scale timescale.Scale) {
	d.scale = scale
	d.Cancel()
}

// State returns the current drag state.
func (d *Dragger) State() DragState {
	return d.state
}

// Active reports whether a drag is in progress.
func (d *Dragger) Active() bool {
	return d.state.Active
}

// Start begins a drag on the given slot. Locked slots and slots with a
// commit in flight refuse the gesture entirely, so the state machine never
// leaves idle for them.
func (d *Dragger) Start(slot *schedule.Slot, pointerX float64, updating bool) error {
	if slot == nil {
		return schedule.ErrSlotNotFound
	}
	if d.state.Active {
		return ErrDragActive
	}
	if slot.Locked {
		return ErrSlotLocked
	}
	if updating {
		return ErrSlotUpdating
	}

	pointerTime := d.scale.XToTime(pointerX)
	d.state = DragState{
		Active:          true,
		Slot:            slot,
		GrabOffset:      pointerTime.Sub(slot.Start),
		OriginalMachine: slot.MachineID,
		CurrentMachine:  slot.MachineID,
	}
	return nil
}

// Move updates the candidate placement from a new pointer position and runs
// the synchronous local conflict check. The candidate keeps the grab offset
// so the slot does not jump to the cursor.
func (d *Dragger) Move(pointerX float64, pointerY int) {
	if !d.state.Active {
		return
	}

	lane := d.layout.LaneAt(pointerY, len(d.machines))
	machineID := d.state.CurrentMachine
	if lane >= 0 && lane < len(d.machines) {
		machineID = d.machines[lane].ID
	}

	raw := d.scale.XToTime(pointerX).Add(-d.state.GrabOffset)
	snapped := timescale.Snap(raw, d.snapMinutes)

	moved := !d.state.HasSnap || !snapped.Equal(d.state.SnapStart) || machineID != d.state.CurrentMachine

	d.state.CurrentMachine = machineID
	d.state.SnapStart = snapped
	d.state.HasSnap = true
	d.state.Conflicts = detect.Check(d.state.Slot, snapped, machineID, d.slots, d.scale)

	// A new placement orphans any in-flight validation; its result would
	// describe a position the slot is no longer at.
	if moved {
		d.pendingRequestID = 0
		d.state.Validating = false
	}
}

// End finishes the drag. It returns the update to commit and true, or a
// zero update and false when there is nothing to commit: no active drag, no
// pointer movement since Start, or a placement identical to the original.
// Conflicts never block the commit; they are advisory.
func (d *Dragger) End() (int64, schedule.SlotUpdate, bool) {
	st := d.state
	d.reset()

	if !st.Active || !st.HasSnap {
		return 0, schedule.SlotUpdate{}, false
	}
	if st.SnapStart.Equal(st.Slot.Start) && st.CurrentMachine == st.OriginalMachine {
		return 0, schedule.SlotUpdate{}, false
	}

	start := st.SnapStart
	end := start.Add(st.Slot.Duration())
	update := schedule.SlotUpdate{Start: &start, End: &end}
	if st.CurrentMachine != st.OriginalMachine {
		machine := st.CurrentMachine
		update.MachineID = &machine
	}
	return st.Slot.ID, update, true
}

// Cancel abandons the drag without committing.
func (d *Dragger) Cancel() {
	d.reset()
}

func (d *Dragger) reset() {
	d.state = DragState{}
	d.pendingRequestID = 0
}

// Candidate returns the slot as it would be placed right now. Returns nil
// when no placement exists yet.
func (d *Dragger) Candidate() *schedule.Slot {
	if !d.state.Active || !d.state.HasSnap {
		return nil
	}
	c := *d.state.Slot
	c.Start = d.state.SnapStart
	c.End = c.Start.Add(d.state.Slot.Duration())
	c.MachineID = d.state.CurrentMachine
	return &c
}

// BeginValidation marks the current placement as awaiting an authoritative
// check and returns the request id to attach to it. Each call invalidates
// any earlier in-flight request.
func (d *Dragger) BeginValidation() int64 {
	if !d.state.Active {
		return 0
	}
	d.nextRequestID++
	d.pendingRequestID = d.nextRequestID
	d.state.Validating = true
	return d.pendingRequestID
}

// ApplyValidation merges an authoritative result into the conflict list.
// Results whose request id does not match the latest in-flight request are
// discarded: the placement they were computed for no longer exists.
func (d *Dragger) ApplyValidation(requestID int64, conflicts []schedule.Conflict) bool {
	if !d.state.Active || requestID == 0 || requestID != d.pendingRequestID {
		return false
	}
	d.state.Conflicts = schedule.MergeConflicts(d.state.Conflicts, conflicts)
	d.state.Validating = false
	d.pendingRequestID = 0
	return true
}
