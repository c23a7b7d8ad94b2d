// Package commands provides board command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
	"github.com/shopfloor/shopboard/internal/validate"
)

// BoardLoadedMsg is sent when the visible window's data is loaded.
type BoardLoadedMsg struct {
	Machines []*schedule.Machine
	Slots    []*schedule.Slot
	Orders   []*schedule.WorkOrder
}

// SlotCommittedMsg is sent when a reschedule has been persisted.
type SlotCommittedMsg struct {
	ID int64
}

// BulkCommittedMsg is sent when a bulk reschedule has been persisted.
type BulkCommittedMsg struct {
	Count int
}

// ValidationResultMsg carries an authoritative conflict check result. The
// request id ties it to the placement it was computed for; the model drops
// results whose id is no longer current. A non-nil Err means the service
// call failed and the conflict list is empty.
type ValidationResultMsg struct {
	RequestID int64
	Conflicts []schedule.Conflict
	Err       error
}

// DebounceElapsedMsg fires when the validation debounce timer expires. Seq
// identifies the pointer-move generation that armed the timer; older
// generations are ignored.
type DebounceElapsedMsg struct {
	Seq int
}

// NowTickMsg drives the now-marker refresh.
type NowTickMsg struct {
	Now time.Time
}

// CopiedMsg is sent when the window export reached the clipboard.
type CopiedMsg struct{}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadBoard loads everything the window needs: machines (lanes), the slots
// intersecting the window, and work orders for labels.
func LoadBoard(provider schedule.Provider, scale timescale.Scale) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		machines, err := provider.ListMachines(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading machines: %w", err)}
		}
		slots, err := provider.ListSlots(ctx, scale.Start, scale.End)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading slots: %w", err)}
		}
		orders, err := provider.ListWorkOrders(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading work orders: %w", err)}
		}

		return BoardLoadedMsg{Machines: machines, Slots: slots, Orders: orders}
	}
}

// CommitSlot persists one reschedule.
func CommitSlot(sink schedule.CommitSink, id int64, update schedule.SlotUpdate) tea.Cmd {
	return func() tea.Msg {
		if err := sink.OnSlotUpdate(context.Background(), id, update); err != nil {
			return ErrMsg{Err: fmt.Errorf("committing slot %d: %w", id, err)}
		}
		return SlotCommittedMsg{ID: id}
	}
}

// CommitBulk persists a set of reschedules atomically.
func CommitBulk(sink schedule.CommitSink, updates []schedule.BulkSlotUpdate) tea.Cmd {
	return func() tea.Msg {
		if err := sink.OnBulkUpdate(context.Background(), updates); err != nil {
			return ErrMsg{Err: fmt.Errorf("committing %d slots: %w", len(updates), err)}
		}
		return BulkCommittedMsg{Count: len(updates)}
	}
}

// Validate runs the authoritative conflict check for a candidate placement.
// A service failure fails open: the result carries the error for the debug
// log but no conflicts, so the local set stays authoritative and the drag
// is never wedged.
func Validate(svc validate.Service, requestID int64, candidates []*schedule.Slot) tea.Cmd {
	return func() tea.Msg {
		conflicts, err := svc.Validate(context.Background(), candidates)
		if err != nil {
			return ValidationResultMsg{RequestID: requestID, Err: err}
		}
		return ValidationResultMsg{RequestID: requestID, Conflicts: conflicts}
	}
}

// Debounce arms the validation debounce timer for one pointer-move
// generation.
func Debounce(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DebounceElapsedMsg{Seq: seq}
	})
}

// NowTick schedules the next now-marker refresh. Day view refreshes every
// minute; coarser views every five, since the marker moves less than a
// cell per minute there.
func NowTick(mode timescale.ViewMode) tea.Cmd {
	interval := 5 * time.Minute
	if mode == timescale.ViewDay {
		interval = time.Minute
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return NowTickMsg{Now: t}
	})
}

// CopyToClipboard writes the window export to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{}
	}
}

// ClearStatusAfter clears the status line once the display window passes.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
