package schedule

import (
	"context"
	"time"
)

// SlotUpdate is a partial update applied to one slot at commit time.
// Nil fields are left unchanged.
type SlotUpdate struct {
	Start     *time.Time
	End       *time.Time
	MachineID *int64
}

// BulkSlotUpdate pairs a slot id with its partial update.
type BulkSlotUpdate struct {
	ID     int64
	Update SlotUpdate
}

// Provider supplies read-only snapshots of the shop data. The board never
// mutates what it is handed; refreshes happen by re-listing.
type Provider interface {
	// ListSlots returns slots intersecting [from, to). A zero "to" means
	// no upper bound.
	ListSlots(ctx context.Context, from, to time.Time) ([]*Slot, error)
	ListMachines(ctx context.Context) ([]*Machine, error)
	ListWorkOrders(ctx context.Context) ([]*WorkOrder, error)
	GetSlot(ctx context.Context, id int64) (*Slot, error)
}

// CommitSink receives completed drags. Invoked once per drag; the board
// does not retry, so implementations should be idempotent-safe.
type CommitSink interface {
	OnSlotUpdate(ctx context.Context, id int64, update SlotUpdate) error
	OnBulkUpdate(ctx context.Context, updates []BulkSlotUpdate) error
}

// Repository is the persistence collaborator: snapshot provider plus
// commit sink plus the write operations the CLI needs.
type Repository interface {
	Provider
	CommitSink

	CreateSlot(ctx context.Context, s *Slot) error
	CreateMachine(ctx context.Context, m *Machine) error
	CreateWorkOrder(ctx context.Context, w *WorkOrder) error

	Close() error
}
