package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
)

func testStore(t *testing.T) *SQLite {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func mustMachine(t *testing.T, store *SQLite, name string) *schedule.Machine {
	t.Helper()
	m := &schedule.Machine{Name: name, Status: schedule.MachineIdle}
	if err := store.CreateMachine(context.Background(), m); err != nil {
		t.Fatalf("creating machine: %v", err)
	}
	return m
}

var base = time.Date(2026, time.March, 9, 8, 0, 0, 0, time.UTC)

func TestCreateAndGetSlot(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m := mustMachine(t, store, "Haas VF-2SS")

	slot := &schedule.Slot{
		WorkOrderID: 1,
		OperationID: 10,
		MachineID:   m.ID,
		Start:       base,
		End:         base.Add(2 * time.Hour),
		Color:       "4",
	}
	if err := store.CreateSlot(ctx, slot); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}
	if slot.ID == 0 {
		t.Fatal("CreateSlot did not set id")
	}

	got, err := store.GetSlot(ctx, slot.ID)
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if !got.Start.Equal(slot.Start) || !got.End.Equal(slot.End) || got.MachineID != m.ID {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if _, err := store.GetSlot(ctx, 9999); err != schedule.ErrSlotNotFound {
		t.Errorf("missing slot error = %v, want ErrSlotNotFound", err)
	}
}

func TestCreateSlotRejectsInvalid(t *testing.T) {
	store := testStore(t)
	slot := &schedule.Slot{MachineID: 1, Start: base, End: base}
	if err := store.CreateSlot(context.Background(), slot); err != schedule.ErrEndBeforeStart {
		t.Errorf("got %v, want ErrEndBeforeStart", err)
	}
}

func TestListSlotsRange(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m := mustMachine(t, store, "Okuma LB3000")

	for i := 0; i < 3; i++ {
		slot := &schedule.Slot{
			WorkOrderID: 1, OperationID: int64(10 + i), MachineID: m.ID,
			Start: base.AddDate(0, 0, i),
			End:   base.AddDate(0, 0, i).Add(2 * time.Hour),
		}
		if err := store.CreateSlot(ctx, slot); err != nil {
			t.Fatalf("CreateSlot: %v", err)
		}
	}

	all, err := store.ListSlots(ctx, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("ListSlots all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("all slots = %d, want 3", len(all))
	}

	// Window covering only the second day.
	day1 := base.AddDate(0, 0, 1).Truncate(24 * time.Hour)
	windowed, err := store.ListSlots(ctx, day1, day1.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSlots windowed: %v", err)
	}
	if len(windowed) != 1 || windowed[0].OperationID != 11 {
		t.Errorf("windowed slots = %+v, want only op 11", windowed)
	}
}

func TestMachineLaneOrderIsStable(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	names := []string{"Haas VF-2SS", "Okuma LB3000", "Hermle C22U"}
	for _, n := range names {
		mustMachine(t, store, n)
	}

	for i := 0; i < 3; i++ {
		machines, err := store.ListMachines(ctx)
		if err != nil {
			t.Fatalf("ListMachines: %v", err)
		}
		for j, m := range machines {
			if m.Name != names[j] {
				t.Fatalf("lane %d = %s, want %s", j, m.Name, names[j])
			}
		}
	}
}

func TestWorkOrderRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	w := &schedule.WorkOrder{
		Reference: "WO-1001",
		Product:   "Bracket",
		DueDate:   base.AddDate(0, 0, 5),
		Operations: []*schedule.Operation{
			{Seq: 1, Name: "Rough mill"},
			{Seq: 2, Name: "Finish mill"},
		},
	}
	if err := store.CreateWorkOrder(ctx, w); err != nil {
		t.Fatalf("CreateWorkOrder: %v", err)
	}

	orders, err := store.ListWorkOrders(ctx)
	if err != nil {
		t.Fatalf("ListWorkOrders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	got := orders[0]
	if got.Reference != "WO-1001" || !got.DueDate.Equal(w.DueDate) {
		t.Errorf("order mismatch: %+v", got)
	}
	if len(got.Operations) != 2 || got.Operations[0].Seq != 1 || got.Operations[1].Seq != 2 {
		t.Errorf("operations not in routing order: %+v", got.Operations)
	}
}

func TestOnSlotUpdatePartial(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m1 := mustMachine(t, store, "Haas VF-2SS")
	m2 := mustMachine(t, store, "Hermle C22U")

	slot := &schedule.Slot{
		WorkOrderID: 1, OperationID: 10, MachineID: m1.ID,
		Start: base, End: base.Add(2 * time.Hour),
	}
	if err := store.CreateSlot(ctx, slot); err != nil {
		t.Fatalf("CreateSlot: %v", err)
	}

	newStart := base.Add(3 * time.Hour)
	newEnd := base.Add(5 * time.Hour)
	update := schedule.SlotUpdate{Start: &newStart, End: &newEnd, MachineID: &m2.ID}
	if err := store.OnSlotUpdate(ctx, slot.ID, update); err != nil {
		t.Fatalf("OnSlotUpdate: %v", err)
	}

	got, err := store.GetSlot(ctx, slot.ID)
	if err != nil {
		t.Fatalf("GetSlot: %v", err)
	}
	if !got.Start.Equal(newStart) || !got.End.Equal(newEnd) || got.MachineID != m2.ID {
		t.Errorf("update not applied: %+v", got)
	}

	// Machine-only update leaves times alone.
	if err := store.OnSlotUpdate(ctx, slot.ID, schedule.SlotUpdate{MachineID: &m1.ID}); err != nil {
		t.Fatalf("OnSlotUpdate machine only: %v", err)
	}
	got, _ = store.GetSlot(ctx, slot.ID)
	if !got.Start.Equal(newStart) || got.MachineID != m1.ID {
		t.Errorf("partial update clobbered fields: %+v", got)
	}

	if err := store.OnSlotUpdate(ctx, 9999, update); err != schedule.ErrSlotNotFound {
		t.Errorf("missing slot update error = %v", err)
	}
}

func TestOnBulkUpdate(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	m := mustMachine(t, store, "DMG CLX 450")

	var ids []int64
	for i := 0; i < 2; i++ {
		slot := &schedule.Slot{
			WorkOrderID: 1, OperationID: int64(10 + i), MachineID: m.ID,
			Start: base.Add(time.Duration(i*3) * time.Hour),
			End:   base.Add(time.Duration(i*3+2) * time.Hour),
		}
		if err := store.CreateSlot(ctx, slot); err != nil {
			t.Fatalf("CreateSlot: %v", err)
		}
		ids = append(ids, slot.ID)
	}

	shift := 6 * time.Hour
	var updates []schedule.BulkSlotUpdate
	for i, id := range ids {
		s := base.Add(time.Duration(i*3)*time.Hour + shift)
		e := s.Add(2 * time.Hour)
		updates = append(updates, schedule.BulkSlotUpdate{ID: id, Update: schedule.SlotUpdate{Start: &s, End: &e}})
	}
	if err := store.OnBulkUpdate(ctx, updates); err != nil {
		t.Fatalf("OnBulkUpdate: %v", err)
	}

	got, _ := store.GetSlot(ctx, ids[0])
	if !got.Start.Equal(base.Add(shift)) {
		t.Errorf("bulk update not applied: %+v", got)
	}
}

func TestSeed(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	n, err := store.Seed(ctx, base)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n == 0 {
		t.Fatal("Seed created no slots")
	}

	machines, _ := store.ListMachines(ctx)
	if len(machines) != 4 {
		t.Errorf("seeded machines = %d, want 4", len(machines))
	}

	// Seeding twice must fail rather than duplicate.
	if _, err := store.Seed(ctx, base); err == nil {
		t.Error("second Seed should fail")
	}
}
