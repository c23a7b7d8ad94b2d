package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopfloor/shopboard/internal/schedule"
	"github.com/shopfloor/shopboard/internal/timescale"
)

// Seed populates an empty database with a demo shop: four machines, a
// handful of work orders with two-step routings, and a week of slots
// around the given anchor date. Returns the number of slots created.
func (s *SQLite) Seed(ctx context.Context, anchor time.Time) (int, error) {
	existing, err := s.ListMachines(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, fmt.Errorf("database already seeded (%d machines)", len(existing))
	}

	machines := []*schedule.Machine{
		{Name: "Haas VF-2SS", Operation: "3-axis mill", Status: schedule.MachineRunning},
		{Name: "Okuma LB3000", Operation: "CNC lathe", Status: schedule.MachineRunning},
		{Name: "Hermle C22U", Operation: "5-axis mill", Status: schedule.MachineIdle},
		{Name: "DMG CLX 450", Operation: "mill-turn", Status: schedule.MachineSetup},
	}
	for _, m := range machines {
		if err := s.CreateMachine(ctx, m); err != nil {
			return 0, err
		}
	}

	weekStart := timescale.StartOfWeek(anchor)
	orders := []*schedule.WorkOrder{
		{
			Reference: "WO-1001", Product: "Rocket Bracket",
			DueDate: weekStart.AddDate(0, 0, 4).Add(17 * time.Hour),
			Operations: []*schedule.Operation{
				{Seq: 1, Name: "Rough mill"},
				{Seq: 2, Name: "Finish mill"},
			},
		},
		{
			Reference: "WO-1002", Product: "Valve Body",
			DueDate: weekStart.AddDate(0, 0, 5).Add(12 * time.Hour),
			Operations: []*schedule.Operation{
				{Seq: 1, Name: "Turn"},
				{Seq: 2, Name: "Mill ports"},
			},
		},
		{
			Reference: "WO-1003", Product: "Watch Crown",
			DueDate: weekStart.AddDate(0, 0, 3).Add(17 * time.Hour),
			Operations: []*schedule.Operation{
				{Seq: 1, Name: "Turn"},
			},
		},
		{
			Reference: "WO-1004", Product: "Camera Plate",
			Operations: []*schedule.Operation{
				{Seq: 1, Name: "Mill"},
				{Seq: 2, Name: "Deburr"},
			},
		},
	}
	for _, w := range orders {
		if err := s.CreateWorkOrder(ctx, w); err != nil {
			return 0, err
		}
	}

	at := func(day, hour int) time.Time {
		return weekStart.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour)
	}

	slots := []*schedule.Slot{
		{WorkOrderID: orders[0].ID, OperationID: orders[0].Operations[0].ID, MachineID: machines[0].ID,
			Start: at(0, 8), End: at(0, 12), Color: "4"},
		{WorkOrderID: orders[0].ID, OperationID: orders[0].Operations[1].ID, MachineID: machines[2].ID,
			Start: at(1, 8), End: at(1, 14), Color: "4"},
		{WorkOrderID: orders[1].ID, OperationID: orders[1].Operations[0].ID, MachineID: machines[1].ID,
			Start: at(0, 9), End: at(0, 15), Color: "2"},
		{WorkOrderID: orders[1].ID, OperationID: orders[1].Operations[1].ID, MachineID: machines[3].ID,
			Start: at(1, 6), End: at(1, 11), Color: "2"},
		{WorkOrderID: orders[2].ID, OperationID: orders[2].Operations[0].ID, MachineID: machines[1].ID,
			Start: at(1, 8), End: at(1, 16), Color: "5"},
		{WorkOrderID: orders[3].ID, OperationID: orders[3].Operations[0].ID, MachineID: machines[0].ID,
			Start: at(2, 6), End: at(2, 13), Color: "3"},
		{WorkOrderID: orders[3].ID, OperationID: orders[3].Operations[1].ID, MachineID: machines[0].ID,
			Start: at(2, 14), End: at(2, 16), Locked: true, Color: "3"},
	}
	for _, slot := range slots {
		if err := s.CreateSlot(ctx, slot); err != nil {
			return 0, err
		}
	}

	return len(slots), nil
}
