// Package db provides the SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shopfloor/shopboard/internal/schedule"
)

// SQLite implements schedule.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate creates the schema if it does not exist.
func (s *SQLite) migrate() error {
	schemaSQL := `
		CREATE TABLE IF NOT EXISTS machines (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			name      TEXT NOT NULL,
			operation TEXT NOT NULL DEFAULT '',
			status    TEXT NOT NULL DEFAULT 'idle',
			position  INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS work_orders (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL,
			product   TEXT NOT NULL DEFAULT '',
			due_date  TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS operations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			work_order_id INTEGER NOT NULL REFERENCES work_orders(id),
			seq           INTEGER NOT NULL,
			name          TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS slots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			work_order_id INTEGER NOT NULL REFERENCES work_orders(id),
			operation_id  INTEGER NOT NULL REFERENCES operations(id),
			machine_id    INTEGER NOT NULL REFERENCES machines(id),
			start_time    TEXT NOT NULL,
			end_time      TEXT NOT NULL,
			locked        INTEGER NOT NULL DEFAULT 0,
			color         TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_slots_machine ON slots(machine_id);
		CREATE INDEX IF NOT EXISTS idx_slots_start ON slots(start_time);
		CREATE INDEX IF NOT EXISTS idx_operations_order ON operations(work_order_id, seq);
	`
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ListSlots returns slots intersecting [from, to), ordered by start time.
// A zero "to" means no upper bound; a zero "from" means no lower bound.
func (s *SQLite) ListSlots(ctx context.Context, from, to time.Time) ([]*schedule.Slot, error) {
	query := `
		SELECT id, work_order_id, operation_id, machine_id, start_time, end_time, locked, color
		FROM slots
	`
	var (
		clauses []string
		args    []any
	)
	if !from.IsZero() {
		clauses = append(clauses, "end_time > ?")
		args = append(args, from.Format(time.RFC3339))
	}
	if !to.IsZero() {
		clauses = append(clauses, "start_time < ?")
		args = append(args, to.Format(time.RFC3339))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_time, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	var slots []*schedule.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating slots: %w", err)
	}
	return slots, nil
}

// GetSlot retrieves a slot by id. Returns schedule.ErrSlotNotFound if
// there is no such slot.
func (s *SQLite) GetSlot(ctx context.Context, id int64) (*schedule.Slot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, work_order_id, operation_id, machine_id, start_time, end_time, locked, color
		FROM slots
		WHERE id = ?
	`, id)

	slot, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, schedule.ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	return slot, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(row scanner) (*schedule.Slot, error) {
	var (
		slot       schedule.Slot
		start, end string
		locked     int
	)
	err := row.Scan(
		&slot.ID,
		&slot.WorkOrderID,
		&slot.OperationID,
		&slot.MachineID,
		&start,
		&end,
		&locked,
		&slot.Color,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning slot: %w", err)
	}

	if slot.Start, err = time.Parse(time.RFC3339, start); err != nil {
		return nil, fmt.Errorf("parsing start time: %w", err)
	}
	if slot.End, err = time.Parse(time.RFC3339, end); err != nil {
		return nil, fmt.Errorf("parsing end time: %w", err)
	}
	slot.Locked = locked != 0

	return &slot, nil
}

// ListMachines returns machines in lane order. The position column is the
// lane ordering; it must be stable across a render cycle or the board's
// drag math breaks.
func (s *SQLite) ListMachines(ctx context.Context) ([]*schedule.Machine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, operation, status
		FROM machines
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying machines: %w", err)
	}
	defer rows.Close()

	var machines []*schedule.Machine
	for rows.Next() {
		var m schedule.Machine
		var status string
		if err := rows.Scan(&m.ID, &m.Name, &m.Operation, &status); err != nil {
			return nil, fmt.Errorf("scanning machine: %w", err)
		}
		m.Status = schedule.MachineStatus(status)
		machines = append(machines, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating machines: %w", err)
	}
	return machines, nil
}

// ListWorkOrders returns all work orders with their operations ordered by
// routing sequence.
func (s *SQLite) ListWorkOrders(ctx context.Context) ([]*schedule.WorkOrder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, reference, product, due_date
		FROM work_orders
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying work orders: %w", err)
	}
	defer rows.Close()

	orders := make(map[int64]*schedule.WorkOrder)
	var ordered []*schedule.WorkOrder
	for rows.Next() {
		var (
			w   schedule.WorkOrder
			due string
		)
		if err := rows.Scan(&w.ID, &w.Reference, &w.Product, &due); err != nil {
			return nil, fmt.Errorf("scanning work order: %w", err)
		}
		if due != "" {
			if w.DueDate, err = time.Parse(time.RFC3339, due); err != nil {
				return nil, fmt.Errorf("parsing due date: %w", err)
			}
		}
		orders[w.ID] = &w
		ordered = append(ordered, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work orders: %w", err)
	}

	opRows, err := s.db.QueryContext(ctx, `
		SELECT id, work_order_id, seq, name
		FROM operations
		ORDER BY work_order_id, seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying operations: %w", err)
	}
	defer opRows.Close()

	for opRows.Next() {
		var op schedule.Operation
		if err := opRows.Scan(&op.ID, &op.WorkOrderID, &op.Seq, &op.Name); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if w, ok := orders[op.WorkOrderID]; ok {
			w.Operations = append(w.Operations, &op)
		}
	}
	if err := opRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}

	return ordered, nil
}

// CreateSlot inserts a new slot and sets its id.
func (s *SQLite) CreateSlot(ctx context.Context, slot *schedule.Slot) error {
	if err := slot.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (work_order_id, operation_id, machine_id, start_time, end_time, locked, color)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		slot.WorkOrderID,
		slot.OperationID,
		slot.MachineID,
		slot.Start.Format(time.RFC3339),
		slot.End.Format(time.RFC3339),
		boolToInt(slot.Locked),
		slot.Color,
	)
	if err != nil {
		return fmt.Errorf("inserting slot: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	slot.ID = id
	return nil
}

// CreateMachine inserts a machine at the end of the lane order.
func (s *SQLite) CreateMachine(ctx context.Context, m *schedule.Machine) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO machines (name, operation, status, position)
		VALUES (?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM machines))
	`, m.Name, m.Operation, string(m.Status))
	if err != nil {
		return fmt.Errorf("inserting machine: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	m.ID = id
	return nil
}

// CreateWorkOrder inserts a work order and its operations in one
// transaction, setting all ids.
func (s *SQLite) CreateWorkOrder(ctx context.Context, w *schedule.WorkOrder) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	due := ""
	if !w.DueDate.IsZero() {
		due = w.DueDate.Format(time.RFC3339)
	}
	result, err := tx.ExecContext(ctx, `
		INSERT INTO work_orders (reference, product, due_date)
		VALUES (?, ?, ?)
	`, w.Reference, w.Product, due)
	if err != nil {
		return fmt.Errorf("inserting work order: %w", err)
	}
	if w.ID, err = result.LastInsertId(); err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}

	for _, op := range w.Operations {
		op.WorkOrderID = w.ID
		result, err := tx.ExecContext(ctx, `
			INSERT INTO operations (work_order_id, seq, name)
			VALUES (?, ?, ?)
		`, op.WorkOrderID, op.Seq, op.Name)
		if err != nil {
			return fmt.Errorf("inserting operation: %w", err)
		}
		if op.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// OnSlotUpdate applies a partial update to one slot. Nil fields are left
// unchanged. Invoked once per completed drag.
func (s *SQLite) OnSlotUpdate(ctx context.Context, id int64, update schedule.SlotUpdate) error {
	return applySlotUpdate(ctx, s.db, id, update)
}

// OnBulkUpdate applies several partial updates atomically.
func (s *SQLite) OnBulkUpdate(ctx context.Context, updates []schedule.BulkSlotUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range updates {
		if err := applySlotUpdate(ctx, tx, u.ID, u.Update); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func applySlotUpdate(ctx context.Context, db execer, id int64, update schedule.SlotUpdate) error {
	var (
		sets []string
		args []any
	)
	if update.Start != nil {
		sets = append(sets, "start_time = ?")
		args = append(args, update.Start.Format(time.RFC3339))
	}
	if update.End != nil {
		sets = append(sets, "end_time = ?")
		args = append(args, update.End.Format(time.RFC3339))
	}
	if update.MachineID != nil {
		sets = append(sets, "machine_id = ?")
		args = append(args, *update.MachineID)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	result, err := db.ExecContext(ctx, "UPDATE slots SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating slot %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return schedule.ErrSlotNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
