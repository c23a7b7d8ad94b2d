package schedule

import "time"

// Operation is one routing step of a work order. Operations with a lower
// Seq must finish before a higher Seq may start.
type Operation struct {
	ID          int64
	WorkOrderID int64
	Seq         int
	Name        string
}

// WorkOrder groups the operations of one production order.
type WorkOrder struct {
	ID         int64
	Reference  string // e.g. "WO-2041"
	Product    string
	DueDate    time.Time
	Operations []*Operation
}

// OperationByID returns the operation with the given id, or nil.
func (w *WorkOrder) OperationByID(id int64) *Operation {
	for _, op := range w.Operations {
		if op.ID == id {
			return op
		}
	}
	return nil
}

// FindOperation looks an operation up across a set of work orders.
// Returns the owning work order and the operation, or nils.
func FindOperation(orders []*WorkOrder, operationID int64) (*WorkOrder, *Operation) {
	for _, w := range orders {
		if op := w.OperationByID(operationID); op != nil {
			return w, op
		}
	}
	return nil, nil
}
