package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
)

// ErrDuplicateOrderTask is returned when a second delivery task is created for
// an order that already has one. One order maps to at most one task.
var ErrDuplicateOrderTask = errors.New("a delivery task for this order already exists")

// TaskRepository defines the persistence contract for delivery task aggregates.
type TaskRepository interface {
	// Add persists a new delivery task aggregate to storage.
	// Fails with ErrDuplicateOrderTask when a task for the same order
	// already exists.
	Add(ctx context.Context, aggregate *task.DeliveryTask) error

	// Update persists changes to an existing delivery task aggregate.
	// The write is guarded by the version the aggregate was loaded with;
	// a concurrent writer having bumped the version since the load fails
	// the update with errs.ErrConcurrencyConflict.
	Update(ctx context.Context, aggregate *task.DeliveryTask) error

	// Get retrieves a delivery task aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*task.DeliveryTask, error)

	// GetByOrderID retrieves the delivery task created for the given order.
	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*task.DeliveryTask, error)
}
