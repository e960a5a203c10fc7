package commands

import (
	"context"

	"dispatch/internal/core/domain/model/task"
)

// CreateTaskCommandHandler handles the business logic for opening delivery
// tasks. One order maps to at most one task; the repository rejects a second
// task for the same order.
//
// Example:
//
//	handler := NewCreateTaskCommandHandler(uowFactory)
//	cmd, _ := NewCreateTaskCommand(taskID, orderID, restaurantID, pickup, dropoff)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("task creation failed: %w", err)
//	}
type CreateTaskCommandHandler struct {
	uowFactory TaskUoWFactory
}

// NewCreateTaskCommandHandler creates a handler for task creation operations.
// Requires a TaskUoWFactory for transactional persistence.
func NewCreateTaskCommandHandler(uowFactory TaskUoWFactory) CreateTaskCommandHandler {
	return CreateTaskCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the task creation command.
// Creates the task in PENDING status and persists it, rolling back on error.
func (h *CreateTaskCommandHandler) Handle(ctx context.Context, cmd CreateTaskCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	deliveryTask, err := task.NewDeliveryTask(
		cmd.TaskID(),
		cmd.OrderID(),
		cmd.RestaurantID(),
		cmd.Pickup(),
		cmd.Dropoff(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.TaskRepository().Add(ctx, deliveryTask); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
