package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrCreateTaskCommandIsNotConstructed = errors.New(
	"CreateTaskCommand must be created via NewCreateTaskCommand constructor",
)

// CreateTaskCommand represents a request to open a delivery task for a placed
// order. The order-lifecycle owner calls this once per order when the kitchen
// confirms it; the task starts in PENDING and waits for dispatch.
//
// Example:
//
//	cmd, err := NewCreateTaskCommand(kernel.NewUUID(), orderID, restaurantID, pickup, dropoff)
//	if err != nil {
//	    return fmt.Errorf("invalid task data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create task: %w", err)
//	}
type CreateTaskCommand struct { //nolint:recvcheck //using for validation
	taskID       kernel.UUID
	orderID      kernel.UUID
	restaurantID kernel.UUID
	pickup       kernel.Address
	dropoff      kernel.Address

	guard guard.ConstructorGuard
}

// NewCreateTaskCommand creates a command to open a delivery task.
// Validates that all identifiers are valid and both addresses are complete.
func NewCreateTaskCommand(
	taskID kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.Address,
	dropoff kernel.Address,
) (CreateTaskCommand, error) {
	taskCommand := CreateTaskCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		taskCommand.setTaskID(taskID),
		taskCommand.setOrderID(orderID),
		taskCommand.setRestaurantID(restaurantID),
		taskCommand.setPickup(pickup),
		taskCommand.setDropoff(dropoff),
	); err != nil {
		return CreateTaskCommand{}, err
	}

	return taskCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateTaskCommandIsNotConstructed if validation fails.
func (c CreateTaskCommand) Validate() error {
	return c.guard.Validate(ErrCreateTaskCommandIsNotConstructed)
}

// TaskID returns the unique identifier for the new task.
func (c CreateTaskCommand) TaskID() kernel.UUID {
	return c.taskID
}

// OrderID returns the order the task delivers.
func (c CreateTaskCommand) OrderID() kernel.UUID {
	return c.orderID
}

// RestaurantID returns the restaurant that owns the order.
func (c CreateTaskCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Pickup returns the restaurant pickup address snapshot.
func (c CreateTaskCommand) Pickup() kernel.Address {
	return c.pickup
}

// Dropoff returns the customer dropoff address snapshot.
func (c CreateTaskCommand) Dropoff() kernel.Address {
	return c.dropoff
}

func (c *CreateTaskCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *CreateTaskCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateTaskCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateTaskCommand) setPickup(pickup kernel.Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}

	c.pickup = pickup
	return nil
}

func (c *CreateTaskCommand) setDropoff(dropoff kernel.Address) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}

	c.dropoff = dropoff
	return nil
}
