package task

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrTaskIsNotConstructed is returned when a DeliveryTask instance was not
	// created through NewDeliveryTask or RestoreDeliveryTask.
	ErrTaskIsNotConstructed = errors.New("DeliveryTask must be created via NewDeliveryTask constructor")

	// ErrInvalidTransition is the sentinel wrapped by InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyDelivered is returned when advancing a DELIVERED task.
	// Callers treat it as a no-op success so completion cascades stay
	// exactly-once under retries.
	ErrAlreadyDelivered = errors.New("task is already delivered")
)

// InvalidTransitionError names the current and requested status of a rejected
// lifecycle transition.
type InvalidTransitionError struct {
	From Status
	To   Status
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given pair.
func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move task from %s to %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// DeliveryTask represents the per-order delivery record tracked from PENDING
// through DELIVERED. It is the aggregate root of the delivery lifecycle.
//
// DeliveryTask follows these invariants:
//   - Exactly one task exists per order (uniqueness enforced by persistence)
//   - agentID is set if and only if the status is not PENDING
//   - Pickup and dropoff snapshots are captured at creation and never change
//   - pickedUpAt and deliveredAt are set exactly once
//   - DELIVERED is terminal: no further mutation is permitted
//
// The task references its order only by opaque identifier; completion is
// reported to the order-lifecycle owner through a callback, never by reaching
// into order internals.
type DeliveryTask struct {
	// id is the unique identifier for the task
	id kernel.UUID

	// orderID is the opaque reference to the parent order (unique per task)
	orderID kernel.UUID

	// restaurantID is the restaurant the order belongs to, captured at creation
	restaurantID kernel.UUID

	// agentID is the assigned agent's ID (nil while PENDING)
	agentID *kernel.UUID

	// status is the current state in the delivery lifecycle
	status Status

	// pickup is the address snapshot where the agent collects the order
	pickup kernel.Address

	// dropoff is the address snapshot where the order is delivered
	dropoff kernel.Address

	// assignedAt is set on assignment and cleared on unassign
	assignedAt *time.Time

	// pickedUpAt is set exactly once when the task reaches PICKED_UP
	pickedUpAt *time.Time

	// deliveredAt is set exactly once when the task reaches DELIVERED
	deliveredAt *time.Time

	// version supports optimistic concurrency control on task updates
	version int64

	// guard ensures the task was properly constructed
	guard guard.ConstructorGuard
}

// NewDeliveryTask creates a task for an order that became eligible for
// delivery. The task starts in PENDING with no agent; both address snapshots
// are captured immutably.
//
// Parameters:
//   - id: Unique identifier for the task (must be valid UUID)
//   - orderID: Opaque parent order reference (must be valid UUID)
//   - restaurantID: Owning restaurant (must be valid UUID)
//   - pickup: Pickup address snapshot, normally the restaurant's registered address
//   - dropoff: Customer dropoff address snapshot
func NewDeliveryTask(
	id kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	pickup kernel.Address,
	dropoff kernel.Address,
) (*DeliveryTask, error) {
	deliveryTask := &DeliveryTask{
		status:  Pending,
		version: 1,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliveryTask.setID(id),
		deliveryTask.setOrderID(orderID),
		deliveryTask.setRestaurantID(restaurantID),
		deliveryTask.setPickup(pickup),
		deliveryTask.setDropoff(dropoff),
	); err != nil {
		return nil, err
	}

	return deliveryTask, nil
}

// RestoreDeliveryTask reconstructs a DeliveryTask aggregate from persistent
// storage, preserving status, agent assignment, timestamps and version.
//
// Business rules:
//   - Status must be valid and consistent with agent assignment
//   - Version must be positive
func RestoreDeliveryTask(
	id kernel.UUID,
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	agentID *kernel.UUID,
	status Status,
	pickup kernel.Address,
	dropoff kernel.Address,
	assignedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
	version int64,
) (*DeliveryTask, error) {
	deliveryTask := &DeliveryTask{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		deliveryTask.setID(id),
		deliveryTask.setOrderID(orderID),
		deliveryTask.setRestaurantID(restaurantID),
		deliveryTask.setStatus(status),
		deliveryTask.setPickup(pickup),
		deliveryTask.setDropoff(dropoff),
	); err != nil {
		return nil, err
	}

	if err := status.ValidateCanHaveAgent(agentID != nil); err != nil {
		return nil, err
	}
	if agentID != nil {
		if err := agentID.Validate(); err != nil {
			return nil, err
		}
		held := *agentID
		deliveryTask.agentID = &held
	}

	if version <= 0 {
		return nil, errs.NewVersionIsInvalidError(
			"version",
			fmt.Errorf("%d is not greater than 0", version),
		)
	}
	deliveryTask.version = version

	deliveryTask.assignedAt = copyTime(assignedAt)
	deliveryTask.pickedUpAt = copyTime(pickedUpAt)
	deliveryTask.deliveredAt = copyTime(deliveredAt)

	return deliveryTask, nil
}

// Validate ensures the DeliveryTask was properly constructed.
func (t *DeliveryTask) Validate() error {
	if t == nil {
		return ErrTaskIsNotConstructed
	}
	return t.guard.Validate(ErrTaskIsNotConstructed)
}

// IsEqual compares two tasks by their unique identifiers.
func (t *DeliveryTask) IsEqual(other *DeliveryTask) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the task's unique identifier.
func (t *DeliveryTask) ID() kernel.UUID {
	return t.id
}

// OrderID returns the opaque parent order reference.
func (t *DeliveryTask) OrderID() kernel.UUID {
	return t.orderID
}

// RestaurantID returns the owning restaurant's identifier.
func (t *DeliveryTask) RestaurantID() kernel.UUID {
	return t.restaurantID
}

// AgentID returns the assigned agent's ID, or nil while PENDING.
func (t *DeliveryTask) AgentID() *kernel.UUID {
	return t.agentID
}

// Status returns the current lifecycle status.
func (t *DeliveryTask) Status() Status {
	return t.status
}

// Pickup returns the pickup address snapshot.
func (t *DeliveryTask) Pickup() kernel.Address {
	return t.pickup
}

// Dropoff returns the dropoff address snapshot.
func (t *DeliveryTask) Dropoff() kernel.Address {
	return t.dropoff
}

// AssignedAt returns when the current agent was assigned, nil while PENDING.
func (t *DeliveryTask) AssignedAt() *time.Time {
	return copyTime(t.assignedAt)
}

// PickedUpAt returns when the order was collected, nil before PICKED_UP.
func (t *DeliveryTask) PickedUpAt() *time.Time {
	return copyTime(t.pickedUpAt)
}

// DeliveredAt returns when the order was delivered, nil before DELIVERED.
func (t *DeliveryTask) DeliveredAt() *time.Time {
	return copyTime(t.deliveredAt)
}

// Version returns the optimistic concurrency version of the task row.
func (t *DeliveryTask) Version() int64 {
	return t.version
}

// IsReportedBy reports whether the given agent is the one currently assigned.
// Location samples from any other device are rejected.
func (t *DeliveryTask) IsReportedBy(agentID kernel.UUID) bool {
	return t.agentID != nil && t.agentID.IsEqual(agentID)
}

// Assign moves the task from PENDING to ASSIGNED for the given agent.
//
// This method enforces the following business rules:
//   - The agent ID must be valid
//   - The task must be in PENDING status
//
// On success the agent reference and assignedAt timestamp are set. Capacity
// acquisition on the agent is the caller's responsibility and must share the
// same transaction.
func (t *DeliveryTask) Assign(agentID kernel.UUID, now time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	newStatus, err := t.status.TransitionTo(Assigned)
	if err != nil {
		return err
	}

	t.status = newStatus
	t.agentID = &agentID
	t.assignedAt = &now
	return nil
}

// Unassign moves the task from ASSIGNED back to PENDING, clearing the agent
// reference and the assignedAt timestamp.
//
// Returns:
//   - kernel.UUID: the agent that held the task, so the caller can release
//     the capacity slot within the same transaction
//   - error: InvalidTransitionError if the task is not ASSIGNED
func (t *DeliveryTask) Unassign() (kernel.UUID, error) {
	newStatus, err := t.status.TransitionTo(Pending)
	if err != nil {
		return kernel.UUID{}, err
	}

	held := *t.agentID
	t.status = newStatus
	t.agentID = nil
	t.assignedAt = nil
	return held, nil
}

// AdvanceTo moves the task forward along the delivery lifecycle
// (ASSIGNED→PICKED_UP, PICKED_UP→ON_THE_WAY, ON_THE_WAY→DELIVERED), setting
// the corresponding timestamp exactly once.
//
// Returns:
//   - ErrAlreadyDelivered when the task is already DELIVERED; callers treat
//     this as a no-op success to keep completion cascades idempotent
//   - InvalidTransitionError for any transition not in the table; the task is
//     left unchanged
//
// Assignment changes go through Assign/Unassign, not AdvanceTo.
func (t *DeliveryTask) AdvanceTo(newStatus Status, now time.Time) error {
	if t.status.IsTerminal() {
		return ErrAlreadyDelivered
	}

	if newStatus == Assigned || newStatus == Pending {
		return NewInvalidTransitionError(t.status, newStatus)
	}

	next, err := t.status.TransitionTo(newStatus)
	if err != nil {
		return err
	}

	t.status = next
	switch next { //nolint:exhaustive // only tracking statuses carry timestamps
	case PickedUp:
		if t.pickedUpAt == nil {
			t.pickedUpAt = &now
		}
	case Delivered:
		if t.deliveredAt == nil {
			t.deliveredAt = &now
		}
	}
	return nil
}

// setID validates and sets the task's unique identifier.
func (t *DeliveryTask) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

// setOrderID validates and sets the parent order reference.
func (t *DeliveryTask) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	t.orderID = orderID
	return nil
}

// setRestaurantID validates and sets the owning restaurant reference.
func (t *DeliveryTask) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}
	t.restaurantID = restaurantID
	return nil
}

// setStatus validates and sets the lifecycle status (restore path).
func (t *DeliveryTask) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	t.status = status
	return nil
}

// setPickup validates and sets the pickup address snapshot.
func (t *DeliveryTask) setPickup(pickup kernel.Address) error {
	if err := pickup.Validate(); err != nil {
		return err
	}
	t.pickup = pickup
	return nil
}

// setDropoff validates and sets the dropoff address snapshot.
func (t *DeliveryTask) setDropoff(dropoff kernel.Address) error {
	if err := dropoff.Validate(); err != nil {
		return err
	}
	t.dropoff = dropoff
	return nil
}

// copyTime clones a nullable timestamp to keep the aggregate's fields
// unreachable from outside.
func copyTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
