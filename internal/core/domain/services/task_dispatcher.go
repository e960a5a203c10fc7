package services

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/pkg/errs"
)

// ErrRestaurantMismatch is returned when the chosen agent does not work for
// the restaurant that owns the task's order. Cross-restaurant assignment is
// never allowed; the caller should pick an agent from the right restaurant.
var ErrRestaurantMismatch = errors.New("agent does not belong to the task's restaurant")

// TaskDispatcher is a domain service that applies the paired agent/task
// mutations of a dispatch decision. Agents are chosen explicitly by an
// operator, so the service does no matching of its own; it guards the
// preconditions and keeps both aggregates consistent.
//
// Both mutations of each operation must be persisted within one transaction
// by the caller, with the agent row locked for update: the capacity check
// inside Agent.AcquireSlot is the single serialization point for concurrent
// assignment attempts against the same agent.
//
// Example usage:
//
//	dispatcher := services.NewTaskDispatcher()
//	if err := dispatcher.Assign(deliveryTask, chosenAgent, time.Now()); err != nil {
//	    // CapacityExceeded, AgentInactive, RestaurantMismatch or InvalidTransition
//	    return err
//	}
//	// persist both aggregates in the same unit of work
type TaskDispatcher struct{}

// NewTaskDispatcher creates a new TaskDispatcher instance.
func NewTaskDispatcher() TaskDispatcher {
	return TaskDispatcher{}
}

// Assign reserves a delivery slot on the agent and moves the task to ASSIGNED.
//
// Preconditions, checked in order:
//   - both aggregates are properly constructed
//   - the agent works for the task's restaurant (ErrRestaurantMismatch)
//   - the task is PENDING (InvalidTransitionError)
//   - the agent is active, available and below capacity (agent errors)
//
// No mutation is applied unless every check passes: the task transition is
// validated before the slot is acquired, so a capacity failure leaves the
// task untouched and a task failure never leaks an acquired slot.
func (d TaskDispatcher) Assign(deliveryTask *task.DeliveryTask, executor *agent.Agent, now time.Time) error {
	if err := deliveryTask.Validate(); err != nil {
		return err
	}
	if err := executor.Validate(); err != nil {
		return err
	}

	if !executor.WorksFor(deliveryTask.RestaurantID()) {
		return ErrRestaurantMismatch
	}

	if !deliveryTask.Status().CanTransitionTo(task.Assigned) {
		return task.NewInvalidTransitionError(deliveryTask.Status(), task.Assigned)
	}

	if err := executor.AcquireSlot(); err != nil {
		return err
	}

	if err := deliveryTask.Assign(executor.ID(), now); err != nil {
		// Roll the slot back so a task-side failure cannot leak capacity.
		_ = executor.ReleaseSlot()
		return err
	}

	return nil
}

// Unassign returns an ASSIGNED task to PENDING and releases the slot held by
// its agent. The supplied agent must be the one the task references.
func (d TaskDispatcher) Unassign(deliveryTask *task.DeliveryTask, executor *agent.Agent) error {
	if err := deliveryTask.Validate(); err != nil {
		return err
	}
	if err := executor.Validate(); err != nil {
		return err
	}

	if !deliveryTask.IsReportedBy(executor.ID()) {
		return errs.NewValueIsInvalidErrorWithCause(
			"agentId",
			fmt.Errorf("agent %s does not hold task %s", executor.ID(), deliveryTask.ID()),
		)
	}

	if _, err := deliveryTask.Unassign(); err != nil {
		return err
	}

	return executor.ReleaseSlot()
}
