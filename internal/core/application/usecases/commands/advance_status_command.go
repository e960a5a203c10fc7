package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceStatusCommandIsNotConstructed = errors.New(
	"AdvanceStatusCommand must be created via NewAdvanceStatusCommand constructor",
)

// AdvanceStatusCommand represents a progress report from the agent working a
// task: PICKED_UP when the food leaves the restaurant, ON_THE_WAY when the
// ride starts, DELIVERED on handover. Only the assigned agent may report.
//
// Example:
//
//	cmd, err := NewAdvanceStatusCommand(taskID, agentID, task.PickedUp)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	if errors.Is(err, task.ErrInvalidTransition) {
//	    // report arrived out of order
//	}
type AdvanceStatusCommand struct { //nolint:recvcheck //using for validation
	taskID    kernel.UUID
	agentID   kernel.UUID
	newStatus task.Status

	guard guard.ConstructorGuard
}

// NewAdvanceStatusCommand creates a command to advance a task's status.
// The status must be a known lifecycle value; whether the transition itself is
// legal is decided by the task aggregate when the command is handled.
func NewAdvanceStatusCommand(
	taskID kernel.UUID,
	agentID kernel.UUID,
	newStatus task.Status,
) (AdvanceStatusCommand, error) {
	advanceCommand := AdvanceStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		advanceCommand.setTaskID(taskID),
		advanceCommand.setAgentID(agentID),
		advanceCommand.setNewStatus(newStatus),
	); err != nil {
		return AdvanceStatusCommand{}, err
	}

	return advanceCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceStatusCommandIsNotConstructed if validation fails.
func (c AdvanceStatusCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStatusCommandIsNotConstructed)
}

// TaskID returns the task being reported on.
func (c AdvanceStatusCommand) TaskID() kernel.UUID {
	return c.taskID
}

// AgentID returns the reporting agent.
func (c AdvanceStatusCommand) AgentID() kernel.UUID {
	return c.agentID
}

// NewStatus returns the reported status.
func (c AdvanceStatusCommand) NewStatus() task.Status {
	return c.newStatus
}

func (c *AdvanceStatusCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *AdvanceStatusCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *AdvanceStatusCommand) setNewStatus(newStatus task.Status) error {
	if err := newStatus.Validate(); err != nil {
		return err
	}

	c.newStatus = newStatus
	return nil
}
