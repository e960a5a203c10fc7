package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUnassignAgentCommandIsNotConstructed = errors.New(
	"UnassignAgentCommand must be created via NewUnassignAgentCommand constructor",
)

// UnassignAgentCommand represents an operator's decision to take an ASSIGNED
// task away from its agent before pickup. The task returns to PENDING and the
// agent's slot is released; once the food is picked up the task can no longer
// be unassigned.
type UnassignAgentCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID

	guard guard.ConstructorGuard
}

// NewUnassignAgentCommand creates a command to unassign a task's agent.
func NewUnassignAgentCommand(taskID kernel.UUID) (UnassignAgentCommand, error) {
	unassignCommand := UnassignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := unassignCommand.setTaskID(taskID); err != nil {
		return UnassignAgentCommand{}, err
	}

	return unassignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUnassignAgentCommandIsNotConstructed if validation fails.
func (c UnassignAgentCommand) Validate() error {
	return c.guard.Validate(ErrUnassignAgentCommandIsNotConstructed)
}

// TaskID returns the task to unassign.
func (c UnassignAgentCommand) TaskID() kernel.UUID {
	return c.taskID
}

func (c *UnassignAgentCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}
