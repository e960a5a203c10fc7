package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand represents an operator's decision to hand a pending task
// to a specific delivery agent. The agent must work for the task's restaurant
// and have spare capacity; otherwise the assignment is rejected and the task
// stays PENDING.
//
// Example:
//
//	cmd, err := NewAssignAgentCommand(taskID, agentID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, agent.ErrCapacityExceeded):
//	    // pick another agent
//	case errors.Is(err, task.ErrInvalidTransition):
//	    // task is no longer pending
//	}
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	taskID  kernel.UUID
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates a command to assign an agent to a task.
func NewAssignAgentCommand(taskID kernel.UUID, agentID kernel.UUID) (AssignAgentCommand, error) {
	assignCommand := AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setTaskID(taskID),
		assignCommand.setAgentID(agentID),
	); err != nil {
		return AssignAgentCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignAgentCommandIsNotConstructed if validation fails.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// TaskID returns the task to assign.
func (c AssignAgentCommand) TaskID() kernel.UUID {
	return c.taskID
}

// AgentID returns the agent chosen by the operator.
func (c AssignAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

func (c *AssignAgentCommand) setTaskID(taskID kernel.UUID) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	c.taskID = taskID
	return nil
}

func (c *AssignAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}
