package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetAgentActivationCommandIsNotConstructed = errors.New(
	"SetAgentActivationCommand must be created via NewSetAgentActivationCommand constructor",
)

// SetAgentActivationCommand moves an agent between PENDING, ACTIVE and
// SUSPENDED. Leaving ACTIVE clears availability; in-flight deliveries keep
// their load until they finish.
type SetAgentActivationCommand struct { //nolint:recvcheck //using for validation
	agentID kernel.UUID
	state   agent.ActivationState

	guard guard.ConstructorGuard
}

// NewSetAgentActivationCommand creates a command to change agent activation.
func NewSetAgentActivationCommand(
	agentID kernel.UUID,
	state agent.ActivationState,
) (SetAgentActivationCommand, error) {
	activationCommand := SetAgentActivationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		activationCommand.setAgentID(agentID),
		activationCommand.setState(state),
	); err != nil {
		return SetAgentActivationCommand{}, err
	}

	return activationCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetAgentActivationCommandIsNotConstructed if validation fails.
func (c SetAgentActivationCommand) Validate() error {
	return c.guard.Validate(ErrSetAgentActivationCommandIsNotConstructed)
}

// AgentID returns the agent whose activation changes.
func (c SetAgentActivationCommand) AgentID() kernel.UUID {
	return c.agentID
}

// State returns the target activation state.
func (c SetAgentActivationCommand) State() agent.ActivationState {
	return c.state
}

func (c *SetAgentActivationCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *SetAgentActivationCommand) setState(state agent.ActivationState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	c.state = state
	return nil
}
