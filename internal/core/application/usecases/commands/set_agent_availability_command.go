package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetAgentAvailabilityCommandIsNotConstructed = errors.New(
	"SetAgentAvailabilityCommand must be created via NewSetAgentAvailabilityCommand constructor",
)

// SetAgentAvailabilityCommand toggles whether an agent is taking new work.
// Going available is only allowed for ACTIVE agents; going unavailable never
// drops deliveries already in flight.
type SetAgentAvailabilityCommand struct { //nolint:recvcheck //using for validation
	agentID   kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

// NewSetAgentAvailabilityCommand creates a command to flip agent availability.
func NewSetAgentAvailabilityCommand(agentID kernel.UUID, available bool) (SetAgentAvailabilityCommand, error) {
	availabilityCommand := SetAgentAvailabilityCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := availabilityCommand.setAgentID(agentID); err != nil {
		return SetAgentAvailabilityCommand{}, err
	}
	availabilityCommand.available = available

	return availabilityCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetAgentAvailabilityCommandIsNotConstructed if validation fails.
func (c SetAgentAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetAgentAvailabilityCommandIsNotConstructed)
}

// AgentID returns the agent whose availability changes.
func (c SetAgentAvailabilityCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Available returns the requested availability.
func (c SetAgentAvailabilityCommand) Available() bool {
	return c.available
}

func (c *SetAgentAvailabilityCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}
