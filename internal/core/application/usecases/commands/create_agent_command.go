package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrCreateAgentCommandIsNotConstructed = errors.New(
		"CreateAgentCommand must be created via NewCreateAgentCommand constructor",
	)
	ErrMaxLoadIsInvalid    = errors.New("maxLoad must not be negative")
	ErrAgentNameIsRequired = errors.New("agent name is required")
)

// CreateAgentCommand represents a request to register a delivery agent for a
// restaurant. New agents start in PENDING activation and must be activated
// before they can take work.
//
// Example:
//
//	cmd, err := NewCreateAgentCommand(kernel.NewUUID(), restaurantID, "Dana", 0)
//	if err != nil {
//	    return fmt.Errorf("invalid agent data: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register agent: %w", err)
//	}
type CreateAgentCommand struct { //nolint:recvcheck //using for validation
	agentID      kernel.UUID
	restaurantID kernel.UUID
	name         string
	maxLoad      int

	guard guard.ConstructorGuard
}

// NewCreateAgentCommand creates a command to register a new agent.
// A zero maxLoad means "use the default concurrent-delivery cap".
func NewCreateAgentCommand(
	agentID kernel.UUID,
	restaurantID kernel.UUID,
	name string,
	maxLoad int,
) (CreateAgentCommand, error) {
	agentCommand := CreateAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		agentCommand.setAgentID(agentID),
		agentCommand.setRestaurantID(restaurantID),
		agentCommand.setName(name),
		agentCommand.setMaxLoad(maxLoad),
	); err != nil {
		return CreateAgentCommand{}, err
	}

	return agentCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateAgentCommandIsNotConstructed if validation fails.
func (c CreateAgentCommand) Validate() error {
	return c.guard.Validate(ErrCreateAgentCommandIsNotConstructed)
}

// AgentID returns the unique identifier for the new agent.
func (c CreateAgentCommand) AgentID() kernel.UUID {
	return c.agentID
}

// RestaurantID returns the restaurant the agent delivers for.
func (c CreateAgentCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

// Name returns the agent's display name.
func (c CreateAgentCommand) Name() string {
	return c.name
}

// MaxLoad returns the requested concurrent-delivery cap, zero for default.
func (c CreateAgentCommand) MaxLoad() int {
	return c.maxLoad
}

func (c *CreateAgentCommand) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}

	c.agentID = agentID
	return nil
}

func (c *CreateAgentCommand) setRestaurantID(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateAgentCommand) setName(name string) error {
	if name == "" {
		return ErrAgentNameIsRequired
	}

	c.name = name
	return nil
}

func (c *CreateAgentCommand) setMaxLoad(maxLoad int) error {
	if maxLoad < 0 {
		return ErrMaxLoadIsInvalid
	}

	c.maxLoad = maxLoad
	return nil
}
