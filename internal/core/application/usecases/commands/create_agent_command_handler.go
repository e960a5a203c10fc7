package commands

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
)

// CreateAgentCommandHandler handles the business logic for agent registration.
type CreateAgentCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewCreateAgentCommandHandler creates a handler for agent registration.
// Requires an AgentUoWFactory for transactional persistence.
func NewCreateAgentCommandHandler(uowFactory AgentUoWFactory) CreateAgentCommandHandler {
	return CreateAgentCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the agent registration command.
// The agent is created in PENDING activation with zero load and persisted.
func (h *CreateAgentCommandHandler) Handle(ctx context.Context, cmd CreateAgentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	executor, err := agent.NewAgent(cmd.AgentID(), cmd.RestaurantID(), cmd.Name(), cmd.MaxLoad())
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

	if err = uow.AgentRepository().Add(ctx, executor); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
