package commands

import (
	"context"
)

// SetAgentAvailabilityCommandHandler flips an agent's availability flag.
// The agent row is locked for update so the flip cannot interleave with a
// concurrent slot acquisition.
type SetAgentAvailabilityCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewSetAgentAvailabilityCommandHandler creates a handler for availability changes.
func NewSetAgentAvailabilityCommandHandler(uowFactory AgentUoWFactory) SetAgentAvailabilityCommandHandler {
	return SetAgentAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the availability change.
// Returns agent.ErrAgentInactive when a non-ACTIVE agent tries to go available.
func (h SetAgentAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetAgentAvailabilityCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentRepo := uow.AgentRepository()

	executor, err := agentRepo.GetForUpdate(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	if err = executor.SetAvailability(cmd.Available()); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, executor); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
