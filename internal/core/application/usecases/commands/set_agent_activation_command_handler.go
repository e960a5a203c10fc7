package commands

import (
	"context"
)

// SetAgentActivationCommandHandler changes an agent's activation state under
// a row lock, so a suspension cannot race a concurrent assignment.
type SetAgentActivationCommandHandler struct {
	uowFactory AgentUoWFactory
}

// NewSetAgentActivationCommandHandler creates a handler for activation changes.
func NewSetAgentActivationCommandHandler(uowFactory AgentUoWFactory) SetAgentActivationCommandHandler {
	return SetAgentActivationCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the activation change.
func (h SetAgentActivationCommandHandler) Handle(ctx context.Context, cmd SetAgentActivationCommand) error {
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

	if err = executor.SetActivationState(cmd.State()); err != nil {
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
