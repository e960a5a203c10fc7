package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// AssignAgentCommandHandler orchestrates the assignment of a task to an agent.
// Both aggregates are mutated inside a single transaction with the agent row
// locked for update, so the capacity check and the slot increment are one
// atomic step even under concurrent assignment attempts against the same
// agent. On success the ASSIGNED status is fanned out to task subscribers.
//
// Example:
//
//	handler := NewAssignAgentCommandHandler(uowFactory, publisher)
//	cmd, _ := NewAssignAgentCommand(taskID, agentID)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Assignment failed: %v", err)
//	}
type AssignAgentCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
	dispatcher services.TaskDispatcher
}

// NewAssignAgentCommandHandler creates a handler for agent assignment operations.
// Requires a UoWFactory for coordinating transactional updates across repositories
// and a TrackingPublisher for the status fan-out.
func NewAssignAgentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		dispatcher: services.NewTaskDispatcher(),
	}
}

// Handle processes the agent assignment command.
// Loads the task, locks the agent row, applies the dispatch decision and saves
// both aggregates atomically. Any precondition failure rolls everything back,
// leaving the task PENDING and the agent's load untouched.
func (h AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) error {
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

	taskRepo := uow.TaskRepository()
	agentRepo := uow.AgentRepository()

	deliveryTask, err := taskRepo.Get(ctx, cmd.TaskID())
	if err != nil {
		return err
	}

	executor, err := agentRepo.GetForUpdate(ctx, cmd.AgentID())
	if err != nil {
		return err
	}

	now := time.Now()
	if err = h.dispatcher.Assign(deliveryTask, executor, now); err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, deliveryTask); err != nil {
		return err
	}

	if err = agentRepo.Update(ctx, executor); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatus(
		ctx,
		deliveryTask.ID(),
		tracking.NewStatusWire(deliveryTask.Status(), now, deliveryTask.AgentID()),
	)
	return nil
}
