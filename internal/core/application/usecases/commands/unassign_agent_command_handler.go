package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// UnassignAgentCommandHandler returns an ASSIGNED task to PENDING and releases
// the slot held by its agent. Both aggregates are saved in one transaction
// with the agent row locked for update, mirroring the assignment path.
// Subscribers receive the PENDING status with an empty rider id.
type UnassignAgentCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.TrackingPublisher
	dispatcher services.TaskDispatcher
}

// NewUnassignAgentCommandHandler creates a handler for unassignment operations.
func NewUnassignAgentCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
) UnassignAgentCommandHandler {
	return UnassignAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		dispatcher: services.NewTaskDispatcher(),
	}
}

// Handle processes the unassignment command.
// Fails with task.ErrInvalidTransition unless the task is currently ASSIGNED.
func (h UnassignAgentCommandHandler) Handle(ctx context.Context, cmd UnassignAgentCommand) error {
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

	holderID := deliveryTask.AgentID()
	if holderID == nil {
		return task.NewInvalidTransitionError(deliveryTask.Status(), task.Pending)
	}

	executor, err := agentRepo.GetForUpdate(ctx, *holderID)
	if err != nil {
		return err
	}

	if err = h.dispatcher.Unassign(deliveryTask, executor); err != nil {
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
		tracking.NewStatusWire(deliveryTask.Status(), time.Now(), nil),
	)
	return nil
}
