package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

// ErrReporterNotAssigned is returned when the reporting agent is not the one
// assigned to the task. Maps to a permission failure at the API boundary.
var ErrReporterNotAssigned = errors.New("reporting agent is not assigned to the task")

// AdvanceStatusCommandHandler records lifecycle progress reported by the
// assigned agent.
//
// A DELIVERED report triggers the completion cascade inside the same
// transaction: the delivery timestamp is recorded on the task and the agent's
// slot is released on a row locked for update. After the commit the terminal
// status is fanned out, the order-lifecycle owner is notified and the task's
// live location sample is dropped. The cascade runs exactly once: a repeated
// DELIVERED report finds the task already terminal and returns success without
// touching anything.
type AdvanceStatusCommandHandler struct {
	uowFactory    UoWFactory
	publisher     ports.TrackingPublisher
	notifier      ports.OrderLifecycleNotifier
	locationStore ports.LocationStore
}

// NewAdvanceStatusCommandHandler creates a handler for status progress reports.
func NewAdvanceStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.TrackingPublisher,
	notifier ports.OrderLifecycleNotifier,
	locationStore ports.LocationStore,
) AdvanceStatusCommandHandler {
	return AdvanceStatusCommandHandler{
		uowFactory:    uowFactory,
		publisher:     publisher,
		notifier:      notifier,
		locationStore: locationStore,
	}
}

// Handle processes the status report.
//
// Returns ErrReporterNotAssigned when the reporter does not hold the task,
// task.ErrInvalidTransition for out-of-order reports, and nil for a repeated
// DELIVERED report on an already delivered task.
func (h AdvanceStatusCommandHandler) Handle(ctx context.Context, cmd AdvanceStatusCommand) error {
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

	deliveryTask, err := taskRepo.Get(ctx, cmd.TaskID())
	if err != nil {
		return err
	}

	if deliveryTask.Status().IsTerminal() {
		if cmd.NewStatus() == task.Delivered {
			// Duplicate delivery report from a retrying client. The cascade
			// already ran once; acknowledge without repeating it.
			return nil
		}
		return task.ErrAlreadyDelivered
	}

	if !deliveryTask.IsReportedBy(cmd.AgentID()) {
		return ErrReporterNotAssigned
	}

	now := time.Now()
	if err = deliveryTask.AdvanceTo(cmd.NewStatus(), now); err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, deliveryTask); err != nil {
		return err
	}

	delivered := deliveryTask.Status() == task.Delivered
	if delivered {
		executor, lockErr := uow.AgentRepository().GetForUpdate(ctx, cmd.AgentID())
		if lockErr != nil {
			return lockErr
		}

		// A zero load means the slot ledger already lost this delivery;
		// the completion itself must still go through.
		if err = executor.ReleaseSlot(); err != nil && !errors.Is(err, agent.ErrLoadUnderflow) {
			return err
		}

		if err = uow.AgentRepository().Update(ctx, executor); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatus(
		ctx,
		deliveryTask.ID(),
		tracking.NewStatusWire(deliveryTask.Status(), now, deliveryTask.AgentID()),
	)

	if delivered {
		h.notifier.OnDeliveryCompleted(ctx, deliveryTask.OrderID(), now)
		_ = h.locationStore.Remove(ctx, deliveryTask.ID())
	}

	return nil
}
