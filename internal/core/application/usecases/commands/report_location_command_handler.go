package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/ports"
)

// ErrTaskNotTracking is returned when a location sample arrives for a task
// that is not in a tracked phase of its lifecycle. Positions only matter
// between pickup and handover.
var ErrTaskNotTracking = errors.New("task is not in a tracked status")

// ReportLocationCommandHandler ingests GPS samples from agent devices.
//
// Ingest is latest-wins: the store only overwrites when the new sample's
// capture timestamp is strictly newer than the stored one, so late arrivals
// are acknowledged and dropped rather than rolling the position backwards.
// Accepted samples are fanned out to the task's subscribers; no database
// transaction is involved on this hot path beyond the task lookup.
type ReportLocationCommandHandler struct {
	uowFactory    TaskUoWFactory
	locationStore ports.LocationStore
	publisher     ports.TrackingPublisher
}

// NewReportLocationCommandHandler creates a handler for location ingest.
func NewReportLocationCommandHandler(
	uowFactory TaskUoWFactory,
	locationStore ports.LocationStore,
	publisher ports.TrackingPublisher,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		uowFactory:    uowFactory,
		locationStore: locationStore,
		publisher:     publisher,
	}
}

// Handle processes one reported sample.
//
// Returns ErrReporterNotAssigned when the sample's agent does not hold the
// task, task.ErrAlreadyDelivered for a finished task and ErrTaskNotTracking
// before pickup. A stale sample returns nil without storing or publishing.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	deliveryTask, err := h.getTask(ctx, cmd.TaskID())
	if err != nil {
		return err
	}

	if deliveryTask.Status().IsTerminal() {
		return task.ErrAlreadyDelivered
	}

	if !deliveryTask.IsReportedBy(cmd.Sample().AgentID()) {
		return ErrReporterNotAssigned
	}

	if !deliveryTask.Status().IsTracking() {
		return ErrTaskNotTracking
	}

	stored, err := h.locationStore.Put(ctx, cmd.TaskID(), cmd.Sample())
	if err != nil {
		return err
	}
	if !stored {
		// Superseded by a newer sample while this one was in flight.
		return nil
	}

	h.publisher.PublishLocation(ctx, cmd.TaskID(), cmd.Sample())
	return nil
}

func (h ReportLocationCommandHandler) getTask(ctx context.Context, taskID kernel.UUID) (*task.DeliveryTask, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.TaskRepository().Get(ctx, taskID)
}
