package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// RedriveBroadcastsCommandHandler re-publishes the latest known status and
// location for tasks marked degraded by the reliable publisher, and
// re-attempts unconfirmed completion notifications. Clients only render the
// last event per channel, so re-sending current state is always safe; the
// degraded mark is cleared once the state has been pushed again.
type RedriveBroadcastsCommandHandler struct {
	degraded      ports.DegradedBroadcasts
	uowFactory    TaskUoWFactory
	locationStore ports.LocationStore
	publisher     ports.TrackingPublisher
	completions   ports.CompletionRedriver
}

// NewRedriveBroadcastsCommandHandler creates a handler for the redrive sweep.
func NewRedriveBroadcastsCommandHandler(
	degraded ports.DegradedBroadcasts,
	uowFactory TaskUoWFactory,
	locationStore ports.LocationStore,
	publisher ports.TrackingPublisher,
	completions ports.CompletionRedriver,
) RedriveBroadcastsCommandHandler {
	return RedriveBroadcastsCommandHandler{
		degraded:      degraded,
		uowFactory:    uowFactory,
		locationStore: locationStore,
		publisher:     publisher,
		completions:   completions,
	}
}

// Handle processes one redrive sweep over all degraded tasks.
// A task that no longer exists is dropped from the degraded set; any other
// per-task failure leaves the mark in place for the next sweep.
func (h RedriveBroadcastsCommandHandler) Handle(ctx context.Context, cmd RedriveBroadcastsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	taskIDs, err := h.degraded.Degraded(ctx)
	if err != nil {
		return err
	}

	var sweepErr error
	for _, taskID := range taskIDs {
		if err := h.redrive(ctx, taskID); err != nil {
			sweepErr = errors.Join(sweepErr, err)
			continue
		}

		sweepErr = errors.Join(sweepErr, h.degraded.Resolve(ctx, taskID))
	}

	h.completions.RedriveCompletions(ctx)

	return sweepErr
}

func (h RedriveBroadcastsCommandHandler) redrive(ctx context.Context, taskID kernel.UUID) error {
	deliveryTask, err := h.getTask(ctx, taskID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		// Task is gone; nothing left to re-publish. The sweep loop clears
		// the degraded mark.
		return nil
	}
	if err != nil {
		return err
	}

	h.publisher.PublishStatus(
		ctx,
		taskID,
		tracking.NewStatusWire(deliveryTask.Status(), lastChangeAt(deliveryTask), deliveryTask.AgentID()),
	)

	if deliveryTask.Status().IsTracking() {
		sample, found, sampleErr := h.locationStore.Get(ctx, taskID)
		if sampleErr != nil {
			return sampleErr
		}
		if found {
			h.publisher.PublishLocation(ctx, taskID, sample)
		}
	}

	return nil
}

func (h RedriveBroadcastsCommandHandler) getTask(ctx context.Context, taskID kernel.UUID) (*task.DeliveryTask, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.TaskRepository().Get(ctx, taskID)
}

// lastChangeAt picks the most recent lifecycle timestamp the task carries,
// falling back to now for tasks that have not left PENDING.
func lastChangeAt(deliveryTask *task.DeliveryTask) time.Time {
	for _, ts := range []*time.Time{
		deliveryTask.DeliveredAt(),
		deliveryTask.PickedUpAt(),
		deliveryTask.AssignedAt(),
	} {
		if ts != nil {
			return *ts
		}
	}

	return time.Now()
}
