package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// TrackingPublisher pushes live tracking events toward subscribed observers.
// Publishing is fire-and-confirm: implementations retry transient failures in
// the background and record the task as degraded when delivery could not be
// confirmed, so a publish error never fails the command that produced the
// event.
type TrackingPublisher interface {
	// PublishLocation fans out the latest location sample of the task.
	PublishLocation(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample)

	// PublishStatus fans out a status transition of the task.
	PublishStatus(ctx context.Context, taskID kernel.UUID, status tracking.StatusWire)
}

// TrackingSubscription is one observer's handle on a task's live feed.
type TrackingSubscription interface {
	// Events delivers feed items in publish order. The channel is closed when
	// the subscription is cancelled or the feed shuts down.
	Events() <-chan tracking.Event

	// Close cancels the subscription and releases its buffer. Safe to call
	// more than once.
	Close()
}

// TrackingSubscriber registers observers on a task's live feed. On subscribe
// the current state of the task (latest status, latest location if any) is
// replayed before newer events, so a client joining mid-delivery renders
// immediately instead of waiting for the next sample.
type TrackingSubscriber interface {
	Subscribe(ctx context.Context, taskID kernel.UUID) (TrackingSubscription, error)
}

// DegradedBroadcasts records tasks whose last publish could not be confirmed
// and hands them to the redrive job for re-publication.
type DegradedBroadcasts interface {
	// Degraded lists tasks currently marked degraded.
	Degraded(ctx context.Context) ([]kernel.UUID, error)

	// Resolve clears the degraded mark after a successful re-publish.
	Resolve(ctx context.Context, taskID kernel.UUID) error
}
