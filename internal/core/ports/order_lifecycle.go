package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// OrderLifecycleNotifier tells the order-lifecycle owner that a delivery has
// finished. The notification is emitted exactly once per task, from the same
// command that records the DELIVERED transition; since that transition is
// guarded by the task's terminal-state check, a repeated delivery report can
// never notify twice.
//
// Like TrackingPublisher, notification is fire-and-confirm: implementations
// retry transient failures in the background and park the notification as
// unconfirmed when delivery could not be confirmed. The command that
// completed the delivery has already committed and must not fail.
type OrderLifecycleNotifier interface {
	OnDeliveryCompleted(ctx context.Context, orderID kernel.UUID, deliveredAt time.Time)
}

// CompletionRedriver re-attempts completion notifications that were never
// acknowledged by the order-lifecycle owner. Implementations keep the
// unconfirmed set themselves; a redrive pass drops an entry once the owner
// acknowledges it and leaves it parked otherwise. The sweep job drives this
// alongside the broadcast redrive.
type CompletionRedriver interface {
	RedriveCompletions(ctx context.Context)
}
