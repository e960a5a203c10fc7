// Package broadcast implements the live tracking feed. The Hub fans events
// out to in-process subscribers (the SSE handlers hold one subscription
// each); the Publisher in this package wraps the Hub with retries and a
// degraded-task ledger so command handlers can publish fire-and-confirm.
package broadcast

import (
	"context"
	"errors"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

// subscriberBuffer bounds how many undelivered events a slow subscriber may
// hold. When the buffer is full the oldest event is dropped: clients only
// ever need the latest position, not the full history.
const subscriberBuffer = 16

// ErrHubClosed is returned by Subscribe after Shutdown.
var ErrHubClosed = errors.New("tracking hub is shut down")

// Hub is the in-process fanout for task tracking feeds.
//
// Each task has a topic carrying the latest status and latest location. New
// subscribers get that retained state replayed first, so a client joining
// mid-delivery renders immediately. A terminal status completes the topic:
// live subscriptions are closed after the final event, and later subscribers
// receive the final status followed by an immediately closed channel.
type Hub struct {
	mu     sync.Mutex
	topics map[kernel.UUID]*topic
	closed bool
}

type topic struct {
	status      *tracking.StatusWire
	location    *tracking.LocationWire
	subscribers map[*subscription]struct{}
	completed   bool
}

// NewHub creates an empty tracking hub.
func NewHub() *Hub {
	return &Hub{
		topics: make(map[kernel.UUID]*topic),
	}
}

// Broadcast delivers the event to the task's subscribers and retains it for
// replay. Broadcasting to a completed topic is a no-op.
func (h *Hub) Broadcast(_ context.Context, taskID kernel.UUID, event tracking.Event) error {
	if err := taskID.Validate(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}

	tp := h.topic(taskID)
	if tp.completed {
		return nil
	}

	switch event.Kind {
	case tracking.EventLocation:
		wire := event.Location
		tp.location = &wire
	case tracking.EventStatus:
		wire := event.Status
		tp.status = &wire
	default:
		return errors.New("unknown tracking event kind")
	}

	for sub := range tp.subscribers {
		sub.push(event)
	}

	if event.Kind == tracking.EventStatus && event.Status.Status == task.Delivered.String() {
		tp.completed = true
		tp.location = nil
		for sub := range tp.subscribers {
			sub.finish()
		}
		tp.subscribers = make(map[*subscription]struct{})
	}

	return nil
}

// Subscribe attaches an observer to the task's feed. The retained status and
// location (if any) are replayed into the subscription before it is returned,
// ahead of any newer events.
func (h *Hub) Subscribe(_ context.Context, taskID kernel.UUID) (ports.TrackingSubscription, error) {
	if err := taskID.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrHubClosed
	}

	tp := h.topic(taskID)

	sub := &subscription{
		events: make(chan tracking.Event, subscriberBuffer),
	}

	if tp.status != nil {
		sub.push(tracking.NewStatusEvent(*tp.status))
	}
	if tp.location != nil {
		sub.push(tracking.NewLocationEvent(*tp.location))
	}

	if tp.completed {
		sub.finish()
		return &Subscription{inner: sub}, nil
	}

	tp.subscribers[sub] = struct{}{}
	sub.detach = func() {
		h.mu.Lock()
		delete(tp.subscribers, sub)
		h.mu.Unlock()
	}

	return &Subscription{inner: sub}, nil
}

// Shutdown closes every live subscription and rejects further use.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, tp := range h.topics {
		for sub := range tp.subscribers {
			sub.finish()
		}
		tp.subscribers = make(map[*subscription]struct{})
	}
}

// topic returns the task's topic, creating it on first touch.
// Caller must hold h.mu.
func (h *Hub) topic(taskID kernel.UUID) *topic {
	tp, ok := h.topics[taskID]
	if !ok {
		tp = &topic{subscribers: make(map[*subscription]struct{})}
		h.topics[taskID] = tp
	}
	return tp
}

// subscription carries the hub-side state of one observer. All pushes happen
// under the hub lock, so the drop-oldest logic needs no extra locking; only
// close is guarded for concurrent Close calls from the consumer side.
type subscription struct {
	events    chan tracking.Event
	closeOnce sync.Once
	detach    func()
}

// push enqueues the event, evicting the oldest one when the consumer lags.
func (s *subscription) push(event tracking.Event) {
	for {
		select {
		case s.events <- event:
			return
		default:
			select {
			case <-s.events:
			default:
			}
		}
	}
}

// finish closes the event channel exactly once.
func (s *subscription) finish() {
	s.closeOnce.Do(func() {
		close(s.events)
	})
}

// Subscription is the consumer-facing handle on a task feed.
type Subscription struct {
	inner *subscription
}

// Events delivers feed items in publish order. The channel is closed when the
// subscription is cancelled, the task completes, or the hub shuts down.
func (s *Subscription) Events() <-chan tracking.Event {
	return s.inner.events
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	if s.inner.detach != nil {
		s.inner.detach()
	}
	s.inner.finish()
}
