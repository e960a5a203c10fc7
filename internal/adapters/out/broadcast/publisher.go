package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/avast/retry-go/v5"
)

const (
	defaultAttempts = 3
	defaultDelay    = 50 * time.Millisecond
)

// broadcaster is the delivery backend the publisher retries against.
type broadcaster interface {
	Broadcast(ctx context.Context, taskID kernel.UUID, event tracking.Event) error
}

// Publisher pushes tracking events to the hub with bounded retries.
//
// Publishing is fire-and-confirm: the command that produced the event has
// already committed, so a publish that still fails after retries must not
// propagate. Instead the task is marked degraded and the redrive job
// re-publishes its current state later.
type Publisher struct {
	hub      broadcaster
	logger   *slog.Logger
	attempts uint
	delay    time.Duration

	mu       sync.Mutex
	degraded map[kernel.UUID]struct{}
}

// PublisherOption customizes retry behavior.
type PublisherOption func(*Publisher)

// WithAttempts sets how many delivery attempts are made per event.
func WithAttempts(attempts uint) PublisherOption {
	return func(p *Publisher) {
		if attempts > 0 {
			p.attempts = attempts
		}
	}
}

// WithDelay sets the base backoff delay between attempts.
func WithDelay(delay time.Duration) PublisherOption {
	return func(p *Publisher) {
		if delay > 0 {
			p.delay = delay
		}
	}
}

// NewPublisher creates a publisher delivering through the given hub.
func NewPublisher(hub broadcaster, logger *slog.Logger, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		hub:      hub,
		logger:   logger.With("component", "tracking-publisher"),
		attempts: defaultAttempts,
		delay:    defaultDelay,
		degraded: make(map[kernel.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PublishLocation fans out the latest location sample of the task.
func (p *Publisher) PublishLocation(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) {
	p.publish(ctx, taskID, tracking.NewLocationEvent(sample.Wire()), "location")
}

// PublishStatus fans out a status transition of the task.
func (p *Publisher) PublishStatus(ctx context.Context, taskID kernel.UUID, status tracking.StatusWire) {
	p.publish(ctx, taskID, tracking.NewStatusEvent(status), "status")
}

func (p *Publisher) publish(ctx context.Context, taskID kernel.UUID, event tracking.Event, kind string) {
	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.delay),
		retry.LastErrorOnly(true),
	)

	err := r.Do(func() error {
		return p.hub.Broadcast(ctx, taskID, event)
	})
	if err == nil {
		return
	}

	p.markDegraded(taskID)
	p.logger.WarnContext(ctx, "broadcast failed, task marked degraded",
		"taskId", taskID.String(),
		"event", kind,
		"error", err,
	)
}

func (p *Publisher) markDegraded(taskID kernel.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.degraded[taskID] = struct{}{}
}

// Degraded lists tasks whose last publish could not be confirmed.
func (p *Publisher) Degraded(_ context.Context) ([]kernel.UUID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]kernel.UUID, 0, len(p.degraded))
	for id := range p.degraded {
		ids = append(ids, id)
	}
	return ids, nil
}

// Resolve clears the degraded mark after a successful re-publish.
func (p *Publisher) Resolve(_ context.Context, taskID kernel.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.degraded, taskID)
	return nil
}
