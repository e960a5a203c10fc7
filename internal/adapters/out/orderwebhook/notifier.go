// Package orderwebhook notifies the order-lifecycle owner over HTTP when a
// delivery completes. The order service owns the rest of the order's life;
// dispatch only reports the terminal delivery fact.
package orderwebhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/avast/retry-go/v5"
)

const (
	defaultAttempts = 4
	defaultDelay    = 200 * time.Millisecond
	requestTimeout  = 5 * time.Second
)

// completionPayload is the webhook body. Timestamps are integer millis like
// every other wire payload in the system.
type completionPayload struct {
	OrderID     string `json:"orderId"`
	DeliveredAt int64  `json:"deliveredAt"`
}

// Notifier posts delivery-completed callbacks to the order service.
//
// Notification is fire-and-confirm: the DELIVERED transition has already
// committed when this runs, so OnDeliveryCompleted returns immediately and
// the retry loop runs on a background goroutine. A callback that exhausts its
// retries is recorded as unconfirmed; the periodic redrive sweep re-attempts
// it until the order service acknowledges. The order service treats the
// callback as idempotent on orderId, so a redrive after a late success is
// harmless.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	attempts uint
	delay    time.Duration

	mu          sync.Mutex
	unconfirmed map[kernel.UUID]time.Time

	wg sync.WaitGroup
}

// NotifierOption customizes retry behavior.
type NotifierOption func(*Notifier)

// WithAttempts sets how many delivery attempts one notification gets before
// it is parked for redrive.
func WithAttempts(attempts uint) NotifierOption {
	return func(n *Notifier) {
		if attempts > 0 {
			n.attempts = attempts
		}
	}
}

// WithDelay sets the base backoff delay between attempts.
func WithDelay(delay time.Duration) NotifierOption {
	return func(n *Notifier) {
		if delay > 0 {
			n.delay = delay
		}
	}
}

// NewNotifier creates a webhook notifier for the given endpoint.
// A nil client selects a default with a bounded request timeout.
func NewNotifier(endpoint string, client *http.Client, logger *slog.Logger, opts ...NotifierOption) (*Notifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("webhook endpoint is required")
	}
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}

	n := &Notifier{
		endpoint:    endpoint,
		client:      client,
		logger:      logger.With("component", "order-webhook"),
		attempts:    defaultAttempts,
		delay:       defaultDelay,
		unconfirmed: make(map[kernel.UUID]time.Time),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// OnDeliveryCompleted reports the completed delivery to the order service.
// It returns immediately; delivery and retries happen in the background so
// the delivery confirmation never waits on the order service.
func (n *Notifier) OnDeliveryCompleted(ctx context.Context, orderID kernel.UUID, deliveredAt time.Time) {
	// The caller's request context ends with its HTTP response; the callback
	// must outlive it.
	bg := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		if err := n.deliver(bg, orderID, deliveredAt); err != nil {
			n.park(orderID, deliveredAt)
			n.logger.ErrorContext(bg, "completion callback unconfirmed, parked for redrive",
				"orderId", orderID.String(),
				"endpoint", n.endpoint,
				"error", err,
			)
		}
	}()
}

// RedriveCompletions re-attempts every unconfirmed completion callback.
// Confirmed entries are dropped; the rest stay parked for the next sweep.
func (n *Notifier) RedriveCompletions(ctx context.Context) {
	for orderID, deliveredAt := range n.snapshot() {
		if err := n.deliver(ctx, orderID, deliveredAt); err != nil {
			n.logger.ErrorContext(ctx, "completion callback still unconfirmed",
				"orderId", orderID.String(),
				"error", err,
			)
			continue
		}

		n.mu.Lock()
		delete(n.unconfirmed, orderID)
		n.mu.Unlock()
	}
}

// Unconfirmed returns the orders whose completion callback has not been
// acknowledged yet.
func (n *Notifier) Unconfirmed() []kernel.UUID {
	n.mu.Lock()
	defer n.mu.Unlock()

	orderIDs := make([]kernel.UUID, 0, len(n.unconfirmed))
	for orderID := range n.unconfirmed {
		orderIDs = append(orderIDs, orderID)
	}
	return orderIDs
}

// Wait blocks until all in-flight notification goroutines have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) deliver(ctx context.Context, orderID kernel.UUID, deliveredAt time.Time) error {
	payload, err := json.Marshal(completionPayload{
		OrderID:     orderID.String(),
		DeliveredAt: deliveredAt.UnixMilli(),
	})
	if err != nil {
		return err
	}

	r := retry.New(
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(n.delay),
		retry.LastErrorOnly(true),
	)

	return r.Do(func() error {
		return n.post(ctx, payload)
	})
}

func (n *Notifier) park(orderID kernel.UUID, deliveredAt time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.unconfirmed[orderID] = deliveredAt
}

func (n *Notifier) snapshot() map[kernel.UUID]time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()

	parked := make(map[kernel.UUID]time.Time, len(n.unconfirmed))
	for orderID, deliveredAt := range n.unconfirmed {
		parked[orderID] = deliveredAt
	}
	return parked
}

func (n *Notifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("order service responded %d", resp.StatusCode)
	}
	return nil
}
