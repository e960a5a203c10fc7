// Package trackingclient models the rider-device side of live tracking: a
// small state machine that decides when the device is allowed to emit
// location samples. Reporting is gated on both the location permission and
// the bound task's status; a delivered task or a revoked permission tears the
// reporting timer down deterministically.
package trackingclient

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"
)

// State is the client's lifecycle state.
type State int

const (
	// Idle: not started, or stopped. No timer exists.
	Idle State = iota
	// RequestingPermission: waiting for the platform permission prompt.
	RequestingPermission
	// Tracking: permission granted, task in a tracked status, timer firing.
	Tracking
	// Paused: permission granted but the task's status does not allow
	// reporting yet (or anymore). The timer is stopped.
	Paused
	// Error: permission denied or revoked. The timer is stopped; the last
	// reported sample stays available for display.
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case RequestingPermission:
		return "REQUESTING_PERMISSION"
	case Tracking:
		return "TRACKING"
	case Paused:
		return "PAUSED"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ErrNotStarted is returned by HandleStatus before Start has run.
var ErrNotStarted = errors.New("tracking client is not started")

const defaultInterval = 5 * time.Second

// Permissions is the platform's location permission prompt.
type Permissions interface {
	// Request asks the user for location access. False means denied.
	Request(ctx context.Context) (bool, error)
}

// Locator reads the device's current position.
type Locator interface {
	Locate(ctx context.Context) (lat, lng, speed, bearing float64, err error)
}

// Reporter delivers a sample to the dispatch backend.
type Reporter interface {
	Report(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) error
}

// Client is the device-side tracking state machine for one delivery task.
//
// Reporting runs on a periodic timer that exists only in the Tracking state.
// Every transition out of Tracking stops the timer before the transition
// completes, so the timer can never fire for a delivered task or without
// permission. Dispatch operations never depend on this client: losing
// tracking degrades the map view, nothing else.
type Client struct {
	taskID      kernel.UUID
	agentID     kernel.UUID
	permissions Permissions
	locator     Locator
	reporter    Reporter
	logger      *slog.Logger
	interval    time.Duration

	mu         sync.Mutex
	state      State
	taskStatus task.Status
	stopTicker context.CancelFunc
	lastSample *tracking.LocationSample

	wg sync.WaitGroup
}

// Option customizes the client.
type Option func(*Client)

// WithInterval sets the reporting period.
func WithInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// NewClient creates a tracking client bound to one task and its agent.
func NewClient(
	taskID kernel.UUID,
	agentID kernel.UUID,
	permissions Permissions,
	locator Locator,
	reporter Reporter,
	logger *slog.Logger,
	opts ...Option,
) (*Client, error) {
	if err := errors.Join(taskID.Validate(), agentID.Validate()); err != nil {
		return nil, err
	}
	if permissions == nil || locator == nil || reporter == nil {
		return nil, errors.New("permissions, locator and reporter are required")
	}

	client := &Client{
		taskID:      taskID,
		agentID:     agentID,
		permissions: permissions,
		locator:     locator,
		reporter:    reporter,
		logger:      logger.With("component", "tracking-client", "taskId", taskID.String()),
		interval:    defaultInterval,
		state:       Idle,
		taskStatus:  task.Assigned,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Start requests the location permission and arms the client. With permission
// granted the client lands in Paused (or Tracking, if the task status already
// allows reporting); denied permission lands in Error.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Idle {
		c.mu.Unlock()
		return nil
	}
	c.state = RequestingPermission
	c.mu.Unlock()

	granted, err := c.permissions.Request(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != RequestingPermission {
		// Stopped while the prompt was open.
		return nil
	}

	if err != nil || !granted {
		c.state = Error
		c.logger.Warn("location permission not granted", "error", err)
		return nil
	}

	c.state = Paused
	c.reconcileLocked(ctx)
	return nil
}

// HandleStatus reacts to a status change of the bound task. A tracked status
// starts reporting (permission allowing); DELIVERED stops the client for
// good; anything else pauses it.
func (c *Client) HandleStatus(ctx context.Context, status task.Status) error {
	if err := status.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		return ErrNotStarted
	}

	c.taskStatus = status

	if status.IsTerminal() {
		c.haltLocked()
		c.state = Idle
		return nil
	}

	c.reconcileLocked(ctx)
	return nil
}

// RevokePermission reacts to the platform withdrawing location access.
// The timer is torn down and the client surfaces Error; the last reported
// sample stays available for display.
func (c *Client) RevokePermission() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle {
		return
	}

	c.haltLocked()
	c.state = Error
	c.logger.Warn("location permission revoked, tracking stopped")
}

// Stop tears the client down. Safe to call in any state, more than once.
func (c *Client) Stop() {
	c.mu.Lock()
	c.haltLocked()
	c.state = Idle
	c.mu.Unlock()

	c.wg.Wait()
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastSample returns the most recently reported sample, if any. It survives
// permission loss and task completion.
func (c *Client) LastSample() (tracking.LocationSample, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.lastSample == nil {
		return tracking.LocationSample{}, false
	}
	return *c.lastSample, true
}

// reconcileLocked moves between Tracking and Paused based on the task status.
// Caller must hold c.mu, with the client in Tracking or Paused.
func (c *Client) reconcileLocked(ctx context.Context) {
	if c.state != Tracking && c.state != Paused {
		return
	}

	shouldTrack := c.taskStatus.IsTracking()
	switch {
	case shouldTrack && c.state != Tracking:
		c.state = Tracking
		c.startTickerLocked(ctx)
	case !shouldTrack && c.state == Tracking:
		c.haltLocked()
		c.state = Paused
	}
}

// startTickerLocked launches the reporting loop. Caller must hold c.mu.
func (c *Client) startTickerLocked(ctx context.Context) {
	tickerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.stopTicker = cancel

	c.wg.Add(1)
	go c.reportLoop(tickerCtx)
}

// haltLocked stops the reporting loop if one exists. Caller must hold c.mu.
func (c *Client) haltLocked() {
	if c.stopTicker != nil {
		c.stopTicker()
		c.stopTicker = nil
	}
}

func (c *Client) reportLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.reportOnce(ctx)
		}
	}
}

func (c *Client) reportOnce(ctx context.Context) {
	lat, lng, speed, bearing, err := c.locator.Locate(ctx)
	if err != nil {
		c.logger.Warn("device position unavailable", "error", err)
		return
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		c.logger.Warn("device reported invalid position", "error", err)
		return
	}

	sample, err := tracking.NewLocationSample(c.agentID, point, speed, bearing, time.Now())
	if err != nil {
		c.logger.Warn("could not build location sample", "error", err)
		return
	}

	if err := c.reporter.Report(ctx, c.taskID, sample); err != nil {
		// Ingest failures never stop the timer; the next tick retries.
		c.logger.Warn("location report failed", "error", err)
		return
	}

	c.mu.Lock()
	c.lastSample = &sample
	c.mu.Unlock()
}
