package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand carries one GPS sample reported by the agent's device
// while a delivery is underway. The capture timestamp comes from the device,
// not the server, because samples race each other over a flaky mobile
// network and only the device knows which one is genuinely newer.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID
	sample tracking.LocationSample

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a command from the raw fields of the
// client payload. Coordinate bounds, speed, bearing and the timestamp are all
// validated here, so a handler never sees a malformed sample.
func NewReportLocationCommand(
	taskID kernel.UUID,
	agentID kernel.UUID,
	lat float64,
	lng float64,
	speed float64,
	bearing float64,
	sampledAt time.Time,
) (ReportLocationCommand, error) {
	if err := taskID.Validate(); err != nil {
		return ReportLocationCommand{}, err
	}

	point, err := kernel.NewGeoPoint(lat, lng)
	if err != nil {
		return ReportLocationCommand{}, err
	}

	sample, err := tracking.NewLocationSample(agentID, point, speed, bearing, sampledAt)
	if err != nil {
		return ReportLocationCommand{}, err
	}

	return ReportLocationCommand{
		taskID: taskID,
		sample: sample,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReportLocationCommandIsNotConstructed if validation fails.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// TaskID returns the task the sample belongs to.
func (c ReportLocationCommand) TaskID() kernel.UUID {
	return c.taskID
}

// Sample returns the validated location sample.
func (c ReportLocationCommand) Sample() tracking.LocationSample {
	return c.sample
}
