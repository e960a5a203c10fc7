package tracking

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// BearingMin is the minimum valid bearing in degrees.
	BearingMin float64 = 0
	// BearingMax is the maximum valid bearing in degrees (exclusive wrap point).
	BearingMax float64 = 360
)

// ErrSampleIsNotConstructed is returned when using an improperly initialized LocationSample.
var ErrSampleIsNotConstructed = errs.NewValueIsRequiredError(
	"location sample must be created via NewLocationSample constructor")

// LocationSample is a single position report from the assigned agent's device.
// Samples are ephemeral and keyed by task: only the latest sample per task is
// retained, resolved purely by SampledAt (last-write-wins). A stored sample is
// never overwritten by one with an earlier or equal timestamp, because mobile
// networks reorder packets.
type LocationSample struct { //nolint:recvcheck //using for validation
	// agentID is the reporting agent, must match the task's assigned agent
	agentID kernel.UUID
	// point is the reported device position
	point kernel.GeoPoint
	// speed is the reported ground speed in m/s
	speed float64
	// bearing is the reported heading in degrees [0..360)
	bearing float64
	// sampledAt is the device-side capture time; the last-write-wins key
	sampledAt time.Time
	// guard ensures the sample was properly constructed
	guard guard.ConstructorGuard
}

// NewLocationSample creates a validated location sample.
//
// Business rules:
//   - agentID and point must be valid
//   - speed must be non-negative
//   - bearing must lie in [0..360)
//   - sampledAt must be non-zero
func NewLocationSample(
	agentID kernel.UUID,
	point kernel.GeoPoint,
	speed float64,
	bearing float64,
	sampledAt time.Time,
) (LocationSample, error) {
	sample := LocationSample{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sample.setAgentID(agentID),
		sample.setPoint(point),
		sample.setSpeed(speed),
		sample.setBearing(bearing),
		sample.setSampledAt(sampledAt),
	); err != nil {
		return LocationSample{}, err
	}

	return sample, nil
}

// Validate checks that the sample was created via NewLocationSample.
func (s LocationSample) Validate() error {
	return s.guard.Validate(ErrSampleIsNotConstructed)
}

// AgentID returns the reporting agent's identifier.
func (s LocationSample) AgentID() kernel.UUID {
	return s.agentID
}

// Point returns the reported device position.
func (s LocationSample) Point() kernel.GeoPoint {
	return s.point
}

// Speed returns the reported ground speed in m/s.
func (s LocationSample) Speed() float64 {
	return s.speed
}

// Bearing returns the reported heading in degrees.
func (s LocationSample) Bearing() float64 {
	return s.bearing
}

// SampledAt returns the device-side capture time.
func (s LocationSample) SampledAt() time.Time {
	return s.sampledAt
}

// IsNewerThan reports whether this sample strictly supersedes other.
// Equal timestamps do not supersede, so duplicate reports are no-ops.
func (s LocationSample) IsNewerThan(other LocationSample) bool {
	return s.sampledAt.After(other.sampledAt)
}

func (s *LocationSample) setAgentID(agentID kernel.UUID) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	s.agentID = agentID
	return nil
}

func (s *LocationSample) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	s.point = point
	return nil
}

func (s *LocationSample) setSpeed(speed float64) error {
	if speed < 0 {
		return errs.NewValueIsInvalidError("speed")
	}
	s.speed = speed
	return nil
}

func (s *LocationSample) setBearing(bearing float64) error {
	if bearing < BearingMin || bearing >= BearingMax {
		return errs.NewValueIsOutOfRangeError("bearing", bearing, BearingMin, BearingMax)
	}
	s.bearing = bearing
	return nil
}

func (s *LocationSample) setSampledAt(sampledAt time.Time) error {
	if sampledAt.IsZero() {
		return errs.NewValueIsRequiredError("sampleTimestamp")
	}
	s.sampledAt = sampledAt
	return nil
}
