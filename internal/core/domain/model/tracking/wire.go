package tracking

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
)

// LocationWire is the payload shape consumed by mobile and UI clients for a
// location sample. Field names and the integer-millisecond timestamp are part
// of the client contract and must not change.
type LocationWire struct {
	RiderID string  `json:"riderId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Speed   float64 `json:"speed"`
	Bearing float64 `json:"bearing"`
	Ts      int64   `json:"ts"`
}

// StatusWire is the payload shape consumed by mobile and UI clients for a
// status event. RiderID is empty while the task has no agent (PENDING).
type StatusWire struct {
	Status    string `json:"status"`
	UpdatedAt int64  `json:"updatedAt"`
	RiderID   string `json:"riderId"`
}

// Wire converts the sample to its client payload.
func (s LocationSample) Wire() LocationWire {
	return LocationWire{
		RiderID: s.agentID.String(),
		Lat:     s.point.Lat(),
		Lng:     s.point.Lng(),
		Speed:   s.speed,
		Bearing: s.bearing,
		Ts:      s.sampledAt.UnixMilli(),
	}
}

// SampleFromWire reconstructs a LocationSample from its client payload,
// re-validating every field. Used when reading the latest sample back from
// the location store.
func SampleFromWire(wire LocationWire) (LocationSample, error) {
	agentID, err := kernel.UUIDFromString(wire.RiderID)
	if err != nil {
		return LocationSample{}, err
	}

	point, err := kernel.NewGeoPoint(wire.Lat, wire.Lng)
	if err != nil {
		return LocationSample{}, err
	}

	return NewLocationSample(agentID, point, wire.Speed, wire.Bearing, time.UnixMilli(wire.Ts))
}

// NewStatusWire builds the status event payload for a task transition.
// agentID may be nil for PENDING tasks (after an unassign).
func NewStatusWire(status task.Status, updatedAt time.Time, agentID *kernel.UUID) StatusWire {
	wire := StatusWire{
		Status:    status.String(),
		UpdatedAt: updatedAt.UnixMilli(),
	}
	if agentID != nil {
		wire.RiderID = agentID.String()
	}
	return wire
}
