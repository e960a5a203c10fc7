package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// LocationStore keeps the single latest known location sample per task.
// Samples are ephemeral tracking state, not an append log: a put only wins
// when its capture timestamp is strictly newer than the stored one, so
// out-of-order arrivals from a flaky mobile network can never roll the
// visible position backwards.
type LocationStore interface {
	// Put stores the sample if it is strictly newer than the current one for
	// the task. Returns true when the sample was stored, false when a newer
	// or equally fresh sample already exists.
	Put(ctx context.Context, taskID kernel.UUID, sample tracking.LocationSample) (bool, error)

	// Get returns the latest sample for the task. The second result is false
	// when no sample has been reported yet.
	Get(ctx context.Context, taskID kernel.UUID) (tracking.LocationSample, bool, error)

	// Remove drops the task's sample. Called when the task reaches its
	// terminal status and live tracking ends.
	Remove(ctx context.Context, taskID kernel.UUID) error
}
