package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrGetTaskTrackingQueryIsNotConstructed = errors.New(
	"GetTaskTrackingQuery must be created via NewGetTaskTrackingQuery constructor",
)

// GetTaskTrackingQuery retrieves the current tracking view of one delivery
// task: its status, lifecycle timestamps and the latest known rider location.
// The live feed replays exactly this view to new subscribers.
type GetTaskTrackingQuery struct { //nolint:recvcheck //using for validation
	taskID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetTaskTrackingQuery creates a query for a task's tracking view.
func NewGetTaskTrackingQuery(taskID kernel.UUID) (GetTaskTrackingQuery, error) {
	if err := taskID.Validate(); err != nil {
		return GetTaskTrackingQuery{}, err
	}

	return GetTaskTrackingQuery{
		taskID: taskID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetTaskTrackingQueryIsNotConstructed if validation fails.
func (q GetTaskTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetTaskTrackingQueryIsNotConstructed)
}

// TaskID returns the task whose tracking view is requested.
func (q GetTaskTrackingQuery) TaskID() kernel.UUID {
	return q.taskID
}

// GetTaskTrackingQueryResponse is the tracking read model of one task.
// Timestamps are integer milliseconds to match the client wire contract;
// nil means the task has not reached that point yet. Location is nil until
// the rider's device reports the first sample.
type GetTaskTrackingQueryResponse struct {
	TaskID      kernel.UUID
	OrderID     kernel.UUID
	Status      string
	RiderID     string
	AssignedAt  *int64
	PickedUpAt  *int64
	DeliveredAt *int64
	Location    *tracking.LocationWire
}
