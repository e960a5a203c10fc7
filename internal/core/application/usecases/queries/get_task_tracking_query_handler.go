package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetTaskTrackingQueryHandler builds the tracking view of a task by joining
// the relational task row with the latest location sample from the ephemeral
// location store.
type GetTaskTrackingQueryHandler struct {
	db            *gorm.DB
	locationStore ports.LocationStore
}

// NewGetTaskTrackingQueryHandler creates a handler for task tracking queries.
func NewGetTaskTrackingQueryHandler(db *gorm.DB, locationStore ports.LocationStore) GetTaskTrackingQueryHandler {
	return GetTaskTrackingQueryHandler{db: db, locationStore: locationStore}
}

// Handle executes the tracking query.
// Returns errs.ErrObjectNotFound when the task does not exist. A missing
// location sample is not an error; Location is simply nil.
func (h GetTaskTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetTaskTrackingQuery,
) (GetTaskTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTaskTrackingQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_id,
			status,
			agent_id,
			assigned_at,
			picked_up_at,
			delivered_at
		FROM delivery_tasks
		WHERE id = ?
	`, query.TaskID().String()).Row()

	var (
		id          uuid.UUID
		orderID     uuid.UUID
		status      string
		agentID     sql.Null[uuid.UUID]
		assignedAt  sql.NullTime
		pickedUpAt  sql.NullTime
		deliveredAt sql.NullTime
	)

	err := row.Scan(&id, &orderID, &status, &agentID, &assignedAt, &pickedUpAt, &deliveredAt)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetTaskTrackingQueryResponse{}, errs.NewObjectNotFoundError("taskId", query.TaskID())
	}
	if err != nil {
		return GetTaskTrackingQueryResponse{}, err
	}

	taskID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetTaskTrackingQueryResponse{}, err
	}
	orderUUID, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetTaskTrackingQueryResponse{}, err
	}

	response := GetTaskTrackingQueryResponse{
		TaskID:      taskID,
		OrderID:     orderUUID,
		Status:      status,
		AssignedAt:  nullTimeMillis(assignedAt),
		PickedUpAt:  nullTimeMillis(pickedUpAt),
		DeliveredAt: nullTimeMillis(deliveredAt),
	}
	if agentID.Valid {
		response.RiderID = agentID.V.String()
	}

	sample, found, err := h.locationStore.Get(ctx, query.TaskID())
	if err != nil {
		return GetTaskTrackingQueryResponse{}, err
	}
	if found {
		wire := sample.Wire()
		response.Location = &wire
	}

	return response, nil
}

func nullTimeMillis(t sql.NullTime) *int64 {
	if !t.Valid {
		return nil
	}

	millis := t.Time.UnixMilli()
	return &millis
}
