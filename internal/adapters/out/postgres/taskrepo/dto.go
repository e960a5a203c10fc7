// Package taskrepo provides data transfer objects and mapping functions for
// delivery task persistence. This package implements the repository pattern
// for the task domain aggregate, handling the conversion between domain
// entities and database representations.
package taskrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"

	"github.com/google/uuid"
)

// TaskDTO represents the database structure for persisting delivery task
// aggregates. The unique index on OrderID enforces the one-task-per-order
// rule at the storage level; Version carries the optimistic concurrency
// counter checked on every update.
type TaskDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;not null;index"`
	AgentID      *uuid.UUID `gorm:"type:uuid;index"`
	Status       string     `gorm:"type:varchar(16);not null;index"`
	Pickup       AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff      AddressDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	AssignedAt   *time.Time
	PickedUpAt   *time.Time
	DeliveredAt  *time.Time
	Version      int64 `gorm:"not null"`
}

// TableName specifies the database table name for task entities.
// Overrides GORM's default naming convention to use "delivery_tasks".
func (TaskDTO) TableName() string {
	return "delivery_tasks"
}

// AddressDTO represents an embedded address snapshot within the task table.
type AddressDTO struct {
	Street string `gorm:"type:varchar(255);not null"`
	City   string `gorm:"type:varchar(255);not null"`
}

// fromDomain converts a task domain aggregate to its database representation.
func fromDomain(aggregate *task.DeliveryTask) TaskDTO {
	var agentID *uuid.UUID
	if id := aggregate.AgentID(); id != nil {
		raw := id.Bytes()
		agentID = &raw
	}

	return TaskDTO{
		ID:           aggregate.ID().Bytes(),
		OrderID:      aggregate.OrderID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		AgentID:      agentID,
		Status:       aggregate.Status().String(),
		Pickup: AddressDTO{
			Street: aggregate.Pickup().Street(),
			City:   aggregate.Pickup().City(),
		},
		Dropoff: AddressDTO{
			Street: aggregate.Dropoff().Street(),
			City:   aggregate.Dropoff().City(),
		},
		AssignedAt:  aggregate.AssignedAt(),
		PickedUpAt:  aggregate.PickedUpAt(),
		DeliveredAt: aggregate.DeliveredAt(),
		Version:     aggregate.Version(),
	}
}

// toDomain converts a database DTO to a task domain aggregate.
// Reconstructs the complete aggregate using RestoreDeliveryTask, which
// re-checks status/agent consistency against the persisted values.
func toDomain(dto TaskDTO) (*task.DeliveryTask, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var agentID *kernel.UUID
	if dto.AgentID != nil {
		aID, agentErr := kernel.UUIDFromBytes((*dto.AgentID)[:])
		if agentErr != nil {
			return nil, agentErr
		}
		agentID = &aID
	}

	status, err := task.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewAddress(dto.Pickup.Street, dto.Pickup.City)
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewAddress(dto.Dropoff.Street, dto.Dropoff.City)
	if err != nil {
		return nil, err
	}

	return task.RestoreDeliveryTask(
		id,
		orderID,
		restaurantID,
		agentID,
		status,
		pickup,
		dropoff,
		dto.AssignedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
		dto.Version,
	)
}
