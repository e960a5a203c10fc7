// Package agentrepo provides data transfer objects and mapping functions for agent persistence.
// This package implements the repository pattern for the agent domain aggregate, handling
// the conversion between domain entities and database representations.
package agentrepo

import (
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting agent aggregates.
// The activation state is stored as its wire string so that read models and
// ad-hoc queries stay legible without an enum lookup.
type AgentDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	RestaurantID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name            string    `gorm:"type:varchar(255);not null"`
	ActivationState string    `gorm:"type:varchar(16);not null"`
	Available       bool      `gorm:"not null"`
	CurrentLoad     int       `gorm:"type:int;not null"`
	MaxLoad         int       `gorm:"type:int;not null"`
}

// TableName specifies the database table name for agent entities.
// Overrides GORM's default naming convention to use "agents" instead of "agent_dtos".
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent domain aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	return AgentDTO{
		ID:              aggregate.ID().Bytes(),
		RestaurantID:    aggregate.RestaurantID().Bytes(),
		Name:            aggregate.Name(),
		ActivationState: aggregate.ActivationState().String(),
		Available:       aggregate.IsAvailable(),
		CurrentLoad:     aggregate.CurrentLoad(),
		MaxLoad:         aggregate.MaxLoad(),
	}
}

// toDomain converts a database DTO to an agent domain aggregate.
// Reconstructs the complete aggregate using RestoreAgent, which re-checks the
// load and availability invariants against the persisted values.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	state, err := agent.ActivationStateFromString(dto.ActivationState)
	if err != nil {
		return nil, err
	}

	return agent.RestoreAgent(
		id,
		restaurantID,
		dto.Name,
		state,
		dto.Available,
		dto.CurrentLoad,
		dto.MaxLoad,
	)
}
