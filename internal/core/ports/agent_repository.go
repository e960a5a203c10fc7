// Package ports defines the outbound contracts of the dispatch core.
// Repository, unit-of-work, location store and live feed interfaces establish
// contracts between the domain layer and infrastructure, enabling dependency
// inversion and testability.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
)

// AgentRepository defines the persistence contract for agent aggregates.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	// The agent must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent aggregate.
	// The agent must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetForUpdate retrieves an agent aggregate and locks its row until the
	// surrounding transaction ends. Every capacity mutation (AcquireSlot,
	// ReleaseSlot) must load the agent through this method so that concurrent
	// assignment attempts against the same agent are serialized: the slot
	// check and the increment become a single atomic step.
	//
	// Must be called inside an active UnitOfWork transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error)
}
