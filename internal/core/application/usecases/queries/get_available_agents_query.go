// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetAvailableAgentsQueryIsNotConstructed = errors.New(
	"GetAvailableAgentsQuery must be created via NewGetAvailableAgentsQuery constructor",
)

// GetAvailableAgentsQuery retrieves the agents of a restaurant that can take
// another delivery right now: ACTIVE, available and loaded below both the
// caller's threshold and their own cap. The caller-supplied maxLoad lets a
// dispatcher ask for "agents carrying fewer than N deliveries" regardless of
// each agent's configured capacity.
//
// Example:
//
//	query, err := NewGetAvailableAgentsQuery(restaurantID, 3)
//	if err != nil {
//	    return err
//	}
//	agents, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve agents: %w", err)
//	}
//	// agents[0] is the least loaded candidate
type GetAvailableAgentsQuery struct { //nolint:recvcheck //using for validation
	restaurantID kernel.UUID
	maxLoad      int

	guard guard.ConstructorGuard
}

// NewGetAvailableAgentsQuery creates a query for a restaurant's dispatchable
// agents loaded below maxLoad.
func NewGetAvailableAgentsQuery(restaurantID kernel.UUID, maxLoad int) (GetAvailableAgentsQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetAvailableAgentsQuery{}, err
	}
	if maxLoad < 1 {
		return GetAvailableAgentsQuery{}, errs.NewValueIsInvalidError("maxLoad")
	}

	return GetAvailableAgentsQuery{
		restaurantID: restaurantID,
		maxLoad:      maxLoad,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAvailableAgentsQueryIsNotConstructed if validation fails.
func (q GetAvailableAgentsQuery) Validate() error {
	return q.guard.Validate(ErrGetAvailableAgentsQueryIsNotConstructed)
}

// RestaurantID returns the restaurant whose agents are requested.
func (q GetAvailableAgentsQuery) RestaurantID() kernel.UUID {
	return q.restaurantID
}

// MaxLoad returns the caller-supplied load threshold.
func (q GetAvailableAgentsQuery) MaxLoad() int {
	return q.maxLoad
}

// GetAvailableAgentsQueryResponse represents one dispatchable agent in the
// read model, ordered by how much spare capacity the agent has.
type GetAvailableAgentsQueryResponse struct {
	ID          kernel.UUID
	Name        string
	CurrentLoad int
	MaxLoad     int
}
