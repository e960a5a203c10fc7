package queries

import (
	"context"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAvailableAgentsQueryHandler retrieves dispatchable agents from the database.
// Uses direct SQL for optimal read performance in the CQRS pattern.
//
// Example:
//
//	handler := NewGetAvailableAgentsQueryHandler(db)
//	query, _ := NewGetAvailableAgentsQuery(restaurantID, 3)
//
//	agents, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get agents: %v", err)
//	    return err
//	}
type GetAvailableAgentsQueryHandler struct {
	db *gorm.DB
}

// NewGetAvailableAgentsQueryHandler creates a handler for available agent queries.
// Requires a GORM database connection for query execution.
func NewGetAvailableAgentsQueryHandler(db *gorm.DB) GetAvailableAgentsQueryHandler {
	return GetAvailableAgentsQueryHandler{db: db}
}

// Handle executes the query for dispatchable agents.
// Returns ACTIVE, available agents loaded below both the caller's threshold
// and their own cap, least loaded first so operators can spread work evenly;
// name breaks ties for stable output.
func (h GetAvailableAgentsQueryHandler) Handle(
	ctx context.Context,
	query GetAvailableAgentsQuery,
) ([]GetAvailableAgentsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	agents := make([]GetAvailableAgentsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			current_load,
			max_load
		FROM agents
		WHERE restaurant_id = ?
		  AND activation_state = ?
		  AND available
		  AND current_load < LEAST(?, max_load)
		ORDER BY current_load, name
	`, query.RestaurantID().String(), agent.Active.String(), query.MaxLoad()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var response GetAvailableAgentsQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&response.Name,
			&response.CurrentLoad,
			&response.MaxLoad,
		)
		if err != nil {
			return nil, err
		}

		agentID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		response.ID = agentID

		agents = append(agents, response)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return agents, nil
}
