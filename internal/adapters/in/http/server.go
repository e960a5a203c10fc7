// Package http exposes the dispatch subsystem over REST and server-sent
// events. Handlers translate between wire payloads and application commands
// and queries; all business rules stay behind the command handlers.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires HTTP routes to application use cases.
type Server struct {
	// Command handlers
	createTaskHandler      commands.CreateTaskCommandHandler
	createAgentHandler     commands.CreateAgentCommandHandler
	setAvailabilityHandler commands.SetAgentAvailabilityCommandHandler
	setActivationHandler   commands.SetAgentActivationCommandHandler
	assignAgentHandler     commands.AssignAgentCommandHandler
	unassignAgentHandler   commands.UnassignAgentCommandHandler
	advanceStatusHandler   commands.AdvanceStatusCommandHandler
	reportLocationHandler  commands.ReportLocationCommandHandler

	// Query handlers
	availableAgentsHandler queries.GetAvailableAgentsQueryHandler
	taskTrackingHandler    queries.GetTaskTrackingQueryHandler

	// Live feed
	subscriber ports.TrackingSubscriber
}

// NewServer creates an HTTP server over the given use case handlers.
func NewServer(
	createTaskHandler commands.CreateTaskCommandHandler,
	createAgentHandler commands.CreateAgentCommandHandler,
	setAvailabilityHandler commands.SetAgentAvailabilityCommandHandler,
	setActivationHandler commands.SetAgentActivationCommandHandler,
	assignAgentHandler commands.AssignAgentCommandHandler,
	unassignAgentHandler commands.UnassignAgentCommandHandler,
	advanceStatusHandler commands.AdvanceStatusCommandHandler,
	reportLocationHandler commands.ReportLocationCommandHandler,
	availableAgentsHandler queries.GetAvailableAgentsQueryHandler,
	taskTrackingHandler queries.GetTaskTrackingQueryHandler,
	subscriber ports.TrackingSubscriber,
) *Server {
	return &Server{
		createTaskHandler:      createTaskHandler,
		createAgentHandler:     createAgentHandler,
		setAvailabilityHandler: setAvailabilityHandler,
		setActivationHandler:   setActivationHandler,
		assignAgentHandler:     assignAgentHandler,
		unassignAgentHandler:   unassignAgentHandler,
		advanceStatusHandler:   advanceStatusHandler,
		reportLocationHandler:  reportLocationHandler,
		availableAgentsHandler: availableAgentsHandler,
		taskTrackingHandler:    taskTrackingHandler,
		subscriber:             subscriber,
	}
}

// RegisterRoutes attaches all dispatch endpoints under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/agents", s.CreateAgent)
	api.PUT("/agents/:agentId/availability", s.SetAgentAvailability)
	api.PUT("/agents/:agentId/activation", s.SetAgentActivation)
	api.GET("/restaurants/:restaurantId/agents/available", s.GetAvailableAgents)

	api.POST("/tasks", s.CreateTask)
	api.POST("/tasks/:taskId/assign", s.AssignAgent)
	api.POST("/tasks/:taskId/unassign", s.UnassignAgent)
	api.POST("/tasks/:taskId/status", s.AdvanceStatus)
	api.POST("/tasks/:taskId/location", s.ReportLocation)
	api.GET("/tasks/:taskId/tracking", s.GetTaskTracking)
	api.GET("/tasks/:taskId/stream", s.StreamTask)
}

// CreateTask handles POST /api/v1/tasks - opens a delivery task for an order.
func (s *Server) CreateTask(ctx echo.Context) error {
	var body CreateTaskRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	orderID, err := kernel.UUIDFromString(body.OrderID)
	if err != nil {
		return badRequest(ctx, "invalid orderId")
	}
	restaurantID, err := kernel.UUIDFromString(body.RestaurantID)
	if err != nil {
		return badRequest(ctx, "invalid restaurantId")
	}

	pickup, err := kernel.NewAddress(body.Pickup.Street, body.Pickup.City)
	if err != nil {
		return s.fail(ctx, err)
	}
	dropoff, err := kernel.NewAddress(body.Dropoff.Street, body.Dropoff.City)
	if err != nil {
		return s.fail(ctx, err)
	}

	taskID := kernel.NewUUID()
	cmd, err := commands.NewCreateTaskCommand(taskID, orderID, restaurantID, pickup, dropoff)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.createTaskHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: taskID.String()})
}

// CreateAgent handles POST /api/v1/agents - registers a delivery agent.
func (s *Server) CreateAgent(ctx echo.Context) error {
	var body CreateAgentRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	restaurantID, err := kernel.UUIDFromString(body.RestaurantID)
	if err != nil {
		return badRequest(ctx, "invalid restaurantId")
	}

	agentID := kernel.NewUUID()
	cmd, err := commands.NewCreateAgentCommand(agentID, restaurantID, body.Name, body.MaxLoad)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.createAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: agentID.String()})
}

// SetAgentAvailability handles PUT /api/v1/agents/:agentId/availability.
func (s *Server) SetAgentAvailability(ctx echo.Context) error {
	agentID, err := pathUUID(ctx, "agentId")
	if err != nil {
		return badRequest(ctx, "invalid agentId")
	}

	var body SetAvailabilityRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	cmd, err := commands.NewSetAgentAvailabilityCommand(agentID, body.Available)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.setAvailabilityHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetAgentActivation handles PUT /api/v1/agents/:agentId/activation.
func (s *Server) SetAgentActivation(ctx echo.Context) error {
	agentID, err := pathUUID(ctx, "agentId")
	if err != nil {
		return badRequest(ctx, "invalid agentId")
	}

	var body SetActivationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	state, err := agent.ActivationStateFromString(body.State)
	if err != nil {
		return badRequest(ctx, "invalid activation state")
	}

	cmd, err := commands.NewSetAgentActivationCommand(agentID, state)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.setActivationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignAgent handles POST /api/v1/tasks/:taskId/assign.
func (s *Server) AssignAgent(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	var body AssignAgentRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return badRequest(ctx, "invalid agentId")
	}

	cmd, err := commands.NewAssignAgentCommand(taskID, agentID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.assignAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UnassignAgent handles POST /api/v1/tasks/:taskId/unassign.
func (s *Server) UnassignAgent(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	cmd, err := commands.NewUnassignAgentCommand(taskID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.unassignAgentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AdvanceStatus handles POST /api/v1/tasks/:taskId/status - the assigned
// agent reports a lifecycle transition.
func (s *Server) AdvanceStatus(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	var body AdvanceStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	agentID, err := kernel.UUIDFromString(body.AgentID)
	if err != nil {
		return badRequest(ctx, "invalid agentId")
	}

	newStatus, err := task.StatusFromString(body.Status)
	if err != nil {
		return badRequest(ctx, "invalid status")
	}

	cmd, err := commands.NewAdvanceStatusCommand(taskID, agentID, newStatus)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.advanceStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportLocation handles POST /api/v1/tasks/:taskId/location - the assigned
// agent's device reports a position sample.
func (s *Server) ReportLocation(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	var body ReportLocationRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, err := kernel.UUIDFromString(body.RiderID)
	if err != nil {
		return badRequest(ctx, "invalid riderId")
	}

	cmd, err := commands.NewReportLocationCommand(
		taskID,
		riderID,
		body.Lat,
		body.Lng,
		body.Speed,
		body.Bearing,
		time.UnixMilli(body.Ts),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err := s.reportLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// GetAvailableAgents handles GET /api/v1/restaurants/:restaurantId/agents/available.
// The required maxLoad query parameter is the caller's load threshold: only
// agents carrying fewer deliveries than it (and than their own cap) are
// returned.
func (s *Server) GetAvailableAgents(ctx echo.Context) error {
	restaurantID, err := pathUUID(ctx, "restaurantId")
	if err != nil {
		return badRequest(ctx, "invalid restaurantId")
	}

	maxLoad, err := strconv.Atoi(ctx.QueryParam("maxLoad"))
	if err != nil {
		return badRequest(ctx, "invalid maxLoad")
	}

	query, err := queries.NewGetAvailableAgentsQuery(restaurantID, maxLoad)
	if err != nil {
		return s.fail(ctx, err)
	}

	agents, err := s.availableAgentsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]AvailableAgentResponse, len(agents))
	for i, candidate := range agents {
		response[i] = AvailableAgentResponse{
			AgentID:     candidate.ID.String(),
			Name:        candidate.Name,
			CurrentLoad: candidate.CurrentLoad,
			MaxLoad:     candidate.MaxLoad,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetTaskTracking handles GET /api/v1/tasks/:taskId/tracking.
func (s *Server) GetTaskTracking(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	query, err := queries.NewGetTaskTrackingQuery(taskID)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.taskTrackingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TaskTrackingResponse{
		TaskID:      view.TaskID.String(),
		OrderID:     view.OrderID.String(),
		Status:      view.Status,
		RiderID:     view.RiderID,
		AssignedAt:  view.AssignedAt,
		PickedUpAt:  view.PickedUpAt,
		DeliveredAt: view.DeliveredAt,
		Location:    view.Location,
	})
}

// fail maps application and domain errors onto HTTP status codes.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := statusFor(err)
	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrReporterNotAssigned):
		return http.StatusForbidden
	case errors.Is(err, ports.ErrDuplicateOrderTask),
		errors.Is(err, errs.ErrConcurrencyConflict),
		errors.Is(err, task.ErrAlreadyDelivered),
		errors.Is(err, task.ErrInvalidTransition),
		errors.Is(err, agent.ErrCapacityExceeded),
		errors.Is(err, agent.ErrAgentInactive),
		errors.Is(err, commands.ErrTaskNotTracking):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathUUID(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}
