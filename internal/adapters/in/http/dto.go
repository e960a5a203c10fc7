package http

import "dispatch/internal/core/domain/model/tracking"

// ErrorResponse is the error body returned by every endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreatedResponse carries the server-generated identifier of a new resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// AddressPayload is an address snapshot in requests.
type AddressPayload struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

// CreateTaskRequest opens a delivery task for an order that became eligible
// for delivery. Pickup is mandatory on this wire: there is no restaurant
// catalog to default the pickup address from, so the order service sends the
// restaurant address explicitly.
type CreateTaskRequest struct {
	OrderID      string         `json:"orderId"`
	RestaurantID string         `json:"restaurantId"`
	Pickup       AddressPayload `json:"pickup"`
	Dropoff      AddressPayload `json:"dropoff"`
}

// CreateAgentRequest registers a delivery agent for a restaurant.
// A zero maxLoad selects the default concurrent-delivery cap.
type CreateAgentRequest struct {
	RestaurantID string `json:"restaurantId"`
	Name         string `json:"name"`
	MaxLoad      int    `json:"maxLoad"`
}

// SetAvailabilityRequest toggles whether an agent takes deliveries.
type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

// SetActivationRequest moves an agent to a new administrative state.
type SetActivationRequest struct {
	State string `json:"state"`
}

// AssignAgentRequest assigns an agent to a pending task.
type AssignAgentRequest struct {
	AgentID string `json:"agentId"`
}

// AdvanceStatusRequest reports a lifecycle transition from the assigned agent.
type AdvanceStatusRequest struct {
	AgentID string `json:"agentId"`
	Status  string `json:"status"`
}

// ReportLocationRequest is a position sample from the assigned agent's
// device. Ts is the device-side capture time in integer milliseconds.
type ReportLocationRequest struct {
	RiderID string  `json:"riderId"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Speed   float64 `json:"speed"`
	Bearing float64 `json:"bearing"`
	Ts      int64   `json:"ts"`
}

// AvailableAgentResponse is one dispatchable agent, least loaded first.
type AvailableAgentResponse struct {
	AgentID     string `json:"agentId"`
	Name        string `json:"name"`
	CurrentLoad int    `json:"currentLoad"`
	MaxLoad     int    `json:"maxLoad"`
}

// TaskTrackingResponse is the tracking view of one task. Timestamps are
// integer milliseconds; null means the task has not reached that point yet.
type TaskTrackingResponse struct {
	TaskID      string                 `json:"taskId"`
	OrderID     string                 `json:"orderId"`
	Status      string                 `json:"status"`
	RiderID     string                 `json:"riderId,omitempty"`
	AssignedAt  *int64                 `json:"assignedAt"`
	PickedUpAt  *int64                 `json:"pickedUpAt"`
	DeliveredAt *int64                 `json:"deliveredAt"`
	Location    *tracking.LocationWire `json:"location"`
}
