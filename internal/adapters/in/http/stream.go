package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"dispatch/internal/core/domain/model/task"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/labstack/echo/v4"
)

// SSE event names, part of the client contract.
const (
	eventNameLocation = "location"
	eventNameStatus   = "status"
)

// StreamTask handles GET /api/v1/tasks/:taskId/stream - a server-sent events
// feed of the task's live tracking state.
//
// On connect the subscription replays the task's current status and latest
// location, so the client renders immediately. The stream ends when the task
// reaches DELIVERED or the client disconnects.
func (s *Server) StreamTask(ctx echo.Context) error {
	taskID, err := pathUUID(ctx, "taskId")
	if err != nil {
		return badRequest(ctx, "invalid taskId")
	}

	requestCtx := ctx.Request().Context()
	sub, err := s.subscriber.Subscribe(requestCtx, taskID)
	if err != nil {
		return s.fail(ctx, err)
	}
	defer sub.Close()

	response := ctx.Response()
	response.Header().Set(echo.HeaderContentType, "text/event-stream")
	response.Header().Set("Cache-Control", "no-cache")
	response.Header().Set("Connection", "keep-alive")
	response.WriteHeader(http.StatusOK)
	response.Flush()

	for {
		select {
		case <-requestCtx.Done():
			return nil
		case event, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := writeEvent(response, event); err != nil {
				return nil
			}
			response.Flush()

			// The final status closes the stream server-side; the hub
			// will not emit anything after it.
			if event.Kind == tracking.EventStatus && event.Status.Status == task.Delivered.String() {
				return nil
			}
		}
	}
}

// writeEvent encodes one feed item as an SSE frame.
func writeEvent(response *echo.Response, event tracking.Event) error {
	var (
		name    string
		payload any
	)

	switch event.Kind {
	case tracking.EventLocation:
		name = eventNameLocation
		payload = event.Location
	case tracking.EventStatus:
		name = eventNameStatus
		payload = event.Status
	default:
		return fmt.Errorf("unknown tracking event kind %d", event.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(response, "event: %s\ndata: %s\n\n", name, data)
	return err
}
