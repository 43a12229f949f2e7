package handler

import (
	"net/http"

	"github.com/mcoot/gamenight/internal/web/sse"
)

// EventsHandler streams collection change notifications
type EventsHandler struct {
	hubManager *sse.HubManager
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hubManager *sse.HubManager) *EventsHandler {
	return &EventsHandler{
		hubManager: hubManager,
	}
}

// Stream handles GET /api/v1/events. Each event is named after the
// collection that changed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	hub := h.hubManager.GetOrCreateHub(sse.TopicChanges)
	sse.ServeSSE(w, r, hub)
}
