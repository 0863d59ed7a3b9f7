// File: internal/handlers/events_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/neochat/neochat/internal/middleware"
	"github.com/neochat/neochat/internal/services"
)

// EventsHandler streams core notifications to the client over SSE, the same
// transport the rest of the app uses for its live updates.
type EventsHandler struct {
	Broadcaster *services.Broadcaster
}

func NewEventsHandler(b *services.Broadcaster) *EventsHandler {
	return &EventsHandler{Broadcaster: b}
}

// Stream handles GET /api/events.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UsernameFromContext(r.Context()); !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.Broadcaster.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case n := <-events:
			payload, err := json.Marshal(n)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: notification\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
