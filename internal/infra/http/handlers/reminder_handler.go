package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/xavierca1/ecocrm/internal/entity"
	"github.com/xavierca1/ecocrm/internal/infra/events"
)

type ReminderFeed interface {
	Current() []entity.Lead
	Recent() []entity.ReminderNotice
	ScanOnce(ctx context.Context, now time.Time) []entity.Lead
}

type RemindersResponse struct {
	Current []entity.Lead           `json:"current"`
	Recent  []entity.ReminderNotice `json:"recent"`
}

type ReminderHandler struct {
	Reminders ReminderFeed
	Now       func() time.Time
}

func NewReminderHandler(reminders ReminderFeed) *ReminderHandler {
	return &ReminderHandler{Reminders: reminders, Now: time.Now}
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, RemindersResponse{
		Current: h.Reminders.Current(),
		Recent:  h.Reminders.Recent(),
	})
}

// Scan roda uma varredura fora do tick e devolve o que disparou.
func (h *ReminderHandler) Scan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Reminders.ScanOnce(r.Context(), h.Now()))
}

type EventsHandler struct {
	Hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{Hub: hub}
}

func (h *EventsHandler) ServeSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "STREAM_UNSUPPORTED", "Streaming não suportado")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := h.Hub.Subscribe()
	defer h.Hub.Unsubscribe(ch)

	if ping, err := events.MakeEvent(events.TypePing, nil); err == nil {
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", ping)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
