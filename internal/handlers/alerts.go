package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/alerts"
	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// AlertsHandler streams over-10% threshold alerts to the browser, which turns
// each one into a notification and a beep.
type AlertsHandler struct {
	logger    *common.Logger
	broker    *alerts.Broker
	heartbeat time.Duration
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(logger *common.Logger, broker *alerts.Broker) *AlertsHandler {
	return &AlertsHandler{logger: logger, broker: broker, heartbeat: 25 * time.Second}
}

// HandleRecent handles GET /api/portal/alerts.
func (h *AlertsHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"alerts": h.broker.Recent()})
}

// HandleStream handles GET /api/portal/alerts/stream as server-sent events.
func (h *AlertsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, unsubscribe := h.broker.Subscribe()
	defer unsubscribe()

	fmt.Fprint(w, "event: ready\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case a, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(a)
			if err != nil {
				h.logger.Error().Err(err).Msg("failed to encode alert")
				continue
			}
			fmt.Fprintf(w, "id: %s\nevent: alert\ndata: %s\n\n", a.ID, payload)
			flusher.Flush()
		}
	}
}
