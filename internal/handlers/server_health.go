package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// ServerHealthHandler reports whether the recommendation backend is reachable.
type ServerHealthHandler struct {
	logger  *common.Logger
	backend *client.Client
}

// NewServerHealthHandler creates a new server health handler.
func NewServerHealthHandler(logger *common.Logger, backend *client.Client) *ServerHealthHandler {
	return &ServerHealthHandler{logger: logger, backend: backend}
}

// ServeHTTP handles GET /api/server-health.
func (h *ServerHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.backend.Ping(ctx); err != nil {
		h.logger.Debug().Err(err).Str("api_url", h.backend.BaseURL()).Msg("backend health check failed")
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down"})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
