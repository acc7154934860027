package handlers

import (
	"net/http"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
)

// HealthHandler is the portal's own liveness probe. It never calls the
// recommendation backend; /api/server-health does that.
type HealthHandler struct {
	logger  *common.Logger
	started time.Time
}

// NewHealthHandler creates a health handler whose uptime counts from now.
func NewHealthHandler(logger *common.Logger) *HealthHandler {
	return &HealthHandler{logger: logger, started: time.Now()}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "stockrec-portal",
		"version": config.GetVersion(),
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}
