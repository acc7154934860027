package handlers

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// StocksHandler serves ticker/company lookup for the on-demand form.
type StocksHandler struct {
	logger    *common.Logger
	backend   *client.Client
	jwtSecret []byte
}

// NewStocksHandler creates a new stock search handler.
func NewStocksHandler(logger *common.Logger, backend *client.Client, jwtSecret []byte) *StocksHandler {
	return &StocksHandler{logger: logger, backend: backend, jwtSecret: jwtSecret}
}

// ServeHTTP handles GET /api/portal/stocks/search?q=. Lookup failures return
// an empty result list.
func (h *StocksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))

	results, err := h.backend.SearchStocks(backendContext(r, h.jwtSecret), q)
	if err != nil {
		h.logger.Warn().Str("query", q).Err(err).Msg("stock search failed")
		results = []models.StockSearchResult{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   q,
		"results": results,
	})
}
