package handlers

import (
	"net/http"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/regime"
	"github.com/bobmcallan/stockrec-portal/internal/views"
	"github.com/bobmcallan/stockrec-portal/internal/watchlist"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// RecommendationsHandler serves watchlist recommendations, history and
// on-demand generation.
type RecommendationsHandler struct {
	logger      *common.Logger
	backend     *client.Client
	regimes     *regime.Service
	watchlists  *watchlist.Store
	jwtSecret   []byte
	concurrency int
}

// NewRecommendationsHandler creates a new recommendations handler.
// concurrency bounds the per-symbol history fan-out.
func NewRecommendationsHandler(logger *common.Logger, backend *client.Client, regimes *regime.Service, watchlists *watchlist.Store, jwtSecret []byte, concurrency int) *RecommendationsHandler {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &RecommendationsHandler{
		logger:      logger,
		backend:     backend,
		regimes:     regimes,
		watchlists:  watchlists,
		jwtSecret:   jwtSecret,
		concurrency: concurrency,
	}
}

// RecommendationsResponse is the body of GET /api/portal/recommendations.
type RecommendationsResponse struct {
	Symbols         []string                   `json:"symbols"`
	Recommendations []views.RecommendationView `json:"recommendations"`
	Missing         []string                   `json:"missing"`
	Banner          *views.Banner              `json:"banner,omitempty"`
}

// HandleList handles GET /api/portal/recommendations?symbols=.
// Without symbols the caller's watchlist is used. Each symbol shows its latest
// history entry, decorated with its market regime.
func (h *RecommendationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	ctx := backendContext(r, h.jwtSecret)

	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		symbols = h.userSymbols(r)
	}
	symbols = watchlist.Normalize(symbols)

	latest := make([]*models.Recommendation, len(symbols))
	var (
		mu     sync.Mutex
		failed []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, sym := range symbols {
		g.Go(func() error {
			history, err := h.backend.RecommendationHistory(gctx, sym, 1)
			if err != nil {
				if !client.IsNotFound(err) {
					h.logger.Warn().Str("symbol", sym).Err(err).Msg("recommendation history unavailable")
					mu.Lock()
					failed = append(failed, sym)
					mu.Unlock()
				}
				return nil
			}
			if len(history) > 0 {
				latest[i] = &history[0]
			}
			return nil
		})
	}
	g.Wait()

	regimes, _ := h.regimes.GetMany(ctx, symbols)

	resp := RecommendationsResponse{
		Symbols:         symbols,
		Recommendations: []views.RecommendationView{},
		Missing:         []string{},
	}
	for i, sym := range symbols {
		rec := latest[i]
		if rec == nil {
			resp.Missing = append(resp.Missing, sym)
			continue
		}
		if rec.Regime == nil {
			rec.Regime = regimes[sym]
		}
		resp.Recommendations = append(resp.Recommendations, views.NewRecommendationView(*rec))
	}
	if len(failed) > 0 {
		resp.Banner = views.NewBanner(views.BannerWarning, "Could not load recommendations for "+strings.Join(failed, ", ")+".")
	}

	WriteJSON(w, http.StatusOK, resp)
}

func (h *RecommendationsHandler) userSymbols(r *http.Request) []string {
	symbols, err := h.watchlists.Get(r.Context(), sessionUser(r, h.jwtSecret))
	if err != nil {
		h.logger.Warn().Err(err).Msg("watchlist unavailable, using defaults")
	}
	if len(symbols) == 0 {
		return watchlist.DefaultSymbols
	}
	return symbols
}

// HandleHistory handles GET /api/portal/recommendations/{symbol}/history?limit=.
func (h *RecommendationsHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(r.PathValue("symbol")))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}
	limit := min(queryInt(r, "limit", defaultHistoryLimit), maxHistoryLimit)

	resp := map[string]interface{}{"symbol": symbol}
	history, err := h.backend.RecommendationHistory(backendContext(r, h.jwtSecret), symbol, limit)
	if err != nil && !client.IsNotFound(err) {
		h.logger.Warn().Str("symbol", symbol).Err(err).Msg("recommendation history unavailable")
		resp["banner"] = views.NewBanner(views.BannerWarning, "Could not load history for "+symbol+".")
	}
	resp["history"] = views.NewRecommendationViews(history)

	WriteJSON(w, http.StatusOK, resp)
}

// onDemandRequest accepts the backend's camelCase field and the portal's
// snake_case spelling of the company name.
type onDemandRequest struct {
	Symbol         string `json:"symbol"`
	CompanyName    string `json:"companyName"`
	CompanyNameAlt string `json:"company_name"`
}

func (req onDemandRequest) companyName() string {
	if name := strings.TrimSpace(req.CompanyName); name != "" {
		return name
	}
	return strings.TrimSpace(req.CompanyNameAlt)
}

// HandleOnDemand handles POST /api/portal/recommendations/on-demand.
// The result is computed synchronously by the backend and is not persisted.
func (h *RecommendationsHandler) HandleOnDemand(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req onDemandRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if req.Symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	ctx := backendContext(r, h.jwtSecret)
	rec, err := h.backend.OnDemandRecommendation(ctx, req.Symbol, req.companyName())
	if err != nil {
		h.logger.Error().Str("symbol", req.Symbol).Err(err).Msg("on-demand recommendation failed")
		writeUpstreamError(w, err)
		return
	}
	if rec.Regime == nil {
		if reg, err := h.regimes.Get(ctx, req.Symbol); err == nil {
			rec.Regime = reg
		}
	}

	WriteJSON(w, http.StatusOK, views.NewRecommendationView(*rec))
}

// HandleGenerate handles POST /api/portal/recommendations/generate.
func (h *RecommendationsHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.backend.GenerateRecommendations(backendContext(r, h.jwtSecret))
	if err != nil {
		h.logger.Error().Err(err).Msg("bulk recommendation generation failed")
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"banner": views.NewBanner(views.BannerSuccess, "Recommendation generation started."),
	})
}

// HandleRegimes handles /api/portal/regimes.
// GET ?symbols= returns cached-or-fetched regimes; DELETE clears the cache
// (or one ?symbol=).
func (h *RecommendationsHandler) HandleRegimes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.getRegimes(w, r)
	case http.MethodDelete:
		h.clearRegimes(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *RecommendationsHandler) getRegimes(w http.ResponseWriter, r *http.Request) {
	symbols := splitSymbols(r.URL.Query().Get("symbols"))
	if len(symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "symbols is required")
		return
	}

	found, errs := h.regimes.GetMany(backendContext(r, h.jwtSecret), symbols)
	failures := make(map[string]string, len(errs))
	for sym, err := range errs {
		failures[sym] = err.Error()
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"regimes": found,
		"errors":  failures,
	})
}

func (h *RecommendationsHandler) clearRegimes(w http.ResponseWriter, r *http.Request) {
	var err error
	if sym := strings.TrimSpace(r.URL.Query().Get("symbol")); sym != "" {
		err = h.regimes.Invalidate(r.Context(), sym)
	} else {
		err = h.regimes.InvalidateAll(r.Context())
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("regime cache invalidation failed")
		WriteError(w, http.StatusInternalServerError, "failed to clear regime cache")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
