package handlers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/poller"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// LosersHandler serves the Big Cap Losers dashboard data.
type LosersHandler struct {
	logger    *common.Logger
	backend   *client.Client
	jwtSecret []byte
	refresh   *poller.Task
	pollOpts  poller.Options
}

// NewLosersHandler creates a new losers handler. pollOpts bounds the
// post-refresh poll.
func NewLosersHandler(logger *common.Logger, backend *client.Client, jwtSecret []byte, pollOpts poller.Options) *LosersHandler {
	return &LosersHandler{
		logger:    logger,
		backend:   backend,
		jwtSecret: jwtSecret,
		refresh:   poller.NewTask("losers_refresh", logger),
		pollOpts:  pollOpts,
	}
}

// LosersResponse is the body of GET /api/portal/losers.
type LosersResponse struct {
	views.LosersView
	Summary *models.LosersSummary `json:"summary"`
	Refresh poller.Status         `json:"refresh"`
	Banner  *views.Banner         `json:"banner,omitempty"`
}

// HandleLosers handles GET /api/portal/losers. The three backend reads run
// concurrently; each one that fails degrades to empty data and a banner.
func (h *LosersHandler) HandleLosers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	ctx := backendContext(r, h.jwtSecret)

	var (
		all, over10         []models.BigCapLoser
		summary             *models.LosersSummary
		allErr, o10Err, sErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		all, allErr = h.backend.LosersWithRecommendations(ctx)
		if allErr != nil && !client.IsNotFound(allErr) {
			h.logger.Warn().Err(allErr).Msg("losers with recommendations unavailable, trying latest")
			all, allErr = h.backend.LatestLosers(ctx)
		}
		return nil
	})
	g.Go(func() error {
		over10, o10Err = h.backend.Over10Losers(ctx)
		return nil
	})
	g.Go(func() error {
		summary, sErr = h.backend.LosersSummary(ctx)
		return nil
	})
	g.Wait()

	resp := LosersResponse{
		LosersView: views.SplitLosers(all, over10),
		Summary:    summary,
		Refresh:    h.refresh.Status(),
	}

	failed := 0
	for _, err := range []error{allErr, o10Err, sErr} {
		if err != nil {
			failed++
			h.logger.Warn().Err(err).Msg("losers dashboard fetch failed")
		}
	}
	switch {
	case failed == 3:
		resp.Banner = views.NewBanner(views.BannerError, "Could not load Big Cap Losers. Showing no data.")
	case failed > 0:
		resp.Banner = views.NewBanner(views.BannerWarning, "Some Big Cap Losers data could not be loaded.")
	}

	WriteJSON(w, http.StatusOK, resp)
}

// HandleRefresh handles /api/portal/losers/refresh.
// POST triggers a crawl and starts polling the summary until its generated_at
// moves; GET reports the poll.
func (h *LosersHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		WriteJSON(w, http.StatusOK, h.refresh.Status())
	case http.MethodPost:
		h.startRefresh(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LosersHandler) startRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := backendContext(r, h.jwtSecret)

	var baseline models.Timestamp
	if s, err := h.backend.LosersSummary(ctx); err == nil {
		baseline = s.GeneratedAt
	}

	result, err := h.backend.RefreshLosers(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("losers refresh trigger failed")
		writeUpstreamError(w, err)
		return
	}

	h.refresh.Start(context.WithoutCancel(ctx), h.pollOpts, poller.SummaryChanged(h.backend.LosersSummary, baseline.Time))

	h.logger.Info().
		Int("big_cap_losers", result.Stats.BigCapLosers).
		Int("recommendations_generated", result.Stats.RecommendationsGenerated).
		Msg("losers refresh triggered")

	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"result": result,
		"task":   h.refresh.Status(),
		"banner": views.NewBanner(views.BannerInfo, "Refreshing Big Cap Losers. This can take a few minutes."),
	})
}

// HandleGenerate handles POST /api/portal/losers/generate.
func (h *LosersHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	result, err := h.backend.GenerateLoserRecommendations(backendContext(r, h.jwtSecret))
	if err != nil {
		h.logger.Error().Err(err).Msg("loser recommendation generation failed")
		writeUpstreamError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"banner": views.NewBanner(views.BannerSuccess, "Recommendation generation started."),
	})
}

// Stop cancels any refresh poll in flight.
func (h *LosersHandler) Stop() {
	h.refresh.Stop()
}
