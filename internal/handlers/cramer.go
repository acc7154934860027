package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

const defaultArticleLimit = 10

// CramerHandler serves the Jim Cramer advice dashboard data.
type CramerHandler struct {
	logger    *common.Logger
	backend   *client.Client
	jwtSecret []byte
}

// NewCramerHandler creates a new Jim Cramer handler.
func NewCramerHandler(logger *common.Logger, backend *client.Client, jwtSecret []byte) *CramerHandler {
	return &CramerHandler{logger: logger, backend: backend, jwtSecret: jwtSecret}
}

// CramerResponse is the body of GET /api/portal/jim-cramer.
type CramerResponse struct {
	Summary  *models.CramerSummary  `json:"summary"`
	Mentions []models.CramerMention `json:"mentions"`
	Articles []models.CramerArticle `json:"articles"`
	Banner   *views.Banner          `json:"banner,omitempty"`
}

// ServeHTTP handles GET /api/portal/jim-cramer?limit=.
func (h *CramerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	ctx := backendContext(r, h.jwtSecret)
	limit := min(queryInt(r, "limit", defaultArticleLimit), 50)

	var (
		resp                 CramerResponse
		sumErr, menErr, aErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		resp.Summary, sumErr = h.backend.CramerSummary(ctx)
		return nil
	})
	g.Go(func() error {
		resp.Mentions, menErr = h.backend.CramerMentionsToday(ctx)
		return nil
	})
	g.Go(func() error {
		resp.Articles, aErr = h.backend.CramerRecentArticles(ctx, limit)
		return nil
	})
	g.Wait()

	if resp.Mentions == nil {
		resp.Mentions = []models.CramerMention{}
	}
	if resp.Articles == nil {
		resp.Articles = []models.CramerArticle{}
	}

	failed := false
	for _, err := range []error{sumErr, menErr, aErr} {
		if err != nil && !client.IsNotFound(err) {
			failed = true
			h.logger.Warn().Err(err).Msg("jim cramer fetch failed")
		}
	}
	if failed {
		resp.Banner = views.NewBanner(views.BannerWarning, "Some Jim Cramer data could not be loaded.")
	}

	WriteJSON(w, http.StatusOK, resp)
}
