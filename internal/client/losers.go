package client

import (
	"context"
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// LosersWithRecommendations calls GET /api/big-cap-losers/with-recommendations.
func (c *Client) LosersWithRecommendations(ctx context.Context) ([]models.BigCapLoser, error) {
	return getList[models.BigCapLoser](ctx, c, "/api/big-cap-losers/with-recommendations", nil)
}

// LatestLosers calls GET /api/big-cap-losers/latest.
func (c *Client) LatestLosers(ctx context.Context) ([]models.BigCapLoser, error) {
	return getList[models.BigCapLoser](ctx, c, "/api/big-cap-losers/latest", nil)
}

// Over10Losers calls GET /api/big-cap-losers/over-10.
func (c *Client) Over10Losers(ctx context.Context) ([]models.BigCapLoser, error) {
	return getList[models.BigCapLoser](ctx, c, "/api/big-cap-losers/over-10", nil)
}

// LosersSummary calls GET /api/big-cap-losers/summary.
func (c *Client) LosersSummary(ctx context.Context) (*models.LosersSummary, error) {
	var summary models.LosersSummary
	if err := c.do(ctx, http.MethodGet, "/api/big-cap-losers/summary", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// RefreshLosers calls POST /api/big-cap-losers/refresh, which triggers a crawl
// plus recommendation generation on the backend.
func (c *Client) RefreshLosers(ctx context.Context) (*models.RefreshResult, error) {
	var result models.RefreshResult
	if err := c.do(ctx, http.MethodPost, "/api/big-cap-losers/refresh", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateLoserRecommendations calls POST /api/big-cap-losers/generate-recommendations.
func (c *Client) GenerateLoserRecommendations(ctx context.Context) (*models.GenerateResult, error) {
	var result models.GenerateResult
	if err := c.do(ctx, http.MethodPost, "/api/big-cap-losers/generate-recommendations", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
