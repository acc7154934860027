package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// OnDemandRecommendation calls POST /recommendations/on-demand. The answer is
// computed synchronously and not persisted by the backend.
func (c *Client) OnDemandRecommendation(ctx context.Context, symbol, companyName string) (*models.Recommendation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	in := models.OnDemandRequest{Symbol: symbol, CompanyName: strings.TrimSpace(companyName)}

	var rec models.Recommendation
	if err := c.do(ctx, http.MethodPost, "/recommendations/on-demand", nil, in, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// RecommendationHistory calls GET /recommendations/:symbol/history?limit=N.
// Entries come newest first.
func (c *Client) RecommendationHistory(ctx context.Context, symbol string, limit int) ([]models.Recommendation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	path := "/recommendations/" + url.PathEscape(symbol) + "/history"
	return getList[models.Recommendation](ctx, c, path, limitQuery(limit))
}

// GenerateRecommendations calls POST /recommendations/generate (bulk trigger).
func (c *Client) GenerateRecommendations(ctx context.Context) (*models.GenerateAllResult, error) {
	var result models.GenerateAllResult
	if err := c.do(ctx, http.MethodPost, "/recommendations/generate", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Regime calls GET /regime/:symbol.
func (c *Client) Regime(ctx context.Context, symbol string) (*models.MarketRegime, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, errors.New("symbol is required")
	}
	var regime models.MarketRegime
	if err := c.do(ctx, http.MethodGet, "/regime/"+url.PathEscape(symbol), nil, nil, &regime); err != nil {
		return nil, err
	}
	if regime.Symbol == "" {
		regime.Symbol = symbol
	}
	return &regime, nil
}
