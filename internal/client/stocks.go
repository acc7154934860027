package client

import (
	"context"
	"net/url"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// SearchStocks calls GET /api/stocks/search?q=. A blank query returns no results
// without a backend round-trip.
func (c *Client) SearchStocks(ctx context.Context, query string) ([]models.StockSearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.StockSearchResult{}, nil
	}
	return getList[models.StockSearchResult](ctx, c, "/api/stocks/search", url.Values{"q": {query}})
}
