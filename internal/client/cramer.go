package client

import (
	"context"
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// CramerSummary calls GET /api/jim-cramer/summary/latest.
func (c *Client) CramerSummary(ctx context.Context) (*models.CramerSummary, error) {
	var summary models.CramerSummary
	if err := c.do(ctx, http.MethodGet, "/api/jim-cramer/summary/latest", nil, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// CramerMentionsToday calls GET /api/jim-cramer/mentions/today.
func (c *Client) CramerMentionsToday(ctx context.Context) ([]models.CramerMention, error) {
	return getList[models.CramerMention](ctx, c, "/api/jim-cramer/mentions/today", nil)
}

// CramerRecentArticles calls GET /api/jim-cramer/articles/recent?limit=N.
func (c *Client) CramerRecentArticles(ctx context.Context, limit int) ([]models.CramerArticle, error) {
	return getList[models.CramerArticle](ctx, c, "/api/jim-cramer/articles/recent", limitQuery(limit))
}
