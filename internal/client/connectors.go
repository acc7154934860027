package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// ConnectorStatus calls GET /api/v1/connectors/status.
func (c *Client) ConnectorStatus(ctx context.Context) ([]models.ConnectorStatus, error) {
	return connectorList(ctx, c, "/api/v1/connectors/status", models.KindData)
}

// RefreshConnectors calls POST /api/v1/connectors/refresh.
func (c *Client) RefreshConnectors(ctx context.Context) (*models.TriggerResult, error) {
	return c.trigger(ctx, http.MethodPost, "/api/v1/connectors/refresh", nil)
}

// LLMConnectorStatus calls GET /api/v1/llm-connectors/status.
func (c *Client) LLMConnectorStatus(ctx context.Context) ([]models.ConnectorStatus, error) {
	return connectorList(ctx, c, "/api/v1/llm-connectors/status", models.KindLLM)
}

// RefreshLLMConnectors calls POST /api/v1/llm-connectors/refresh.
func (c *Client) RefreshLLMConnectors(ctx context.Context) (*models.TriggerResult, error) {
	return c.trigger(ctx, http.MethodPost, "/api/v1/llm-connectors/refresh", nil)
}

// HealthCheckSettings calls GET /api/v1/health-check/settings.
func (c *Client) HealthCheckSettings(ctx context.Context) ([]models.HealthCheckSetting, error) {
	return getList[models.HealthCheckSetting](ctx, c, "/api/v1/health-check/settings", nil)
}

// SetHealthCheck calls PUT /api/v1/health-check/settings/:name with {enabled}.
func (c *Client) SetHealthCheck(ctx context.Context, name string, enabled bool) (*models.TriggerResult, error) {
	if name == "" {
		return nil, errors.New("connector name is required")
	}
	body := map[string]bool{"enabled": enabled}
	return c.trigger(ctx, http.MethodPut, "/api/v1/health-check/settings/"+url.PathEscape(name), body)
}

// CrawlerServices calls GET /api/v1/crawler-services/status.
func (c *Client) CrawlerServices(ctx context.Context) ([]models.CrawlerService, error) {
	items, err := getList[models.CrawlerService](ctx, c, "/api/v1/crawler-services/status", nil)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Status = models.NormalizeConnectorState(string(items[i].Status))
	}
	return items, nil
}

// CrawlerSettings calls GET /api/v1/crawler-services/:name/settings.
func (c *Client) CrawlerSettings(ctx context.Context, name string) (*models.CrawlerSettings, error) {
	if name == "" {
		return nil, errors.New("crawler name is required")
	}
	var settings models.CrawlerSettings
	path := "/api/v1/crawler-services/" + url.PathEscape(name) + "/settings"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateCrawlerSettings calls PUT /api/v1/crawler-services/:name/settings.
func (c *Client) UpdateCrawlerSettings(ctx context.Context, name string, settings models.CrawlerSettings) (*models.TriggerResult, error) {
	if name == "" {
		return nil, errors.New("crawler name is required")
	}
	return c.trigger(ctx, http.MethodPut, "/api/v1/crawler-services/"+url.PathEscape(name)+"/settings", settings)
}

// RunCrawler calls POST /api/v1/crawler-services/:name/run.
func (c *Client) RunCrawler(ctx context.Context, name string) (*models.TriggerResult, error) {
	if name == "" {
		return nil, errors.New("crawler name is required")
	}
	return c.trigger(ctx, http.MethodPost, "/api/v1/crawler-services/"+url.PathEscape(name)+"/run", nil)
}

func connectorList(ctx context.Context, c *Client, path string, kind models.ConnectorKind) ([]models.ConnectorStatus, error) {
	items, err := getList[models.ConnectorStatus](ctx, c, path, nil)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Status = models.NormalizeConnectorState(string(items[i].Status))
		items[i].Kind = kind
	}
	return items, nil
}

// trigger performs a fire-and-acknowledge call. An empty 2xx body counts as success.
func (c *Client) trigger(ctx context.Context, method, path string, in any) (*models.TriggerResult, error) {
	result := models.TriggerResult{Success: true}
	if err := c.do(ctx, method, path, nil, in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
