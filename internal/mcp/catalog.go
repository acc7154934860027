package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// CatalogTool describes one tool the portal exposes.
type CatalogTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Params      []CatalogParam `json:"params"`
}

// CatalogParam describes one parameter for a catalog tool.
type CatalogParam struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // string, number, boolean
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// catalog lists every tool in registration order.
var catalog = []CatalogTool{
	{
		Name:        "get_recommendation",
		Description: "Get the latest BUY/SELL/HOLD recommendation for a stock, or generate a fresh one on demand.",
		Params: []CatalogParam{
			{Name: "symbol", Type: "string", Description: "Ticker symbol, e.g. AAPL", Required: true},
			{Name: "company_name", Type: "string", Description: "Company name to improve news matching"},
			{Name: "on_demand", Type: "boolean", Description: "Generate a fresh recommendation instead of reading the latest stored one"},
		},
	},
	{
		Name:        "recommendation_history",
		Description: "List past recommendations for a stock, newest first.",
		Params: []CatalogParam{
			{Name: "symbol", Type: "string", Description: "Ticker symbol", Required: true},
			{Name: "limit", Type: "number", Description: "Maximum entries (default 10, max 100)"},
		},
	},
	{
		Name:        "big_cap_losers",
		Description: "Today's large-cap losers with their recommendations.",
		Params: []CatalogParam{
			{Name: "over_10", Type: "boolean", Description: "Only losers down 10% or more"},
		},
	},
	{
		Name:        "market_regime",
		Description: "Current market regime for one or more symbols.",
		Params: []CatalogParam{
			{Name: "symbols", Type: "string", Description: "Comma-separated ticker symbols", Required: true},
		},
	},
	{
		Name:        "connector_status",
		Description: "Health of the data connectors, LLM connectors and crawlers.",
	},
	{
		Name:        "jim_cramer_summary",
		Description: "Jim Cramer's stock mentions and sentiment for today.",
		Params: []CatalogParam{
			{Name: "limit", Type: "number", Description: "Number of recent articles (default 5)"},
		},
	},
	{
		Name:        "search_stocks",
		Description: "Search stocks by symbol or company name.",
		Params: []CatalogParam{
			{Name: "query", Type: "string", Description: "Search text", Required: true},
		},
	},
	{
		Name:        "get_version",
		Description: "Get StockRec portal and backend versions. Use this to verify connectivity.",
	},
}

// Catalog returns a copy of the tool catalog.
func Catalog() []CatalogTool {
	result := make([]CatalogTool, len(catalog))
	copy(result, catalog)
	return result
}

// BuildMCPTool converts a CatalogTool into an mcp.Tool with the appropriate schema.
func BuildMCPTool(ct CatalogTool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(ct.Description)}
	for _, p := range ct.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ct.Name, opts...)
}

// buildParamOption maps a CatalogParam to the appropriate mcp-go tool option.
func buildParamOption(p CatalogParam) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case "number":
		return mcp.WithNumber(p.Name, opts...)
	case "boolean":
		return mcp.WithBoolean(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}
