package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/regime"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// maxHistory caps recommendation_history.
const maxHistory = 100

// Tools holds the dependencies every tool handler shares.
type Tools struct {
	backend *client.Client
	regimes *regime.Service
	logger  *common.Logger
}

// NewServer builds an MCP server with every catalog tool registered.
func NewServer(backend *client.Client, regimes *regime.Service, logger *common.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		"stockrec-portal",
		config.GetVersion(),
		server.WithToolCapabilities(true),
	)
	t := &Tools{backend: backend, regimes: regimes, logger: logger}
	n := t.Register(s)
	logger.Info().Int("tools", n).Msg("MCP tools registered")
	return s
}

// Register adds every catalog tool to s and returns the count.
func (t *Tools) Register(s *server.MCPServer) int {
	handlers := map[string]server.ToolHandlerFunc{
		"get_recommendation":     t.getRecommendation,
		"recommendation_history": t.recommendationHistory,
		"big_cap_losers":         t.bigCapLosers,
		"market_regime":          t.marketRegime,
		"connector_status":       t.connectorStatus,
		"jim_cramer_summary":     t.cramerSummary,
		"search_stocks":          t.searchStocks,
		"get_version":            VersionToolHandler(t.backend),
	}
	n := 0
	for _, ct := range catalog {
		h, ok := handlers[ct.Name]
		if !ok {
			continue
		}
		s.AddTool(BuildMCPTool(ct), h)
		n++
	}
	return n
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}
}

func symbolArg(r mcp.CallToolRequest, name string) string {
	return strings.ToUpper(strings.TrimSpace(r.GetString(name, "")))
}

func (t *Tools) getRecommendation(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol := symbolArg(r, "symbol")
	if symbol == "" {
		return errorResult("Error: symbol parameter is required"), nil
	}
	ctx = backendContext(ctx)

	var rec *models.Recommendation
	if r.GetBool("on_demand", false) {
		fresh, err := t.backend.OnDemandRecommendation(ctx, symbol, r.GetString("company_name", ""))
		if err != nil {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		rec = fresh
	} else {
		history, err := t.backend.RecommendationHistory(ctx, symbol, 1)
		if err != nil && !client.IsNotFound(err) {
			return errorResult(fmt.Sprintf("Error: %v", err)), nil
		}
		if len(history) == 0 {
			return textResult(fmt.Sprintf("No stored recommendation for %s yet. Call get_recommendation with on_demand=true to generate one.", symbol)), nil
		}
		rec = &history[0]
	}

	if rec.Regime == nil {
		if reg, err := t.regimes.Get(ctx, symbol); err == nil {
			rec.Regime = reg
		}
	}
	return textResult(FormatRecommendation(views.NewRecommendationView(*rec))), nil
}

func (t *Tools) recommendationHistory(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	symbol := symbolArg(r, "symbol")
	if symbol == "" {
		return errorResult("Error: symbol parameter is required"), nil
	}
	limit := min(max(r.GetInt("limit", 10), 1), maxHistory)

	history, err := t.backend.RecommendationHistory(backendContext(ctx), symbol, limit)
	if err != nil && !client.IsNotFound(err) {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	return textResult(FormatHistory(symbol, views.NewRecommendationViews(history))), nil
}

func (t *Tools) bigCapLosers(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = backendContext(ctx)

	var (
		all, over10 []models.BigCapLoser
		summary     *models.LosersSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = t.backend.LosersWithRecommendations(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		over10, err = t.backend.Over10Losers(gctx)
		return err
	})
	g.Go(func() error {
		s, err := t.backend.LosersSummary(gctx)
		if err == nil {
			summary = s
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}

	view := views.SplitLosers(all, over10)
	return textResult(FormatLosers(view, summary, r.GetBool("over_10", false))), nil
}

func (t *Tools) marketRegime(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var symbols []string
	for _, s := range strings.FieldsFunc(r.GetString("symbols", ""), func(c rune) bool { return c == ',' || c == ' ' }) {
		symbols = append(symbols, strings.ToUpper(s))
	}
	if len(symbols) == 0 {
		return errorResult("Error: symbols parameter is required"), nil
	}

	regimes, errs := t.regimes.GetMany(backendContext(ctx), symbols)
	return textResult(FormatRegimes(symbols, regimes, errs)), nil
}

func (t *Tools) connectorStatus(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = backendContext(ctx)

	var (
		data, llm       []models.ConnectorStatus
		crawlers        []models.CrawlerService
		dataErr, llmErr error
		crawlErr        error
	)
	var g errgroup.Group
	g.Go(func() error { data, dataErr = t.backend.ConnectorStatus(ctx); return nil })
	g.Go(func() error { llm, llmErr = t.backend.LLMConnectorStatus(ctx); return nil })
	g.Go(func() error { crawlers, crawlErr = t.backend.CrawlerServices(ctx); return nil })
	g.Wait()

	return textResult(FormatConnectors(
		views.NewConnectorSection(data, dataErr, views.FallbackDataConnectors, models.KindData),
		views.NewConnectorSection(llm, llmErr, views.FallbackLLMConnectors, models.KindLLM),
		views.NewCrawlerSection(crawlers, crawlErr),
	)), nil
}

func (t *Tools) cramerSummary(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = backendContext(ctx)
	limit := min(max(r.GetInt("limit", 5), 1), 50)

	var (
		summary  *models.CramerSummary
		mentions []models.CramerMention
		articles []models.CramerArticle
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := t.backend.CramerSummary(gctx)
		if err != nil && !client.IsNotFound(err) {
			return err
		}
		summary = s
		return nil
	})
	g.Go(func() error {
		var err error
		mentions, err = t.backend.CramerMentionsToday(gctx)
		if client.IsNotFound(err) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		articles, err = t.backend.CramerRecentArticles(gctx, limit)
		if client.IsNotFound(err) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	return textResult(FormatCramer(summary, mentions, articles)), nil
}

func (t *Tools) searchStocks(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(r.GetString("query", ""))
	if query == "" {
		return errorResult("Error: query parameter is required"), nil
	}
	results, err := t.backend.SearchStocks(backendContext(ctx), query)
	if err != nil {
		var ue *client.UpstreamError
		if errors.As(err, &ue) {
			return errorResult(fmt.Sprintf("Error: search failed (HTTP %d)", ue.Status)), nil
		}
		return errorResult(fmt.Sprintf("Error: %v", err)), nil
	}
	return textResult(FormatSearch(query, results)), nil
}
