package server

import (
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	pages := s.app.PageHandler

	// UI page routes (HTML templates)
	mux.HandleFunc("/{$}", pages.ServePage("home.html", "home"))
	mux.HandleFunc("/pricing", pages.ServePageWith("pricing.html", "pricing", pages.PricingData))
	mux.HandleFunc("/faq", pages.ServePageWith("faq.html", "faq", pages.FAQData))
	mux.HandleFunc("/terms", pages.ServePage("terms.html", "terms"))
	mux.HandleFunc("/privacy", pages.ServePage("privacy.html", "privacy"))
	mux.HandleFunc("/risk-disclosure", pages.ServePage("risk-disclosure.html", "risk-disclosure"))
	mux.HandleFunc("/big-cap-losers", pages.ServePage("big-cap-losers.html", "big-cap-losers"))
	mux.HandleFunc("/recommendations", pages.ServePage("recommendations.html", "recommendations"))
	mux.HandleFunc("/recommendations/new", pages.ServePageWith("new-recommendation.html", "new-recommendation", pages.SymbolData))
	mux.HandleFunc("/jim-cramer", pages.ServePage("jim-cramer.html", "jim-cramer"))
	mux.HandleFunc("/connectors", pages.ServePage("connectors.html", "connectors"))
	mux.HandleFunc("/error", pages.ServePageWith("error.html", "error", pages.ErrorData))
	mux.HandleFunc("/mcp-info", pages.RequireSession(
		pages.ServePageWith("mcp.html", "mcp", handlers.MCPPageData(s.app.Config.BaseURL()+"/mcp", s.app.MCPCatalog)),
	))
	mux.HandleFunc("/", s.handlePageNotFound)

	// Static files (CSS, JS, images)
	mux.HandleFunc("/static/", pages.StaticFileHandler)

	// MCP endpoint (streamable HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Portal JSON routes
	losers := s.app.LosersHandler
	mux.HandleFunc("/api/portal/losers", losers.HandleLosers)
	mux.HandleFunc("/api/portal/losers/refresh", losers.HandleRefresh)
	mux.HandleFunc("/api/portal/losers/generate", losers.HandleGenerate)

	recs := s.app.RecommendationsHandler
	mux.HandleFunc("/api/portal/recommendations", recs.HandleList)
	mux.HandleFunc("/api/portal/recommendations/{symbol}/history", recs.HandleHistory)
	mux.HandleFunc("/api/portal/recommendations/on-demand", recs.HandleOnDemand)
	mux.HandleFunc("/api/portal/recommendations/generate", recs.HandleGenerate)
	mux.HandleFunc("/api/portal/regimes", recs.HandleRegimes)
	mux.HandleFunc("/api/portal/watchlist", s.app.WatchlistHandler.ServeHTTP)

	mux.HandleFunc("/api/portal/jim-cramer", s.app.CramerHandler.ServeHTTP)

	conns := s.app.ConnectorsHandler
	mux.HandleFunc("/api/portal/connectors", conns.HandleConnectors)
	mux.HandleFunc("/api/portal/connectors/refresh", conns.HandleRefresh)
	mux.HandleFunc("/api/portal/connectors/{name}/health-check", conns.HandleHealthCheck)
	mux.HandleFunc("/api/portal/crawlers/{name}/settings", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceItem(w, r, conns.HandleCrawlerSettings, conns.HandleCrawlerSettings, nil)
	})
	mux.HandleFunc("/api/portal/crawlers/{name}/run", func(w http.ResponseWriter, r *http.Request) {
		RouteResourceCollection(w, r, nil, conns.HandleCrawlerRun)
	})

	content := s.app.ContentHandler
	mux.HandleFunc("/api/portal/faq", content.HandleFAQ)
	mux.HandleFunc("/api/portal/pricing", content.HandlePricing)
	mux.HandleFunc("/api/portal/stocks/search", s.app.StocksHandler.ServeHTTP)
	mux.HandleFunc("/api/portal/alerts", s.app.AlertsHandler.HandleRecent)
	mux.HandleFunc("/api/portal/alerts/stream", s.app.AlertsHandler.HandleStream)

	// Auth
	mux.HandleFunc("/api/auth/google", s.app.AuthHandler.HandleGoogleLogin)
	mux.HandleFunc("/api/auth/logout", s.app.AuthHandler.HandleLogout)

	// Service routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
	mux.HandleFunc("/api/server-health", s.app.ServerHealthHandler.ServeHTTP)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found","message":"The requested endpoint does not exist"}`))
}

// handlePageNotFound sends unknown page paths to the error page.
func (s *Server) handlePageNotFound(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/error?reason=not_found", http.StatusFound)
}
