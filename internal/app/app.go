package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/alerts"
	"github.com/bobmcallan/stockrec-portal/internal/cache"
	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/handlers"
	"github.com/bobmcallan/stockrec-portal/internal/interfaces"
	"github.com/bobmcallan/stockrec-portal/internal/mcp"
	"github.com/bobmcallan/stockrec-portal/internal/poller"
	"github.com/bobmcallan/stockrec-portal/internal/regime"
	"github.com/bobmcallan/stockrec-portal/internal/storage"
	"github.com/bobmcallan/stockrec-portal/internal/views"
	"github.com/bobmcallan/stockrec-portal/internal/watchlist"
)

// alertHistory is how many alerts the broker replays to late subscribers.
const alertHistory = 20

// catalogAdapter converts MCP catalog tools to MCP page display tools.
func catalogAdapter(mcpHandler *mcp.Handler) func() []handlers.MCPPageTool {
	return func() []handlers.MCPPageTool {
		if mcpHandler == nil {
			return nil
		}
		catalog := mcpHandler.Catalog()
		tools := make([]handlers.MCPPageTool, len(catalog))
		for i, ct := range catalog {
			tools[i] = handlers.MCPPageTool{
				Name:        ct.Name,
				Description: ct.Description,
			}
		}
		return tools
	}
}

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Backend  *client.Client
	Cache    cache.Store
	Regimes  *regime.Service
	Storage  interfaces.StorageManager
	Broker   *alerts.Broker
	Monitor  *alerts.Monitor
	FAQ      *views.FAQ
	Pricing  *views.Pricing
	cancel   context.CancelFunc
	mcpCatFn func() []handlers.MCPPageTool

	// HTTP handlers
	PageHandler            *handlers.PageHandler
	HealthHandler          *handlers.HealthHandler
	VersionHandler         *handlers.VersionHandler
	ServerHealthHandler    *handlers.ServerHealthHandler
	AuthHandler            *handlers.AuthHandler
	LosersHandler          *handlers.LosersHandler
	RecommendationsHandler *handlers.RecommendationsHandler
	WatchlistHandler       *handlers.WatchlistHandler
	CramerHandler          *handlers.CramerHandler
	ConnectorsHandler      *handlers.ConnectorsHandler
	ContentHandler         *handlers.ContentHandler
	StocksHandler          *handlers.StocksHandler
	AlertsHandler          *handlers.AlertsHandler
	MCPHandler             *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		Config: cfg,
		Logger: logger,
		cancel: cancel,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("Running in dev mode, session cookies are not marked Secure")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("Unrecognized environment value, defaulting to prod behavior")
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("auth.jwt_secret is empty, session signatures are not verified")
	}

	if err := a.initServices(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.initHandlers()

	a.Monitor.Start(ctx)

	logger.Info().Msg("Application initialization complete")
	return a, nil
}

// initServices builds the backend client, caches, storage and alerting.
func (a *App) initServices(ctx context.Context) error {
	cfg := a.Config

	a.Backend = client.New(cfg.API.URL, client.WithTimeout(cfg.API.GetTimeout()))

	a.Cache = cache.New(ctx, cache.Options{
		Backend:    cfg.Cache.Backend,
		RedisURL:   cfg.Cache.RedisURL,
		MaxEntries: cfg.Cache.MaxEntries,
	}, a.Logger)
	a.Regimes = regime.NewService(a.Backend, a.Cache, cfg.Cache.GetRegimeTTL(), cfg.Fetch.RegimeConcurrency, a.Logger)

	store, err := storage.NewStorageManager(a.Logger, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.Storage = store

	faq, err := views.LoadFAQ()
	if err != nil {
		return fmt.Errorf("failed to load FAQ: %w", err)
	}
	pricing, err := views.LoadPricing()
	if err != nil {
		return fmt.Errorf("failed to load pricing: %w", err)
	}
	a.FAQ, a.Pricing = faq, pricing

	a.Broker = alerts.NewBroker(alertHistory)
	tracker := alerts.NewTracker(store.KeyValueStorage())
	a.Monitor = alerts.NewMonitor(a.Backend, tracker, a.Broker, cfg.Poll.GetMonitorInterval(), a.Logger)

	a.Logger.Debug().
		Str("api_url", cfg.API.URL).
		Str("storage", store.Backend()).
		Msg("Services initialized")
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	cfg := a.Config
	jwtSecret := []byte(cfg.Auth.JWTSecret)
	secureCookie := !cfg.IsDevMode()

	a.PageHandler = handlers.NewPageHandler(a.Logger, cfg.IsDevMode(), jwtSecret, cfg.Auth.GoogleClientID, a.FAQ, a.Pricing)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ServerHealthHandler = handlers.NewServerHealthHandler(a.Logger, a.Backend)
	a.AuthHandler = handlers.NewAuthHandler(a.Logger, a.Backend, secureCookie)

	a.LosersHandler = handlers.NewLosersHandler(a.Logger, a.Backend, jwtSecret, poller.Options{
		Interval: cfg.Poll.GetInterval(),
		MaxWait:  cfg.Poll.GetLosersMaxWait(),
	})
	a.ConnectorsHandler = handlers.NewConnectorsHandler(a.Logger, a.Backend, jwtSecret, poller.Options{
		Interval: cfg.Poll.GetInterval(),
		MaxWait:  cfg.Poll.GetConnectorsMaxWait(),
	})

	watchlists := watchlist.NewStore(a.Storage.KeyValueStorage())
	a.RecommendationsHandler = handlers.NewRecommendationsHandler(a.Logger, a.Backend, a.Regimes, watchlists, jwtSecret, cfg.Fetch.RegimeConcurrency)
	a.WatchlistHandler = handlers.NewWatchlistHandler(a.Logger, watchlists, jwtSecret)
	a.CramerHandler = handlers.NewCramerHandler(a.Logger, a.Backend, jwtSecret)
	a.ContentHandler = handlers.NewContentHandler(a.FAQ, a.Pricing)
	a.StocksHandler = handlers.NewStocksHandler(a.Logger, a.Backend, jwtSecret)
	a.AlertsHandler = handlers.NewAlertsHandler(a.Logger, a.Broker)

	mcpServer := mcp.NewServer(a.Backend, a.Regimes, a.Logger)
	a.MCPHandler = mcp.NewHandler(mcpServer, jwtSecret, a.Logger)
	a.mcpCatFn = catalogAdapter(a.MCPHandler)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// MCPCatalog lists the MCP tools for display.
func (a *App) MCPCatalog() []handlers.MCPPageTool {
	if a.mcpCatFn == nil {
		return nil
	}
	return a.mcpCatFn()
}

// Close stops background work and releases resources.
func (a *App) Close() error {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Monitor != nil {
		a.Monitor.Stop()
	}
	if a.Broker != nil {
		a.Broker.Close()
	}
	if a.LosersHandler != nil {
		a.LosersHandler.Stop()
	}
	if a.ConnectorsHandler != nil {
		a.ConnectorsHandler.Stop()
	}

	var firstErr error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close cache")
			firstErr = err
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
