package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/poller"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// ConnectorsHandler serves the Connectors page data and its triggers.
type ConnectorsHandler struct {
	logger    *common.Logger
	backend   *client.Client
	jwtSecret []byte
	dataTask  *poller.Task
	llmTask   *poller.Task
	pollOpts  poller.Options
}

// NewConnectorsHandler creates a new connectors handler.
func NewConnectorsHandler(logger *common.Logger, backend *client.Client, jwtSecret []byte, pollOpts poller.Options) *ConnectorsHandler {
	return &ConnectorsHandler{
		logger:    logger,
		backend:   backend,
		jwtSecret: jwtSecret,
		dataTask:  poller.NewTask("connectors_refresh", logger),
		llmTask:   poller.NewTask("llm_connectors_refresh", logger),
		pollOpts:  pollOpts,
	}
}

// RefreshStatus reports both connector refresh polls.
type RefreshStatus struct {
	Data poller.Status `json:"data"`
	LLM  poller.Status `json:"llm"`
}

// ConnectorsResponse is the body of GET /api/portal/connectors.
type ConnectorsResponse struct {
	Data     views.ConnectorSection `json:"data"`
	LLM      views.ConnectorSection `json:"llm"`
	Crawlers views.CrawlerSection   `json:"crawlers"`
	Degraded bool                   `json:"degraded"`
	Refresh  RefreshStatus          `json:"refresh"`
	Banner   *views.Banner          `json:"banner,omitempty"`
}

// HandleConnectors handles GET /api/portal/connectors. A list that cannot be
// fetched is replaced by the fixed connector set and flagged degraded.
func (h *ConnectorsHandler) HandleConnectors(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	WriteJSON(w, http.StatusOK, h.load(backendContext(r, h.jwtSecret)))
}

func (h *ConnectorsHandler) load(ctx context.Context) ConnectorsResponse {
	var (
		data, llm                 []models.ConnectorStatus
		crawlers                  []models.CrawlerService
		settings                  []models.HealthCheckSetting
		dataErr, llmErr, crawlErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		data, dataErr = h.backend.ConnectorStatus(ctx)
		return nil
	})
	g.Go(func() error {
		llm, llmErr = h.backend.LLMConnectorStatus(ctx)
		return nil
	})
	g.Go(func() error {
		crawlers, crawlErr = h.backend.CrawlerServices(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		settings, err = h.backend.HealthCheckSettings(ctx)
		if err != nil {
			h.logger.Debug().Err(err).Msg("health check settings unavailable")
		}
		return nil
	})
	g.Wait()

	views.ApplyHealthChecks(data, settings)
	views.ApplyHealthChecks(llm, settings)

	resp := ConnectorsResponse{
		Data:     views.NewConnectorSection(data, dataErr, views.FallbackDataConnectors, models.KindData),
		LLM:      views.NewConnectorSection(llm, llmErr, views.FallbackLLMConnectors, models.KindLLM),
		Crawlers: views.NewCrawlerSection(crawlers, crawlErr),
		Refresh:  h.refreshStatus(),
	}
	resp.Degraded = resp.Data.Degraded || resp.LLM.Degraded || resp.Crawlers.Degraded
	if resp.Degraded {
		for _, err := range []error{dataErr, llmErr, crawlErr} {
			if err != nil {
				h.logger.Warn().Err(err).Msg("connector status unavailable, showing fallback list")
			}
		}
		resp.Banner = views.NewBanner(views.BannerWarning, "Live connector status is unavailable. Showing the default connector list.")
	}
	return resp
}

func (h *ConnectorsHandler) refreshStatus() RefreshStatus {
	return RefreshStatus{Data: h.dataTask.Status(), LLM: h.llmTask.Status()}
}

// HandleRefresh handles /api/portal/connectors/refresh.
// POST ?kind=data|llm triggers a backend health check and polls the status
// endpoint until every enabled connector has been checked since the trigger
// or the deadline passes. GET reports both polls.
func (h *ConnectorsHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		WriteJSON(w, http.StatusOK, h.refreshStatus())
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := backendContext(r, h.jwtSecret)
	kind := models.ConnectorKind(strings.ToLower(r.URL.Query().Get("kind")))
	if kind == "" {
		kind = models.KindData
	}

	var (
		task    *poller.Task
		trigger func(context.Context) (*models.TriggerResult, error)
		status  func(context.Context) ([]models.ConnectorStatus, error)
	)
	switch kind {
	case models.KindData:
		task, trigger, status = h.dataTask, h.backend.RefreshConnectors, h.backend.ConnectorStatus
	case models.KindLLM:
		task, trigger, status = h.llmTask, h.backend.RefreshLLMConnectors, h.backend.LLMConnectorStatus
	default:
		WriteError(w, http.StatusBadRequest, "kind must be data or llm")
		return
	}

	triggeredAt := time.Now()
	result, err := trigger(ctx)
	if err != nil {
		h.logger.Error().Str("kind", string(kind)).Err(err).Msg("connector refresh trigger failed")
		writeUpstreamError(w, err)
		return
	}

	task.Start(context.WithoutCancel(ctx), h.pollOpts, poller.CheckedSince(status, triggeredAt))

	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"result": result,
		"task":   task.Status(),
		"banner": views.NewBanner(views.BannerInfo, "Health check started. Statuses update as connectors respond."),
	})
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

// HandleHealthCheck handles PUT /api/portal/connectors/{name}/health-check.
func (h *ConnectorsHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "PUT") {
		return
	}
	name := strings.TrimSpace(r.PathValue("name"))
	var req enabledRequest
	if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
		WriteError(w, http.StatusBadRequest, "body must be {\"enabled\": true|false}")
		return
	}

	result, err := h.backend.SetHealthCheck(backendContext(r, h.jwtSecret), name, *req.Enabled)
	if err != nil {
		h.logger.Error().Str("connector", name).Err(err).Msg("health check toggle failed")
		writeUpstreamError(w, err)
		return
	}

	state := "disabled"
	if *req.Enabled {
		state = "enabled"
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"banner": views.NewBanner(views.BannerSuccess, "Health check "+state+" for "+name+"."),
	})
}

// HandleCrawlerSettings handles GET and PUT /api/portal/crawlers/{name}/settings.
func (h *ConnectorsHandler) HandleCrawlerSettings(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.PathValue("name"))
	ctx := backendContext(r, h.jwtSecret)

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		settings, err := h.backend.CrawlerSettings(ctx, name)
		if err != nil {
			writeUpstreamError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, settings)
	case http.MethodPut:
		var req struct {
			Enabled       *bool `json:"enabled"`
			IntervalHours int   `json:"interval_hours"`
		}
		if err := decodeJSON(r, &req); err != nil || req.Enabled == nil {
			WriteError(w, http.StatusBadRequest, "body must include enabled")
			return
		}
		result, err := h.backend.UpdateCrawlerSettings(ctx, name, models.CrawlerSettings{
			Enabled:       *req.Enabled,
			IntervalHours: req.IntervalHours,
		})
		if err != nil {
			h.logger.Error().Str("crawler", name).Err(err).Msg("crawler settings update failed")
			writeUpstreamError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"result": result,
			"banner": views.NewBanner(views.BannerSuccess, "Crawler settings saved."),
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCrawlerRun handles POST /api/portal/crawlers/{name}/run.
func (h *ConnectorsHandler) HandleCrawlerRun(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	name := strings.TrimSpace(r.PathValue("name"))

	result, err := h.backend.RunCrawler(backendContext(r, h.jwtSecret), name)
	if err != nil {
		h.logger.Error().Str("crawler", name).Err(err).Msg("crawler run trigger failed")
		writeUpstreamError(w, err)
		return
	}

	h.logger.Info().Str("crawler", name).Msg("crawler run triggered")
	WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"result": result,
		"banner": views.NewBanner(views.BannerInfo, "Crawler "+name+" started."),
	})
}

// Stop cancels any refresh poll in flight.
func (h *ConnectorsHandler) Stop() {
	h.dataTask.Stop()
	h.llmTask.Stop()
}
