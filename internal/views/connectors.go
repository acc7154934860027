package views

import (
	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// DataSource says where a connector section came from.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// Fixed connector set shown when the backend cannot be reached.
var (
	FallbackDataConnectors = []models.ConnectorStatus{
		{Name: "alpha_vantage", DisplayName: "Alpha Vantage", RequiresAPIKey: true},
		{Name: "finnhub", DisplayName: "Finnhub", RequiresAPIKey: true},
		{Name: "polygon", DisplayName: "Polygon.io", RequiresAPIKey: true},
		{Name: "yahoo_finance", DisplayName: "Yahoo Finance"},
		{Name: "news_api", DisplayName: "NewsAPI", RequiresAPIKey: true},
	}
	FallbackLLMConnectors = []models.ConnectorStatus{
		{Name: "openai", DisplayName: "OpenAI", RequiresAPIKey: true},
		{Name: "anthropic", DisplayName: "Anthropic", RequiresAPIKey: true},
		{Name: "gemini", DisplayName: "Google Gemini", RequiresAPIKey: true},
	}
	FallbackCrawlers = []models.CrawlerService{
		{Name: "jim_cramer", DisplayName: "Jim Cramer News Crawler"},
		{Name: "big_cap_losers", DisplayName: "Big Cap Losers Crawler"},
	}
)

// ConnectorRow is a connector decorated for display.
type ConnectorRow struct {
	models.ConnectorStatus
	Badge Badge `json:"badge"`
}

// CrawlerRow is a crawler service decorated for display.
type CrawlerRow struct {
	models.CrawlerService
	Badge Badge `json:"badge"`
}

// StatusUnavailable is shown in place of a failed status fetch. The upstream
// error is logged, not sent to the browser.
const StatusUnavailable = "Live status is unavailable right now."

// ConnectorSection is one list on the Connectors page. Degraded is set when
// the fixed fallback list was substituted for live data.
type ConnectorSection struct {
	Items    []ConnectorRow `json:"items"`
	Source   DataSource     `json:"source"`
	Degraded bool           `json:"degraded"`
	Error    string         `json:"error,omitempty"`
}

// CrawlerSection is the crawler services list.
type CrawlerSection struct {
	Items    []CrawlerRow `json:"items"`
	Source   DataSource   `json:"source"`
	Degraded bool         `json:"degraded"`
	Error    string       `json:"error,omitempty"`
}

// NewConnectorSection builds a section from a live fetch, falling back to
// the fixed list with every state unknown when err is set.
func NewConnectorSection(live []models.ConnectorStatus, err error, fallback []models.ConnectorStatus, kind models.ConnectorKind) ConnectorSection {
	sec := ConnectorSection{Source: SourceLive}
	items := live
	if err != nil {
		sec.Source = SourceFallback
		sec.Degraded = true
		sec.Error = StatusUnavailable
		items = make([]models.ConnectorStatus, len(fallback))
		copy(items, fallback)
		for i := range items {
			items[i].Status = models.ConnectorUnknown
			items[i].Kind = kind
		}
	}
	sec.Items = make([]ConnectorRow, 0, len(items))
	for _, c := range items {
		sec.Items = append(sec.Items, ConnectorRow{ConnectorStatus: c, Badge: ConnectorBadge(c.Status)})
	}
	return sec
}

// NewCrawlerSection is NewConnectorSection for crawler services.
func NewCrawlerSection(live []models.CrawlerService, err error) CrawlerSection {
	sec := CrawlerSection{Source: SourceLive}
	items := live
	if err != nil {
		sec.Source = SourceFallback
		sec.Degraded = true
		sec.Error = StatusUnavailable
		items = make([]models.CrawlerService, len(FallbackCrawlers))
		copy(items, FallbackCrawlers)
		for i := range items {
			items[i].Status = models.ConnectorUnknown
		}
	}
	sec.Items = make([]CrawlerRow, 0, len(items))
	for _, c := range items {
		sec.Items = append(sec.Items, CrawlerRow{CrawlerService: c, Badge: ConnectorBadge(c.Status)})
	}
	return sec
}

// ApplyHealthChecks overlays health-check enabled flags onto connectors.
func ApplyHealthChecks(items []models.ConnectorStatus, settings []models.HealthCheckSetting) {
	enabled := make(map[string]bool, len(settings))
	for _, s := range settings {
		enabled[s.Name] = s.Enabled
	}
	for i := range items {
		if v, ok := enabled[items[i].Name]; ok {
			items[i].Enabled = v
		}
	}
}
