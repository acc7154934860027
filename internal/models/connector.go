package models

// ConnectorState is the health state reported for a connector.
type ConnectorState string

const (
	ConnectorConnected    ConnectorState = "connected"
	ConnectorDisconnected ConnectorState = "disconnected"
	ConnectorError        ConnectorState = "error"
	ConnectorDisabled     ConnectorState = "disabled"
	ConnectorUnknown      ConnectorState = "unknown"
)

// NormalizeConnectorState maps unrecognised states to unknown.
func NormalizeConnectorState(s string) ConnectorState {
	switch st := ConnectorState(s); st {
	case ConnectorConnected, ConnectorDisconnected, ConnectorError, ConnectorDisabled:
		return st
	default:
		return ConnectorUnknown
	}
}

// ConnectorKind separates market-data connectors from LLM providers.
type ConnectorKind string

const (
	KindData ConnectorKind = "data"
	KindLLM  ConnectorKind = "llm"
)

// ConnectorStatus is the health record of one data or LLM connector.
type ConnectorStatus struct {
	Name             string         `json:"name"`
	DisplayName      string         `json:"display_name"`
	Status           ConnectorState `json:"status"`
	LastCheck        Timestamp      `json:"last_check"`
	LastSuccess      Timestamp      `json:"last_success"`
	LastError        Timestamp      `json:"last_error"`
	ErrorMessage     string         `json:"error_message,omitempty"`
	ResponseTimeMS   int64          `json:"response_time_ms,omitempty"`
	RequiresAPIKey   bool           `json:"requires_api_key"`
	APIKeyConfigured bool           `json:"api_key_configured"`
	Enabled          bool           `json:"enabled"`
	Kind             ConnectorKind  `json:"kind,omitempty"`
}

// HealthCheckSetting is the enable flag of a connector's scheduled health check.
type HealthCheckSetting struct {
	Name          string `json:"name"`
	Enabled       bool   `json:"enabled"`
	IntervalHours int    `json:"interval_hours,omitempty"`
}

// CrawlerService is the status record of a backend crawler.
type CrawlerService struct {
	Name          string         `json:"name"`
	DisplayName   string         `json:"display_name"`
	Status        ConnectorState `json:"status"`
	Enabled       bool           `json:"enabled"`
	LastRun       Timestamp      `json:"last_run"`
	NextRun       Timestamp      `json:"next_run"`
	IntervalHours int            `json:"interval_hours,omitempty"`
	LastResult    string         `json:"last_result,omitempty"`
}

// CrawlerSettings is the body of the crawler settings endpoints.
type CrawlerSettings struct {
	Enabled       bool `json:"enabled"`
	IntervalHours int  `json:"interval_hours,omitempty"`
}

// TriggerResult is the generic answer of refresh and run triggers.
type TriggerResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
