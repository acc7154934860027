package views

import (
	"strconv"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// Placeholder is shown when a value is absent.
const Placeholder = "—"

// Badge is a label plus its CSS classes.
type Badge struct {
	Label string `json:"label"`
	Class string `json:"class"`
}

var neutralBadge = Badge{Label: Placeholder, Class: "text-gray-500 bg-gray-100"}

// ActionBadge depends only on the action: BUY green, SELL red, HOLD yellow,
// anything else the neutral placeholder.
func ActionBadge(action models.Action) Badge {
	switch models.NormalizeAction(string(action)) {
	case models.ActionBuy:
		return Badge{Label: "BUY", Class: "text-green-800 bg-green-100"}
	case models.ActionSell:
		return Badge{Label: "SELL", Class: "text-red-800 bg-red-100"}
	case models.ActionHold:
		return Badge{Label: "HOLD", Class: "text-yellow-800 bg-yellow-100"}
	default:
		return neutralBadge
	}
}

// ConfidenceBadge buckets a [0,1] confidence into high/medium/low.
func ConfidenceBadge(confidence float64) Badge {
	label := strconv.Itoa(ScorePercent(confidence)) + "%"
	switch {
	case confidence >= 0.7:
		return Badge{Label: "High " + label, Class: "text-green-700 bg-green-50"}
	case confidence >= 0.4:
		return Badge{Label: "Medium " + label, Class: "text-yellow-700 bg-yellow-50"}
	case confidence > 0:
		return Badge{Label: "Low " + label, Class: "text-red-700 bg-red-50"}
	default:
		return neutralBadge
	}
}

// RegimeBadge colours a regime by its risk level.
func RegimeBadge(regime *models.MarketRegime) Badge {
	if regime == nil || regime.Label == "" {
		return neutralBadge
	}
	label := strings.ReplaceAll(regime.Label, "_", " ")
	switch strings.ToLower(regime.RiskLevel) {
	case "low":
		return Badge{Label: label, Class: "text-green-700 bg-green-100"}
	case "medium", "moderate":
		return Badge{Label: label, Class: "text-yellow-700 bg-yellow-100"}
	case "high":
		return Badge{Label: label, Class: "text-orange-700 bg-orange-100"}
	case "extreme", "very_high", "critical":
		return Badge{Label: label, Class: "text-red-700 bg-red-100"}
	default:
		return Badge{Label: label, Class: "text-gray-700 bg-gray-100"}
	}
}

// ConnectorBadge colours a connector or crawler state.
func ConnectorBadge(state models.ConnectorState) Badge {
	switch models.NormalizeConnectorState(string(state)) {
	case models.ConnectorConnected:
		return Badge{Label: "Connected", Class: "text-green-700 bg-green-100"}
	case models.ConnectorDisconnected:
		return Badge{Label: "Disconnected", Class: "text-yellow-700 bg-yellow-100"}
	case models.ConnectorError:
		return Badge{Label: "Error", Class: "text-red-700 bg-red-100"}
	case models.ConnectorDisabled:
		return Badge{Label: "Disabled", Class: "text-gray-500 bg-gray-100"}
	default:
		return Badge{Label: "Unknown", Class: "text-gray-700 bg-gray-100"}
	}
}
