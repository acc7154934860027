package models

// MarketRegime is the backend's classification of current market conditions for a symbol.
type MarketRegime struct {
	Symbol                   string   `json:"symbol,omitempty"`
	Label                    string   `json:"label"`
	RiskLevel                string   `json:"risk_level"`
	Volatility               string   `json:"volatility"`
	Trend                    string   `json:"trend"`
	Liquidity                string   `json:"liquidity"`
	InformationFlow          string   `json:"information_flow"`
	PositionSizingMultiplier float64  `json:"position_sizing_multiplier"`
	Warnings                 []string `json:"warnings,omitempty"`
}
