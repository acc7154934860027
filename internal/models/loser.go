package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PercentChange is a daily percent change. The backend sends it as a string
// ("-12.50") but numbers are accepted too.
type PercentChange struct {
	decimal.Decimal
}

// NewPercentChange parses s; malformed input yields zero.
func NewPercentChange(s string) PercentChange {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return PercentChange{}
	}
	return PercentChange{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PercentChange) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		p.Decimal = decimal.Zero
		return nil
	}
	// Strip the "%" some endpoints append. Values like "N/A" decode as zero
	// so one bad row never fails the whole list.
	b = bytes.TrimSuffix(bytes.Trim(b, `"`), []byte("%"))
	*p = NewPercentChange(string(b))
	return nil
}

// MarshalJSON encodes with two decimal places as a string, matching the backend.
func (p PercentChange) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.StringFixed(2))
}

// BigCapLoser is one composite loser row: price move plus optional recommendation.
type BigCapLoser struct {
	ID                 int64           `json:"id,omitempty"`
	Symbol             string          `json:"symbol"`
	CompanyName        string          `json:"company_name,omitempty"`
	Price              float64         `json:"price"`
	PriceChange        float64         `json:"price_change"`
	PercentChange      PercentChange   `json:"percent_change"`
	MarketCap          float64         `json:"market_cap,omitempty"`
	MarketCapFormatted string          `json:"market_cap_formatted,omitempty"`
	Volume             int64           `json:"volume,omitempty"`
	Sector             string          `json:"sector,omitempty"`
	CrawledAt          Timestamp       `json:"crawled_at"`
	Recommendation     *Recommendation `json:"recommendation,omitempty"`
}

// LosersSummary is the daily aggregate for the Big Cap Losers page.
type LosersSummary struct {
	TotalLosers     int              `json:"total_losers"`
	Over10Count     int              `json:"over_10_count"`
	AverageDrop     PercentChange    `json:"average_drop"`
	BuyCount        int              `json:"buy_count"`
	SellCount       int              `json:"sell_count"`
	HoldCount       int              `json:"hold_count"`
	TopPicks        []BigCapLoser    `json:"top_picks,omitempty"`
	SectorSentiment map[string]Count `json:"sector_sentiment,omitempty"`
	GeneratedAt     Timestamp        `json:"generated_at"`
}

// Count is a per-sector tally of actions.
type Count struct {
	Buy  int `json:"buy"`
	Sell int `json:"sell"`
	Hold int `json:"hold"`
}

// RefreshStats is the stats object of a refresh answer.
type RefreshStats struct {
	BigCapLosers             int `json:"big_cap_losers"`
	RecommendationsGenerated int `json:"recommendations_generated"`
}

// RefreshResult is returned by POST /api/big-cap-losers/refresh.
type RefreshResult struct {
	Success bool         `json:"success"`
	Stats   RefreshStats `json:"stats"`
	Message string       `json:"message,omitempty"`
}

// GenerateResult is returned by POST /api/big-cap-losers/generate-recommendations.
type GenerateResult struct {
	Success   bool   `json:"success"`
	Generated int    `json:"generated"`
	Message   string `json:"message,omitempty"`
}
