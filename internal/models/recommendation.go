package models

import "strings"

// Action is the recommended trade direction.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// NormalizeAction upper-cases and validates an action. Unknown values map to "".
func NormalizeAction(s string) Action {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case ActionBuy, ActionSell, ActionHold:
		return a
	default:
		return ""
	}
}

// Recommendation is one AI trading recommendation produced by the backend.
type Recommendation struct {
	ID                     int64           `json:"id,omitempty"`
	Symbol                 string          `json:"symbol"`
	CompanyName            string          `json:"company_name,omitempty"`
	Action                 Action          `json:"action"`
	Score                  float64         `json:"score"`
	NormalizedScore        float64         `json:"normalized_score"`
	Confidence             float64         `json:"confidence"`
	NewsSentimentScore     float64         `json:"news_sentiment_score"`
	NewsMomentumScore      float64         `json:"news_momentum_score"`
	TechnicalTrendScore    float64         `json:"technical_trend_score"`
	TechnicalMomentumScore float64         `json:"technical_momentum_score"`
	PriceAtRecommendation  float64         `json:"price_at_recommendation"`
	Explanation            *Explanation    `json:"explanation,omitempty"`
	GeneratedAt            Timestamp       `json:"generated_at"`
	Regime                 *MarketRegime   `json:"regime,omitempty"`
	SignalWeights          *SignalWeights  `json:"signalWeights,omitempty"`
}

// ComponentScores groups the four component scores for display.
type ComponentScores struct {
	NewsSentiment     float64 `json:"news_sentiment"`
	NewsMomentum      float64 `json:"news_momentum"`
	TechnicalTrend    float64 `json:"technical_trend"`
	TechnicalMomentum float64 `json:"technical_momentum"`
}

// ComponentScores returns the component scores as a group.
func (r *Recommendation) ComponentScores() ComponentScores {
	return ComponentScores{
		NewsSentiment:     r.NewsSentimentScore,
		NewsMomentum:      r.NewsMomentumScore,
		TechnicalTrend:    r.TechnicalTrendScore,
		TechnicalMomentum: r.TechnicalMomentumScore,
	}
}

// Explanation is the free-form AI explanation attached to a recommendation.
type Explanation struct {
	Summary        string          `json:"summary"`
	Factors        []string        `json:"factors,omitempty"`
	RecentArticles []NewsArticle   `json:"recent_articles,omitempty"`
	News           *NewsDetail     `json:"news,omitempty"`
	Technical      *TechnicalBrief `json:"technical,omitempty"`
}

// NewsArticle is a source article cited in an explanation.
type NewsArticle struct {
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Source      string    `json:"source,omitempty"`
	Sentiment   float64   `json:"sentiment,omitempty"`
	PublishedAt Timestamp `json:"published_at"`
}

// NewsDetail is the news sub-object of an explanation.
type NewsDetail struct {
	ArticleCount int     `json:"article_count"`
	Sentiment    float64 `json:"sentiment"`
	Momentum     float64 `json:"momentum"`
	Summary      string  `json:"summary,omitempty"`
}

// TechnicalBrief is the technical sub-object of an explanation.
type TechnicalBrief struct {
	Trend    float64 `json:"trend"`
	Momentum float64 `json:"momentum"`
	RSI      float64 `json:"rsi,omitempty"`
	Summary  string  `json:"summary,omitempty"`
}

// SignalWeights reports how the backend weighted each signal family.
type SignalWeights struct {
	News      float64 `json:"news"`
	Technical float64 `json:"technical"`
	Regime    string  `json:"regime,omitempty"`
}

// OnDemandRequest is the body of POST /recommendations/on-demand.
// Field names follow the backend contract exactly.
type OnDemandRequest struct {
	Symbol      string `json:"symbol"`
	CompanyName string `json:"companyName"`
}

// GenerateAllResult is returned by POST /recommendations/generate.
type GenerateAllResult struct {
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}
