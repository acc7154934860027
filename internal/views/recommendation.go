package views

import (
	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// RecommendationView is a recommendation with its display values computed.
type RecommendationView struct {
	models.Recommendation
	ScorePercent    int    `json:"score_percent"`
	ProgressWidth   int    `json:"progress_width"`
	ActionBadge     Badge  `json:"action_badge"`
	ConfidenceBadge Badge  `json:"confidence_badge"`
	RegimeBadge     Badge  `json:"regime_badge"`
	Components      []Bar  `json:"components"`
	GeneratedText   string `json:"generated_text"`
}

// Bar is one labelled progress bar.
type Bar struct {
	Label   string `json:"label"`
	Percent int    `json:"percent"`
	Width   int    `json:"width"`
}

// NewRecommendationView decorates rec.
func NewRecommendationView(rec models.Recommendation) RecommendationView {
	score := rec.NormalizedScore
	v := RecommendationView{
		Recommendation:  rec,
		ScorePercent:    ScorePercent(score),
		ProgressWidth:   ProgressWidth(score),
		ActionBadge:     ActionBadge(rec.Action),
		ConfidenceBadge: ConfidenceBadge(rec.Confidence),
		RegimeBadge:     RegimeBadge(rec.Regime),
		GeneratedText:   Placeholder,
	}

	c := rec.ComponentScores()
	for _, b := range []struct {
		label string
		score float64
	}{
		{"News sentiment", c.NewsSentiment},
		{"News momentum", c.NewsMomentum},
		{"Technical trend", c.TechnicalTrend},
		{"Technical momentum", c.TechnicalMomentum},
	} {
		v.Components = append(v.Components, Bar{
			Label:   b.label,
			Percent: ScorePercent(b.score),
			Width:   ProgressWidth(b.score),
		})
	}

	if !rec.GeneratedAt.IsZero() {
		v.GeneratedText = rec.GeneratedAt.Format("Jan 2, 2006 15:04 MST")
	}
	return v
}

// NewRecommendationViews decorates each record.
func NewRecommendationViews(recs []models.Recommendation) []RecommendationView {
	out := make([]RecommendationView, 0, len(recs))
	for _, r := range recs {
		out = append(out, NewRecommendationView(r))
	}
	return out
}
