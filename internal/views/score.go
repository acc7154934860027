// Package views maps backend records onto what the pages display: score
// percentages, badge colours, loser tiers, FAQ search and pricing.
package views

import "math"

// ScorePercent renders a [0,1] score as a whole percentage.
func ScorePercent(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	return int(math.Round(score * 100))
}

// ProgressWidth is ScorePercent clamped to [0,100] for progress bars.
func ProgressWidth(score float64) int {
	p := ScorePercent(score)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
