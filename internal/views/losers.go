package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

var (
	minus10 = decimal.NewFromInt(-10)
	minus5  = decimal.NewFromInt(-5)
	minus3  = decimal.NewFromInt(-3)
)

// Tier is the colour band of a loser row.
type Tier struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

var (
	TierOver10  = Tier{Name: "over_10", Class: "text-red-600 bg-red-100"}
	TierOver5   = Tier{Name: "over_5", Class: "text-orange-600 bg-orange-100"}
	TierOver3   = Tier{Name: "over_3", Class: "text-yellow-700 bg-yellow-100"}
	TierNeutral = Tier{Name: "neutral", Class: "text-gray-700 bg-gray-100"}
)

// LoserTier bands a percent change at -10, -5 and -3.
func LoserTier(change decimal.Decimal) Tier {
	switch {
	case change.LessThanOrEqual(minus10):
		return TierOver10
	case change.LessThanOrEqual(minus5):
		return TierOver5
	case change.LessThanOrEqual(minus3):
		return TierOver3
	default:
		return TierNeutral
	}
}

// IsOver10 reports whether change is a drop of at least 10%.
func IsOver10(change decimal.Decimal) bool {
	return change.LessThanOrEqual(minus10)
}

// LoserRow is a loser decorated for display.
type LoserRow struct {
	models.BigCapLoser
	Tier          Tier                `json:"tier"`
	PercentText   string              `json:"percent_text"`
	Over10        bool                `json:"over_10"`
	Recommended   *RecommendationView `json:"recommendation_view,omitempty"`
	ActionBadge   Badge               `json:"action_badge"`
	MarketCapText string              `json:"market_cap_text"`
}

// NewLoserRow decorates l.
func NewLoserRow(l models.BigCapLoser) LoserRow {
	change := l.PercentChange.Decimal
	row := LoserRow{
		BigCapLoser:   l,
		Tier:          LoserTier(change),
		PercentText:   change.StringFixed(2) + "%",
		Over10:        IsOver10(change),
		ActionBadge:   neutralBadge,
		MarketCapText: l.MarketCapFormatted,
	}
	if row.MarketCapText == "" {
		row.MarketCapText = Placeholder
	}
	if l.Recommendation != nil {
		v := NewRecommendationView(*l.Recommendation)
		row.Recommended = &v
		row.ActionBadge = v.ActionBadge
	}
	return row
}

// LosersView holds the All and Over 10% tabs.
type LosersView struct {
	All         []LoserRow `json:"all"`
	Over10      []LoserRow `json:"over_10"`
	TotalCount  int        `json:"total_count"`
	Over10Count int        `json:"over_10_count"`
}

// SplitLosers builds both tabs. Every row at or below -10% lands in the
// Over 10% tab, whether it came from all or from the backend's over-10 list.
// Rows are ordered by largest drop first.
func SplitLosers(all, over10 []models.BigCapLoser) LosersView {
	view := LosersView{
		All:    make([]LoserRow, 0, len(all)),
		Over10: []LoserRow{},
	}

	seen := make(map[string]bool)
	addOver10 := func(row LoserRow) {
		if !row.Over10 || seen[row.Symbol] {
			return
		}
		seen[row.Symbol] = true
		view.Over10 = append(view.Over10, row)
	}

	for _, l := range all {
		row := NewLoserRow(l)
		view.All = append(view.All, row)
		addOver10(row)
	}
	for _, l := range over10 {
		addOver10(NewLoserRow(l))
	}

	sortByDrop(view.All)
	sortByDrop(view.Over10)
	view.TotalCount = len(view.All)
	view.Over10Count = len(view.Over10)
	return view
}

func sortByDrop(rows []LoserRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PercentChange.LessThan(rows[j].PercentChange.Decimal)
	})
}
