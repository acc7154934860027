package views

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

func TestScorePercentAndProgressWidth(t *testing.T) {
	tests := []struct {
		score   float64
		percent int
		width   int
	}{
		{0, 0, 0},
		{0.5, 50, 50},
		{0.726, 73, 73},
		{0.004, 0, 0},
		{0.005, 1, 1},
		{1, 100, 100},
		{1.2, 120, 100},
		{-0.3, -30, 0},
	}
	for _, tt := range tests {
		if got := ScorePercent(tt.score); got != tt.percent {
			t.Errorf("ScorePercent(%v) = %d, want %d", tt.score, got, tt.percent)
		}
		if got := ProgressWidth(tt.score); got != tt.width {
			t.Errorf("ProgressWidth(%v) = %d, want %d", tt.score, got, tt.width)
		}
	}
}

func TestProgressWidth_UnitIntervalMatchesPercent(t *testing.T) {
	for i := 0; i <= 1000; i++ {
		s := float64(i) / 1000
		if ScorePercent(s) != ProgressWidth(s) {
			t.Fatalf("score %v: percent %d != width %d", s, ScorePercent(s), ProgressWidth(s))
		}
		if w := ProgressWidth(s); w < 0 || w > 100 {
			t.Fatalf("score %v: width %d out of range", s, w)
		}
	}
}

func TestActionBadge(t *testing.T) {
	tests := []struct {
		action models.Action
		label  string
		class  string
	}{
		{"BUY", "BUY", "text-green-800 bg-green-100"},
		{"buy", "BUY", "text-green-800 bg-green-100"},
		{"SELL", "SELL", "text-red-800 bg-red-100"},
		{"HOLD", "HOLD", "text-yellow-800 bg-yellow-100"},
		{"", Placeholder, "text-gray-500 bg-gray-100"},
		{"SHORT", Placeholder, "text-gray-500 bg-gray-100"},
	}
	for _, tt := range tests {
		got := ActionBadge(tt.action)
		if got.Label != tt.label || got.Class != tt.class {
			t.Errorf("ActionBadge(%q) = %+v", tt.action, got)
		}
	}
}

func TestConfidenceBadge(t *testing.T) {
	if got := ConfidenceBadge(0.82); got.Label != "High 82%" {
		t.Errorf("unexpected high badge: %+v", got)
	}
	if got := ConfidenceBadge(0.5); got.Label != "Medium 50%" {
		t.Errorf("unexpected medium badge: %+v", got)
	}
	if got := ConfidenceBadge(0.1); got.Label != "Low 10%" {
		t.Errorf("unexpected low badge: %+v", got)
	}
	if got := ConfidenceBadge(0); got.Label != Placeholder {
		t.Errorf("expected placeholder, got %+v", got)
	}
}

func TestRegimeBadge(t *testing.T) {
	if got := RegimeBadge(nil); got.Label != Placeholder {
		t.Errorf("expected placeholder for nil regime, got %+v", got)
	}
	got := RegimeBadge(&models.MarketRegime{Label: "high_volatility", RiskLevel: "HIGH"})
	if got.Label != "high volatility" || got.Class != "text-orange-700 bg-orange-100" {
		t.Errorf("unexpected regime badge: %+v", got)
	}
}

func TestConnectorBadge(t *testing.T) {
	if got := ConnectorBadge("connected"); got.Label != "Connected" {
		t.Errorf("unexpected badge: %+v", got)
	}
	if got := ConnectorBadge("bogus"); got.Label != "Unknown" {
		t.Errorf("unexpected badge: %+v", got)
	}
}

func TestLoserTier_Thresholds(t *testing.T) {
	tests := []struct {
		change string
		tier   Tier
		over10 bool
	}{
		{"-25.00", TierOver10, true},
		{"-10.00", TierOver10, true},
		{"-9.99", TierOver5, false},
		{"-5.00", TierOver5, false},
		{"-4.99", TierOver3, false},
		{"-3.00", TierOver3, false},
		{"-2.99", TierNeutral, false},
		{"1.50", TierNeutral, false},
	}
	for _, tt := range tests {
		d := decimal.RequireFromString(tt.change)
		if got := LoserTier(d); got != tt.tier {
			t.Errorf("LoserTier(%s) = %+v, want %+v", tt.change, got, tt.tier)
		}
		if got := IsOver10(d); got != tt.over10 {
			t.Errorf("IsOver10(%s) = %v, want %v", tt.change, got, tt.over10)
		}
	}
}

func TestSplitLosers_ExampleScenario(t *testing.T) {
	xyz := models.BigCapLoser{
		Symbol:             "XYZ",
		PercentChange:      models.NewPercentChange("-12.50"),
		MarketCapFormatted: "$5.2B",
	}
	abc := models.BigCapLoser{Symbol: "ABC", PercentChange: models.NewPercentChange("-6.10")}

	view := SplitLosers([]models.BigCapLoser{abc, xyz}, nil)

	if view.TotalCount != 2 || view.Over10Count != 1 {
		t.Fatalf("unexpected counts: total=%d over10=%d", view.TotalCount, view.Over10Count)
	}
	row := view.Over10[0]
	if row.Symbol != "XYZ" {
		t.Errorf("expected XYZ in Over 10%% tab, got %s", row.Symbol)
	}
	if row.Tier.Class != "text-red-600 bg-red-100" {
		t.Errorf("expected red tier, got %s", row.Tier.Class)
	}
	if row.PercentText != "-12.50%" {
		t.Errorf("expected -12.50%%, got %s", row.PercentText)
	}
	if row.MarketCapText != "$5.2B" {
		t.Errorf("expected $5.2B, got %s", row.MarketCapText)
	}
	if view.All[0].Symbol != "XYZ" {
		t.Errorf("expected largest drop first, got %s", view.All[0].Symbol)
	}
}

func TestSplitLosers_MergesBackendOver10(t *testing.T) {
	all := []models.BigCapLoser{{Symbol: "AAA", PercentChange: models.NewPercentChange("-11")}}
	over10 := []models.BigCapLoser{
		{Symbol: "AAA", PercentChange: models.NewPercentChange("-11")},
		{Symbol: "BBB", PercentChange: models.NewPercentChange("-15")},
		{Symbol: "CCC", PercentChange: models.NewPercentChange("-4")},
	}
	view := SplitLosers(all, over10)
	if view.Over10Count != 2 {
		t.Fatalf("expected 2 over-10 rows, got %d", view.Over10Count)
	}
	if view.Over10[0].Symbol != "BBB" {
		t.Errorf("expected BBB first, got %s", view.Over10[0].Symbol)
	}
}

func TestSplitLosers_Empty(t *testing.T) {
	view := SplitLosers(nil, nil)
	if view.All == nil || view.Over10 == nil {
		t.Error("expected non-nil empty tabs")
	}
}

func TestNewLoserRow_WithRecommendation(t *testing.T) {
	row := NewLoserRow(models.BigCapLoser{
		Symbol:         "XYZ",
		PercentChange:  models.NewPercentChange("-12.5"),
		Recommendation: &models.Recommendation{Action: "BUY", NormalizedScore: 0.66},
	})
	if row.ActionBadge.Label != "BUY" {
		t.Errorf("expected BUY badge, got %+v", row.ActionBadge)
	}
	if row.Recommended == nil || row.Recommended.ScorePercent != 66 {
		t.Errorf("expected recommendation view, got %+v", row.Recommended)
	}
	if row.MarketCapText != Placeholder {
		t.Errorf("expected placeholder market cap, got %s", row.MarketCapText)
	}
}

func TestNewRecommendationView(t *testing.T) {
	rec := models.Recommendation{
		Symbol:                 "AAPL",
		Action:                 "SELL",
		NormalizedScore:        0.314,
		Confidence:             0.75,
		NewsSentimentScore:     0.2,
		NewsMomentumScore:      1.4,
		TechnicalTrendScore:    0.5,
		TechnicalMomentumScore: -0.1,
		GeneratedAt:            models.NewTimestamp(time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)),
	}
	v := NewRecommendationView(rec)
	if v.ScorePercent != 31 || v.ProgressWidth != 31 {
		t.Errorf("unexpected score: %d/%d", v.ScorePercent, v.ProgressWidth)
	}
	if v.ActionBadge.Label != "SELL" {
		t.Errorf("expected SELL badge, got %+v", v.ActionBadge)
	}
	if len(v.Components) != 4 {
		t.Fatalf("expected 4 component bars, got %d", len(v.Components))
	}
	if v.Components[1].Width != 100 || v.Components[3].Width != 0 {
		t.Errorf("expected clamped widths, got %+v", v.Components)
	}
	if v.GeneratedText != "Mar 2, 2026 14:30 UTC" {
		t.Errorf("unexpected generated text: %s", v.GeneratedText)
	}
}

func TestFAQ_Search(t *testing.T) {
	faq, err := LoadFAQ()
	if err != nil {
		t.Fatalf("LoadFAQ failed: %v", err)
	}

	all := faq.Search("")
	total := 0
	for _, c := range faq.Categories {
		total += len(c.Entries)
	}
	if len(all) != total {
		t.Errorf("expected blank query to return all %d entries, got %d", total, len(all))
	}

	regime := faq.Search("REGIME")
	if len(regime) == 0 {
		t.Fatal("expected matches for regime")
	}
	categories := map[string]bool{}
	for _, e := range regime {
		categories[e.Category] = true
	}
	if len(categories) < 2 {
		t.Errorf("expected matches across categories, got %v", categories)
	}

	if again := faq.Search("REGIME"); !reflect.DeepEqual(regime, again) {
		t.Error("search is not idempotent")
	}

	if none := faq.Search("zzzz-no-match"); len(none) != 0 {
		t.Errorf("expected no matches, got %d", len(none))
	}
}

func TestFAQ_SearchMatchesExactly(t *testing.T) {
	faq, err := ParseFAQ([]byte(`
categories:
  - name: A
    entries:
      - {question: "Alpha?", answer: "first"}
      - {question: "Beta?", answer: "mentions ALPHA"}
  - name: B
    entries:
      - {question: "Gamma?", answer: "nothing"}
`))
	if err != nil {
		t.Fatal(err)
	}
	got := faq.Search("alpha")
	if len(got) != 2 || got[0].Question != "Alpha?" || got[1].Question != "Beta?" {
		t.Errorf("unexpected matches: %+v", got)
	}
	grouped := Grouped(got)
	if len(grouped) != 1 || grouped[0].Name != "A" {
		t.Errorf("unexpected grouping: %+v", grouped)
	}
}

func TestPricing_YearlyConstants(t *testing.T) {
	p, err := LoadPricing()
	if err != nil {
		t.Fatalf("LoadPricing failed: %v", err)
	}
	want := map[string][2]int{"free": {0, 0}, "pro": {29, 278}, "premium": {79, 758}}
	for _, plan := range p.Plans {
		w, ok := want[plan.ID]
		if !ok {
			t.Errorf("unexpected plan %s", plan.ID)
			continue
		}
		if plan.MonthlyPrice != w[0] || plan.YearlyPrice != w[1] {
			t.Errorf("plan %s: got %d/%d, want %d/%d", plan.ID, plan.MonthlyPrice, plan.YearlyPrice, w[0], w[1])
		}
	}
	if p.SavingsPercent() != 20 {
		t.Errorf("expected 20%% savings, got %d", p.SavingsPercent())
	}
}

func TestPricing_DisplayDoesNotShareFeatures(t *testing.T) {
	p, err := LoadPricing()
	if err != nil {
		t.Fatal(err)
	}
	original := p.Plans[0].Features[0]

	shown := p.Display(Monthly)
	shown[0].Features[0] = "changed"

	if p.Plans[0].Features[0] != original {
		t.Errorf("display edit leaked into loaded plan: %q", p.Plans[0].Features[0])
	}
	if again := p.Display(Yearly); again[0].Features[0] != original {
		t.Errorf("expected later displays unaffected, got %q", again[0].Features[0])
	}
}

func TestPricing_ToggleChangesOnlyPriceAndLabel(t *testing.T) {
	p, err := LoadPricing()
	if err != nil {
		t.Fatal(err)
	}
	monthly := p.Display(Monthly)
	yearly := p.Display(Yearly)
	if len(monthly) != len(yearly) {
		t.Fatal("plan counts differ between periods")
	}
	for i := range monthly {
		m, y := monthly[i], yearly[i]
		if m.PeriodLabel != "/month" || y.PeriodLabel != "/year" {
			t.Errorf("unexpected labels %s/%s", m.PeriodLabel, y.PeriodLabel)
		}
		m.Price, y.Price = 0, 0
		m.PeriodLabel, y.PeriodLabel = "", ""
		if !reflect.DeepEqual(m, y) {
			t.Errorf("toggle changed more than price and label: %+v vs %+v", m, y)
		}
	}
}

func TestParsePricing_RejectsWrongYearly(t *testing.T) {
	_, err := ParsePricing([]byte(`
savings_rate: 0.2
plans:
  - {id: pro, monthly_price: 29, yearly_price: 300}
`))
	if err == nil {
		t.Error("expected error for inconsistent yearly price")
	}
}

func TestParsePeriod(t *testing.T) {
	if ParsePeriod("yearly") != Yearly || ParsePeriod("weekly") != Monthly || ParsePeriod("") != Monthly {
		t.Error("unexpected period parsing")
	}
}

func TestBanner(t *testing.T) {
	tests := []struct {
		level BannerLevel
		want  time.Duration
	}{
		{BannerSuccess, 3 * time.Second},
		{BannerInfo, 3 * time.Second},
		{BannerWarning, 5 * time.Second},
		{BannerError, 5 * time.Second},
	}
	for _, tt := range tests {
		b := NewBanner(tt.level, "msg")
		if b.DismissAfter() != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.level, tt.want, b.DismissAfter())
		}
		if b.DismissMS != tt.want.Milliseconds() {
			t.Errorf("%s: expected %d ms, got %d", tt.level, tt.want.Milliseconds(), b.DismissMS)
		}
	}
	if b := NewBanner("weird", "msg"); b.Level != BannerInfo {
		t.Errorf("expected unknown level to map to info, got %s", b.Level)
	}
}

func TestNewConnectorSection_FallbackDoesNotMutateFixedList(t *testing.T) {
	sec := NewConnectorSection(nil, errors.New(`backend returned 502: {"trace":"db01 timeout"}`), FallbackLLMConnectors, models.KindLLM)

	if !sec.Degraded || sec.Source != SourceFallback || sec.Error != StatusUnavailable {
		t.Fatalf("unexpected section %+v", sec)
	}
	if len(sec.Items) != len(FallbackLLMConnectors) {
		t.Fatalf("expected %d items, got %d", len(FallbackLLMConnectors), len(sec.Items))
	}
	for _, row := range sec.Items {
		if row.Status != models.ConnectorUnknown || row.Kind != models.KindLLM {
			t.Errorf("%s: expected unknown llm connector, got %s/%s", row.Name, row.Status, row.Kind)
		}
	}
	if FallbackLLMConnectors[0].Kind != "" {
		t.Error("fallback list was mutated")
	}
}

func TestNewConnectorSection_Live(t *testing.T) {
	live := []models.ConnectorStatus{{Name: "finnhub", Status: models.ConnectorConnected}}
	sec := NewConnectorSection(live, nil, FallbackDataConnectors, models.KindData)

	if sec.Degraded || sec.Source != SourceLive || len(sec.Items) != 1 {
		t.Fatalf("unexpected section %+v", sec)
	}
	if sec.Items[0].Badge != ConnectorBadge(models.ConnectorConnected) {
		t.Errorf("unexpected badge %+v", sec.Items[0].Badge)
	}
}

func TestNewCrawlerSection_Fallback(t *testing.T) {
	sec := NewCrawlerSection(nil, errors.New("timeout"))
	if !sec.Degraded || len(sec.Items) != 2 {
		t.Fatalf("expected the two fallback crawlers, got %+v", sec)
	}
}

func TestApplyHealthChecks(t *testing.T) {
	items := []models.ConnectorStatus{{Name: "finnhub", Enabled: true}, {Name: "polygon", Enabled: true}}
	ApplyHealthChecks(items, []models.HealthCheckSetting{{Name: "polygon", Enabled: false}})

	if !items[0].Enabled || items[1].Enabled {
		t.Errorf("unexpected flags %+v", items)
	}
}
