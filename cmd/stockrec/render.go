package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	badgeColors = map[string]lipgloss.Color{
		"green":  lipgloss.Color("46"),
		"yellow": lipgloss.Color("226"),
		"orange": lipgloss.Color("214"),
		"red":    lipgloss.Color("196"),
		"gray":   lipgloss.Color("245"),
	}
)

// badgeColor maps a badge's CSS class to a terminal colour.
func badgeColor(b views.Badge) lipgloss.Color {
	for _, cls := range strings.Fields(b.Class) {
		if !strings.HasPrefix(cls, "text-") {
			continue
		}
		parts := strings.Split(cls, "-")
		if len(parts) >= 2 {
			if c, ok := badgeColors[parts[1]]; ok {
				return c
			}
		}
	}
	return badgeColors["gray"]
}

func badge(b views.Badge) string {
	return lipgloss.NewStyle().Bold(true).Foreground(badgeColor(b)).Render(b.Label)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func orDash(s string) string {
	if s == "" {
		return views.Placeholder
	}
	return s
}

func displayName(display, name string) string {
	if display != "" {
		return display
	}
	return orDash(name)
}

func renderRecommendation(w io.Writer, v views.RecommendationView) {
	title := v.Symbol
	if v.CompanyName != "" {
		title += " " + mutedStyle.Render("("+v.CompanyName+")")
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "Action:     %s\n", badge(v.ActionBadge))
	fmt.Fprintf(w, "Score:      %d%%\n", v.ScorePercent)
	fmt.Fprintf(w, "Confidence: %s\n", badge(v.ConfidenceBadge))
	fmt.Fprintf(w, "Regime:     %s\n", badge(v.RegimeBadge))
	if v.PriceAtRecommendation > 0 {
		fmt.Fprintf(w, "Price:      $%.2f\n", v.PriceAtRecommendation)
	}
	fmt.Fprintf(w, "Generated:  %s\n", v.GeneratedText)

	if len(v.Components) > 0 {
		t := newTable("Signal", "Score")
		for _, c := range v.Components {
			t.Row(c.Label, fmt.Sprintf("%d%%", c.Percent))
		}
		fmt.Fprintln(w, t.Render())
	}

	if e := v.Explanation; e != nil {
		if e.Summary != "" {
			fmt.Fprintln(w, e.Summary)
		}
		for _, f := range e.Factors {
			fmt.Fprintln(w, "  - "+f)
		}
	}
}

func renderHistory(w io.Writer, symbol string, recs []views.RecommendationView) {
	fmt.Fprintln(w, titleStyle.Render("History: "+symbol))
	if len(recs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No recommendations stored."))
		return
	}
	t := newTable("Generated", "Action", "Score", "Confidence", "Regime")
	for _, v := range recs {
		t.Row(v.GeneratedText, badge(v.ActionBadge), fmt.Sprintf("%d%%", v.ScorePercent), badge(v.ConfidenceBadge), badge(v.RegimeBadge))
	}
	fmt.Fprintln(w, t.Render())
}

func renderLosers(w io.Writer, view views.LosersView, summary *models.LosersSummary, over10Only bool) {
	rows := view.All
	title := fmt.Sprintf("Big Cap Losers (%d)", view.TotalCount)
	if over10Only {
		rows = view.Over10
		title = fmt.Sprintf("Down more than 10%% (%d)", view.Over10Count)
	}
	fmt.Fprintln(w, titleStyle.Render(title))
	if summary != nil && !summary.GeneratedAt.IsZero() {
		fmt.Fprintln(w, mutedStyle.Render("Generated "+summary.GeneratedAt.Format("2006-01-02 15:04")))
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No losers reported."))
		return
	}
	t := newTable("Symbol", "Company", "Change", "Market Cap", "Action")
	for _, r := range rows {
		t.Row(r.Symbol, orDash(r.CompanyName), r.PercentText, r.MarketCapText, badge(r.ActionBadge))
	}
	fmt.Fprintln(w, t.Render())
}

func renderRegimes(w io.Writer, symbols []string, regimes map[string]*models.MarketRegime, errs map[string]error) {
	t := newTable("Symbol", "Regime", "Risk", "Volatility", "Trend", "Sizing")
	for _, s := range symbols {
		r := regimes[s]
		if r == nil {
			t.Row(s, warnStyle.Render("unavailable"), "", "", "", "")
			continue
		}
		t.Row(s, badge(views.RegimeBadge(r)), orDash(r.RiskLevel), orDash(r.Volatility), orDash(r.Trend),
			fmt.Sprintf("%.2fx", r.PositionSizingMultiplier))
	}
	fmt.Fprintln(w, t.Render())

	if len(errs) > 0 {
		failed := make([]string, 0, len(errs))
		for s := range errs {
			failed = append(failed, s)
		}
		sort.Strings(failed)
		fmt.Fprintln(w, warnStyle.Render("Unavailable: "+strings.Join(failed, ", ")))
	}
}

func renderConnectors(w io.Writer, data, llm views.ConnectorSection, crawlers views.CrawlerSection) {
	section := func(title string, degraded bool) {
		line := titleStyle.Render(title)
		if degraded {
			line += " " + warnStyle.Render("(backend unreachable, showing fixed list)")
		}
		fmt.Fprintln(w, line)
	}

	for _, s := range []struct {
		title string
		sec   views.ConnectorSection
	}{{"Data Connectors", data}, {"LLM Connectors", llm}} {
		section(s.title, s.sec.Degraded)
		t := newTable("Connector", "Status", "Enabled")
		for _, c := range s.sec.Items {
			t.Row(displayName(c.DisplayName, c.Name), badge(c.Badge), fmt.Sprintf("%t", c.Enabled))
		}
		fmt.Fprintln(w, t.Render())
	}

	section("Crawler Services", crawlers.Degraded)
	t := newTable("Service", "Status", "Enabled")
	for _, c := range crawlers.Items {
		t.Row(displayName(c.DisplayName, c.Name), badge(c.Badge), fmt.Sprintf("%t", c.Enabled))
	}
	fmt.Fprintln(w, t.Render())
}

func renderCramer(w io.Writer, summary *models.CramerSummary, mentions []models.CramerMention) {
	fmt.Fprintln(w, titleStyle.Render("Jim Cramer"))
	if summary != nil {
		fmt.Fprintf(w, "%s  %d mentions: %d bullish, %d bearish, %d neutral\n",
			orDash(summary.Date), summary.TotalMentions, summary.BullishCount, summary.BearishCount, summary.NeutralCount)
		if summary.Summary != "" {
			fmt.Fprintln(w, summary.Summary)
		}
	} else {
		fmt.Fprintln(w, mutedStyle.Render("No summary for today."))
	}
	if len(mentions) == 0 {
		return
	}
	t := newTable("Symbol", "Company", "Sentiment", "Context")
	for _, m := range mentions {
		t.Row(m.Symbol, orDash(m.CompanyName), sentiment(m.Sentiment), orDash(m.Context))
	}
	fmt.Fprintln(w, t.Render())
}

func sentiment(s string) string {
	switch strings.ToLower(s) {
	case "bullish":
		return lipgloss.NewStyle().Foreground(badgeColors["green"]).Render(s)
	case "bearish":
		return lipgloss.NewStyle().Foreground(badgeColors["red"]).Render(s)
	}
	return orDash(s)
}

func renderSearch(w io.Writer, results []models.StockSearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No matches."))
		return
	}
	t := newTable("Symbol", "Name", "Exchange")
	for _, r := range results {
		t.Row(r.Symbol, r.Name, orDash(r.Exchange))
	}
	fmt.Fprintln(w, t.Render())
}
