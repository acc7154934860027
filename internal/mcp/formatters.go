package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/models"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

const dateLayout = "2006-01-02 15:04"

func orDash(s string) string {
	if s == "" {
		return views.Placeholder
	}
	return s
}

// FormatRecommendation formats a single recommendation as markdown.
func FormatRecommendation(v views.RecommendationView) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s", v.Symbol))
	if v.CompanyName != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", v.CompanyName))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("**Action:** %s\n", v.ActionBadge.Label))
	sb.WriteString(fmt.Sprintf("**Score:** %d%%\n", v.ScorePercent))
	sb.WriteString(fmt.Sprintf("**Confidence:** %s\n", v.ConfidenceBadge.Label))
	sb.WriteString(fmt.Sprintf("**Regime:** %s\n", v.RegimeBadge.Label))
	if v.PriceAtRecommendation > 0 {
		sb.WriteString(fmt.Sprintf("**Price:** $%.2f\n", v.PriceAtRecommendation))
	}
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", v.GeneratedText))

	sb.WriteString("## Components\n\n")
	sb.WriteString("| Signal | Score |\n|--------|-------|\n")
	for _, b := range v.Components {
		sb.WriteString(fmt.Sprintf("| %s | %d%% |\n", b.Label, b.Percent))
	}

	if v.SignalWeights != nil {
		sb.WriteString(fmt.Sprintf("\n**Weights:** news %.0f%%, technical %.0f%%\n",
			v.SignalWeights.News*100, v.SignalWeights.Technical*100))
	}

	if e := v.Explanation; e != nil {
		sb.WriteString("\n## Explanation\n\n")
		if e.Summary != "" {
			sb.WriteString(e.Summary + "\n")
		}
		for _, f := range e.Factors {
			sb.WriteString("- " + f + "\n")
		}
		if len(e.RecentArticles) > 0 {
			sb.WriteString("\n### Sources\n\n")
			for _, a := range e.RecentArticles {
				sb.WriteString(fmt.Sprintf("- [%s](%s)\n", a.Title, a.URL))
			}
		}
	}

	if reg := v.Regime; reg != nil && len(reg.Warnings) > 0 {
		sb.WriteString("\n## Regime warnings\n\n")
		for _, w := range reg.Warnings {
			sb.WriteString("- " + w + "\n")
		}
	}

	return sb.String()
}

// FormatHistory formats a recommendation history as a markdown table.
func FormatHistory(symbol string, recs []views.RecommendationView) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s recommendation history\n\n", symbol))
	if len(recs) == 0 {
		sb.WriteString("No recommendations yet.\n")
		return sb.String()
	}
	sb.WriteString("| Date | Action | Score | Confidence | Price |\n")
	sb.WriteString("|------|--------|-------|------------|-------|\n")
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d%% | %s | $%.2f |\n",
			r.GeneratedText, r.ActionBadge.Label, r.ScorePercent, r.ConfidenceBadge.Label, r.PriceAtRecommendation))
	}
	return sb.String()
}

// FormatLosers formats the losers tabs as markdown.
func FormatLosers(view views.LosersView, summary *models.LosersSummary, over10Only bool) string {
	var sb strings.Builder
	sb.WriteString("# Big Cap Losers\n\n")
	if summary != nil {
		sb.WriteString(fmt.Sprintf("**Losers:** %d | **Over 10%%:** %d | **BUY/SELL/HOLD:** %d/%d/%d\n",
			summary.TotalLosers, summary.Over10Count, summary.BuyCount, summary.SellCount, summary.HoldCount))
		if !summary.GeneratedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("**Updated:** %s\n", summary.GeneratedAt.Format(dateLayout)))
		}
		sb.WriteString("\n")
	}

	rows := view.All
	if over10Only {
		rows = view.Over10
		sb.WriteString(fmt.Sprintf("## Down 10%% or more (%d)\n\n", view.Over10Count))
	} else {
		sb.WriteString(fmt.Sprintf("## All (%d)\n\n", view.TotalCount))
	}
	if len(rows) == 0 {
		sb.WriteString("No losers.\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Company | Change | Market Cap | Recommendation |\n")
	sb.WriteString("|--------|---------|--------|------------|----------------|\n")
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			r.Symbol, orDash(r.CompanyName), r.PercentText, r.MarketCapText, r.ActionBadge.Label))
	}
	return sb.String()
}

// FormatRegimes formats regimes for symbols, in the order asked.
func FormatRegimes(symbols []string, regimes map[string]*models.MarketRegime, errs map[string]error) string {
	var sb strings.Builder
	sb.WriteString("# Market Regime\n\n")
	sb.WriteString("| Symbol | Regime | Risk | Volatility | Trend | Sizing |\n")
	sb.WriteString("|--------|--------|------|------------|-------|--------|\n")
	for _, s := range symbols {
		r, ok := regimes[s]
		if !ok || r == nil {
			sb.WriteString(fmt.Sprintf("| %s | unavailable | | | | |\n", s))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %.2fx |\n",
			s, views.RegimeBadge(r).Label, orDash(r.RiskLevel), orDash(r.Volatility), orDash(r.Trend), r.PositionSizingMultiplier))
	}

	if len(errs) > 0 {
		failed := make([]string, 0, len(errs))
		for s := range errs {
			failed = append(failed, s)
		}
		sort.Strings(failed)
		sb.WriteString("\n**Unavailable:** " + strings.Join(failed, ", ") + "\n")
	}
	return sb.String()
}

// FormatConnectors formats the three connector sections.
func FormatConnectors(data, llm views.ConnectorSection, crawlers views.CrawlerSection) string {
	var sb strings.Builder
	sb.WriteString("# Connectors\n\n")

	section := func(title string, degraded bool, rows [][2]string) {
		sb.WriteString("## " + title)
		if degraded {
			sb.WriteString(" (backend unreachable, showing fixed list)")
		}
		sb.WriteString("\n\n| Name | Status |\n|------|--------|\n")
		for _, r := range rows {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", r[0], r[1]))
		}
		sb.WriteString("\n")
	}

	connectorRows := func(items []views.ConnectorRow) [][2]string {
		out := make([][2]string, 0, len(items))
		for _, c := range items {
			name := c.DisplayName
			if name == "" {
				name = c.Name
			}
			out = append(out, [2]string{name, c.Badge.Label})
		}
		return out
	}

	section("Data connectors", data.Degraded, connectorRows(data.Items))
	section("LLM connectors", llm.Degraded, connectorRows(llm.Items))

	crawlRows := make([][2]string, 0, len(crawlers.Items))
	for _, c := range crawlers.Items {
		name := c.DisplayName
		if name == "" {
			name = c.Name
		}
		crawlRows = append(crawlRows, [2]string{name, c.Badge.Label})
	}
	section("Crawlers", crawlers.Degraded, crawlRows)

	return sb.String()
}

// FormatCramer formats the Jim Cramer summary, mentions and articles.
func FormatCramer(summary *models.CramerSummary, mentions []models.CramerMention, articles []models.CramerArticle) string {
	var sb strings.Builder
	sb.WriteString("# Jim Cramer\n\n")
	if summary != nil {
		sb.WriteString(fmt.Sprintf("**Mentions:** %d (%d bullish, %d bearish, %d neutral)\n\n",
			summary.TotalMentions, summary.BullishCount, summary.BearishCount, summary.NeutralCount))
	}

	sb.WriteString("## Today's mentions\n\n")
	if len(mentions) == 0 {
		sb.WriteString("No mentions today.\n")
	} else {
		sb.WriteString("| Symbol | Sentiment | Context |\n|--------|-----------|---------|\n")
		for _, m := range mentions {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", m.Symbol, orDash(m.Sentiment), orDash(m.Context)))
		}
	}

	if len(articles) > 0 {
		sb.WriteString("\n## Recent articles\n\n")
		for _, a := range articles {
			sb.WriteString(fmt.Sprintf("- [%s](%s)", a.Title, a.URL))
			if !a.PublishedAt.IsZero() {
				sb.WriteString(" " + a.PublishedAt.Format("2006-01-02"))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatSearch formats stock search results.
func FormatSearch(query string, results []models.StockSearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Search: %s\n\n", query))
	if len(results) == 0 {
		sb.WriteString("No matches.\n")
		return sb.String()
	}
	sb.WriteString("| Symbol | Name | Exchange |\n|--------|------|----------|\n")
	for _, r := range results {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", r.Symbol, r.Name, orDash(r.Exchange)))
	}
	return sb.String()
}
