package models

// CramerSummary is the daily digest of Jim Cramer's picks.
type CramerSummary struct {
	Date            string            `json:"date"`
	TotalMentions   int               `json:"total_mentions"`
	BullishCount    int               `json:"bullish_count"`
	BearishCount    int               `json:"bearish_count"`
	NeutralCount    int               `json:"neutral_count"`
	TopBullishPicks []CramerMention   `json:"top_bullish_picks,omitempty"`
	TopBearishPicks []CramerMention   `json:"top_bearish_picks,omitempty"`
	SectorSentiment map[string]string `json:"sector_sentiment,omitempty"`
	Summary         string            `json:"summary,omitempty"`
	GeneratedAt     Timestamp         `json:"generated_at"`
}

// CramerMention is one ticker mention extracted from an article.
type CramerMention struct {
	Symbol      string    `json:"symbol"`
	CompanyName string    `json:"company_name,omitempty"`
	Sentiment   string    `json:"sentiment"`
	Confidence  float64   `json:"confidence,omitempty"`
	Context     string    `json:"context,omitempty"`
	ArticleURL  string    `json:"article_url,omitempty"`
	MentionedAt Timestamp `json:"mentioned_at"`
}

// CramerArticle is a crawled source article.
type CramerArticle struct {
	ID          int64     `json:"id,omitempty"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	Summary     string    `json:"summary,omitempty"`
	PublishedAt Timestamp `json:"published_at"`
}
