package handlers

import (
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// ContentHandler serves the FAQ and pricing content as JSON.
type ContentHandler struct {
	faq     *views.FAQ
	pricing *views.Pricing
}

// NewContentHandler creates a new content handler.
func NewContentHandler(faq *views.FAQ, pricing *views.Pricing) *ContentHandler {
	return &ContentHandler{faq: faq, pricing: pricing}
}

// HandleFAQ handles GET /api/portal/faq?q=. Matching is a case-insensitive
// substring search over questions and answers in every category.
func (h *ContentHandler) HandleFAQ(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	q := r.URL.Query().Get("q")
	entries := h.faq.Search(q)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":      q,
		"count":      len(entries),
		"entries":    entries,
		"categories": views.Grouped(entries),
	})
}

// HandlePricing handles GET /api/portal/pricing?period=monthly|yearly.
func (h *ContentHandler) HandlePricing(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}
	period := views.ParsePeriod(r.URL.Query().Get("period"))
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"period":          period,
		"savings_percent": h.pricing.SavingsPercent(),
		"plans":           h.pricing.Display(period),
	})
}
