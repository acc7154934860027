package handlers

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bobmcallan/stockrec-portal/internal/auth"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/config"
	"github.com/bobmcallan/stockrec-portal/internal/views"
)

// errorReasons maps /error?reason= codes to user-facing text.
var errorReasons = map[string]string{
	"auth_failed":        "Sign-in failed. Please try again.",
	"session_expired":    "Your session has expired. Please sign in again.",
	"server_unavailable": "The recommendation service is unavailable right now.",
	"not_found":          "That page does not exist.",
}

// NavItem is one entry in the top navigation.
type NavItem struct {
	Page  string
	Label string
	Href  string
}

// navItems is the navigation shown on every page.
var navItems = []NavItem{
	{Page: "home", Label: "Home", Href: "/"},
	{Page: "big-cap-losers", Label: "Big Cap Losers", Href: "/big-cap-losers"},
	{Page: "recommendations", Label: "Recommendations", Href: "/recommendations"},
	{Page: "new-recommendation", Label: "Get Recommendation", Href: "/recommendations/new"},
	{Page: "jim-cramer", Label: "Jim Cramer", Href: "/jim-cramer"},
	{Page: "connectors", Label: "Connectors", Href: "/connectors"},
	{Page: "pricing", Label: "Pricing", Href: "/pricing"},
	{Page: "faq", Label: "FAQ", Href: "/faq"},
}

// PageData supplies page-specific template fields.
type PageData func(r *http.Request) map[string]interface{}

// PageHandler serves HTML pages rendered with Go templates.
type PageHandler struct {
	logger         *common.Logger
	templates      *template.Template
	devMode        bool
	jwtSecret      []byte
	googleClientID string
	faq            *views.FAQ
	pricing        *views.Pricing
}

// NewPageHandler creates a new page handler that loads templates from the pages directory.
func NewPageHandler(logger *common.Logger, devMode bool, jwtSecret []byte, googleClientID string, faq *views.FAQ, pricing *views.Pricing) *PageHandler {
	pagesDir := FindPagesDir()

	templates := template.Must(template.ParseGlob(filepath.Join(pagesDir, "*.html")))
	template.Must(templates.ParseGlob(filepath.Join(pagesDir, "partials", "*.html")))

	return &PageHandler{
		logger:         logger,
		templates:      templates,
		devMode:        devMode,
		jwtSecret:      jwtSecret,
		googleClientID: googleClientID,
		faq:            faq,
		pricing:        pricing,
	}
}

// FindPagesDir locates the pages directory.
func FindPagesDir() string {
	dirs := []string{
		"./pages",
		"../pages",
		"../../pages",
		".",
	}

	for _, dir := range dirs {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			abs, _ := filepath.Abs(dir)
			return abs
		}
	}

	return "."
}

// ServePage creates a handler function for serving a specific page template.
func (h *PageHandler) ServePage(templateName string, pageName string) http.HandlerFunc {
	return h.ServePageWith(templateName, pageName, nil)
}

// ServePageWith serves a page whose template needs extra data.
func (h *PageHandler) ServePageWith(templateName string, pageName string, extra PageData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, "GET") {
			return
		}

		sess, loggedIn := auth.FromRequest(r, h.jwtSecret)
		data := map[string]interface{}{
			"Page":           pageName,
			"DevMode":        h.devMode,
			"LoggedIn":       loggedIn,
			"Nav":            navItems,
			"GoogleClientID": h.googleClientID,
			"PortalVersion":  config.GetVersion(),
		}
		if loggedIn {
			data["User"] = sess.Claims
		}
		if extra != nil {
			for k, v := range extra(r) {
				data[k] = v
			}
		}

		if err := h.templates.ExecuteTemplate(w, templateName, data); err != nil {
			h.logger.Error().Str("template", templateName).Str("error", err.Error()).Msg("failed to render page")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}

// RequireSession redirects anonymous visitors to the home page.
func (h *PageHandler) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromRequest(r, h.jwtSecret); !ok {
			http.Redirect(w, r, "/?login=required", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// FAQData renders the FAQ filtered by ?q=.
func (h *PageHandler) FAQData(r *http.Request) map[string]interface{} {
	q := r.URL.Query().Get("q")
	return map[string]interface{}{
		"Query":      q,
		"Categories": views.Grouped(h.faq.Search(q)),
	}
}

// PricingData renders plans for ?period=monthly|yearly.
func (h *PageHandler) PricingData(r *http.Request) map[string]interface{} {
	period := views.ParsePeriod(r.URL.Query().Get("period"))
	return map[string]interface{}{
		"Period":         string(period),
		"Yearly":         period == views.Yearly,
		"Plans":          h.pricing.Display(period),
		"SavingsPercent": h.pricing.SavingsPercent(),
	}
}

// ErrorData renders the message for ?reason=.
func (h *PageHandler) ErrorData(r *http.Request) map[string]interface{} {
	msg, ok := errorReasons[r.URL.Query().Get("reason")]
	if !ok {
		msg = "Something went wrong."
	}
	return map[string]interface{}{"ErrorMessage": msg}
}

// SymbolData prefills the on-demand form from ?symbol=.
func (h *PageHandler) SymbolData(r *http.Request) map[string]interface{} {
	syms := splitSymbols(r.URL.Query().Get("symbol"))
	symbol := ""
	if len(syms) > 0 {
		symbol = syms[0]
	}
	return map[string]interface{}{"Symbol": symbol}
}

// StaticFileHandler serves static files (CSS, JS, images).
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	pagesDir := FindPagesDir()
	staticDir := filepath.Join(pagesDir, "static")

	// Remove /static/ prefix from URL path
	path := r.URL.Path[len("/static/"):]
	fullPath := filepath.Join(staticDir, path)

	// Security: prevent directory traversal
	absStaticDir, _ := filepath.Abs(staticDir)
	absFullPath, _ := filepath.Abs(fullPath)
	if len(absFullPath) < len(absStaticDir) || absFullPath[:len(absStaticDir)] != absStaticDir {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, fullPath)
}
