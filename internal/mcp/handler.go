package mcp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/stockrec-portal/internal/auth"
	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	jwtSecret  []byte
}

// NewHandler serves s over streamable HTTP for signed-in callers.
func NewHandler(s *mcpserver.MCPServer, jwtSecret []byte, logger *common.Logger) *Handler {
	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
	)

	logger.Info().Int("tools", len(catalog)).Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		jwtSecret:  jwtSecret,
	}
}

// Catalog returns the tools this handler serves.
func (h *Handler) Catalog() []CatalogTool {
	return Catalog()
}

// ServeHTTP attaches the caller's identity and delegates to the
// StreamableHTTPServer. Callers without a valid session get 401.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r = h.withUserContext(r)

	if _, ok := GetUserContext(r.Context()); !ok {
		scheme := "http"
		if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
			scheme = "https"
		}

		w.Header().Set("WWW-Authenticate",
			fmt.Sprintf(`Bearer realm="%s://%s/mcp"`, scheme, sanitizeHost(r.Host)))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "unauthorized",
			"error_description": "Sign in to use the MCP endpoint",
		})
		return
	}

	h.streamable.ServeHTTP(w, r)
}

// sanitizeHost strips CR, LF and quotes from the Host header.
func sanitizeHost(host string) string {
	host = strings.ReplaceAll(host, "\r", "")
	host = strings.ReplaceAll(host, "\n", "")
	host = strings.ReplaceAll(host, `"`, "")
	return host
}

// withUserContext validates a Bearer token or the session cookie and attaches
// the identity plus token to the request context. Bearer takes priority.
// If both fail, the original request is returned unchanged.
func (h *Handler) withUserContext(r *http.Request) *http.Request {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if uc, ok := h.userFromToken(token); ok {
			return r.WithContext(WithUserContext(r.Context(), uc))
		}
	}

	cookie, err := r.Cookie(auth.CookieName)
	if err != nil || cookie.Value == "" {
		return r
	}
	if uc, ok := h.userFromToken(cookie.Value); ok {
		return r.WithContext(WithUserContext(r.Context(), uc))
	}
	return r
}

func (h *Handler) userFromToken(token string) (UserContext, bool) {
	if token == "" {
		return UserContext{}, false
	}
	claims, err := auth.ValidateJWT(token, h.jwtSecret)
	if err != nil || claims.UserID() == "" {
		return UserContext{}, false
	}
	return UserContext{UserID: claims.UserID(), Token: token}, true
}
