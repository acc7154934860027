package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/auth"
	"github.com/bobmcallan/stockrec-portal/internal/client"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method || (method == http.MethodGet && r.Method == http.MethodHead) {
		return true
	}
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	return false
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// writeUpstreamError maps a failed backend call onto a gateway status:
// 429 passes through, other 4xx become 422, upstream timeouts 504,
// everything else 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var upErr *client.UpstreamError
	if errors.As(err, &upErr) {
		body := map[string]any{"status": "error", "error": err.Error(), "upstream_status": upErr.Status}
		switch {
		case upErr.Status == http.StatusTooManyRequests:
			w.Header().Set("Retry-After", "60")
			WriteJSON(w, http.StatusTooManyRequests, body)
		case upErr.Status == http.StatusRequestTimeout || upErr.Status == http.StatusGatewayTimeout:
			WriteJSON(w, http.StatusGatewayTimeout, body)
		case upErr.Status >= 400 && upErr.Status < 500:
			WriteJSON(w, http.StatusUnprocessableEntity, body)
		default:
			WriteJSON(w, http.StatusBadGateway, body)
		}
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		WriteError(w, http.StatusGatewayTimeout, "upstream_timeout")
		return
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		WriteError(w, http.StatusGatewayTimeout, "upstream_timeout")
		return
	}
	WriteError(w, http.StatusBadGateway, err.Error())
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// backendContext attaches the caller's session token, if any, to the request
// context so backend calls are made on their behalf.
func backendContext(r *http.Request, secret []byte) context.Context {
	if sess, ok := auth.FromRequest(r, secret); ok {
		return client.WithToken(r.Context(), sess.Token)
	}
	return r.Context()
}

// sessionUser returns the logged-in user's ID, or "" when anonymous.
func sessionUser(r *http.Request, secret []byte) string {
	if sess, ok := auth.FromRequest(r, secret); ok {
		return sess.Claims.UserID()
	}
	return ""
}

// splitSymbols parses a comma or space separated symbols parameter.
func splitSymbols(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.ToUpper(strings.TrimSpace(f)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// queryInt parses an integer query parameter, returning def when absent or invalid.
func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
