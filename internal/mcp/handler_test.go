package mcp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
)

var testSecret = []byte("mcp-secret")

// buildTestJWT creates an HS256 JWT for testing.
func buildTestJWT(sub string, secret []byte, exp time.Time) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	claims, _ := json.Marshal(map[string]interface{}{
		"sub": sub,
		"iss": "stockrec",
		"exp": exp.Unix(),
	})
	payload := base64.RawURLEncoding.EncodeToString(claims)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(header + "." + payload))
	return header + "." + payload + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func validJWT(sub string) string {
	return buildTestJWT(sub, testSecret, time.Now().Add(time.Hour))
}

// --- withUserContext Tests ---

func TestWithUserContext_ValidCookie(t *testing.T) {
	jwt := validJWT("user42")

	req := httptest.NewRequest("GET", "/mcp", nil)
	req.AddCookie(&http.Cookie{Name: "stockrec_session", Value: jwt})

	h := &Handler{jwtSecret: testSecret}
	result := h.withUserContext(req)

	uc, ok := GetUserContext(result.Context())
	if !ok {
		t.Fatal("expected GetUserContext to return ok=true")
	}
	if uc.UserID != "user42" {
		t.Errorf("expected UserID user42, got %s", uc.UserID)
	}
	if uc.Token != jwt {
		t.Error("expected the session token to be carried for backend calls")
	}
}

func TestWithUserContext_NoCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/mcp", nil)

	h := &Handler{jwtSecret: testSecret}
	result := h.withUserContext(req)

	if _, ok := GetUserContext(result.Context()); ok {
		t.Error("expected GetUserContext to return ok=false when no cookie is set")
	}
}

func TestWithUserContext_RejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"not a jwt", "not-a-jwt"},
		{"wrong secret", buildTestJWT("u", []byte("other"), time.Now().Add(time.Hour))},
		{"expired", buildTestJWT("u", testSecret, time.Now().Add(-time.Minute))},
	}
	h := &Handler{jwtSecret: testSecret}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/mcp", nil)
			req.AddCookie(&http.Cookie{Name: "stockrec_session", Value: tt.token})
			if _, ok := GetUserContext(h.withUserContext(req).Context()); ok {
				t.Error("expected token to be rejected")
			}
		})
	}
}

// --- Bearer token tests ---

func TestWithUserContext_BearerTokenTakesPriority(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("Authorization", "Bearer "+validJWT("bearer-user"))
	req.AddCookie(&http.Cookie{Name: "stockrec_session", Value: validJWT("cookie-user")})

	h := &Handler{jwtSecret: testSecret}
	uc, ok := GetUserContext(h.withUserContext(req).Context())
	if !ok {
		t.Fatal("expected GetUserContext to return ok=true")
	}
	if uc.UserID != "bearer-user" {
		t.Errorf("expected Bearer to take priority, got UserID %s", uc.UserID)
	}
}

func TestWithUserContext_InvalidBearerFallsToCookie(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("Authorization", "Bearer invalid-jwt")
	req.AddCookie(&http.Cookie{Name: "stockrec_session", Value: validJWT("cookie-user")})

	h := &Handler{jwtSecret: testSecret}
	uc, ok := GetUserContext(h.withUserContext(req).Context())
	if !ok || uc.UserID != "cookie-user" {
		t.Errorf("expected cookie fallback, got %+v ok=%v", uc, ok)
	}
}

func TestWithUserContext_EmptyBearerIgnored(t *testing.T) {
	req := httptest.NewRequest("POST", "/mcp", nil)
	req.Header.Set("Authorization", "Bearer ")

	h := &Handler{jwtSecret: testSecret}
	if _, ok := GetUserContext(h.withUserContext(req).Context()); ok {
		t.Error("expected no user context for empty Bearer token")
	}
}

// --- ServeHTTP ---

func TestServeHTTP_UnauthenticatedGets401(t *testing.T) {
	backend := client.New("http://127.0.0.1:1")
	h := NewHandler(NewServer(backend, nil, common.NewSilentLogger()), testSecret, common.NewSilentLogger())

	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(`{}`))
	req.Host = "portal.example.com\r\nX-Evil: 1"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	auth := w.Header().Get("WWW-Authenticate")
	if strings.ContainsAny(auth, "\r\n") {
		t.Errorf("WWW-Authenticate not sanitized: %q", auth)
	}
	if !strings.HasPrefix(auth, `Bearer realm="http://portal.example.com`) {
		t.Errorf("unexpected WWW-Authenticate %q", auth)
	}
}

func TestServeHTTP_AuthenticatedListsTools(t *testing.T) {
	backend := client.New("http://127.0.0.1:1")
	h := NewHandler(NewServer(backend, nil, common.NewSilentLogger()), testSecret, common.NewSilentLogger())

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	req := httptest.NewRequest("POST", "/mcp", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	req.Header.Set("Authorization", "Bearer "+validJWT("alice"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	for _, name := range []string{"get_recommendation", "market_regime", "get_version"} {
		if !strings.Contains(w.Body.String(), name) {
			t.Errorf("expected %s in tools/list", name)
		}
	}
}

func TestSanitizeHost(t *testing.T) {
	if got := sanitizeHost("a\r\nb\"c"); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
}
