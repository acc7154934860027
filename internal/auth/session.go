// Package auth handles the portal session: the backend-issued JWT kept in an
// HttpOnly cookie after a Google sign-in.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// CookieName is the session cookie.
const CookieName = "stockrec_session"

// Claims holds the decoded JWT payload claims.
type Claims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	Iss     string `json:"iss"`
	Iat     int64  `json:"iat"`
	Exp     int64  `json:"exp"`
}

// UserID is the stable identifier used to key per-user state.
func (c *Claims) UserID() string {
	if c.Sub != "" {
		return c.Sub
	}
	return c.Email
}

// ExpiresAt returns the exp claim as a time.
func (c *Claims) ExpiresAt() time.Time {
	return time.Unix(c.Exp, 0)
}

// ValidateJWT validates a JWT token string.
// If secret is non-empty, it verifies the HMAC-SHA256 signature.
// Expiry is always checked.
func ValidateJWT(token string, secret []byte) (*Claims, error) {
	parts := strings.SplitN(token, ".", 4)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 parts, got %d", len(parts))
	}

	if len(secret) > 0 {
		mac := hmac.New(sha256.New, secret)
		mac.Write([]byte(parts[0] + "." + parts[1]))
		expectedSig := mac.Sum(nil)

		actualSig, err := base64.RawURLEncoding.DecodeString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid JWT signature encoding: %w", err)
		}
		if !hmac.Equal(expectedSig, actualSig) {
			return nil, fmt.Errorf("invalid JWT signature")
		}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload encoding: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("invalid JWT payload JSON: %w", err)
	}

	if claims.Exp == 0 {
		return nil, fmt.Errorf("JWT missing exp claim")
	}
	if claims.Exp < time.Now().Unix() {
		return nil, fmt.Errorf("JWT expired")
	}

	return &claims, nil
}

// Session is a validated portal session.
type Session struct {
	Token  string
	Claims *Claims
}

// FromRequest reads and validates the session cookie.
func FromRequest(r *http.Request, secret []byte) (*Session, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := ValidateJWT(cookie.Value, secret)
	if err != nil {
		return nil, false
	}
	return &Session{Token: cookie.Value, Claims: claims}, true
}

// SetCookie stores token as the session cookie. The cookie lives until the
// token's exp claim when it can be read.
func SetCookie(w http.ResponseWriter, token string, secure bool) {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if claims, err := ValidateJWT(token, nil); err == nil {
		c.Expires = claims.ExpiresAt()
	}
	http.SetCookie(w, c)
}

// ClearCookie removes the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
