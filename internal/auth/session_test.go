package auth

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
)

func mintJWT(t *testing.T, claims map[string]interface{}, secret []byte) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payloadJSON, err := json.Marshal(claims)
	if err != nil {
		t.Fatal(err)
	}
	payload := base64.RawURLEncoding.EncodeToString(payloadJSON)

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(header + "." + payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return header + "." + payload + "." + sig
}

func validClaims() map[string]interface{} {
	return map[string]interface{}{
		"sub":   "user-1",
		"email": "alice@example.com",
		"name":  "Alice",
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
}

func TestValidateJWT_Valid(t *testing.T) {
	secret := []byte("test-secret")
	token := mintJWT(t, validClaims(), secret)

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Sub != "user-1" || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.UserID() != "user-1" {
		t.Errorf("expected user id user-1, got %s", claims.UserID())
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token := mintJWT(t, validClaims(), []byte("one"))
	if _, err := ValidateJWT(token, []byte("two")); err == nil {
		t.Error("expected signature error")
	}
}

func TestValidateJWT_NoSecretSkipsSignature(t *testing.T) {
	token := mintJWT(t, validClaims(), []byte("anything"))
	if _, err := ValidateJWT(token, nil); err != nil {
		t.Errorf("expected success without secret, got %v", err)
	}
}

func TestValidateJWT_Expired(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := mintJWT(t, claims, nil)
	if _, err := ValidateJWT(token, nil); err == nil || !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expiry error, got %v", err)
	}
}

func TestValidateJWT_MissingExp(t *testing.T) {
	claims := validClaims()
	delete(claims, "exp")
	if _, err := ValidateJWT(mintJWT(t, claims, nil), nil); err == nil {
		t.Error("expected error for missing exp")
	}
}

func TestValidateJWT_Malformed(t *testing.T) {
	for _, token := range []string{"", "a.b", "a.b.c.d", "a.!!!.c"} {
		if _, err := ValidateJWT(token, nil); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}

func TestUserID_FallsBackToEmail(t *testing.T) {
	c := &Claims{Email: "bob@example.com"}
	if c.UserID() != "bob@example.com" {
		t.Errorf("expected email fallback, got %s", c.UserID())
	}
}

func TestSetCookieAndFromRequest(t *testing.T) {
	secret := []byte("s")
	token := mintJWT(t, validClaims(), secret)

	rec := httptest.NewRecorder()
	SetCookie(rec, token, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || !c.HttpOnly || !c.Secure {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if c.Expires.IsZero() {
		t.Error("expected cookie expiry from exp claim")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	sess, ok := FromRequest(req, secret)
	if !ok {
		t.Fatal("expected valid session")
	}
	if sess.Token != token || sess.Claims.Name != "Alice" {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestFromRequest_NoCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromRequest(req, nil); ok {
		t.Error("expected no session")
	}
}

func TestClearCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearCookie(rec)
	c := rec.Result().Cookies()[0]
	if c.Name != CookieName || c.MaxAge >= 0 {
		t.Errorf("expected expired session cookie, got %+v", c)
	}
}
