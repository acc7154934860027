package handlers

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/stockrec-portal/internal/auth"
	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
)

// AuthHandler exchanges Google credentials for a backend session.
type AuthHandler struct {
	logger       *common.Logger
	backend      *client.Client
	secureCookie bool
}

// NewAuthHandler creates a new auth handler. secureCookie marks the session
// cookie Secure and should be set outside dev mode.
func NewAuthHandler(logger *common.Logger, backend *client.Client, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		backend:      backend,
		secureCookie: secureCookie,
	}
}

type googleLoginRequest struct {
	Credential string `json:"credential"`
}

// HandleGoogleLogin handles POST /api/auth/google.
// It forwards the Google ID token to the backend, stores the returned JWT as
// the session cookie and echoes the user.
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req googleLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		WriteError(w, http.StatusBadRequest, "credential is required")
		return
	}

	session, err := h.backend.Login(r.Context(), credential)
	if err != nil {
		h.logger.Warn().Err(err).Msg("google login failed")
		writeUpstreamError(w, err)
		return
	}

	auth.SetCookie(w, session.Token, h.secureCookie)

	h.logger.Info().Str("user", session.User.Email).Msg("user signed in")
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"user":   session.User,
	})
}

// HandleLogout handles POST /api/auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}
	auth.ClearCookie(w)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
