package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/bobmcallan/stockrec-portal/internal/models"
)

// Login exchanges a Google ID credential for a backend session via
// POST /api/auth/google {credential}.
func (c *Client) Login(ctx context.Context, credential string) (*models.AuthSession, error) {
	if credential == "" {
		return nil, errors.New("credential is required")
	}
	var session models.AuthSession
	body := map[string]string{"credential": credential}
	if err := c.do(ctx, http.MethodPost, "/api/auth/google", nil, body, &session); err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, errors.New("backend returned no session token")
	}
	return &session, nil
}
