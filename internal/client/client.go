package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of an answer is read.
const maxResponseBytes = 4 << 20

// UpstreamError is a non-2xx answer from the recommendation backend.
type UpstreamError struct {
	Status int
	Body   string
	Path   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend %s: %d", e.Path, e.Status)
	}
	return fmt.Sprintf("backend %s: %d: %s", e.Path, e.Status, e.Body)
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Status == http.StatusNotFound
}

type tokenKey struct{}

// WithToken returns a context whose backend requests carry token as a bearer credential.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	s, _ := ctx.Value(tokenKey{}).(string)
	return s
}

// Client communicates with the recommendation backend REST API.
// Every call honours its context: cancelling it aborts the request.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client targeting baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend URL the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks GET /api/health on the backend.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

// Version returns the backend's version fields (version, build, git_commit).
func (c *Client) Version(ctx context.Context) (map[string]string, error) {
	var v map[string]string
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, nil, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// do performs one request. in is JSON-encoded when non-nil; out receives the
// decoded answer (single objects may be wrapped in a {"data": ...} envelope).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	body, err := c.raw(ctx, method, path, query, in)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(unwrapObject(body), out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) raw(ctx context.Context, method, path string, query url.Values, in any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := tokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(body))
		if len(msg) > 512 {
			msg = msg[:512]
		}
		return nil, &UpstreamError{Status: resp.StatusCode, Body: msg, Path: path}
	}
	return body, nil
}

// getList fetches a list endpoint. The backend answers either with a bare
// array or with an envelope keyed data, items or results.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	body, err := c.raw(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeList[T](body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return items, nil
}

func decodeList[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return []T{}, nil
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return nonNil(items), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	for _, key := range []string{"data", "items", "results"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		return decodeList[T](raw)
	}
	return nil, errors.New("expected array or data/items/results envelope")
}

// unwrapObject strips a {"data": {...}} envelope around a single object.
func unwrapObject(body []byte) []byte {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return body
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return body
	}
	raw, ok := envelope["data"]
	if !ok {
		return body
	}
	inner := bytes.TrimSpace(raw)
	if len(inner) > 0 && inner[0] == '{' {
		return inner
	}
	return body
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {fmt.Sprintf("%d", limit)}}
}
