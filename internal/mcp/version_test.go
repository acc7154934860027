package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/stockrec-portal/internal/client"
)

func TestVersionToolHandler_Combined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/version" {
			json.NewEncoder(w).Encode(map[string]string{
				"version":    "2.4.0",
				"build":      "20260301",
				"git_commit": "abc1234",
			})
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	handler := VersionToolHandler(client.New(srv.URL))

	result, err := handler(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %v", result.Content)
	}

	var combined map[string]versionInfo
	text := result.Content[0].(mcpgo.TextContent).Text
	if err := json.Unmarshal([]byte(text), &combined); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if _, ok := combined["stockrec_portal"]; !ok {
		t.Error("missing stockrec_portal in response")
	}

	if srvInfo, ok := combined["stockrec_backend"]; !ok {
		t.Error("missing stockrec_backend in response")
	} else {
		if srvInfo.Version != "2.4.0" {
			t.Errorf("expected backend version 2.4.0, got %s", srvInfo.Version)
		}
		if srvInfo.Commit != "abc1234" {
			t.Errorf("expected backend commit abc1234, got %s", srvInfo.Commit)
		}
	}
}

func TestVersionToolHandler_BackendUnreachable(t *testing.T) {
	handler := VersionToolHandler(client.New("http://127.0.0.1:1"))

	result, err := handler(t.Context(), mcpgo.CallToolRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatal("should not be an error result when backend is unreachable")
	}

	var combined map[string]versionInfo
	text := result.Content[0].(mcpgo.TextContent).Text
	if err := json.Unmarshal([]byte(text), &combined); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if _, ok := combined["stockrec_portal"]; !ok {
		t.Error("missing stockrec_portal in response")
	}
	if _, ok := combined["stockrec_backend"]; ok {
		t.Error("stockrec_backend should be omitted when backend is unreachable")
	}
}
