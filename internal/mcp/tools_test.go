package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/stockrec-portal/internal/cache"
	"github.com/bobmcallan/stockrec-portal/internal/client"
	"github.com/bobmcallan/stockrec-portal/internal/common"
	"github.com/bobmcallan/stockrec-portal/internal/regime"
)

// --- Helpers ---

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func newTestServer(t *testing.T, mux *http.ServeMux) *mcpserver.MCPServer {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	backend := client.New(srv.URL, client.WithTimeout(2*time.Second))
	regimes := regime.NewService(backend, cache.NewMemoryStore(100), time.Minute, 2, common.NewSilentLogger())
	return NewServer(backend, regimes, common.NewSilentLogger())
}

// listTools calls tools/list on the MCPServer and returns the tools.
func listTools(t *testing.T, s *mcpserver.MCPServer) []mcpgo.Tool {
	t.Helper()

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(t.Context(), msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("failed to marshal result: %v", err)
	}

	var toolsResult mcpgo.ListToolsResult
	if err := json.Unmarshal(resultJSON, &toolsResult); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}

	return toolsResult.Tools
}

// callTool calls a tool on the MCPServer and returns the text and error flag.
func callTool(t *testing.T, ctx context.Context, s *mcpserver.MCPServer, name string, args map[string]interface{}) (string, bool) {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":` + string(paramsJSON) + `}`)
	result := s.HandleMessage(ctx, msg)

	resp, ok := result.(mcpgo.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}

	resultJSON, _ := json.Marshal(resp.Result)
	var callResult struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	if err := json.Unmarshal(resultJSON, &callResult); err != nil {
		t.Fatalf("failed to unmarshal CallToolResult: %v", err)
	}
	if len(callResult.Content) == 0 {
		t.Fatal("expected content in tool result")
	}
	return callResult.Content[0].Text, callResult.IsError
}

// --- Catalog ---

func TestNewServer_RegistersCatalog(t *testing.T) {
	s := newTestServer(t, http.NewServeMux())
	tools := listTools(t, s)

	if len(tools) != len(Catalog()) {
		t.Fatalf("expected %d tools, got %d", len(Catalog()), len(tools))
	}
	byName := map[string]mcpgo.Tool{}
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	rec, ok := byName["get_recommendation"]
	if !ok {
		t.Fatal("get_recommendation not registered")
	}
	if len(rec.InputSchema.Required) != 1 || rec.InputSchema.Required[0] != "symbol" {
		t.Errorf("expected symbol required, got %v", rec.InputSchema.Required)
	}
}

// --- Tools ---

func TestGetRecommendation_LatestWithRegimeAndToken(t *testing.T) {
	var gotAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("GET /recommendations/{symbol}/history", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("expected limit=1, got %s", r.URL.Query().Get("limit"))
		}
		respond(200, `[{"symbol":"AAPL","action":"buy","normalized_score":0.72,"confidence":0.8}]`)(w, r)
	})
	mux.HandleFunc("GET /regime/{symbol}", respond(200, `{"label":"strong_bull","risk_level":"low"}`))
	s := newTestServer(t, mux)

	ctx := WithUserContext(t.Context(), UserContext{UserID: "alice", Token: "tok-123"})
	text, isErr := callTool(t, ctx, s, "get_recommendation", map[string]interface{}{"symbol": "aapl"})

	if isErr {
		t.Fatalf("unexpected error: %s", text)
	}
	for _, want := range []string{"# AAPL", "**Action:** BUY", "**Score:** 72%", "strong bull"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in:\n%s", want, text)
		}
	}
	if gotAuth.Load() != "Bearer tok-123" {
		t.Errorf("expected caller token forwarded, got %v", gotAuth.Load())
	}
}

func TestGetRecommendation_NoneStored(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /recommendations/{symbol}/history", respond(404, `{"error":"not found"}`))
	s := newTestServer(t, mux)

	text, isErr := callTool(t, t.Context(), s, "get_recommendation", map[string]interface{}{"symbol": "ZZZ"})
	if isErr || !strings.Contains(text, "on_demand=true") {
		t.Errorf("expected a hint to use on_demand, got %q", text)
	}
}

func TestGetRecommendation_OnDemand(t *testing.T) {
	var body map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /recommendations/on-demand", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		respond(200, `{"symbol":"TSLA","action":"SELL","normalized_score":0.2,"regime":{"label":"bear","risk_level":"high"},
			"explanation":{"summary":"Negative news flow","factors":["Recall announced"]}}`)(w, r)
	})
	s := newTestServer(t, mux)

	text, isErr := callTool(t, t.Context(), s, "get_recommendation", map[string]interface{}{
		"symbol": "tsla", "company_name": "Tesla", "on_demand": true,
	})
	if isErr {
		t.Fatalf("unexpected error: %s", text)
	}
	if body["symbol"] != "TSLA" || body["companyName"] != "Tesla" {
		t.Errorf("unexpected request body %v", body)
	}
	if !strings.Contains(text, "**Action:** SELL") || !strings.Contains(text, "- Recall announced") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func TestGetRecommendation_RequiresSymbol(t *testing.T) {
	s := newTestServer(t, http.NewServeMux())
	text, isErr := callTool(t, t.Context(), s, "get_recommendation", map[string]interface{}{})
	if !isErr || !strings.Contains(text, "symbol parameter is required") {
		t.Errorf("expected required-parameter error, got %q", text)
	}
}

func TestRecommendationHistory_ClampsLimit(t *testing.T) {
	var gotLimit string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /recommendations/{symbol}/history", func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		respond(200, `{"data":[{"symbol":"MSFT","action":"HOLD","price_at_recommendation":410.5},{"symbol":"MSFT","action":"BUY"}]}`)(w, r)
	})
	s := newTestServer(t, mux)

	text, _ := callTool(t, t.Context(), s, "recommendation_history", map[string]interface{}{"symbol": "MSFT", "limit": 500})
	if gotLimit != "100" {
		t.Errorf("expected limit clamped to 100, got %s", gotLimit)
	}
	if strings.Count(text, "| HOLD |")+strings.Count(text, "| BUY |") != 2 {
		t.Errorf("expected two rows:\n%s", text)
	}
	if !strings.Contains(text, "$410.50") {
		t.Errorf("expected price column:\n%s", text)
	}
}

func TestBigCapLosers_Over10(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/big-cap-losers/with-recommendations", respond(200, `[
		{"symbol":"XYZ","company_name":"XYZ Corp","percent_change":"-12.50"},
		{"symbol":"ABC","percent_change":"-4.10"}
	]`))
	mux.HandleFunc("GET /api/big-cap-losers/over-10", respond(200, `[]`))
	mux.HandleFunc("GET /api/big-cap-losers/summary", respond(200, `{"total_losers":2,"over_10_count":1}`))
	s := newTestServer(t, mux)

	text, isErr := callTool(t, t.Context(), s, "big_cap_losers", map[string]interface{}{"over_10": true})
	if isErr {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "Down 10% or more (1)") || !strings.Contains(text, "| XYZ |") {
		t.Errorf("expected XYZ in over-10 table:\n%s", text)
	}
	if strings.Contains(text, "| ABC |") {
		t.Errorf("ABC should not be listed:\n%s", text)
	}
}

func TestBigCapLosers_BackendDown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", respond(502, ``))
	s := newTestServer(t, mux)

	_, isErr := callTool(t, t.Context(), s, "big_cap_losers", map[string]interface{}{})
	if !isErr {
		t.Error("expected error result when losers are unavailable")
	}
}

func TestMarketRegime_PartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /regime/AAPL", respond(200, `{"label":"bull","risk_level":"medium","position_sizing_multiplier":0.8}`))
	mux.HandleFunc("GET /regime/BAD", respond(500, ``))
	s := newTestServer(t, mux)

	text, isErr := callTool(t, t.Context(), s, "market_regime", map[string]interface{}{"symbols": "aapl, bad"})
	if isErr {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "| AAPL | bull | medium") || !strings.Contains(text, "0.80x") {
		t.Errorf("expected AAPL row:\n%s", text)
	}
	if !strings.Contains(text, "| BAD | unavailable") || !strings.Contains(text, "**Unavailable:** BAD") {
		t.Errorf("expected BAD marked unavailable:\n%s", text)
	}
}

func TestConnectorStatus_FallbackMarked(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/connectors/status", respond(500, ``))
	mux.HandleFunc("GET /api/v1/llm-connectors/status", respond(200, `[{"name":"openai","display_name":"OpenAI","status":"connected"}]`))
	mux.HandleFunc("GET /api/v1/crawler-services/status", respond(200, `[]`))
	s := newTestServer(t, mux)

	text, _ := callTool(t, t.Context(), s, "connector_status", nil)
	if !strings.Contains(text, "## Data connectors (backend unreachable") {
		t.Errorf("expected degraded data section:\n%s", text)
	}
	if !strings.Contains(text, "| Alpha Vantage |") {
		t.Errorf("expected fallback connectors listed:\n%s", text)
	}
	if !strings.Contains(text, "| OpenAI | Connected |") {
		t.Errorf("expected live LLM connector:\n%s", text)
	}
}

func TestCramerSummary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/jim-cramer/summary/latest", respond(200, `{"total_mentions":2,"bullish_count":1,"bearish_count":1}`))
	mux.HandleFunc("GET /api/jim-cramer/mentions/today", respond(200, `[{"symbol":"NVDA","sentiment":"bullish","context":"Buy buy buy"}]`))
	mux.HandleFunc("GET /api/jim-cramer/articles/recent", respond(404, ``))
	s := newTestServer(t, mux)

	text, isErr := callTool(t, t.Context(), s, "jim_cramer_summary", nil)
	if isErr {
		t.Fatalf("unexpected error: %s", text)
	}
	if !strings.Contains(text, "**Mentions:** 2") || !strings.Contains(text, "| NVDA | bullish | Buy buy buy |") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func TestSearchStocks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stocks/search", respond(200, `{"results":[{"symbol":"NVDA","name":"NVIDIA Corp","exchange":"NASDAQ"}]}`))
	s := newTestServer(t, mux)

	text, _ := callTool(t, t.Context(), s, "search_stocks", map[string]interface{}{"query": "nvidia"})
	if !strings.Contains(text, "| NVDA | NVIDIA Corp | NASDAQ |") {
		t.Errorf("unexpected output:\n%s", text)
	}

	text, isErr := callTool(t, t.Context(), s, "search_stocks", map[string]interface{}{"query": " "})
	if !isErr {
		t.Errorf("expected error for blank query, got %q", text)
	}
}
