package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/adapter/http/handler"
	apimiddleware "github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/adapter/repository/memory"
	redisrepo "github.com/iho/cashbook/internal/adapter/repository/redis"
	redissink "github.com/iho/cashbook/internal/adapter/sink/redis"
	"github.com/iho/cashbook/internal/statement"
	"github.com/iho/cashbook/internal/usecase"
)

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id%03d", g.n)
}

func newRouterConfig(t *testing.T, sink usecase.ExportSink, opts ...func(*RouterConfig)) RouterConfig {
	t.Helper()

	repo := memory.NewEntryRepository(&seqIDs{})
	entries := usecase.NewEntryUseCase(repo, nil, zerolog.Nop())
	statements := usecase.NewStatementUseCase(entries, statement.NewFormatter(statement.Options{}), sink, nil, zerolog.Nop())

	cfg := RouterConfig{
		EntryHandler:     handler.NewEntryHandler(entries),
		StatementHandler: handler.NewStatementHandler(statements),
		LedgerHandler:    handler.NewLedgerHandler(usecase.NewLedgerUseCase(entries)),
		HealthHandler:    handler.NewHealthHandler(repo, nil),
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	rec := do(t, router, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected /ready to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_SecurityHeaders(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	rec := do(t, router, http.MethodGet, "/health", "")
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("expected X-Frame-Options DENY, got %q", rec.Header().Get("X-Frame-Options"))
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff header")
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil, func(cfg *RouterConfig) {
		cfg.RateLimitPerMinute = 1
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}

	// health stays outside the limiter
	req3 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req3.RemoteAddr = "1.2.3.4:1234"
	rec3 := httptest.NewRecorder()
	router.ServeHTTP(rec3, req3)
	if rec3.Code != http.StatusOK {
		t.Fatalf("expected /health to bypass the limiter, got %d", rec3.Code)
	}
}

func TestNewRouter_EntryLifecycle(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	rec := do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-01","particulars":"Alice","credit":"100"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create Alice: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var alice dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &alice); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-02","particulars":"Bob","debit":40}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create Bob: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/v1/entries?q=bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var list dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 || !list.Entries[0].Balance.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected Bob with balance 60, got %+v", list)
	}

	rec = do(t, router, http.MethodPut, "/api/v1/entries/"+alice.ID, `{"particulars":"Alice","credit":"150"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/v1/ledger/summary", "")
	var summary dto.SummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !summary.ClosingBalance.Equal(decimal.NewFromInt(110)) {
		t.Fatalf("expected closing balance 110, got %s", summary.ClosingBalance)
	}

	rec = do(t, router, http.MethodDelete, "/api/v1/entries/"+alice.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	rec = do(t, router, http.MethodGet, "/api/v1/entries/"+alice.ID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", rec.Code)
	}
}

func TestNewRouter_ValidationError(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	rec := do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-01","particulars":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var errResp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errResp.Error == "" {
		t.Fatalf("expected error code in body")
	}
}

func TestNewRouter_StatementCSV(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-01","particulars":"Rent, January","credit":"100"}`)

	rec := do(t, router, http.MethodGet, "/api/v1/statement?format=csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("expected csv content type, got %q", rec.Header().Get("Content-Type"))
	}
	if !strings.Contains(rec.Body.String(), `"Rent, January"`) {
		t.Fatalf("expected quoted particulars, got:\n%s", rec.Body.String())
	}
}

func TestNewRouter_ShareDisabled(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	rec := do(t, router, http.MethodPost, "/api/v1/statement/share", "")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501 without a sink, got %d", rec.Code)
	}
}

func TestNewRouter_ShareThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sink := redissink.New(redisrepo.NewStatementStore(client), &seqIDs{}, time.Hour)
	router := NewRouter(newRouterConfig(t, sink))

	do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-01","particulars":"Alice","credit":"100"}`)

	rec := do(t, router, http.MethodPost, "/api/v1/statement/share", `{"format":"text"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("share: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var receipt dto.ShareReceiptResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.Token == "" || receipt.ExpiresAt == nil {
		t.Fatalf("expected token and expiry, got %+v", receipt)
	}

	rec = do(t, router, http.MethodGet, receipt.URL, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("shared: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Alice") {
		t.Fatalf("expected stored statement, got %q", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/api/v1/statement/shared/unknown", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown token: expected 404, got %d", rec.Code)
	}
}

func TestNewRouter_IdempotentCreateReplays(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := NewRouter(newRouterConfig(t, nil, func(cfg *RouterConfig) {
		cfg.IdempotencyStore = redisrepo.NewIdempotencyStore(client)
		cfg.IdempotencyTTL = time.Hour
	}))

	body := `{"date":"2024-01-01","particulars":"Alice","credit":"100"}`
	first := do(t, router, http.MethodPost, "/api/v1/entries", body, apimiddleware.IdempotencyKeyHeader, "key-123")
	second := do(t, router, http.MethodPost, "/api/v1/entries", body, apimiddleware.IdempotencyKeyHeader, "key-123")

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected 201 twice, got %d and %d", first.Code, second.Code)
	}
	if second.Header().Get(apimiddleware.IdempotencyReplayHeader) != "true" {
		t.Fatalf("expected replay header on second response")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical bodies:\n%s\n%s", first.Body.String(), second.Body.String())
	}

	rec := do(t, router, http.MethodGet, "/api/v1/entries", "")
	var list dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("expected a single stored entry, got %d", list.Total)
	}
}

func TestNewRouter_LedgerConsistency(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	do(t, router, http.MethodPost, "/api/v1/entries", `{"date":"2024-01-01","particulars":"Alice","credit":"100"}`)

	rec := do(t, router, http.MethodGet, "/api/v1/ledger/consistency", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var report dto.ReconciliationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !report.Consistent || report.TotalEntries != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	router := NewRouter(newRouterConfig(t, nil, func(cfg *RouterConfig) {
		cfg.MetricsRegisterer = registry
		cfg.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}))

	do(t, router, http.MethodGet, "/api/v1/entries", "")

	rec := do(t, router, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "/api/v1/entries") {
		t.Fatalf("expected request metrics in output")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig(t, nil))

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/entries/",
		"POST /api/v1/entries/",
		"GET /api/v1/entries/{id}",
		"PUT /api/v1/entries/{id}",
		"DELETE /api/v1/entries/{id}",
		"GET /api/v1/statement/",
		"POST /api/v1/statement/share",
		"GET /api/v1/statement/shared/{token}",
		"GET /api/v1/ledger/summary",
		"GET /api/v1/ledger/consistency",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}
