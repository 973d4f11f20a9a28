package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/FocuswithJustin/KanjiLens/core/dictionary"
	"github.com/FocuswithJustin/KanjiLens/internal/config"
	"github.com/FocuswithJustin/KanjiLens/internal/engine"
	"github.com/FocuswithJustin/KanjiLens/internal/metrics"
	"github.com/FocuswithJustin/KanjiLens/internal/store"
)

// newTestServer returns a server over a fresh store. mutate may adjust
// the configuration before the server is built.
func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()

	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	appCfg := config.Default()
	m := metrics.New()
	eng := engine.New(st, appCfg, engine.WithObserver(m))

	cfg := ConfigFrom(appCfg)
	cfg.CacheTTL = time.Minute
	if mutate != nil {
		mutate(&cfg)
	}
	return New(cfg, st, eng, m)
}

// useSmallDictionary stores a three-rank dictionary, level 1, 猫 as known
// and 六 as seen.
func useSmallDictionary(t *testing.T, s *Server) {
	t.Helper()
	ctx := context.Background()
	if err := s.store.SetDictionary(ctx, dictionary.New("small", 1, "一二", "三", "四五六")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.store.SetList(ctx, store.Known, "猫"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.store.SetList(ctx, store.Seen, "六"); err != nil {
		t.Fatal(err)
	}
	s.settingsChanged("test")
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// decode unmarshals the envelope and its data into data.
func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) APIResponse {
	t.Helper()
	var raw struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("failed to decode data %s: %v", raw.Data, err)
		}
	}
	return raw.APIResponse
}

func TestHandlerSecurityHeaders(t *testing.T) {
	s := newTestServer(t, nil)
	w := do(t, s.Handler(), http.MethodGet, "/health", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected X-Content-Type-Options header")
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("expected Content-Security-Policy header")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("expected permissive CORS without configured origins")
	}
}

func TestHandlerRestrictedCORS(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.AllowedOrigins = []string{"https://reader.example"} })

	req := httptest.NewRequest(http.MethodOptions, "/annotate", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("preflight from unknown origin: status %d, want 403", w.Code)
	}
}

func TestHandlerRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RateLimitRequests = 60
		c.RateLimitBurst = 2
	})
	h := s.Handler()

	for i := 0; i < 2; i++ {
		if w := do(t, h, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := do(t, h, http.MethodGet, "/health", "", "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if resp := decode(t, w, nil); resp.Error == nil || resp.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("unexpected error body: %s", w.Body.String())
	}
}

func TestSnapshotCaching(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()

	a, err := s.snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the cached snapshot to be reused")
	}

	s.settingsChanged("level")
	c, err := s.snapshot(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c == a {
		t.Error("expected a new snapshot after a settings change")
	}
}

func TestRunShutsDown(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Port = 0 })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
