// Package api provides the KanjiLens HTTP and websocket server.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FocuswithJustin/KanjiLens/internal/cache"
	"github.com/FocuswithJustin/KanjiLens/internal/engine"
	"github.com/FocuswithJustin/KanjiLens/internal/logging"
	"github.com/FocuswithJustin/KanjiLens/internal/metrics"
	"github.com/FocuswithJustin/KanjiLens/internal/server"
	"github.com/FocuswithJustin/KanjiLens/internal/store"
)

// Version is reported by the root and health endpoints.
var Version = "dev"

// Server serves annotation requests from one settings store.
type Server struct {
	cfg       Config
	store     *store.Store
	engine    *engine.Engine
	metrics   *metrics.Metrics
	snapshots *cache.TTL[*engine.Snapshot]
	hub       *Hub
	limiter   *RateLimiter
	started   time.Time
}

// New creates a server. The engine should report to m so that fallbacks
// and compile cache lookups show up on /metrics.
func New(cfg Config, st *store.Store, eng *engine.Engine, m *metrics.Metrics) *Server {
	if cfg.MaxMessageRate < 1 {
		cfg.MaxMessageRate = 10
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 64 << 10
	}
	s := &Server{
		cfg:       cfg,
		store:     st,
		engine:    eng,
		metrics:   m,
		snapshots: cache.New[*engine.Snapshot](cfg.CacheTTL),
		hub:       NewHub(m.WebSocketClients),
		started:   time.Now(),
	}
	if cfg.RateLimitRequests > 0 {
		s.limiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerMinute: cfg.RateLimitRequests,
			BurstSize:         cfg.RateLimitBurst,
		})
	}
	return s
}

// Hub returns the websocket hub. It must be running, see Run, before
// websocket clients connect.
func (s *Server) Hub() *Hub { return s.hub }

// Run serves on the configured port until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go s.hub.Run(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if len(s.cfg.AllowedOrigins) > 0 {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "restricted",
			"allowed_origins_count", len(s.cfg.AllowedOrigins))
	} else {
		logging.SecurityEvent("cors_configured", "api",
			"mode", "permissive",
			"note", "allowing all origins (*)")
	}
	if s.limiter != nil {
		logging.Info("rate limiting enabled", "requests_per_minute", s.cfg.RateLimitRequests)
	}
	logging.ServerStartup("rest_api", "http", s.cfg.Port, "websocket_protocol", "ws")

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.routes()
	handler = server.SecurityHeadersWithCSP(server.APICSPConfig(), handler)
	if s.limiter != nil {
		handler = s.limiter.Middleware(handler)
	}
	handler = server.CORSMiddlewareWithConfig(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}, handler)
	return logging.CombinedMiddleware(handler)
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/annotate", s.handleAnnotate)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/kanji/known", s.handleKanjiList(true))
	mux.HandleFunc("/kanji/unknown", s.handleKanjiList(false))
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/style.css", s.handleStyle)
	mux.HandleFunc("/settings", s.handleSettings)
	mux.HandleFunc("/dictionary", s.handleDictionary)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/ws", s.handleWebSocket)

	return mux
}

// snapshot returns the cached annotator snapshot, building a new one
// when the cached one expired or settings changed.
func (s *Server) snapshot(ctx context.Context) (*engine.Snapshot, error) {
	return s.snapshots.Load(func() (*engine.Snapshot, error) {
		return s.engine.Snapshot(ctx)
	})
}

// settingsChanged drops the cached snapshot and tells websocket clients to
// re-annotate.
func (s *Server) settingsChanged(what string) {
	s.snapshots.Invalidate()
	s.hub.Broadcast(Message{Type: "settings", Setting: what})
	logging.Debug("snapshot invalidated", "setting", what)
}
