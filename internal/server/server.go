package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/claude/liftstats/internal/analytics"
	"github.com/claude/liftstats/internal/config"
	"github.com/claude/liftstats/internal/ingest/alpha"
	"github.com/claude/liftstats/internal/metrics"
	"github.com/claude/liftstats/internal/models"
	"github.com/claude/liftstats/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the storage used by the handlers. Imports write through the
// alpha provider instead.
type Store interface {
	LoadSessions(ctx context.Context) ([]models.WorkoutSession, error)
	LoadSession(ctx context.Context, id uuid.UUID) (*models.WorkoutSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
	GetDataStats(ctx context.Context) (*storage.DataStats, error)
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	QueryImportLogs(ctx context.Context, limit int) ([]storage.ImportLog, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	alpha   *alpha.Provider
	runner  *analytics.Runner
	metrics *metrics.Manager
	prefs   atomic.Pointer[config.AnalyticsConfig]
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. m may be nil.
func New(store Store, alphaProvider *alpha.Provider, runner *analytics.Runner, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:   store,
		alpha:   alphaProvider,
		runner:  runner,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.prefs.Store(&config.AnalyticsConfig{
		WeightUnit:   string(models.Kilograms),
		DistanceUnit: string(models.Kilometers),
	})
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetAnalytics replaces the default analytics preferences. Requests already
// in flight keep the preferences they started with.
func (s *Server) SetAnalytics(a config.AnalyticsConfig) {
	s.prefs.Store(&a)
	s.log.Info("analytics preferences updated",
		"include_warmup", a.IncludeWarmUp,
		"include_drop_set", a.IncludeDropSet,
		"include_cool_down", a.IncludeCoolDown,
		"weight_unit", a.WeightUnit,
		"distance_unit", a.DistanceUnit,
	)
}

// Analytics returns the current default preferences.
func (s *Server) Analytics() config.AnalyticsConfig {
	return *s.prefs.Load()
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/alpha", s.handleAlphaIngest)
	})
	s.router.With(APIKeyAuth(s.apiKey)).Delete("/api/v1/sessions/{id}", s.handleDeleteSession)

	// Read endpoints (no auth; tsnet handles access)
	s.router.Get("/api/v1/analytics", s.handleAnalytics)
	s.router.Post("/api/v1/analytics/refresh", s.handleRefresh)
	s.router.Get("/api/v1/analytics/latest", s.handleLatest)
	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/sessions", s.handleSessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleSession)
	s.router.Get("/api/v1/sessions/{id}/score", s.handleSessionScore)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/import-logs", s.handleImportLogs)
}

// SetMCP mounts an MCP transport handler at /mcp.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetMetrics mounts the Prometheus exposition for g at /metrics.
func (s *Server) SetMetrics(g prometheus.Gatherer) {
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
