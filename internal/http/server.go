package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendwise/internal/analytics"
	applog "spendwise/internal/log"
	"spendwise/internal/middleware/ratelimit"
	"spendwise/internal/middleware/security"
	"spendwise/internal/middleware/trace"
	"spendwise/internal/repository"
	"spendwise/internal/services"
)

// Defaults applied to query parameters.
const (
	defaultDailyDays = 30
	maxDailyDays     = 366
	defaultMonths    = 6
	maxMonths        = 60
	defaultRecent    = 10
	maxListLimit     = 10000
)

// Deps are the collaborators the API serves.
type Deps struct {
	Service   *services.TransactionService
	Sessions  *repository.Sessions
	Analytics *analytics.Engine
	Logger    *applog.Logger
	// RateLimiter is optional; nil serves every request.
	RateLimiter *ratelimit.Limiter
}

type Server struct {
	http.Server
	repo     *repository.Repository
	service  *services.TransactionService
	sessions *repository.Sessions
	engine   *analytics.Engine
	trace    *trace.Middleware
	limiter  *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		repo:     deps.Service.Repository(),
		service:  deps.Service,
		sessions: deps.Sessions,
		engine:   deps.Analytics,
		trace:    trace.NewMiddleware(),
		limiter:  deps.RateLimiter,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PATCH /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/totals", s.handleTotals)

	mux.HandleFunc("GET /api/analytics/categories", s.handleCategories)
	mux.HandleFunc("GET /api/analytics/breakdown", s.handleBreakdown)
	mux.HandleFunc("GET /api/analytics/daily", s.handleDaily)
	mux.HandleFunc("GET /api/analytics/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/analytics/heatmap", s.handleHeatmap)
	mux.HandleFunc("GET /api/analytics/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/session", s.handleGetSession)
	mux.HandleFunc("PUT /api/session", s.handlePutSession)
	mux.HandleFunc("DELETE /api/session", s.handleDeleteSession)

	var h http.Handler = mux
	if s.limiter != nil {
		h = s.limiter.Middleware(trace.ClientIP, s.handleRateLimited)(h)
	}
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestID)(h)
	h = s.trace.Middleware(h)
	h = applog.Middleware(logger)(h)
	s.Handler = h

	return s
}

// Metrics returns the request counters.
func (s *Server) Metrics() trace.Metrics {
	return s.trace.GetMetrics()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
