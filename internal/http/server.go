package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"saldo/internal/log"
	"saldo/internal/middleware/ratelimit"
	"saldo/internal/middleware/security"
	"saldo/internal/middleware/trace"
	"saldo/internal/services"
)

// Options configures a Server.
type Options struct {
	Addr               string
	Currency           string
	RateLimitPerMinute int
	// Ping reports storage readiness; nil means always ready.
	Ping   func(ctx context.Context) error
	Logger *log.Logger
}

type Server struct {
	http.Server
	tracker  *services.Tracker
	exporter *services.ExportService
	ping     func(ctx context.Context) error
	currency string
	logger   *log.Logger
	events   *log.StructuredLogger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(tracker *services.Tracker, exporter *services.ExportService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		tracker:  tracker,
		exporter: exporter,
		ping:     opts.Ping,
		currency: opts.Currency,
		logger:   logger,
		events:   log.NewStructuredLogger(logger),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/balance", s.handleBalance)
	mux.HandleFunc("GET /api/ledger", s.handleLedger)
	mux.HandleFunc("DELETE /api/ledger", s.handleClearLedger)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("PUT /api/anchor", s.handleSetAnchor)
	mux.HandleFunc("GET /api/target", s.handleGetTarget)
	mux.HandleFunc("PUT /api/target", s.handleSetTarget)
	mux.HandleFunc("GET /api/aggregates", s.handleAggregates)
	mux.HandleFunc("GET /api/projection", s.handleProjection)
	mux.HandleFunc("GET /api/export", s.handleExport)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.middleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// middleware wraps h with tracing, security headers, suspicious request
// detection and rate limiting of mutating requests, outermost first.
func (s *Server) middleware(h http.Handler) http.Handler {
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		TooManyRequestsError().Write(w)
	}
	h = s.limiter.Middleware(s.detector.ExtractClientIP, onLimit,
		http.MethodPost, http.MethodPut, http.MethodDelete)(h)
	h = s.detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	return s.tracer.Middleware(h)
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
