package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"pocket/internal/ledger"
	"pocket/internal/log"
)

type Server struct {
	http.Server
	ledger      *ledger.Ledger
	logger      *log.Logger
	access      *log.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics
	ready       func(context.Context) error

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithLogger sets the base logger. Requests log through a child carrying the
// request id.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithReadiness installs the check behind /readyz.
func WithReadiness(check func(context.Context) error) Option {
	return func(s *Server) { s.ready = check }
}

// WithRateLimit overrides how many writes one client may send per window.
func WithRateLimit(limit int, window time.Duration) Option {
	return func(s *Server) {
		s.rateLimiter.stop()
		s.rateLimiter = newRateLimiter(limit, window)
	}
}

func NewServer(addr string, l *ledger.Ledger, opts ...Option) *Server {
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ledger:      l,
		logger:      log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(defaultRateLimit, time.Minute),
		metrics:     &securityMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.access = log.NewStructuredLogger(s.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("POST /api/accounts", s.handleCreateAccount)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleEditAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccount)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("POST /api/period/reset", s.handleResetPeriod)
	mux.HandleFunc("GET /api/history", s.handleListHistory)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/summary.html", s.handleSummaryHTML)
	mux.HandleFunc("GET /api/catalog", s.handleCatalog)
	mux.HandleFunc("GET /api/currency", s.handleGetCurrency)
	mux.HandleFunc("PUT /api/currency", s.handleSetCurrency)

	mux.HandleFunc("GET /api/export/expenses.csv", s.handleExportExpensesCSV)
	mux.HandleFunc("GET /api/export/history.csv", s.handleExportHistoryCSV)
	mux.HandleFunc("GET /api/export/ledger.xlsx", s.handleExportXLSX)

	var h http.Handler = mux
	h = s.withSecurity(h)
	h = log.RequestIDMiddleware(RequestIDFromContext)(h)
	h = log.Middleware(s.logger)(h)
	h = s.withTrace(h)
	s.Handler = h

	return s
}

// Shutdown stops the rate limiter and drains the HTTP server. Only the first
// call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Run serves until ctx is cancelled, then shuts down within
// timeout. A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	s.logger.Info("Shutting down HTTP server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			log.FromContextOr(r.Context(), s.logger).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
