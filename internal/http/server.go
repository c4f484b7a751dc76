package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"financas/internal/cache"
	"financas/internal/log"
	"financas/internal/report"
	"financas/internal/service"
)

// Server exposes the ledger over a JSON API. Report responses are cached per
// year/month; every mutation purges the caches so deletes and edits are
// immediately visible to readers.
type Server struct {
	http.Server
	svc         *service.TransactionService
	logger      *log.Logger
	rateLimiter *rateLimiter

	kpiCache       *cache.LRU[report.Kpis]
	breakdownCache *cache.LRU[[]report.CategoryTotal]
	seriesCache    *cache.LRU[[]report.TimePoint]

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc *service.TransactionService, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:            svc,
		logger:         logger.WithComponent(log.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		kpiCache:       cache.New[report.Kpis](100, 5*time.Minute),
		breakdownCache: cache.New[[]report.CategoryTotal](100, 5*time.Minute),
		seriesCache:    cache.New[[]report.TimePoint](100, 5*time.Minute),
	}

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/kpis", s.handleKpis)
	mux.HandleFunc("GET /api/categories", s.handleCategoryBreakdown)
	mux.HandleFunc("GET /api/timeseries", s.handleTimeSeries)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	s.Handler = log.Middleware(s.logger)(s.withLimits(mux))

	return s
}

// withLimits applies rate limiting to mutating requests and sets the usual
// hardening headers.
func (s *Server) withLimits(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// purgeReportCaches drops every cached report. Called after each mutation;
// the cumulative balance means a write to any month can change the numbers of
// every later month, so per-key invalidation would be wrong.
func (s *Server) purgeReportCaches() {
	s.kpiCache.Purge()
	s.breakdownCache.Purge()
	s.seriesCache.Purge()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
