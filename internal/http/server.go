// Package http serves the JSON API, the websocket live-snapshot feed
// and the Prometheus metrics endpoint.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roomledger/internal/identity"
	"roomledger/internal/log"
	"roomledger/internal/services"
)

// Services bundles everything the handlers need.
type Services struct {
	Budget    *services.BudgetService
	Expenses  *services.ExpenseService
	Roommates *services.RoommateService
	Cleaning  *services.CleaningService
	WaterDuty *services.WaterDutyService
	Analytics *services.AnalyticsService
	Reset     *services.ResetService
	Identity  *identity.Store
}

type Server struct {
	http.Server
	svc          Services
	logger       *log.Logger
	rateLimiter  *rateLimiter
	metrics      *metrics
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server listening on addr.
func NewServer(addr string, svc Services, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		svc:         svc,
		logger:      logger.WithComponent(log.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		metrics:     newMetrics(),
	}

	api := http.NewServeMux()

	api.HandleFunc("GET /api/budget", s.handleGetBudget)
	api.HandleFunc("PUT /api/budget", s.handleSetBudget)
	api.HandleFunc("GET /api/budget/status", s.handleBudgetStatus)

	api.HandleFunc("GET /api/expenses", s.handleListExpenses)
	api.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	api.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	api.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	api.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	api.HandleFunc("DELETE /api/expenses", s.handleClearExpenses)

	api.HandleFunc("GET /api/roommates", s.handleListRoommates)
	api.HandleFunc("POST /api/roommates", s.handleCreateRoommate)
	api.HandleFunc("DELETE /api/roommates/{id}", s.handleDeleteRoommate)
	api.HandleFunc("PUT /api/roommates/{id}/balance", s.handleSetBalance)
	api.HandleFunc("POST /api/roommates/split", s.handleSplitEqually)
	api.HandleFunc("POST /api/roommates/reset", s.handleResetBalances)

	api.HandleFunc("GET /api/cleaning-tasks", s.handleListCleaningTasks)
	api.HandleFunc("POST /api/cleaning-tasks", s.handleCreateCleaningTask)
	api.HandleFunc("PUT /api/cleaning-tasks/{id}/status", s.handleSetCleaningStatus)
	api.HandleFunc("DELETE /api/cleaning-tasks/{id}", s.handleDeleteCleaningTask)

	api.HandleFunc("GET /api/water-duty", s.handleGetWaterDuty)
	api.HandleFunc("POST /api/water-duty/initialize", s.handleInitializeWaterDuty)
	api.HandleFunc("POST /api/water-duty/complete", s.handleCompleteWaterDuty)

	api.HandleFunc("GET /api/analytics", s.handleAnalytics)
	api.HandleFunc("POST /api/reset", s.handleMonthlyReset)

	api.HandleFunc("GET /api/user", s.handleGetUser)
	api.HandleFunc("POST /api/user", s.handleCreateUser)
	api.HandleFunc("PUT /api/user", s.handleUpdateUser)

	mux.Handle("/api/", s.withAPIMiddleware(api))

	// The websocket route bypasses the response recorder middleware, the
	// upgrader needs to hijack the raw connection.
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", handleHealth)

	return s
}

// withAPIMiddleware layers rate limiting, metrics and request logging
// over the JSON API.
func (s *Server) withAPIMiddleware(next http.Handler) http.Handler {
	limited := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isMutation(r.Method) && !s.rateLimiter.allow(clientAddr(r)) {
			s.metrics.rateLimitHits.Inc()
			s.logger.WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientAddr(r), "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
	return log.Middleware(s.logger)(s.metrics.middleware(limited))
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
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
