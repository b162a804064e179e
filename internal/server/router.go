package server

import (
	"context"
	"net/http"
	"time"

	"rebalancer/internal/engine"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// rebalanceService is what the API needs from the engine.
type rebalanceService interface {
	Rebalance(ctx context.Context) (*engine.PassReport, error)
	Portfolio() *engine.Portfolio
}

// NewRouter creates a chi router with all routes registered and request
// logging middleware.
func NewRouter(svc rebalanceService, log zerolog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogging(log))

	h := newHandler(svc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/portfolio", h.GetPortfolio)
	r.Post("/deposit", h.Deposit)
	r.Post("/rebalance", h.Rebalance)

	return r
}

// requestLogging returns middleware that logs each request's method, path,
// status code, and duration.
func requestLogging(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
