package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOption customizes the assembled router.
type RouterOption func(chi.Router)

// WithMiddleware inserts extra middleware ahead of the handlers.
func WithMiddleware(mw func(http.Handler) http.Handler) RouterOption {
	return func(r chi.Router) { r.Use(mw) }
}

// NewRouter assembles the full HTTP surface: lifecycle endpoints plus
// health and metrics.
func NewRouter(service Service, logger *slog.Logger, opts ...RouterOption) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestID)
	r.Use(actor)
	for _, opt := range opts {
		opt(r)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	New(service, logger).Register(r)
	return r
}
