// Package httpapi assembles the HTTP surface: a chi router carrying the Connect
// services, a small JSON facade over the settlement engine, health and metrics.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mmynk/settleup/internal/middleware"
)

// Service is a Connect service mounted at Path.
type Service struct {
	Path    string
	Handler http.Handler
}

// Options configures New.
type Options struct {
	API            *Handler
	Services       []Service
	Metrics        http.Handler
	Health         func(ctx context.Context) error
	AllowedOrigins []string
}

// New builds the application router.
func New(opts Options) http.Handler {
	router := chi.NewRouter()

	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.RequestLogger)
	router.Use(chimw.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		MaxAge:         300,
	}))

	router.Get("/healthz", healthHandler(opts.Health))
	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	if opts.API != nil {
		router.Route("/api/v1", func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			opts.API.Routes(r)
		})
	}

	for _, svc := range opts.Services {
		router.Mount(svc.Path, svc.Handler)
	}

	return router
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				writeError(w, http.StatusServiceUnavailable, "UNAVAILABLE", err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
