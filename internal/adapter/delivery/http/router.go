// Package http provides the HTTP delivery layer for the link shortening service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, authenticating owners, validating input, and formatting responses.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes and returns a new Chi router configured with middleware and routes
// for the link shortening API. Link routes other than the watch stream are bounded by requestTimeout.
func NewRouter(
	logger *httplog.Logger,
	auth *Authenticator,
	requestTimeout time.Duration,
	links linkUseCase,
	clicks clickUseCase,
	analytics analyticsUseCase,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	h := newLinkHandler(links, clicks, analytics)
	timeout := requestTimeoutMiddleware(requestTimeout)

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))

	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	r.With(timeout).Get("/s/{shortCode}", h.redirect)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", handlePing)

		r.Route("/links", func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/watch", h.watchLinks)

			r.Group(func(r chi.Router) {
				r.Use(timeout)

				r.Post("/", h.createLink)
				r.Get("/", h.listLinks)
				r.Get("/code/{shortCode}", h.getLinkByCode)

				r.Route("/{linkID}", func(r chi.Router) {
					r.Delete("/", h.deleteLink)
					r.Get("/analytics", h.getAnalytics)
				})
			})
		})
	})

	return r
}

func requestTimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return middleware.Timeout(d)
}
