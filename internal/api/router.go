// Package api is the JSON HTTP surface of the ranking service.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tourism/internal/recommend"
)

// Recommender produces a ranking for one request.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Result, error)
}

// Archiver stores finished rankings and reads them back by object key.
type Archiver interface {
	StoreResult(ctx context.Context, res *recommend.Result) (string, error)
	GetResult(ctx context.Context, key string) (*recommend.Result, error)
}

type Options struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// Archive is optional; results are not stored and /rankings answers
	// 404 when nil.
	Archive Archiver
}

type Handler struct {
	rec     Recommender
	archive Archiver
}

// NewRouter wires the routes and middleware.
func NewRouter(rec Recommender, opts Options) http.Handler {
	h := &Handler{rec: rec, archive: opts.Archive}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog)
	r.Use(chimiddleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsHandler(opts.CORSOrigins))
	}

	r.Get("/healthz", h.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", h.catalog)
		r.Get("/rankings/*", h.ranking)
		r.Group(func(r chi.Router) {
			if opts.RateLimitRequests > 0 {
				r.Use(rateLimit(opts.RateLimitRequests, opts.RateLimitWindow))
			}
			r.Post("/recommend", h.recommend)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}
