// Package httpadapter serves the recommendation engine and catalog browsing
// over HTTP.
package httpadapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/icyphotoget/perfume/internal/adapters/http/openapi"
	"github.com/icyphotoget/perfume/internal/config"
	"github.com/icyphotoget/perfume/internal/core/ports"
	"github.com/icyphotoget/perfume/internal/observability/metrics"
)

// ReadinessChecker reports whether a catalog snapshot is available.
type ReadinessChecker interface {
	Ready() bool
}

type Dependencies struct {
	Recommender ports.Recommender
	Catalog     ports.CatalogBrowser
	Readiness   ReadinessChecker
	Metrics     *metrics.Metrics
}

type Router struct {
	cfg         config.Config
	recommender ports.Recommender
	catalog     ports.CatalogBrowser
	readiness   ReadinessChecker
	metrics     *metrics.Metrics
	validator   *requestValidator
}

func NewRouter(cfg config.Config, deps Dependencies) (*Router, error) {
	if deps.Recommender == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("http router: recommender and catalog are required")
	}
	validator, err := newRequestValidator(context.Background())
	if err != nil {
		return nil, err
	}
	return &Router{
		cfg:         cfg,
		recommender: deps.Recommender,
		catalog:     deps.Catalog,
		readiness:   deps.Readiness,
		metrics:     deps.Metrics,
		validator:   validator,
	}, nil
}

func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(accessLogMiddleware)
	r.Use(recovererMiddleware)
	r.Use(tracingMiddleware)
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.allowedOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", rt.healthz)
	r.Get("/readyz", rt.readyz)
	r.Get("/openapi.yaml", rt.openAPIDocument)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return rateLimitMiddleware(next, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
		})
		if rt.cfg.PerIPRateLimit > 0 && rt.cfg.PerIPRateWindow > 0 {
			r.Use(httprate.LimitByIP(rt.cfg.PerIPRateLimit, rt.cfg.PerIPRateWindow))
		}
		r.Use(func(next http.Handler) http.Handler {
			return backpressureMiddleware(next, rt.cfg.APIBackpressureMaxInFly, rt.cfg.APIBackpressureWait)
		})
		if rt.cfg.APIKey != "" {
			r.Use(bearerAuthMiddleware(rt.cfg.APIKey))
		}
		r.Use(rt.validator.middleware)

		r.Post("/recommend", rt.recommend)
		r.Get("/recommend", rt.recommendQuery)
		r.Get("/items", rt.listItems)
		r.Get("/items/{id}", rt.getItem)
		r.Get("/categories", rt.listCategories)
	})

	return r
}

func (rt *Router) allowedOrigins() []string {
	if len(rt.cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return rt.cfg.CORSAllowedOrigins
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) readyz(w http.ResponseWriter, r *http.Request) {
	if rt.readiness != nil && !rt.readiness.Ready() {
		writeProblem(w, r, http.StatusServiceUnavailable, "catalog not loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Document)
}
