// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions configures the HTTP middleware stack.
type RouterOptions struct {
	// RateLimitReqs is the per-client request budget per window.
	RateLimitReqs int

	// RateLimitWindow is the rate-limit window.
	RateLimitWindow time.Duration

	// RateLimitDisabled turns off rate limiting (tests, trusted meshes).
	RateLimitDisabled bool
}

// NewRouter assembles the service's HTTP routes over the given handler.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		if !opts.RateLimitDisabled {
			r.Use(RateLimit(opts.RateLimitReqs, opts.RateLimitWindow))
		}
		r.Use(PrometheusMetrics)

		r.Route("/recommendations", func(r chi.Router) {
			r.Post("/", h.Recommend)
			r.Post("/batch", h.RecommendBatch)
		})

		r.Route("/monitor", func(r chi.Router) {
			r.Post("/drift", h.MonitorDrift)
			r.Post("/performance", h.MonitorPerformance)
			r.Post("/checks", h.MonitorChecks)
			r.Get("/triggers", h.Triggers)
			r.Get("/reports/{model}/{version}", h.Report)
		})
	})

	// Observability endpoints stay outside the rate limit so scrapers
	// and probes never compete with API traffic.
	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
