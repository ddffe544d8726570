// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/metrics"
	"github.com/tomtom215/venuelens/internal/monitor"
	"github.com/tomtom215/venuelens/internal/recommend"
)

// Handler serves the recommendation and monitoring endpoints.
type Handler struct {
	engine   *recommend.Engine
	orch     *monitor.Orchestrator
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *recommend.Engine, orch *monitor.Orchestrator, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:   engine,
		orch:     orch,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Recommend handles POST /api/v1/recommendations.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req RecommendationRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := h.engine.Recommend(r.Context(), req.toEngine())
	metrics.RecordRecommendation(req.Strategy, time.Since(start), resultSize(result), err)
	if err != nil {
		h.writeEngineError(rw, err)
		return
	}

	rw.Success(result)
}

// RecommendBatch handles POST /api/v1/recommendations/batch. Per-item
// failures live inside the items; only batch-level failures produce an
// error response.
func (h *Handler) RecommendBatch(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req BatchRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	reqs := make([]recommend.Request, len(req.Requests))
	for i := range req.Requests {
		reqs[i] = req.Requests[i].toEngine()
	}

	metrics.RecordBatch(len(reqs))
	items, err := h.engine.RecommendBatch(r.Context(), reqs)
	if err != nil {
		h.writeEngineError(rw, err)
		return
	}

	rw.Success(items)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"status":         "ok",
		"requests_total": h.engine.RequestCount(),
	})
}

// writeEngineError maps engine errors to HTTP responses. Validation
// failures are the caller's fault; everything else is ours.
func (h *Handler) writeEngineError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, recommend.ErrInvalidTopK),
		errors.Is(err, recommend.ErrUnknownStrategy),
		errors.Is(err, recommend.ErrBatchTooLarge):
		rw.BadRequest(err.Error())
	default:
		h.logger.Error().Err(err).Msg("recommendation failed")
		rw.InternalError("recommendation failed")
	}
}

// resultSize returns the number of scores in a result, nil-safe.
func resultSize(res *recommend.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Scores)
}
