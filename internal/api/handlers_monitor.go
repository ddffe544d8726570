// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/venuelens/internal/metrics"
	"github.com/tomtom215/venuelens/internal/monitor"
)

// MonitorDrift handles POST /api/v1/monitor/drift: one statistical
// comparison between a baseline and a current sample.
func (h *Handler) MonitorDrift(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req DriftRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	var result monitor.DriftResult
	switch monitor.DriftMethod(req.Method) {
	case monitor.MethodKS:
		result = h.orch.Detector().KS(req.ModelName, req.ModelVersion, req.Baseline, req.Current)
	case monitor.MethodChiSquare:
		result = h.orch.Detector().ChiSquare(req.ModelName, req.ModelVersion, req.Baseline, req.Current)
	default:
		result = h.orch.Detector().PSI(req.ModelName, req.ModelVersion, req.Baseline, req.Current)
	}

	skipped := result.Warning != "" && !result.LowConfidence
	metrics.RecordDriftCheck(req.ModelName, req.Method, result.Score,
		result.DriftDetected, result.LowConfidence, skipped)

	rw.Success(result)
}

// MonitorPerformance handles POST /api/v1/monitor/performance: regression
// and/or ranking metric computation against optional baselines.
func (h *Handler) MonitorPerformance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req PerformanceRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	if req.Regression == nil && req.Ranking == nil {
		rw.BadRequest("at least one of regression or ranking must be supplied")
		return
	}

	var results []monitor.PerformanceMetric
	if req.Regression != nil {
		out, err := h.orch.Performance().Regression(req.ModelName, req.ModelVersion,
			req.Regression.Predictions, req.Regression.Actuals, req.Regression.Baselines)
		if err != nil {
			h.writeMonitorError(rw, err)
			return
		}
		results = append(results, out...)
	}
	if req.Ranking != nil {
		out, err := h.orch.Performance().Ranking(req.ModelName, req.ModelVersion,
			req.Ranking.Pairs, req.Ranking.Baselines)
		if err != nil {
			h.writeMonitorError(rw, err)
			return
		}
		results = append(results, out...)
	}

	for i := range results {
		metrics.RecordPerformanceMetric(results[i].ModelName, results[i].Metric,
			results[i].Value, results[i].ThresholdBreached)
	}

	rw.Success(results)
}

// MonitorChecks handles POST /api/v1/monitor/checks: a combined monitoring
// pass that derives a severity and may record a retraining trigger.
func (h *Handler) MonitorChecks(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ChecksRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	report, err := h.orch.RunChecks(req.toCheckInput())
	if err != nil {
		h.writeMonitorError(rw, err)
		return
	}

	for i := range report.Triggers {
		metrics.RecordRetrainingTrigger(report.Triggers[i].ModelName, string(report.Triggers[i].Severity))
	}

	rw.Success(report)
}

// Triggers handles GET /api/v1/monitor/triggers with optional model,
// version, and min_severity query filters.
func (h *Handler) Triggers(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	filter := monitor.TriggerFilter{
		ModelName:    r.URL.Query().Get("model"),
		ModelVersion: r.URL.Query().Get("version"),
	}
	if min := r.URL.Query().Get("min_severity"); min != "" {
		sev := monitor.Severity(min)
		if sev.Rank() < 0 {
			rw.BadRequest("min_severity must be one of low/medium/high/critical")
			return
		}
		filter.MinSeverity = sev
	}

	rw.Success(h.orch.Triggers(filter))
}

// Report handles GET /api/v1/monitor/reports/{model}/{version}: the
// aggregate of every check run for that model+version pair.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	model := chi.URLParam(r, "model")
	version := chi.URLParam(r, "version")

	report, ok := h.orch.Report(model, version)
	if !ok {
		rw.NotFound("no checks recorded for this model and version")
		return
	}
	rw.Success(report)
}

// writeMonitorError maps monitoring errors to HTTP responses.
func (h *Handler) writeMonitorError(rw *ResponseWriter, err error) {
	switch {
	case errors.Is(err, monitor.ErrLengthMismatch),
		errors.Is(err, monitor.ErrEmptyInput),
		errors.Is(err, monitor.ErrNoChecks):
		rw.BadRequest(err.Error())
	default:
		h.logger.Error().Err(err).Msg("monitoring check failed")
		rw.InternalError("monitoring check failed")
	}
}
