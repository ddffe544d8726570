// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tomtom215/venuelens/internal/monitor"
	"github.com/tomtom215/venuelens/internal/recommend"
)

// maxRequestBody bounds request body size to 4 MiB. Monitoring payloads
// carry raw samples and can be large; anything beyond this belongs in a
// batch pipeline, not an HTTP body.
const maxRequestBody = 4 << 20

// RecommendationRequest is the body of POST /api/v1/recommendations.
type RecommendationRequest struct {
	UserID        string   `json:"user_id" validate:"omitempty,max=128"`
	SeedArtistIDs []string `json:"seed_artist_ids" validate:"omitempty,dive,required"`
	SeedVenueIDs  []string `json:"seed_venue_ids" validate:"omitempty,dive,required"`
	Strategy      string   `json:"strategy" validate:"required,oneof=collaborative-user collaborative-item content-artist content-venue content-hybrid hybrid-all"`
	TopK          int      `json:"top_k" validate:"gte=0"`
}

// toEngine converts the DTO to an engine request.
func (r *RecommendationRequest) toEngine() recommend.Request {
	return recommend.Request{
		UserID:        r.UserID,
		SeedArtistIDs: r.SeedArtistIDs,
		SeedVenueIDs:  r.SeedVenueIDs,
		Strategy:      recommend.Strategy(r.Strategy),
		TopK:          r.TopK,
	}
}

// BatchRequest is the body of POST /api/v1/recommendations/batch.
type BatchRequest struct {
	Requests []RecommendationRequest `json:"requests" validate:"required,min=1,dive"`
}

// DriftRequest is the body of POST /api/v1/monitor/drift. Degenerate
// samples (empty, undersized) are absorbed into the result's warning
// fields, so only identity and method are validated here.
type DriftRequest struct {
	ModelName    string    `json:"model_name" validate:"required,max=128"`
	ModelVersion string    `json:"model_version" validate:"required,max=64"`
	Method       string    `json:"method" validate:"required,oneof=psi ks chi-square"`
	Baseline     []float64 `json:"baseline"`
	Current      []float64 `json:"current"`
}

// RegressionBody carries regression evaluation inputs.
type RegressionBody struct {
	Predictions []float64          `json:"predictions" validate:"required,min=1"`
	Actuals     []float64          `json:"actuals" validate:"required,min=1"`
	Baselines   map[string]float64 `json:"baselines,omitempty"`
}

// RankingBody carries ranking evaluation inputs.
type RankingBody struct {
	Pairs     []monitor.RankedPair `json:"pairs" validate:"required,min=1"`
	Baselines map[string]float64   `json:"baselines,omitempty"`
}

// PerformanceRequest is the body of POST /api/v1/monitor/performance.
// At least one of Regression or Ranking must be present.
type PerformanceRequest struct {
	ModelName    string          `json:"model_name" validate:"required,max=128"`
	ModelVersion string          `json:"model_version" validate:"required,max=64"`
	Regression   *RegressionBody `json:"regression,omitempty" validate:"omitempty"`
	Ranking      *RankingBody    `json:"ranking,omitempty" validate:"omitempty"`
}

// ChecksRequest is the body of POST /api/v1/monitor/checks: a combined
// monitoring pass that derives severity and may record a retraining trigger.
type ChecksRequest struct {
	ModelName    string          `json:"model_name" validate:"required,max=128"`
	ModelVersion string          `json:"model_version" validate:"required,max=64"`
	Drift        []DriftBody     `json:"drift,omitempty" validate:"omitempty,dive"`
	Regression   *RegressionBody `json:"regression,omitempty" validate:"omitempty"`
	Ranking      *RankingBody    `json:"ranking,omitempty" validate:"omitempty"`
}

// DriftBody is one drift comparison inside a checks request.
type DriftBody struct {
	Method   string    `json:"method" validate:"required,oneof=psi ks chi-square"`
	Baseline []float64 `json:"baseline"`
	Current  []float64 `json:"current"`
}

// toCheckInput converts the DTO to the orchestrator's input.
func (r *ChecksRequest) toCheckInput() monitor.CheckInput {
	input := monitor.CheckInput{
		ModelName:    r.ModelName,
		ModelVersion: r.ModelVersion,
	}
	for _, d := range r.Drift {
		input.Drift = append(input.Drift, monitor.DriftCheck{
			Method:   monitor.DriftMethod(d.Method),
			Baseline: d.Baseline,
			Current:  d.Current,
		})
	}
	if r.Regression != nil {
		input.Regression = &monitor.RegressionCheck{
			Predictions: r.Regression.Predictions,
			Actuals:     r.Regression.Actuals,
			Baselines:   r.Regression.Baselines,
		}
	}
	if r.Ranking != nil {
		input.Ranking = &monitor.RankingCheck{
			Pairs:     r.Ranking.Pairs,
			Baselines: r.Ranking.Baselines,
		}
	}
	return input
}

// decodeAndValidate decodes a JSON body into dst and runs struct
// validation. A false return means the error response has been written.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	rw := NewResponseWriter(w, r)

	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		rw.BadRequest(fmt.Sprintf("invalid request body: %v", err))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, ve := range verrs {
				details = append(details, fmt.Sprintf("%s failed %s validation", ve.Field(), ve.Tag()))
			}
			rw.ValidationError("request validation failed", details)
			return false
		}
		rw.BadRequest(err.Error())
		return false
	}
	return true
}
