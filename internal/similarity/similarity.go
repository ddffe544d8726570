// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package similarity provides the numeric similarity primitives shared by
// the recommendation algorithms: cosine similarity over weight vectors,
// Jaccard similarity over label sets, and a haversine-derived geographic
// similarity.
//
// All functions are pure and allocation-free on the happy path. Degenerate
// inputs resolve to documented conventions rather than errors:
//
//   - Cosine of a zero vector is 0 (no shared signal, not undefined).
//   - Jaccard of two empty sets is 0 (no shared information).
//
// Malformed numeric input (NaN/Inf, mismatched lengths) fails fast with a
// named error instead of propagating garbage downstream.
package similarity

import (
	"errors"
	"fmt"
	"math"
)

// Errors returned on malformed input. Callers can match with errors.Is.
var (
	// ErrLengthMismatch indicates two vectors of different lengths.
	ErrLengthMismatch = errors.New("similarity: vector length mismatch")

	// ErrMalformedValue indicates a NaN or Inf component in an input vector.
	ErrMalformedValue = errors.New("similarity: malformed value (NaN or Inf)")
)

// Cosine returns the cosine similarity dot(a,b) / (||a|| * ||b||) between
// two equal-length vectors. The result is in [-1, 1]; negative values
// indicate anti-correlation. If either vector has zero norm the result is
// exactly 0 — a deliberate edge-case policy, not an error.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		if !isFinite(a[i]) || !isFinite(b[i]) {
			return 0, fmt.Errorf("%w at index %d", ErrMalformedValue, i)
		}
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// SparseCosine returns the cosine similarity between two sparse vectors
// represented as maps from index key to weight. Missing keys are zeros.
// Zero-norm vectors yield 0, same as Cosine.
func SparseCosine[K comparable](a, b map[K]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map for the dot product.
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}

	var dot float64
	for k, v := range small {
		if w, ok := large[k]; ok {
			dot += v * w
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Jaccard returns |A∩B| / |A∪B| for two label slices treated as sets.
// Duplicate labels are counted once. Two empty sets yield 0 by convention:
// "no shared information" rather than "perfectly similar". Callers that
// require the opposite convention must special-case it.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	setA := make(map[string]struct{}, len(a))
	for _, s := range a {
		setA[s] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, s := range b {
		setB[s] = struct{}{}
	}

	intersection := 0
	for s := range setA {
		if _, ok := setB[s]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}

// HaversineKm returns the great-circle distance in kilometers between two
// latitude/longitude points.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	lat1Rad := lat1 * math.Pi / 180.0
	lon1Rad := lon1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	lon2Rad := lon2 * math.Pi / 180.0

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// Geo returns a haversine-derived similarity in (0, 1]:
//
//	sim = 1 / (1 + distance/scaleKm)
//
// The result decays smoothly with distance instead of using a hard cutoff
// radius. scaleKm controls the decay rate: two points scaleKm apart score
// 0.5. A non-positive scaleKm falls back to 100 km.
func Geo(lat1, lon1, lat2, lon2, scaleKm float64) float64 {
	if scaleKm <= 0 {
		scaleKm = 100
	}
	d := HaversineKm(lat1, lon1, lat2, lon2)
	return 1.0 / (1.0 + d/scaleKm)
}

// LogCapacity returns a similarity in [0, 1] for two venue capacities on a
// logarithmic scale:
//
//	sim = 1 - |log(c1) - log(c2)| / log(maxRatio)
//
// clamped to [0, 1]. maxRatio is the capacity ratio at which similarity
// reaches 0 (e.g. 100 means a 50-seat club and a 5000-seat arena score 0).
// Non-positive capacities yield 0.
func LogCapacity(c1, c2 float64, maxRatio float64) float64 {
	if c1 <= 0 || c2 <= 0 {
		return 0
	}
	if maxRatio <= 1 {
		maxRatio = 100
	}

	sim := 1.0 - math.Abs(math.Log(c1)-math.Log(c2))/math.Log(maxRatio)
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// isFinite reports whether f is neither NaN nor Inf.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
