// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package similarity

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		a       []float64
		b       []float64
		want    float64
		wantErr error
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1.0,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0.0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 2},
			b:    []float64{-1, -2},
			want: -1.0,
		},
		{
			name: "zero vector left",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 2, 3},
			want: 0.0,
		},
		{
			name: "zero vector right",
			a:    []float64{1, 2, 3},
			b:    []float64{0, 0, 0},
			want: 0.0,
		},
		{
			name: "both empty",
			a:    []float64{},
			b:    []float64{},
			want: 0.0,
		},
		{
			name:    "length mismatch",
			a:       []float64{1, 2},
			b:       []float64{1, 2, 3},
			wantErr: ErrLengthMismatch,
		},
		{
			name:    "NaN component",
			a:       []float64{1, math.NaN()},
			b:       []float64{1, 2},
			wantErr: ErrMalformedValue,
		},
		{
			name:    "Inf component",
			a:       []float64{1, 2},
			b:       []float64{math.Inf(1), 2},
			wantErr: ErrMalformedValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Cosine(tt.a, tt.b)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Cosine() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Cosine() unexpected error: %v", err)
			}
			if !almostEqual(got, tt.want, epsilon) {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSymmetry(t *testing.T) {
	t.Parallel()

	vectors := [][2][]float64{
		{{1, 2, 3}, {4, 5, 6}},
		{{0.5, 0.1, 0.9}, {0.2, 0.8, 0.3}},
		{{10, 0, 0, 7}, {0, 3, 0, 7}},
	}

	for _, pair := range vectors {
		ab, err := Cosine(pair[0], pair[1])
		if err != nil {
			t.Fatalf("Cosine(a,b) error: %v", err)
		}
		ba, err := Cosine(pair[1], pair[0])
		if err != nil {
			t.Fatalf("Cosine(b,a) error: %v", err)
		}
		if !almostEqual(ab, ba, epsilon) {
			t.Errorf("Cosine not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	t.Parallel()

	vecs := [][]float64{
		{1, 2, 3},
		{0.001, 0.002},
		{100, 200, 300, 400},
	}

	for _, v := range vecs {
		got, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("Cosine(v,v) error: %v", err)
		}
		if !almostEqual(got, 1.0, 1e-12) {
			t.Errorf("Cosine(v,v) = %v, want 1.0", got)
		}
	}
}

func TestSparseCosine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    map[string]float64
		b    map[string]float64
		want float64
	}{
		{
			name: "identical sparse vectors",
			a:    map[string]float64{"x": 1, "y": 2},
			b:    map[string]float64{"x": 1, "y": 2},
			want: 1.0,
		},
		{
			name: "no overlap",
			a:    map[string]float64{"x": 1},
			b:    map[string]float64{"y": 1},
			want: 0.0,
		},
		{
			name: "empty left",
			a:    map[string]float64{},
			b:    map[string]float64{"y": 1},
			want: 0.0,
		},
		{
			name: "partial overlap",
			a:    map[string]float64{"x": 1, "y": 1},
			b:    map[string]float64{"x": 1, "z": 1},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SparseCosine(tt.a, tt.b)
			if !almostEqual(got, tt.want, epsilon) {
				t.Errorf("SparseCosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSparseCosineMatchesDense(t *testing.T) {
	t.Parallel()

	a := map[string]float64{"a": 1, "b": 2, "c": 3}
	b := map[string]float64{"a": 4, "b": 5, "c": 6}

	dense, err := Cosine([]float64{1, 2, 3}, []float64{4, 5, 6})
	if err != nil {
		t.Fatalf("Cosine error: %v", err)
	}
	sparse := SparseCosine(a, b)

	if !almostEqual(dense, sparse, epsilon) {
		t.Errorf("sparse %v != dense %v", sparse, dense)
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    []string
		b    []string
		want float64
	}{
		{
			name: "both empty yields zero",
			a:    nil,
			b:    nil,
			want: 0.0,
		},
		{
			name: "identical nonempty",
			a:    []string{"rock", "pop"},
			b:    []string{"rock", "pop"},
			want: 1.0,
		},
		{
			name: "partial overlap",
			a:    []string{"rock", "pop"},
			b:    []string{"rock"},
			want: 0.5,
		},
		{
			name: "disjoint",
			a:    []string{"rock"},
			b:    []string{"jazz"},
			want: 0.0,
		},
		{
			name: "one empty",
			a:    []string{"rock"},
			b:    nil,
			want: 0.0,
		},
		{
			name: "duplicates counted once",
			a:    []string{"rock", "rock", "pop"},
			b:    []string{"rock"},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Jaccard(tt.a, tt.b)
			if !almostEqual(got, tt.want, epsilon) {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
			// Symmetry must hold for every case.
			if rev := Jaccard(tt.b, tt.a); !almostEqual(got, rev, epsilon) {
				t.Errorf("Jaccard not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestHaversineKm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		want      float64
		tolerance float64
	}{
		{
			name: "same point",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 40.7128, lon2: -74.0060,
			want: 0, tolerance: 0.001,
		},
		{
			name: "new york to london",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 51.5074, lon2: -0.1278,
			want: 5570, tolerance: 20,
		},
		{
			name: "madison square garden to barclays center",
			lat1: 40.7505, lon1: -73.9934,
			lat2: 40.6826, lon2: -73.9754,
			want: 7.7, tolerance: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKm() = %v, want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestGeo(t *testing.T) {
	t.Parallel()

	t.Run("same point is 1", func(t *testing.T) {
		t.Parallel()
		got := Geo(40.0, -74.0, 40.0, -74.0, 100)
		if !almostEqual(got, 1.0, 1e-9) {
			t.Errorf("Geo(same point) = %v, want 1.0", got)
		}
	})

	t.Run("stays in (0,1]", func(t *testing.T) {
		t.Parallel()
		// Antipodal-ish points: far apart but still > 0.
		got := Geo(40.0, -74.0, -40.0, 106.0, 100)
		if got <= 0 || got > 1 {
			t.Errorf("Geo() = %v, want in (0,1]", got)
		}
	})

	t.Run("decays with distance", func(t *testing.T) {
		t.Parallel()
		near := Geo(40.0, -74.0, 40.1, -74.0, 100)
		far := Geo(40.0, -74.0, 45.0, -74.0, 100)
		if near <= far {
			t.Errorf("expected near (%v) > far (%v)", near, far)
		}
	})

	t.Run("half similarity at scale distance", func(t *testing.T) {
		t.Parallel()
		// ~111 km per degree of latitude; scale set to the measured distance.
		d := HaversineKm(40.0, -74.0, 41.0, -74.0)
		got := Geo(40.0, -74.0, 41.0, -74.0, d)
		if !almostEqual(got, 0.5, 1e-9) {
			t.Errorf("Geo at scale distance = %v, want 0.5", got)
		}
	})

	t.Run("non-positive scale falls back", func(t *testing.T) {
		t.Parallel()
		got := Geo(40.0, -74.0, 40.0, -74.0, 0)
		if !almostEqual(got, 1.0, 1e-9) {
			t.Errorf("Geo with zero scale = %v, want 1.0", got)
		}
	})
}

func TestLogCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		c1       float64
		c2       float64
		maxRatio float64
		want     float64
	}{
		{
			name: "equal capacities",
			c1:   500, c2: 500, maxRatio: 100,
			want: 1.0,
		},
		{
			name: "ratio equals max ratio clamps to zero",
			c1:   50, c2: 5000, maxRatio: 100,
			want: 0.0,
		},
		{
			name: "ratio beyond max ratio clamps to zero",
			c1:   10, c2: 100000, maxRatio: 100,
			want: 0.0,
		},
		{
			name: "zero capacity",
			c1:   0, c2: 500, maxRatio: 100,
			want: 0.0,
		},
		{
			name: "10x ratio with max 100 is half",
			c1:   100, c2: 1000, maxRatio: 100,
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LogCapacity(tt.c1, tt.c2, tt.maxRatio)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("LogCapacity() = %v, want %v", got, tt.want)
			}
		})
	}
}
