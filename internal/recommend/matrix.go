// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package recommend

import (
	"math"
	"sort"
	"time"

	"github.com/tomtom215/venuelens/internal/catalog"
)

// InteractionMatrix is a sparse user-item weight matrix built once per
// recommendation request and never mutated afterwards. Indices are derived
// from a deterministic (sorted) enumeration of the distinct user and item
// identifiers observed in the input, so the same input always produces the
// same index assignment. Rebuild for new data; do not mutate.
type InteractionMatrix struct {
	userIndex map[string]int
	itemIndex map[string]int
	userIDs   []string // sorted; userIDs[i] is the ID at index i
	itemIDs   []string // sorted; itemIDs[j] is the ID at index j

	rows  map[int]map[int]float64 // user index -> item index -> weight
	cols  map[int]map[int]float64 // item index -> user index -> weight
	cells int
}

// MatrixOptions controls matrix construction.
type MatrixOptions struct {
	// WeightMode selects count or recency-weighted accumulation.
	WeightMode WeightMode

	// RecencyHalfLife is the interaction age at which the base weight is
	// halved. Only used in recency mode.
	RecencyHalfLife time.Duration

	// Now is the reference time for recency decay; time.Now() when zero.
	Now time.Time
}

// MatrixStats is the diagnostic view of an InteractionMatrix.
type MatrixStats struct {
	Users int `json:"users"`
	Items int `json:"items"`

	// NonZero is the number of populated (user, item) cells.
	NonZero int `json:"non_zero"`

	// Density is NonZero / (Users * Items); 0 for an empty matrix.
	Density float64 `json:"density"`

	// AvgInteractionsPerUser is NonZero / Users; 0 for an empty matrix.
	AvgInteractionsPerUser float64 `json:"avg_interactions_per_user"`
}

// BuildMatrix constructs a sparse interaction matrix from interaction
// records. Each interaction contributes its type's ordinal weight (decayed
// by age in recency mode); repeated interactions on the same (user, item)
// cell accumulate. Interactions with an unknown type weigh 0 and leave no
// cell behind.
func BuildMatrix(interactions []catalog.UserInteraction, opts MatrixOptions) *InteractionMatrix {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	userSet := make(map[string]struct{})
	itemSet := make(map[string]struct{})
	for i := range interactions {
		userSet[interactions[i].UserID] = struct{}{}
		itemSet[interactions[i].ConcertID] = struct{}{}
	}

	m := &InteractionMatrix{
		userIndex: make(map[string]int, len(userSet)),
		itemIndex: make(map[string]int, len(itemSet)),
		userIDs:   sortedKeys(userSet),
		itemIDs:   sortedKeys(itemSet),
		rows:      make(map[int]map[int]float64, len(userSet)),
		cols:      make(map[int]map[int]float64, len(itemSet)),
	}
	for i, id := range m.userIDs {
		m.userIndex[id] = i
	}
	for j, id := range m.itemIDs {
		m.itemIndex[id] = j
	}

	for i := range interactions {
		in := &interactions[i]
		w := in.Type.Weight()
		if w == 0 {
			continue
		}
		if opts.WeightMode == WeightModeRecency && opts.RecencyHalfLife > 0 && !in.Timestamp.IsZero() {
			age := now.Sub(in.Timestamp)
			if age > 0 {
				w *= math.Exp2(-age.Hours() / opts.RecencyHalfLife.Hours())
			}
		}

		u := m.userIndex[in.UserID]
		it := m.itemIndex[in.ConcertID]

		row := m.rows[u]
		if row == nil {
			row = make(map[int]float64)
			m.rows[u] = row
		}
		if _, exists := row[it]; !exists {
			m.cells++
		}
		row[it] += w

		col := m.cols[it]
		if col == nil {
			col = make(map[int]float64)
			m.cols[it] = col
		}
		col[u] += w
	}

	return m
}

// sortedKeys returns the keys of set in ascending order.
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UserRow returns the item-index weight vector for userID, or nil when the
// user has no interactions.
func (m *InteractionMatrix) UserRow(userID string) map[int]float64 {
	u, ok := m.userIndex[userID]
	if !ok {
		return nil
	}
	return m.rows[u]
}

// ItemColumn returns the user-index weight vector for item index it.
func (m *InteractionMatrix) ItemColumn(it int) map[int]float64 {
	return m.cols[it]
}

// UserIDs returns the sorted user identifiers; position is the user index.
func (m *InteractionMatrix) UserIDs() []string {
	return m.userIDs
}

// ItemIDs returns the sorted item identifiers; position is the item index.
func (m *InteractionMatrix) ItemIDs() []string {
	return m.itemIDs
}

// ItemID returns the item identifier at index it.
func (m *InteractionMatrix) ItemID(it int) string {
	return m.itemIDs[it]
}

// UserIndexOf returns the index for userID and whether it is present.
func (m *InteractionMatrix) UserIndexOf(userID string) (int, bool) {
	u, ok := m.userIndex[userID]
	return u, ok
}

// RowAt returns the weight vector for user index u.
func (m *InteractionMatrix) RowAt(u int) map[int]float64 {
	return m.rows[u]
}

// Users returns the number of distinct users.
func (m *InteractionMatrix) Users() int {
	return len(m.userIDs)
}

// Items returns the number of distinct items.
func (m *InteractionMatrix) Items() int {
	return len(m.itemIDs)
}

// Stats returns the diagnostic matrix statistics. Not required on the
// recommendation path.
func (m *InteractionMatrix) Stats() MatrixStats {
	s := MatrixStats{
		Users:   len(m.userIDs),
		Items:   len(m.itemIDs),
		NonZero: m.cells,
	}
	if s.Users > 0 && s.Items > 0 {
		s.Density = float64(s.NonZero) / (float64(s.Users) * float64(s.Items))
		s.AvgInteractionsPerUser = float64(s.NonZero) / float64(s.Users)
	}
	return s
}
