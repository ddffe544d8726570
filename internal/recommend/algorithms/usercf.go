// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/recommend"
	"github.com/tomtom215/venuelens/internal/similarity"
)

// UserCF implements user-based collaborative filtering: find the top-K
// users most similar to the target (cosine over interaction weight rows),
// then aggregate the concerts those neighbors engaged with, weighted by
// neighbor similarity, excluding concerts the target already engaged with.
type UserCF struct {
	neighborK int
	logger    zerolog.Logger
}

// NewUserCF creates a user-based collaborative scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewUserCF(neighborK int, logger zerolog.Logger) *UserCF {
	return &UserCF{
		neighborK: neighborK,
		logger:    logger.With().Str("scorer", "user_cf").Logger(),
	}
}

// Strategy returns the strategy this scorer implements.
func (a *UserCF) Strategy() recommend.Strategy {
	return recommend.StrategyCollaborativeUser
}

// Score produces candidate scores for the request. A user with no
// interaction history yields an empty slice, never an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *UserCF) Score(_ context.Context, snap *recommend.Snapshot, req recommend.Request) ([]recommend.RecommendationScore, error) {
	if req.UserID == "" {
		return nil, nil
	}

	row := snap.Matrix.UserRow(req.UserID)
	if len(row) == 0 {
		a.logger.Debug().Str("user_id", req.UserID).Msg("cold user, no interactions")
		return nil, nil
	}

	neighbors := a.topNeighbors(snap.Matrix, req.UserID, row)
	if len(neighbors) == 0 {
		return nil, nil
	}

	votes := make(map[int]float64)
	contributors := make(map[int]int)
	for _, n := range neighbors {
		for it, w := range snap.Matrix.RowAt(n.idx) {
			if _, seen := row[it]; seen {
				continue
			}
			votes[it] += n.sim * w
			contributors[it]++
		}
	}
	if len(votes) == 0 {
		return nil, nil
	}

	maxVote := 0.0
	for _, v := range votes {
		if v > maxVote {
			maxVote = v
		}
	}

	scores := make([]recommend.RecommendationScore, 0, len(votes))
	for it, v := range votes {
		conf := float64(contributors[it]) / float64(len(neighbors))
		if conf > 1 {
			conf = 1
		}
		scores = append(scores, recommend.RecommendationScore{
			TargetID:   snap.Matrix.ItemID(it),
			Score:      v / maxVote,
			Confidence: conf,
			Reasoning: fmt.Sprintf("engaged by %d of your %d most similar users",
				contributors[it], len(neighbors)),
			Strategy: recommend.StrategyCollaborativeUser,
		})
	}
	return scores, nil
}

// neighbor pairs a user index with its similarity to the target.
type neighbor struct {
	idx int
	sim float64
}

// topNeighbors returns the top-K most similar users, ordered by descending
// similarity with ascending user-ID tie-break for determinism.
func (a *UserCF) topNeighbors(m *recommend.InteractionMatrix, userID string, row map[int]float64) []neighbor {
	uIdx, _ := m.UserIndexOf(userID)
	userIDs := m.UserIDs()

	neighbors := make([]neighbor, 0, len(userIDs))
	for i := range userIDs {
		if i == uIdx {
			continue
		}
		other := m.RowAt(i)
		if len(other) == 0 {
			continue
		}
		sim := similarity.SparseCosine(row, other)
		if sim > 0 {
			neighbors = append(neighbors, neighbor{idx: i, sim: sim})
		}
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].sim != neighbors[j].sim {
			return neighbors[i].sim > neighbors[j].sim
		}
		return userIDs[neighbors[i].idx] < userIDs[neighbors[j].idx]
	})

	if len(neighbors) > a.neighborK {
		neighbors = neighbors[:a.neighborK]
	}
	return neighbors
}
