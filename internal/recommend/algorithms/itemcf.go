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

// ItemCF implements item-based collaborative filtering: for each concert
// the user engaged with, find similar concerts via cosine similarity over
// matrix columns and aggregate similarity-weighted votes, excluding
// concerts already seen. The per-seed similar-item list is capped at the
// neighbor count to bound compute.
type ItemCF struct {
	neighborK int
	logger    zerolog.Logger
}

// NewItemCF creates an item-based collaborative scorer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewItemCF(neighborK int, logger zerolog.Logger) *ItemCF {
	return &ItemCF{
		neighborK: neighborK,
		logger:    logger.With().Str("scorer", "item_cf").Logger(),
	}
}

// Strategy returns the strategy this scorer implements.
func (a *ItemCF) Strategy() recommend.Strategy {
	return recommend.StrategyCollaborativeItem
}

// Score produces candidate scores for the request. A user with no
// interaction history yields an empty slice, never an error.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (a *ItemCF) Score(_ context.Context, snap *recommend.Snapshot, req recommend.Request) ([]recommend.RecommendationScore, error) {
	if req.UserID == "" {
		return nil, nil
	}

	row := snap.Matrix.UserRow(req.UserID)
	if len(row) == 0 {
		a.logger.Debug().Str("user_id", req.UserID).Msg("cold user, no interactions")
		return nil, nil
	}

	votes := make(map[int]float64)
	contributors := make(map[int]int)
	for seed, seedWeight := range row {
		for _, sim := range a.similarItems(snap.Matrix, seed, row) {
			votes[sim.idx] += sim.sim * seedWeight
			contributors[sim.idx]++
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
		conf := float64(contributors[it]) / float64(len(row))
		if conf > 1 {
			conf = 1
		}
		scores = append(scores, recommend.RecommendationScore{
			TargetID:   snap.Matrix.ItemID(it),
			Score:      v / maxVote,
			Confidence: conf,
			Reasoning: fmt.Sprintf("similar to %d of the concerts you engaged with",
				contributors[it]),
			Strategy: recommend.StrategyCollaborativeItem,
		})
	}
	return scores, nil
}

// similarItems returns up to neighborK items most similar to the seed item
// by column cosine, excluding items in the user's own row. Ordered by
// descending similarity with ascending item-ID tie-break.
func (a *ItemCF) similarItems(m *recommend.InteractionMatrix, seed int, exclude map[int]float64) []neighbor {
	seedCol := m.ItemColumn(seed)
	if len(seedCol) == 0 {
		return nil
	}

	itemIDs := m.ItemIDs()
	sims := make([]neighbor, 0, len(itemIDs))
	for it := range itemIDs {
		if it == seed {
			continue
		}
		if _, seen := exclude[it]; seen {
			continue
		}
		col := m.ItemColumn(it)
		if len(col) == 0 {
			continue
		}
		sim := similarity.SparseCosine(seedCol, col)
		if sim > 0 {
			sims = append(sims, neighbor{idx: it, sim: sim})
		}
	}

	sort.Slice(sims, func(i, j int) bool {
		if sims[i].sim != sims[j].sim {
			return sims[i].sim > sims[j].sim
		}
		return itemIDs[sims[i].idx] < itemIDs[sims[j].idx]
	})

	if len(sims) > a.neighborK {
		sims = sims[:a.neighborK]
	}
	return sims
}
