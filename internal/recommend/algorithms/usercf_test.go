// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package algorithms

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/venuelens/internal/catalog"
	"github.com/tomtom215/venuelens/internal/recommend"
)

func interaction(user, concert string, typ catalog.InteractionType) catalog.UserInteraction {
	return catalog.UserInteraction{
		UserID:    user,
		ConcertID: concert,
		Type:      typ,
		Timestamp: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func snapshotFrom(t *testing.T, interactions []catalog.UserInteraction, cat *catalog.Catalog) *recommend.Snapshot {
	t.Helper()
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	return &recommend.Snapshot{
		Matrix:  recommend.BuildMatrix(interactions, recommend.MatrixOptions{WeightMode: recommend.WeightModeCount}),
		Catalog: cat,
	}
}

func TestUserCFNeighborScenario(t *testing.T) {
	t.Parallel()

	// user1 and user2 overlap on concertA, so user2 is user1's most
	// similar neighbor and concertC should surface; concertA and concertB
	// are already seen and must be excluded.
	snap := snapshotFrom(t, []catalog.UserInteraction{
		interaction("user1", "concertA", catalog.InteractionAttended),
		interaction("user1", "concertB", catalog.InteractionPurchased),
		interaction("user2", "concertA", catalog.InteractionAttended),
		interaction("user2", "concertC", catalog.InteractionViewed),
	}, nil)

	scorer := NewUserCF(10, zerolog.Nop())
	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		UserID:   "user1",
		Strategy: recommend.StrategyCollaborativeUser,
		TopK:     5,
	})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	found := map[string]bool{}
	for _, s := range scores {
		found[s.TargetID] = true
		if s.Score <= 0 {
			t.Errorf("%s has non-positive score %v", s.TargetID, s.Score)
		}
		if s.Reasoning == "" {
			t.Errorf("%s missing reasoning", s.TargetID)
		}
	}

	if !found["concertC"] {
		t.Error("expected concertC to be recommended via neighbor user2")
	}
	if found["concertA"] || found["concertB"] {
		t.Errorf("already-seen concerts must be excluded, got %v", found)
	}
}

func TestUserCFColdUser(t *testing.T) {
	t.Parallel()

	snap := snapshotFrom(t, []catalog.UserInteraction{
		interaction("user2", "concertA", catalog.InteractionAttended),
	}, nil)

	scorer := NewUserCF(10, zerolog.Nop())
	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		UserID:   "user1",
		Strategy: recommend.StrategyCollaborativeUser,
	})
	if err != nil {
		t.Fatalf("cold user must not error: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("cold user must yield empty scores, got %v", scores)
	}
}

func TestUserCFNoUserID(t *testing.T) {
	t.Parallel()

	snap := snapshotFrom(t, nil, nil)
	scorer := NewUserCF(10, zerolog.Nop())

	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		Strategy: recommend.StrategyCollaborativeUser,
	})
	if err != nil || len(scores) != 0 {
		t.Errorf("missing user ID should yield empty scores and nil error, got %v, %v", scores, err)
	}
}

func TestUserCFNeighborKLimit(t *testing.T) {
	t.Parallel()

	// Ten users share concertA with the target; only the top-1 neighbor
	// may contribute when neighborK is 1.
	interactions := []catalog.UserInteraction{
		interaction("target", "concertA", catalog.InteractionAttended),
	}
	// nearest shares two concerts with the target, everyone else one.
	interactions = append(interactions,
		interaction("target", "concertB", catalog.InteractionAttended),
		interaction("nearest", "concertA", catalog.InteractionAttended),
		interaction("nearest", "concertB", catalog.InteractionAttended),
		interaction("nearest", "concertX", catalog.InteractionAttended),
		interaction("other1", "concertA", catalog.InteractionAttended),
		interaction("other1", "concertY", catalog.InteractionAttended),
	)

	snap := snapshotFrom(t, interactions, nil)
	scorer := NewUserCF(1, zerolog.Nop())

	scores, err := scorer.Score(context.Background(), snap, recommend.Request{
		UserID:   "target",
		Strategy: recommend.StrategyCollaborativeUser,
	})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	for _, s := range scores {
		if s.TargetID == "concertY" {
			t.Error("concertY comes from a user beyond the neighbor limit")
		}
	}
	found := false
	for _, s := range scores {
		if s.TargetID == "concertX" {
			found = true
		}
	}
	if !found {
		t.Error("expected concertX from the nearest neighbor")
	}
}
