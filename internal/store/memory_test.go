// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/venuelens/internal/catalog"
)

func validInteraction(user, concert string) catalog.UserInteraction {
	return catalog.UserInteraction{
		UserID:    user,
		ConcertID: concert,
		Type:      catalog.InteractionAttended,
		Timestamp: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestEmptyStore(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	ctx := context.Background()

	interactions, err := m.Interactions(ctx)
	if err != nil {
		t.Fatalf("Interactions() error = %v", err)
	}
	if len(interactions) != 0 {
		t.Fatalf("expected no interactions, got %d", len(interactions))
	}

	cat, err := m.Catalog(ctx)
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat == nil {
		t.Fatal("expected non-nil catalog from empty store")
	}
	if len(cat.Concerts) != 0 {
		t.Fatalf("expected empty catalog, got %d concerts", len(cat.Concerts))
	}
}

func TestSetInteractionsValidates(t *testing.T) {
	t.Parallel()

	m := NewMemory()

	err := m.SetInteractions([]catalog.UserInteraction{
		validInteraction("u1", "c1"),
		{UserID: "", ConcertID: "c2", Type: catalog.InteractionViewed},
	})
	if err == nil {
		t.Fatal("expected validation error for missing user_id")
	}

	// The failed replacement must not leave partial state behind.
	interactions, err := m.Interactions(context.Background())
	if err != nil {
		t.Fatalf("Interactions() error = %v", err)
	}
	if len(interactions) != 0 {
		t.Fatalf("expected store untouched after failed replace, got %d records", len(interactions))
	}
}

func TestAddInteraction(t *testing.T) {
	t.Parallel()

	m := NewMemory()

	if err := m.AddInteraction(validInteraction("u1", "c1")); err != nil {
		t.Fatalf("AddInteraction() error = %v", err)
	}
	if err := m.AddInteraction(catalog.UserInteraction{UserID: "u2"}); err == nil {
		t.Fatal("expected validation error for missing concert_id")
	}

	interactions, err := m.Interactions(context.Background())
	if err != nil {
		t.Fatalf("Interactions() error = %v", err)
	}
	if len(interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(interactions))
	}
	if interactions[0].UserID != "u1" {
		t.Fatalf("unexpected interaction: %+v", interactions[0])
	}
}

func TestInteractionsReturnsCopy(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	if err := m.AddInteraction(validInteraction("u1", "c1")); err != nil {
		t.Fatalf("AddInteraction() error = %v", err)
	}

	first, _ := m.Interactions(context.Background())
	first[0].UserID = "mutated"

	second, _ := m.Interactions(context.Background())
	if second[0].UserID != "u1" {
		t.Fatal("caller mutation leaked into the store")
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.AddInteraction(validInteraction("u1", "c1"))
		}()
		go func() {
			defer wg.Done()
			_, _ = m.Interactions(context.Background())
			_, _ = m.Catalog(context.Background())
		}()
	}
	wg.Wait()

	interactions, _ := m.Interactions(context.Background())
	if len(interactions) != 10 {
		t.Fatalf("expected 10 interactions, got %d", len(interactions))
	}
}

func TestLoadSeedFile(t *testing.T) {
	t.Parallel()

	seed := `{
		"artists": [{"id": "a1", "name": "The Vantage", "genres": ["indie rock"], "popularity": 62}],
		"venues": [{"id": "v1", "name": "Harbor Hall", "latitude": 47.6, "longitude": -122.3, "capacity": 1200, "venue_type": "club"}],
		"concerts": [{"id": "c1", "artist_id": "a1", "venue_id": "v1", "date": "2026-06-20T20:00:00Z"}],
		"interactions": [{"user_id": "u1", "concert_id": "c1", "type": "attended", "timestamp": "2026-06-21T01:00:00Z", "rating": 4.5}]
	}`
	path := filepath.Join(t.TempDir(), "seed.json")
	if err := os.WriteFile(path, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	m := NewMemory()
	if err := m.LoadSeedFile(path); err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}

	cat, err := m.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}
	if cat.Artist("a1") == nil || cat.Venue("v1") == nil || cat.Concert("c1") == nil {
		t.Fatal("seed records missing from catalog")
	}

	interactions, _ := m.Interactions(context.Background())
	if len(interactions) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(interactions))
	}
	if interactions[0].Rating == nil || *interactions[0].Rating != 4.5 {
		t.Fatalf("rating not preserved: %+v", interactions[0])
	}
}

func TestLoadSeedFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"artists": [`},
		{name: "duplicate concert id", content: `{
			"concerts": [
				{"id": "c1", "artist_id": "a1", "venue_id": "v1"},
				{"id": "c1", "artist_id": "a2", "venue_id": "v2"}
			]
		}`},
		{name: "invalid interaction type", content: `{
			"interactions": [{"user_id": "u1", "concert_id": "c1", "type": "teleported"}]
		}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "seed.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write seed: %v", err)
			}
			if err := NewMemory().LoadSeedFile(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if err := NewMemory().LoadSeedFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
