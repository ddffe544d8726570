// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package store provides the in-memory DataProvider implementation: a
// mutex-guarded holder for the interaction history and feature catalog.
// It stands in for the external data-access collaborator in the server
// and in tests; a persistent implementation can replace it behind the
// same interface.
package store

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/venuelens/internal/catalog"
)

// Memory is an in-memory DataProvider. Safe for concurrent use; readers
// get the current snapshot references, which are treated as immutable by
// the engine.
type Memory struct {
	mu           sync.RWMutex
	interactions []catalog.UserInteraction
	cat          *catalog.Catalog
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cat: &catalog.Catalog{
		Artists:  map[string]*catalog.Artist{},
		Venues:   map[string]*catalog.Venue{},
		Concerts: map[string]*catalog.Concert{},
	}}
}

// Interactions returns the current interaction history.
func (m *Memory) Interactions(_ context.Context) ([]catalog.UserInteraction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]catalog.UserInteraction, len(m.interactions))
	copy(out, m.interactions)
	return out, nil
}

// Catalog returns the current feature catalog.
func (m *Memory) Catalog(_ context.Context) (*catalog.Catalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cat, nil
}

// SetCatalog replaces the feature catalog.
func (m *Memory) SetCatalog(c *catalog.Catalog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cat = c
}

// SetInteractions replaces the interaction history. Each record is
// validated; the first invalid record aborts the whole replacement.
func (m *Memory) SetInteractions(interactions []catalog.UserInteraction) error {
	for i := range interactions {
		if err := interactions[i].Validate(); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = interactions
	return nil
}

// AddInteraction appends one validated interaction.
func (m *Memory) AddInteraction(interaction catalog.UserInteraction) error {
	if err := interaction.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactions = append(m.interactions, interaction)
	return nil
}

// SeedFile is the JSON layout of a data seed file loaded at startup.
type SeedFile struct {
	Artists      []*catalog.Artist         `json:"artists"`
	Venues       []*catalog.Venue          `json:"venues"`
	Concerts     []*catalog.Concert        `json:"concerts"`
	Interactions []catalog.UserInteraction `json:"interactions"`
}

// LoadSeedFile reads a JSON seed file and replaces the store contents.
func (m *Memory) LoadSeedFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var seed SeedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	cat, err := catalog.NewCatalog(seed.Artists, seed.Venues, seed.Concerts)
	if err != nil {
		return fmt.Errorf("build catalog: %w", err)
	}
	if err := m.SetInteractions(seed.Interactions); err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}
	m.SetCatalog(cat)
	return nil
}
