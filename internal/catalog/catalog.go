// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package catalog defines the typed feature records the recommendation
// engine consumes: artists, venues, concerts, and user interactions.
//
// Records are supplied by an external data-access collaborator as
// already-materialized in-memory collections. Required fields are explicit
// struct members so missing data is caught at construction; the Extra map
// carries forward-compatible attributes without stringly-typed lookups in
// the hot path.
package catalog

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// validate is the package-level validator shared by all Validate methods.
var validate = validator.New(validator.WithRequiredStructEnabled())

// InteractionType classifies a user-concert interaction. Ordinal weight
// increases attended < purchased < viewed.
type InteractionType string

const (
	InteractionAttended  InteractionType = "attended"
	InteractionPurchased InteractionType = "purchased"
	InteractionViewed    InteractionType = "viewed"
)

// Weight returns the ordinal interaction weight used when building the
// interaction matrix. Unknown types weigh 0 and contribute nothing.
func (t InteractionType) Weight() float64 {
	switch t {
	case InteractionAttended:
		return 1.0
	case InteractionPurchased:
		return 2.0
	case InteractionViewed:
		return 3.0
	default:
		return 0
	}
}

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionAttended, InteractionPurchased, InteractionViewed:
		return true
	}
	return false
}

// UserInteraction is one observed event of a user engaging with a concert.
// Immutable once recorded; consumed read-only by the collaborative filter.
type UserInteraction struct {
	UserID    string          `json:"user_id" validate:"required"`
	ConcertID string          `json:"concert_id" validate:"required"`
	Type      InteractionType `json:"type" validate:"required,oneof=attended purchased viewed"`
	Timestamp time.Time       `json:"timestamp"`

	// Rating is an optional 0-5 user rating; nil when not supplied.
	Rating *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// Validate checks required fields and value ranges.
func (i *UserInteraction) Validate() error {
	if err := validate.Struct(i); err != nil {
		return fmt.Errorf("invalid interaction: %w", err)
	}
	return nil
}

// Artist is one artist feature record.
type Artist struct {
	ID     string   `json:"id" validate:"required"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`

	// Popularity is a 0-100 popularity score.
	Popularity float64 `json:"popularity" validate:"gte=0,lte=100"`

	// FormationYear is the year the act formed; 0 when unknown, in which
	// case era proximity defaults to a perfect match.
	FormationYear int `json:"formation_year,omitempty"`

	// Extra carries forward-compatible attributes not modeled above.
	Extra map[string]any `json:"extra,omitempty"`
}

// Validate checks required fields and value ranges.
func (a *Artist) Validate() error {
	if err := validate.Struct(a); err != nil {
		return fmt.Errorf("invalid artist %q: %w", a.ID, err)
	}
	return nil
}

// Venue is one venue feature record.
type Venue struct {
	ID        string  `json:"id" validate:"required"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Capacity  int     `json:"capacity" validate:"gte=0"`

	// VenueType is a free-form category ("arena", "club", "amphitheater").
	VenueType string `json:"venue_type"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Validate checks required fields and value ranges.
func (v *Venue) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("invalid venue %q: %w", v.ID, err)
	}
	return nil
}

// Concert links an artist to a venue on a date. It is the item unit of
// recommendation.
type Concert struct {
	ID       string         `json:"id" validate:"required"`
	ArtistID string         `json:"artist_id" validate:"required"`
	VenueID  string         `json:"venue_id" validate:"required"`
	Date     time.Time      `json:"date"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Validate checks required fields.
func (c *Concert) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid concert %q: %w", c.ID, err)
	}
	return nil
}

// Catalog bundles the feature records for one recommendation request.
// The engine treats it as an immutable snapshot; callers rebuild for new
// data rather than mutating in place.
type Catalog struct {
	Artists  map[string]*Artist
	Venues   map[string]*Venue
	Concerts map[string]*Concert
}

// NewCatalog builds an indexed catalog from record slices, validating each
// record. Duplicate IDs are rejected.
func NewCatalog(artists []*Artist, venues []*Venue, concerts []*Concert) (*Catalog, error) {
	c := &Catalog{
		Artists:  make(map[string]*Artist, len(artists)),
		Venues:   make(map[string]*Venue, len(venues)),
		Concerts: make(map[string]*Concert, len(concerts)),
	}

	for _, a := range artists {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.Artists[a.ID]; dup {
			return nil, fmt.Errorf("duplicate artist id %q", a.ID)
		}
		c.Artists[a.ID] = a
	}
	for _, v := range venues {
		if err := v.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.Venues[v.ID]; dup {
			return nil, fmt.Errorf("duplicate venue id %q", v.ID)
		}
		c.Venues[v.ID] = v
	}
	for _, con := range concerts {
		if err := con.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.Concerts[con.ID]; dup {
			return nil, fmt.Errorf("duplicate concert id %q", con.ID)
		}
		c.Concerts[con.ID] = con
	}

	return c, nil
}

// Artist returns the artist record for id, or nil when absent.
func (c *Catalog) Artist(id string) *Artist {
	if c == nil {
		return nil
	}
	return c.Artists[id]
}

// Venue returns the venue record for id, or nil when absent.
func (c *Catalog) Venue(id string) *Venue {
	if c == nil {
		return nil
	}
	return c.Venues[id]
}

// Concert returns the concert record for id, or nil when absent.
func (c *Catalog) Concert(id string) *Concert {
	if c == nil {
		return nil
	}
	return c.Concerts[id]
}
