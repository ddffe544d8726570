// VenueLens - Concert Discovery Recommendations and Model Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/venuelens

// Package algorithms implements the per-strategy scorers for the hybrid
// recommendation engine.
//
// Each scorer implements the recommend.Scorer interface and is registered
// with the engine at wiring time.
//
// # Scorer Categories
//
//   - Collaborative Filtering: UserCF (similar users), ItemCF (co-engaged
//     concerts)
//   - Content-Based: ArtistContent (genre/popularity/era composite),
//     VenueContent (geo/capacity/type composite)
//
// # Thread Safety
//
// Scorers hold only immutable configuration and compute exclusively over
// the per-request snapshot, so all scorers are safe for concurrent use.
package algorithms
