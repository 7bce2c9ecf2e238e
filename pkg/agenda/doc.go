// Package agenda defines the conference session model shared by the store,
// annotation manager and recommender.
//
// Invariants:
// - Session IDs are stable, non-empty strings derived from the session slug.
// - Rating and interest are in 0..5; 0 means "not set".
// - Tags are lowercase, trimmed and unique.
package agenda
