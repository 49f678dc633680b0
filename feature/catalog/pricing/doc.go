// Package pricing applies subscription prices across territories.
//
// One base price is matched to a backend price point in the base territory.
// The backend's equalization table for that point then supplies a price point
// for every other territory. Territories already priced (before or earlier in
// the run) are never written again.
//
// Writes are spaced by a token-bucket limiter; there is no retry.
package pricing
