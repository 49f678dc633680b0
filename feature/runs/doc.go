// Package runs exposes the run journal over HTTP.
//
// Routes:
//   - GET /runs             newest first, filtered by ?kind=, paged by ?limit= and ?offset=
//   - GET /runs/:id         one run with its per-entity entries
//   - GET /runs/:id/report  the archived JSON report, when archiving is enabled
package runs
