// Package report emits command results.
//
// Every command prints exactly one JSON object on stdout. When archiving is
// enabled the same bytes are also stored in the report bucket under
// reports/<kind>/<run_id>.json, where operators and the runs API can fetch them.
package report
