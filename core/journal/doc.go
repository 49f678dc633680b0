// Package journal records an audit trail of sync, version and submit runs.
//
// Each run is one catalog_runs row with its per-entity outcomes in
// catalog_run_entries. The trail is write-only from the reconciliation engine's
// point of view; nothing here feeds back into a later run's decisions. The runs
// HTTP API reads it for operators.
//
// # Usage
//
//	store := journal.New(db)
//	_ = store.Migrate(ctx)
//	run := journal.NewRun("sync", started)
//	run.Add(result)
//	run.Finish(summary, err, time.Now())
//	err = store.Record(ctx, run)
package journal
