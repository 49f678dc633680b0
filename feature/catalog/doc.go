// Package catalog syncs a declarative subscription catalog to App Store Connect.
//
// The desired catalog is a YAML (or JSON) file listing subscription groups and
// their subscriptions. For each subscription the syncer runs, in order:
//
//  1. find-or-create the subscription (matched by product id, never updated)
//  2. create or update localizations
//  3. widen availability (never narrowed)
//  4. create the introductory offer if none exists
//  5. apply manual currency prices, then equalize from the base price
//  6. upload the review screenshot
//
// A failing step is recorded in the report and the next step still runs.
// Optionally every subscription and its group are submitted for review.
//
// # Usage
//
//	cat, err := catalog.Load(cfg.Catalog.Path)
//	syncer := catalog.NewSyncer(client, uploads, minter, cfg.Catalog, logger)
//	report, err := syncer.Sync(ctx, cat, cfg.AppStore.BundleID, catalog.Options{})
package catalog
