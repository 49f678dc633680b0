// Package reconcile matches desired catalog entities against what the remote
// catalog already holds and decides, per entity, whether to create, update, or
// leave it alone.
//
// Matching is by natural key only (a product id, a locale, a reference name);
// remote ids are never assumed. The remote signals duplicates with a conflict
// rather than an idempotent success, so a conflicting create triggers exactly
// one refetch and re-match before giving up.
//
// # Architecture
//
//  1. Spec: per-entity-type hooks for extracting keys, creating, updating and
//     refetching. Immutable entity types leave Update nil.
//
//  2. Engine: Reconcile runs a single desired entity through match, create or
//     update, and conflict recovery. Match is a linear scan, which is adequate
//     for catalogs of tens of entities.
//
// 3. Summary: Tally folds results into created/updated/skipped/failed counts.
//
// # Usage Example
//
//	spec := reconcile.Spec[Localization]{
//	    Kind:      "localization",
//	    Key:       func(l Localization) string { return l.Locale },
//	    RemoteKey: reconcile.ByAttribute("locale"),
//	    Create:    createLocalization,
//	    Update:    updateLocalization,
//	    Refetch:   listLocalizations,
//	}
//	res, err := reconcile.Reconcile(ctx, spec, loc, existing)
package reconcile
