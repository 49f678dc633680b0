// Package ascapi is a thin typed client for the App Store Connect JSON:API.
//
// Every call takes a context.Context that must carry a token.Session; the
// bearer header is read from it per request, so a refreshed session takes
// effect on the next call without touching the Client.
//
// # Results
//
// Reads return Resources (opaque id, type tag, attribute map, relationships).
// Creates return an Outcome instead of (resource, error) so callers branch on
// Created, AlreadyExists (HTTP 409), or Failed without inspecting status codes.
// Every other non-2xx response becomes an *APIError whose Detail() extracts the
// backend's structured error messages.
//
// # Usage
//
//	client, err := ascapi.New(cfg)
//	ctx = token.WithSession(ctx, sess)
//	app, err := client.FindApp(ctx, cfg.BundleID)
//	out := client.CreateSubscriptionGroup(ctx, app.ID, "Premium")
//	switch out.Kind {
//	case ascapi.Created, ascapi.AlreadyExists:
//	    ...
//	}
package ascapi
