// Package token mints the short-lived ES256 bearer tokens App Store Connect expects
// and carries the current one through a context.Context.
//
// A Session is immutable. Refreshing produces a new Session stored in a derived
// context, so code holding the old context keeps a consistent view and nothing is
// mutated in place.
//
// # Usage
//
//	minter, err := token.NewMinter(keyID, issuerID, pemKey, 20*time.Minute)
//	sess, err := minter.Mint()
//	ctx = token.WithSession(ctx, sess)
//
//	// later, inside a long poll
//	ctx, refreshed, err = token.EnsureFresh(ctx, minter, 15*time.Minute)
package token
