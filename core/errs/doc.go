// Package errs defines the failure taxonomy shared by the catalog and release flows.
//
// Every failure maps onto one sentinel so callers can branch with errors.Is. The
// sentinels are split into two scopes:
//
//   - Run-scoped: the run cannot continue (missing configuration, unresolvable
//     conflicts, poll timeouts, a version pending developer release, failed builds).
//   - Entity-scoped: only the current entity stops; siblings keep going (remote
//     validation errors, partial uploads, missing review assets).
//
// A conflict response is never an error here; the client turns it into an
// AlreadyExists outcome before it reaches the reconciler.
//
// # Usage
//
//	if errs.IsRunScoped(err) {
//	    return err
//	}
//	logger.Warn("entity failed", zap.Error(err))
package errs
