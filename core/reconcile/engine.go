package reconcile

import (
	"context"
	"fmt"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
)

// Match returns the first remote resource whose natural key equals key.
func Match(existing []ascapi.Resource, key string, remoteKey func(ascapi.Resource) string) (*ascapi.Resource, bool) {
	for i := range existing {
		if remoteKey(existing[i]) == key {
			return &existing[i], true
		}
	}
	return nil, false
}

// Reconcile brings one desired entity in line with the remote catalog.
//
// A matched entity is updated when Spec.Update is set and skipped otherwise.
// An unmatched entity is created; a conflicting create is resolved by one
// refetch and re-match, and reports *errs.ConflictUnresolvedError when the
// entity still cannot be found. Rejected writes return a failed Result together
// with the error so callers can record it and move on.
func Reconcile[D any](ctx context.Context, spec Spec[D], desired D, existing []ascapi.Resource) (Result, error) {
	key := spec.Key(desired)
	res := Result{Kind: spec.Kind, Key: key}

	if found, ok := Match(existing, key, spec.RemoteKey); ok {
		res.ID = found.ID
		if spec.Update == nil {
			res.Action = ActionSkipped
			return res, nil
		}
		if err := spec.Update(ctx, *found, desired); err != nil {
			return fail(res, fmt.Errorf("update %s %q: %w", spec.Kind, key, err))
		}
		res.Action = ActionUpdated
		return res, nil
	}

	out := spec.Create(ctx, desired)
	switch out.Kind {
	case ascapi.Created:
		res.ID = out.ID()
		res.Action = ActionCreated
		return res, nil
	case ascapi.AlreadyExists:
		return resolveConflict(ctx, spec, key, res)
	default:
		err := out.Err
		if err == nil {
			err = errs.ErrRemoteRejected
		}
		return fail(res, fmt.Errorf("create %s %q: %w", spec.Kind, key, err))
	}
}

func resolveConflict[D any](ctx context.Context, spec Spec[D], key string, res Result) (Result, error) {
	unresolved := &errs.ConflictUnresolvedError{Kind: spec.Kind, Key: key}
	if spec.Refetch == nil {
		return fail(res, unresolved)
	}
	fresh, err := spec.Refetch(ctx)
	if err != nil {
		return fail(res, fmt.Errorf("refetch %s after conflict: %w", spec.Kind, err))
	}
	found, ok := Match(fresh, key, spec.RemoteKey)
	if !ok {
		return fail(res, unresolved)
	}
	res.ID = found.ID
	res.Action = ActionSkipped
	return res, nil
}

func fail(res Result, err error) (Result, error) {
	res.Action = ActionFailed
	res.Error = err.Error()
	return res, err
}
