package reconcile

import (
	"context"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/utils"
)

// Spec defines the entity-type-specific hooks the engine drives.
// D is the desired (locally authored) representation of the entity.
type Spec[D any] struct {
	// Kind names the entity type for results and errors.
	Kind string

	// Key returns the natural key of a desired entity.
	Key func(D) string

	// RemoteKey returns the natural key of a remote resource.
	RemoteKey func(ascapi.Resource) string

	// Create issues the single remote write that creates the entity.
	Create func(ctx context.Context, desired D) ascapi.Outcome

	// Update rewrites the mutable fields of a matched entity.
	// Nil marks the entity type as immutable; matches are skipped.
	Update func(ctx context.Context, existing ascapi.Resource, desired D) error

	// Refetch lists the remote entities again after a conflict.
	// Nil means conflicts can never be resolved.
	Refetch func(ctx context.Context) ([]ascapi.Resource, error)
}

// ByAttribute returns a RemoteKey reading a string attribute.
func ByAttribute(name string) func(ascapi.Resource) string {
	return func(r ascapi.Resource) string {
		return utils.ToString(r.Attributes[name])
	}
}

// ByID returns a RemoteKey that uses the resource id as the natural key,
// as territories do.
func ByID() func(ascapi.Resource) string {
	return func(r ascapi.Resource) string {
		return r.ID
	}
}
