package reconcile

// Action is what the engine did for one entity.
type Action string

const (
	// ActionCreated means the entity was created by this run.
	ActionCreated Action = "created"
	// ActionUpdated means mutable fields of an existing entity were rewritten.
	ActionUpdated Action = "updated"
	// ActionSkipped means the entity already existed and was left untouched.
	ActionSkipped Action = "skipped"
	// ActionFailed means the create or update was rejected.
	ActionFailed Action = "failed"
)

// Result is the reconciliation output for a single entity.
type Result struct {
	// Kind names the entity type (e.g., "subscription", "localization").
	Kind string `json:"kind"`

	// Key is the natural key the entity was matched on.
	Key string `json:"key"`

	// ID is the remote id, empty when the entity could not be created.
	ID string `json:"id,omitempty"`

	// Action is the outcome for this entity.
	Action Action `json:"action"`

	// Error carries the backend detail for failed entities.
	Error string `json:"error,omitempty"`
}

// Summary provides aggregate counts over a set of results.
type Summary struct {
	// Created counts entities created by this run.
	Created int `json:"created"`

	// Updated counts entities whose mutable fields were rewritten.
	Updated int `json:"updated"`

	// Skipped counts entities that already existed.
	Skipped int `json:"skipped"`

	// Failed counts entities whose write was rejected.
	Failed int `json:"failed"`
}
