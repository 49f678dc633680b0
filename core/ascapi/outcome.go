package ascapi

// OutcomeKind enumerates the results of a create call.
type OutcomeKind int

const (
	// Created means the entity was created by this call.
	Created OutcomeKind = iota
	// AlreadyExists means the backend answered 409; the entity is assumed present.
	AlreadyExists
	// Failed means the call failed for any other reason.
	Failed
)

// String returns the lowercase name of the kind.
func (k OutcomeKind) String() string {
	switch k {
	case Created:
		return "created"
	case AlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// Outcome is the tagged result of a create call.
type Outcome struct {
	Kind     OutcomeKind
	Resource *Resource
	Err      error
}

// ID returns the created resource id, or "" when there is none.
func (o Outcome) ID() string {
	if o.Resource == nil {
		return ""
	}
	return o.Resource.ID
}

// Failure builds a Failed outcome.
func Failure(err error) Outcome {
	return Outcome{Kind: Failed, Err: err}
}
