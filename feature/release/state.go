package release

import (
	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
)

// App Store version states the state machine acts on.
const (
	StateReadyForSale            = "READY_FOR_SALE"
	StatePrepareForSubmission    = "PREPARE_FOR_SUBMISSION"
	StatePendingDeveloperRelease = "PENDING_DEVELOPER_RELEASE"
)

// InitialVersion is created for an app with no versions.
const InitialVersion = "1.0.0"

// Decision is what EnsureVersion does next.
type Decision struct {
	// Create is the version string to create; empty means reuse Current.
	Create  string
	Current *ascapi.AppVersion
}

// Latest returns the most recently created version. Ties go to the higher
// version string.
func Latest(versions []ascapi.AppVersion) *ascapi.AppVersion {
	var best *ascapi.AppVersion
	for i := range versions {
		v := &versions[i]
		if best == nil {
			best = v
			continue
		}
		switch {
		case v.CreatedDate.After(best.CreatedDate):
			best = v
		case v.CreatedDate.Equal(best.CreatedDate) && compareVersions(v.VersionString, best.VersionString) > 0:
			best = v
		}
	}
	return best
}

// Decide maps the latest version's state to an action. States other than
// released or pending release are reused as they are.
func Decide(versions []ascapi.AppVersion) (Decision, error) {
	latest := Latest(versions)
	if latest == nil {
		return Decision{Create: InitialVersion}, nil
	}
	switch latest.State {
	case StateReadyForSale:
		next, err := Increment(latest.VersionString)
		if err != nil {
			return Decision{}, err
		}
		return Decision{Create: next, Current: latest}, nil
	case StatePendingDeveloperRelease:
		return Decision{}, &errs.StateError{
			Subject: "version " + latest.VersionString,
			State:   latest.State,
			Err:     errs.ErrPendingRelease,
		}
	default:
		return Decision{Current: latest}, nil
	}
}
