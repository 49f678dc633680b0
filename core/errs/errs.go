package errs

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors for the catalog-sync system.
var (
	// ErrMissingConfiguration indicates required input is absent.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrNotFound indicates a referenced remote object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the remote already holds the entity.
	ErrConflict = errors.New("conflict")

	// ErrConflictUnresolved indicates a conflict whose entity could not be found on refetch.
	ErrConflictUnresolved = errors.New("conflict unresolved")

	// ErrRemoteRejected indicates the backend refused a request.
	ErrRemoteRejected = errors.New("remote rejected")

	// ErrTimeout indicates a poll exceeded its ceiling.
	ErrTimeout = errors.New("operation timed out")

	// ErrPartialUpload indicates a chunk transfer failed.
	ErrPartialUpload = errors.New("partial upload failure")

	// ErrMissingAsset indicates no review asset could be located on disk.
	ErrMissingAsset = errors.New("missing asset")

	// ErrPendingRelease indicates the latest version awaits a manual developer release.
	ErrPendingRelease = errors.New("version pending developer release")

	// ErrBuildFailed indicates build processing ended in a failed state.
	ErrBuildFailed = errors.New("build processing failed")
)

// runScoped lists the sentinels that abort the whole run.
var runScoped = []error{
	ErrMissingConfiguration,
	ErrConflictUnresolved,
	ErrTimeout,
	ErrPendingRelease,
	ErrBuildFailed,
}

// IsRunScoped reports whether err must terminate the run.
func IsRunScoped(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range runScoped {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// MissingConfigurationError lists every required setting that was empty.
type MissingConfigurationError struct {
	Fields []string
}

// Error implements the error interface.
func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Fields, ", "))
}

// Is implements errors.Is support.
func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// NotFoundError represents a lookup that returned nothing.
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

// ConflictUnresolvedError is returned when a create conflicted but the entity is
// still missing after a refetch.
type ConflictUnresolvedError struct {
	Kind string
	Key  string
}

// Error implements the error interface.
func (e *ConflictUnresolvedError) Error() string {
	return fmt.Sprintf("%s %q reported as existing but not found after refetch", e.Kind, e.Key)
}

// Is implements errors.Is support.
func (e *ConflictUnresolvedError) Is(target error) bool {
	return target == ErrConflictUnresolved
}

// UploadError describes a failed chunk transfer.
type UploadError struct {
	Offset     int64
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *UploadError) Error() string {
	return fmt.Sprintf("upload chunk at offset %d: HTTP %d - %s", e.Offset, e.StatusCode, e.Body)
}

// Is implements errors.Is support.
func (e *UploadError) Is(target error) bool {
	return target == ErrPartialUpload
}

// StateError describes a fatal remote state (pending release, failed build).
type StateError struct {
	Subject string
	State   string
	Err     error
}

// Error implements the error interface.
func (e *StateError) Error() string {
	return fmt.Sprintf("%s is in state %s: %v", e.Subject, e.State, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *StateError) Unwrap() error {
	return e.Err
}

// Truncate shortens s to at most n bytes without splitting a rune, used when
// echoing raw response bodies.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
