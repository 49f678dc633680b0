package ascapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"catalog-sync/core/errs"
)

// ErrorObject is one entry of a JSON:API error response.
type ErrorObject struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// APIError is a non-success response from the API.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Errors     []ErrorObject
	Body       string
}

func newAPIError(status int, method, path string, body []byte) *APIError {
	e := &APIError{StatusCode: status, Method: method, Path: path, Body: string(body)}
	var parsed struct {
		Errors []ErrorObject `json:"errors"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Errors = parsed.Errors
	}
	return e
}

// Detail returns the human-readable messages from the error body, falling back
// to the status and a truncated raw body.
func (e *APIError) Detail() string {
	var parts []string
	for _, obj := range e.Errors {
		switch {
		case obj.Detail != "":
			parts = append(parts, obj.Detail)
		case obj.Title != "":
			parts = append(parts, obj.Title)
		default:
			parts = append(parts, "Unknown error")
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "; ")
	}
	return fmt.Sprintf("HTTP %d - %s", e.StatusCode, errs.Truncate(e.Body, 200))
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Detail())
}

// Is maps status codes onto the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusNotFound:
		return target == errs.ErrNotFound
	case http.StatusConflict:
		return target == errs.ErrConflict
	default:
		return target == errs.ErrRemoteRejected
	}
}
