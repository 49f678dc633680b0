package errs_test

import (
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"catalog-sync/core/errs"

	"github.com/stretchr/testify/assert"
)

func TestIsRunScoped(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"missing configuration", &errs.MissingConfigurationError{Fields: []string{"BUNDLE_ID"}}, true},
		{"wrapped unresolved conflict", fmt.Errorf("group: %w", &errs.ConflictUnresolvedError{Kind: "group", Key: "premium"}), true},
		{"timeout", errs.ErrTimeout, true},
		{"pending release", &errs.StateError{Subject: "version 1.0.0", State: "PENDING_DEVELOPER_RELEASE", Err: errs.ErrPendingRelease}, true},
		{"remote rejected", fmt.Errorf("create: %w", errs.ErrRemoteRejected), false},
		{"partial upload", &errs.UploadError{Offset: 10, StatusCode: 500}, false},
		{"not found", errs.NewNotFoundError("price point", "USA"), false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errs.IsRunScoped(tt.err))
		})
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	assert.ErrorIs(t, errs.NewNotFoundError("app", "com.example"), errs.ErrNotFound)
	assert.ErrorIs(t, &errs.UploadError{}, errs.ErrPartialUpload)
	assert.ErrorIs(t, &errs.MissingConfigurationError{}, errs.ErrMissingConfiguration)

	err := &errs.MissingConfigurationError{Fields: []string{"KEY_ID", "ISSUER_ID"}}
	assert.Equal(t, "missing required configuration: KEY_ID, ISSUER_ID", err.Error())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", errs.Truncate("abc", 200))
	assert.Equal(t, "ab", errs.Truncate("abc", 2))
	assert.Equal(t, "pré", errs.Truncate("prévu", 4))
	assert.Equal(t, "pr", errs.Truncate("prévu", 3))
	assert.True(t, utf8.ValidString(errs.Truncate("日本語", 4)))
}
