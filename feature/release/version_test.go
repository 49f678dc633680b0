package release

import (
	"testing"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrement(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.0.0", "1.0.1"},
		{"1.0.9", "1.1.0"},
		{"1.9.9", "2.0.0"},
		{"0.0.0", "0.0.1"},
		{"2.3.9", "2.4.0"},
		{"1.2", "1.2.1"},
		{"3", "3.0.1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Increment(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Increment("1.x.0")
	assert.Error(t, err)
	_, err = Increment("1.0.0.0")
	assert.Error(t, err)
}

func TestLatest(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	versions := []ascapi.AppVersion{
		{ID: "a", VersionString: "1.0.9", CreatedDate: day},
		{ID: "b", VersionString: "1.0.10", CreatedDate: day},
		{ID: "c", VersionString: "2.0.0", CreatedDate: day.Add(-time.Hour)},
	}

	assert.Equal(t, "b", Latest(versions).ID)
	assert.Nil(t, Latest(nil))
}

func TestDecide(t *testing.T) {
	now := time.Now()

	d, err := Decide(nil)
	require.NoError(t, err)
	assert.Equal(t, InitialVersion, d.Create)

	d, err = Decide([]ascapi.AppVersion{
		{VersionString: "2.3.8", State: StateReadyForSale, CreatedDate: now.Add(-time.Hour)},
		{VersionString: "2.3.9", State: StateReadyForSale, CreatedDate: now},
	})
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", d.Create)

	for _, state := range []string{StatePrepareForSubmission, "WAITING_FOR_REVIEW", "IN_REVIEW", "REJECTED", "DEVELOPER_REJECTED"} {
		d, err = Decide([]ascapi.AppVersion{{ID: "v1", VersionString: "1.1.0", State: state, CreatedDate: now}})
		require.NoError(t, err, state)
		assert.Empty(t, d.Create, state)
		assert.Equal(t, "v1", d.Current.ID, state)
	}

	_, err = Decide([]ascapi.AppVersion{{VersionString: "1.1.0", State: StatePendingDeveloperRelease, CreatedDate: now}})
	assert.ErrorIs(t, err, errs.ErrPendingRelease)
	assert.True(t, errs.IsRunScoped(err))
}
