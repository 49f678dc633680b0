package release

import (
	"context"
	"fmt"
	"testing"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) FindApp(ctx context.Context, bundleID string) (*ascapi.Resource, error) {
	args := m.Called(ctx, bundleID)
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) ListVersions(ctx context.Context, appID, platform, state string) ([]ascapi.AppVersion, error) {
	args := m.Called(ctx, appID, platform, state)
	v, _ := args.Get(0).([]ascapi.AppVersion)
	return v, args.Error(1)
}

func (m *mockRemote) CreateVersion(ctx context.Context, appID, platform, versionString string) ascapi.Outcome {
	return m.Called(ctx, appID, platform, versionString).Get(0).(ascapi.Outcome)
}

func (m *mockRemote) LatestBuild(ctx context.Context, appID, version string) (*ascapi.Build, error) {
	args := m.Called(ctx, appID, version)
	b, _ := args.Get(0).(*ascapi.Build)
	return b, args.Error(1)
}

func (m *mockRemote) AttachBuild(ctx context.Context, versionID, buildID string) error {
	return m.Called(ctx, versionID, buildID).Error(0)
}

func (m *mockRemote) CreateReviewSubmission(ctx context.Context, appID, platform string) ascapi.Outcome {
	return m.Called(ctx, appID, platform).Get(0).(ascapi.Outcome)
}

func (m *mockRemote) ListReviewSubmissions(ctx context.Context, appID, platform string, states []string) ([]ascapi.Resource, error) {
	args := m.Called(ctx, appID, platform, states)
	r, _ := args.Get(0).([]ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) CreateReviewSubmissionItem(ctx context.Context, submissionID, versionID string) ascapi.Outcome {
	return m.Called(ctx, submissionID, versionID).Get(0).(ascapi.Outcome)
}

func (m *mockRemote) SubmitReviewSubmission(ctx context.Context, submissionID string) error {
	return m.Called(ctx, submissionID).Error(0)
}

// clock is a manual time source; sleeping advances it.
type clock struct {
	t      time.Time
	sleeps int
}

func (c *clock) now() time.Time { return c.t }

func (c *clock) sleep(_ context.Context, d time.Duration) error {
	c.sleeps++
	c.t = c.t.Add(d)
	return nil
}

type stubSource struct {
	c     *clock
	mints int
}

func (s *stubSource) Mint() (token.Session, error) {
	s.mints++
	return token.Session{Token: fmt.Sprintf("t%d", s.mints), MintedAt: s.c.now()}, nil
}

const testApp = "com.example.app"

func newTestService(m *mockRemote, src token.Source) (*Service, *clock) {
	c := &clock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	cfg := Config{PollIntervalSeconds: 30, PollTimeoutSeconds: 2400, TokenRefreshSeconds: 900}
	s := NewService(m, src, cfg, "IOS", zap.NewNop())
	s.now = c.now
	s.sleep = c.sleep
	return s, c
}

func withApp(m *mockRemote) {
	m.On("FindApp", mock.Anything, testApp).Return(&ascapi.Resource{ID: "app-1"}, nil)
}

func TestEnsureVersion_CreatesInitial(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").Return([]ascapi.AppVersion{}, nil)
	m.On("CreateVersion", mock.Anything, "app-1", "IOS", "1.0.0").
		Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "v1"}})

	s, _ := newTestService(m, nil)
	res, err := s.EnsureVersion(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, &VersionResult{Version: "1.0.0", VersionID: "v1", State: StatePrepareForSubmission, Action: reconcile.ActionCreated}, res)
	m.AssertExpectations(t)
}

func TestEnsureVersion_IncrementsAfterRelease(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").
		Return([]ascapi.AppVersion{{ID: "v0", VersionString: "2.3.9", State: StateReadyForSale}}, nil)
	m.On("CreateVersion", mock.Anything, "app-1", "IOS", "2.4.0").
		Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "v1"}})

	s, _ := newTestService(m, nil)
	res, err := s.EnsureVersion(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, "2.4.0", res.Version)
}

func TestEnsureVersion_ReusesInFlight(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").
		Return([]ascapi.AppVersion{{ID: "v5", VersionString: "1.4.0", State: "WAITING_FOR_REVIEW"}}, nil)

	s, _ := newTestService(m, nil)
	res, err := s.EnsureVersion(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, &VersionResult{Version: "1.4.0", VersionID: "v5", State: "WAITING_FOR_REVIEW", Action: reconcile.ActionSkipped}, res)
	m.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureVersion_PendingReleaseIsFatal(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").
		Return([]ascapi.AppVersion{{VersionString: "1.4.0", State: StatePendingDeveloperRelease}}, nil)

	s, _ := newTestService(m, nil)
	_, err := s.EnsureVersion(context.Background(), testApp)

	assert.ErrorIs(t, err, errs.ErrPendingRelease)
	m.AssertNotCalled(t, "CreateVersion", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureVersion_ConflictResolvedByVersionString(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").
		Return([]ascapi.AppVersion{{ID: "v0", VersionString: "1.0.0", State: StateReadyForSale}}, nil).Once()
	m.On("CreateVersion", mock.Anything, "app-1", "IOS", "1.0.1").Return(ascapi.Outcome{Kind: ascapi.AlreadyExists})
	m.On("ListVersions", mock.Anything, "app-1", "IOS", "").
		Return([]ascapi.AppVersion{
			{ID: "v0", VersionString: "1.0.0", State: StateReadyForSale},
			{ID: "v1", VersionString: "1.0.1", State: StatePrepareForSubmission},
		}, nil).Once()

	s, _ := newTestService(m, nil)
	res, err := s.EnsureVersion(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, "v1", res.VersionID)
	assert.Equal(t, reconcile.ActionSkipped, res.Action)
	m.AssertExpectations(t)
}

func TestWaitForBuild_PollsUntilValid(t *testing.T) {
	m := &mockRemote{}
	m.On("LatestBuild", mock.Anything, "app-1", "1.0.1").Return(nil, nil).Once()
	m.On("LatestBuild", mock.Anything, "app-1", "1.0.1").Return(&ascapi.Build{ID: "b1", Version: "42", ProcessingState: "PROCESSING"}, nil).Once()
	m.On("LatestBuild", mock.Anything, "app-1", "1.0.1").Return(&ascapi.Build{ID: "b1", Version: "42", ProcessingState: BuildValid}, nil).Once()

	s, c := newTestService(m, nil)
	_, build, err := s.WaitForBuild(context.Background(), "app-1", "1.0.1")

	require.NoError(t, err)
	assert.Equal(t, "b1", build.ID)
	assert.Equal(t, 2, c.sleeps)
}

func TestWaitForBuild_FailedBuild(t *testing.T) {
	for _, state := range []string{BuildFailed, BuildInvalid} {
		t.Run(state, func(t *testing.T) {
			m := &mockRemote{}
			m.On("LatestBuild", mock.Anything, mock.Anything, mock.Anything).Return(&ascapi.Build{Version: "7", ProcessingState: state}, nil)

			s, _ := newTestService(m, nil)
			_, _, err := s.WaitForBuild(context.Background(), "app-1", "1.0.1")

			assert.ErrorIs(t, err, errs.ErrBuildFailed)
			assert.True(t, errs.IsRunScoped(err))
		})
	}
}

func TestWaitForBuild_TimesOutAtCeiling(t *testing.T) {
	m := &mockRemote{}
	m.On("LatestBuild", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	s, c := newTestService(m, nil)
	_, _, err := s.WaitForBuild(context.Background(), "app-1", "1.0.1")

	assert.ErrorIs(t, err, errs.ErrTimeout)
	assert.Equal(t, 80, c.sleeps)
}

func TestWaitForBuild_RefreshesTokenAfterWindow(t *testing.T) {
	m := &mockRemote{}
	var seen []string
	m.On("LatestBuild", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sess, _ := token.FromContext(args.Get(0).(context.Context))
			seen = append(seen, sess.Token)
		}).
		Return(nil, nil).Times(40)
	m.On("LatestBuild", mock.Anything, mock.Anything, mock.Anything).
		Return(&ascapi.Build{ID: "b1", ProcessingState: BuildValid}, nil)

	src := &stubSource{}
	s, c := newTestService(m, src)
	src.c = c

	ctx, _, err := s.WaitForBuild(context.Background(), "app-1", "1.0.1")
	require.NoError(t, err)

	// 40 polls at 30s span 1200s: one mint up front and one past the 900s window.
	assert.Equal(t, 2, src.mints)
	assert.Equal(t, "t1", seen[0])
	assert.Equal(t, "t1", seen[30])
	assert.Equal(t, "t2", seen[31])
	sess, ok := token.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "t2", sess.Token)
}

func TestWaitForBuild_StopsOnCancel(t *testing.T) {
	m := &mockRemote{}
	m.On("LatestBuild", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newTestService(m, nil)
	s.sleep = sleep

	_, _, err := s.WaitForBuild(ctx, "app-1", "1.0.1")
	assert.ErrorIs(t, err, context.Canceled)
}

func prepareSubmit(m *mockRemote) {
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", StatePrepareForSubmission).
		Return([]ascapi.AppVersion{{ID: "v1", VersionString: "1.0.1", State: StatePrepareForSubmission}}, nil)
	m.On("LatestBuild", mock.Anything, "app-1", "1.0.1").Return(&ascapi.Build{ID: "b1", Version: "42", ProcessingState: BuildValid}, nil)
	m.On("AttachBuild", mock.Anything, "v1", "b1").Return(nil)
}

func TestSubmit(t *testing.T) {
	m := &mockRemote{}
	prepareSubmit(m)
	m.On("CreateReviewSubmission", mock.Anything, "app-1", "IOS").
		Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "rs1"}})
	m.On("CreateReviewSubmissionItem", mock.Anything, "rs1", "v1").Return(ascapi.Outcome{Kind: ascapi.Created})
	m.On("SubmitReviewSubmission", mock.Anything, "rs1").Return(nil)

	s, _ := newTestService(m, nil)
	res, err := s.Submit(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, &SubmitResult{Version: "1.0.1", BuildVersion: "42", BuildID: "b1", SubmissionID: "rs1"}, res)
	m.AssertExpectations(t)
}

func TestSubmit_ReusesOpenSubmission(t *testing.T) {
	m := &mockRemote{}
	prepareSubmit(m)
	m.On("CreateReviewSubmission", mock.Anything, "app-1", "IOS").Return(ascapi.Outcome{Kind: ascapi.AlreadyExists})
	m.On("ListReviewSubmissions", mock.Anything, "app-1", "IOS", []string{"READY_FOR_REVIEW", "WAITING_FOR_REVIEW"}).
		Return([]ascapi.Resource{{ID: "rs9"}}, nil)
	m.On("CreateReviewSubmissionItem", mock.Anything, "rs9", "v1").Return(ascapi.Outcome{Kind: ascapi.AlreadyExists})
	m.On("SubmitReviewSubmission", mock.Anything, "rs9").Return(nil)

	s, _ := newTestService(m, nil)
	res, err := s.Submit(context.Background(), testApp)

	require.NoError(t, err)
	assert.Equal(t, "rs9", res.SubmissionID)
	m.AssertExpectations(t)
}

func TestSubmit_UnresolvedSubmissionConflict(t *testing.T) {
	m := &mockRemote{}
	prepareSubmit(m)
	m.On("CreateReviewSubmission", mock.Anything, "app-1", "IOS").Return(ascapi.Outcome{Kind: ascapi.AlreadyExists})
	m.On("ListReviewSubmissions", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]ascapi.Resource{}, nil)

	s, _ := newTestService(m, nil)
	_, err := s.Submit(context.Background(), testApp)

	assert.ErrorIs(t, err, errs.ErrConflictUnresolved)
	m.AssertNotCalled(t, "SubmitReviewSubmission", mock.Anything, mock.Anything)
}

func TestSubmit_NoVersionInPreparation(t *testing.T) {
	m := &mockRemote{}
	withApp(m)
	m.On("ListVersions", mock.Anything, "app-1", "IOS", StatePrepareForSubmission).Return([]ascapi.AppVersion{}, nil)

	s, _ := newTestService(m, nil)
	_, err := s.Submit(context.Background(), testApp)

	assert.ErrorIs(t, err, errs.ErrNotFound)
	m.AssertNotCalled(t, "LatestBuild", mock.Anything, mock.Anything, mock.Anything)
}
