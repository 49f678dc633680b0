package app

import (
	"context"
	"errors"
	"testing"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) FindBundleID(ctx context.Context, identifier string) (*ascapi.Resource, error) {
	args := m.Called(ctx, identifier)
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) ListApps(ctx context.Context, bundleID string) ([]ascapi.Resource, error) {
	args := m.Called(ctx, bundleID)
	r, _ := args.Get(0).([]ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) CreateApp(ctx context.Context, a ascapi.NewApp) ascapi.Outcome {
	return m.Called(ctx, a).Get(0).(ascapi.Outcome)
}

func (m *mockRemote) GetApp(ctx context.Context, appID string) (*ascapi.Resource, error) {
	args := m.Called(ctx, appID)
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) SetContentRights(ctx context.Context, appID, declaration string) error {
	return m.Called(ctx, appID, declaration).Error(0)
}

func (m *mockRemote) ListAppPricePoints(ctx context.Context, appID, territory string) ([]ascapi.PricePoint, error) {
	args := m.Called(ctx, appID, territory)
	p, _ := args.Get(0).([]ascapi.PricePoint)
	return p, args.Error(1)
}

func (m *mockRemote) GetAppPriceSchedule(ctx context.Context, appID string) (*ascapi.Resource, error) {
	args := m.Called(ctx, appID)
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) ListManualPrices(ctx context.Context, scheduleID string) ([]ascapi.Resource, error) {
	args := m.Called(ctx, scheduleID)
	r, _ := args.Get(0).([]ascapi.Resource)
	return r, args.Error(1)
}

func (m *mockRemote) CreateAppPriceSchedule(ctx context.Context, appID, territory, pricePointID string) ascapi.Outcome {
	return m.Called(ctx, appID, territory, pricePointID).Get(0).(ascapi.Outcome)
}

func testConfig() Config {
	return Config{Name: "Example", SKU: "EX1", PrimaryLocale: "en-US", PriceTerritory: "USA"}
}

func appPoints() []ascapi.PricePoint {
	return []ascapi.PricePoint{
		{ID: "pp-free", Territory: "USA", CustomerPrice: "0.00", Tier: "0"},
		{ID: "pp-t1", Territory: "USA", CustomerPrice: "0.99", Tier: "1"},
		{ID: "pp-t2", Territory: "USA", CustomerPrice: "1.99", Tier: "2"},
	}
}

func TestCreate_NewRecord(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("FindBundleID", ctx, "com.example.app").Return(&ascapi.Resource{ID: "B1"}, nil)
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{}, nil)
	m.On("CreateApp", ctx, ascapi.NewApp{
		BundleID: "com.example.app", BundleResourceID: "B1", Name: "Example", SKU: "EX1", PrimaryLocale: "en-US",
	}).Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "app-1"}})

	res, err := NewService(m, testConfig(), zap.NewNop()).Create(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, "app-1", res.AppID)
	assert.Equal(t, reconcile.ActionCreated, res.Record)
	m.AssertExpectations(t)
}

func TestCreate_ExistingRecordIsSkipped(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("FindBundleID", ctx, "com.example.app").Return(&ascapi.Resource{ID: "B1"}, nil)
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{
		{ID: "app-1", Attributes: map[string]any{"bundleId": "com.example.app"}},
	}, nil)

	res, err := NewService(m, testConfig(), zap.NewNop()).Create(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionSkipped, res.Record)
	assert.Equal(t, "app-1", res.AppID)
	m.AssertNotCalled(t, "CreateApp", mock.Anything, mock.Anything)
}

func TestCreate_ConflictResolvedByRefetch(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("FindBundleID", ctx, "com.example.app").Return(&ascapi.Resource{ID: "B1"}, nil)
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{}, nil).Once()
	m.On("CreateApp", ctx, mock.Anything).Return(ascapi.Outcome{Kind: ascapi.AlreadyExists})
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{
		{ID: "app-9", Attributes: map[string]any{"bundleId": "com.example.app"}},
	}, nil).Once()

	res, err := NewService(m, testConfig(), zap.NewNop()).Create(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionSkipped, res.Record)
	assert.Equal(t, "app-9", res.AppID)
}

func TestCreate_UnknownBundleID(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("FindBundleID", ctx, "com.example.app").Return(nil, errs.NewNotFoundError("bundle id", "com.example.app"))

	_, err := NewService(m, testConfig(), zap.NewNop()).Create(ctx, "com.example.app")

	assert.ErrorIs(t, err, errs.ErrNotFound)
	m.AssertNotCalled(t, "CreateApp", mock.Anything, mock.Anything)
}

func TestCreate_MissingNameAndSKU(t *testing.T) {
	m := &mockRemote{}

	_, err := NewService(m, Config{}, zap.NewNop()).Create(context.Background(), "com.example.app")

	var missing *errs.MissingConfigurationError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"APP_NAME", "APP_SKU"}, missing.Fields)
	m.AssertNotCalled(t, "FindBundleID", mock.Anything, mock.Anything)
}

func TestSetup_FirstRun(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{{ID: "app-1"}}, nil)
	m.On("GetApp", ctx, "app-1").Return(&ascapi.Resource{ID: "app-1", Attributes: map[string]any{}}, nil)
	m.On("SetContentRights", ctx, "app-1", ascapi.ContentRightsNoThirdParty).Return(nil)
	m.On("ListAppPricePoints", ctx, "app-1", "USA").Return(appPoints(), nil)
	m.On("GetAppPriceSchedule", ctx, "app-1").Return(nil, nil)
	m.On("CreateAppPriceSchedule", ctx, "app-1", "USA", "pp-free").Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "s1"}})

	res, err := NewService(m, testConfig(), zap.NewNop()).Setup(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionUpdated, res.ContentRights)
	assert.Equal(t, reconcile.ActionCreated, res.Pricing)
	assert.Equal(t, "pp-free", res.PricePointID)
	assert.Len(t, res.Results(), 2)
	m.AssertExpectations(t)
}

func TestSetup_SecondRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	cfg := testConfig()
	cfg.ThirdPartyContent = true
	cfg.PriceTier = 1
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{{ID: "app-1"}}, nil)
	m.On("GetApp", ctx, "app-1").Return(&ascapi.Resource{ID: "app-1", Attributes: map[string]any{
		"contentRightsDeclaration": ascapi.ContentRightsThirdParty,
	}}, nil)
	m.On("ListAppPricePoints", ctx, "app-1", "USA").Return(appPoints(), nil)
	m.On("GetAppPriceSchedule", ctx, "app-1").Return(&ascapi.Resource{ID: "sched-1"}, nil)
	m.On("ListManualPrices", ctx, "sched-1").Return([]ascapi.Resource{{
		ID:            "price-1",
		Relationships: map[string]ascapi.Relationship{"appPricePoint": ascapi.One("appPricePoints", "pp-t1")},
	}}, nil)

	res, err := NewService(m, cfg, zap.NewNop()).Setup(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionSkipped, res.ContentRights)
	assert.Equal(t, reconcile.ActionSkipped, res.Pricing)
	m.AssertNotCalled(t, "SetContentRights", mock.Anything, mock.Anything, mock.Anything)
	m.AssertNotCalled(t, "CreateAppPriceSchedule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetup_TierChangeReplacesSchedule(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	cfg := testConfig()
	cfg.PriceTier = 2
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{{ID: "app-1"}}, nil)
	m.On("GetApp", ctx, "app-1").Return(&ascapi.Resource{ID: "app-1", Attributes: map[string]any{
		"contentRightsDeclaration": ascapi.ContentRightsNoThirdParty,
	}}, nil)
	m.On("ListAppPricePoints", ctx, "app-1", "USA").Return(appPoints(), nil)
	m.On("GetAppPriceSchedule", ctx, "app-1").Return(&ascapi.Resource{ID: "sched-1"}, nil)
	m.On("ListManualPrices", ctx, "sched-1").Return([]ascapi.Resource{{
		ID:            "price-1",
		Relationships: map[string]ascapi.Relationship{"appPricePoint": ascapi.One("appPricePoints", "pp-free")},
	}}, nil)
	m.On("CreateAppPriceSchedule", ctx, "app-1", "USA", "pp-t2").Return(ascapi.Outcome{Kind: ascapi.Created, Resource: &ascapi.Resource{ID: "sched-2"}})

	res, err := NewService(m, cfg, zap.NewNop()).Setup(ctx, "com.example.app")

	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionUpdated, res.Pricing)
	assert.Equal(t, "pp-t2", res.PricePointID)
}

func TestSetup_PricingFailureKeepsPartialResult(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{{ID: "app-1"}}, nil)
	m.On("GetApp", ctx, "app-1").Return(&ascapi.Resource{ID: "app-1", Attributes: map[string]any{
		"contentRightsDeclaration": ascapi.ContentRightsNoThirdParty,
	}}, nil)
	m.On("ListAppPricePoints", ctx, "app-1", "USA").Return(appPoints(), nil)
	m.On("GetAppPriceSchedule", ctx, "app-1").Return(nil, nil)
	m.On("CreateAppPriceSchedule", ctx, "app-1", "USA", "pp-free").Return(ascapi.Failure(errors.New("rejected")))

	res, err := NewService(m, testConfig(), zap.NewNop()).Setup(ctx, "com.example.app")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "set app pricing")
	require.NotNil(t, res)
	assert.Equal(t, reconcile.ActionSkipped, res.ContentRights)
	assert.Equal(t, reconcile.ActionFailed, res.Pricing)
}

func TestSetup_AppMissing(t *testing.T) {
	ctx := context.Background()
	m := &mockRemote{}
	m.On("ListApps", ctx, "com.example.app").Return([]ascapi.Resource{}, nil)

	_, err := NewService(m, testConfig(), zap.NewNop()).Setup(ctx, "com.example.app")

	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPricePointForTier(t *testing.T) {
	tests := []struct {
		name string
		tier int
		want string
		err  bool
	}{
		{"Free", 0, "pp-free", false},
		{"Tier one", 1, "pp-t1", false},
		{"Unknown tier", 7, "", true},
		{"Negative tier", -1, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PricePointForTier(appPoints(), tt.tier)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestConfig_ContentRights(t *testing.T) {
	assert.Equal(t, ascapi.ContentRightsNoThirdParty, Config{}.ContentRights())
	assert.Equal(t, ascapi.ContentRightsThirdParty, Config{ThirdPartyContent: true}.ContentRights())
}
