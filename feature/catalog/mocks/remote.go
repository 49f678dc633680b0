package mocks

import (
	"context"

	"catalog-sync/core/ascapi"

	"github.com/stretchr/testify/mock"
)

// Remote is a testify mock of catalog.Remote.
type Remote struct {
	mock.Mock
}

func (m *Remote) resources(args mock.Arguments) ([]ascapi.Resource, error) {
	r, _ := args.Get(0).([]ascapi.Resource)
	return r, args.Error(1)
}

func (m *Remote) resource(args mock.Arguments) (*ascapi.Resource, error) {
	r, _ := args.Get(0).(*ascapi.Resource)
	return r, args.Error(1)
}

func (m *Remote) FindApp(ctx context.Context, bundleID string) (*ascapi.Resource, error) {
	return m.resource(m.Called(ctx, bundleID))
}

func (m *Remote) ListSubscriptionGroups(ctx context.Context, appID string) ([]ascapi.Resource, error) {
	return m.resources(m.Called(ctx, appID))
}

func (m *Remote) CreateSubscriptionGroup(ctx context.Context, appID, referenceName string) ascapi.Outcome {
	return m.Called(ctx, appID, referenceName).Get(0).(ascapi.Outcome)
}

func (m *Remote) ListSubscriptions(ctx context.Context, groupID string) ([]ascapi.Resource, error) {
	return m.resources(m.Called(ctx, groupID))
}

func (m *Remote) CreateSubscription(ctx context.Context, groupID string, sub ascapi.NewSubscription) ascapi.Outcome {
	return m.Called(ctx, groupID, sub).Get(0).(ascapi.Outcome)
}

func (m *Remote) ListSubscriptionLocalizations(ctx context.Context, subID string) ([]ascapi.Resource, error) {
	return m.resources(m.Called(ctx, subID))
}

func (m *Remote) CreateSubscriptionLocalization(ctx context.Context, subID, locale, name, description string) ascapi.Outcome {
	return m.Called(ctx, subID, locale, name, description).Get(0).(ascapi.Outcome)
}

func (m *Remote) UpdateSubscriptionLocalization(ctx context.Context, locID, name, description string) error {
	return m.Called(ctx, locID, name, description).Error(0)
}

func (m *Remote) ListTerritories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]string)
	return t, args.Error(1)
}

func (m *Remote) GetSubscriptionAvailability(ctx context.Context, subID string) (*ascapi.Resource, error) {
	return m.resource(m.Called(ctx, subID))
}

func (m *Remote) ListAvailableTerritories(ctx context.Context, availabilityID string) ([]string, error) {
	args := m.Called(ctx, availabilityID)
	t, _ := args.Get(0).([]string)
	return t, args.Error(1)
}

func (m *Remote) CreateSubscriptionAvailability(ctx context.Context, subID string, territories []string, availableInNew bool) ascapi.Outcome {
	return m.Called(ctx, subID, territories, availableInNew).Get(0).(ascapi.Outcome)
}

func (m *Remote) ListIntroductoryOffers(ctx context.Context, subID string) ([]ascapi.Resource, error) {
	return m.resources(m.Called(ctx, subID))
}

func (m *Remote) CreateIntroductoryOffer(ctx context.Context, subID string, offer ascapi.NewIntroductoryOffer) ascapi.Outcome {
	return m.Called(ctx, subID, offer).Get(0).(ascapi.Outcome)
}

func (m *Remote) ListSubscriptionPrices(ctx context.Context, subID string) ([]ascapi.Resource, error) {
	return m.resources(m.Called(ctx, subID))
}

func (m *Remote) ListPricePoints(ctx context.Context, subID, territory string) ([]ascapi.PricePoint, error) {
	args := m.Called(ctx, subID, territory)
	p, _ := args.Get(0).([]ascapi.PricePoint)
	return p, args.Error(1)
}

func (m *Remote) ListEqualizations(ctx context.Context, pricePointID string) ([]ascapi.PricePoint, error) {
	args := m.Called(ctx, pricePointID)
	p, _ := args.Get(0).([]ascapi.PricePoint)
	return p, args.Error(1)
}

func (m *Remote) CreateSubscriptionPrice(ctx context.Context, subID, pricePointID string) ascapi.Outcome {
	return m.Called(ctx, subID, pricePointID).Get(0).(ascapi.Outcome)
}

func (m *Remote) GetReviewScreenshot(ctx context.Context, subID string) (*ascapi.Resource, error) {
	return m.resource(m.Called(ctx, subID))
}

func (m *Remote) ReserveReviewScreenshot(ctx context.Context, subID, fileName string, fileSize int64) ascapi.Outcome {
	return m.Called(ctx, subID, fileName, fileSize).Get(0).(ascapi.Outcome)
}

func (m *Remote) CommitReviewScreenshot(ctx context.Context, screenshotID, checksum string) error {
	return m.Called(ctx, screenshotID, checksum).Error(0)
}

func (m *Remote) SubmitSubscription(ctx context.Context, subID string) ascapi.Outcome {
	return m.Called(ctx, subID).Get(0).(ascapi.Outcome)
}

func (m *Remote) SubmitSubscriptionGroup(ctx context.Context, groupID string) ascapi.Outcome {
	return m.Called(ctx, groupID).Get(0).(ascapi.Outcome)
}
