package catalog

import (
	"context"

	"catalog-sync/core/ascapi"
	"catalog-sync/feature/catalog/pricing"
	"catalog-sync/feature/catalog/screenshot"
)

// Remote is the catalog API surface the syncer drives. *ascapi.Client satisfies it.
type Remote interface {
	pricing.Remote
	screenshot.Remote

	FindApp(ctx context.Context, bundleID string) (*ascapi.Resource, error)
	ListSubscriptionGroups(ctx context.Context, appID string) ([]ascapi.Resource, error)
	CreateSubscriptionGroup(ctx context.Context, appID, referenceName string) ascapi.Outcome
	ListSubscriptions(ctx context.Context, groupID string) ([]ascapi.Resource, error)
	CreateSubscription(ctx context.Context, groupID string, sub ascapi.NewSubscription) ascapi.Outcome
	ListSubscriptionLocalizations(ctx context.Context, subID string) ([]ascapi.Resource, error)
	CreateSubscriptionLocalization(ctx context.Context, subID, locale, name, description string) ascapi.Outcome
	UpdateSubscriptionLocalization(ctx context.Context, locID, name, description string) error
	ListTerritories(ctx context.Context) ([]string, error)
	GetSubscriptionAvailability(ctx context.Context, subID string) (*ascapi.Resource, error)
	ListAvailableTerritories(ctx context.Context, availabilityID string) ([]string, error)
	CreateSubscriptionAvailability(ctx context.Context, subID string, territories []string, availableInNew bool) ascapi.Outcome
	ListIntroductoryOffers(ctx context.Context, subID string) ([]ascapi.Resource, error)
	CreateIntroductoryOffer(ctx context.Context, subID string, offer ascapi.NewIntroductoryOffer) ascapi.Outcome
	ListSubscriptionPrices(ctx context.Context, subID string) ([]ascapi.Resource, error)
	SubmitSubscription(ctx context.Context, subID string) ascapi.Outcome
	SubmitSubscriptionGroup(ctx context.Context, groupID string) ascapi.Outcome
}

var _ Remote = (*ascapi.Client)(nil)
