package app

import (
	"context"

	"catalog-sync/core/ascapi"
)

// Remote is the app record API surface. *ascapi.Client satisfies it.
type Remote interface {
	FindBundleID(ctx context.Context, identifier string) (*ascapi.Resource, error)
	ListApps(ctx context.Context, bundleID string) ([]ascapi.Resource, error)
	CreateApp(ctx context.Context, app ascapi.NewApp) ascapi.Outcome
	GetApp(ctx context.Context, appID string) (*ascapi.Resource, error)
	SetContentRights(ctx context.Context, appID, declaration string) error
	ListAppPricePoints(ctx context.Context, appID, territory string) ([]ascapi.PricePoint, error)
	GetAppPriceSchedule(ctx context.Context, appID string) (*ascapi.Resource, error)
	ListManualPrices(ctx context.Context, scheduleID string) ([]ascapi.Resource, error)
	CreateAppPriceSchedule(ctx context.Context, appID, territory, pricePointID string) ascapi.Outcome
}

var _ Remote = (*ascapi.Client)(nil)
