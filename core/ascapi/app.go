package ascapi

import (
	"context"
	"fmt"
	"net/url"

	"catalog-sync/core/errs"
)

// Content rights declarations.
const (
	ContentRightsThirdParty   = "USES_THIRD_PARTY_CONTENT"
	ContentRightsNoThirdParty = "DOES_NOT_USE_THIRD_PARTY_CONTENT"
)

// NewApp carries the attributes of an app record create.
type NewApp struct {
	BundleID         string
	BundleResourceID string
	Name             string
	SKU              string
	PrimaryLocale    string
}

// FindBundleID resolves a registered bundle identifier. Absence is an *errs.NotFoundError.
func (c *Client) FindBundleID(ctx context.Context, identifier string) (*Resource, error) {
	ids, err := c.Page(ctx, "/bundleIds", url.Values{"filter[identifier]": {identifier}})
	if err != nil {
		return nil, fmt.Errorf("find bundle id %s: %w", identifier, err)
	}
	// filter[identifier] is a prefix match
	for i := range ids {
		if ids[i].String("identifier") == identifier {
			return &ids[i], nil
		}
	}
	return nil, errs.NewNotFoundError("bundle id", identifier)
}

// ListApps lists the app records registered for bundleID.
func (c *Client) ListApps(ctx context.Context, bundleID string) ([]Resource, error) {
	return c.List(ctx, "/apps", url.Values{"filter[bundleId]": {bundleID}})
}

// CreateApp creates an app record for a registered bundle id.
func (c *Client) CreateApp(ctx context.Context, app NewApp) Outcome {
	return c.Create(ctx, "/apps", Resource{
		Type: "apps",
		Attributes: map[string]any{
			"bundleId":      app.BundleID,
			"name":          app.Name,
			"sku":           app.SKU,
			"primaryLocale": app.PrimaryLocale,
		},
		Relationships: map[string]Relationship{"bundleId": One("bundleIds", app.BundleResourceID)},
	})
}

// GetApp fetches an app record, or nil when it does not exist.
func (c *Client) GetApp(ctx context.Context, appID string) (*Resource, error) {
	return c.Get(ctx, "/apps/"+appID, nil)
}

// SetContentRights patches the app's content rights declaration.
func (c *Client) SetContentRights(ctx context.Context, appID, declaration string) error {
	_, err := c.Patch(ctx, "/apps/"+appID, Resource{
		Type:       "apps",
		ID:         appID,
		Attributes: map[string]any{"contentRightsDeclaration": declaration},
	})
	return err
}

// ListAppPricePoints lists the app's price points for one territory.
func (c *Client) ListAppPricePoints(ctx context.Context, appID, territory string) ([]PricePoint, error) {
	res, err := c.List(ctx, "/apps/"+appID+"/appPricePoints", url.Values{
		"filter[territory]": {territory},
		"limit":             {pageLimit},
	})
	if err != nil {
		return nil, err
	}
	return pricePoints(res, territory), nil
}

// GetAppPriceSchedule returns the app's price schedule, or nil when none is set.
func (c *Client) GetAppPriceSchedule(ctx context.Context, appID string) (*Resource, error) {
	return c.Get(ctx, "/apps/"+appID+"/appPriceSchedule", nil)
}

// ListManualPrices lists the manual prices of a schedule with their price point linkage.
func (c *Client) ListManualPrices(ctx context.Context, scheduleID string) ([]Resource, error) {
	return c.List(ctx, "/appPriceSchedules/"+scheduleID+"/manualPrices", url.Values{
		"include": {"appPricePoint"},
		"limit":   {pageLimit},
	})
}

// CreateAppPriceSchedule replaces the app's price schedule with one immediate
// manual price in territory.
func (c *Client) CreateAppPriceSchedule(ctx context.Context, appID, territory, pricePointID string) Outcome {
	const localID = "${price}"
	return c.CreateCompound(ctx, "/appPriceSchedules", Resource{
		Type: "appPriceSchedules",
		Relationships: map[string]Relationship{
			"app":           One("apps", appID),
			"baseTerritory": One("territories", territory),
			"manualPrices":  Many("appPrices", localID),
		},
	}, []Resource{{
		Type:          "appPrices",
		ID:            localID,
		Attributes:    map[string]any{"startDate": nil},
		Relationships: map[string]Relationship{"appPricePoint": One("appPricePoints", pricePointID)},
	}})
}
