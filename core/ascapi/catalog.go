package ascapi

import (
	"context"
	"fmt"
	"net/url"

	"catalog-sync/core/errs"
)

const pageLimit = "200"

// NewSubscription carries the attributes of a subscription create.
type NewSubscription struct {
	ProductID      string
	Name           string
	Period         string
	GroupLevel     int
	FamilySharable bool
	ReviewNote     string
}

// NewIntroductoryOffer carries the attributes of an introductory offer create.
type NewIntroductoryOffer struct {
	Duration     string
	Mode         string
	Periods      int
	Territory    string
	PricePointID string
}

// FindApp resolves the app by bundle id. Absence is an *errs.NotFoundError.
func (c *Client) FindApp(ctx context.Context, bundleID string) (*Resource, error) {
	apps, err := c.List(ctx, "/apps", url.Values{"filter[bundleId]": {bundleID}})
	if err != nil {
		return nil, fmt.Errorf("find app %s: %w", bundleID, err)
	}
	if len(apps) == 0 {
		return nil, errs.NewNotFoundError("app", bundleID)
	}
	return &apps[0], nil
}

// ListSubscriptionGroups lists the app's subscription groups.
func (c *Client) ListSubscriptionGroups(ctx context.Context, appID string) ([]Resource, error) {
	return c.List(ctx, "/apps/"+appID+"/subscriptionGroups", url.Values{"limit": {pageLimit}})
}

// CreateSubscriptionGroup creates a group under the app.
func (c *Client) CreateSubscriptionGroup(ctx context.Context, appID, referenceName string) Outcome {
	return c.Create(ctx, "/subscriptionGroups", Resource{
		Type:          "subscriptionGroups",
		Attributes:    map[string]any{"referenceName": referenceName},
		Relationships: map[string]Relationship{"app": One("apps", appID)},
	})
}

// ListSubscriptions lists the subscriptions of a group.
func (c *Client) ListSubscriptions(ctx context.Context, groupID string) ([]Resource, error) {
	return c.List(ctx, "/subscriptionGroups/"+groupID+"/subscriptions", url.Values{"limit": {pageLimit}})
}

// CreateSubscription creates a subscription inside a group.
func (c *Client) CreateSubscription(ctx context.Context, groupID string, sub NewSubscription) Outcome {
	return c.Create(ctx, "/subscriptions", Resource{
		Type: "subscriptions",
		Attributes: map[string]any{
			"productId":          sub.ProductID,
			"name":               sub.Name,
			"subscriptionPeriod": sub.Period,
			"groupLevel":         sub.GroupLevel,
			"familySharable":     sub.FamilySharable,
			"reviewNote":         sub.ReviewNote,
		},
		Relationships: map[string]Relationship{"group": One("subscriptionGroups", groupID)},
	})
}

// ListSubscriptionLocalizations lists a subscription's localizations.
func (c *Client) ListSubscriptionLocalizations(ctx context.Context, subID string) ([]Resource, error) {
	return c.List(ctx, "/subscriptions/"+subID+"/subscriptionLocalizations", url.Values{"limit": {pageLimit}})
}

// CreateSubscriptionLocalization adds a locale to a subscription.
func (c *Client) CreateSubscriptionLocalization(ctx context.Context, subID, locale, name, description string) Outcome {
	return c.Create(ctx, "/subscriptionLocalizations", Resource{
		Type: "subscriptionLocalizations",
		Attributes: map[string]any{
			"locale":      locale,
			"name":        name,
			"description": description,
		},
		Relationships: map[string]Relationship{"subscription": One("subscriptions", subID)},
	})
}

// UpdateSubscriptionLocalization rewrites the display fields of a localization.
func (c *Client) UpdateSubscriptionLocalization(ctx context.Context, locID, name, description string) error {
	_, err := c.Patch(ctx, "/subscriptionLocalizations/"+locID, Resource{
		Type:       "subscriptionLocalizations",
		ID:         locID,
		Attributes: map[string]any{"name": name, "description": description},
	})
	return err
}

// ListTerritories returns every territory id known to the store.
func (c *Client) ListTerritories(ctx context.Context) ([]string, error) {
	res, err := c.List(ctx, "/territories", url.Values{"limit": {pageLimit}})
	if err != nil {
		return nil, err
	}
	return ids(res), nil
}

// GetSubscriptionAvailability returns the availability record, or nil when none exists.
func (c *Client) GetSubscriptionAvailability(ctx context.Context, subID string) (*Resource, error) {
	return c.Get(ctx, "/subscriptions/"+subID+"/subscriptionAvailability", nil)
}

// ListAvailableTerritories returns the territory ids of an availability record.
func (c *Client) ListAvailableTerritories(ctx context.Context, availabilityID string) ([]string, error) {
	res, err := c.List(ctx, "/subscriptionAvailabilities/"+availabilityID+"/availableTerritories", url.Values{"limit": {pageLimit}})
	if err != nil {
		return nil, err
	}
	return ids(res), nil
}

// CreateSubscriptionAvailability writes the full territory set for a subscription.
func (c *Client) CreateSubscriptionAvailability(ctx context.Context, subID string, territories []string, availableInNew bool) Outcome {
	return c.Create(ctx, "/subscriptionAvailabilities", Resource{
		Type:       "subscriptionAvailabilities",
		Attributes: map[string]any{"availableInNewTerritories": availableInNew},
		Relationships: map[string]Relationship{
			"subscription":         One("subscriptions", subID),
			"availableTerritories": Many("territories", territories...),
		},
	})
}

// ListIntroductoryOffers lists a subscription's introductory offers.
func (c *Client) ListIntroductoryOffers(ctx context.Context, subID string) ([]Resource, error) {
	return c.List(ctx, "/subscriptions/"+subID+"/introductoryOffers", url.Values{"limit": {pageLimit}})
}

// CreateIntroductoryOffer creates an offer for one territory. PricePointID is
// omitted for free trials.
func (c *Client) CreateIntroductoryOffer(ctx context.Context, subID string, offer NewIntroductoryOffer) Outcome {
	rels := map[string]Relationship{
		"subscription": One("subscriptions", subID),
		"territory":    One("territories", offer.Territory),
	}
	if offer.PricePointID != "" {
		rels["subscriptionPricePoint"] = One("subscriptionPricePoints", offer.PricePointID)
	}
	return c.Create(ctx, "/subscriptionIntroductoryOffers", Resource{
		Type: "subscriptionIntroductoryOffers",
		Attributes: map[string]any{
			"duration":        offer.Duration,
			"offerMode":       offer.Mode,
			"numberOfPeriods": offer.Periods,
		},
		Relationships: rels,
	})
}

// SubmitSubscription submits one subscription for review.
func (c *Client) SubmitSubscription(ctx context.Context, subID string) Outcome {
	return c.Create(ctx, "/subscriptionSubmissions", Resource{
		Type:          "subscriptionSubmissions",
		Relationships: map[string]Relationship{"subscription": One("subscriptions", subID)},
	})
}

// SubmitSubscriptionGroup submits a group for review.
func (c *Client) SubmitSubscriptionGroup(ctx context.Context, groupID string) Outcome {
	return c.Create(ctx, "/subscriptionGroupSubmissions", Resource{
		Type:          "subscriptionGroupSubmissions",
		Relationships: map[string]Relationship{"subscriptionGroup": One("subscriptionGroups", groupID)},
	})
}

func ids(res []Resource) []string {
	out := make([]string, 0, len(res))
	for _, r := range res {
		out = append(out, r.ID)
	}
	return out
}
