package ascapi

import (
	"context"
	"net/url"
)

// ListSubscriptionPrices lists the prices already set on a subscription.
func (c *Client) ListSubscriptionPrices(ctx context.Context, subID string) ([]Resource, error) {
	return c.List(ctx, "/subscriptions/"+subID+"/prices", url.Values{
		"include": {"territory,subscriptionPricePoint"},
		"limit":   {pageLimit},
	})
}

// PricedTerritories returns the territory ids of existing prices.
func PricedTerritories(prices []Resource) []string {
	var out []string
	for _, p := range prices {
		if t, ok := p.Related("territory"); ok {
			out = append(out, t.ID)
		}
	}
	return out
}

// ListPricePoints lists the price points of a subscription for one territory.
func (c *Client) ListPricePoints(ctx context.Context, subID, territory string) ([]PricePoint, error) {
	res, err := c.List(ctx, "/subscriptions/"+subID+"/pricePoints", url.Values{
		"filter[territory]": {territory},
		"include":           {"territory"},
		"limit":             {pageLimit},
	})
	if err != nil {
		return nil, err
	}
	return pricePoints(res, territory), nil
}

// ListEqualizations lists the backend-computed equivalents of a price point.
func (c *Client) ListEqualizations(ctx context.Context, pricePointID string) ([]PricePoint, error) {
	res, err := c.List(ctx, "/subscriptionPricePoints/"+pricePointID+"/equalizations", url.Values{
		"include": {"territory"},
		"limit":   {pageLimit},
	})
	if err != nil {
		return nil, err
	}
	return pricePoints(res, ""), nil
}

// CreateSubscriptionPrice sets a subscription's price from a price point, effective immediately.
func (c *Client) CreateSubscriptionPrice(ctx context.Context, subID, pricePointID string) Outcome {
	return c.Create(ctx, "/subscriptionPrices", Resource{
		Type: "subscriptionPrices",
		Attributes: map[string]any{
			"startDate":            nil,
			"preserveCurrentPrice": false,
		},
		Relationships: map[string]Relationship{
			"subscription":           One("subscriptions", subID),
			"subscriptionPricePoint": One("subscriptionPricePoints", pricePointID),
		},
	})
}

func pricePoints(res []Resource, territory string) []PricePoint {
	out := make([]PricePoint, 0, len(res))
	for _, r := range res {
		pp := pricePointFrom(r)
		if pp.Territory == "" {
			pp.Territory = territory
		}
		out = append(out, pp)
	}
	return out
}
