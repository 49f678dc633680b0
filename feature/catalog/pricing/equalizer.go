package pricing

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/money"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Remote is the slice of the catalog API the equalizer needs.
type Remote interface {
	ListPricePoints(ctx context.Context, subID, territory string) ([]ascapi.PricePoint, error)
	ListEqualizations(ctx context.Context, pricePointID string) ([]ascapi.PricePoint, error)
	CreateSubscriptionPrice(ctx context.Context, subID, pricePointID string) ascapi.Outcome
}

// TerritorySet is the set of territories already priced for one subscription.
type TerritorySet map[string]struct{}

// NewTerritorySet builds a set from ids.
func NewTerritorySet(ids ...string) TerritorySet {
	s := make(TerritorySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s TerritorySet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add marks a territory as priced.
func (s TerritorySet) Add(id string) {
	s[id] = struct{}{}
}

// Result summarizes one Apply call.
type Result struct {
	Created          int         `json:"created"`
	Skipped          int         `json:"skipped"`
	Failed           int         `json:"failed"`
	BasePricePointID string      `json:"base_price_point_id,omitempty"`
	Base             money.Money `json:"base"`
	Errors           []string    `json:"errors,omitempty"`
}

// Equalizer writes subscription prices.
type Equalizer struct {
	remote  Remote
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewEqualizer creates an Equalizer spacing writes by delay. A non-positive
// delay disables spacing.
func NewEqualizer(remote Remote, delay time.Duration, logger *zap.Logger) *Equalizer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Equalizer{remote: remote, limiter: rate.NewLimiter(limit, 1), logger: logger}
}

// FindPricePoint returns the price point in territory closest to target within
// money.Tolerance. No match is an *errs.NotFoundError.
func (e *Equalizer) FindPricePoint(ctx context.Context, subID, territory, target string) (ascapi.PricePoint, error) {
	points, err := e.remote.ListPricePoints(ctx, subID, territory)
	if err != nil {
		return ascapi.PricePoint{}, fmt.Errorf("list price points for %s: %w", territory, err)
	}
	prices := make([]string, len(points))
	for i, p := range points {
		prices[i] = p.CustomerPrice
	}
	idx := money.Closest(prices, target)
	if idx < 0 {
		return ascapi.PricePoint{}, errs.NewNotFoundError("price point", territory+" "+target)
	}
	return points[idx], nil
}

// ApplyTerritory sets one territory's price from an explicit amount. Territories
// already in priced are skipped. Failures are also recorded in the Result.
func (e *Equalizer) ApplyTerritory(ctx context.Context, subID, territory, amount string, priced TerritorySet) (Result, error) {
	var res Result
	if priced.Has(territory) {
		res.Skipped++
		return res, nil
	}
	pp, err := e.FindPricePoint(ctx, subID, territory, amount)
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", territory, detail(err)))
		return res, err
	}
	if err := e.write(ctx, subID, pp, priced, &res); err != nil {
		return res, err
	}
	return res, nil
}

// Apply writes the base price, even when the base territory is already in
// priced, and then every equalized territory not yet in priced. Per-territory write failures are counted and collected; only a
// missing base price point (counted as one failure) or a failed listing
// returns an error.
func (e *Equalizer) Apply(ctx context.Context, subID, baseTerritory string, base money.Money, priced TerritorySet) (Result, error) {
	res := Result{Base: base}

	pp, err := e.FindPricePoint(ctx, subID, baseTerritory, base.String())
	if err != nil {
		res.Failed++
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", baseTerritory, detail(err)))
		return res, err
	}
	res.BasePricePointID = pp.ID

	if err := e.write(ctx, subID, pp, priced, &res); err != nil && ctx.Err() != nil {
		return res, err
	}

	equalized, err := e.remote.ListEqualizations(ctx, pp.ID)
	if err != nil {
		return res, fmt.Errorf("list equalizations for %s: %w", pp.ID, err)
	}
	sort.Slice(equalized, func(i, j int) bool { return equalized[i].Territory < equalized[j].Territory })

	for _, eq := range equalized {
		if eq.Territory == "" || eq.Territory == baseTerritory {
			continue
		}
		if priced.Has(eq.Territory) {
			res.Skipped++
			continue
		}
		if err := e.write(ctx, subID, eq, priced, &res); err != nil && ctx.Err() != nil {
			return res, err
		}
	}

	e.logger.Info("Prices equalized",
		zap.String("subscription_id", subID),
		zap.String("base", base.String()),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

// write creates one price. The territory is marked priced whenever the remote
// holds a price for it afterwards, so it is never re-applied within the run.
func (e *Equalizer) write(ctx context.Context, subID string, pp ascapi.PricePoint, priced TerritorySet, res *Result) error {
	if err := e.limiter.Wait(ctx); err != nil {
		return err
	}
	out := e.remote.CreateSubscriptionPrice(ctx, subID, pp.ID)
	switch out.Kind {
	case ascapi.Created:
		res.Created++
		priced.Add(pp.Territory)
		return nil
	case ascapi.AlreadyExists:
		res.Skipped++
		priced.Add(pp.Territory)
		return nil
	default:
		res.Failed++
		err := out.Err
		if err == nil {
			err = errs.ErrRemoteRejected
		}
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %s", pp.Territory, detail(err)))
		e.logger.Warn("Price write failed",
			zap.String("subscription_id", subID),
			zap.String("territory", pp.Territory),
			zap.Error(err),
		)
		return err
	}
}

// Merge adds other's counts and errors into r.
func (r *Result) Merge(other Result) {
	r.Created += other.Created
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Errors = append(r.Errors, other.Errors...)
}

func detail(err error) string {
	var apiErr *ascapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail()
	}
	return err.Error()
}
