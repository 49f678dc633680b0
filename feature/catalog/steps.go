package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/money"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog/pricing"
	"catalog-sync/feature/catalog/screenshot"
)

type localeEntry struct {
	Locale string
	Localization
}

func (s *Syncer) localizationSpec(subID string) reconcile.Spec[localeEntry] {
	return reconcile.Spec[localeEntry]{
		Kind:      "localization",
		Key:       func(l localeEntry) string { return l.Locale },
		RemoteKey: reconcile.ByAttribute("locale"),
		Create: func(ctx context.Context, l localeEntry) ascapi.Outcome {
			return s.remote.CreateSubscriptionLocalization(ctx, subID, l.Locale, l.Name, l.Description)
		},
		Update: func(ctx context.Context, existing ascapi.Resource, l localeEntry) error {
			return s.remote.UpdateSubscriptionLocalization(ctx, existing.ID, l.Name, l.Description)
		},
		Refetch: func(ctx context.Context) ([]ascapi.Resource, error) {
			return s.remote.ListSubscriptionLocalizations(ctx, subID)
		},
	}
}

// syncLocalizations lists once, then creates or updates each locale.
func (s *Syncer) syncLocalizations(ctx context.Context, subID string, sub Subscription, sr *SubscriptionReport, rep *Report) error {
	if len(sub.Localizations) == 0 {
		return nil
	}
	existing, err := s.remote.ListSubscriptionLocalizations(ctx, subID)
	if err != nil {
		return fmt.Errorf("list localizations: %w", err)
	}

	sr.Localizations = map[string]reconcile.Action{}
	spec := s.localizationSpec(subID)
	var failures []error
	for _, locale := range sub.Locales() {
		res, err := reconcile.Reconcile(ctx, spec, localeEntry{Locale: locale, Localization: sub.Localizations[locale]}, existing)
		rep.record(res)
		sr.Localizations[locale] = res.Action
		if err != nil {
			if errs.IsRunScoped(err) {
				return err
			}
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}

// syncAvailability only ever widens the territory set.
func (s *Syncer) syncAvailability(ctx context.Context, subID string, sub Subscription, sr *SubscriptionReport, rep *Report) error {
	res := reconcile.Result{Kind: "availability", Key: sub.ProductID}
	err := s.applyAvailability(ctx, subID, sub, &res)
	if err != nil {
		res.Action = reconcile.ActionFailed
		res.Error = err.Error()
	}
	rep.record(res)
	sr.Availability = res.Action
	return err
}

func (s *Syncer) applyAvailability(ctx context.Context, subID string, sub Subscription, res *reconcile.Result) error {
	desired := sub.Availability
	if len(desired) == 0 {
		all, err := s.allTerritories(ctx)
		if err != nil {
			return err
		}
		desired = all
	}

	current, err := s.remote.GetSubscriptionAvailability(ctx, subID)
	if err != nil {
		return fmt.Errorf("get availability: %w", err)
	}

	if current == nil {
		return s.writeAvailability(ctx, subID, desired, reconcile.ActionCreated, res)
	}
	res.ID = current.ID

	have, err := s.remote.ListAvailableTerritories(ctx, current.ID)
	if err != nil {
		return fmt.Errorf("list available territories: %w", err)
	}
	union, grew := unionTerritories(have, desired)
	if !grew {
		res.Action = reconcile.ActionSkipped
		return nil
	}
	return s.writeAvailability(ctx, subID, union, reconcile.ActionUpdated, res)
}

func (s *Syncer) writeAvailability(ctx context.Context, subID string, territories []string, action reconcile.Action, res *reconcile.Result) error {
	out := s.remote.CreateSubscriptionAvailability(ctx, subID, territories, true)
	switch out.Kind {
	case ascapi.Created:
		res.ID = out.ID()
		res.Action = action
		return nil
	case ascapi.AlreadyExists:
		res.Action = reconcile.ActionSkipped
		return nil
	default:
		return fmt.Errorf("set availability: %w", out.Err)
	}
}

func (s *Syncer) allTerritories(ctx context.Context) ([]string, error) {
	if s.territory != nil {
		return s.territory, nil
	}
	all, err := s.remote.ListTerritories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list territories: %w", err)
	}
	s.territory = all
	return all, nil
}

// unionTerritories returns have ∪ want, sorted, and whether want added anything.
func unionTerritories(have, want []string) ([]string, bool) {
	set := make(map[string]struct{}, len(have)+len(want))
	for _, t := range have {
		set[t] = struct{}{}
	}
	grew := false
	for _, t := range want {
		if _, ok := set[t]; !ok {
			set[t] = struct{}{}
			grew = true
		}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, grew
}

// syncIntroductoryOffer creates the offer in the base territory unless any offer exists.
func (s *Syncer) syncIntroductoryOffer(ctx context.Context, subID string, sub Subscription, sr *SubscriptionReport, rep *Report) error {
	offer := sub.IntroductoryOffer
	if offer == nil {
		return nil
	}
	res := reconcile.Result{Kind: "introductory_offer", Key: sub.ProductID}
	err := s.applyIntroductoryOffer(ctx, subID, sub, *offer, &res)
	if err != nil {
		res.Action = reconcile.ActionFailed
		res.Error = err.Error()
	}
	rep.record(res)
	sr.IntroductoryOffer = res.Action
	return err
}

func (s *Syncer) applyIntroductoryOffer(ctx context.Context, subID string, sub Subscription, offer IntroductoryOffer, res *reconcile.Result) error {
	existing, err := s.remote.ListIntroductoryOffers(ctx, subID)
	if err != nil {
		return fmt.Errorf("list introductory offers: %w", err)
	}
	if len(existing) > 0 {
		res.ID = existing[0].ID
		res.Action = reconcile.ActionSkipped
		return nil
	}

	territory := s.cfg.BaseTerritory
	if _, t, ok := pricing.ResolveBase(sub.Prices, s.cfg.BaseTerritory); ok {
		territory = t
	}
	req := ascapi.NewIntroductoryOffer{
		Duration:  offer.OfferDuration(),
		Mode:      offer.Mode(),
		Periods:   offer.PeriodCount(),
		Territory: territory,
	}
	if offer.Paid() {
		pp, err := s.prices.FindPricePoint(ctx, subID, territory, offer.Price)
		if err != nil {
			return err
		}
		req.PricePointID = pp.ID
	}

	out := s.remote.CreateIntroductoryOffer(ctx, subID, req)
	switch out.Kind {
	case ascapi.Created:
		res.ID = out.ID()
		res.Action = reconcile.ActionCreated
		return nil
	case ascapi.AlreadyExists:
		res.Action = reconcile.ActionSkipped
		return nil
	default:
		return fmt.Errorf("create introductory offer: %w", out.Err)
	}
}

// syncPricing applies explicit currency overrides, then equalizes from the base price.
func (s *Syncer) syncPricing(ctx context.Context, subID string, sub Subscription, sr *SubscriptionReport, rep *Report) error {
	if len(sub.Prices) == 0 {
		return nil
	}
	baseCurrency, baseTerritory, ok := pricing.ResolveBase(sub.Prices, s.cfg.BaseTerritory)
	if !ok {
		return fmt.Errorf("no price in a mapped currency")
	}
	base, err := money.Parse(baseCurrency, sub.Prices[baseCurrency])
	if err != nil {
		return err
	}

	current, err := s.remote.ListSubscriptionPrices(ctx, subID)
	if err != nil {
		return fmt.Errorf("list prices: %w", err)
	}
	priced := pricing.NewTerritorySet(ascapi.PricedTerritories(current)...)

	total := pricing.Result{Base: base}
	defer func() {
		sr.Pricing = &total
		rep.recordPricing(sub.ProductID, total)
	}()

	currencies := make([]string, 0, len(sub.Prices))
	for c := range sub.Prices {
		if c != baseCurrency {
			currencies = append(currencies, c)
		}
	}
	sort.Strings(currencies)
	for _, c := range currencies {
		territory, ok := pricing.TerritoryFor(c)
		if !ok {
			continue
		}
		res, err := s.prices.ApplyTerritory(ctx, subID, territory, sub.Prices[c], priced)
		total.Merge(res)
		if err != nil && ctx.Err() != nil {
			return err
		}
	}

	res, err := s.prices.Apply(ctx, subID, baseTerritory, base, priced)
	total.Merge(res)
	total.BasePricePointID = res.BasePricePointID
	if err != nil {
		return err
	}
	if total.Failed > 0 {
		return fmt.Errorf("%d price writes failed", total.Failed)
	}
	return nil
}

// syncScreenshot uploads the review screenshot. A missing file is a soft failure.
func (s *Syncer) syncScreenshot(ctx context.Context, subID string, sub Subscription, sr *SubscriptionReport, rep *Report) error {
	res, err := s.shots.Upload(ctx, subID, sub.ReviewScreenshot)
	sr.Screenshot = res.Action

	rec := reconcile.Result{Kind: "screenshot", Key: sub.ProductID, ID: res.AssetID}
	switch res.Action {
	case screenshot.ActionUploaded:
		rec.Action = reconcile.ActionCreated
	case screenshot.ActionSkipped:
		rec.Action = reconcile.ActionSkipped
	default:
		rec.Action = reconcile.ActionFailed
	}
	if err != nil {
		rec.Error = err.Error()
	}
	rep.record(rec)
	return err
}
