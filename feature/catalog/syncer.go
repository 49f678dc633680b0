package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/token"
	"catalog-sync/feature/catalog/pricing"
	"catalog-sync/feature/catalog/screenshot"

	"go.uber.org/zap"
)

// Options tune a single sync run.
type Options struct {
	// SubmitSubscriptions submits every subscription, then its group, for review.
	SubmitSubscriptions bool
}

// Syncer reconciles a desired catalog against App Store Connect.
type Syncer struct {
	remote    Remote
	prices    *pricing.Equalizer
	shots     *screenshot.Uploader
	cfg       Config
	tokens    token.Source
	logger    *zap.Logger
	now       func() time.Time
	territory []string
}

// NewSyncer wires a Syncer. tokens may be nil when the run is short enough
// that the initial session never needs refreshing.
func NewSyncer(remote Remote, uploads *http.Client, tokens token.Source, cfg Config, logger *zap.Logger) *Syncer {
	return &Syncer{
		remote: remote,
		prices: pricing.NewEqualizer(remote, cfg.PriceDelay(), logger),
		shots:  screenshot.NewUploader(remote, uploads, cfg.ScreenshotsDir, logger),
		cfg:    cfg,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// Sync brings the remote catalog of bundleID in line with cat.
//
// Entity failures are recorded in the report and never stop siblings. Errors
// classified by errs.IsRunScoped abort the run; the partial report is still
// returned.
func (s *Syncer) Sync(ctx context.Context, cat *Catalog, bundleID string, opts Options) (*Report, error) {
	rep := &Report{SyncedGroups: []GroupReport{}}
	s.territory = nil

	app, err := s.remote.FindApp(ctx, bundleID)
	if err != nil {
		return rep, err
	}
	s.logger.Info("App resolved", zap.String("bundle_id", bundleID), zap.String("app_id", app.ID))

	groups, err := s.remote.ListSubscriptionGroups(ctx, app.ID)
	if err != nil {
		return rep, fmt.Errorf("list subscription groups: %w", err)
	}

	for _, g := range cat.SubscriptionGroups {
		if ctx, err = s.refresh(ctx); err != nil {
			return rep, err
		}
		var gr GroupReport
		gr, ctx, err = s.syncGroup(ctx, app.ID, g, groups, rep, opts)
		rep.SyncedGroups = append(rep.SyncedGroups, gr)
		if err != nil {
			return rep, err
		}
	}
	return rep, nil
}

func (s *Syncer) groupSpec(appID string) reconcile.Spec[Group] {
	return reconcile.Spec[Group]{
		Kind:      "subscription_group",
		Key:       Group.Name,
		RemoteKey: reconcile.ByAttribute("referenceName"),
		Create: func(ctx context.Context, g Group) ascapi.Outcome {
			return s.remote.CreateSubscriptionGroup(ctx, appID, g.Name())
		},
		Refetch: func(ctx context.Context) ([]ascapi.Resource, error) {
			return s.remote.ListSubscriptionGroups(ctx, appID)
		},
	}
}

func (s *Syncer) subscriptionSpec(groupID string) reconcile.Spec[Subscription] {
	return reconcile.Spec[Subscription]{
		Kind:      "subscription",
		Key:       func(sub Subscription) string { return sub.ProductID },
		RemoteKey: reconcile.ByAttribute("productId"),
		Create: func(ctx context.Context, sub Subscription) ascapi.Outcome {
			return s.remote.CreateSubscription(ctx, groupID, ascapi.NewSubscription{
				ProductID:      sub.ProductID,
				Name:           sub.Name(),
				Period:         sub.Period(),
				GroupLevel:     sub.Level(),
				FamilySharable: sub.FamilySharable,
				ReviewNote:     sub.ReviewNote,
			})
		},
		Refetch: func(ctx context.Context) ([]ascapi.Resource, error) {
			return s.remote.ListSubscriptions(ctx, groupID)
		},
	}
}

// syncGroup reconciles one group and its subscriptions. The returned context
// carries the newest session minted while the group was synced.
func (s *Syncer) syncGroup(ctx context.Context, appID string, g Group, existing []ascapi.Resource, rep *Report, opts Options) (GroupReport, context.Context, error) {
	gr := GroupReport{Group: g.Name(), Subscriptions: []SubscriptionReport{}}
	log := s.logger.With(zap.String("group", g.Name()))

	res, err := reconcile.Reconcile(ctx, s.groupSpec(appID), g, existing)
	rep.record(res)
	gr.Action, gr.GroupID = res.Action, res.ID
	if err != nil {
		log.Error("Subscription group failed", zap.Error(err))
		gr.Errors = append(gr.Errors, err.Error())
		if errs.IsRunScoped(err) {
			return gr, ctx, err
		}
		return gr, ctx, nil
	}
	log.Info("Subscription group reconciled", zap.String("group_id", gr.GroupID), zap.String("action", string(gr.Action)))

	subs, err := s.remote.ListSubscriptions(ctx, gr.GroupID)
	if err != nil {
		gr.Errors = append(gr.Errors, err.Error())
		return gr, ctx, nil
	}

	for _, sub := range g.Subscriptions {
		if ctx, err = s.refresh(ctx); err != nil {
			return gr, ctx, err
		}
		sr, err := s.syncSubscription(ctx, gr.GroupID, sub, subs, rep)
		if opts.SubmitSubscriptions && sr.ID != "" && err == nil {
			sr.Submission = s.submitSubscription(ctx, sr.ID, &sr)
		}
		gr.Subscriptions = append(gr.Subscriptions, sr)
		if err != nil {
			return gr, ctx, err
		}
	}

	if opts.SubmitSubscriptions {
		gr.Submission = s.submitGroup(ctx, gr.GroupID, &gr)
	}
	return gr, ctx, nil
}

// refresh re-mints the session when it is missing or older than the refresh
// threshold. Without a token source the context is returned unchanged.
func (s *Syncer) refresh(ctx context.Context) (context.Context, error) {
	if s.tokens == nil {
		return ctx, nil
	}
	next, refreshed, err := token.EnsureFresh(ctx, s.tokens, s.cfg.TokenRefresh(), s.now())
	if err != nil {
		return ctx, fmt.Errorf("refresh token: %w", err)
	}
	if refreshed {
		s.logger.Debug("Bearer token refreshed")
	}
	return next, nil
}

// syncSubscription runs the per-subscription steps strictly in order. Only
// run-scoped errors are returned.
func (s *Syncer) syncSubscription(ctx context.Context, groupID string, sub Subscription, existing []ascapi.Resource, rep *Report) (SubscriptionReport, error) {
	sr := SubscriptionReport{ProductID: sub.ProductID}
	log := s.logger.With(zap.String("product_id", sub.ProductID))

	res, err := reconcile.Reconcile(ctx, s.subscriptionSpec(groupID), sub, existing)
	rep.record(res)
	sr.Action, sr.ID = res.Action, res.ID
	if err != nil {
		log.Error("Subscription failed", zap.Error(err))
		sr.fail(err)
		if errs.IsRunScoped(err) {
			return sr, err
		}
		return sr, nil
	}
	log.Info("Subscription reconciled", zap.String("id", sr.ID), zap.String("action", string(sr.Action)))

	// A missing base price point ends the subscription: later steps are not run.
	steps := []struct {
		name          string
		run           func() error
		haltOnMissing bool
	}{
		{"localizations", func() error { return s.syncLocalizations(ctx, sr.ID, sub, &sr, rep) }, false},
		{"availability", func() error { return s.syncAvailability(ctx, sr.ID, sub, &sr, rep) }, false},
		{"introductory_offer", func() error { return s.syncIntroductoryOffer(ctx, sr.ID, sub, &sr, rep) }, false},
		{"pricing", func() error { return s.syncPricing(ctx, sr.ID, sub, &sr, rep) }, true},
		{"screenshot", func() error { return s.syncScreenshot(ctx, sr.ID, sub, &sr, rep) }, false},
	}
	for _, step := range steps {
		err := step.run()
		if err == nil {
			continue
		}
		log.Warn("Subscription step failed", zap.String("step", step.name), zap.Error(err))
		sr.fail(fmt.Errorf("%s: %w", step.name, err))
		if errs.IsRunScoped(err) || ctx.Err() != nil {
			return sr, err
		}
		if step.haltOnMissing && errors.Is(err, errs.ErrNotFound) {
			return sr, nil
		}
	}
	return sr, nil
}
