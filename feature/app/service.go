package app

import (
	"context"
	"fmt"
	"strconv"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/money"
	"catalog-sync/core/reconcile"

	"go.uber.org/zap"
)

// Result is printed by the app commands.
type Result struct {
	BundleID      string           `json:"bundle_id"`
	AppID         string           `json:"app_id,omitempty"`
	Record        reconcile.Action `json:"record,omitempty"`
	ContentRights reconcile.Action `json:"content_rights,omitempty"`
	Pricing       reconcile.Action `json:"pricing,omitempty"`
	PricePointID  string           `json:"price_point_id,omitempty"`
}

// Results lists the entity outcomes carried by r.
func (r *Result) Results() []reconcile.Result {
	var out []reconcile.Result
	if r.Record != "" {
		out = append(out, reconcile.Result{Kind: "app", Key: r.BundleID, ID: r.AppID, Action: r.Record})
	}
	if r.ContentRights != "" {
		out = append(out, reconcile.Result{Kind: "content_rights", Key: r.BundleID, ID: r.AppID, Action: r.ContentRights})
	}
	if r.Pricing != "" {
		out = append(out, reconcile.Result{Kind: "app_price_schedule", Key: r.BundleID, ID: r.PricePointID, Action: r.Pricing})
	}
	return out
}

// Service manages the app record of one bundle id.
type Service struct {
	remote Remote
	cfg    Config
	logger *zap.Logger
}

// NewService creates an app service.
func NewService(remote Remote, cfg Config, logger *zap.Logger) *Service {
	return &Service{remote: remote, cfg: cfg, logger: logger}
}

func (s *Service) recordSpec(bundleID string) reconcile.Spec[ascapi.NewApp] {
	return reconcile.Spec[ascapi.NewApp]{
		Kind:      "app",
		Key:       func(a ascapi.NewApp) string { return a.BundleID },
		RemoteKey: reconcile.ByAttribute("bundleId"),
		Create: func(ctx context.Context, a ascapi.NewApp) ascapi.Outcome {
			return s.remote.CreateApp(ctx, a)
		},
		Refetch: func(ctx context.Context) ([]ascapi.Resource, error) {
			return s.remote.ListApps(ctx, bundleID)
		},
	}
}

// Create registers the app record for bundleID. An existing record is left
// untouched. The bundle id must already be registered.
func (s *Service) Create(ctx context.Context, bundleID string) (*Result, error) {
	var missing []string
	if s.cfg.Name == "" {
		missing = append(missing, "APP_NAME")
	}
	if s.cfg.SKU == "" {
		missing = append(missing, "APP_SKU")
	}
	if len(missing) > 0 {
		return nil, &errs.MissingConfigurationError{Fields: missing}
	}

	bundle, err := s.remote.FindBundleID(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	existing, err := s.remote.ListApps(ctx, bundleID)
	if err != nil {
		return nil, fmt.Errorf("list apps: %w", err)
	}

	res, err := reconcile.Reconcile(ctx, s.recordSpec(bundleID), ascapi.NewApp{
		BundleID:         bundleID,
		BundleResourceID: bundle.ID,
		Name:             s.cfg.Name,
		SKU:              s.cfg.SKU,
		PrimaryLocale:    s.cfg.PrimaryLocale,
	}, existing)
	if err != nil {
		return nil, err
	}
	s.logger.Info("App record ensured",
		zap.String("bundle_id", bundleID),
		zap.String("app_id", res.ID),
		zap.String("action", string(res.Action)),
	)
	return &Result{BundleID: bundleID, AppID: res.ID, Record: res.Action}, nil
}

// Setup applies the content rights declaration and the price schedule. The
// partial result is returned with any error.
func (s *Service) Setup(ctx context.Context, bundleID string) (*Result, error) {
	apps, err := s.remote.ListApps(ctx, bundleID)
	if err != nil {
		return nil, fmt.Errorf("find app %s: %w", bundleID, err)
	}
	if len(apps) == 0 {
		return nil, errs.NewNotFoundError("app", bundleID)
	}
	out := &Result{BundleID: bundleID, AppID: apps[0].ID}

	if out.ContentRights, err = s.ensureContentRights(ctx, out.AppID); err != nil {
		return out, fmt.Errorf("set content rights: %w", err)
	}
	if out.Pricing, out.PricePointID, err = s.ensurePricing(ctx, out.AppID); err != nil {
		return out, fmt.Errorf("set app pricing: %w", err)
	}
	return out, nil
}

func (s *Service) ensureContentRights(ctx context.Context, appID string) (reconcile.Action, error) {
	app, err := s.remote.GetApp(ctx, appID)
	if err != nil {
		return reconcile.ActionFailed, err
	}
	if app == nil {
		return reconcile.ActionFailed, errs.NewNotFoundError("app", appID)
	}
	want := s.cfg.ContentRights()
	if app.String("contentRightsDeclaration") == want {
		return reconcile.ActionSkipped, nil
	}
	if err := s.remote.SetContentRights(ctx, appID, want); err != nil {
		return reconcile.ActionFailed, err
	}
	s.logger.Info("Content rights declared", zap.String("app_id", appID), zap.String("declaration", want))
	return reconcile.ActionUpdated, nil
}

// ensurePricing leaves a schedule alone when one of its manual prices already
// uses the tier's price point.
func (s *Service) ensurePricing(ctx context.Context, appID string) (reconcile.Action, string, error) {
	territory := s.cfg.PriceTerritory
	points, err := s.remote.ListAppPricePoints(ctx, appID, territory)
	if err != nil {
		return reconcile.ActionFailed, "", fmt.Errorf("list app price points: %w", err)
	}
	pp, err := PricePointForTier(points, s.cfg.PriceTier)
	if err != nil {
		return reconcile.ActionFailed, "", err
	}

	action := reconcile.ActionCreated
	schedule, err := s.remote.GetAppPriceSchedule(ctx, appID)
	if err != nil {
		return reconcile.ActionFailed, pp.ID, fmt.Errorf("get price schedule: %w", err)
	}
	if schedule != nil {
		prices, err := s.remote.ListManualPrices(ctx, schedule.ID)
		if err != nil {
			return reconcile.ActionFailed, pp.ID, fmt.Errorf("list manual prices: %w", err)
		}
		for _, p := range prices {
			if rel, ok := p.Related("appPricePoint"); ok && rel.ID == pp.ID {
				return reconcile.ActionSkipped, pp.ID, nil
			}
		}
		action = reconcile.ActionUpdated
	}

	out := s.remote.CreateAppPriceSchedule(ctx, appID, territory, pp.ID)
	switch out.Kind {
	case ascapi.Created:
		s.logger.Info("App price set",
			zap.String("app_id", appID),
			zap.Int("tier", s.cfg.PriceTier),
			zap.String("customer_price", pp.CustomerPrice),
		)
		return action, pp.ID, nil
	case ascapi.AlreadyExists:
		return reconcile.ActionSkipped, pp.ID, nil
	default:
		err := out.Err
		if err == nil {
			err = errs.ErrRemoteRejected
		}
		return reconcile.ActionFailed, pp.ID, err
	}
}

// PricePointForTier picks the price point of tier from points. Tier 0 is the
// free price point; other tiers must carry a non-zero price.
func PricePointForTier(points []ascapi.PricePoint, tier int) (ascapi.PricePoint, error) {
	if tier < 0 {
		return ascapi.PricePoint{}, fmt.Errorf("price tier must not be negative, got %d", tier)
	}
	want := strconv.Itoa(tier)
	for _, p := range points {
		free := money.Matches(p.CustomerPrice, "0")
		if tier == 0 && free {
			return p, nil
		}
		if tier > 0 && !free && p.Tier == want {
			return p, nil
		}
	}
	return ascapi.PricePoint{}, errs.NewNotFoundError("app price point", "tier "+want)
}
