package release

import (
	"context"
	"fmt"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/errs"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/token"

	"go.uber.org/zap"
)

// Build processing states.
const (
	BuildValid   = "VALID"
	BuildFailed  = "FAILED"
	BuildInvalid = "INVALID"
)

// openSubmissionStates are the review submission states a new submission conflicts with.
var openSubmissionStates = []string{"READY_FOR_REVIEW", "WAITING_FOR_REVIEW"}

// VersionResult is printed by the version command.
type VersionResult struct {
	Version   string           `json:"version"`
	VersionID string           `json:"version_id"`
	State     string           `json:"state"`
	Action    reconcile.Action `json:"action"`
}

// SubmitResult is printed by the submit command.
type SubmitResult struct {
	Version      string `json:"version"`
	BuildVersion string `json:"build_version"`
	BuildID      string `json:"build_id,omitempty"`
	SubmissionID string `json:"submission_id,omitempty"`
}

// Service runs the version state machine for one app.
type Service struct {
	remote   Remote
	tokens   token.Source
	cfg      Config
	platform string
	logger   *zap.Logger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewService creates a release service. tokens may be nil when the session in
// the context outlives any poll.
func NewService(remote Remote, tokens token.Source, cfg Config, platform string, logger *zap.Logger) *Service {
	return &Service{
		remote:   remote,
		tokens:   tokens,
		cfg:      cfg,
		platform: platform,
		logger:   logger,
		now:      time.Now,
		sleep:    sleep,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Service) versionSpec(appID string) reconcile.Spec[string] {
	return reconcile.Spec[string]{
		Kind:      "app_store_version",
		Key:       func(v string) string { return v },
		RemoteKey: reconcile.ByAttribute("versionString"),
		Create: func(ctx context.Context, v string) ascapi.Outcome {
			return s.remote.CreateVersion(ctx, appID, s.platform, v)
		},
		Refetch: func(ctx context.Context) ([]ascapi.Resource, error) {
			versions, err := s.remote.ListVersions(ctx, appID, s.platform, "")
			if err != nil {
				return nil, err
			}
			return ascapi.VersionResources(versions), nil
		},
	}
}

// EnsureVersion creates or reuses the version the next release ships on.
func (s *Service) EnsureVersion(ctx context.Context, bundleID string) (*VersionResult, error) {
	app, err := s.remote.FindApp(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	versions, err := s.remote.ListVersions(ctx, app.ID, s.platform, "")
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}

	decision, err := Decide(versions)
	if err != nil {
		return nil, err
	}
	if decision.Create == "" {
		cur := decision.Current
		s.logger.Info("Reusing version",
			zap.String("version", cur.VersionString),
			zap.String("state", cur.State),
		)
		return &VersionResult{Version: cur.VersionString, VersionID: cur.ID, State: cur.State, Action: reconcile.ActionSkipped}, nil
	}

	res, err := reconcile.Reconcile(ctx, s.versionSpec(app.ID), decision.Create, ascapi.VersionResources(versions))
	if err != nil {
		return nil, err
	}
	s.logger.Info("Version ensured",
		zap.String("version", decision.Create),
		zap.String("version_id", res.ID),
		zap.String("action", string(res.Action)),
	)
	return &VersionResult{Version: decision.Create, VersionID: res.ID, State: StatePrepareForSubmission, Action: res.Action}, nil
}

// WaitForBuild polls until the newest build of version is processed. The
// returned context carries the session used by the last poll.
func (s *Service) WaitForBuild(ctx context.Context, appID, version string) (context.Context, *ascapi.Build, error) {
	deadline := s.now().Add(s.cfg.PollTimeout())
	log := s.logger.With(zap.String("version", version))

	for {
		var err error
		if ctx, err = s.refresh(ctx); err != nil {
			return ctx, nil, err
		}

		build, err := s.remote.LatestBuild(ctx, appID, version)
		if err != nil {
			return ctx, nil, fmt.Errorf("get latest build: %w", err)
		}
		if build != nil {
			switch build.ProcessingState {
			case BuildValid:
				log.Info("Build processed", zap.String("build", build.Version))
				return ctx, build, nil
			case BuildFailed, BuildInvalid:
				return ctx, nil, &errs.StateError{
					Subject: "build " + build.Version,
					State:   build.ProcessingState,
					Err:     errs.ErrBuildFailed,
				}
			}
			log.Debug("Build processing", zap.String("build", build.Version), zap.String("state", build.ProcessingState))
		} else {
			log.Debug("Build not uploaded yet")
		}

		if !s.now().Before(deadline) {
			return ctx, nil, fmt.Errorf("build for %s not processed after %s: %w", version, s.cfg.PollTimeout(), errs.ErrTimeout)
		}
		if err := s.sleep(ctx, s.cfg.PollInterval()); err != nil {
			return ctx, nil, err
		}
	}
}

func (s *Service) refresh(ctx context.Context) (context.Context, error) {
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

// Submit sends the version being prepared to review once its build is ready.
func (s *Service) Submit(ctx context.Context, bundleID string) (*SubmitResult, error) {
	app, err := s.remote.FindApp(ctx, bundleID)
	if err != nil {
		return nil, err
	}
	versions, err := s.remote.ListVersions(ctx, app.ID, s.platform, StatePrepareForSubmission)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	version := Latest(versions)
	if version == nil {
		return nil, errs.NewNotFoundError("version in "+StatePrepareForSubmission, bundleID)
	}

	ctx, build, err := s.WaitForBuild(ctx, app.ID, version.VersionString)
	if err != nil {
		return nil, err
	}

	if err := s.remote.AttachBuild(ctx, version.ID, build.ID); err != nil {
		return nil, fmt.Errorf("attach build: %w", err)
	}

	submissionID, err := s.reviewSubmission(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	item := s.remote.CreateReviewSubmissionItem(ctx, submissionID, version.ID)
	switch item.Kind {
	case ascapi.Failed:
		return nil, fmt.Errorf("add version to submission: %w", item.Err)
	case ascapi.AlreadyExists:
		s.logger.Info("Version already attached to submission", zap.String("submission_id", submissionID))
	}

	if err := s.remote.SubmitReviewSubmission(ctx, submissionID); err != nil {
		return nil, fmt.Errorf("submit for review: %w", err)
	}
	s.logger.Info("Version submitted for review",
		zap.String("version", version.VersionString),
		zap.String("build", build.Version),
		zap.String("submission_id", submissionID),
	)
	return &SubmitResult{
		Version:      version.VersionString,
		BuildVersion: build.Version,
		BuildID:      build.ID,
		SubmissionID: submissionID,
	}, nil
}

// reviewSubmission creates a submission, or finds the open one on conflict.
func (s *Service) reviewSubmission(ctx context.Context, appID string) (string, error) {
	out := s.remote.CreateReviewSubmission(ctx, appID, s.platform)
	switch out.Kind {
	case ascapi.Created:
		return out.ID(), nil
	case ascapi.Failed:
		return "", fmt.Errorf("create review submission: %w", out.Err)
	}

	open, err := s.remote.ListReviewSubmissions(ctx, appID, s.platform, openSubmissionStates)
	if err != nil {
		return "", fmt.Errorf("list review submissions: %w", err)
	}
	if len(open) == 0 {
		return "", &errs.ConflictUnresolvedError{Kind: "review_submission", Key: appID}
	}
	return open[0].ID, nil
}
