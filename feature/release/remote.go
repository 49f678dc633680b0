package release

import (
	"context"

	"catalog-sync/core/ascapi"
)

// Remote is the release API surface. *ascapi.Client satisfies it.
type Remote interface {
	FindApp(ctx context.Context, bundleID string) (*ascapi.Resource, error)
	ListVersions(ctx context.Context, appID, platform, state string) ([]ascapi.AppVersion, error)
	CreateVersion(ctx context.Context, appID, platform, versionString string) ascapi.Outcome
	LatestBuild(ctx context.Context, appID, version string) (*ascapi.Build, error)
	AttachBuild(ctx context.Context, versionID, buildID string) error
	CreateReviewSubmission(ctx context.Context, appID, platform string) ascapi.Outcome
	ListReviewSubmissions(ctx context.Context, appID, platform string, states []string) ([]ascapi.Resource, error)
	CreateReviewSubmissionItem(ctx context.Context, submissionID, versionID string) ascapi.Outcome
	SubmitReviewSubmission(ctx context.Context, submissionID string) error
}

var _ Remote = (*ascapi.Client)(nil)
