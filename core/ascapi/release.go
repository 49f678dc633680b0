package ascapi

import (
	"context"
	"net/url"
	"strings"
)

// ListVersions lists the app's store versions for a platform. An empty state
// lists all of them.
func (c *Client) ListVersions(ctx context.Context, appID, platform, state string) ([]AppVersion, error) {
	q := url.Values{"limit": {pageLimit}}
	if platform != "" {
		q.Set("filter[platform]", platform)
	}
	if state != "" {
		q.Set("filter[appStoreState]", state)
	}
	res, err := c.List(ctx, "/apps/"+appID+"/appStoreVersions", q)
	if err != nil {
		return nil, err
	}
	out := make([]AppVersion, 0, len(res))
	for _, r := range res {
		out = append(out, appVersionFrom(r))
	}
	return out, nil
}

// VersionResources converts versions back to resources for natural-key matching.
func VersionResources(versions []AppVersion) []Resource {
	out := make([]Resource, 0, len(versions))
	for _, v := range versions {
		out = append(out, Resource{
			Type: "appStoreVersions",
			ID:   v.ID,
			Attributes: map[string]any{
				"versionString": v.VersionString,
				"appStoreState": v.State,
			},
		})
	}
	return out
}

// CreateVersion creates a store version released after approval.
func (c *Client) CreateVersion(ctx context.Context, appID, platform, versionString string) Outcome {
	return c.Create(ctx, "/appStoreVersions", Resource{
		Type: "appStoreVersions",
		Attributes: map[string]any{
			"platform":      platform,
			"versionString": versionString,
			"releaseType":   "AFTER_APPROVAL",
		},
		Relationships: map[string]Relationship{"app": One("apps", appID)},
	})
}

// LatestBuild returns the most recently uploaded build for a version string, or nil.
func (c *Client) LatestBuild(ctx context.Context, appID, version string) (*Build, error) {
	res, err := c.Page(ctx, "/builds", url.Values{
		"filter[app]":                       {appID},
		"filter[preReleaseVersion.version]": {version},
		"sort":                              {"-uploadedDate"},
		"limit":                             {"1"},
	})
	if err != nil {
		return nil, err
	}
	if len(res) == 0 {
		return nil, nil
	}
	b := buildFrom(res[0])
	return &b, nil
}

// AttachBuild points a version at a build.
func (c *Client) AttachBuild(ctx context.Context, versionID, buildID string) error {
	return c.PatchRelationship(ctx, "/appStoreVersions/"+versionID+"/relationships/build",
		Identifier{Type: "builds", ID: buildID})
}

// CreateReviewSubmission opens a review submission for the app.
func (c *Client) CreateReviewSubmission(ctx context.Context, appID, platform string) Outcome {
	return c.Create(ctx, "/reviewSubmissions", Resource{
		Type:          "reviewSubmissions",
		Attributes:    map[string]any{"platform": platform},
		Relationships: map[string]Relationship{"app": One("apps", appID)},
	})
}

// ListReviewSubmissions lists the app's submissions in any of states.
func (c *Client) ListReviewSubmissions(ctx context.Context, appID, platform string, states []string) ([]Resource, error) {
	q := url.Values{"filter[app]": {appID}}
	if platform != "" {
		q.Set("filter[platform]", platform)
	}
	if len(states) > 0 {
		q.Set("filter[state]", strings.Join(states, ","))
	}
	return c.List(ctx, "/reviewSubmissions", q)
}

// CreateReviewSubmissionItem adds a version to a submission.
func (c *Client) CreateReviewSubmissionItem(ctx context.Context, submissionID, versionID string) Outcome {
	return c.Create(ctx, "/reviewSubmissionItems", Resource{
		Type: "reviewSubmissionItems",
		Relationships: map[string]Relationship{
			"reviewSubmission": One("reviewSubmissions", submissionID),
			"appStoreVersion":  One("appStoreVersions", versionID),
		},
	})
}

// SubmitReviewSubmission sends a submission to review.
func (c *Client) SubmitReviewSubmission(ctx context.Context, submissionID string) error {
	_, err := c.Patch(ctx, "/reviewSubmissions/"+submissionID, Resource{
		Type:       "reviewSubmissions",
		ID:         submissionID,
		Attributes: map[string]any{"submitted": true},
	})
	return err
}
