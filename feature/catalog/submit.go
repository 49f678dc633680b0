package catalog

import (
	"context"

	"catalog-sync/core/ascapi"

	"go.uber.org/zap"
)

// Submission states reported per subscription and group.
const (
	SubmissionSubmitted        = "submitted"
	SubmissionAlreadySubmitted = "already_submitted"
	SubmissionFailed           = "failed"
)

func (s *Syncer) submitSubscription(ctx context.Context, subID string, sr *SubscriptionReport) string {
	state, err := submissionState(s.remote.SubmitSubscription(ctx, subID))
	if err != nil {
		s.logger.Warn("Subscription submission failed", zap.String("product_id", sr.ProductID), zap.Error(err))
		sr.Errors = append(sr.Errors, "submission: "+err.Error())
	}
	return state
}

func (s *Syncer) submitGroup(ctx context.Context, groupID string, gr *GroupReport) string {
	if groupID == "" {
		return ""
	}
	state, err := submissionState(s.remote.SubmitSubscriptionGroup(ctx, groupID))
	if err != nil {
		s.logger.Warn("Group submission failed", zap.String("group", gr.Group), zap.Error(err))
		gr.Errors = append(gr.Errors, "submission: "+err.Error())
	}
	return state
}

// submissionState treats a conflict as an earlier successful submission.
func submissionState(out ascapi.Outcome) (string, error) {
	switch out.Kind {
	case ascapi.Created:
		return SubmissionSubmitted, nil
	case ascapi.AlreadyExists:
		return SubmissionAlreadySubmitted, nil
	default:
		return SubmissionFailed, out.Err
	}
}
