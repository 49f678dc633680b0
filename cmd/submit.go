package cmd

import (
	"time"

	"catalog-sync/core/journal"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/release"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit the prepared version for review",
	Long: `Waits for the build of the version in PREPARE_FOR_SUBMISSION to finish processing,
attaches it and sends the version to App Review.`,
	RunE: runSubmit,
}

func init() {
	RootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	ctx, tokens, err := rt.session(cmd.Context())
	if err != nil {
		return err
	}

	svc := release.NewService(rt.client(), tokens, rt.cfg.Release, rt.cfg.AppStore.Platform, rt.logger)
	run := journal.NewRun("submit", time.Now())

	res, runErr := svc.Submit(ctx, rt.cfg.AppStore.BundleID)
	var summary reconcile.Summary
	if runErr != nil {
		run.Finish(summary, runErr, time.Now())
		_ = rt.recorder.Record(ctx, run)
		return runErr
	}

	run.Add(reconcile.Result{Kind: "review_submission", Key: res.Version, ID: res.SubmissionID, Action: reconcile.ActionCreated})
	summary.Add(reconcile.ActionCreated)
	run.Finish(summary, nil, time.Now())
	return rt.finish(ctx, run, res, nil)
}
