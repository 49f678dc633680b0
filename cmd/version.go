package cmd

import (
	"time"

	"catalog-sync/core/journal"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/release"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Create or reuse the app version for the next release",
	Long: `Inspects the newest App Store version and creates the next one when the last
release is live, reuses one still in flight, and fails while a version awaits
manual developer release.`,
	RunE: runVersion,
}

func init() {
	RootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	ctx, tokens, err := rt.session(cmd.Context())
	if err != nil {
		return err
	}

	svc := release.NewService(rt.client(), tokens, rt.cfg.Release, rt.cfg.AppStore.Platform, rt.logger)
	run := journal.NewRun("version", time.Now())

	res, runErr := svc.EnsureVersion(ctx, rt.cfg.AppStore.BundleID)
	var summary reconcile.Summary
	if runErr != nil {
		run.Finish(summary, runErr, time.Now())
		_ = rt.recorder.Record(ctx, run)
		return runErr
	}

	run.Add(reconcile.Result{Kind: "app_store_version", Key: res.Version, ID: res.VersionID, Action: res.Action})
	summary.Add(res.Action)
	run.Finish(summary, nil, time.Now())
	return rt.finish(ctx, run, res, nil)
}
