package cmd

import (
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/journal"
	"catalog-sync/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncFlags struct {
	catalogPath    string
	screenshotsDir string
	submit         bool
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the subscription catalog",
	Long: `Creates or updates subscription groups, subscriptions, localizations, availability,
introductory offers, prices and review screenshots so App Store Connect matches the
catalog file. Existing entities are never deleted. Prints a JSON report.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFlags.catalogPath, "catalog", "", "catalog file (overrides CATALOG_PATH)")
	syncCmd.Flags().StringVar(&syncFlags.screenshotsDir, "screenshots", "", "fallback review screenshot directory (overrides CATALOG_SCREENSHOTS_DIR)")
	syncCmd.Flags().BoolVar(&syncFlags.submit, "submit-subscriptions", false, "submit every subscription and group for review")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	cfg := rt.cfg
	if syncFlags.catalogPath != "" {
		cfg.Catalog.Path = syncFlags.catalogPath
	}
	if syncFlags.screenshotsDir != "" {
		cfg.Catalog.ScreenshotsDir = syncFlags.screenshotsDir
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	ctx, tokens, err := rt.session(cmd.Context())
	if err != nil {
		return err
	}

	uploads := ascapi.NewHTTPClient(cfg.AppStore.TimeoutSeconds)
	syncer := catalog.NewSyncer(rt.client(), uploads, tokens, cfg.Catalog, rt.logger)

	run := journal.NewRun("sync", time.Now())
	rt.logger.Info("Catalog sync started",
		zap.String("run_id", run.ID),
		zap.String("catalog", cfg.Catalog.Path),
		zap.Int("groups", len(cat.SubscriptionGroups)),
	)

	rep, syncErr := syncer.Sync(ctx, cat, cfg.AppStore.BundleID, catalog.Options{SubmitSubscriptions: syncFlags.submit})
	rep.RunID = run.ID
	run.Add(rep.Results()...)
	run.Finish(rep.Summary, syncErr, time.Now())

	rt.logger.Info("Catalog sync finished",
		zap.String("run_id", run.ID),
		zap.Int("created", rep.Summary.Created),
		zap.Int("updated", rep.Summary.Updated),
		zap.Int("skipped", rep.Summary.Skipped),
		zap.Int("failed", rep.Summary.Failed),
	)
	return rt.finish(ctx, run, rep, syncErr)
}
