package cmd

import (
	"context"
	"time"

	"catalog-sync/core/journal"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/app"

	"github.com/spf13/cobra"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Manage the app record",
}

var appCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the app record for the registered bundle id",
	Long: `Looks up the bundle id registered in the developer account and creates the
app record with the configured name, SKU and primary locale. An existing record
is left untouched.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd, "app_create", (*app.Service).Create)
	},
}

var appSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Set content rights and the app price",
	Long: `Declares whether the app uses third-party content and sets the app price
schedule from the configured price tier. Tier 0 makes the app free.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runApp(cmd, "app_setup", (*app.Service).Setup)
	},
}

func init() {
	appCmd.AddCommand(appCreateCmd, appSetupCmd)
	RootCmd.AddCommand(appCmd)
}

func runApp(cmd *cobra.Command, kind string, op func(*app.Service, context.Context, string) (*app.Result, error)) error {
	rt, err := newRuntime(cmd.Context())
	if err != nil {
		return err
	}
	ctx, _, err := rt.session(cmd.Context())
	if err != nil {
		return err
	}

	svc := app.NewService(rt.client(), rt.cfg.App, rt.logger)
	run := journal.NewRun(kind, time.Now())

	res, runErr := op(svc, ctx, rt.cfg.AppStore.BundleID)
	var results []reconcile.Result
	if res != nil {
		results = res.Results()
	}
	run.Add(results...)
	run.Finish(reconcile.Tally(results...), runErr, time.Now())
	if runErr != nil {
		_ = rt.recorder.Record(ctx, run)
		return runErr
	}
	return rt.finish(ctx, run, res, nil)
}
