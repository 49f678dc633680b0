package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/core/journal"
	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/feature/runs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "catalog-sync/docs/swagger"
)

// @title catalog-sync Runs API
// @version 1.0
// @description Read-only access to the catalog-sync run journal and archived reports.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run journal over HTTP",
	Long:  `Starts the HTTP server exposing recorded runs and their archived reports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		app, err := newServer(rt)
		if err != nil {
			return err
		}

		go func() {
			rt.logger.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				rt.logger.Error("Server stopped", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		rt.logger.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

// newServer builds the fiber app with middleware and every enabled feature.
func newServer(rt *runtime) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           rt.cfg.Server.ReadTimeout(),
	})

	// RayID first so every log line can be traced
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(rt.logger, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Get("/swagger/*", swagger.HandlerDefault)

	if rt.cfg.Server.Protected() {
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))
	} else {
		rt.logger.Warn("Server API key is empty, routes are unauthenticated")
	}

	// An untyped nil keeps the runs feature disabled without a journal
	var reader journal.Reader
	if rt.store != nil {
		reader = rt.store
	}

	mgr := loader.NewManager(rt.logger)
	mgr.Register(runs.NewFeature(reader, rt.archive, rt.logger))
	if err := mgr.LoadAll(app); err != nil {
		return nil, err
	}
	return app, nil
}
