package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"catalog-sync/core/ascapi"
	"catalog-sync/core/config"
	"catalog-sync/core/database"
	"catalog-sync/core/journal"
	"catalog-sync/core/logger"
	"catalog-sync/core/report"
	"catalog-sync/core/storage"
	"catalog-sync/core/token"

	"go.uber.org/zap"
)

// runtime bundles what every command needs: config, logger and the optional
// journal and report archive.
type runtime struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *journal.Store
	recorder journal.Recorder
	archive  *report.Archive
	emitter  *report.Emitter
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	rt := &runtime{cfg: cfg, logger: logg, recorder: journal.Nop{}}

	// Journal and archive are optional; a broken one never blocks a run
	if cfg.Database.Enabled {
		if db, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Run journal unavailable", zap.Error(err))
		} else {
			store := journal.New(db)
			if err := store.Migrate(ctx); err != nil {
				logg.Warn("Run journal migration failed", zap.Error(err))
			} else {
				rt.store = store
				rt.recorder = store
			}
		}
	}

	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Report archive unavailable", zap.Error(err))
		} else if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Report bucket unavailable", zap.String("bucket", cfg.Storage.Bucket), zap.Error(err))
		} else {
			rt.archive = report.NewArchive(client, cfg.Storage.Bucket)
		}
	}

	rt.emitter = &report.Emitter{Out: os.Stdout, Archive: rt.archive, Logger: logg}
	return rt, nil
}

// session validates credentials, mints the first token and returns a context
// carrying it along with the minter for later refreshes.
func (rt *runtime) session(ctx context.Context) (context.Context, token.Source, error) {
	app := rt.cfg.AppStore
	if err := app.Validate(); err != nil {
		return ctx, nil, err
	}
	key, err := token.LoadKey(app.PrivateKey, app.PrivateKeyPath)
	if err != nil {
		return ctx, nil, err
	}
	minter, err := token.NewMinter(app.KeyID, app.IssuerID, key, time.Duration(app.TokenTTLSeconds)*time.Second)
	if err != nil {
		return ctx, nil, err
	}
	sess, err := minter.Mint()
	if err != nil {
		return ctx, nil, err
	}
	return token.WithSession(ctx, sess), minter, nil
}

func (rt *runtime) client() *ascapi.Client {
	return ascapi.New(rt.cfg.AppStore)
}

// finish records the run and prints the report. The run error wins over
// output errors.
func (rt *runtime) finish(ctx context.Context, run *journal.Run, out any, runErr error) error {
	if err := rt.recorder.Record(ctx, run); err != nil {
		rt.logger.Warn("Failed to record run", zap.String("run_id", run.ID), zap.Error(err))
	}
	emitErr := rt.emitter.Emit(ctx, run.Kind, run.ID, out)
	_ = rt.logger.Sync()
	if runErr != nil {
		return runErr
	}
	return emitErr
}
