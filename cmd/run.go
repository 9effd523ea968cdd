package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/api"
	"github.com/freightwatch/bltracker/internal/browser"
	"github.com/freightwatch/bltracker/internal/export"
	"github.com/freightwatch/bltracker/internal/extractors"
	"github.com/freightwatch/bltracker/internal/input"
	"github.com/freightwatch/bltracker/internal/metrics"
	"github.com/freightwatch/bltracker/internal/progress"
	"github.com/freightwatch/bltracker/internal/progress/sinks"
	"github.com/freightwatch/bltracker/internal/runner"
	"github.com/freightwatch/bltracker/internal/track"
)

// newRunCmd creates the 'run' subcommand: the full batch pipeline from input
// file to persisted records.
func newRunCmd() *cobra.Command {
	var inputPath string
	var flush bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Track every shipment listed in the input file",
		Long: `Reads bills of lading and carrier keys from the input file (.xlsx or
.csv), tracks them concurrently, and upserts one row per shipment into
the result database. With --flush the previous results are cleared
before the run starts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			path := inputPath
			if path == "" {
				path = app.Cfg.Run.InputPath
			}
			tasks, err := input.ReadTasks(path)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if flush {
				if err := app.Store.ResetResults(ctx); err != nil {
					return fmt.Errorf("flush results: %w", err)
				}
				app.Logger.Info("previous results flushed")
			}

			return runTasks(ctx, app, tasks)
		},
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "input file with BL and carrier columns (overrides config)")
	cmd.Flags().BoolVar(&flush, "flush", false, "clear previous results before the run")
	return cmd
}

// runTasks wires the browser, registry, metrics, and pool together and
// processes the tasks. Shared by run and single.
func runTasks(ctx context.Context, app *App, tasks []track.Task) error {
	m := metrics.New()
	if app.Cfg.Metrics.Enabled {
		srv := api.New(app.Cfg.Metrics.Addr, m, app.Logger.Named("api"))
		srv.Start()
		defer srv.Shutdown(context.Background())
	}

	b, err := browser.New(browser.Config{
		Headless:      app.Cfg.Browser.Headless,
		UserAgent:     app.Cfg.Browser.UserAgent,
		ExtraHeaders:  app.Cfg.Browser.ExtraHeaders,
		WindowWidth:   app.Cfg.Browser.WindowWidth,
		WindowHeight:  app.Cfg.Browser.WindowHeight,
		NavTimeout:    app.Cfg.Browser.NavTimeout(),
		ActionTimeout: app.Cfg.Browser.ActionTimeout(),
		RetryAttempts: app.Cfg.Browser.RetryAttempts,
		RetryDelay:    app.Cfg.Browser.RetryDelay(),
		OnRetry:       m.ObserveActionRetry,
	}, app.Logger.Named("browser"))
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer b.Close()

	hub := progress.NewHub(
		progress.Config{Logger: app.Logger.Named("progress")},
		sinks.NewLogSink(app.Logger.Named("progress")),
	)
	defer func() {
		if err := hub.Close(context.Background()); err != nil {
			app.Logger.Warn("progress hub close failed", zap.Error(err))
		}
	}()

	registry := extractors.Defaults(app.Logger.Named("extractor"))
	pool := runner.New(
		runner.Sessions(b),
		registry,
		app.Store,
		app.Store,
		m,
		hub,
		app.Cfg.Run.Concurrency,
		app.Logger.Named("runner"),
	)

	sum, err := pool.Run(ctx, tasks)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run tasks: %w", err)
	}
	app.Logger.Info("batch complete",
		zap.Int("total", sum.Total),
		zap.Int("succeeded", sum.Succeeded),
		zap.Int("failed", sum.Failed),
	)

	// Export after the pool has joined. A fresh context so an interrupted
	// batch still writes out whatever it finished.
	if err := export.Results(context.Background(), app.Store, app.Cfg.Run.ExportPath); err != nil {
		return fmt.Errorf("export results: %w", err)
	}
	app.Logger.Info("results exported", zap.String("path", app.Cfg.Run.ExportPath))
	return nil
}
