// Package cmd defines and implements the CLI commands for the bltracker
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/config"
	"github.com/freightwatch/bltracker/internal/logging"
	"github.com/freightwatch/bltracker/internal/store"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App bundles the services every subcommand needs: configuration, the
// process logger, and the open result store.
type App struct {
	Cfg    config.Config
	Logger *zap.Logger
	Store  *store.Store
}

// Close releases the app's resources.
func (a *App) Close() {
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Logger.Warn("store close failed", zap.Error(err))
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

// newApp is the application factory. It's a variable so tests can swap in a
// fake.
var newApp = func(ctx context.Context) (*App, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	st, err := store.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}

	return &App{Cfg: cfg, Logger: logger, Store: st}, nil
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bltracker",
		Short: "Multi-carrier ocean shipment tracker",
		Long: `bltracker tracks ocean shipments by bill of lading across multiple
carriers. It drives each carrier's public tracking page in a headless
browser, normalizes the harvested milestones into one canonical schema,
and persists a single row per shipment for export.`,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// The version command must not touch the database.
			if cmd.Name() == "version" {
				return nil
			}
			app, err := newApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if app, ok := cmd.Context().Value(appKey).(*App); ok && app != nil {
				app.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is defaults plus BLTRACKER_* env)")

	cmd.AddCommand(
		newInitCmd(),
		newRunCmd(),
		newSingleCmd(),
		newSyncCmd(),
		newExportCmd(),
		newVersionCmd(),
	)

	return cmd
}

func resolveApp(ctx context.Context) (*App, error) {
	app, ok := ctx.Value(appKey).(*App)
	if !ok || app == nil {
		return nil, errors.New("application services not initialized")
	}
	return app, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
