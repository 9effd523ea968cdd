package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/export"
)

// newInitCmd creates the 'init' subcommand. The database schema itself is
// migrated on every start; init additionally seeds the built-in carrier
// registry and writes the empty export files so a fresh install can track
// immediately. Running it again is harmless.
func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the result database, seed the carrier registry, and write empty exports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if done, err := app.Store.Initialized(ctx); err != nil {
				return err
			} else if done {
				app.Logger.Info("already initialized", zap.String("path", app.Cfg.DB.Path))
			}

			if err := app.Store.SeedDefaults(ctx); err != nil {
				return fmt.Errorf("seed carriers: %w", err)
			}

			resultsPath := app.Cfg.Run.ExportPath
			carriersPath := filepath.Join(filepath.Dir(resultsPath), "carriers.csv")
			if err := export.Results(ctx, app.Store, resultsPath); err != nil {
				return fmt.Errorf("export results: %w", err)
			}
			if err := export.Carriers(ctx, app.Store, carriersPath); err != nil {
				return fmt.Errorf("export carriers: %w", err)
			}

			if err := app.Store.MarkInitialized(ctx); err != nil {
				return err
			}
			app.Logger.Info("database initialized",
				zap.String("path", app.Cfg.DB.Path),
				zap.String("results", resultsPath),
				zap.String("carriers", carriersPath),
			)
			return nil
		},
	}
}
