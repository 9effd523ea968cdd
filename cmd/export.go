package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/freightwatch/bltracker/internal/export"
)

// newExportCmd creates the 'export' subcommand.
func newExportCmd() *cobra.Command {
	var out string
	var carriers bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results (or the carrier registry) to CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = app.Cfg.Run.ExportPath
			}

			if carriers {
				err = export.Carriers(cmd.Context(), app.Store, path)
			} else {
				err = export.Results(cmd.Context(), app.Store, path)
			}
			if err != nil {
				return err
			}
			app.Logger.Info("export written", zap.String("path", path))
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output CSV path (overrides config)")
	cmd.Flags().BoolVar(&carriers, "carriers", false, "export the carrier registry instead of results")
	return cmd
}
