package cmd

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freightwatch/bltracker/internal/track"
)

// newSingleCmd creates the 'single' subcommand for ad hoc lookups outside a
// batch file.
func newSingleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "single <bl> <carrier>",
		Short: "Track one shipment by bill of lading and carrier key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			task := track.Task{
				ID:           strings.TrimSpace(args[0]),
				ExtractorKey: strings.TrimSpace(args[1]),
			}
			return runTasks(ctx, app, []track.Task{task})
		},
	}
}
