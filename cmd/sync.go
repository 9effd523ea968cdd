package cmd

import (
	"errors"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/freightwatch/bltracker/internal/carriersync"
)

// newSyncCmd creates the 'sync' subcommand: pull the remote carrier registry
// and apply it when its version is newer than the local one.
func newSyncCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Update the carrier registry from the remote list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := resolveApp(cmd.Context())
			if err != nil {
				return err
			}

			target := url
			if target == "" {
				target = app.Cfg.Sync.URL
			}
			if target == "" {
				return errors.New("no sync URL configured; set sync.url or pass --url")
			}

			syncer := carriersync.New(resty.New(), app.Store, app.Logger.Named("sync"))
			return syncer.Sync(cmd.Context(), target)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "carrier list URL (overrides config)")
	return cmd
}
