package cmd

import (
	"context"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/consumer"
	"github.com/spf13/cobra"
)

var watchInterval time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "refresh interval (default is base.refresh-interval)")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Prints the overview of the selected network on every refresh until interrupted.",
	Long: `Prints the overview of the selected network on every refresh until interrupted.
Unless --network pins the network, each refresh follows the persisted selection,
so "networks select" run elsewhere takes effect on the next refresh.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := app.cfg.Base.RefreshInterval
		if watchInterval > 0 {
			interval = watchInterval
		}

		var follow networks.Store
		if app.cfg.Base.Network == "" {
			follow = app.store
		}

		out := cmd.OutOrStdout()
		selection := app.explorer.Selection()
		refresher := consumer.NewRefresher(interval, func(ctx context.Context) error {
			if follow != nil {
				if _, err := followPersistedSelection(ctx, selection, follow); err != nil {
					config.Log.ZWarn().Err(err).Msg("Could not read the persisted network, keeping the current one")
				}
			}
			overview, err := app.explorer.Overview(ctx)
			if err != nil {
				return err
			}
			return printJSON(out, overview)
		})

		refresher.Start(cmd.Context())
		<-cmd.Context().Done()
		refresher.Stop()
		return nil
	},
}

// followPersistedSelection switches sel to the network id held by store when
// it differs from the current one. Unknown ids are ignored.
func followPersistedSelection(ctx context.Context, sel *networks.Selection, store networks.Store) (bool, error) {
	id, err := store.Load(ctx)
	if err != nil {
		return false, err
	}
	if id == "" || id == sel.Selected().ID {
		return false, nil
	}

	changed, err := sel.Select(ctx, id)
	if changed {
		config.Log.ZInfo().Str("network", id).Msg("Network changed, refreshing")
	}
	return changed, err
}
