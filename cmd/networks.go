package cmd

import (
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/spf13/cobra"
)

type networkEntry struct {
	networks.Network
	Selected bool `json:"selected"`
}

func init() {
	networksCmd.AddCommand(networksListCmd, networksCurrentCmd, networksSelectCmd)
	rootCmd.AddCommand(networksCmd)
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Lists and selects networks.",
}

var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the known networks.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		selected := app.explorer.Selection().Selected().ID
		list := app.registry.List()
		entries := make([]networkEntry, 0, len(list))
		for _, n := range list {
			entries = append(entries, networkEntry{Network: n, Selected: n.ID == selected})
		}
		return printJSON(cmd.OutOrStdout(), entries)
	},
}

var networksCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Shows the selected network.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), app.explorer.Selection().Selected())
	},
}

var networksSelectCmd = &cobra.Command{
	Use:         "select <id>",
	Short:       "Selects and saves a network after checking it answers.",
	Long:        `Selects a network and checks that its status endpoint answers. If it does not, the previous selection is kept.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{persistSelectionAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := app.explorer.SwitchNetwork(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), status)
	},
}
