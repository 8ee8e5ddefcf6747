package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/pkg/service"
	"github.com/spf13/cobra"
)

var errUnsupported = errors.New("not supported by the selected network")

var (
	blocksCount int
	blocksPage  int
	txsCount    int
	txsPageKey  string
)

func init() {
	blocksCmd.Flags().IntVar(&blocksCount, "count", 0, "number of blocks (default is base.count)")
	blocksCmd.Flags().IntVar(&blocksPage, "page", 1, "page of blocks, 1 is the newest")
	txsCmd.Flags().IntVar(&txsCount, "count", 0, "maximum number of transactions (default is base.count)")
	txsCmd.Flags().StringVar(&txsPageKey, "page-key", "", "next_key of the previous page")

	rootCmd.AddCommand(
		statusCmd,
		overviewCmd,
		blocksCmd,
		blockCmd,
		txsCmd,
		txCmd,
		validatorsCmd,
		validatorCmd,
		signingInfosCmd,
		accountCmd,
		searchCmd,
	)
}

// runFetch runs fn against the selected network and prints the result.
func runFetch[T any](cmd *cobra.Command, fn func(ctx context.Context, adapter chain.Adapter) (T, error)) error {
	result, err := service.Fetch(cmd.Context(), app.explorer, fn)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func countOrDefault(n int) int {
	if n > 0 {
		return n
	}
	return app.cfg.Base.Count
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the chain id and latest height of the selected network.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.Status, error) {
			return adapter.Status(ctx)
		})
	},
}

var overviewCmd = &cobra.Command{
	Use:   "overview",
	Short: "Loads status, latest blocks, recent transactions, validator count and health at once.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overview, err := app.explorer.Overview(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), overview)
	},
}

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Lists blocks in descending height order.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.BlockBatch, error) {
			return service.Blocks(ctx, adapter, blocksPage, countOrDefault(blocksCount))
		})
	},
}

var blockCmd = &cobra.Command{
	Use:   "block <height|latest>",
	Short: "Shows one block.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.Block, error) {
			return adapter.Block(ctx, args[0])
		})
	},
}

var txsCmd = &cobra.Command{
	Use:   "txs",
	Short: "Lists the newest transactions.",
	Long: `Lists the newest transactions page by page. Pass the printed next_key to --page-key for
	the following page. When the network cannot list transactions, those of the latest block are shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.TxFeed, error) {
			return service.Transactions(ctx, adapter, countOrDefault(txsCount), txsPageKey)
		})
	},
}

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Shows one transaction.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.Transaction, error) {
			return adapter.Transaction(ctx, args[0])
		})
	},
}

var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "Lists the validator set.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.ValidatorSet, error) {
			return adapter.Validators(ctx)
		})
	},
}

var validatorCmd = &cobra.Command{
	Use:   "validator <operator-address>",
	Short: "Shows one validator.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.Validator, error) {
			lookup, ok := adapter.(chain.ValidatorLookup)
			if !ok {
				return nil, fmt.Errorf("validator lookup: %w", errUnsupported)
			}
			return lookup.Validator(ctx, args[0])
		})
	},
}

var signingInfosCmd = &cobra.Command{
	Use:   "signing-infos",
	Short: "Lists validator signing infos.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) ([]model.SigningInfo, error) {
			lister, ok := adapter.(chain.SigningInfoLister)
			if !ok {
				return nil, fmt.Errorf("signing infos: %w", errUnsupported)
			}
			return lister.SigningInfos(ctx)
		})
	},
}

var accountCmd = &cobra.Command{
	Use:   "account <address>",
	Short: "Shows an account with its balances, delegations and rewards.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (*model.Account, error) {
			return adapter.Account(ctx, args[0])
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Finds a block, transaction or address.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFetch(cmd, func(ctx context.Context, adapter chain.Adapter) (model.SearchResult, error) {
			return service.ResolveSearch(ctx, adapter, args[0]), nil
		})
	},
}
