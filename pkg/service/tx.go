package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/core"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/DefiantLabs/cosmos-explorer/util"
	"github.com/rs/zerolog/log"
)

// RecentTransactions builds a feed from the latest block. Cosmos blocks only
// carry raw tx bytes, so hashes are derived locally (Synthetic) and the
// messages, memo and fee are decoded from the protobuf where possible. When
// the adapter can list a block's txs, execution results are merged in. EVM
// blocks carry hashes, which are resolved one by one.
//
// n caps the number of transactions; n <= 0 returns them all.
func RecentTransactions(ctx context.Context, adapter chain.Adapter, n int) (*model.TxFeed, error) {
	block, err := adapter.Block(ctx, chain.LatestTag)
	if err != nil {
		return nil, fmt.Errorf("error getting latest block: %w", err)
	}

	feed := &model.TxFeed{
		State:        model.StateSuccess,
		Height:       block.Height,
		Transactions: []model.Transaction{},
	}
	if block.TxCount() == 0 {
		feed.Empty = true
		return feed, nil
	}

	if len(block.TxHashes) > 0 {
		resolveHashes(ctx, adapter, block, capCount(block.TxHashes, n), feed)
	} else {
		decodeBlobs(ctx, adapter, block, capCount(block.Txs, n), feed)
	}

	feed.State = batchState(len(feed.Transactions), feed.Failed)
	return feed, nil
}

// Transactions returns a page of the newest transactions when the adapter
// can list them. An empty or failed list falls back to the latest block feed,
// which has no NextKey.
func Transactions(ctx context.Context, adapter chain.Adapter, limit int, pageKey string) (*model.TxFeed, error) {
	if lister, ok := adapter.(chain.TxLister); ok {
		feed, err := lister.ListTransactions(ctx, limit, pageKey)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("endpoint", chain.EndpointOf(err)).Msg("Transaction list failed, falling back to the latest block")
		case len(feed.Transactions) == 0:
			log.Debug().Msg("Transaction list is empty, falling back to the latest block")
		default:
			return feed, nil
		}
	}

	feed, err := RecentTransactions(ctx, adapter, limit)
	if err != nil {
		return nil, err
	}
	feed.Total = int64(len(feed.Transactions))
	return feed, nil
}

func capCount(list []string, n int) []string {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

func decodeBlobs(ctx context.Context, adapter chain.Adapter, block *model.Block, blobs []string, feed *model.TxFeed) {
	results := executionResults(ctx, adapter, block.Height)

	for _, blob := range blobs {
		raw, err := base64.StdEncoding.DecodeString(blob)
		if err != nil {
			log.Warn().Err(err).Int64("height", block.Height).Msg("Skipping undecodable tx blob")
			feed.Failed++
			continue
		}

		tx := model.Transaction{
			Hash:      core.TxHash(raw),
			Synthetic: true,
			Height:    block.Height,
			Time:      block.Time,
			Success:   true,
			Fee:       []model.Coin{},
			Messages:  []model.Message{},
		}

		if decoded, err := core.DecodeTx(raw); err == nil {
			tx.Memo = decoded.Memo
			tx.Fee = decoded.Fee
			tx.GasWanted = decoded.GasWanted
			tx.Messages = decoded.Messages
		} else {
			log.Debug().Err(err).Str("hash", tx.Hash).Msg("Could not decode tx body")
		}

		if res, ok := results[tx.Hash]; ok {
			tx.Code = res.Code
			tx.Success = res.Success
			tx.GasUsed = res.GasUsed
			tx.RawLog = res.RawLog
			if len(res.Messages) > 0 {
				tx.Messages = res.Messages
			}
		}

		feed.Transactions = append(feed.Transactions, tx)
	}
}

// executionResults is best effort; a failure only means the feed lacks
// codes and gas used.
func executionResults(ctx context.Context, adapter chain.Adapter, height int64) map[string]model.Transaction {
	lister, ok := adapter.(chain.BlockTxLister)
	if !ok {
		return nil
	}

	txs, err := lister.TxsByHeight(ctx, height)
	if err != nil {
		log.Debug().Err(err).Int64("height", height).Msg("Could not load tx results for block")
		return nil
	}

	out := make(map[string]model.Transaction, len(txs))
	for _, tx := range txs {
		out[core.NormalizeHash(tx.Hash)] = tx
	}
	return out
}

func resolveHashes(ctx context.Context, adapter chain.Adapter, block *model.Block, hashes []string, feed *model.TxFeed) {
	for _, hash := range util.RemoveDuplicateStrings(hashes) {
		tx, err := adapter.Transaction(ctx, hash)
		if err != nil {
			log.Warn().Err(err).Str("hash", hash).Msg("Error fetching transaction, skipping")
			feed.Failed++
			continue
		}
		if tx.Time.IsZero() {
			tx.Time = block.Time
		}
		feed.Transactions = append(feed.Transactions, *tx)
	}
}
