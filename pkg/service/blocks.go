package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/rs/zerolog/log"
)

// LatestBlocks fetches the newest n blocks, newest first. Blocks that fail to
// load are logged and skipped; only a failing Status is an error.
func LatestBlocks(ctx context.Context, adapter chain.Adapter, n int) (*model.BlockBatch, error) {
	return Blocks(ctx, adapter, 1, n)
}

// Blocks returns one page of limit blocks counting down from the chain tip.
// Page 1 is the newest page.
func Blocks(ctx context.Context, adapter chain.Adapter, page int, limit int) (*model.BlockBatch, error) {
	if limit <= 0 {
		return &model.BlockBatch{State: model.StateSuccess, Blocks: []model.Block{}}, nil
	}
	if page < 1 {
		page = 1
	}

	status, err := adapter.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting latest height: %w", err)
	}

	start := status.LatestHeight - int64(page-1)*int64(limit)
	return fetchDescending(ctx, adapter, start, limit), nil
}

func fetchDescending(ctx context.Context, adapter chain.Adapter, start int64, n int) *model.BlockBatch {
	batch := &model.BlockBatch{Blocks: make([]model.Block, 0, n)}

	for height := start; height >= 1 && height > start-int64(n); height-- {
		block, err := adapter.Block(ctx, strconv.FormatInt(height, 10))
		if err != nil {
			log.Warn().Err(err).Int64("height", height).Str("network", adapter.Network().ID).Msg("Error fetching block, skipping")
			batch.Failed++
			continue
		}
		batch.Blocks = append(batch.Blocks, *block)
	}

	batch.State = batchState(len(batch.Blocks), batch.Failed)
	return batch
}

func batchState(ok int, failed int) model.FetchState {
	switch {
	case failed == 0:
		return model.StateSuccess
	case ok == 0:
		return model.StateFailed
	default:
		return model.StatePartialSuccess
	}
}
