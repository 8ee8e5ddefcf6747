package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
	"github.com/rs/zerolog/log"
)

var (
	// ErrStaleNetwork is returned when the selected network changed while a
	// fetch was in flight. The result belongs to the old network and is dropped.
	ErrStaleNetwork   = errors.New("selected network changed during request")
	ErrUnknownNetwork = errors.New("unknown network")
)

const (
	DefaultOverviewBlocks = 5
	DefaultOverviewTxs    = 10
)

type ExplorerConfig struct {
	OverviewBlocks int
	OverviewTxs    int
	RetryAttempts  uint
	RetryDelay     time.Duration
}

// Explorer binds the network selection to adapters. Adapters are built once
// per network and reused.
type Explorer struct {
	selection *networks.Selection
	factory   AdapterFactory
	cfg       ExplorerConfig

	mu       sync.Mutex
	adapters map[string]chain.Adapter
}

func NewExplorer(selection *networks.Selection, factory AdapterFactory, cfg ExplorerConfig) *Explorer {
	if cfg.OverviewBlocks <= 0 {
		cfg.OverviewBlocks = DefaultOverviewBlocks
	}
	if cfg.OverviewTxs <= 0 {
		cfg.OverviewTxs = DefaultOverviewTxs
	}
	return &Explorer{
		selection: selection,
		factory:   factory,
		cfg:       cfg,
		adapters:  make(map[string]chain.Adapter),
	}
}

func (e *Explorer) Selection() *networks.Selection {
	return e.selection
}

// Adapter returns the adapter for the currently selected network.
func (e *Explorer) Adapter() (chain.Adapter, error) {
	return e.adapterFor(e.selection.Selected())
}

func (e *Explorer) adapterFor(network networks.Network) (chain.Adapter, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if a, ok := e.adapters[network.ID]; ok {
		return a, nil
	}

	a, err := e.factory(network)
	if err != nil {
		return nil, fmt.Errorf("error building adapter for %s: %w", network.ID, err)
	}
	e.adapters[network.ID] = a
	return a, nil
}

// Fetch runs fn against the adapter of the network selected at call time.
// Timeouts are retried per the explorer config. If the selection moved before
// fn finished, the result is discarded and ErrStaleNetwork returned.
func Fetch[T any](ctx context.Context, e *Explorer, fn func(ctx context.Context, adapter chain.Adapter) (T, error)) (T, error) {
	var zero T

	snap := e.selection.Snapshot()
	adapter, err := e.adapterFor(snap.Network)
	if err != nil {
		return zero, err
	}

	var result T
	err = RetryTimeouts(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func(ctx context.Context) error {
		var callErr error
		result, callErr = fn(ctx, adapter)
		return callErr
	})

	if !e.selection.IsCurrent(snap) {
		log.Debug().Str("network", snap.Network.ID).Msg("Discarding response for previously selected network")
		return zero, fmt.Errorf("%w: response from %s", ErrStaleNetwork, snap.Network.ID)
	}
	if err != nil {
		return zero, err
	}
	return result, nil
}

// SwitchNetwork selects id, then checks the new network answers Status. On
// failure the previous selection is restored and the error returned, unless
// another switch happened meanwhile: that newer selection is kept.
func (e *Explorer) SwitchNetwork(ctx context.Context, id string) (*model.Status, error) {
	target, ok := e.selection.Registry().Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNetwork, id)
	}

	previous := e.selection.Selected()
	snap, _, err := e.selection.SelectWithSnapshot(ctx, target.ID)
	if err != nil {
		log.Warn().Err(err).Str("network", target.ID).Msg("Network selected but not persisted")
	}

	status, err := e.testConnectivity(ctx, target)
	if err != nil {
		if previous.ID == target.ID {
			return nil, fmt.Errorf("network %s is unreachable: %w", target.ID, err)
		}
		rolledBack, rbErr := e.selection.SelectIfCurrent(ctx, snap, previous.ID)
		if rbErr != nil {
			log.Warn().Err(rbErr).Str("network", previous.ID).Msg("Rollback selected but not persisted")
		}
		if !rolledBack {
			current := e.selection.Selected().ID
			log.Debug().Str("network", target.ID).Str("selected", current).Msg("Discarding failed switch superseded by a newer selection")
			return nil, fmt.Errorf("network %s is unreachable, %s was selected meanwhile: %w", target.ID, current, err)
		}
		return nil, fmt.Errorf("network %s is unreachable, kept %s: %w", target.ID, previous.ID, err)
	}

	log.Info().Str("network", target.ID).Int64("height", status.LatestHeight).Msg("Switched network")
	return status, nil
}

func (e *Explorer) testConnectivity(ctx context.Context, network networks.Network) (*model.Status, error) {
	adapter, err := e.adapterFor(network)
	if err != nil {
		return nil, err
	}

	var status *model.Status
	err = RetryTimeouts(ctx, e.cfg.RetryAttempts, e.cfg.RetryDelay, func(ctx context.Context) error {
		var callErr error
		status, callErr = adapter.Status(ctx)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	if status.ChainID != "" && network.ChainID != "" && status.ChainID != network.ChainID {
		event := log.Warn().Str("network", network.ID).Str("expected", network.ChainID).Str("reported", status.ChainID)
		if other, ok := e.selection.Registry().ByChainID(status.ChainID); ok {
			event = event.Str("matches", other.ID)
		}
		event.Msg("Endpoint reports a different chain id")
	}
	return status, nil
}

// Overview loads the dashboard branches concurrently. A failing branch is
// reported in its error field and never cancels the others.
func (e *Explorer) Overview(ctx context.Context) (*model.Overview, error) {
	return Fetch(ctx, e, func(ctx context.Context, adapter chain.Adapter) (*model.Overview, error) {
		return BuildOverview(ctx, adapter, e.cfg.OverviewBlocks, e.cfg.OverviewTxs), nil
	})
}

func BuildOverview(ctx context.Context, adapter chain.Adapter, blockCount int, txCount int) *model.Overview {
	overview := &model.Overview{Network: adapter.Network().ID}

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		status, err := adapter.Status(ctx)
		if err != nil {
			overview.StatusError = err.Error()
			return
		}
		overview.Status = status
	}()

	go func() {
		defer wg.Done()
		blocks, err := LatestBlocks(ctx, adapter, blockCount)
		if err != nil {
			overview.BlocksError = err.Error()
			return
		}
		overview.Blocks = blocks
	}()

	go func() {
		defer wg.Done()
		feed, err := RecentTransactions(ctx, adapter, txCount)
		if err != nil {
			overview.TxError = err.Error()
			return
		}
		overview.Transactions = feed
	}()

	go func() {
		defer wg.Done()
		count, err := validatorCount(ctx, adapter)
		if err != nil {
			overview.ValidatorError = err.Error()
			return
		}
		overview.ValidatorCount = count
	}()

	if checker, ok := adapter.(chain.HealthChecker); ok {
		wg.Add(1)
		go func() {
			defer wg.Done()
			health := checker.Health(ctx)
			overview.Health = &health
		}()
	}

	wg.Wait()
	overview.UpdatedAt = time.Now().UTC()
	return overview
}

func validatorCount(ctx context.Context, adapter chain.Adapter) (int, error) {
	if counter, ok := adapter.(chain.ValidatorSetCounter); ok {
		return counter.LatestValidatorSetSize(ctx)
	}

	set, err := adapter.Validators(ctx)
	if err != nil {
		return 0, err
	}
	return len(set.Validators), nil
}
