package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/model"
)

type fakeAdapter struct {
	network      networks.Network
	latest       int64
	statusErr    error
	validatorErr error
	failHeights  map[int64]bool
	latestBlock  *model.Block
	txs          map[string]*model.Transaction
	statusHook   func()

	mu         sync.Mutex
	blockCalls []string
	txCalls    []string
}

func (f *fakeAdapter) Network() networks.Network {
	return f.network
}

func (f *fakeAdapter) Status(_ context.Context) (*model.Status, error) {
	if f.statusHook != nil {
		f.statusHook()
	}
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return &model.Status{ChainID: f.network.ChainID, LatestHeight: f.latest}, nil
}

func (f *fakeAdapter) Block(_ context.Context, heightOrTag string) (*model.Block, error) {
	f.mu.Lock()
	f.blockCalls = append(f.blockCalls, heightOrTag)
	f.mu.Unlock()

	if heightOrTag == chain.LatestTag {
		if f.latestBlock != nil {
			return f.latestBlock, nil
		}
		return &model.Block{Height: f.latest, Txs: []string{}}, nil
	}

	h, err := strconv.ParseInt(heightOrTag, 10, 64)
	if err != nil {
		return nil, chain.ErrBlockNotFound
	}
	if f.failHeights[h] {
		return nil, &chain.RequestError{Endpoint: fmt.Sprintf("/blocks/%d", h), Kind: chain.ErrEndpointUnavailable}
	}
	if h > f.latest {
		return nil, chain.ErrBlockNotFound
	}
	return &model.Block{Height: h, Hash: fmt.Sprintf("H%d", h), Txs: []string{}}, nil
}

func (f *fakeAdapter) Validators(_ context.Context) (*model.ValidatorSet, error) {
	if f.validatorErr != nil {
		return nil, f.validatorErr
	}
	return &model.ValidatorSet{Applicable: true, Validators: []model.Validator{{Moniker: "a"}, {Moniker: "b"}}}, nil
}

func (f *fakeAdapter) Account(_ context.Context, address string) (*model.Account, error) {
	return nil, &chain.RequestError{Endpoint: "/accounts/" + address, Kind: chain.ErrAccountNotFound}
}

func (f *fakeAdapter) Transaction(_ context.Context, hash string) (*model.Transaction, error) {
	f.mu.Lock()
	f.txCalls = append(f.txCalls, hash)
	f.mu.Unlock()

	if tx, ok := f.txs[hash]; ok {
		return tx, nil
	}
	return nil, &chain.RequestError{Endpoint: "/txs/" + hash, Kind: chain.ErrTransactionNotFound}
}

func (f *fakeAdapter) heightsRequested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.blockCalls...)
}
