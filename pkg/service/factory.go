package service

import (
	"errors"
	"fmt"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/rest"
	"github.com/DefiantLabs/cosmos-explorer/rpc"
)

const (
	CosmosAPILCD = "lcd"
	CosmosAPIRPC = "rpc"
)

var (
	ErrUnsupportedChainType = errors.New("unsupported chain type")
	ErrMissingEndpoint      = errors.New("network has no endpoint for the selected api")
)

// AdapterFactory builds the adapter serving a network.
type AdapterFactory func(networks.Network) (chain.Adapter, error)

type AdapterOptions struct {
	Requester *chain.Requester
	// CosmosAPI picks the endpoint family for cosmos networks: CosmosAPILCD
	// (default) or CosmosAPIRPC.
	CosmosAPI  string
	KeybaseURL string
	// SkipAvatars disables Keybase lookups for validator lists.
	SkipAvatars bool
}

func NewAdapter(network networks.Network, opts AdapterOptions) (chain.Adapter, error) {
	req := opts.Requester
	if req == nil {
		req = chain.NewRequester(nil, chain.DefaultTimeout, "")
	}

	if network.IsEVM() {
		if network.RPC == "" {
			return nil, fmt.Errorf("%w: %s rpc", ErrMissingEndpoint, network.ID)
		}
		return rpc.NewEvmAdapter(network, req), nil
	}

	switch network.Type {
	case networks.ChainTypeCosmos, "":
		if opts.CosmosAPI == CosmosAPIRPC {
			if network.RPC == "" {
				return nil, fmt.Errorf("%w: %s rpc", ErrMissingEndpoint, network.ID)
			}
			return rpc.NewTendermintAdapter(network, req), nil
		}
		if network.LCD == "" {
			return nil, fmt.Errorf("%w: %s lcd", ErrMissingEndpoint, network.ID)
		}
		var keybase *rest.Keybase
		if !opts.SkipAvatars {
			keybase = rest.NewKeybase(opts.KeybaseURL, req)
		}
		return rest.NewCosmosAdapter(network, req, keybase), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedChainType, network.Type)
	}
}

func NewAdapterFactory(opts AdapterOptions) AdapterFactory {
	return func(network networks.Network) (chain.Adapter, error) {
		return NewAdapter(network, opts)
	}
}
