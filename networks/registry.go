package networks

import (
	"errors"
	"fmt"
	"strings"
)

type ChainType string

const (
	ChainTypeCosmos ChainType = "cosmos"
	ChainTypeEVM    ChainType = "evm"
)

// Network is an immutable catalogue entry. Selection changes which entry is
// active, never the entry itself.
type Network struct {
	ID            string    `json:"id" mapstructure:"id"`
	Name          string    `json:"name" mapstructure:"name"`
	Type          ChainType `json:"type" mapstructure:"type"`
	ChainID       string    `json:"chain_id" mapstructure:"chain-id"`
	RPC           string    `json:"rpc" mapstructure:"rpc"`
	LCD           string    `json:"lcd" mapstructure:"lcd"`
	CoinSymbol    string    `json:"coin_symbol" mapstructure:"coin-symbol"`
	CoinDecimals  int32     `json:"coin_decimals" mapstructure:"coin-decimals"`
	AccountPrefix string    `json:"account_prefix,omitempty" mapstructure:"account-prefix"`
	Description   string    `json:"description,omitempty" mapstructure:"description"`
}

func (n Network) IsEVM() bool {
	return n.Type == ChainTypeEVM
}

var (
	ErrEmptyNetworkID     = errors.New("network id must be set")
	ErrDuplicateNetworkID = errors.New("duplicate network id")
	ErrUnknownDefault     = errors.New("default network is not in the registry")
)

const DefaultNetworkID = "axone"

var staticNetworks = []Network{
	{
		ID:            "axone",
		Name:          "Axone",
		Type:          ChainTypeCosmos,
		ChainID:       "axone-1",
		RPC:           "https://api-axone.winsnip.site",
		LCD:           "https://api-axone.winsnip.site",
		CoinSymbol:    "AXONE",
		CoinDecimals:  6,
		AccountPrefix: "axone",
		Description:   "Axone Network",
	},
	{
		ID:            "kii",
		Name:          "KII Chain",
		Type:          ChainTypeCosmos,
		ChainID:       "oro_1336-1",
		RPC:           "https://lcd.dos.sentry.testnet.v3.kiivalidator.com",
		LCD:           "https://lcd.dos.sentry.testnet.v3.kiivalidator.com",
		CoinSymbol:    "KII",
		CoinDecimals:  18,
		AccountPrefix: "kii",
		Description:   "KII Testnet",
	},
	{
		ID:            "cosmoshub",
		Name:          "Cosmos Hub",
		Type:          ChainTypeCosmos,
		ChainID:       "cosmoshub-4",
		RPC:           "https://rpc-cosmoshub.blockapsis.com",
		LCD:           "https://lcd-cosmoshub.blockapsis.com",
		CoinSymbol:    "ATOM",
		CoinDecimals:  6,
		AccountPrefix: "cosmos",
		Description:   "Cosmos Hub Mainnet",
	},
	{
		ID:            "osmosis",
		Name:          "Osmosis",
		Type:          ChainTypeCosmos,
		ChainID:       "osmosis-1",
		RPC:           "https://rpc.osmosis.zone",
		LCD:           "https://lcd.osmosis.zone",
		CoinSymbol:    "OSMO",
		CoinDecimals:  6,
		AccountPrefix: "osmo",
		Description:   "Osmosis DEX",
	},
	{
		ID:            "juno",
		Name:          "Juno",
		Type:          ChainTypeCosmos,
		ChainID:       "juno-1",
		RPC:           "https://rpc-juno.blockapsis.com",
		LCD:           "https://lcd-juno.blockapsis.com",
		CoinSymbol:    "JUNO",
		CoinDecimals:  6,
		AccountPrefix: "juno",
		Description:   "Juno Smart Contracts",
	},
	{
		ID:            "warden-testnet",
		Name:          "Warden Testnet",
		Type:          ChainTypeCosmos,
		ChainID:       "chiado_10010-1",
		RPC:           "https://warden-testnet-rpc.itrocket.net",
		LCD:           "https://warden-testnet-api.itrocket.net",
		CoinSymbol:    "WARD",
		CoinDecimals:  6,
		AccountPrefix: "warden",
		Description:   "Warden Protocol Testnet",
	},
	{
		ID:           "arbitrum-mainnet",
		Name:         "Arbitrum One",
		Type:         ChainTypeEVM,
		ChainID:      "42161",
		RPC:          "https://arb1.arbitrum.io/rpc",
		LCD:          "https://api.arbiscan.io/api",
		CoinSymbol:   "ETH",
		CoinDecimals: 18,
		Description:  "Arbitrum One",
	},
}

// Registry is the fixed, ordered catalogue of known networks.
type Registry struct {
	networks  []Network
	byID      map[string]int
	defaultID string
}

func NewRegistry(list []Network, defaultID string) (*Registry, error) {
	r := &Registry{
		networks:  make([]Network, 0, len(list)),
		byID:      make(map[string]int, len(list)),
		defaultID: defaultID,
	}

	for _, n := range list {
		n.ID = strings.TrimSpace(n.ID)
		if n.ID == "" {
			return nil, ErrEmptyNetworkID
		}
		if _, ok := r.byID[n.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNetworkID, n.ID)
		}
		if n.Type == "" {
			n.Type = ChainTypeCosmos
		}
		n.RPC = strings.TrimRight(n.RPC, "/")
		n.LCD = strings.TrimRight(n.LCD, "/")
		r.byID[n.ID] = len(r.networks)
		r.networks = append(r.networks, n)
	}

	if _, ok := r.byID[defaultID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefault, defaultID)
	}

	return r, nil
}

// DefaultRegistry returns the built-in catalogue followed by any extra
// networks (typically loaded from the config file).
func DefaultRegistry(extra ...Network) (*Registry, error) {
	list := make([]Network, 0, len(staticNetworks)+len(extra))
	list = append(list, staticNetworks...)
	list = append(list, extra...)
	return NewRegistry(list, DefaultNetworkID)
}

func (r *Registry) List() []Network {
	out := make([]Network, len(r.networks))
	copy(out, r.networks)
	return out
}

func (r *Registry) Lookup(id string) (Network, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Network{}, false
	}
	return r.networks[idx], true
}

func (r *Registry) ByChainID(chainID string) (Network, bool) {
	for _, n := range r.networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

func (r *Registry) Default() Network {
	return r.networks[r.byID[r.defaultID]]
}
