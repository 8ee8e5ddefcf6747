package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/spf13/cobra"
)

const (
	CosmosAPILCD = "lcd"
	CosmosAPIRPC = "rpc"
)

type ExplorerConfig struct {
	ConfigFileLocation string
	Log                log
	Request            Request
	Store              Store
	Base               explorerBase
	// Networks are extra catalogue entries from [[networks]] tables.
	Networks []networks.Network
}

type explorerBase struct {
	Network         string        `mapstructure:"network"`
	CosmosAPI       string        `mapstructure:"cosmos-api"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
	KeybaseURL      string        `mapstructure:"keybase-url"`
	SkipAvatars     bool          `mapstructure:"skip-avatars"`
	Count           int           `mapstructure:"count"`
}

func SetupExplorerFlags(conf *ExplorerConfig, cmd *cobra.Command) {
	SetupLogFlags(&conf.Log, cmd)
	SetupRequestFlags(&conf.Request, cmd)
	SetupStoreFlags(&conf.Store, cmd)

	cmd.PersistentFlags().StringVar(&conf.Base.Network, "network", "", "network id to use for this command only (does not change the saved selection)")
	cmd.PersistentFlags().StringVar(&conf.Base.CosmosAPI, "base.cosmos-api", CosmosAPILCD, "endpoint family for cosmos networks (lcd or rpc)")
	cmd.PersistentFlags().DurationVar(&conf.Base.RefreshInterval, "base.refresh-interval", 30*time.Second, "watch refresh interval")
	cmd.PersistentFlags().StringVar(&conf.Base.KeybaseURL, "base.keybase-url", "", "keybase lookup endpoint used for validator avatars")
	cmd.PersistentFlags().BoolVar(&conf.Base.SkipAvatars, "base.skip-avatars", false, "do not look up validator avatars")
	cmd.PersistentFlags().IntVar(&conf.Base.Count, "base.count", 10, "default number of blocks or transactions listed")
}

func (conf *ExplorerConfig) Validate() error {
	if err := validateRequestConf(conf.Request); err != nil {
		return err
	}

	storeConf, err := validateStoreConf(conf.Store)
	if err != nil {
		return err
	}
	conf.Store = storeConf

	conf.Base.CosmosAPI = strings.ToLower(strings.TrimSpace(conf.Base.CosmosAPI))
	switch conf.Base.CosmosAPI {
	case "":
		conf.Base.CosmosAPI = CosmosAPILCD
	case CosmosAPILCD, CosmosAPIRPC:
	default:
		return fmt.Errorf("base.cosmos-api must be %s or %s, got %q", CosmosAPILCD, CosmosAPIRPC, conf.Base.CosmosAPI)
	}

	if conf.Base.RefreshInterval <= 0 {
		return errors.New("base.refresh-interval must be positive")
	}
	if conf.Base.Count <= 0 {
		return errors.New("base.count must be positive")
	}

	for i, n := range conf.Networks {
		if strings.TrimSpace(n.ID) == "" {
			return fmt.Errorf("networks[%d]: id must be set", i)
		}
		if n.RPC == "" && n.LCD == "" {
			return fmt.Errorf("networks[%d] (%s): rpc or lcd must be set", i, n.ID)
		}
		switch n.Type {
		case "", networks.ChainTypeCosmos, networks.ChainTypeEVM:
		default:
			return fmt.Errorf("networks[%d] (%s): unknown type %q", i, n.ID, n.Type)
		}
	}

	return nil
}

func CheckSuperfluousExplorerKeys(keys []string) []string {
	validKeys := make(map[string]struct{})

	addLogConfigKeys(validKeys)
	addRequestConfigKeys(validKeys)
	addStoreConfigKeys(validKeys)

	for _, key := range getValidConfigKeys(explorerBase{}, "base") {
		validKeys[key] = struct{}{}
	}
	validKeys["networks"] = struct{}{}

	// Check keys
	ignoredKeys := make([]string, 0)
	for _, key := range keys {
		if _, ok := validKeys[key]; !ok {
			ignoredKeys = append(ignoredKeys, key)
		}
	}

	return ignoredKeys
}
