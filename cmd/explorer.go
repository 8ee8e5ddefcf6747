package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/DefiantLabs/cosmos-explorer/chain"
	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/DefiantLabs/cosmos-explorer/networks"
	"github.com/DefiantLabs/cosmos-explorer/pkg/repository"
	"github.com/DefiantLabs/cosmos-explorer/pkg/service"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// persistSelectionAnnotation marks commands that write the selection even
// when --network is given.
const persistSelectionAnnotation = "persist-selection"

// Explorer wires the configured store, registry and adapters for the running
// command.
type Explorer struct {
	cfg      config.ExplorerConfig
	store    networks.Store
	closer   io.Closer
	registry *networks.Registry
	explorer *service.Explorer
}

var app Explorer

// sessionStore pins the selection for one invocation without touching the
// persisted value.
type sessionStore struct {
	id string
}

func (s sessionStore) Load(context.Context) (string, error) { return s.id, nil }
func (s sessionStore) Save(context.Context, string) error   { return nil }

func setupExplorer(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, viperConf); err != nil {
		return err
	}

	app.cfg.Networks = nil
	if viperConf.IsSet("networks") {
		if err := viperConf.UnmarshalKey("networks", &app.cfg.Networks); err != nil {
			return fmt.Errorf("failed to read [[networks]]: %w", err)
		}
	}

	if err := app.cfg.Validate(); err != nil {
		return err
	}

	if err := setupLogger(app.cfg.Log.Level, app.cfg.Log.Path, app.cfg.Log.Pretty); err != nil {
		return err
	}

	if app.cfg.ConfigFileLocation != "" {
		config.Log.Debugf("CFG successfully read from: %s", app.cfg.ConfigFileLocation)
	}

	ignoredKeys := config.CheckSuperfluousExplorerKeys(viperConf.AllKeys())
	if len(ignoredKeys) > 0 {
		config.Log.Warnf("Warning, the following invalid keys will be ignored: %v", ignoredKeys)
	}

	registry, err := networks.DefaultRegistry(app.cfg.Networks...)
	if err != nil {
		return err
	}
	app.registry = registry

	store, closer, err := openStore(app.cfg.Store)
	if err != nil {
		return err
	}
	app.store = store
	app.closer = closer

	selectionStore := app.store
	if id := app.cfg.Base.Network; id != "" && cmd.Annotations[persistSelectionAnnotation] == "" {
		if _, ok := registry.Lookup(id); !ok {
			return fmt.Errorf("%w: %s", service.ErrUnknownNetwork, id)
		}
		selectionStore = sessionStore{id: id}
	}
	selection := networks.NewSelection(cmd.Context(), registry, selectionStore)

	requester := chain.NewRequester(nil, app.cfg.Request.Timeout, app.cfg.Request.UserAgent)
	factory := service.NewAdapterFactory(service.AdapterOptions{
		Requester:   requester,
		CosmosAPI:   app.cfg.Base.CosmosAPI,
		KeybaseURL:  app.cfg.Base.KeybaseURL,
		SkipAvatars: app.cfg.Base.SkipAvatars,
	})

	app.explorer = service.NewExplorer(selection, factory, service.ExplorerConfig{
		RetryAttempts: app.cfg.Request.RetryAttempts,
		RetryDelay:    app.cfg.Request.RetryDelay,
	})

	return nil
}

func openStore(conf config.Store) (networks.Store, io.Closer, error) {
	switch conf.Backend {
	case config.StoreBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     conf.RedisAddr,
			Password: conf.RedisPsw,
			DB:       conf.RedisDB,
		})
		return repository.NewRedisStore(rdb, conf.Key), rdb, nil
	default:
		store, err := repository.NewFileStore(conf.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
}

func (e *Explorer) Close() error {
	if e.closer == nil {
		return nil
	}
	err := e.closer.Close()
	e.closer = nil
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
