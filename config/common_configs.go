package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/DefiantLabs/cosmos-explorer/util"
	"github.com/spf13/cobra"
)

const (
	StoreBackendFile  = "file"
	StoreBackendRedis = "redis"

	defaultHomeDir   = ".cosmos-explorer"
	defaultStoreFile = "selection.json"
)

// These configs are used across multiple commands, and are not specific to a single command
type log struct {
	Level  string
	Path   string
	Pretty bool
}

type Request struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	RetryAttempts uint          `mapstructure:"retry-attempts"`
	RetryDelay    time.Duration `mapstructure:"retry-delay"`
	UserAgent     string        `mapstructure:"user-agent"`
}

type Store struct {
	Backend   string `mapstructure:"backend"`
	Path      string `mapstructure:"path"`
	RedisAddr string `mapstructure:"redis-addr"`
	RedisPsw  string `mapstructure:"redis-psw"`
	RedisDB   int    `mapstructure:"redis-db"`
	Key       string `mapstructure:"key"`
}

func SetupLogFlags(logConf *log, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&logConf.Level, "log.level", "info", "log level")
	cmd.PersistentFlags().BoolVar(&logConf.Pretty, "log.pretty", PrettyDefault(), "pretty logs (default is true when stderr is a terminal)")
	cmd.PersistentFlags().StringVar(&logConf.Path, "log.path", "", "optional log file, logs always go to stderr")
}

func SetupRequestFlags(requestConf *Request, cmd *cobra.Command) {
	cmd.PersistentFlags().DurationVar(&requestConf.Timeout, "request.timeout", 10*time.Second, "timeout of every upstream request")
	cmd.PersistentFlags().UintVar(&requestConf.RetryAttempts, "request.retry-attempts", 1, "attempts for requests that time out (1 disables retries)")
	cmd.PersistentFlags().DurationVar(&requestConf.RetryDelay, "request.retry-delay", time.Second, "base delay between timed out attempts")
	cmd.PersistentFlags().StringVar(&requestConf.UserAgent, "request.user-agent", "cosmos-explorer", "user agent sent upstream")
}

func SetupStoreFlags(storeConf *Store, cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&storeConf.Backend, "store.backend", StoreBackendFile, "where the selected network is kept (file or redis)")
	cmd.PersistentFlags().StringVar(&storeConf.Path, "store.path", "", "selection file (default is $HOME/.cosmos-explorer/selection.json)")
	cmd.PersistentFlags().StringVar(&storeConf.RedisAddr, "store.redis-addr", "", "redis address")
	cmd.PersistentFlags().StringVar(&storeConf.RedisPsw, "store.redis-psw", "", "redis password")
	cmd.PersistentFlags().IntVar(&storeConf.RedisDB, "store.redis-db", 0, "redis database")
	cmd.PersistentFlags().StringVar(&storeConf.Key, "store.key", "", "redis key holding the selected network (default is c/selected_network)")
}

func validateRequestConf(requestConf Request) error {
	if requestConf.Timeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if requestConf.RetryAttempts == 0 {
		return errors.New("request retry-attempts must be at least 1")
	}
	if requestConf.RetryDelay < 0 {
		return errors.New("request retry-delay must be a positive duration or 0")
	}
	return nil
}

func validateStoreConf(storeConf Store) (Store, error) {
	storeConf.Backend = strings.ToLower(strings.TrimSpace(storeConf.Backend))
	switch storeConf.Backend {
	case "", StoreBackendFile:
		storeConf.Backend = StoreBackendFile
		if util.StrNotSet(storeConf.Path) {
			home, err := os.UserHomeDir()
			if err != nil {
				return storeConf, fmt.Errorf("store path not set and home dir unknown: %w", err)
			}
			storeConf.Path = filepath.Join(home, defaultHomeDir, defaultStoreFile)
		}
	case StoreBackendRedis:
		if util.StrNotSet(storeConf.RedisAddr) {
			return storeConf, errors.New("store redis-addr must be set when the redis backend is used")
		}
		if storeConf.RedisDB < 0 {
			return storeConf, errors.New("store redis-db must be 0 or greater")
		}
	default:
		return storeConf, fmt.Errorf("unknown store backend %q (expected file or redis)", storeConf.Backend)
	}
	return storeConf, nil
}

// Reads the Viper mapstructure tag to get the valid keys for a given config struct
func getValidConfigKeys(section any, baseName string) (keys []string) {
	v := reflect.ValueOf(section)
	typeOfS := v.Type()

	if baseName == "" {
		baseName = strings.ToLower(typeOfS.Name())
	}

	for i := 0; i < v.NumField(); i++ {
		field := typeOfS.Field(i)

		name := field.Tag.Get("mapstructure")
		if name == "" {
			name = field.Name
		}

		key := fmt.Sprintf("%v.%v", baseName, strings.ReplaceAll(strings.ToLower(name), " ", ""))
		keys = append(keys, key)
	}
	return
}

func addLogConfigKeys(validKeys map[string]struct{}) {
	for _, key := range getValidConfigKeys(log{}, "") {
		validKeys[key] = struct{}{}
	}
}

func addRequestConfigKeys(validKeys map[string]struct{}) {
	for _, key := range getValidConfigKeys(Request{}, "") {
		validKeys[key] = struct{}{}
	}
}

func addStoreConfigKeys(validKeys map[string]struct{}) {
	for _, key := range getValidConfigKeys(Store{}, "") {
		validKeys[key] = struct{}{}
	}
}
