package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/DefiantLabs/cosmos-explorer/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string // config file location to load
	rootCmd = &cobra.Command{
		Use:   "cosmos-explorer",
		Short: "A CLI tool for exploring Cosmos and EVM networks",
		Long: `Cosmos Explorer reads blocks, transactions, validators and accounts from the
		public endpoints of Cosmos-SDK and EVM networks and prints them as JSON.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupExplorer,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	viperConf = viper.New()

	// flags whose config file key differs from the flag name
	flagConfigKeys = map[string]string{
		"network": "base.network",
	}
)

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// Execute executes the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(getViperConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file location (default is <CWD>/config.toml)")
	config.SetupExplorerFlags(&app.cfg, rootCmd)
}

func getViperConfig() {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("toml")
	} else {
		// Check in current working dir
		pwd, err := os.Getwd()
		if err != nil {
			log.Fatalf("Could not determine current working dir. Err: %v", err)
		}
		configDir := pwd
		if _, err := os.Stat(fmt.Sprintf("%v/config.toml", pwd)); err != nil {
			// file not in current working dir. Check home dir instead
			home, err := os.UserHomeDir()
			if err != nil {
				log.Fatalf("Failed to find user home dir. Err: %v", err)
			}
			configDir = fmt.Sprintf("%s/.cosmos-explorer", home)
		}
		v.AddConfigPath(configDir)
		v.SetConfigType("toml")
		v.SetConfigName("config")
	}

	var noConfig bool
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			noConfig = true
		case strings.Contains(err.Error(), "incomplete number"):
			log.Fatalf("Failed to read config file %v. This usually means you forgot to wrap a string in quotes.", err)
		default:
			log.Fatalf("Failed to read config file. Err: %v", err)
		}
	}

	if !noConfig {
		app.cfg.ConfigFileLocation = v.ConfigFileUsed()
	}

	viperConf = v
}

// Set config vars from config file not already specified on command line.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		configName := f.Name
		if key, ok := flagConfigKeys[f.Name]; ok {
			configName = key
		}

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && v.IsSet(configName) && bindErr == nil {
			val := v.Get(configName)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				bindErr = fmt.Errorf("failed to bind config file value %v: %w", configName, err)
			}
		}
	})
	return bindErr
}

func setupLogger(logLevel string, logPath string, prettyLogging bool) error {
	return config.DoConfigureLogger(logPath, logLevel, prettyLogging)
}
