// internal/commands/root.go
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tao-philip/server-mcp/internal/appconfig"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/server"
)

var (
	cfgFile        string
	currentConfig  *appconfig.Config
	currentRuntime *server.Runtime
	appVersion     = "dev"
	appCommit      = "none"
	appDate        = "unknown"

	// bootstrap builds the runtime once the config is materialized.
	bootstrap = server.Bootstrap
	// loadEnvFile applies the dotenv file before credentials are read.
	loadEnvFile = server.LoadEnvFile
)

// configKeys are the config file keys that can be overridden by a flag of the same name.
var configKeys = []string{"debug", "logFile", "timeout", "userAgent", "envFile"}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mcp-api-server",
	Short: "mcp-api-server: MCP tools for weather and generic HTTP APIs",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, err := ensureConfigLoaded(cmd)
		if err != nil {
			return err
		}

		for _, name := range configKeys {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		if cfg.TimeoutSeconds < 0 {
			return fmt.Errorf("invalid configuration: timeout must not be negative")
		}
		cfg.ConfigPath = file
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logging.SetDebug(currentConfig.Debug)

		loadEnvFile(currentConfig.EnvFilePath())
		rt, err := bootstrap(*currentConfig, nil)
		if err != nil {
			return fmt.Errorf("failed to initialize tools: %w", err)
		}
		currentRuntime = rt
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("logFile", "", "also append logs to this file")
	rootCmd.PersistentFlags().Int("timeout", 0, "seconds before an outbound API call is abandoned (0 = default)")
	rootCmd.PersistentFlags().String("userAgent", "", "User-Agent sent to upstream APIs")
	rootCmd.PersistentFlags().String("envFile", "", "dotenv file holding <ENDPOINT>_API_KEY values")

	for _, name := range configKeys {
		_ = viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file and returns its path, or "" when
// running on defaults. Only an explicitly requested file has to exist.
func ensureConfigLoaded(cmd *cobra.Command) (string, error) {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
		if missing && !cmd.Flags().Changed("config") {
			return "", nil
		}
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	return viper.ConfigFileUsed(), nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
