package commands

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tao-philip/server-mcp/internal/appconfig"
)

// showCmd groups the 'show' subcommands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show configuration or endpoint details",
}

// showConfigCmd implements the 'show config' command, which displays the current configuration settings.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		fallback := appconfig.Config{
			Debug:          viper.GetBool("debug"),
			LogFile:        viper.GetString("logFile"),
			TimeoutSeconds: viper.GetInt("timeout"),
			UserAgent:      viper.GetString("userAgent"),
			EnvFile:        viper.GetString("envFile"),
		}
		file := ""
		if cfg := GetConfig(); cfg != nil {
			file = cfg.ConfigPath
		}
		appconfig.ShowConfig(cmd.OutOrStdout(), file, GetConfig(), fallback)
	},
}

// showEndpointCmd implements 'show endpoint <key>', dumping one registry entry.
var showEndpointCmd = &cobra.Command{
	Use:   "endpoint <key>",
	Short: "Show one endpoint's configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ep, ok := currentRuntime.Registry.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown endpoint: %s", args[0])
		}
		_, err := pp.Fprintln(cmd.OutOrStdout(), ep)
		return err
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd, showEndpointCmd)
	rootCmd.AddCommand(showCmd)
}
