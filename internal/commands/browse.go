package commands

import (
	"github.com/spf13/cobra"
	"github.com/tao-philip/server-mcp/internal/tui"
)

// startBrowser is a function alias to tui.Browse so tests can skip the terminal UI.
var startBrowser = tui.Browse

// browseCmd represents the 'browse' command, an interactive endpoint browser.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse endpoints interactively",
	Long:  `The 'browse' command opens a terminal UI listing every endpoint. Select one to see its configuration and press p to send a probe request through make_api_request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startBrowser(cmd.Context(), currentRuntime.Registry, currentRuntime.Dispatcher, currentRuntime.Router, currentRuntime.Metrics)
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
