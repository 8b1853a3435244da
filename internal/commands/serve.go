package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tao-philip/server-mcp/internal/server"
)

// runServer is swapped out in tests so serve does not block on stdin.
var runServer = func(ctx context.Context, srv *server.Server) error {
	return srv.Run(ctx)
}

// serveCmd represents the 'serve' command, which speaks MCP on stdin/stdout.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long:  `The 'serve' command exposes make_api_request, get_current_weather, get_weather_forecast, list_api_endpoints and set_api_key to an MCP client over stdin/stdout. Logs go to stderr and the optional log file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		defer currentRuntime.LogMetrics()
		return runServer(ctx, server.New(currentRuntime.Router, appVersion))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
