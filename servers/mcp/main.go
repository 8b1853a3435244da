// servers/mcp/main.go
// Minimal MCP server over stdio for hosts that launch a plain executable.
// Tools: make_api_request, get_current_weather, get_weather_forecast,
// list_api_endpoints, set_api_key
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tao-philip/server-mcp/internal/appconfig"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/server"
)

const version = "1.0.0"

var (
	configPath string
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to the config file")
}

// run loads configuration, wires the tools and serves until stdin closes.
func run(ctx context.Context, path string, serve func(context.Context, *server.Server) error) error {
	cfg, err := appconfig.Load(path)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.LogFilePath()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logging.Close()
	logging.SetDebug(cfg.Debug)

	server.LoadEnvFile(cfg.EnvFilePath())
	rt, err := server.Bootstrap(cfg, nil)
	if err != nil {
		return err
	}
	defer rt.LogMetrics()
	return serve(ctx, server.New(rt.Router, version))
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, configPath, func(ctx context.Context, srv *server.Server) error {
		return srv.Run(ctx)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
