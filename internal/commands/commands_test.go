package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/appconfig"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/metrics"
	"github.com/tao-philip/server-mcp/internal/server"
	"github.com/tao-philip/server-mcp/internal/tui"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// run executes the command tree against a temp config with no API keys in
// the environment and returns everything written to stdout/stderr.
func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	configPath := writeTempConfig(t, config)

	origBootstrap, origLoadEnv := bootstrap, loadEnvFile
	bootstrap = func(cfg appconfig.Config, _ func(string) (string, bool)) (*server.Runtime, error) {
		return server.Bootstrap(cfg, func(string) (string, bool) { return "", false })
	}
	loadEnvFile = func(string) {}
	t.Cleanup(func() {
		bootstrap, loadEnvFile = origBootstrap, origLoadEnv
		_ = logging.Close()
	})

	for _, name := range configKeys {
		resetFlag(name)
	}
	callArgs = ""

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--config", configPath}, args...))
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

func TestPersistentPreRunEMergesFlagsOverConfig(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "server.log")
	_, err := run(t, `{"timeout": 3, "userAgent": "from-config"}`, "--timeout", "7", "--logFile", logPath, "list", "commands")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatalf("expected config to be materialized")
	}
	if cfg.RequestTimeout() != 7*time.Second {
		t.Fatalf("expected flag timeout 7s to win, got %v", cfg.RequestTimeout())
	}
	if cfg.UserAgentHeader() != "from-config" {
		t.Fatalf("expected config user agent, got %q", cfg.UserAgentHeader())
	}
	if cfg.LogFilePath() != logPath {
		t.Fatalf("expected log file %q, got %q", logPath, cfg.LogFilePath())
	}
	if currentRuntime == nil || currentRuntime.Dispatcher.Timeout() != 7*time.Second {
		t.Fatalf("expected runtime built with 7s timeout")
	}
}

func TestPersistentPreRunEMissingExplicitConfig(t *testing.T) {
	for _, name := range configKeys {
		resetFlag(name)
	}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.json"), "list", "tools"})
	t.Cleanup(func() { rootCmd.SetArgs([]string{}) })
	if _, err := rootCmd.ExecuteC(); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestShowConfigCommandOutput(t *testing.T) {
	out, err := run(t, `{"timeout": 4}`, "--debug", "show", "config")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Config file: ") {
		t.Fatalf("expected config file path in output, got %s", out)
	}
	if !strings.Contains(out, "Debug:           true") {
		t.Fatalf("expected debug in output, got %s", out)
	}
	if !strings.Contains(out, "Request Timeout: 4s") {
		t.Fatalf("expected timeout from config, got %s", out)
	}
}

func TestListToolsCommand(t *testing.T) {
	out, err := run(t, `{}`, "list", "tools")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, name := range []string{"make_api_request", "get_current_weather", "get_weather_forecast", "list_api_endpoints", "set_api_key"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output, got %s", name, out)
		}
	}
}

func TestListEndpointsCommand(t *testing.T) {
	out, err := run(t, `{}`, "list", "endpoints")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "jsonplaceholder") || !strings.Contains(out, "auth: none") {
		t.Fatalf("expected unauthenticated endpoint, got %s", out)
	}
	if !strings.Contains(out, "set OPENWEATHER_API_KEY") {
		t.Fatalf("expected missing key hint, got %s", out)
	}
}

func TestListCommandsCommand(t *testing.T) {
	out, err := run(t, `{}`, "list", "commands")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "Commands and Subcommands:") || !strings.Contains(out, "mcp-api-server show endpoint") {
		t.Fatalf("unexpected command listing: %s", out)
	}
	if strings.Contains(out, "completion") {
		t.Fatalf("completion commands should be hidden: %s", out)
	}
}

func TestShowEndpointCommand(t *testing.T) {
	out, err := run(t, `{}`, "show", "endpoint", "openweather")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "OpenWeatherMap") {
		t.Fatalf("expected endpoint dump, got %s", out)
	}

	if _, err := run(t, `{}`, "show", "endpoint", "nosuch"); err == nil {
		t.Fatalf("expected error for unknown endpoint")
	}
}

func TestCallCommand(t *testing.T) {
	out, err := run(t, `{}`, "call", "list_api_endpoints")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, `"success": true`) || !strings.Contains(out, `"baseUrl": "https://httpbin.org"`) {
		t.Fatalf("unexpected call output: %s", out)
	}

	out, err = run(t, `{}`, "call", "make_api_request", "--args", `{"endpoint":"openweather","path":"/weather"}`)
	if err == nil {
		t.Fatalf("expected failing tool to return an error")
	}
	if !strings.Contains(out, "API key required for endpoint: openweather") {
		t.Fatalf("expected failure envelope, got %s", out)
	}

	if _, err := run(t, `{}`, "call", "list_api_endpoints", "--args", `{not json`); err == nil {
		t.Fatalf("expected error for invalid --args")
	}
}

func TestServeCommandUsesRuntimeRouter(t *testing.T) {
	orig := runServer
	t.Cleanup(func() { runServer = orig })
	var got *server.Server
	runServer = func(ctx context.Context, srv *server.Server) error {
		got = srv
		return nil
	}

	if _, err := run(t, `{}`, "serve"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got == nil {
		t.Fatalf("expected serve to hand a server to runServer")
	}
}

func TestBrowseCommandUsesRuntime(t *testing.T) {
	orig := startBrowser
	t.Cleanup(func() { startBrowser = orig })
	called := false
	startBrowser = func(ctx context.Context, reg *endpoints.Registry, creds tui.CredentialChecker, router tui.Router, stats *metrics.Aggregator) error {
		called = true
		if reg.Len() != 4 {
			t.Fatalf("expected default registry, got %d endpoints", reg.Len())
		}
		if _, ok := creds.(*apiclient.Dispatcher); !ok {
			t.Fatalf("expected dispatcher as credential checker, got %T", creds)
		}
		if stats == nil {
			t.Fatalf("expected metrics aggregator")
		}
		return nil
	}

	if _, err := run(t, `{}`, "browse"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !called {
		t.Fatalf("expected browser to start")
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	out, err := run(t, `{}`, "nonexistent")
	if err == nil {
		t.Fatalf("expected an error for an unknown subcommand")
	}
	if !strings.Contains(out, `unknown command "nonexistent" for "mcp-api-server"`) {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestRootRegistersOperatorCommands(t *testing.T) {
	for _, name := range []string{"serve", "call", "list", "show", "browse"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %q subcommand, got %v %v", name, cmd, err)
		}
	}
	for _, name := range append([]string{"config"}, configKeys...) {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("missing persistent flag --%s", name)
		}
	}
}
