package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary. fallback is shown when
// cfg is nil, i.e. before the command tree has materialized a config.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}

	logFile := cfg.LogFilePath()
	if logFile == "" {
		logFile = "(stderr only)"
	}
	fmt.Fprintf(out, "  Debug:           %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Log File:        %s\n", logFile)
	fmt.Fprintf(out, "  Request Timeout: %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  User Agent:      %s\n", cfg.UserAgentHeader())
	fmt.Fprintf(out, "  Env File:        %s\n", cfg.EnvFilePath())
}
