// cmd/mcp-api-server/main.go
package main

import (
	"github.com/tao-philip/server-mcp/internal/commands"
)

// Set at build time via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = commands.SetVersionInfo
	executeCmd     = commands.Execute
)

// main injects build metadata and hands control to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
