package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/tao-philip/server-mcp/internal/apiclient"
)

// listCmd groups the listing subcommands.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tools, endpoints or commands",
}

// listToolsCmd implements 'list tools', the catalog an MCP client sees.
var listToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools exposed over MCP",
	Run: func(cmd *cobra.Command, args []string) {
		var rows []row
		for _, def := range currentRuntime.Router.Definitions() {
			rows = append(rows, row{Left: def.Name, Right: def.Description})
		}
		renderColumns(cmd.OutOrStdout(), "Tools:", rows)
	},
}

// listEndpointsCmd implements 'list endpoints', showing each endpoint and
// whether its credential is loaded.
var listEndpointsCmd = &cobra.Command{
	Use:   "endpoints",
	Short: "List configured API endpoints and credential status",
	Run: func(cmd *cobra.Command, args []string) {
		renderEndpoints(cmd.OutOrStdout())
	},
}

// listCommandsCmd implements 'list commands', which prints the available
// commands and subcommands in a hierarchical, indented, two-column format.
var listCommandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List all commands and subcommands in two columns",
	Run: func(cmd *cobra.Command, args []string) {
		var rows []row
		for _, data := range collectCommandData(rootCmd, "", "") {
			if strings.Contains(data.Left, "completion") {
				continue
			}
			rows = append(rows, data)
		}
		renderColumns(cmd.OutOrStdout(), "Commands and Subcommands:", rows)
	},
}

func init() {
	listCmd.AddCommand(listToolsCmd, listEndpointsCmd, listCommandsCmd)
	rootCmd.AddCommand(listCmd)
}

// row is one line of a two-column listing.
type row struct {
	Left  string
	Right string
}

// renderColumns prints rows with the right column aligned.
func renderColumns(out io.Writer, title string, rows []row) {
	width := 0
	for _, r := range rows {
		if len(r.Left) > width {
			width = len(r.Left)
		}
	}

	fmt.Fprintln(out, title)
	for _, r := range rows {
		fmt.Fprintf(out, "  %s%s%s\n", r.Left, strings.Repeat(" ", width-len(r.Left)+2), r.Right)
	}
}

// collectCommandData walks the command tree and returns a flattened slice of
// path/description pairs.
func collectCommandData(cmd *cobra.Command, currentPath string, indent string) []row {
	fullPath := cmd.Name()
	if currentPath != "" {
		fullPath = currentPath + " " + cmd.Name()
	}

	all := []row{{Left: indent + fullPath, Right: cmd.Short}}
	for _, sub := range cmd.Commands() {
		all = append(all, collectCommandData(sub, fullPath, indent+"  ")...)
	}
	return all
}

func renderEndpoints(out io.Writer) {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	missingStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	reg := currentRuntime.Registry
	for _, key := range reg.Keys() {
		ep, _ := reg.Lookup(key)
		fmt.Fprintf(out, "%s  %s\n", keyStyle.Render(key), ep.Name)
		fmt.Fprintf(out, "    %s\n", ep.BaseURL)
		if !ep.RequiresAuth {
			fmt.Fprintln(out, "    auth: none")
			continue
		}
		status := okStyle.Render("key loaded")
		if !currentRuntime.Dispatcher.HasCredential(key) {
			status = missingStyle.Render("key missing (set " + apiclient.EnvVarName(key) + " or call set_api_key)")
		}
		fmt.Fprintf(out, "    auth: %s via %s, %s\n", ep.AuthType, ep.AuthHeader, status)
	}
}
