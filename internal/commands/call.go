package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tao-philip/server-mcp/internal/apiclient"
)

var (
	successfulResult = color.New(color.FgGreen).SprintFunc()
	failedResult     = color.New(color.FgRed).SprintFunc()
)

var callArgs string

// callCmd implements 'call', which runs one tool through the same router the
// MCP server uses and prints the envelope.
var callCmd = &cobra.Command{
	Use:          "call <tool>",
	Short:        "Invoke a tool once and print its response",
	Long:         `The 'call' command invokes a single tool with JSON arguments, e.g. call get_current_weather --args '{"location":"Paris"}'. The exit status is non-zero when the tool reports a failure.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		toolArgs := map[string]any{}
		if strings.TrimSpace(callArgs) != "" {
			if err := json.Unmarshal([]byte(callArgs), &toolArgs); err != nil {
				return fmt.Errorf("invalid --args JSON: %w", err)
			}
		}
		resp := currentRuntime.Router.Route(cmd.Context(), args[0], toolArgs)
		if err := printEnvelope(cmd.OutOrStdout(), resp); err != nil {
			return err
		}
		if !resp.Success {
			return fmt.Errorf("%s failed", args[0])
		}
		return nil
	},
}

func printEnvelope(out io.Writer, resp apiclient.Response) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if resp.Success {
		fmt.Fprintln(out, successfulResult(string(data)))
	} else {
		fmt.Fprintln(out, failedResult(string(data)))
	}
	return nil
}

func init() {
	callCmd.Flags().StringVar(&callArgs, "args", "", "tool arguments as a JSON object")
	rootCmd.AddCommand(callCmd)
}
