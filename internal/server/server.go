// Package server exposes the tool router as an MCP server over stdio.
package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/mcp/tools"
)

// Name is reported to clients during initialization.
const Name = "mcp-api-server"

// Router is implemented by *tools.Router.
type Router interface {
	Definitions() []tools.Definition
	Route(ctx context.Context, name string, args map[string]any) apiclient.Response
}

// Server wraps an mcp.Server whose tools all route through one Router.
type Server struct {
	mcp    *mcp.Server
	router Router
	known  map[string]bool
}

// New registers every tool the router defines. Calls naming any other tool
// are still answered with a failure envelope rather than a protocol error.
func New(router Router, version string) *Server {
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    Name,
			Version: version,
		}, nil),
		router: router,
		known:  map[string]bool{},
	}
	for _, def := range router.Definitions() {
		s.known[def.Name] = true
		s.mcp.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.Parameters,
		}, s.handle)
	}
	s.mcp.AddReceivingMiddleware(s.routeUnknownTools)
	return s
}

// Run serves on stdin/stdout until the client disconnects or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	logging.LogEvent("%s MCP server running on stdio", Name)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves a single session on t. Used with in-memory transports.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

// --- Tool call handling ---

func (s *Server) handle(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.Params.Name
	args, err := decodeArguments(req.Params.Arguments)
	if err != nil {
		return Result(apiclient.Fail("Invalid arguments for %s: %v", name, err)), nil
	}
	return Result(s.router.Route(ctx, name, args)), nil
}

// routeUnknownTools hands tools/call requests for unregistered names to the
// router, which answers with an "Unknown tool" envelope.
func (s *Server) routeUnknownTools(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		if method != "tools/call" {
			return next(ctx, method, req)
		}
		call, ok := req.(*mcp.CallToolRequest)
		if !ok || call.Params == nil || s.known[call.Params.Name] {
			return next(ctx, method, req)
		}
		return s.handle(ctx, call)
	}
}

func decodeArguments(raw json.RawMessage) (map[string]any, error) {
	args := map[string]any{}
	if len(raw) == 0 || string(raw) == "null" {
		return args, nil
	}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Result renders resp as one pretty-printed JSON text block. Failures are
// also flagged through IsError.
func Result(resp apiclient.Response) *mcp.CallToolResult {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		resp = apiclient.Fail("failed to encode response: %v", err)
		data = []byte(fmt.Sprintf(`{"success":false,"error":%q}`, resp.Error))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: !resp.Success,
	}
}
