// Package tools declares the callable tools exposed over MCP and routes each
// invocation to the request dispatcher or the weather service.
package tools

import (
	"context"

	"github.com/tao-philip/server-mcp/internal/apiclient"
)

// Definition describes the metadata the MCP server exposes for a tool.
type Definition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Handler executes a tool using the provided arguments. It returns an
// envelope rather than an error; failures are encoded in the envelope.
type Handler func(ctx context.Context, args map[string]any) apiclient.Response

const (
	// MakeAPIRequestName calls any registered endpoint.
	MakeAPIRequestName = "make_api_request"
	// CurrentWeatherName returns normalized current conditions.
	CurrentWeatherName = "get_current_weather"
	// WeatherForecastName returns a raw provider forecast.
	WeatherForecastName = "get_weather_forecast"
	// ListEndpointsName lists registered endpoints.
	ListEndpointsName = "list_api_endpoints"
	// SetAPIKeyName stores a credential for an endpoint.
	SetAPIKeyName = "set_api_key"
)
