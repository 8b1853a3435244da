package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tao-philip/server-mcp/internal/apiclient"
)

func (r *Router) makeAPIRequest(ctx context.Context, args map[string]any) apiclient.Response {
	req, err := decodeRequest(args)
	if err != nil {
		return apiclient.Fail("%s", err.Error())
	}
	return r.dispatcher.Dispatch(ctx, req)
}

func (r *Router) currentWeather(ctx context.Context, args map[string]any) apiclient.Response {
	return r.weather.CurrentWeather(ctx, stringArg(args, "location"), stringArg(args, "provider"))
}

func (r *Router) weatherForecast(ctx context.Context, args map[string]any) apiclient.Response {
	days, err := intArg(args, "days")
	if err != nil {
		return apiclient.Fail("%s", err.Error())
	}
	return r.weather.Forecast(ctx, stringArg(args, "location"), days, stringArg(args, "provider"))
}

func (r *Router) listEndpoints(_ context.Context, _ map[string]any) apiclient.Response {
	return apiclient.OK(r.registry.All())
}

func (r *Router) setAPIKey(_ context.Context, args map[string]any) apiclient.Response {
	endpoint := stringArg(args, "endpoint")
	r.dispatcher.SetCredential(endpoint, stringArg(args, "apiKey"))
	return apiclient.Response{
		Success: true,
		Message: fmt.Sprintf("API key set for endpoint: %s", endpoint),
	}
}

// decodeRequest maps tool arguments onto an apiclient.Request by their
// documented names.
func decodeRequest(args map[string]any) (apiclient.Request, error) {
	data, err := json.Marshal(args)
	if err != nil {
		return apiclient.Request{}, fmt.Errorf("invalid arguments: %w", err)
	}
	var req apiclient.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return apiclient.Request{}, fmt.Errorf("invalid arguments: %w", err)
	}
	return req, nil
}

func stringArg(args map[string]any, name string) string {
	if s, ok := args[name].(string); ok {
		return s
	}
	return ""
}

// intArg returns 0 when name is absent.
func intArg(args map[string]any, name string) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("'%s' must be a whole number", name)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("'%s' must be a whole number", name)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("'%s' must be a number", name)
	}
}
