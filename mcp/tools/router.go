package tools

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/logging"
	"github.com/tao-philip/server-mcp/internal/weather"
	"github.com/xeipuuv/gojsonschema"
)

// Dispatcher is the subset of *apiclient.Dispatcher the router needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, req apiclient.Request) apiclient.Response
	SetCredential(endpointKey, secret string)
}

type route struct {
	def     Definition
	schema  *gojsonschema.Schema
	handler Handler
}

// Router maps tool names to handlers.
type Router struct {
	dispatcher Dispatcher
	weather    *weather.Service
	registry   *endpoints.Registry
	order      []string
	routes     map[string]route
}

// NewRouter builds the tool catalog for reg and wires each tool to d or w.
func NewRouter(d Dispatcher, w *weather.Service, reg *endpoints.Registry) (*Router, error) {
	r := &Router{
		dispatcher: d,
		weather:    w,
		registry:   reg,
		routes:     make(map[string]route),
	}
	keys := reg.Keys()
	entries := []struct {
		def     Definition
		handler Handler
	}{
		{MakeAPIRequestDefinition(keys), r.makeAPIRequest},
		{CurrentWeatherDefinition(), r.currentWeather},
		{WeatherForecastDefinition(), r.weatherForecast},
		{ListEndpointsDefinition(), r.listEndpoints},
		{SetAPIKeyDefinition(keys), r.setAPIKey},
	}
	for _, e := range entries {
		if err := r.register(e.def, e.handler); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Router) register(def Definition, h Handler) error {
	if _, exists := r.routes[def.Name]; exists {
		return fmt.Errorf("tool %s already exists", def.Name)
	}
	schema, err := compileSchema(def)
	if err != nil {
		return err
	}
	r.routes[def.Name] = route{def: def, schema: schema, handler: h}
	r.order = append(r.order, def.Name)
	return nil
}

// Definitions returns the catalog in registration order.
func (r *Router) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.routes[name].def)
	}
	return defs
}

// Route invokes the named tool. It never panics and always returns an
// envelope that can be marshaled to JSON.
func (r *Router) Route(ctx context.Context, name string, args map[string]any) (resp apiclient.Response) {
	rt, ok := r.routes[name]
	if !ok {
		return apiclient.Fail("Unknown tool: %s", name)
	}
	if args == nil {
		args = map[string]any{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	id := uuid.NewString()
	ctx = logging.WithRequestID(ctx, id)
	endpoint := stringArg(args, "endpoint")
	logging.LogRequest("MCP->TOOL", id, endpoint, name, redactArgs(args))

	defer func() {
		if rec := recover(); rec != nil {
			logging.LogEvent("[ERROR] tool panic: id=%s tool=%s reason=%v", id, name, rec)
			resp = apiclient.Fail("%v", rec)
		}
		logging.LogRequest("TOOL->MCP", id, endpoint, name, map[string]any{
			"success":    resp.Success,
			"error":      resp.Error,
			"statusCode": resp.StatusCode,
		})
	}()

	if err := validateArguments(rt.schema, args); err != nil {
		return apiclient.Fail("Invalid arguments for %s: %v", name, err)
	}
	return rt.handler(ctx, args)
}

// redactArgs hides credential values and header values from logs.
func redactArgs(args map[string]any) map[string]any {
	_, hasKey := args["apiKey"]
	headers, hasHeaders := args["headers"].(map[string]any)
	if !hasKey && !hasHeaders {
		return args
	}
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	if hasKey {
		out["apiKey"] = "***"
	}
	if hasHeaders {
		masked := make(map[string]any, len(headers))
		for k := range headers {
			masked[k] = "***"
		}
		out["headers"] = masked
	}
	return out
}
