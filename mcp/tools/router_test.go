package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/endpoints"
	"github.com/tao-philip/server-mcp/internal/weather"
)

type recordingDispatcher struct {
	requests []apiclient.Request
	creds    map[string]string
	resp     apiclient.Response
}

func (d *recordingDispatcher) Dispatch(_ context.Context, req apiclient.Request) apiclient.Response {
	d.requests = append(d.requests, req)
	return d.resp
}

func (d *recordingDispatcher) SetCredential(key, secret string) {
	if d.creds == nil {
		d.creds = map[string]string{}
	}
	d.creds[key] = secret
}

func newTestRouter(t *testing.T, d Dispatcher) *Router {
	t.Helper()
	reg := endpoints.Default()
	r, err := NewRouter(d, weather.NewService(d), reg)
	if err != nil {
		t.Fatalf("NewRouter error: %v", err)
	}
	return r
}

func TestDefinitionsCatalog(t *testing.T) {
	r := newTestRouter(t, &recordingDispatcher{})
	defs := r.Definitions()
	want := []string{MakeAPIRequestName, CurrentWeatherName, WeatherForecastName, ListEndpointsName, SetAPIKeyName}
	if len(defs) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(defs))
	}
	for i, def := range defs {
		if def.Name != want[i] {
			t.Fatalf("tool %d = %s, want %s", i, def.Name, want[i])
		}
		if def.Description == "" || def.Parameters["type"] != "object" {
			t.Fatalf("tool %s has incomplete definition", def.Name)
		}
	}
}

func TestRouteUnknownTool(t *testing.T) {
	r := newTestRouter(t, &recordingDispatcher{})
	resp := r.Route(context.Background(), "no_such_tool", map[string]any{})
	if resp.Success || resp.Error != "Unknown tool: no_such_tool" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"success":false,"error":"Unknown tool: no_such_tool"}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestRouteMakeAPIRequestPassesArguments(t *testing.T) {
	d := &recordingDispatcher{resp: apiclient.OK("ok")}
	r := newTestRouter(t, d)
	resp := r.Route(context.Background(), MakeAPIRequestName, map[string]any{
		"endpoint": "httpbin",
		"path":     "/post",
		"method":   "POST",
		"params":   map[string]any{"a": "1"},
		"headers":  map[string]any{"X-Test": "yes"},
		"body":     map[string]any{"k": "v"},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	got := d.requests[0]
	if got.Endpoint != "httpbin" || got.Path != "/post" || got.Method != "POST" {
		t.Fatalf("unexpected request: %+v", got)
	}
	if got.Params["a"] != "1" || got.Headers["X-Test"] != "yes" {
		t.Fatalf("unexpected params/headers: %+v", got)
	}
	if body, ok := got.Body.(map[string]any); !ok || body["k"] != "v" {
		t.Fatalf("unexpected body: %#v", got.Body)
	}
}

func TestRouteRejectsInvalidArguments(t *testing.T) {
	d := &recordingDispatcher{}
	r := newTestRouter(t, d)

	cases := []struct {
		tool string
		args map[string]any
	}{
		{MakeAPIRequestName, map[string]any{"endpoint": "httpbin"}},
		{MakeAPIRequestName, map[string]any{"endpoint": "nosuch", "path": "/"}},
		{MakeAPIRequestName, map[string]any{"endpoint": "httpbin", "path": "/", "method": "PATCH"}},
		{WeatherForecastName, map[string]any{"location": "Paris", "days": 11}},
		{WeatherForecastName, map[string]any{"location": "Paris", "days": 2.5}},
		{CurrentWeatherName, map[string]any{}},
		{ListEndpointsName, map[string]any{"extra": true}},
		{SetAPIKeyName, map[string]any{"endpoint": "openweather"}},
	}
	for _, tc := range cases {
		resp := r.Route(context.Background(), tc.tool, tc.args)
		if resp.Success {
			t.Fatalf("%s %v: expected failure", tc.tool, tc.args)
		}
		if !strings.HasPrefix(resp.Error, "Invalid arguments for "+tc.tool) {
			t.Fatalf("%s: unexpected error %q", tc.tool, resp.Error)
		}
	}
	if len(d.requests) != 0 {
		t.Fatalf("invalid calls must not dispatch, got %d", len(d.requests))
	}
}

func TestRouteWeatherTools(t *testing.T) {
	d := &recordingDispatcher{resp: apiclient.Response{Success: true, Data: json.RawMessage(`{}`)}}
	r := newTestRouter(t, d)

	r.Route(context.Background(), WeatherForecastName, map[string]any{"location": "Paris", "days": float64(3)})
	if got := d.requests[0]; got.Endpoint != "openweather" || got.Params["cnt"] != 24 {
		t.Fatalf("unexpected forecast request: %+v", got)
	}

	r.Route(context.Background(), WeatherForecastName, map[string]any{"location": "Paris", "provider": "weatherapi"})
	if got := d.requests[1]; got.Endpoint != "weatherapi" || got.Params["days"] != 5 {
		t.Fatalf("unexpected default forecast request: %+v", got)
	}

	resp := r.Route(context.Background(), CurrentWeatherName, map[string]any{"location": "Paris", "provider": "unknownprovider"})
	if resp.Success {
		t.Fatalf("expected schema rejection of unknown provider")
	}
	if len(d.requests) != 2 {
		t.Fatalf("unknown provider must not dispatch")
	}
}

func TestRouteListEndpoints(t *testing.T) {
	r := newTestRouter(t, &recordingDispatcher{})
	resp := r.Route(context.Background(), ListEndpointsName, nil)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		Data map[string]struct {
			Name         string `json:"name"`
			BaseURL      string `json:"baseUrl"`
			RequiresAuth bool   `json:"requiresAuth"`
			AuthHeader   string `json:"authHeader"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Data) != 4 {
		t.Fatalf("expected 4 endpoints, got %d", len(decoded.Data))
	}
	ow := decoded.Data["openweather"]
	if ow.Name != "OpenWeatherMap" || !ow.RequiresAuth || ow.AuthHeader != "appid" {
		t.Fatalf("unexpected openweather entry: %+v", ow)
	}
}

func TestRouteSetAPIKeyThenRequest(t *testing.T) {
	var gotAppID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAppID = r.URL.Query().Get("appid")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	reg := endpoints.NewRegistry(endpoints.Endpoint{
		Key:          endpoints.OpenWeather,
		BaseURL:      srv.URL,
		RequiresAuth: true,
		AuthType:     endpoints.AuthAPIKey,
		AuthHeader:   "appid",
	})
	d := apiclient.New(reg)
	r, err := NewRouter(d, weather.NewService(d), reg)
	if err != nil {
		t.Fatalf("NewRouter error: %v", err)
	}

	resp := r.Route(context.Background(), MakeAPIRequestName, map[string]any{"endpoint": "openweather", "path": "/weather"})
	if resp.Success || !strings.Contains(resp.Error, "openweather") {
		t.Fatalf("expected missing credential failure, got %+v", resp)
	}

	resp = r.Route(context.Background(), SetAPIKeyName, map[string]any{"endpoint": "openweather", "apiKey": "X"})
	if !resp.Success || resp.Message != "API key set for endpoint: openweather" {
		t.Fatalf("unexpected set_api_key envelope: %+v", resp)
	}

	resp = r.Route(context.Background(), MakeAPIRequestName, map[string]any{"endpoint": "openweather", "path": "/weather"})
	if !resp.Success {
		t.Fatalf("expected success after setting key, got %+v", resp)
	}
	if gotAppID != "X" {
		t.Fatalf("expected appid=X, got %q", gotAppID)
	}
}

func TestRouteRecoversFromPanics(t *testing.T) {
	r := newTestRouter(t, &recordingDispatcher{})
	def := Definition{Name: "boom", Description: "panics", Parameters: map[string]any{"type": "object"}}
	if err := r.register(def, func(context.Context, map[string]any) apiclient.Response {
		panic("handler exploded")
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp := r.Route(context.Background(), "boom", nil)
	if resp.Success || resp.Error != "handler exploded" {
		t.Fatalf("expected contained panic, got %+v", resp)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRouter(t, &recordingDispatcher{})
	if err := r.register(ListEndpointsDefinition(), r.listEndpoints); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRedactArgs(t *testing.T) {
	args := map[string]any{"endpoint": "x", "apiKey": "secret", "headers": map[string]any{"Authorization": "Bearer t"}}
	out := redactArgs(args)
	if out["apiKey"] != "***" {
		t.Fatalf("apiKey not redacted: %v", out)
	}
	if out["headers"].(map[string]any)["Authorization"] != "***" {
		t.Fatalf("headers not redacted: %v", out)
	}
	if args["apiKey"] != "secret" {
		t.Fatalf("input mutated")
	}
}

func TestValidateArguments(t *testing.T) {
	if err := ValidateArguments(CurrentWeatherDefinition(), map[string]any{"location": "Austin, TX"}); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	if err := ValidateArguments(CurrentWeatherDefinition(), map[string]any{"foo": "bar"}); err == nil {
		t.Fatalf("expected missing location to fail")
	}
}
