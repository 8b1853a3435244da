// internal/endpoints/registry.go

// Package endpoints holds the fixed set of third-party HTTP APIs the server can
// reach. The set is configuration data: it is defined once at startup and is
// never mutated at runtime.
package endpoints

import (
	"maps"
	"sort"
)

// AuthType identifies how a credential is attached to an outbound request.
type AuthType string

const (
	// AuthAPIKey places the credential in the query string under Endpoint.AuthHeader.
	AuthAPIKey AuthType = "apiKey"
	// AuthBearer sends "Authorization: Bearer <secret>".
	AuthBearer AuthType = "bearer"
	// AuthBasic sends "Authorization: Basic <secret>". The secret is used verbatim.
	AuthBasic AuthType = "basic"
)

const (
	// OpenWeather is the OpenWeatherMap endpoint key.
	OpenWeather = "openweather"
	// WeatherAPI is the WeatherAPI.com endpoint key.
	WeatherAPI = "weatherapi"
	// HTTPBin is the httpbin.org endpoint key.
	HTTPBin = "httpbin"
	// JSONPlaceholder is the jsonplaceholder.typicode.com endpoint key.
	JSONPlaceholder = "jsonplaceholder"
)

// Endpoint is the public configuration of a single API target.
type Endpoint struct {
	Key           string         `json:"-"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	BaseURL       string         `json:"baseUrl"`
	RequiresAuth  bool           `json:"requiresAuth"`
	AuthType      AuthType       `json:"authType,omitempty"`
	AuthHeader    string         `json:"authHeader,omitempty"`
	DefaultParams map[string]any `json:"defaultParams,omitempty"`
}

// clone returns a copy whose DefaultParams map is not shared with the registry.
func (e Endpoint) clone() Endpoint {
	if e.DefaultParams != nil {
		e.DefaultParams = maps.Clone(e.DefaultParams)
	}
	return e
}

// Registry is a read-only lookup table of endpoints keyed by Endpoint.Key.
type Registry struct {
	endpoints map[string]Endpoint
}

// NewRegistry builds a registry from the given endpoints. Later entries with a
// duplicate key replace earlier ones.
func NewRegistry(eps ...Endpoint) *Registry {
	r := &Registry{endpoints: make(map[string]Endpoint, len(eps))}
	for _, ep := range eps {
		r.endpoints[ep.Key] = ep.clone()
	}
	return r
}

// Default returns the registry of endpoints the server ships with.
func Default() *Registry {
	return NewRegistry(
		Endpoint{
			Key:          OpenWeather,
			Name:         "OpenWeatherMap",
			Description:  "Weather data from OpenWeatherMap API",
			BaseURL:      "https://api.openweathermap.org/data/2.5",
			RequiresAuth: true,
			AuthType:     AuthAPIKey,
			AuthHeader:   "appid",
			DefaultParams: map[string]any{
				"units": "metric",
			},
		},
		Endpoint{
			Key:          WeatherAPI,
			Name:         "WeatherAPI",
			Description:  "Weather data from WeatherAPI.com",
			BaseURL:      "https://api.weatherapi.com/v1",
			RequiresAuth: true,
			AuthType:     AuthAPIKey,
			AuthHeader:   "key",
		},
		Endpoint{
			Key:         HTTPBin,
			Name:        "HTTPBin",
			Description: "Public HTTP testing service",
			BaseURL:     "https://httpbin.org",
		},
		Endpoint{
			Key:         JSONPlaceholder,
			Name:        "JSONPlaceholder",
			Description: "Fake REST API for testing",
			BaseURL:     "https://jsonplaceholder.typicode.com",
		},
	)
}

// Lookup returns the endpoint registered under key.
func (r *Registry) Lookup(key string) (Endpoint, bool) {
	ep, ok := r.endpoints[key]
	if !ok {
		return Endpoint{}, false
	}
	return ep.clone(), true
}

// All returns every registered endpoint keyed by its key.
func (r *Registry) All() map[string]Endpoint {
	out := make(map[string]Endpoint, len(r.endpoints))
	for k, ep := range r.endpoints {
		out[k] = ep.clone()
	}
	return out
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.endpoints))
	for k := range r.endpoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports how many endpoints are registered.
func (r *Registry) Len() int { return len(r.endpoints) }
