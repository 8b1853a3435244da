package tools

import (
	"github.com/tao-philip/server-mcp/internal/weather"
)

var httpMethods = []string{"GET", "POST", "PUT", "DELETE"}

// MakeAPIRequestDefinition describes the raw request tool. endpointKeys feeds
// the endpoint enum.
func MakeAPIRequestDefinition(endpointKeys []string) Definition {
	return Definition{
		Name:        MakeAPIRequestName,
		Description: "Make a request to any configured API endpoint",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"endpoint": map[string]any{
					"type":        "string",
					"description": "The API endpoint key (e.g., openweather, weatherapi, httpbin)",
					"enum":        endpointKeys,
				},
				"path": map[string]any{
					"type":        "string",
					"description": "The API path (e.g., /weather, /current.json)",
				},
				"method": map[string]any{
					"type":        "string",
					"description": "HTTP method",
					"enum":        httpMethods,
					"default":     "GET",
				},
				"params": map[string]any{
					"type":                 "object",
					"description":          "Query parameters",
					"additionalProperties": true,
				},
				"headers": map[string]any{
					"type":                 "object",
					"description":          "Additional headers",
					"additionalProperties": map[string]any{"type": "string"},
				},
				"body": map[string]any{
					"type":                 "object",
					"description":          "Request body for POST/PUT requests",
					"additionalProperties": true,
				},
			},
			"required": []string{"endpoint", "path"},
		},
	}
}

// CurrentWeatherDefinition describes the current weather tool.
func CurrentWeatherDefinition() Definition {
	return Definition{
		Name:        CurrentWeatherName,
		Description: "Get current weather for a location",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City name, coordinates, or location query",
				},
				"provider": providerProperty(),
			},
			"required": []string{"location"},
		},
	}
}

// WeatherForecastDefinition describes the forecast tool.
func WeatherForecastDefinition() Definition {
	return Definition{
		Name:        WeatherForecastName,
		Description: "Get weather forecast for a location",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location": map[string]any{
					"type":        "string",
					"description": "City name, coordinates, or location query",
				},
				"days": map[string]any{
					"type":        "integer",
					"description": "Number of forecast days",
					"minimum":     1,
					"maximum":     weather.MaxForecastDays,
					"default":     weather.DefaultForecastDays,
				},
				"provider": providerProperty(),
			},
			"required": []string{"location"},
		},
	}
}

// ListEndpointsDefinition describes the endpoint listing tool.
func ListEndpointsDefinition() Definition {
	return Definition{
		Name:        ListEndpointsName,
		Description: "List all available API endpoints and their configurations",
		Parameters: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		},
	}
}

// SetAPIKeyDefinition describes the credential tool.
func SetAPIKeyDefinition(endpointKeys []string) Definition {
	return Definition{
		Name:        SetAPIKeyName,
		Description: "Set API key for an endpoint that requires authentication",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"endpoint": map[string]any{
					"type":        "string",
					"description": "The API endpoint key",
					"enum":        endpointKeys,
				},
				"apiKey": map[string]any{
					"type":        "string",
					"description": "The API key",
				},
			},
			"required": []string{"endpoint", "apiKey"},
		},
	}
}

func providerProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Weather data provider",
		"enum":        weather.Providers(),
		"default":     string(weather.DefaultProvider),
	}
}
