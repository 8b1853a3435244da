// internal/weather/provider.go

// Package weather reshapes provider-specific weather APIs into one record
// format on top of the request dispatcher.
package weather

import (
	"fmt"
	"strings"
	"time"

	"github.com/tao-philip/server-mcp/internal/endpoints"
)

// Provider is a weather data source. Only the constants below are valid.
type Provider string

const (
	OpenWeather Provider = endpoints.OpenWeather
	WeatherAPI  Provider = endpoints.WeatherAPI
)

// DefaultProvider is used when the caller names none.
const DefaultProvider = OpenWeather

// Providers lists the supported providers in schema order.
func Providers() []string {
	return []string{string(OpenWeather), string(WeatherAPI)}
}

// UnsupportedProviderError is returned by ParseProvider for unknown names.
type UnsupportedProviderError struct {
	Name string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Unsupported weather provider: %s", e.Name)
}

// ParseProvider maps a caller-supplied name to a Provider. An empty name
// selects DefaultProvider.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.TrimSpace(name)); p {
	case "":
		return DefaultProvider, nil
	case OpenWeather, WeatherAPI:
		return p, nil
	default:
		return "", &UnsupportedProviderError{Name: name}
	}
}

// Record is the provider-independent view of current conditions. Units are
// whatever the provider reports; both default to metric.
type Record struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Timestamp   string  `json:"timestamp"`
}

// now is swapped in tests.
var now = time.Now

func timestamp() string {
	return now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
