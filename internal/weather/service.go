// internal/weather/service.go
package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/tao-philip/server-mcp/internal/apiclient"
	"github.com/tao-philip/server-mcp/internal/logging"
)

const (
	// DefaultForecastDays is used when the caller passes 0 days.
	DefaultForecastDays = 5
	// MaxForecastDays is the largest accepted forecast window.
	MaxForecastDays = 10
	// openWeatherSlotsPerDay: OpenWeatherMap returns one entry per 3 hours.
	openWeatherSlotsPerDay = 8
)

// Dispatcher executes an outbound request. *apiclient.Dispatcher satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, req apiclient.Request) apiclient.Response
}

// Service builds provider-specific requests and normalizes their results.
type Service struct {
	dispatcher Dispatcher
}

// NewService returns a Service that sends requests through d.
func NewService(d Dispatcher) *Service {
	return &Service{dispatcher: d}
}

// currentRequest returns the /current request for p.
func currentRequest(p Provider, location string) apiclient.Request {
	switch p {
	case WeatherAPI:
		return apiclient.Request{
			Endpoint: string(WeatherAPI),
			Path:     "/current.json",
			Params:   map[string]any{"q": location},
		}
	default:
		return apiclient.Request{
			Endpoint: string(OpenWeather),
			Path:     "/weather",
			Params:   map[string]any{"q": location},
		}
	}
}

// forecastRequest returns the forecast request for p covering days days.
func forecastRequest(p Provider, location string, days int) apiclient.Request {
	switch p {
	case WeatherAPI:
		return apiclient.Request{
			Endpoint: string(WeatherAPI),
			Path:     "/forecast.json",
			Params:   map[string]any{"q": location, "days": days},
		}
	default:
		return apiclient.Request{
			Endpoint: string(OpenWeather),
			Path:     "/forecast",
			Params:   map[string]any{"q": location, "cnt": days * openWeatherSlotsPerDay},
		}
	}
}

// CurrentWeather fetches current conditions and reshapes them into a Record.
// Dispatcher failures are returned unchanged.
func (s *Service) CurrentWeather(ctx context.Context, location, provider string) apiclient.Response {
	p, err := ParseProvider(provider)
	if err != nil {
		return apiclient.Fail("%s", err.Error())
	}

	resp := s.dispatcher.Dispatch(ctx, currentRequest(p, location))
	if !resp.Success {
		return resp
	}

	record, err := transform(p, resp.Data)
	if err != nil {
		var unsupported *UnsupportedProviderError
		if errors.As(err, &unsupported) {
			return apiclient.Fail("%s", err.Error())
		}
		logging.LogEvent("weather payload rejected: provider=%s err=%v", p, err)
		return apiclient.Response{
			Success:    false,
			Error:      fmt.Sprintf("Failed to parse %s weather payload: %v", p, err),
			StatusCode: resp.StatusCode,
		}
	}
	return apiclient.OK(record)
}

// Forecast fetches a days-long forecast and returns the provider payload as-is.
// days == 0 selects DefaultForecastDays.
func (s *Service) Forecast(ctx context.Context, location string, days int, provider string) apiclient.Response {
	p, err := ParseProvider(provider)
	if err != nil {
		return apiclient.Fail("%s", err.Error())
	}
	if days == 0 {
		days = DefaultForecastDays
	}
	if days < 1 || days > MaxForecastDays {
		return apiclient.Fail("days must be between 1 and %d", MaxForecastDays)
	}

	resp := s.dispatcher.Dispatch(ctx, forecastRequest(p, location, days))
	if !resp.Success {
		return resp
	}
	return apiclient.OK(resp.Data)
}
