package weather

import (
	"encoding/json"
	"errors"
	"fmt"
)

// openWeatherCurrent holds the fields read from OpenWeatherMap /weather.
type openWeatherCurrent struct {
	Name *string `json:"name"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// weatherAPICurrent holds the fields read from WeatherAPI.com /current.json.
type weatherAPICurrent struct {
	Location *struct {
		Name string `json:"name"`
	} `json:"location"`
	Current *struct {
		TempC     float64 `json:"temp_c"`
		Humidity  float64 `json:"humidity"`
		WindKph   float64 `json:"wind_kph"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

func transform(p Provider, data any) (Record, error) {
	raw, err := rawJSON(data)
	if err != nil {
		return Record{}, err
	}
	switch p {
	case OpenWeather:
		return fromOpenWeather(raw)
	case WeatherAPI:
		return fromWeatherAPI(raw)
	default:
		return Record{}, &UnsupportedProviderError{Name: string(p)}
	}
}

func fromOpenWeather(raw []byte) (Record, error) {
	var payload openWeatherCurrent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Record{}, fmt.Errorf("decode: %w", err)
	}
	switch {
	case payload.Name == nil:
		return Record{}, errors.New("missing name")
	case payload.Main == nil:
		return Record{}, errors.New("missing main")
	case len(payload.Weather) == 0:
		return Record{}, errors.New("missing weather[0]")
	case payload.Wind == nil:
		return Record{}, errors.New("missing wind")
	}
	return Record{
		Location:    *payload.Name,
		Temperature: payload.Main.Temp,
		Description: payload.Weather[0].Description,
		Humidity:    payload.Main.Humidity,
		WindSpeed:   payload.Wind.Speed,
		Timestamp:   timestamp(),
	}, nil
}

func fromWeatherAPI(raw []byte) (Record, error) {
	var payload weatherAPICurrent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Record{}, fmt.Errorf("decode: %w", err)
	}
	switch {
	case payload.Location == nil:
		return Record{}, errors.New("missing location")
	case payload.Current == nil:
		return Record{}, errors.New("missing current")
	}
	return Record{
		Location:    payload.Location.Name,
		Temperature: payload.Current.TempC,
		Description: payload.Current.Condition.Text,
		Humidity:    payload.Current.Humidity,
		WindSpeed:   payload.Current.WindKph,
		Timestamp:   timestamp(),
	}, nil
}

// rawJSON turns dispatcher data back into bytes for typed decoding.
func rawJSON(data any) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return nil, errors.New("empty response body")
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	case string:
		if !json.Valid([]byte(v)) {
			return nil, errors.New("response is not JSON")
		}
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}
