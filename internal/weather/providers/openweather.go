package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

const openWeatherBaseURL = "https://api.openweathermap.org"

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenWeatherProvider creates a provider for the 2.5 weather, forecast and
// air_pollution endpoints. An empty baseURL selects the public API.
func NewOpenWeatherProvider(httpCfg HTTPClientConfig, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, c weather.Coordinates) (weather.CurrentReading, error) {
	var payload struct {
		Dt      int64         `json:"dt"`
		Weather []owCondition `json:"weather"`
		Main    struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Pressure  float64 `json:"pressure"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Visibility float64 `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Sys struct {
			Sunrise int64 `json:"sunrise"`
			Sunset  int64 `json:"sunset"`
		} `json:"sys"`
	}

	if err := p.get(ctx, "/data/2.5/weather", c, true, &payload); err != nil {
		return weather.CurrentReading{}, err
	}
	if len(payload.Weather) == 0 {
		return weather.CurrentReading{}, fmt.Errorf("%w: openweather current has no conditions", weather.ErrMalformedPayload)
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	r := weather.CurrentReading{
		Timestamp:    ts,
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		WindDeg:      payload.Wind.Deg,
		PressureHpa:  payload.Main.Pressure,
		VisibilityM:  payload.Visibility,
		CloudsPct:    payload.Clouds.All,
		Condition:    payload.Weather[0].Main,
		Description:  payload.Weather[0].Description,
		Icon:         payload.Weather[0].Icon,
	}
	if payload.Sys.Sunrise > 0 && payload.Sys.Sunset > 0 {
		r.Sunrise = time.Unix(payload.Sys.Sunrise, 0).UTC()
		r.Sunset = time.Unix(payload.Sys.Sunset, 0).UTC()
	}
	return r, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, c weather.Coordinates) (weather.ForecastSeries, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				TempMin   float64 `json:"temp_min"`
				TempMax   float64 `json:"temp_max"`
				Humidity  float64 `json:"humidity"`
			} `json:"main"`
			Weather []owCondition `json:"weather"`
			Wind    struct {
				Speed float64 `json:"speed"`
				Gust  float64 `json:"gust"`
			} `json:"wind"`
			Pop  float64 `json:"pop"`
			Rain struct {
				ThreeH float64 `json:"3h"`
			} `json:"rain"`
		} `json:"list"`
		City struct {
			Timezone int `json:"timezone"`
		} `json:"city"`
	}

	if err := p.get(ctx, "/data/2.5/forecast", c, true, &payload); err != nil {
		return weather.ForecastSeries{}, err
	}
	if len(payload.List) == 0 {
		return weather.ForecastSeries{}, fmt.Errorf("%w: openweather forecast is empty", weather.ErrMalformedPayload)
	}

	series := weather.ForecastSeries{
		UTCOffset: payload.City.Timezone,
		Entries:   make([]weather.ForecastEntry, 0, len(payload.List)),
	}
	for _, item := range payload.List {
		e := weather.ForecastEntry{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureC: item.Main.Temp,
			FeelsLikeC:   item.Main.FeelsLike,
			TempMinC:     item.Main.TempMin,
			TempMaxC:     item.Main.TempMax,
			HumidityPct:  item.Main.Humidity,
			WindSpeedMS:  item.Wind.Speed,
			WindGustMS:   item.Wind.Gust,
			RainMM:       item.Rain.ThreeH,
			Pop:          item.Pop,
		}
		if len(item.Weather) > 0 {
			e.Condition = item.Weather[0].Main
			e.Description = item.Weather[0].Description
			e.Icon = item.Weather[0].Icon
		}
		series.Entries = append(series.Entries, e)
	}
	return series, nil
}

func (p *OpenWeatherProvider) AirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQualityReading, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
		} `json:"list"`
	}

	if err := p.get(ctx, "/data/2.5/air_pollution", c, false, &payload); err != nil {
		return weather.AirQualityReading{}, err
	}
	if len(payload.List) == 0 {
		return weather.AirQualityReading{}, fmt.Errorf("%w: openweather air pollution is empty", weather.ErrMalformedPayload)
	}

	first := payload.List[0]
	return weather.AirQualityReading{
		Timestamp: time.Unix(first.Dt, 0).UTC(),
		Index:     first.Main.AQI,
	}, nil
}

// get issues one GET against path for the coordinates and decodes JSON into out.
func (p *OpenWeatherProvider) get(ctx context.Context, path string, c weather.Coordinates, metric bool, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather %w", errMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("lat", formatCoord(c.Lat))
		values.Set("lon", formatCoord(c.Lon))
		if metric {
			values.Set("units", "metric")
		}

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, buildRequest, out); err != nil {
		return fmt.Errorf("openweather %s: %w", path, err)
	}
	return nil
}
