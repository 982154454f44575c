package providers

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	openMeteoForecastURL = "https://api.open-meteo.com"
	openMeteoAirURL      = "https://air-quality-api.open-meteo.com"
	// OpenWeather's 5-day forecast holds 40 three-hour steps; match it.
	openMeteoMaxEntries = 40
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// It needs no API key.
type OpenMeteoProvider struct {
	name        string
	forecastURL string
	airURL      string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the provider. Empty URLs select the public APIs.
func NewOpenMeteoProvider(httpCfg HTTPClientConfig, forecastURL, airURL string) *OpenMeteoProvider {
	if forecastURL == "" {
		forecastURL = openMeteoForecastURL
	}
	if airURL == "" {
		airURL = openMeteoAirURL
	}
	return &OpenMeteoProvider{
		name:        "openmeteo",
		forecastURL: strings.TrimRight(forecastURL, "/"),
		airURL:      strings.TrimRight(airURL, "/"),
		httpCfg:     httpCfg,
		circuit:     newCircuitBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, c weather.Coordinates) (weather.CurrentReading, error) {
	values := coordValues(c)
	values.Set("current", "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m,uv_index,visibility,is_day")
	values.Set("daily", "sunrise,sunset")
	values.Set("forecast_days", "1")

	var payload struct {
		Current struct {
			Time          int64    `json:"time"`
			Temperature   float64  `json:"temperature_2m"`
			Humidity      float64  `json:"relative_humidity_2m"`
			Apparent      float64  `json:"apparent_temperature"`
			WeatherCode   *int     `json:"weather_code"`
			CloudCover    float64  `json:"cloud_cover"`
			PressureMSL   float64  `json:"pressure_msl"`
			WindSpeed     float64  `json:"wind_speed_10m"`
			WindDirection float64  `json:"wind_direction_10m"`
			UVIndex       *float64 `json:"uv_index"`
			Visibility    float64  `json:"visibility"`
			IsDay         int      `json:"is_day"`
		} `json:"current"`
		Daily struct {
			Sunrise []int64 `json:"sunrise"`
			Sunset  []int64 `json:"sunset"`
		} `json:"daily"`
	}

	if err := p.get(ctx, p.forecastURL+"/v1/forecast", values, &payload); err != nil {
		return weather.CurrentReading{}, err
	}
	if payload.Current.Time == 0 || payload.Current.WeatherCode == nil {
		return weather.CurrentReading{}, fmt.Errorf("%w: open-meteo current data missing", weather.ErrMalformedPayload)
	}

	cond := mapOpenMeteoCondition(*payload.Current.WeatherCode, payload.Current.IsDay == 1)
	r := weather.CurrentReading{
		Timestamp:    time.Unix(payload.Current.Time, 0).UTC(),
		TemperatureC: payload.Current.Temperature,
		FeelsLikeC:   payload.Current.Apparent,
		HumidityPct:  payload.Current.Humidity,
		WindSpeedMS:  payload.Current.WindSpeed,
		WindDeg:      payload.Current.WindDirection,
		PressureHpa:  payload.Current.PressureMSL,
		VisibilityM:  payload.Current.Visibility,
		CloudsPct:    payload.Current.CloudCover,
		UVIndex:      payload.Current.UVIndex,
		Condition:    cond.main,
		Description:  cond.description,
		Icon:         cond.icon,
	}
	if len(payload.Daily.Sunrise) > 0 && len(payload.Daily.Sunset) > 0 {
		r.Sunrise = time.Unix(payload.Daily.Sunrise[0], 0).UTC()
		r.Sunset = time.Unix(payload.Daily.Sunset[0], 0).UTC()
	}
	return r, nil
}

// Forecast downsamples the hourly forecast into 3-hour steps starting at the
// current hour. Rain is summed over each step; the rest is taken at its start.
func (p *OpenMeteoProvider) Forecast(ctx context.Context, c weather.Coordinates) (weather.ForecastSeries, error) {
	values := coordValues(c)
	values.Set("current", "weather_code")
	values.Set("hourly", "temperature_2m,apparent_temperature,relative_humidity_2m,wind_speed_10m,wind_gusts_10m,rain,precipitation_probability,weather_code,is_day")
	values.Set("forecast_days", "6")

	var payload struct {
		UTCOffset int `json:"utc_offset_seconds"`
		Current   struct {
			Time int64 `json:"time"`
		} `json:"current"`
		Hourly struct {
			Time        []int64   `json:"time"`
			Temperature []float64 `json:"temperature_2m"`
			Apparent    []float64 `json:"apparent_temperature"`
			Humidity    []float64 `json:"relative_humidity_2m"`
			WindSpeed   []float64 `json:"wind_speed_10m"`
			WindGusts   []float64 `json:"wind_gusts_10m"`
			Rain        []float64 `json:"rain"`
			PrecipProb  []float64 `json:"precipitation_probability"`
			WeatherCode []int     `json:"weather_code"`
			IsDay       []int     `json:"is_day"`
		} `json:"hourly"`
	}

	if err := p.get(ctx, p.forecastURL+"/v1/forecast", values, &payload); err != nil {
		return weather.ForecastSeries{}, err
	}

	h := payload.Hourly
	n := len(h.Time)
	for _, l := range []int{len(h.Temperature), len(h.Apparent), len(h.Humidity), len(h.WindSpeed), len(h.WindGusts), len(h.Rain), len(h.PrecipProb), len(h.WeatherCode), len(h.IsDay)} {
		if l != n {
			return weather.ForecastSeries{}, fmt.Errorf("%w: open-meteo hourly series lengths differ", weather.ErrMalformedPayload)
		}
	}

	start := 0
	if payload.Current.Time > 0 {
		hour := payload.Current.Time - payload.Current.Time%3600
		for start < n && h.Time[start] < hour {
			start++
		}
	}

	series := weather.ForecastSeries{UTCOffset: payload.UTCOffset}
	for i := start; i < n && len(series.Entries) < openMeteoMaxEntries; i += 3 {
		end := min(i+3, n)
		e := weather.ForecastEntry{
			Timestamp:    time.Unix(h.Time[i], 0).UTC(),
			TemperatureC: h.Temperature[i],
			FeelsLikeC:   h.Apparent[i],
			TempMinC:     math.Inf(1),
			TempMaxC:     math.Inf(-1),
			HumidityPct:  h.Humidity[i],
			WindSpeedMS:  h.WindSpeed[i],
		}
		for j := i; j < end; j++ {
			e.TempMinC = math.Min(e.TempMinC, h.Temperature[j])
			e.TempMaxC = math.Max(e.TempMaxC, h.Temperature[j])
			e.WindGustMS = math.Max(e.WindGustMS, h.WindGusts[j])
			e.RainMM += h.Rain[j]
			e.Pop = math.Max(e.Pop, h.PrecipProb[j]/100)
		}
		cond := mapOpenMeteoCondition(h.WeatherCode[i], h.IsDay[i] == 1)
		e.Condition, e.Description, e.Icon = cond.main, cond.description, cond.icon
		series.Entries = append(series.Entries, e)
	}

	if len(series.Entries) == 0 {
		return weather.ForecastSeries{}, fmt.Errorf("%w: open-meteo forecast is empty", weather.ErrMalformedPayload)
	}
	return series, nil
}

func (p *OpenMeteoProvider) AirQuality(ctx context.Context, c weather.Coordinates) (weather.AirQualityReading, error) {
	values := coordValues(c)
	values.Set("current", "european_aqi")

	var payload struct {
		Current struct {
			Time        int64    `json:"time"`
			EuropeanAQI *float64 `json:"european_aqi"`
		} `json:"current"`
	}

	if err := p.get(ctx, p.airURL+"/v1/air-quality", values, &payload); err != nil {
		return weather.AirQualityReading{}, err
	}
	if payload.Current.EuropeanAQI == nil {
		return weather.AirQualityReading{}, fmt.Errorf("%w: open-meteo european_aqi missing", weather.ErrMalformedPayload)
	}

	return weather.AirQualityReading{
		Timestamp: time.Unix(payload.Current.Time, 0).UTC(),
		Index:     europeanAQICategory(*payload.Current.EuropeanAQI),
	}, nil
}

func (p *OpenMeteoProvider) get(ctx context.Context, endpoint string, values url.Values, out any) error {
	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, endpoint+"?"+values.Encode(), nil)
	}

	if err := getJSON(ctx, p.httpCfg, p.circuit, buildRequest, out); err != nil {
		return fmt.Errorf("open-meteo %s: %w", endpoint, err)
	}
	return nil
}

func coordValues(c weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("latitude", formatCoord(c.Lat))
	values.Set("longitude", formatCoord(c.Lon))
	values.Set("wind_speed_unit", "ms")
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "auto")
	return values
}

// europeanAQICategory buckets the European AQI into the 1..5 scale.
func europeanAQICategory(aqi float64) int {
	switch {
	case aqi <= 20:
		return 1
	case aqi <= 40:
		return 2
	case aqi <= 60:
		return 3
	case aqi <= 80:
		return 4
	default:
		return 5
	}
}

type condition struct {
	main        string
	description string
	icon        string
}

// mapOpenMeteoCondition translates WMO weather codes into OpenWeather-style
// labels and icon codes.
func mapOpenMeteoCondition(code int, day bool) condition {
	var c condition
	switch {
	case code == 0:
		c = condition{"Clear", "clear sky", "01"}
	case code == 1:
		c = condition{"Clouds", "mainly clear", "02"}
	case code == 2:
		c = condition{"Clouds", "partly cloudy", "03"}
	case code == 3:
		c = condition{"Clouds", "overcast", "04"}
	case code == 45 || code == 48:
		c = condition{"Fog", "fog", "50"}
	case code >= 51 && code <= 57:
		c = condition{"Drizzle", "drizzle", "09"}
	case code >= 61 && code <= 65:
		c = condition{"Rain", "rain", "10"}
	case code == 66 || code == 67:
		c = condition{"Rain", "freezing rain", "13"}
	case code >= 71 && code <= 77:
		c = condition{"Snow", "snow", "13"}
	case code >= 80 && code <= 82:
		c = condition{"Rain", "rain showers", "09"}
	case code == 85 || code == 86:
		c = condition{"Snow", "snow showers", "13"}
	case code >= 95:
		c = condition{"Thunderstorm", "thunderstorm", "11"}
	default:
		return condition{"Unknown", "unknown", ""}
	}
	if day {
		c.icon += "d"
	} else {
		c.icon += "n"
	}
	return c
}
