package weather

import (
	"context"
	"time"
)

// CurrentReading is a provider's current-conditions payload in native metric units.
type CurrentReading struct {
	Timestamp time.Time

	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  float64
	WindSpeedMS  float64
	WindDeg      float64
	PressureHpa  float64
	VisibilityM  float64
	CloudsPct    float64

	// UVIndex is nil when the provider does not report one.
	UVIndex *float64

	Sunrise time.Time
	Sunset  time.Time

	Condition   string
	Description string
	Icon        string
}

// ForecastEntry is one 3-hour forecast step.
type ForecastEntry struct {
	Timestamp time.Time

	TemperatureC float64
	FeelsLikeC   float64
	TempMinC     float64
	TempMaxC     float64
	HumidityPct  float64
	WindSpeedMS  float64
	WindGustMS   float64
	RainMM       float64
	Pop          float64 // 0..1

	Condition   string
	Description string
	Icon        string
}

// ForecastSeries is the provider's 5-day/3-hour forecast, ordered by Timestamp ascending.
type ForecastSeries struct {
	// UTCOffset is the location's offset from UTC in seconds.
	UTCOffset int
	Entries   []ForecastEntry
}

// AirQualityReading carries the 1..5 air-quality category.
type AirQualityReading struct {
	Timestamp time.Time
	Index     int
}

// Provider abstracts a weather data source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	Current(ctx context.Context, c Coordinates) (CurrentReading, error)
	Forecast(ctx context.Context, c Coordinates) (ForecastSeries, error)
	AirQuality(ctx context.Context, c Coordinates) (AirQualityReading, error)
}

// Geocoder resolves free text to candidate coordinates, best match first.
// An empty slice with a nil error means no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]Coordinates, error)
}

// RandomSource feeds the synthesized series. Float64 returns a value in [0, 1).
type RandomSource interface {
	Float64() float64
}
