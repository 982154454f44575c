package main

import (
	"net/http"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func newProvider(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) weather.Provider {
	if cfg.Provider == "openmeteo" {
		return providers.NewOpenMeteoProvider(httpCfg, "", "")
	}
	return providers.NewOpenWeatherProvider(httpCfg, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
}

func newGeocoder(cfg *config.AppConfig, httpCfg providers.HTTPClientConfig) weather.Geocoder {
	kind := cfg.Geocoder
	if kind == "auto" {
		kind = cfg.Provider
	}
	switch kind {
	case "google":
		return providers.NewGoogleGeocoder(cfg.GoogleGeocoderKey)
	case "openmeteo":
		return providers.NewOpenMeteoGeocoder(httpCfg, "")
	default:
		return providers.NewOpenWeatherGeocoder(httpCfg, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)
	}
}

// newBuilder wires the configured provider and geocoder behind one shared,
// rate-limited HTTP client.
func newBuilder(cfg *config.AppConfig) *weather.Builder {
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	httpCfg := providers.NewHTTPClientConfig(httpClient, cfg.ProviderRatePerSec)

	return weather.NewBuilder(
		weather.BuilderConfig{
			DefaultLocation: cfg.DefaultLocation,
			Timeout:         cfg.BuildTimeout,
		},
		newGeocoder(cfg, httpCfg),
		newProvider(cfg, httpCfg),
	)
}
