package main

import (
	"fmt"
	"testing"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

func TestNewGeocoderSelection(t *testing.T) {
	httpCfg := providers.NewHTTPClientConfig(nil, 0)
	tests := []struct {
		provider string
		geocoder string
		want     string
	}{
		{"openweather", "auto", "*providers.OpenWeatherGeocoder"},
		{"openmeteo", "auto", "*providers.OpenMeteoGeocoder"},
		{"openweather", "openmeteo", "*providers.OpenMeteoGeocoder"},
		{"openmeteo", "google", "*providers.GoogleGeocoder"},
	}
	for _, tt := range tests {
		cfg := &config.AppConfig{Provider: tt.provider, Geocoder: tt.geocoder}
		if got := typeName(newGeocoder(cfg, httpCfg)); got != tt.want {
			t.Errorf("newGeocoder(%s, %s) = %s, want %s", tt.provider, tt.geocoder, got, tt.want)
		}
	}
}

func TestNewProviderSelection(t *testing.T) {
	httpCfg := providers.NewHTTPClientConfig(nil, 0)
	if got := newProvider(&config.AppConfig{Provider: "openmeteo"}, httpCfg).Name(); got != "openmeteo" {
		t.Fatalf("expected openmeteo, got %s", got)
	}
	if got := newProvider(&config.AppConfig{Provider: "openweather"}, httpCfg).Name(); got != "openweathermap" {
		t.Fatalf("expected openweathermap, got %s", got)
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
