package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != "openweather" || cfg.Geocoder != "auto" {
		t.Fatalf("unexpected provider/geocoder: %q %q", cfg.Provider, cfg.Geocoder)
	}
	if cfg.HTTPTimeout != 10*time.Second || cfg.RefreshInterval != 15*time.Minute || cfg.BoardMaxAge != time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.DefaultLocation != weather.DefaultLocation {
		t.Fatalf("unexpected default location: %+v", cfg.DefaultLocation)
	}
	if cfg.Port != "8080" || cfg.CORSAllowOrigins != "*" {
		t.Fatalf("unexpected http settings: %q %q", cfg.Port, cfg.CORSAllowOrigins)
	}
	if cfg.MQTT.Enabled {
		t.Fatal("mqtt should be disabled by default")
	}
	if len(cfg.Watch) != 0 {
		t.Fatalf("expected no watched views, got %v", cfg.Watch)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEATHER_PROVIDER", "OpenMeteo")
	t.Setenv("WATCH_LOCATIONS", "Lagos, NG; Accra, GH")
	t.Setenv("WATCH_RANGES", "24h, 30d")
	t.Setenv("REFRESH_INTERVAL", "5m")
	t.Setenv("DEFAULT_LOCATION_NAME", "Lagos")
	t.Setenv("DEFAULT_LOCATION_LAT", "6.455")
	t.Setenv("MQTT_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != "openmeteo" {
		t.Fatalf("expected openmeteo, got %q", cfg.Provider)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Fatalf("expected 5m, got %v", cfg.RefreshInterval)
	}
	if cfg.DefaultLocation.Name != "Lagos" || cfg.DefaultLocation.Lat != 6.455 {
		t.Fatalf("unexpected default location: %+v", cfg.DefaultLocation)
	}
	if !cfg.MQTT.Enabled {
		t.Fatal("expected mqtt enabled")
	}

	want := []weather.Request{
		{Location: "Lagos, NG", Range: weather.Range24Hours},
		{Location: "Lagos, NG", Range: weather.Range30Days},
		{Location: "Accra, GH", Range: weather.Range24Hours},
		{Location: "Accra, GH", Range: weather.Range30Days},
	}
	if len(cfg.Watch) != len(want) {
		t.Fatalf("expected %d watched views, got %v", len(want), cfg.Watch)
	}
	for i := range want {
		if cfg.Watch[i] != want[i] {
			t.Fatalf("watch[%d] = %+v, want %+v", i, cfg.Watch[i], want[i])
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	body := "port: \"9090\"\nboard_max_age: 30m\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.BoardMaxAge != 30*time.Minute {
		t.Fatalf("file values not applied: port=%q maxAge=%v", cfg.Port, cfg.BoardMaxAge)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want error
	}{
		{name: "provider", key: "WEATHER_PROVIDER", val: "weatherbit", want: errUnknownProvider},
		{name: "geocoder", key: "GEOCODER", val: "bing", want: errUnknownGeocoder},
		{name: "interval", key: "REFRESH_INTERVAL", val: "soon"},
		{name: "range", key: "WATCH_RANGES", val: "7d,2w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load("")
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
