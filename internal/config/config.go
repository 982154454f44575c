package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type AppConfig struct {
	// Provider selects the weather backend: "openweather" or "openmeteo".
	Provider string
	// Geocoder selects the resolver: "auto" follows Provider, or "openweather",
	// "openmeteo", "google".
	Geocoder string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	GoogleGeocoderKey  string

	HTTPTimeout        time.Duration
	BuildTimeout       time.Duration
	ProviderRatePerSec float64

	DefaultLocation weather.Coordinates

	// RefreshInterval controls how often the watched views are rebuilt.
	RefreshInterval time.Duration
	// Watch lists every (location, range) view the scheduler keeps fresh.
	Watch []weather.Request

	// BoardMaxAge hides displayed views older than this (0 = never).
	BoardMaxAge time.Duration

	Port             string
	CORSAllowOrigins string

	MQTT MQTTConfig
}

type MQTTConfig struct {
	Enabled     bool
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
}

var (
	errUnknownProvider = errors.New("unknown weather provider")
	errUnknownGeocoder = errors.New("unknown geocoder")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("weather_provider", "openweather")
	v.SetDefault("geocoder", "auto")
	v.SetDefault("openweather_api_key", "")
	v.SetDefault("openweather_base_url", "")
	v.SetDefault("google_geocoder_api_key", "")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("build_timeout", "15s")
	v.SetDefault("provider_rate_per_sec", 1.0)
	v.SetDefault("default_location_name", weather.DefaultLocation.Name)
	v.SetDefault("default_location_country", weather.DefaultLocation.Country)
	v.SetDefault("default_location_lat", weather.DefaultLocation.Lat)
	v.SetDefault("default_location_lon", weather.DefaultLocation.Lon)
	v.SetDefault("refresh_interval", "15m")
	v.SetDefault("watch_locations", "")
	v.SetDefault("watch_ranges", string(weather.Range7Days))
	v.SetDefault("board_max_age", "1h")
	v.SetDefault("port", "8080")
	v.SetDefault("cors_allow_origins", "*")
	v.SetDefault("mqtt_enabled", false)
	v.SetDefault("mqtt_broker", "tcp://localhost:1883")
	v.SetDefault("mqtt_client_id", "weather-dashboard")
	v.SetDefault("mqtt_username", "")
	v.SetDefault("mqtt_password", "")
	v.SetDefault("mqtt_topic_prefix", "weather")
}

// Load reads configuration from .env, the environment and an optional config
// file, with sensible defaults. Environment variables win over the file.
func Load(configPath string) (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		Provider:           strings.ToLower(strings.TrimSpace(v.GetString("weather_provider"))),
		Geocoder:           strings.ToLower(strings.TrimSpace(v.GetString("geocoder"))),
		OpenWeatherAPIKey:  v.GetString("openweather_api_key"),
		OpenWeatherBaseURL: v.GetString("openweather_base_url"),
		GoogleGeocoderKey:  v.GetString("google_geocoder_api_key"),
		ProviderRatePerSec: v.GetFloat64("provider_rate_per_sec"),
		Port:               v.GetString("port"),
		CORSAllowOrigins:   v.GetString("cors_allow_origins"),
		DefaultLocation: weather.Coordinates{
			Name:    v.GetString("default_location_name"),
			Country: v.GetString("default_location_country"),
			Lat:     v.GetFloat64("default_location_lat"),
			Lon:     v.GetFloat64("default_location_lon"),
		},
		MQTT: MQTTConfig{
			Enabled:     v.GetBool("mqtt_enabled"),
			Broker:      v.GetString("mqtt_broker"),
			ClientID:    v.GetString("mqtt_client_id"),
			Username:    v.GetString("mqtt_username"),
			Password:    v.GetString("mqtt_password"),
			TopicPrefix: v.GetString("mqtt_topic_prefix"),
		},
	}

	switch cfg.Provider {
	case "openweather", "openmeteo":
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownProvider, cfg.Provider)
	}
	switch cfg.Geocoder {
	case "auto", "openweather", "openmeteo", "google":
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownGeocoder, cfg.Geocoder)
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "http_timeout"); err != nil {
		return nil, err
	}
	if cfg.BuildTimeout, err = duration(v, "build_timeout"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = duration(v, "refresh_interval"); err != nil {
		return nil, err
	}
	if cfg.BoardMaxAge, err = duration(v, "board_max_age"); err != nil {
		return nil, err
	}

	cfg.Watch, err = watchList(v.GetString("watch_locations"), v.GetString("watch_ranges"))
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", strings.ToUpper(key), err)
	}
	return d, nil
}

// watchList crosses ";"-separated locations with ","-separated range codes.
func watchList(locations, ranges string) ([]weather.Request, error) {
	var codes []weather.RangeCode
	for _, r := range strings.Split(ranges, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		rc := weather.RangeCode(r)
		if rc.Normalize() != rc {
			return nil, fmt.Errorf("invalid WATCH_RANGES entry %q", r)
		}
		codes = append(codes, rc)
	}

	var reqs []weather.Request
	for _, loc := range strings.Split(locations, ";") {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		for _, rc := range codes {
			reqs = append(reqs, weather.Request{Location: loc, Range: rc})
		}
	}
	return reqs, nil
}
