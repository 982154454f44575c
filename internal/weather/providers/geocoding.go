package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// OpenWeatherGeocoder resolves locations with OpenWeather's direct geocoding API.
type OpenWeatherGeocoder struct {
	client  *resty.Client
	apiKey  string
	httpCfg HTTPClientConfig
}

// NewOpenWeatherGeocoder creates the geocoder. An empty baseURL selects the public API.
func NewOpenWeatherGeocoder(httpCfg HTTPClientConfig, apiKey, baseURL string) *OpenWeatherGeocoder {
	if baseURL == "" {
		baseURL = openWeatherBaseURL
	}
	hc := httpCfg.Client
	if hc == nil {
		hc = http.DefaultClient
	}
	client := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")

	return &OpenWeatherGeocoder{
		client:  client,
		apiKey:  apiKey,
		httpCfg: httpCfg,
	}
}

func (g *OpenWeatherGeocoder) Geocode(ctx context.Context, query string) ([]weather.Coordinates, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("openweather geocoding %w", errMissingAPIKey)
	}
	if g.httpCfg.Limiter != nil {
		if err := g.httpCfg.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var places []struct {
		Name    string  `json:"name"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
		Country string  `json:"country"`
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": "1",
			"appid": g.apiKey,
		}).
		SetResult(&places).
		Get("/geo/1.0/direct")
	if err != nil {
		return nil, fmt.Errorf("openweather geocoding request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("openweather geocoding bad status: %s", resp.Status())
	}

	out := make([]weather.Coordinates, 0, len(places))
	for _, p := range places {
		out = append(out, weather.Coordinates{Lat: p.Lat, Lon: p.Lon, Name: p.Name, Country: p.Country})
	}
	return out, nil
}

// OpenMeteoGeocoder resolves locations with Open-Meteo's keyless search API.
type OpenMeteoGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

const openMeteoGeocodingURL = "https://geocoding-api.open-meteo.com"

func NewOpenMeteoGeocoder(httpCfg HTTPClientConfig, baseURL string) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = openMeteoGeocodingURL
	}
	return &OpenMeteoGeocoder{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openmeteo-geocoding"),
	}
}

// Geocode searches by the city part of query. When query also names a country,
// matching results are moved to the front.
func (g *OpenMeteoGeocoder) Geocode(ctx context.Context, query string) ([]weather.Coordinates, error) {
	city, country := common.SplitLocation(query)
	if city == "" {
		return nil, nil
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", city)
		values.Set("count", "10")
		values.Set("language", "en")
		values.Set("format", "json")
		return http.NewRequest(http.MethodGet, g.baseURL+"/v1/search?"+values.Encode(), nil)
	}

	var payload struct {
		Results []struct {
			Name        string  `json:"name"`
			Latitude    float64 `json:"latitude"`
			Longitude   float64 `json:"longitude"`
			Country     string  `json:"country"`
			CountryCode string  `json:"country_code"`
		} `json:"results"`
	}
	if err := getJSON(ctx, g.httpCfg, g.circuit, buildRequest, &payload); err != nil {
		return nil, fmt.Errorf("open-meteo geocoding: %w", err)
	}

	var matched, rest []weather.Coordinates
	for _, r := range payload.Results {
		c := weather.Coordinates{Lat: r.Latitude, Lon: r.Longitude, Name: r.Name, Country: r.CountryCode}
		if country != "" && common.EqualFoldAny(country, r.Country, r.CountryCode) {
			matched = append(matched, c)
			continue
		}
		rest = append(rest, c)
	}
	return append(matched, rest...), nil
}

// GoogleGeocoder resolves locations through the Google Geocoding API.
type GoogleGeocoder struct{}

// NewGoogleGeocoder sets the package-wide key used by the geocoder library.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) ([]weather.Coordinates, error) {
	city, country := common.SplitLocation(query)
	if city == "" {
		return nil, nil
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	done := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
		done <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("google geocoding: %w", r.err)
		}
		return []weather.Coordinates{{
			Lat:     r.loc.Latitude,
			Lon:     r.loc.Longitude,
			Name:    city,
			Country: country,
		}}, nil
	}
}
