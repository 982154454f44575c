package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/obs"
)

var (
	// ErrGeocodingMiss means the location could not be resolved and the default was used.
	ErrGeocodingMiss = errors.New("geocoding returned no match")
	// ErrAirQualityUnavailable means air-quality fields hold their defaults.
	ErrAirQualityUnavailable = errors.New("air quality unavailable")
	// ErrHardFetch means current conditions or the forecast could not be fetched.
	ErrHardFetch = errors.New("weather fetch failed")
	// ErrMalformedPayload means a provider answered with unusable data.
	ErrMalformedPayload = errors.New("malformed provider payload")
)

// BuilderConfig holds the explicit settings a Builder runs with.
type BuilderConfig struct {
	// DefaultLocation replaces unresolved locations and anchors the fallback.
	DefaultLocation Coordinates
	// Timeout bounds a whole build, including all provider calls. Zero disables it.
	Timeout time.Duration
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRandom pins the randomness used by synthesized series.
func WithRandom(r RandomSource) Option {
	return func(b *Builder) { b.random = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// Builder turns provider responses into dashboard aggregates.
type Builder struct {
	cfg      BuilderConfig
	geocoder Geocoder
	provider Provider
	random   RandomSource
	now      func() time.Time
}

// NewBuilder creates a new Builder.
func NewBuilder(cfg BuilderConfig, geocoder Geocoder, provider Provider, opts ...Option) *Builder {
	if cfg.DefaultLocation == (Coordinates{}) {
		cfg.DefaultLocation = DefaultLocation
	}
	b := &Builder{
		cfg:      cfg,
		geocoder: geocoder,
		provider: provider,
		random:   globalRandom{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is a build outcome. Aggregate is always usable.
type Result struct {
	Aggregate Aggregate
	BuildID   string
	// Err is the hard failure that forced the fallback aggregate, nil for live data.
	Err error
	// Degraded lists non-fatal problems (ErrGeocodingMiss, ErrAirQualityUnavailable).
	Degraded []error
}

// Live reports whether the aggregate came from provider data.
func (r Result) Live() bool {
	return r.Aggregate.Source == SourceLive
}

// Build returns the aggregate for location and rc. It never fails: on any hard
// error it returns the fallback aggregate.
func (b *Builder) Build(ctx context.Context, location string, rc RangeCode) Aggregate {
	return b.BuildResult(ctx, Request{Location: location, Range: rc}).Aggregate
}

// BuildResult is Build with the outcome details attached.
func (b *Builder) BuildResult(ctx context.Context, req Request) (res Result) {
	rc := req.Range.Normalize()

	ctx, id := obs.WithBuildID(ctx)
	res.BuildID = id
	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("%w: panic during assembly: %v", ErrMalformedPayload, p)
			res.Aggregate = Fallback(rc, b.cfg.DefaultLocation, b.now())
			log.Printf("ERROR: build %s for %q recovered: %v", id, req.Location, res.Err)
		}
	}()

	agg, degraded, err := b.assemble(ctx, req.Location, rc)
	res.Degraded = degraded
	if err != nil {
		log.Printf("ERROR: build %s for %q (%s) failed; serving fallback: %v", id, req.Location, rc, err)
		res.Err = err
		res.Aggregate = Fallback(rc, b.cfg.DefaultLocation, b.now())
		return res
	}

	res.Aggregate = agg
	return res
}

func (b *Builder) assemble(ctx context.Context, location string, rc RangeCode) (_ Aggregate, degraded []error, err error) {
	defer obs.Time(ctx, "weather.build")(&err)

	if b.provider == nil {
		return Aggregate{}, nil, fmt.Errorf("%w: no weather provider configured", ErrHardFetch)
	}

	coords, gerr := b.resolve(ctx, location)
	if gerr != nil {
		degraded = append(degraded, gerr)
	}

	var (
		wg                   sync.WaitGroup
		current              CurrentReading
		series               ForecastSeries
		air                  AirQualityReading
		curErr, fcErr, aqErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		current, curErr = b.provider.Current(ctx, coords)
	}()
	go func() {
		defer wg.Done()
		series, fcErr = b.provider.Forecast(ctx, coords)
	}()
	go func() {
		defer wg.Done()
		air, aqErr = b.provider.AirQuality(ctx, coords)
	}()
	wg.Wait()

	if curErr != nil {
		return Aggregate{}, degraded, fmt.Errorf("%w: %s current: %w", ErrHardFetch, b.provider.Name(), curErr)
	}
	if fcErr != nil {
		return Aggregate{}, degraded, fmt.Errorf("%w: %s forecast: %w", ErrHardFetch, b.provider.Name(), fcErr)
	}
	if len(series.Entries) == 0 {
		return Aggregate{}, degraded, fmt.Errorf("%w: empty forecast", ErrMalformedPayload)
	}

	var aq *AirQualityReading
	if aqErr != nil {
		log.Printf("provider %s air quality failed for %s: %v", b.provider.Name(), coords.DisplayName(), aqErr)
		degraded = append(degraded, fmt.Errorf("%w: %v", ErrAirQualityUnavailable, aqErr))
	} else {
		aq = &air
	}

	zone := time.FixedZone("", series.UTCOffset)
	now := b.now()
	local := now.In(zone)

	cur := assembleCurrent(current, aq)
	forecast, err := assembleForecast(series, zone)
	if err != nil {
		return Aggregate{}, degraded, err
	}

	var trends Trends
	if rc == Range24Hours {
		trends = hourlyTrends(series, zone)
	} else {
		trends = simulatedTrends(cur, dateLabels(local, rc.Days()), periodLabel(rc), b.random)
	}

	return Aggregate{
		Current: cur,
		Trends:  trends,
		Map: MapView{
			Coordinates: coords,
			Zoom:        mapZoom,
			Name:        coords.Name,
		},
		Precipitation: assemblePrecipitation(series, rc, zone),
		Forecast:      forecast,
		Historical:    synthesizeHistorical(current.TemperatureC, dateLabels(local, rc.Days()), b.random),
		Environmental: synthesizeEnvironmental(cur.Condition, b.random),
		Range:         rc,
		Location:      coords.DisplayName(),
		LastUpdated:   now.UTC(),
		Source:        SourceLive,
	}, degraded, nil
}

// resolve geocodes location, degrading to the default location on any miss.
func (b *Builder) resolve(ctx context.Context, location string) (Coordinates, error) {
	if b.geocoder == nil || strings.TrimSpace(location) == "" {
		log.Printf("INFO: no geocoder or empty location; using %s", b.cfg.DefaultLocation.DisplayName())
		return b.cfg.DefaultLocation, ErrGeocodingMiss
	}

	places, err := b.geocoder.Geocode(ctx, location)
	if err != nil {
		log.Printf("geocoding failed for %q: %v; using %s", location, err, b.cfg.DefaultLocation.DisplayName())
		return b.cfg.DefaultLocation, fmt.Errorf("%w: %v", ErrGeocodingMiss, err)
	}
	if len(places) == 0 {
		log.Printf("INFO: no geocoding match for %q; using %s", location, b.cfg.DefaultLocation.DisplayName())
		return b.cfg.DefaultLocation, ErrGeocodingMiss
	}
	return places[0], nil
}
