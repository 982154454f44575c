package weather

import (
	"time"
)

// RangeCode selects the time window rendered by the dashboard.
type RangeCode string

const (
	Range24Hours RangeCode = "24h"
	Range7Days   RangeCode = "7d"
	Range30Days  RangeCode = "30d"
	Range90Days  RangeCode = "90d"
	Range1Year   RangeCode = "1y"
)

var rangeDays = map[RangeCode]int{
	Range24Hours: 1,
	Range7Days:   7,
	Range30Days:  30,
	Range90Days:  90,
	Range1Year:   365,
}

// Normalize returns the code itself when it is known, otherwise Range7Days.
func (r RangeCode) Normalize() RangeCode {
	if _, ok := rangeDays[r]; ok {
		return r
	}
	return Range7Days
}

// Days maps the range code to the number of days its series cover.
// Unknown codes map like Range7Days.
func (r RangeCode) Days() int {
	return rangeDays[r.Normalize()]
}

// Coordinates is a resolved location.
type Coordinates struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Name    string  `json:"name"`
	Country string  `json:"country"`
}

// DisplayName renders "name, country".
func (c Coordinates) DisplayName() string {
	if c.Country == "" {
		return c.Name
	}
	return c.Name + ", " + c.Country
}

// Request identifies one dashboard view.
type Request struct {
	Location string    `json:"location"`
	Range    RangeCode `json:"range"`
}

// Key returns a canonical string key for indexing this request on the board.
func (r Request) Key() string {
	return r.Location + ":" + string(r.Range.Normalize())
}

// DataSource tells whether an aggregate was assembled from provider data.
type DataSource string

const (
	SourceLive     DataSource = "live"
	SourceFallback DataSource = "fallback"
)

// Aggregate is the normalized, UI-ready weather view. It is never mutated once
// returned; a refresh produces a new value.
type Aggregate struct {
	Current       Current       `json:"current"`
	Trends        Trends        `json:"trends"`
	Map           MapView       `json:"map"`
	Precipitation Precipitation `json:"precipitation"`
	Forecast      Forecast      `json:"forecast"`
	Historical    Historical    `json:"historical"`
	Environmental Environmental `json:"environmental"`
	Range         RangeCode     `json:"range"`
	Location      string        `json:"location"`
	LastUpdated   time.Time     `json:"lastUpdated"` // always UTC
	Source        DataSource    `json:"source"`
}

// Current holds rounded current conditions (°C, km/h, hPa, km).
type Current struct {
	Temperature          int    `json:"temperature"`
	FeelsLike            int    `json:"feelsLike"`
	Humidity             int    `json:"humidity"`
	WindSpeed            int    `json:"windSpeed"`
	WindDirection        int    `json:"windDirection"`
	WindDirectionCompass string `json:"windDirectionCompass"`
	AirQuality           int    `json:"airQuality"`
	AirQualityCategory   int    `json:"airQualityCategory"`
	AirQualityText       string `json:"airQualityDescription"`
	UVIndex              int    `json:"uvIndex"`
	Visibility           int    `json:"visibility"`
	Pressure             int    `json:"pressure"`
	Condition            string `json:"condition"`
	Description          string `json:"description"`
	Icon                 string `json:"icon"`
}

// Trends holds parallel series; every slice has len(Labels) entries.
type Trends struct {
	Period      string   `json:"period"`
	Labels      []string `json:"labels"`
	Temperature []int    `json:"temperature"`
	FeelsLike   []int    `json:"feelsLike"`
	Humidity    []int    `json:"humidity"`
	WindSpeed   []int    `json:"windSpeed"`
	WindGust    []int    `json:"windGust"`
}

type MapView struct {
	Coordinates Coordinates `json:"coordinates"`
	Zoom        int         `json:"zoom"`
	Name        string      `json:"name"`
}

type Precipitation struct {
	Period      string    `json:"period"`
	Labels      []string  `json:"labels"`
	Values      []float64 `json:"values"`
	Probability []int     `json:"probability"`
}

type Forecast struct {
	Days []ForecastDay `json:"days"`
}

type ForecastDay struct {
	Day           string `json:"day"`
	Date          string `json:"date"`
	Condition     string `json:"condition"`
	High          int    `json:"high"`
	Low           int    `json:"low"`
	Precipitation int    `json:"precipitation"`
	Icon          string `json:"icon"`
}

type Historical struct {
	Labels       []string `json:"labels"`
	CurrentYear  []int    `json:"currentYear"`
	PreviousYear []int    `json:"previousYear"`
	Average      []int    `json:"average"`
}

// Environmental is a synthesized carbon-intensity heat map: 7 days of 6 slots.
type Environmental struct {
	Days []EnvironmentalDay `json:"days"`
}

type EnvironmentalDay struct {
	Day   string            `json:"day"`
	Hours []EnvironmentSlot `json:"hours"`
}

type EnvironmentSlot struct {
	Time  string `json:"time"`
	Value int    `json:"value"`
}
