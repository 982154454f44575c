package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/i474232898/weather-dashboard/internal/common"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const exportDateLayout = "2006-01-02 15:04:05 MST"

// FileName returns the attachment name for an export of location taken at now.
func FileName(location string, now time.Time) string {
	slug := common.Slug(location)
	if slug == "" {
		slug = "dashboard"
	}
	return fmt.Sprintf("weather-data-%s-%s.csv", slug, now.UTC().Format("2006-01-02"))
}

// Write renders agg as the dashboard CSV export: header lines, current
// conditions, the 5-day forecast and the trend series.
func Write(w io.Writer, location string, agg weather.Aggregate, now time.Time) error {
	cw := csv.NewWriter(w)

	if location == "" {
		location = agg.Location
	}
	cur := agg.Current

	records := [][]string{
		{"Weather Data Export for " + location},
		{"Export Date: " + now.UTC().Format(exportDateLayout)},
		{"Date Range: " + string(agg.Range)},
		{},
		{"Current Conditions"},
		{"Metric", "Value", "Unit"},
		{"Temperature", strconv.Itoa(cur.Temperature), "°C"},
		{"Feels Like", strconv.Itoa(cur.FeelsLike), "°C"},
		{"Humidity", strconv.Itoa(cur.Humidity), "%"},
		{"Wind Speed", strconv.Itoa(cur.WindSpeed), "km/h"},
		{"Wind Direction", cur.WindDirectionCompass, ""},
		{"Air Quality", strconv.Itoa(cur.AirQuality), "AQI"},
		{"Visibility", strconv.Itoa(cur.Visibility), "km"},
		{"Pressure", strconv.Itoa(cur.Pressure), "hPa"},
		{},
		{"5-Day Forecast"},
		{"Day", "Date", "Condition", "High", "Low", "Precipitation"},
	}
	for _, d := range agg.Forecast.Days {
		records = append(records, []string{
			d.Day,
			d.Date,
			d.Condition,
			strconv.Itoa(d.High) + "°C",
			strconv.Itoa(d.Low) + "°C",
			strconv.Itoa(d.Precipitation) + "%",
		})
	}

	t := agg.Trends
	records = append(records,
		[]string{},
		[]string{"Trends Data"},
		append([]string{"Period"}, t.Labels...),
		series("Temperature (°C)", t.Temperature),
		series("Humidity (%)", t.Humidity),
		series("Wind Speed (km/h)", t.WindSpeed),
	)

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv export: %w", err)
	}
	return nil
}

func series(name string, values []int) []string {
	row := make([]string, 0, len(values)+1)
	row = append(row, name)
	for _, v := range values {
		row = append(row, strconv.Itoa(v))
	}
	return row
}
