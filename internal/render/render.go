package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Formats accepted by Write.
const (
	FormatJSON  = "json"
	FormatTable = "table"
)

// Write renders agg in the requested format.
func Write(w io.Writer, format string, agg weather.Aggregate) error {
	switch format {
	case FormatJSON, "":
		return writeJSON(w, agg)
	case FormatTable:
		return writeTables(w, agg)
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, FormatJSON, FormatTable)
	}
}

func writeJSON(w io.Writer, agg weather.Aggregate) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(agg)
}

func writeTables(w io.Writer, agg weather.Aggregate) error {
	fmt.Fprintf(w, "%s (%s, %s data, updated %s)\n\n",
		agg.Location, agg.Range, agg.Source, agg.LastUpdated.Format("2006-01-02 15:04 MST"))

	renderCurrentTable(w, agg.Current)
	fmt.Fprintln(w)
	renderForecastTable(w, agg.Forecast)
	fmt.Fprintln(w)
	renderTrendsTable(w, agg.Trends)
	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(header)
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAutoWrapText(false)
	return tw
}

func renderCurrentTable(w io.Writer, c weather.Current) {
	tw := newTable(w, []string{"METRIC", "VALUE"})
	rows := [][]string{
		{"Condition", c.Condition + " (" + c.Description + ")"},
		{"Temperature", fmt.Sprintf("%d °C", c.Temperature)},
		{"Feels Like", fmt.Sprintf("%d °C", c.FeelsLike)},
		{"Humidity", fmt.Sprintf("%d %%", c.Humidity)},
		{"Wind", fmt.Sprintf("%d km/h %s", c.WindSpeed, c.WindDirectionCompass)},
		{"Air Quality", fmt.Sprintf("%d (%s)", c.AirQuality, c.AirQualityText)},
		{"UV Index", strconv.Itoa(c.UVIndex)},
		{"Visibility", fmt.Sprintf("%d km", c.Visibility)},
		{"Pressure", fmt.Sprintf("%d hPa", c.Pressure)},
	}
	for _, r := range rows {
		tw.Append(r)
	}
	tw.Render()
}

func renderForecastTable(w io.Writer, f weather.Forecast) {
	tw := newTable(w, []string{"DAY", "DATE", "CONDITION", "HIGH", "LOW", "PRECIP"})
	tw.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	for _, d := range f.Days {
		tw.Append([]string{
			d.Day,
			d.Date,
			d.Condition,
			strconv.Itoa(d.High) + "°C",
			strconv.Itoa(d.Low) + "°C",
			strconv.Itoa(d.Precipitation) + "%",
		})
	}
	tw.Render()
}

func renderTrendsTable(w io.Writer, t weather.Trends) {
	fmt.Fprintln(w, t.Period)
	tw := newTable(w, []string{"LABEL", "TEMP", "FEELS", "HUMIDITY", "WIND", "GUST"})
	for i, label := range t.Labels {
		tw.Append([]string{
			label,
			strconv.Itoa(t.Temperature[i]),
			strconv.Itoa(t.FeelsLike[i]),
			strconv.Itoa(t.Humidity[i]),
			strconv.Itoa(t.WindSpeed[i]),
			strconv.Itoa(t.WindGust[i]),
		})
	}
	tw.Render()
}
