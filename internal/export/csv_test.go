package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)
	tests := []struct {
		location string
		want     string
	}{
		{"Benin City, NG", "weather-data-benin-city-ng-2026-10-18.csv"},
		{"  São Paulo ", "weather-data-s-o-paulo-2026-10-18.csv"},
		{"", "weather-data-dashboard-2026-10-18.csv"},
	}
	for _, tt := range tests {
		if got := FileName(tt.location, now); got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestWriteFallbackAggregate(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	agg := weather.Fallback(weather.Range7Days, weather.DefaultLocation, now)

	var buf bytes.Buffer
	if err := Write(&buf, "Benin City, NG", agg, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("export is not valid csv: %v", err)
	}

	if records[0][0] != "Weather Data Export for Benin City, NG" {
		t.Fatalf("unexpected title: %q", records[0][0])
	}
	if records[1][0] != "Export Date: 2026-10-18 12:00:00 UTC" {
		t.Fatalf("unexpected export date: %q", records[1][0])
	}
	if records[2][0] != "Date Range: 7d" {
		t.Fatalf("unexpected date range: %q", records[2][0])
	}

	index := map[string][]string{}
	for _, rec := range records {
		index[rec[0]] = rec
	}

	if got := index["Temperature"]; len(got) != 3 || got[1] != "28" || got[2] != "°C" {
		t.Fatalf("unexpected temperature row: %v", got)
	}
	if got := index["Wind Direction"]; got[1] != "SW" {
		t.Fatalf("unexpected wind direction row: %v", got)
	}
	if got := index["Day"]; len(got) != 6 {
		t.Fatalf("unexpected forecast header: %v", got)
	}
	if got := index["Today"]; len(got) != 6 || got[5][len(got[5])-1] != '%' {
		t.Fatalf("unexpected forecast row: %v", got)
	}
	if got := index["Period"]; len(got) != len(agg.Trends.Labels)+1 {
		t.Fatalf("expected %d period cells, got %d", len(agg.Trends.Labels)+1, len(got))
	}
	if got := index["Temperature (°C)"]; len(got) != len(agg.Trends.Temperature)+1 {
		t.Fatalf("unexpected temperature series: %v", got)
	}
}
