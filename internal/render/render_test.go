package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

func fallback() weather.Aggregate {
	return weather.Fallback(weather.Range7Days, weather.DefaultLocation, time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, fallback()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got weather.Aggregate
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not json: %v", err)
	}
	if got.Location != "Benin City, NG" || got.Source != weather.SourceFallback {
		t.Fatalf("unexpected aggregate: %q %q", got.Location, got.Source)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FormatTable, fallback()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Benin City, NG (7d, fallback data", "TEMPERATURE", "28 °C", "TODAY", "Last 7 Days"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("table output missing %q", want)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, "yaml", fallback()); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}
