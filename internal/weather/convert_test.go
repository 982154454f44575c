package weather

import (
	"testing"
	"time"
)

func TestCompassOf(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{90, "E"},
		{180, "S"},
		{202, "SSW"},
		{225, "SW"},
		{348, "NNW"},
		{350, "N"},
		{360, "N"},
		{-90, "W"},
	}
	for _, c := range cases {
		if got := CompassOf(c.deg); got != c.want {
			t.Errorf("CompassOf(%v) = %q, want %q", c.deg, got, c.want)
		}
	}
}

func TestAirQualityText(t *testing.T) {
	want := map[int]string{
		1:  "Good",
		2:  "Fair",
		3:  "Moderate",
		4:  "Poor",
		5:  "Very Poor",
		0:  "Good",
		6:  "Good",
		-1: "Good",
	}
	for idx, w := range want {
		if got := AirQualityText(idx); got != w {
			t.Errorf("AirQualityText(%d) = %q, want %q", idx, got, w)
		}
	}
	if AirQualityValue(0) != 50 || AirQualityValue(5) != 250 {
		t.Errorf("unexpected air quality values %d %d", AirQualityValue(0), AirQualityValue(5))
	}
}

func TestKmhFromMS(t *testing.T) {
	cases := map[float64]int{10: 36, 0: 0, 1: 4, 2.5: 9, 4.1: 15}
	for in, want := range cases {
		if got := KmhFromMS(in); got != want {
			t.Errorf("KmhFromMS(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestRangeCodeDays(t *testing.T) {
	cases := map[RangeCode]int{
		Range24Hours: 1,
		Range7Days:   7,
		Range30Days:  30,
		Range90Days:  90,
		Range1Year:   365,
		"":           7,
		"12h":        7,
	}
	for rc, want := range cases {
		if got := rc.Days(); got != want {
			t.Errorf("RangeCode(%q).Days() = %d, want %d", rc, got, want)
		}
	}
}

func TestEstimateUV(t *testing.T) {
	sunrise := time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC)
	sunset := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	noon := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := estimateUV(noon, sunrise, sunset, 0); got != 11 {
		t.Errorf("clear noon UV = %d, want 11", got)
	}
	if got := estimateUV(noon, sunrise, sunset, 100); got != 3 {
		t.Errorf("overcast noon UV = %d, want 3", got)
	}
	if got := estimateUV(sunset.Add(time.Hour), sunrise, sunset, 0); got != 0 {
		t.Errorf("night UV = %d, want 0", got)
	}
	if got := estimateUV(noon, time.Time{}, time.Time{}, 0); got != 0 {
		t.Errorf("UV without sun times = %d, want 0", got)
	}
}

func TestSynthesizeEnvironmentalBase(t *testing.T) {
	clear := synthesizeEnvironmental("Clear", fixedRandom(0))
	cloudy := synthesizeEnvironmental("Clouds", fixedRandom(0.999))

	if clear.Days[0].Day != "Mon" || clear.Days[6].Day != "Sun" {
		t.Errorf("days run %q..%q", clear.Days[0].Day, clear.Days[6].Day)
	}
	if clear.Days[0].Hours[0].Time != "00:00" || clear.Days[0].Hours[5].Time != "20:00" {
		t.Errorf("slots run %q..%q", clear.Days[0].Hours[0].Time, clear.Days[0].Hours[5].Time)
	}
	for _, d := range clear.Days {
		for _, h := range d.Hours {
			if h.Value != 150 {
				t.Fatalf("clear value = %d, want 150", h.Value)
			}
		}
	}
	for _, d := range cloudy.Days {
		for _, h := range d.Hours {
			if h.Value != 349 {
				t.Fatalf("cloudy value = %d, want 349", h.Value)
			}
		}
	}
}

func TestSynthesizeHistoricalOffsets(t *testing.T) {
	labels := dateLabels(testNow, 7)
	h := synthesizeHistorical(25, labels, fixedRandom(0.5))

	// sin(0) = 0 at the first point, so only the fixed offsets remain.
	if h.CurrentYear[0] != 25 || h.PreviousYear[0] != 25 || h.Average[0] != 24 {
		t.Errorf("first point = %d/%d/%d", h.CurrentYear[0], h.PreviousYear[0], h.Average[0])
	}
	for i := range labels {
		if h.CurrentYear[i] < 21 || h.CurrentYear[i] > 29 {
			t.Errorf("currentYear[%d] = %d out of band", i, h.CurrentYear[i])
		}
	}
}
