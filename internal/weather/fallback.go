package weather

import (
	"math"
	"time"
)

// DefaultLocation is used when geocoding misses and for the fallback aggregate.
var DefaultLocation = Coordinates{
	Lat:     6.335,
	Lon:     5.6037,
	Name:    "Benin City",
	Country: "NG",
}

var fallbackCurrent = Current{
	Temperature:          28,
	FeelsLike:            31,
	Humidity:             78,
	WindSpeed:            11,
	WindDirection:        225,
	WindDirectionCompass: "SW",
	AirQuality:           defaultAirQuality,
	AirQualityText:       defaultAirQualityText,
	UVIndex:              6,
	Visibility:           10,
	Pressure:             1012,
	Condition:            "Clouds",
	Description:          "scattered clouds",
	Icon:                 "03d",
}

var fallbackDays = [forecastDays]ForecastDay{
	{Condition: "Clouds", High: 31, Low: 24, Precipitation: 40, Icon: "03d"},
	{Condition: "Rain", High: 29, Low: 23, Precipitation: 80, Icon: "10d"},
	{Condition: "Thunderstorm", High: 28, Low: 23, Precipitation: 90, Icon: "11d"},
	{Condition: "Rain", High: 30, Low: 24, Precipitation: 70, Icon: "10d"},
	{Condition: "Clouds", High: 31, Low: 24, Precipitation: 30, Icon: "04d"},
}

var fallbackRain = [entriesPerDay]float64{0, 0.4, 1.2, 2.5, 0.8, 0, 0, 0.3}

// cycleRandom replays a fixed sequence so the fallback stays deterministic.
type cycleRandom struct {
	values []float64
	next   int
}

func (c *cycleRandom) Float64() float64 {
	v := c.values[c.next%len(c.values)]
	c.next++
	return v
}

func newCycleRandom() *cycleRandom {
	return &cycleRandom{values: []float64{0.5, 0.62, 0.41, 0.78, 0.33, 0.55, 0.69, 0.47}}
}

// Fallback returns the static aggregate served when a build cannot use provider
// data. It is sized for rc so every series invariant still holds.
func Fallback(rc RangeCode, loc Coordinates, now time.Time) Aggregate {
	rc = rc.Normalize()
	days := rc.Days()
	r := newCycleRandom()

	var trends Trends
	if rc == Range24Hours {
		start := now.Truncate(time.Hour)
		labels := make([]string, hourlyPoints)
		for h := range labels {
			labels[h] = start.Add(time.Duration(h) * time.Hour).Format(hourLayout)
		}
		trends = fallbackTrends(labels, periodLabel(rc))
	} else {
		trends = fallbackTrends(dateLabels(now, days), periodLabel(rc))
	}

	forecast := Forecast{Days: make([]ForecastDay, 0, forecastDays)}
	for i, d := range fallbackDays {
		day := now.AddDate(0, 0, i)
		d.Day = dayLabel(i, day)
		d.Date = day.Format(dateLayout)
		forecast.Days = append(forecast.Days, d)
	}

	return Aggregate{
		Current: fallbackCurrent,
		Trends:  trends,
		Map: MapView{
			Coordinates: loc,
			Zoom:        mapZoom,
			Name:        loc.Name,
		},
		Precipitation: fallbackPrecipitation(rc, now),
		Forecast:      forecast,
		Historical:    synthesizeHistorical(float64(fallbackCurrent.Temperature), dateLabels(now, days), r),
		Environmental: synthesizeEnvironmental(fallbackCurrent.Condition, r),
		Range:         rc,
		Location:      loc.DisplayName(),
		LastUpdated:   now.UTC(),
		Source:        SourceFallback,
	}
}

func fallbackTrends(labels []string, period string) Trends {
	n := len(labels)
	t := Trends{
		Period:      period,
		Labels:      labels,
		Temperature: make([]int, n),
		FeelsLike:   make([]int, n),
		Humidity:    make([]int, n),
		WindSpeed:   make([]int, n),
		WindGust:    make([]int, n),
	}
	c := fallbackCurrent
	for i := range labels {
		wave := math.Sin(float64(i) / 4)
		t.Temperature[i] = c.Temperature + round(3*wave)
		t.FeelsLike[i] = c.FeelsLike + round(3*wave)
		t.Humidity[i] = c.Humidity - round(8*wave)
		t.WindSpeed[i] = c.WindSpeed + round(2*wave)
		t.WindGust[i] = c.WindSpeed + 6 + round(2*wave)
	}
	return t
}

func fallbackPrecipitation(rc RangeCode, now time.Time) Precipitation {
	p := Precipitation{Period: periodLabel(rc)}
	if rc == Range24Hours {
		start := now.Truncate(3 * time.Hour)
		for i, v := range fallbackRain {
			p.Labels = append(p.Labels, start.Add(time.Duration(3*i)*time.Hour).Format(hourLayout))
			p.Values = append(p.Values, v)
			p.Probability = append(p.Probability, fallbackDays[0].Precipitation)
		}
		return p
	}
	for i, d := range fallbackDays {
		p.Labels = append(p.Labels, now.AddDate(0, 0, i).Format(dateLayout))
		p.Values = append(p.Values, fallbackRain[i+2])
		p.Probability = append(p.Probability, d.Precipitation)
	}
	return p
}
