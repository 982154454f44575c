package weather

import (
	"fmt"
	"math"
	"time"
)

const (
	entriesPerDay = 8 // 3-hour steps
	forecastDays  = 5
	hourlyPoints  = 24
	mapZoom       = 10
)

// assembleCurrent converts a provider reading into rounded dashboard units.
// aq is nil when the air-quality fetch failed.
func assembleCurrent(r CurrentReading, aq *AirQualityReading) Current {
	c := Current{
		Temperature:          round(r.TemperatureC),
		FeelsLike:            round(r.FeelsLikeC),
		Humidity:             round(r.HumidityPct),
		WindSpeed:            KmhFromMS(r.WindSpeedMS),
		WindDirection:        round(r.WindDeg),
		WindDirectionCompass: CompassOf(r.WindDeg),
		AirQuality:           defaultAirQuality,
		AirQualityText:       defaultAirQualityText,
		Visibility:           round(r.VisibilityM / 1000),
		Pressure:             round(r.PressureHpa),
		Condition:            r.Condition,
		Description:          r.Description,
		Icon:                 r.Icon,
	}
	if aq != nil {
		c.AirQualityCategory = aq.Index
		c.AirQuality = AirQualityValue(aq.Index)
		c.AirQualityText = AirQualityText(aq.Index)
	}
	if r.UVIndex != nil {
		c.UVIndex = round(*r.UVIndex)
	} else {
		c.UVIndex = estimateUV(r.Timestamp, r.Sunrise, r.Sunset, r.CloudsPct)
	}
	return c
}

// hourlyTrends interpolates the 3-hour forecast steps into 24 hourly points.
func hourlyTrends(s ForecastSeries, zone *time.Location) Trends {
	e := s.Entries
	t := Trends{
		Period:      periodLabel(Range24Hours),
		Labels:      make([]string, hourlyPoints),
		Temperature: make([]int, hourlyPoints),
		FeelsLike:   make([]int, hourlyPoints),
		Humidity:    make([]int, hourlyPoints),
		WindSpeed:   make([]int, hourlyPoints),
		WindGust:    make([]int, hourlyPoints),
	}
	start := e[0].Timestamp
	for h := 0; h < hourlyPoints; h++ {
		p := float64(h) / 3
		i := int(p)
		frac := p - float64(i)
		a, b := e[len(e)-1], e[len(e)-1]
		if i < len(e)-1 {
			a, b = e[i], e[i+1]
		} else {
			frac = 0
		}
		lerp := func(x, y float64) float64 { return x + (y-x)*frac }

		wind := lerp(a.WindSpeedMS, b.WindSpeedMS)
		gust := lerp(gustOf(a), gustOf(b))

		t.Labels[h] = start.Add(time.Duration(h) * time.Hour).In(zone).Format(hourLayout)
		t.Temperature[h] = round(lerp(a.TemperatureC, b.TemperatureC))
		t.FeelsLike[h] = round(lerp(a.FeelsLikeC, b.FeelsLikeC))
		t.Humidity[h] = round(lerp(a.HumidityPct, b.HumidityPct))
		t.WindSpeed[h] = KmhFromMS(wind)
		t.WindGust[h] = KmhFromMS(gust)
	}
	return t
}

func gustOf(e ForecastEntry) float64 {
	if e.WindGustMS > 0 {
		return e.WindGustMS
	}
	return e.WindSpeedMS
}

// dailyEntries returns the indexes of the once-per-day anchors (every 8th step), up to limit.
func dailyEntries(n, limit int) []int {
	var idx []int
	for i := 0; i < n && len(idx) < limit; i += entriesPerDay {
		idx = append(idx, i)
	}
	return idx
}

func assemblePrecipitation(s ForecastSeries, rc RangeCode, zone *time.Location) Precipitation {
	var idx []int
	layout := dateLayout
	if rc == Range24Hours {
		layout = hourLayout
		for i := 0; i < len(s.Entries) && i < entriesPerDay; i++ {
			idx = append(idx, i)
		}
	} else {
		idx = dailyEntries(len(s.Entries), forecastDays)
	}

	p := Precipitation{
		Period:      periodLabel(rc),
		Labels:      make([]string, 0, len(idx)),
		Values:      make([]float64, 0, len(idx)),
		Probability: make([]int, 0, len(idx)),
	}
	for _, i := range idx {
		e := s.Entries[i]
		p.Labels = append(p.Labels, e.Timestamp.In(zone).Format(layout))
		p.Values = append(p.Values, round1(e.RainMM))
		p.Probability = append(p.Probability, clamp(round(e.Pop*100), 0, 100))
	}
	return p
}

func assembleForecast(s ForecastSeries, zone *time.Location) (Forecast, error) {
	idx := dailyEntries(len(s.Entries), forecastDays)
	if len(idx) < forecastDays {
		return Forecast{}, fmt.Errorf("%w: forecast covers %d days, need %d", ErrMalformedPayload, len(idx), forecastDays)
	}

	f := Forecast{Days: make([]ForecastDay, 0, forecastDays)}
	for n, i := range idx {
		e := s.Entries[i]
		high, low := math.Inf(-1), math.Inf(1)
		for j := i; j < i+entriesPerDay && j < len(s.Entries); j++ {
			high = math.Max(high, s.Entries[j].TempMaxC)
			low = math.Min(low, s.Entries[j].TempMinC)
		}
		local := e.Timestamp.In(zone)
		f.Days = append(f.Days, ForecastDay{
			Day:           dayLabel(n, local),
			Date:          local.Format(dateLayout),
			Condition:     e.Condition,
			High:          round(high),
			Low:           round(low),
			Precipitation: clamp(round(e.Pop*100), 0, 100),
			Icon:          e.Icon,
		})
	}
	return f, nil
}

func dayLabel(n int, t time.Time) string {
	switch n {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return t.Format(dayLayout)
	}
}
