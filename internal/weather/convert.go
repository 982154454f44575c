package weather

import (
	"math"
	"time"
)

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassOf maps wind degrees to one of 16 compass points.
func CompassOf(deg float64) string {
	i := int(math.Round(deg/22.5)) % 16
	if i < 0 {
		i += 16
	}
	return compassPoints[i]
}

var airQualityText = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

// representative AQI values for each category, 0-500 scale
var airQualityValue = map[int]int{
	1: 25,
	2: 75,
	3: 125,
	4: 175,
	5: 250,
}

const (
	defaultAirQuality     = 50
	defaultAirQualityText = "Good"
)

// AirQualityText maps a 1..5 category to its description. Anything else is "Good".
func AirQualityText(index int) string {
	if s, ok := airQualityText[index]; ok {
		return s
	}
	return defaultAirQualityText
}

// AirQualityValue maps a 1..5 category to a representative index.
func AirQualityValue(index int) int {
	if v, ok := airQualityValue[index]; ok {
		return v
	}
	return defaultAirQuality
}

// KmhFromMS converts m/s to km/h rounded to the nearest integer.
func KmhFromMS(ms float64) int {
	return round(ms * 3.6)
}

func round(v float64) int {
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// estimateUV approximates the UV index from the sun's position between sunrise
// and sunset, damped by cloud cover. Returns 0 at night or without sun times.
func estimateUV(at, sunrise, sunset time.Time, cloudsPct float64) int {
	if sunrise.IsZero() || sunset.IsZero() || !sunset.After(sunrise) {
		return 0
	}
	if at.Before(sunrise) || at.After(sunset) {
		return 0
	}
	dayLen := sunset.Sub(sunrise).Seconds()
	elapsed := at.Sub(sunrise).Seconds()
	elevation := math.Sin(math.Pi * elapsed / dayLen)
	cover := math.Max(0, math.Min(cloudsPct, 100)) / 100
	return round(11 * elevation * (1 - 0.75*cover))
}

const (
	hourLayout = "15:04"
	dateLayout = "Jan 2"
	dayLayout  = "Mon"
)
