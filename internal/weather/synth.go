package weather

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// globalRandom draws from the package-level generator, which is safe for
// concurrent builds.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// jitter returns a value in [-amp, amp).
func jitter(r RandomSource, amp float64) float64 {
	return (r.Float64()*2 - 1) * amp
}

// dateLabels returns days+1 labels ending today, oldest first.
func dateLabels(now time.Time, days int) []string {
	labels := make([]string, 0, days+1)
	for i := days; i >= 0; i-- {
		labels = append(labels, now.AddDate(0, 0, -i).Format(dateLayout))
	}
	return labels
}

func periodLabel(rc RangeCode) string {
	if rc == Range24Hours {
		return "Next 24 Hours"
	}
	return fmt.Sprintf("Last %d Days", rc.Days())
}

// Jitter amplitudes for long-range trend simulation.
const (
	tempJitter     = 5.0
	humidityJitter = 15.0
	windJitter     = 5.0
	gustSpread     = 10.0
)

// simulatedTrends fills one point per label from the current conditions plus
// random jitter. The provider has no data beyond its 5-day horizon.
func simulatedTrends(cur Current, labels []string, period string, r RandomSource) Trends {
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
	for i := range labels {
		wind := math.Max(0, float64(cur.WindSpeed)+jitter(r, windJitter))
		t.Temperature[i] = round(float64(cur.Temperature) + jitter(r, tempJitter))
		t.FeelsLike[i] = round(float64(cur.FeelsLike) + jitter(r, tempJitter))
		t.Humidity[i] = clamp(round(float64(cur.Humidity)+jitter(r, humidityJitter)), 0, 100)
		t.WindSpeed[i] = round(wind)
		t.WindGust[i] = round(wind + r.Float64()*gustSpread)
	}
	return t
}

// synthesizeHistorical layers a smooth seasonal wave with bounded noise around
// the current temperature. Previous year sits about 2 degrees below, the
// multi-year average about 1 below.
func synthesizeHistorical(temp float64, labels []string, r RandomSource) Historical {
	n := len(labels)
	h := Historical{
		Labels:       labels,
		CurrentYear:  make([]int, n),
		PreviousYear: make([]int, n),
		Average:      make([]int, n),
	}
	for i := range labels {
		x := float64(i) / 3
		h.CurrentYear[i] = round(temp + 4*math.Sin(x) + jitter(r, 1.5))
		h.PreviousYear[i] = round(temp - 2 + 3.5*math.Sin(x+0.5) + jitter(r, 1.5))
		h.Average[i] = round(temp - 1 + 3*math.Sin(x) + jitter(r, 0.5))
	}
	return h
}

var weekDays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

const (
	environmentSlots  = 6
	clearSkyIntensity = 150
	overcastIntensity = 250
	intensitySpread   = 100
)

// synthesizeEnvironmental builds the 7x6 carbon-intensity proxy grid. Clear skies
// lower the base intensity.
func synthesizeEnvironmental(condition string, r RandomSource) Environmental {
	base := overcastIntensity
	if condition == "Clear" {
		base = clearSkyIntensity
	}
	env := Environmental{Days: make([]EnvironmentalDay, 0, len(weekDays))}
	for _, day := range weekDays {
		d := EnvironmentalDay{Day: day, Hours: make([]EnvironmentSlot, 0, environmentSlots)}
		for slot := 0; slot < environmentSlots; slot++ {
			d.Hours = append(d.Hours, EnvironmentSlot{
				Time:  slotLabel(slot),
				Value: base + int(r.Float64()*intensitySpread),
			})
		}
		env.Days = append(env.Days, d)
	}
	return env
}

func slotLabel(slot int) string {
	return fmt.Sprintf("%02d:00", slot*4)
}
