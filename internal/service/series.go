package service

import (
	"math"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/pkg/geo"
)

// Temperature clamp bounds for the service region. The diurnal model
// never pushes a reading outside plausible local extremes.
const (
	tempFloorC   = 8
	tempCeilingC = 46
)

// SynthesizeHourlySeries expands one snapshot into a 25-sample (hours
// 0..24) series per raw metric using periodic models: a diurnal cycle,
// a midday sun pulse and two commute-hour pulses.
//
// This is a visual plausibility model, not a forecast. Values beyond
// hour 0 are synthetic and must never be presented as measured data.
// The function is pure: the same snapshot always yields byte-identical
// series, which keeps playback and tests deterministic.
func SynthesizeHourlySeries(snap *domain.LocationSnapshot) domain.HourlySeries {
	seed := seriesSeed(snap.Lat, snap.Lon)

	series := domain.HourlySeries{
		domain.MetricAQI:         make([]float64, domain.SeriesHours),
		domain.MetricTemperature: make([]float64, domain.SeriesHours),
		domain.MetricUV:          make([]float64, domain.SeriesHours),
		domain.MetricRainfall:    make([]float64, domain.SeriesHours),
		domain.MetricHumidity:    make([]float64, domain.SeriesHours),
		domain.MetricNoise:       make([]float64, domain.SeriesHours),
	}

	for h := 0; h < domain.SeriesHours; h++ {
		hf := float64(h)
		angle := 2 * math.Pi * (hf + seed) / 24

		// Zero at night, peaks near midday.
		dayPulse := math.Max(0, math.Sin(math.Pi*(hf-6)/12))

		// Two commute-hour bumps around 09:00 and 18:00.
		rushPulse := math.Exp(-math.Pow(hf-9, 2)/8) + math.Exp(-math.Pow(hf-18, 2)/8)

		temp := geo.Clamp(snap.Temperature+3.5*math.Sin(angle)+2.2*dayPulse, tempFloorC, tempCeilingC)
		humidity := geo.Clamp(snap.Humidity-10*math.Sin(angle), 20, 100)
		uv := geo.Clamp(snap.UVIndex*dayPulse, 0, 12)
		aqi := geo.Clamp(snap.AQI+18*math.Cos(angle)+12*rushPulse, 5, 450)
		noise := geo.Clamp(snap.NoiseDB+12*rushPulse+3*math.Sin(2*angle), 30, 120)
		rainfall := geo.Clamp(snap.Rainfall+1.5*(1-dayPulse)+math.Abs(math.Sin(1.4*angle)), 0, 80)

		series[domain.MetricTemperature][h] = geo.RoundTo(temp, 1)
		series[domain.MetricRainfall][h] = geo.RoundTo(rainfall, 1)
		series[domain.MetricUV][h] = geo.RoundTo(uv, 1)
		series[domain.MetricAQI][h] = math.Round(aqi)
		series[domain.MetricHumidity][h] = math.Round(humidity)
		series[domain.MetricNoise][h] = math.Round(noise)
	}

	return series
}

// seriesSeed derives the per-location phase offset from coordinates so
// neighbouring locations don't pulse in lockstep.
func seriesSeed(lat, lon float64) float64 {
	return math.Mod(math.Abs(lat*1000+lon*1000), 360)
}
