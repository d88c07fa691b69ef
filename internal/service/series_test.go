package service

import (
	"math"
	"reflect"
	"testing"

	"github.com/envsafe/backend/internal/domain"
)

func testSnapshot() *domain.LocationSnapshot {
	return &domain.LocationSnapshot{
		Name:        "Shivajinagar",
		Lat:         18.5308,
		Lon:         73.8478,
		AQI:         145,
		Temperature: 31.2,
		Humidity:    58,
		Rainfall:    0.4,
		UVIndex:     7,
		NoiseDB:     62,
	}
}

func TestSynthesizeHourlySeries_Deterministic(t *testing.T) {
	snap := testSnapshot()

	a := SynthesizeHourlySeries(snap)
	b := SynthesizeHourlySeries(snap)

	if !reflect.DeepEqual(a, b) {
		t.Fatal("same snapshot produced different series")
	}
}

func TestSynthesizeHourlySeries_LengthAndBounds(t *testing.T) {
	series := SynthesizeHourlySeries(testSnapshot())

	bounds := map[domain.Metric][2]float64{
		domain.MetricTemperature: {8, 46},
		domain.MetricHumidity:    {20, 100},
		domain.MetricUV:          {0, 12},
		domain.MetricAQI:         {5, 450},
		domain.MetricNoise:       {30, 120},
		domain.MetricRainfall:    {0, 80},
	}

	for _, m := range domain.RawMetrics {
		vals, ok := series[m]
		if !ok {
			t.Fatalf("missing series for %s", m)
		}
		if len(vals) != domain.SeriesHours {
			t.Fatalf("%s: expected %d samples, got %d", m, domain.SeriesHours, len(vals))
		}
		b := bounds[m]
		for h, v := range vals {
			if v < b[0] || v > b[1] {
				t.Errorf("%s hour %d: value %v outside [%v, %v]", m, h, v, b[0], b[1])
			}
		}
	}
}

func TestSynthesizeHourlySeries_Rounding(t *testing.T) {
	series := SynthesizeHourlySeries(testSnapshot())

	// AQI, humidity and noise are whole numbers.
	for _, m := range []domain.Metric{domain.MetricAQI, domain.MetricHumidity, domain.MetricNoise} {
		for h, v := range series[m] {
			if v != math.Round(v) {
				t.Errorf("%s hour %d: expected integer value, got %v", m, h, v)
			}
		}
	}

	// Temperature, rainfall and UV carry one decimal place.
	for _, m := range []domain.Metric{domain.MetricTemperature, domain.MetricRainfall, domain.MetricUV} {
		for h, v := range series[m] {
			scaled := v * 10
			if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
				t.Errorf("%s hour %d: expected one decimal place, got %v", m, h, v)
			}
		}
	}
}

func TestSynthesizeHourlySeries_PhaseVariesByLocation(t *testing.T) {
	a := testSnapshot()
	b := testSnapshot()
	b.Lat, b.Lon = 18.5913, 73.7389

	sa := SynthesizeHourlySeries(a)
	sb := SynthesizeHourlySeries(b)

	if reflect.DeepEqual(sa[domain.MetricAQI], sb[domain.MetricAQI]) {
		t.Fatal("different coordinates produced identical AQI phase")
	}
}

func TestSeriesSeed(t *testing.T) {
	seed := seriesSeed(18.5308, 73.8478)
	if seed < 0 || seed >= 360 {
		t.Fatalf("seed %v outside [0, 360)", seed)
	}
	if seriesSeed(18.5308, 73.8478) != seed {
		t.Fatal("seed is not deterministic")
	}
	if seriesSeed(-18.5308, -73.8478) != seed {
		t.Fatal("seed should depend on the absolute coordinate sum")
	}
}
