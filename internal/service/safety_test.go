package service

import (
	"math"
	"strings"
	"testing"

	"github.com/envsafe/backend/internal/domain"
)

func TestWeightProfilesSumToOne(t *testing.T) {
	for name, weights := range map[string]map[domain.Metric]float64{
		"sensitive": sensitiveWeights,
		"general":   generalWeights,
	} {
		var sum float64
		for _, w := range weights {
			sum += w
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("%s weights sum to %v, want 1.0", name, sum)
		}
	}
}

func TestComputeSafetyScore_KnownValues(t *testing.T) {
	// High-pollution, hot afternoon in a moderately noisy area.
	metrics := map[domain.Metric]float64{
		domain.MetricAQI:         280,
		domain.MetricTemperature: 41,
		domain.MetricHumidity:    60,
		domain.MetricNoise:       55,
		domain.MetricUV:          6,
		domain.MetricRainfall:    1,
	}

	if got := ComputeSafetyScore(metrics, true); got != 77 {
		t.Errorf("sensitive score = %d, want 77", got)
	}
	if got := ComputeSafetyScore(metrics, false); got != 67 {
		t.Errorf("general score = %d, want 67", got)
	}

	if level := RiskLevelForScore(77); level != domain.RiskHigh {
		t.Errorf("sensitive level = %s, want HIGH", level)
	}
	if level := RiskLevelForScore(67); level != domain.RiskHigh {
		t.Errorf("general level = %s, want HIGH", level)
	}
}

func TestComputeSafetyScore_Bounds(t *testing.T) {
	calm := map[domain.Metric]float64{
		domain.MetricAQI:         0,
		domain.MetricTemperature: 10,
		domain.MetricHumidity:    20,
		domain.MetricNoise:       35,
		domain.MetricUV:          0,
		domain.MetricRainfall:    0,
	}
	if got := ComputeSafetyScore(calm, false); got != 0 {
		t.Errorf("calm conditions score = %d, want 0", got)
	}

	extreme := map[domain.Metric]float64{
		domain.MetricAQI:         1000,
		domain.MetricTemperature: 60,
		domain.MetricHumidity:    100,
		domain.MetricNoise:       150,
		domain.MetricUV:          15,
		domain.MetricRainfall:    100,
	}
	if got := ComputeSafetyScore(extreme, true); got != 100 {
		t.Errorf("extreme conditions score = %d, want 100", got)
	}
}

func TestSafetyScoreSeries(t *testing.T) {
	series := SynthesizeHourlySeries(testSnapshot())

	scores := SafetyScoreSeries(series, false)
	if len(scores) != domain.SeriesHours {
		t.Fatalf("expected %d scores, got %d", domain.SeriesHours, len(scores))
	}
	for h, s := range scores {
		if s < 0 || s > 100 {
			t.Errorf("hour %d: score %v outside [0, 100]", h, s)
		}
		if s != math.Trunc(s) {
			t.Errorf("hour %d: score %v is not a whole number", h, s)
		}
	}
}

func TestPrimaryRisk(t *testing.T) {
	metrics := map[domain.Metric]float64{
		domain.MetricAQI:         280,
		domain.MetricTemperature: 41,
		domain.MetricHumidity:    60,
		domain.MetricNoise:       55,
		domain.MetricUV:          6,
		domain.MetricRainfall:    1,
	}

	if got := PrimaryRisk(metrics, false); got != domain.MetricAQI {
		t.Errorf("general primary risk = %s, want aqi", got)
	}
	if got := PrimaryRisk(metrics, true); got != domain.MetricAQI {
		t.Errorf("sensitive primary risk = %s, want aqi", got)
	}

	// Heat-dominated conditions shift the concern.
	hot := map[domain.Metric]float64{
		domain.MetricAQI:         20,
		domain.MetricTemperature: 44,
		domain.MetricHumidity:    40,
		domain.MetricNoise:       40,
		domain.MetricUV:          2,
		domain.MetricRainfall:    0,
	}
	if got := PrimaryRisk(hot, false); got != domain.MetricTemperature {
		t.Errorf("hot primary risk = %s, want temperature", got)
	}
}

func TestAssessSnapshot(t *testing.T) {
	snap := &domain.LocationSnapshot{
		Name:        "Hadapsar",
		Lat:         18.5089,
		Lon:         73.9260,
		AQI:         280,
		Temperature: 41,
		Humidity:    60,
		NoiseDB:     55,
		UVIndex:     6,
		Rainfall:    1,
	}

	a := AssessSnapshot(snap)
	if a.Score != 67 {
		t.Errorf("score = %d, want 67", a.Score)
	}
	if a.SensitiveScore != 77 {
		t.Errorf("sensitive score = %d, want 77", a.SensitiveScore)
	}
	if a.Level != domain.RiskHigh {
		t.Errorf("level = %s, want HIGH", a.Level)
	}
	if a.PrimaryConcern != domain.MetricAQI {
		t.Errorf("primary concern = %s, want aqi", a.PrimaryConcern)
	}
	if !strings.Contains(a.Summary, "aqi") {
		t.Errorf("summary %q should name the primary concern", a.Summary)
	}
}
