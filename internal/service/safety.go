package service

import (
	"fmt"
	"math"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/pkg/geo"
)

// metricRange holds the min-max clamp used to normalize a raw metric
// into [0,1] before weighting.
type metricRange struct {
	min, max float64
}

var normalizationRanges = map[domain.Metric]metricRange{
	domain.MetricAQI:         {0, 300},
	domain.MetricTemperature: {10, 45},
	domain.MetricNoise:       {35, 100},
	domain.MetricUV:          {0, 12},
	domain.MetricHumidity:    {20, 100},
	domain.MetricRainfall:    {0, 30},
}

// Weight profiles. Each must sum to exactly 1.0; the tests pin this.
// The sensitive profile shifts weight toward air quality, heat and UV,
// the factors behind most acute health events in sensitive populations.
var (
	sensitiveWeights = map[domain.Metric]float64{
		domain.MetricAQI:         0.40,
		domain.MetricTemperature: 0.30,
		domain.MetricUV:          0.20,
		domain.MetricNoise:       0.05,
		domain.MetricHumidity:    0.03,
		domain.MetricRainfall:    0.02,
	}
	generalWeights = map[domain.Metric]float64{
		domain.MetricAQI:         0.30,
		domain.MetricTemperature: 0.25,
		domain.MetricNoise:       0.15,
		domain.MetricUV:          0.15,
		domain.MetricHumidity:    0.10,
		domain.MetricRainfall:    0.05,
	}
)

// scoreWeights returns the active weight profile.
func scoreWeights(sensitiveMode bool) map[domain.Metric]float64 {
	if sensitiveMode {
		return sensitiveWeights
	}
	return generalWeights
}

// normalizeMetric maps a raw metric value into [0,1] via its clamp range.
func normalizeMetric(m domain.Metric, value float64) float64 {
	r, ok := normalizationRanges[m]
	if !ok {
		return 0
	}
	return geo.Clamp((value-r.min)/(r.max-r.min), 0, 1)
}

// ComputeSafetyScore combines the six raw metrics into a single 0-100
// score under the selected weight profile.
func ComputeSafetyScore(metrics map[domain.Metric]float64, sensitiveMode bool) int {
	weights := scoreWeights(sensitiveMode)

	var sum float64
	for m, w := range weights {
		sum += normalizeMetric(m, metrics[m]) * w
	}

	return int(math.Round(100 * sum))
}

// SafetyScoreSeries derives a 25-sample safety_score series from the
// raw metric series of one location.
func SafetyScoreSeries(series domain.HourlySeries, sensitiveMode bool) []float64 {
	scores := make([]float64, domain.SeriesHours)
	for h := 0; h < domain.SeriesHours; h++ {
		metrics := make(map[domain.Metric]float64, len(domain.RawMetrics))
		for _, m := range domain.RawMetrics {
			metrics[m] = series.At(m, h)
		}
		scores[h] = float64(ComputeSafetyScore(metrics, sensitiveMode))
	}
	return scores
}

// PrimaryRisk returns the metric with the largest weighted normalized
// contribution to the safety score, i.e. the dominant concern.
func PrimaryRisk(metrics map[domain.Metric]float64, sensitiveMode bool) domain.Metric {
	weights := scoreWeights(sensitiveMode)

	best := domain.MetricAQI
	bestContribution := -1.0
	for _, m := range domain.RawMetrics {
		contribution := normalizeMetric(m, metrics[m]) * weights[m]
		if contribution > bestContribution {
			bestContribution = contribution
			best = m
		}
	}
	return best
}

// AssessSnapshot derives the safety assessment attached to a snapshot.
func AssessSnapshot(snap *domain.LocationSnapshot) domain.SafetyAssessment {
	metrics := make(map[domain.Metric]float64, len(domain.RawMetrics))
	for _, m := range domain.RawMetrics {
		metrics[m] = snap.Metric(m)
	}

	score := ComputeSafetyScore(metrics, false)
	sensitiveScore := ComputeSafetyScore(metrics, true)
	level := RiskLevelForScore(float64(score))
	primary := PrimaryRisk(metrics, false)

	return domain.SafetyAssessment{
		Score:          score,
		SensitiveScore: sensitiveScore,
		Level:          level,
		PrimaryConcern: primary,
		Summary:        assessmentSummary(level, primary),
	}
}

func assessmentSummary(level domain.RiskLevel, primary domain.Metric) string {
	switch level {
	case domain.RiskLow:
		return "Conditions are safe for outdoor activity."
	case domain.RiskModerate:
		return fmt.Sprintf("Moderate caution needed; main concern is %s.", primary)
	default:
		return fmt.Sprintf("High risk conditions driven by %s; limit outdoor exposure.", primary)
	}
}
