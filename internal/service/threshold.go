package service

import "github.com/envsafe/backend/internal/domain"

// Per-metric severity breakpoints. These are closed design constants:
// changing any value changes product behaviour, so the tests pin the
// exact boundaries.
type bandBreakpoints struct {
	moderate, high, severe float64
}

var metricBreakpoints = map[domain.Metric]bandBreakpoints{
	domain.MetricAQI:         {100, 150, 200},
	domain.MetricTemperature: {30, 35, 40},
	domain.MetricNoise:       {65, 75, 90},
	domain.MetricUV:          {6, 8, 10},
	domain.MetricRainfall:    {6, 12, 20},
}

// ThresholdState maps a metric's instantaneous value to its severity
// band.
//
// Humidity is special-cased to three bands because both extremes are
// risky: 30-70% is normal, outside 20-85% is high, anything between is
// moderate. safety_score is inverted since a higher score means worse
// conditions.
func ThresholdState(m domain.Metric, value float64) domain.SeverityBand {
	switch m {
	case domain.MetricHumidity:
		switch {
		case value >= 30 && value <= 70:
			return domain.BandNormal
		case value < 20 || value > 85:
			return domain.BandHigh
		default:
			return domain.BandModerate
		}
	case domain.MetricSafetyScore:
		switch {
		case value < 40:
			return domain.BandNormal
		case value < 60:
			return domain.BandModerate
		case value < 80:
			return domain.BandHigh
		default:
			return domain.BandSevere
		}
	}

	bp, ok := metricBreakpoints[m]
	if !ok {
		return domain.BandNormal
	}
	switch {
	case value < bp.moderate:
		return domain.BandNormal
	case value < bp.high:
		return domain.BandModerate
	case value < bp.severe:
		return domain.BandHigh
	default:
		return domain.BandSevere
	}
}

// RiskLevelForScore maps a safety score to the coarse overall level.
func RiskLevelForScore(score float64) domain.RiskLevel {
	switch {
	case score < 30:
		return domain.RiskLow
	case score < 60:
		return domain.RiskModerate
	default:
		return domain.RiskHigh
	}
}
