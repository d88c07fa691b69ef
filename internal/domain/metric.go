package domain

// Metric identifies one of the tracked environmental/safety quantities.
type Metric string

const (
	MetricAQI         Metric = "aqi"
	MetricTemperature Metric = "temperature"
	MetricUV          Metric = "uv"
	MetricRainfall    Metric = "rainfall"
	MetricHumidity    Metric = "humidity"
	MetricNoise       Metric = "noise"
	MetricSafetyScore Metric = "safety_score"
)

// RawMetrics lists the six directly-measured metrics; safety_score is
// derived from them and is deliberately excluded here.
var RawMetrics = []Metric{
	MetricAQI,
	MetricTemperature,
	MetricUV,
	MetricRainfall,
	MetricHumidity,
	MetricNoise,
}

// AllMetrics lists every selectable metric including the derived score.
var AllMetrics = []Metric{
	MetricAQI,
	MetricTemperature,
	MetricUV,
	MetricRainfall,
	MetricHumidity,
	MetricNoise,
	MetricSafetyScore,
}

// ParseMetric validates a metric key coming from the UI.
func ParseMetric(s string) (Metric, bool) {
	for _, m := range AllMetrics {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// SeverityBand is the per-metric four-level classification.
type SeverityBand string

const (
	BandNormal   SeverityBand = "normal"
	BandModerate SeverityBand = "moderate"
	BandHigh     SeverityBand = "high"
	BandSevere   SeverityBand = "severe"
)

// RiskLevel is the coarse overall classification derived from safety_score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// TrendDirection describes how a metric is moving hour over hour.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// SeriesHours is the number of samples in a synthesized hourly series
// (hours 0 through 24 inclusive).
const SeriesHours = 25
