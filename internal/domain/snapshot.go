package domain

import (
	"fmt"
	"time"
)

// LocationSnapshot is a single real-time reading for one named place.
// Immutable once fetched; a re-fetch replaces the whole snapshot.
type LocationSnapshot struct {
	Name        string    `json:"name"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	AQI         float64   `json:"aqi"`
	PM25        float64   `json:"pm25"`
	PM10        float64   `json:"pm10"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Rainfall    float64   `json:"rainfall"`
	UVIndex     float64   `json:"uv_index"`
	NoiseDB     float64   `json:"noise_db"`
	Visibility  float64   `json:"visibility"`
	WeatherDesc string    `json:"weather_desc"`
	Timestamp   time.Time `json:"timestamp"`
	IsMock      bool      `json:"is_mock"`

	Assessment SafetyAssessment `json:"assessment"`
}

// CacheKey derives the identity of a snapshot: the location name when
// present, otherwise a 4-decimal-rounded coordinate string.
func CacheKey(lat, lon float64, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

// Metric returns the snapshot's value for one of the six raw metrics.
func (s *LocationSnapshot) Metric(m Metric) float64 {
	switch m {
	case MetricAQI:
		return s.AQI
	case MetricTemperature:
		return s.Temperature
	case MetricUV:
		return s.UVIndex
	case MetricRainfall:
		return s.Rainfall
	case MetricHumidity:
		return s.Humidity
	case MetricNoise:
		return s.NoiseDB
	}
	return 0
}

// SafetyAssessment is the derived risk view attached to every snapshot.
type SafetyAssessment struct {
	Score          int       `json:"score"`
	Level          RiskLevel `json:"level"`
	SensitiveScore int       `json:"sensitive_score"`
	PrimaryConcern Metric    `json:"primary_concern"`
	Summary        string    `json:"summary"`
}

// HourlySeries maps each metric to 25 values covering hours 0..24,
// deterministically derived from exactly one snapshot.
type HourlySeries map[Metric][]float64

// At returns the value for a metric at the given hour, clamped to the
// series range so callers never index out of bounds.
func (h HourlySeries) At(m Metric, hour int) float64 {
	vals, ok := h[m]
	if !ok || len(vals) == 0 {
		return 0
	}
	if hour < 0 {
		hour = 0
	}
	if hour >= len(vals) {
		hour = len(vals) - 1
	}
	return vals[hour]
}

// FreshnessLabel describes how recent a snapshot is.
type FreshnessLabel string

const (
	FreshnessFresh FreshnessLabel = "Fresh"
	FreshnessAging FreshnessLabel = "Aging"
	FreshnessStale FreshnessLabel = "Stale"
)

// DataQuality reports freshness and confidence for one snapshot.
type DataQuality struct {
	Freshness        FreshnessLabel `json:"freshness"`
	FreshnessMinutes int            `json:"freshness_minutes"`
	ConfidenceScore  int            `json:"confidence_score"`
	ConfidenceLevel  string         `json:"confidence_level"`
	Reasons          []string       `json:"reasons"`
}
