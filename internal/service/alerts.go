package service

import (
	"fmt"
	"sync"

	"github.com/envsafe/backend/internal/domain"
)

// Alert rule constants. Like the threshold breakpoints these are closed
// design values covered by tests.
const (
	heatAlertTempC    = 38
	aqiSurgeDelta     = 18
	noiseAlertDB      = 70
	maxVisibleAlerts  = 24
	condHeat          = "heat"
	condAQISurge      = "aqi-surge"
	condNoise         = "noise"
	condMetricElevate = "elevated"
)

// AlertEngine scans per-point hourly values for rule-based conditions
// and emits a deduplicated, capped alert list. Dismissed ids are
// remembered; because ids embed the hour, a dismissal stays valid
// across recomputes within the same hour and expires naturally when
// playback moves on.
type AlertEngine struct {
	mu        sync.Mutex
	dismissed map[string]struct{}
}

// NewAlertEngine creates an alert engine with an empty dismissal set.
func NewAlertEngine() *AlertEngine {
	return &AlertEngine{dismissed: make(map[string]struct{})}
}

// Dismiss hides the alert with the given id from subsequent evaluations.
func (ae *AlertEngine) Dismiss(id string) {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	ae.dismissed[id] = struct{}{}
}

// pointInput is one location's data for an evaluation pass.
type pointInput struct {
	Name   string
	Lat    float64
	Lon    float64
	Series domain.HourlySeries
}

// Evaluate runs every alert rule against every point at the given hour.
// Duplicate conditions collapse onto their composite id and the result
// is capped to the most recently produced entries in insertion order.
func (ae *AlertEngine) Evaluate(points []pointInput, hour int, selected domain.Metric) []domain.Alert {
	prev := hour - 1
	if prev < 0 {
		prev = 0
	}

	seen := make(map[string]int) // id -> index in ordered
	var ordered []domain.Alert

	add := func(a domain.Alert) {
		if i, ok := seen[a.ID]; ok {
			// Conditions are idempotent per hour, so a repeat never
			// actually changes anything; last write wins regardless.
			ordered[i] = a
			return
		}
		seen[a.ID] = len(ordered)
		ordered = append(ordered, a)
	}

	for _, p := range points {
		if p.Series == nil {
			continue
		}

		if p.Series.At(domain.MetricTemperature, hour) > heatAlertTempC {
			add(domain.Alert{
				ID:           domain.AlertID(p.Name, condHeat, hour),
				LocationName: p.Name,
				Lat:          p.Lat,
				Lon:          p.Lon,
				Severity:     domain.BandHigh,
				Text:         "heat alert",
			})
		}

		if hour > 0 && p.Series.At(domain.MetricAQI, hour)-p.Series.At(domain.MetricAQI, prev) > aqiSurgeDelta {
			add(domain.Alert{
				ID:           domain.AlertID(p.Name, condAQISurge, hour),
				LocationName: p.Name,
				Lat:          p.Lat,
				Lon:          p.Lon,
				Severity:     domain.BandSevere,
				Text:         "AQI rising fast",
			})
		}

		if p.Series.At(domain.MetricNoise, hour) > noiseAlertDB {
			add(domain.Alert{
				ID:           domain.AlertID(p.Name, condNoise, hour),
				LocationName: p.Name,
				Lat:          p.Lat,
				Lon:          p.Lon,
				Severity:     domain.BandModerate,
				Text:         "high noise",
			})
		}

		if selected != "" && selected != domain.MetricSafetyScore {
			if band := ThresholdState(selected, p.Series.At(selected, hour)); band != domain.BandNormal {
				add(domain.Alert{
					ID:           domain.AlertID(p.Name, string(selected)+"-"+condMetricElevate, hour),
					LocationName: p.Name,
					Lat:          p.Lat,
					Lon:          p.Lon,
					Severity:     elevationSeverity(band),
					Text:         fmt.Sprintf("%s elevated", selected),
				})
			}
		}
	}

	// Drop dismissed ids, then keep the 24 most recent in order.
	ae.mu.Lock()
	kept := ordered[:0]
	for _, a := range ordered {
		if _, ok := ae.dismissed[a.ID]; !ok {
			kept = append(kept, a)
		}
	}
	ae.mu.Unlock()

	if len(kept) > maxVisibleAlerts {
		kept = kept[len(kept)-maxVisibleAlerts:]
	}
	return kept
}

// elevationSeverity maps a threshold band to the generic alert severity.
func elevationSeverity(band domain.SeverityBand) domain.SeverityBand {
	switch band {
	case domain.BandSevere:
		return domain.BandSevere
	case domain.BandHigh:
		return domain.BandHigh
	default:
		return domain.BandModerate
	}
}
