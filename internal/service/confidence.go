package service

import (
	"time"

	"github.com/envsafe/backend/internal/domain"
)

// SnapshotQuality reports how fresh a snapshot is and how much the
// guidance derived from it can be trusted. Simulated data and age both
// lower confidence; the reasons surface in the UI next to the score.
func SnapshotQuality(snap *domain.LocationSnapshot, now time.Time) domain.DataQuality {
	minutes := int(now.Sub(snap.Timestamp).Minutes())
	if minutes < 0 {
		minutes = 0
	}

	var freshness domain.FreshnessLabel
	switch {
	case minutes <= 30:
		freshness = domain.FreshnessFresh
	case minutes <= 120:
		freshness = domain.FreshnessAging
	default:
		freshness = domain.FreshnessStale
	}

	score := 100
	var reasons []string

	switch {
	case minutes > 120:
		score -= 30
		reasons = append(reasons, "Data is over 2 hours old")
	case minutes > 60:
		score -= 20
		reasons = append(reasons, "Data is over 1 hour old")
	}

	if snap.IsMock {
		score -= 25
		reasons = append(reasons, "Using simulated data; live provider unavailable")
	}

	if score < 0 {
		score = 0
	}

	var level string
	switch {
	case score >= 80:
		level = "HIGH"
	case score >= 60:
		level = "MEDIUM"
	default:
		level = "LOW"
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "Data source is live and recent")
	}

	return domain.DataQuality{
		Freshness:        freshness,
		FreshnessMinutes: minutes,
		ConfidenceScore:  score,
		ConfidenceLevel:  level,
		Reasons:          reasons,
	}
}
