package domain

import (
	"context"
	"time"
)

// AssessmentRecord is one persisted safety assessment for a location.
type AssessmentRecord struct {
	LocationName   string    `json:"location_name"`
	Lat            float64   `json:"lat"`
	Lon            float64   `json:"lon"`
	Score          int       `json:"score"`
	Level          RiskLevel `json:"level"`
	PrimaryConcern Metric    `json:"primary_concern"`
	AQI            float64   `json:"aqi"`
	Temperature    float64   `json:"temperature"`
	IsMock         bool      `json:"is_mock"`
	Timestamp      time.Time `json:"timestamp"`
}

// AlertRecord is one persisted triggered alert.
type AlertRecord struct {
	AlertID      string       `json:"alert_id"`
	LocationName string       `json:"location_name"`
	Severity     SeverityBand `json:"severity"`
	Text         string       `json:"text"`
	Hour         int          `json:"hour"`
	Timestamp    time.Time    `json:"timestamp"`
}

// HistoryRepository defines the optional persistence surface. The engine
// itself keeps all state in memory; this log exists for the history
// endpoints and is written asynchronously, off the recompute path.
type HistoryRepository interface {
	// SaveAssessment persists a safety assessment
	SaveAssessment(ctx context.Context, rec AssessmentRecord) error

	// SaveAlert persists a triggered alert
	SaveAlert(ctx context.Context, rec AlertRecord) error

	// GetAssessments retrieves assessment history in a time range
	GetAssessments(ctx context.Context, from, to time.Time) ([]AssessmentRecord, error)

	// Health checks connectivity to the backing store
	Health(ctx context.Context) error
}
