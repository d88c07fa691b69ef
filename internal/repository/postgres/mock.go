package postgres

import (
	"context"
	"time"

	"github.com/envsafe/backend/internal/domain"
)

// MockRepository implements domain.HistoryRepository for testing/demo mode
type MockRepository struct{}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveAssessment is a no-op in mock mode
func (r *MockRepository) SaveAssessment(ctx context.Context, rec domain.AssessmentRecord) error {
	return nil
}

// SaveAlert is a no-op in mock mode
func (r *MockRepository) SaveAlert(ctx context.Context, rec domain.AlertRecord) error {
	return nil
}

// GetAssessments returns mock history
func (r *MockRepository) GetAssessments(ctx context.Context, from, to time.Time) ([]domain.AssessmentRecord, error) {
	return []domain.AssessmentRecord{
		{
			LocationName:   "Shivajinagar",
			Lat:            18.5308,
			Lon:            73.8478,
			Score:          58,
			Level:          domain.RiskModerate,
			PrimaryConcern: domain.MetricAQI,
			AQI:            142,
			Temperature:    31.5,
			IsMock:         true,
			Timestamp:      time.Now().Add(-2 * time.Hour),
		},
	}, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
