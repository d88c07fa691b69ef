package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/envsafe/backend/internal/domain"
)

// PostgresRepository implements domain.HistoryRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveAssessment persists a safety assessment to PostgreSQL
func (r *PostgresRepository) SaveAssessment(ctx context.Context, rec domain.AssessmentRecord) error {
	query := `
		INSERT INTO assessments (
			location_name, lat, lon, score, level, primary_concern,
			aqi, temperature, is_mock, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		rec.LocationName, rec.Lat, rec.Lon, rec.Score, string(rec.Level), string(rec.PrimaryConcern),
		rec.AQI, rec.Temperature, rec.IsMock, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save assessment: %w", err)
	}

	return nil
}

// SaveAlert persists a triggered alert to PostgreSQL
func (r *PostgresRepository) SaveAlert(ctx context.Context, rec domain.AlertRecord) error {
	query := `
		INSERT INTO alert_logs (
			alert_id, location_name, severity, text, hour, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (alert_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query,
		rec.AlertID, rec.LocationName, string(rec.Severity), rec.Text, rec.Hour, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save alert: %w", err)
	}

	return nil
}

// GetAssessments retrieves assessment history from PostgreSQL
func (r *PostgresRepository) GetAssessments(ctx context.Context, from, to time.Time) ([]domain.AssessmentRecord, error) {
	query := `
		SELECT location_name, lat, lon, score, level, primary_concern,
			   aqi, temperature, is_mock, timestamp
		FROM assessments
		WHERE timestamp BETWEEN $1 AND $2
		ORDER BY timestamp DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query assessments: %w", err)
	}
	defer rows.Close()

	var results []domain.AssessmentRecord
	for rows.Next() {
		var rec domain.AssessmentRecord
		var level, concern string
		err := rows.Scan(
			&rec.LocationName, &rec.Lat, &rec.Lon, &rec.Score, &level, &concern,
			&rec.AQI, &rec.Temperature, &rec.IsMock, &rec.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan assessment row: %w", err)
		}
		rec.Level = domain.RiskLevel(level)
		rec.PrimaryConcern = domain.Metric(concern)
		results = append(results, rec)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
