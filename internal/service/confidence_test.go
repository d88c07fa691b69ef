package service

import (
	"testing"
	"time"

	"github.com/envsafe/backend/internal/domain"
)

func TestSnapshotQuality(t *testing.T) {
	now := time.Now().UTC()

	fresh := &domain.LocationSnapshot{Timestamp: now.Add(-5 * time.Minute)}
	q := SnapshotQuality(fresh, now)
	if q.Freshness != domain.FreshnessFresh {
		t.Errorf("freshness = %s, want Fresh", q.Freshness)
	}
	if q.ConfidenceScore != 100 || q.ConfidenceLevel != "HIGH" {
		t.Errorf("fresh live snapshot quality = %d/%s, want 100/HIGH", q.ConfidenceScore, q.ConfidenceLevel)
	}
	if len(q.Reasons) == 0 {
		t.Error("expected a default reason for pristine data")
	}

	aging := &domain.LocationSnapshot{Timestamp: now.Add(-90 * time.Minute)}
	q = SnapshotQuality(aging, now)
	if q.Freshness != domain.FreshnessAging {
		t.Errorf("freshness = %s, want Aging", q.Freshness)
	}
	if q.ConfidenceScore != 80 {
		t.Errorf("aging score = %d, want 80", q.ConfidenceScore)
	}

	staleMock := &domain.LocationSnapshot{Timestamp: now.Add(-130 * time.Minute), IsMock: true}
	q = SnapshotQuality(staleMock, now)
	if q.Freshness != domain.FreshnessStale {
		t.Errorf("freshness = %s, want Stale", q.Freshness)
	}
	if q.ConfidenceScore != 45 || q.ConfidenceLevel != "LOW" {
		t.Errorf("stale mock quality = %d/%s, want 45/LOW", q.ConfidenceScore, q.ConfidenceLevel)
	}
	if len(q.Reasons) != 2 {
		t.Errorf("got %d reasons, want 2", len(q.Reasons))
	}
}

func TestSnapshotQuality_FutureTimestamp(t *testing.T) {
	now := time.Now().UTC()
	snap := &domain.LocationSnapshot{Timestamp: now.Add(10 * time.Minute)}

	q := SnapshotQuality(snap, now)
	if q.FreshnessMinutes != 0 {
		t.Errorf("future timestamp age = %d minutes, want 0", q.FreshnessMinutes)
	}
}
