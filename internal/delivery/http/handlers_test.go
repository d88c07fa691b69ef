package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/internal/repository/postgres"
	"github.com/envsafe/backend/internal/service"
)

func stubFetch(ctx context.Context, lat, lon float64, name string) (*domain.LocationSnapshot, error) {
	if name == "" {
		name = domain.NearestLandmark(lat, lon)
	}
	return &domain.LocationSnapshot{
		Name:        name,
		Lat:         lat,
		Lon:         lon,
		AQI:         140,
		Temperature: 32,
		Humidity:    55,
		NoiseDB:     60,
		UVIndex:     5,
		Rainfall:    0.5,
		Timestamp:   time.Now().UTC(),
	}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *service.MapEngine) {
	t.Helper()

	cache := service.NewSnapshotCache(stubFetch)
	engine := service.NewMapEngine(cache, nil, service.EngineOptions{HourDebounce: -1})
	t.Cleanup(engine.Close)

	app := fiber.New()
	SetupRoutes(app, engine, cache, postgres.NewMockRepository())
	return app, engine
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetLandmarks(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/map/landmarks", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool              `json:"success"`
		Data    []domain.Landmark `json:"data"`
		Count   int               `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success || body.Count != len(domain.Landmarks) {
		t.Errorf("got %d landmarks, want %d", body.Count, len(domain.Landmarks))
	}
}

func TestGetMapView(t *testing.T) {
	app, engine := newTestApp(t)
	engine.RefreshAnchors(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/map/view?metric=aqi&hour=3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool               `json:"success"`
		Data    domain.DerivedView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(body.Data.Points) != len(domain.Landmarks) {
		t.Errorf("got %d points, want %d", len(body.Data.Points), len(domain.Landmarks))
	}
	if len(body.Data.GridCells) == 0 {
		t.Error("expected grid cells in the view")
	}
}

func TestGetMapView_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	for _, path := range []string{
		"/api/v1/map/view?hour=99",
		"/api/v1/map/view?metric=pressure",
		"/api/v1/map/view?min_lat=18.6&min_lon=73.8&max_lat=18.5&max_lon=73.9",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, resp.StatusCode)
		}
	}
}

func TestGetLocationData(t *testing.T) {
	app, _ := newTestApp(t)

	// Coordinates are required.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/map/location-data", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing coords status = %d, want 400", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/map/location-data?lat=18.5308&lon=73.8478", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Snapshot domain.LocationSnapshot `json:"snapshot"`
			Series   domain.HourlySeries     `json:"series"`
			Quality  domain.DataQuality      `json:"quality"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Data.Snapshot.Name != "Shivajinagar" {
		t.Errorf("snapshot name = %q, want Shivajinagar", body.Data.Snapshot.Name)
	}
	if len(body.Data.Series[domain.MetricAQI]) != domain.SeriesHours {
		t.Errorf("series has %d samples, want %d", len(body.Data.Series[domain.MetricAQI]), domain.SeriesHours)
	}
	if body.Data.Quality.ConfidenceLevel == "" {
		t.Error("expected a confidence level")
	}
}

func TestDismissAlert(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/dismiss/Shivajinagar-heat-3", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetAssessmentHistory(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history/assessments?hours=48", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Success bool                      `json:"success"`
		Data    []domain.AssessmentRecord `json:"data"`
		Count   int                       `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !body.Success || body.Count != len(body.Data) {
		t.Errorf("count %d does not match %d records", body.Count, len(body.Data))
	}
}
