package service

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/pkg/geo"
)

// SnapshotService fetches live environmental snapshots from the remote
// data provider. When no API key is configured, or the provider is
// unreachable, it falls back to a deterministic coordinate-seeded
// snapshot so the dashboard always renders with something plausible.
type SnapshotService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
	repo       domain.HistoryRepository

	wgBg sync.WaitGroup // tracks background history writes
}

// NewSnapshotService creates a snapshot service. repo may be a no-op
// mock; it is only used for the asynchronous assessment log.
func NewSnapshotService(baseURL, apiKey string, repo domain.HistoryRepository) *SnapshotService {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "env-api",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &SnapshotService{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		circuit: cb,
		repo:    repo,
	}
}

// WaitBackground blocks until pending history writes complete. Call
// during graceful shutdown to avoid dropped writes.
func (s *SnapshotService) WaitBackground() {
	s.wgBg.Wait()
}

// envAPIResponse mirrors the provider's aggregated environment payload.
type envAPIResponse struct {
	AQI         float64 `json:"aqi"`
	PM25        float64 `json:"pm25"`
	PM10        float64 `json:"pm10"`
	Temperature float64 `json:"temperature"`
	FeelsLike   float64 `json:"feels_like"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
	Rainfall    float64 `json:"rainfall"`
	UVIndex     float64 `json:"uv_index"`
	NoiseDB     float64 `json:"noise_db"`
	Visibility  float64 `json:"visibility"`
	WeatherDesc string  `json:"weather_desc"`
}

// Fetch retrieves one location snapshot. The returned snapshot is
// immutable: callers must treat it as read-only and replace, never
// mutate.
func (s *SnapshotService) Fetch(ctx context.Context, lat, lon float64, name string) (*domain.LocationSnapshot, error) {
	if name == "" {
		name = domain.NearestLandmark(lat, lon)
	}

	if s.apiKey == "" {
		return s.finish(s.mockSnapshot(lat, lon, name)), nil
	}

	values := url.Values{}
	values.Set("lat", fmt.Sprintf("%f", lat))
	values.Set("lon", fmt.Sprintf("%f", lon))
	values.Set("key", s.apiKey)

	reqURL := fmt.Sprintf("%s/v1/environment?%s", s.baseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: failed to create request: %w", err)
	}

	result, err := s.circuit.Execute(func() (interface{}, error) {
		resp, execErr := s.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("snapshot: provider returned status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Provider down or circuit open: degrade to simulated data.
		log.Printf("snapshot: provider unavailable for %s, using simulated data: %v", name, err)
		return s.finish(s.mockSnapshot(lat, lon, name)), nil
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	var payload envAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("snapshot: failed to decode response: %w", err)
	}

	snap := &domain.LocationSnapshot{
		Name:        name,
		Lat:         lat,
		Lon:         lon,
		AQI:         payload.AQI,
		PM25:        payload.PM25,
		PM10:        payload.PM10,
		Temperature: payload.Temperature,
		FeelsLike:   payload.FeelsLike,
		Humidity:    payload.Humidity,
		WindSpeed:   payload.WindSpeed,
		Rainfall:    payload.Rainfall,
		UVIndex:     payload.UVIndex,
		NoiseDB:     payload.NoiseDB,
		Visibility:  payload.Visibility,
		WeatherDesc: payload.WeatherDesc,
		Timestamp:   time.Now().UTC(),
	}

	return s.finish(snap), nil
}

// finish applies location variance, derives the safety assessment and
// kicks off the asynchronous history write.
func (s *SnapshotService) finish(snap *domain.LocationSnapshot) *domain.LocationSnapshot {
	applyLocationVariance(snap)
	snap.Assessment = AssessSnapshot(snap)

	if s.repo != nil {
		s.wgBg.Add(1)
		go func() {
			defer s.wgBg.Done()
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			rec := domain.AssessmentRecord{
				LocationName:   snap.Name,
				Lat:            snap.Lat,
				Lon:            snap.Lon,
				Score:          snap.Assessment.Score,
				Level:          snap.Assessment.Level,
				PrimaryConcern: snap.Assessment.PrimaryConcern,
				AQI:            snap.AQI,
				Temperature:    snap.Temperature,
				IsMock:         snap.IsMock,
				Timestamp:      snap.Timestamp,
			}
			if err := s.repo.SaveAssessment(bgCtx, rec); err != nil {
				log.Printf("snapshot: failed to save assessment for %s: %v", snap.Name, err)
			}
		}()
	}

	return snap
}

// mockSnapshot builds a deterministic simulated reading seeded from the
// coordinates, so the same point always renders the same conditions.
func (s *SnapshotService) mockSnapshot(lat, lon float64, name string) *domain.LocationSnapshot {
	h := coordHash(lat, lon)

	return &domain.LocationSnapshot{
		Name:        name,
		Lat:         lat,
		Lon:         lon,
		AQI:         float64(70 + h%90),
		PM25:        geo.RoundTo(float64(25+(h>>2)%60), 1),
		PM10:        geo.RoundTo(float64(45+(h>>3)%80), 1),
		Temperature: float64(24 + (h>>4)%12),
		FeelsLike:   float64(25 + (h>>4)%13),
		Humidity:    float64(45 + (h>>6)%35),
		WindSpeed:   geo.RoundTo(1.5+float64((h>>8)%40)/10, 1),
		Rainfall:    geo.RoundTo(float64((h>>10)%30)/10, 1),
		UVIndex:     float64(3 + (h>>12)%7),
		NoiseDB:     float64(48 + (h>>14)%25),
		Visibility:  float64(4000 + (h>>5)%6000),
		WeatherDesc: "Partly cloudy",
		Timestamp:   time.Now().UTC(),
		IsMock:      true,
	}
}

// varianceZone models an area whose land use skews air quality: green
// cover pulls AQI down, industry and heavy traffic push it up.
type varianceZone struct {
	lat, lon float64
	radius   float64 // degrees
	factor   float64
	label    string
}

var varianceZones = []varianceZone{
	// Green / low-pollution zones
	{18.458, 73.804, 0.020, -0.18, "Sinhagad foothills"},
	{18.554, 73.808, 0.015, -0.15, "Pashan lake area"},
	{18.537, 73.894, 0.012, -0.10, "Koregaon Park gardens"},
	{18.507, 73.808, 0.015, -0.08, "Kothrud residential"},
	// Industrial / heavy traffic zones
	{18.527, 73.953, 0.025, +0.22, "Pimpri-Chinchwad industrial"},
	{18.633, 73.795, 0.020, +0.15, "Bhosari MIDC"},
	{18.509, 73.926, 0.015, +0.12, "Hadapsar industrial"},
	// Traffic hubs
	{18.531, 73.848, 0.012, +0.10, "Shivajinagar junction"},
	{18.530, 73.879, 0.010, +0.08, "Pune Station traffic"},
	// IT parks
	{18.591, 73.739, 0.018, -0.06, "Hinjewadi IT Park"},
	{18.559, 73.787, 0.012, -0.05, "Baner residential"},
}

// applyLocationVariance nudges AQI and particulates by land-use zone
// influence plus small deterministic coordinate noise, so nearby points
// served by the same monitoring station still differ on the map.
func applyLocationVariance(snap *domain.LocationSnapshot) {
	var total float64
	for _, z := range varianceZones {
		dist := math.Hypot(snap.Lat-z.lat, snap.Lon-z.lon)
		if dist < z.radius {
			influence := 1.0 - dist/z.radius
			total += z.factor * influence
		}
	}

	// Deterministic noise in the ±8% range.
	noise := float64(coordHash(snap.Lat, snap.Lon)%160-80) / 1000.0

	adjustment := geo.Clamp(total+noise, -0.35, 0.35)

	snap.AQI = math.Max(10, math.Round(snap.AQI*(1+adjustment)))
	snap.PM25 = math.Max(1, geo.RoundTo(snap.PM25*(1+adjustment*0.9), 1))
	snap.PM10 = math.Max(2, geo.RoundTo(snap.PM10*(1+adjustment*0.85), 1))
}

// coordHash digests a 4-decimal coordinate pair into a stable integer.
func coordHash(lat, lon float64) int {
	sum := md5.Sum([]byte(fmt.Sprintf("%.4f,%.4f", lat, lon)))
	return int(binary.BigEndian.Uint32(sum[:4]) & 0x7fffffff)
}
