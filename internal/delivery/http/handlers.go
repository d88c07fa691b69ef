package http

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	engine   *service.MapEngine
	cache    *service.SnapshotCache
	repo     domain.HistoryRepository
	validate *validator.Validate
}

// NewHandler creates a new handler
func NewHandler(engine *service.MapEngine, cache *service.SnapshotCache, repo domain.HistoryRepository) *Handler {
	return &Handler{
		engine:   engine,
		cache:    cache,
		repo:     repo,
		validate: validator.New(),
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	dbStatus := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		dbStatus = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "envsafe-backend",
		"version":  "1.0.0",
		"database": dbStatus,
	})
}

// GetLandmarks returns the fixed anchor location catalogue
func (h *Handler) GetLandmarks(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    domain.Landmarks,
		"count":   len(domain.Landmarks),
	})
}

// viewRequest carries the UI inputs for one map view query.
type viewRequest struct {
	MinLat    float64 `query:"min_lat" validate:"omitempty,gte=-90,lte=90"`
	MinLon    float64 `query:"min_lon" validate:"omitempty,gte=-180,lte=180"`
	MaxLat    float64 `query:"max_lat" validate:"omitempty,gte=-90,lte=90"`
	MaxLon    float64 `query:"max_lon" validate:"omitempty,gte=-180,lte=180"`
	Metric    string  `query:"metric" validate:"omitempty,oneof=aqi temperature uv rainfall humidity noise safety_score"`
	Hour      int     `query:"hour" validate:"gte=0,lte=24"`
	Sensitive bool    `query:"sensitive"`
}

// GetMapView applies the UI inputs and returns the derived map view
func (h *Handler) GetMapView(c *fiber.Ctx) error {
	var req viewRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters: "+err.Error())
	}

	if req.MinLat != 0 || req.MinLon != 0 || req.MaxLat != 0 || req.MaxLon != 0 {
		if req.MinLat >= req.MaxLat || req.MinLon >= req.MaxLon {
			return fiber.NewError(fiber.StatusBadRequest, "Bounding box must have positive extent")
		}
		h.engine.SetRegion(domain.BoundingBox{
			MinLat: req.MinLat,
			MinLon: req.MinLon,
			MaxLat: req.MaxLat,
			MaxLon: req.MaxLon,
		})
	}
	if req.Metric != "" {
		m, ok := domain.ParseMetric(req.Metric)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "Unknown metric")
		}
		h.engine.SetMetric(m)
	}
	h.engine.SetSensitiveMode(req.Sensitive)
	h.engine.SetHour(req.Hour)

	view := h.engine.View()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    view,
	})
}

// locationRequest identifies one coordinate for a detail query.
type locationRequest struct {
	Lat  float64 `query:"lat" validate:"required,gte=-90,lte=90"`
	Lon  float64 `query:"lon" validate:"required,gte=-180,lte=180"`
	Name string  `query:"name" validate:"omitempty,max=100"`
}

// GetLocationData returns the snapshot, hourly series and data quality
// for one location, fetching it on demand
func (h *Handler) GetLocationData(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}
	if err := h.validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "lat and lon are required coordinates")
	}

	snap, err := h.cache.GetOrFetch(c.Context(), req.Lat, req.Lon, req.Name)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "Failed to fetch location data")
	}

	series, _ := h.cache.Series(domain.CacheKey(snap.Lat, snap.Lon, snap.Name))
	quality := service.SnapshotQuality(snap, time.Now().UTC())

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"snapshot":   snap,
			"series":     series,
			"assessment": snap.Assessment,
			"quality":    quality,
		},
	})
}

// DismissAlert hides an alert by id
func (h *Handler) DismissAlert(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Alert id is required")
	}

	h.engine.Dismiss(id)
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// GetAssessmentHistory returns persisted assessments within a time range
func (h *Handler) GetAssessmentHistory(c *fiber.Ctx) error {
	ctx := c.Context()

	hours := c.QueryInt("hours", 24)
	if hours < 1 || hours > 720 { // max 30 days
		hours = 24
	}

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	data, err := h.repo.GetAssessments(ctx, from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch assessment history")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}
