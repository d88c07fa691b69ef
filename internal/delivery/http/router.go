package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, engine *service.MapEngine, cache *service.SnapshotCache, repo domain.HistoryRepository) {
	handler := NewHandler(engine, cache, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		// Map endpoints
		api.Get("/map/landmarks", handler.GetLandmarks)
		api.Get("/map/view", handler.GetMapView)
		api.Get("/map/location-data", handler.GetLocationData)

		// Alert endpoints
		api.Post("/alerts/dismiss/:id", handler.DismissAlert)

		// History endpoints
		api.Get("/history/assessments", handler.GetAssessmentHistory)
	}
}
