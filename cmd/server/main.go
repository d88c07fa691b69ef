package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/envsafe/backend/internal/delivery/http"
	"github.com/envsafe/backend/internal/domain"
	"github.com/envsafe/backend/internal/repository/postgres"
	"github.com/envsafe/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running without history persistence")
		pool = nil
	} else {
		defer pool.Close()
		log.Println("Connected to PostgreSQL")
	}

	// Dependency Injection: Repositories
	var repo domain.HistoryRepository
	if pool != nil {
		repo = postgres.NewPostgresRepository(pool)
	} else {
		repo = postgres.NewMockRepository()
	}

	// Dependency Injection: Services
	snapshotSvc := service.NewSnapshotService(cfg.EnvAPIBaseURL, cfg.EnvAPIKey, repo)
	cache := service.NewSnapshotCache(snapshotSvc.Fetch)
	engine := service.NewMapEngine(cache, repo, service.EngineOptions{})
	defer engine.Close()

	// Warm the anchor cache before the first request lands
	engine.WarmUp()

	// Periodic anchor refresh keeps cached snapshots from going stale
	scheduler := gocron.NewScheduler(time.UTC)
	_, err = scheduler.Every(cfg.RefreshMinutes).Minutes().Do(func() {
		refreshCtx, refreshCancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer refreshCancel()
		engine.RefreshAnchors(refreshCtx)
	})
	if err != nil {
		log.Printf("Warning: Could not schedule anchor refresh: %v", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "EnvSafe API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	http.SetupRoutes(app, engine, cache, repo)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Let pending history writes finish before the pool closes
	snapshotSvc.WaitBackground()
	log.Println("Server exited gracefully")
}

type Config struct {
	DatabaseURL    string
	EnvAPIBaseURL  string
	EnvAPIKey      string
	Port           string
	RefreshMinutes int
	Env            string
}

func loadConfig() *Config {
	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		EnvAPIBaseURL:  getEnv("ENV_API_BASE_URL", "https://api.envdata.example.com"),
		EnvAPIKey:      getEnv("ENV_API_KEY", ""),
		Port:           getEnv("PORT", "8080"),
		RefreshMinutes: getEnvInt("REFRESH_INTERVAL_MINUTES", 30),
		Env:            getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
