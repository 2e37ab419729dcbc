package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/foxxcyber/pantry-match/internal/config"
	"github.com/foxxcyber/pantry-match/internal/database"
	"github.com/foxxcyber/pantry-match/internal/handlers"
	"github.com/foxxcyber/pantry-match/internal/logger"
	"github.com/foxxcyber/pantry-match/internal/middleware"
	"github.com/foxxcyber/pantry-match/internal/services"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	defer log.Sync()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL, cfg.DBMaxConns, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	if err := database.RunMigrations(ctx, db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}
	cancel()

	// Completion archive is optional
	var archive services.CompletionArchive
	if cfg.ArchiveConfigured() {
		archiveService, err := services.NewArchiveService(
			cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Region, cfg.S3UseSSL,
		)
		if err != nil {
			log.Warn("failed to initialize archive service", zap.Error(err))
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := archiveService.EnsureBucket(ctx); err != nil {
				log.Warn("failed to ensure archive bucket exists", zap.Error(err))
			}
			cancel()
			archive = archiveService
			log.Info("completion archive enabled", zap.String("bucket", archiveService.GetBucketName()))
		}
	}

	pantryService := services.NewPantryService(db, db, archive, log)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Create handler with dependencies
	h := handlers.New(db, pantryService, log)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	handlers.RegisterRoutes(app, h, middleware.AuthRequired(cfg))

	log.Info("server starting", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
