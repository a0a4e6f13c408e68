package main

import (
	"sambung/server/internal/config"
	"sambung/server/internal/database"
	"sambung/server/internal/handlers"
	"sambung/server/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg.MongoURI, cfg.DBName); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Wire stores, presence, relay, call manager, friend service
	handlers.Init(cfg)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Sambung API v1.0",
		BodyLimit: 50 * 1024 * 1024,
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientOrigin,
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(app)

	logrus.Infof("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}
