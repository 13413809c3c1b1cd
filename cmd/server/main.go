// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/sabridemirel/arayanibul-sub001/internal/config"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/routes"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/need"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize databases (PostgreSQL + Redis)
	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := repositories.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("✅ Successfully connected to database with connection pooling")

	// Periodic connection pool stats
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			stats := sqlDB.Stats()
			log.Printf("DB Stats: Open=%d, Idle=%d, InUse=%d, WaitCount=%d, WaitDuration=%s",
				stats.OpenConnections, stats.Idle, stats.InUse, stats.WaitCount, stats.WaitDuration)
		}
	}()

	// Clear Redis cache on startup
	if repositories.CacheService != nil {
		if err := repositories.CacheService.FlushAll(context.Background()); err != nil {
			log.Printf("⚠️ Failed to flush Redis cache: %v", err)
		} else {
			log.Println("✅ Redis cache flushed on startup")
		}
	}

	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	// Notification dispatcher (drained on shutdown)
	pushSender := notification.NewExpoPushSender()
	notificationSvc := notification.NewService(
		repositories.NewNotificationRepository(repositories.DB),
		repositories.NewUserRepository(repositories.DB, repositories.CacheService),
		pushSender,
	)
	defer notificationSvc.Close()

	// Daily sweep marking active needs past their deadline as expired
	go runExpirySweeper()

	// Create Fiber app
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "*"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login", "/api/refresh"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(429).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	// Routes
	routes.SetupRoutes(app, repositories.DB, notificationSvc)

	// Graceful shutdown so the notification queue drains
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	// Start server
	if err := app.Listen(":" + config.GetEnv("PORT", "3000")); err != nil {
		log.Fatal(err)
	}
}

func runExpirySweeper() {
	needService := need.NewService(
		repositories.NewNeedRepository(repositories.DB),
		repositories.NewCategoryRepository(repositories.DB),
		repositories.CacheService,
	)

	ticker := time.NewTicker(config.GetDurationEnv("NEED_EXPIRY_SWEEP_INTERVAL", 24*time.Hour))
	defer ticker.Stop()

	sweep := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		expired, err := needService.ExpireOverdue(ctx)
		if err != nil {
			log.Printf("⚠️ Need expiry sweep failed: %v", err)
			return
		}
		if expired > 0 {
			log.Printf("Expired %d overdue needs", expired)
		}
	}

	sweep()
	for range ticker.C {
		sweep()
	}
}
