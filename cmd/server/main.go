// Package main is the entry point of the wallet API server.
package main

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"

	"payvault/internal/config"
	"payvault/internal/repositories"
	"payvault/internal/repositories/cache"
	"payvault/internal/routes"
	"payvault/pkg/logger"
)

func main() {
	config.LoadEnv()

	db, err := repositories.InitDB()
	if err != nil {
		logger.Fatal("failed to initialize database", logger.WithError(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get database instance", logger.WithError(err))
	}
	defer sqlDB.Close()

	cacheService := initCache()
	if cacheService != nil {
		defer cacheService.Close()
	}

	app := fiber.New(fiber.Config{
		AppName: "payvault",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Throttle credential endpoints per client IP.
	authLimiter := limiter.New(limiter.Config{
		Max:        config.GetIntEnv("AUTH_RATE_LIMIT", 5),
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "too many requests, please try again later",
			})
		},
	})
	app.Use("/api/auth/register", authLimiter)
	app.Use("/api/auth/login", authLimiter)

	routes.SetupRoutes(app, db, cacheService)

	addr := ":" + config.GetEnv("PORT", "3000")
	logger.Info("server listening", logger.Fields{"addr": addr})
	if err := app.Listen(addr); err != nil {
		logger.Fatal("server stopped", logger.WithError(err))
	}
}

// initCache connects to Redis when configured. The cache is optional:
// without REDIS_HOST every read goes straight to Postgres.
func initCache() *cache.Service {
	host := config.GetEnv("REDIS_HOST", "")
	if host == "" {
		logger.Info("redis not configured, running without cache")
		return nil
	}

	client := cache.NewClient(&cache.Config{
		Host:     host,
		Port:     config.GetEnv("REDIS_PORT", "6379"),
		Password: config.GetEnv("REDIS_PASSWORD", ""),
		DB:       config.GetIntEnv("REDIS_DB", 0),
	})
	service := cache.NewService(client, config.GetDurationEnv("CACHE_TTL", 5*time.Minute))

	// Cached balances must not survive a restart of the writer.
	if err := service.FlushAll(context.Background()); err != nil {
		logger.Warn("failed to flush redis cache", logger.WithError(err))
	}
	return service
}
