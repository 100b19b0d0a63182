package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/coolair/coolair-backend/internal/cache"
	"github.com/coolair/coolair-backend/internal/config"
	"github.com/coolair/coolair-backend/internal/database"
	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/handlers"
	"github.com/coolair/coolair-backend/internal/logging"
	"github.com/coolair/coolair-backend/internal/middleware"
	"github.com/coolair/coolair-backend/internal/routes"
	"github.com/coolair/coolair-backend/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", logging.Err(err))
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", logging.Err(err))
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", logging.Err(err))
		os.Exit(1)
	}
	if err := database.SeedPlans(database.DB); err != nil {
		slog.Error("plan seeding failed", logging.Err(err))
		os.Exit(1)
	}

	// ERROR+ records are also batched into system_logs
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewFanout(
		logging.NewJSONHandler(os.Stdout),
		dbLogHandler,
	)))

	retention, err := logging.StartRetention(database.DB, cfg.LogCleanupSchedule, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("log retention schedule invalid", "schedule", cfg.LogCleanupSchedule, logging.Err(err))
		os.Exit(1)
	}

	// Optional plan cache
	var planCache services.Cache
	var redisCache *cache.Redis
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err = cache.NewRedis(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			slog.Warn("redis unavailable, plan cache disabled", logging.Err(err))
		} else {
			planCache = redisCache
			slog.Info("plan cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.PlanCacheTTL.String())
		}
	}

	// Optional event publishing
	var publisher events.Publisher = events.Nop{}
	var amqpPublisher *events.AMQPPublisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err = events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Warn("rabbitmq unavailable, lifecycle events disabled", logging.Err(err))
		} else {
			publisher = amqpPublisher
			slog.Info("lifecycle events enabled", "exchange", cfg.AMQPExchange)
		}
	}

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", logging.Err(err))
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, database.DB, routes.NewHandlers(database.DB, cfg, planCache, publisher))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", logging.Err(err))
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", logging.Err(err))
	}

	<-retention.Stop().Done()
	if amqpPublisher != nil {
		if err := amqpPublisher.Close(); err != nil {
			slog.Error("rabbitmq close error", logging.Err(err))
		}
	}
	if redisCache != nil {
		_ = redisCache.Close()
	}
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", logging.Err(err))
	}

	slog.Info("server stopped")
}
