package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"shopserve/internal/adapters/analytics"
	"shopserve/internal/adapters/http/middleware"
	"shopserve/internal/adapters/http/routes"
	"shopserve/internal/adapters/notify"
	"shopserve/internal/adapters/persistence/models"
	"shopserve/internal/adapters/persistence/repositories"
	"shopserve/internal/config"
	"shopserve/internal/core/ports"
	"shopserve/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "shopserve/docs" // Swagger docs
)

// @title shopserve API
// @version 1.0
// @description Walk-in queue and settlement service for a retail floor.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	if err := config.SeedCounters(db, cfg.Queue.SeedCounters); err != nil {
		log.Printf("⚠️ Warning: Failed to seed counters: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Realtime fan-out: Redis when configured, otherwise in-process only
	hub := notify.NewHub()
	var notifier ports.Notifier = notify.NewHubNotifier(hub)
	rdb, err := config.ConnectRedis(cfg)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, events stay in-process: %v", err)
	}
	if rdb != nil {
		defer config.CloseRedis()
		notifier = notify.NewRedisNotifier(rdb, cfg.Redis.Channel)
		relay := notify.NewRelay(rdb, cfg.Redis.Channel, hub)
		go func() {
			if err := relay.Run(ctx); err != nil {
				log.Printf("❌ Redis relay stopped: %v", err)
			}
		}()
	}

	// Analytics are written off the request path
	sink := analytics.NewAsyncSink(analytics.NewGormSink(db), cfg.Queue.AnalyticsBuffer)
	sink.Start()
	defer sink.Stop()

	// Core services
	store := repositories.NewStore(db)
	queueService := services.NewQueueService(store, notifier, sink, services.NewPriorityRanker(cfg.Queue.AverageServiceMinutes))
	ledger := services.NewSettlementLedger(store, notifier)

	// End-of-day reset
	autoService, err := services.NewQueueAutoService(queueService, cfg.Queue.ResetCron, cfg.Queue.ResetReason)
	if err != nil {
		log.Fatalf("❌ Invalid QUEUE_RESET_CRON: %v", err)
	}
	autoService.Start()
	defer autoService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "shopserve API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)

	routes.Setup(app, cfg, routes.Dependencies{
		Queue:  queueService,
		Ledger: ledger,
		Hub:    hub,
	})

	// Graceful shutdown
	go gracefulShutdown(app, stop)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, stop context.CancelFunc) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	stop()
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
