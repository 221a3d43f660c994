package routes

import (
	"time"

	"shopserve/internal/adapters/http/handlers"
	"shopserve/internal/adapters/http/middleware"
	"shopserve/internal/adapters/notify"
	"shopserve/internal/config"
	"shopserve/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Dependencies are the core services the HTTP adapter exposes
type Dependencies struct {
	Queue  *services.QueueService
	Ledger *services.SettlementLedger
	Hub    *notify.Hub
}

// Setup configures all routes for the application
func Setup(app *fiber.App, cfg *config.Config, deps Dependencies) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(deps.Hub)
	queueHandler := handlers.NewQueueHandler(deps.Queue)
	queueAdminHandler := handlers.NewQueueAdminHandler(deps.Queue)
	displayHandler := handlers.NewQueueDisplayHandler(deps.Queue, deps.Hub)
	settlementHandler := handlers.NewSettlementHandler(deps.Ledger)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", middleware.CacheControl(time.Hour), swagger.HandlerDefault)

	// Live feeds
	app.Use("/ws", handlers.UpgradeGuard)
	app.Get("/ws/queue", displayHandler.StreamWS(notify.TopicQueue))
	app.Get("/ws/ledger",
		middleware.AuthMiddleware(cfg),
		middleware.CashierOrAdmin(),
		displayHandler.StreamWS(notify.TopicLedger),
	)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Public lobby display
	displayRoutes := apiV1.Group("/display")
	displayRoutes.Use(middleware.NoStore())
	setupDisplayRoutes(displayRoutes, displayHandler)

	// Queue routes (staff)
	queueRoutes := apiV1.Group("/queue")
	queueRoutes.Use(middleware.AuthMiddleware(cfg))
	queueRoutes.Use(middleware.NoStore())
	setupQueueRoutes(queueRoutes, queueHandler)
	setupQueueAdminRoutes(queueRoutes, queueAdminHandler)

	// Ledger routes (staff)
	ledgerRoutes := apiV1.Group("/transactions")
	ledgerRoutes.Use(middleware.AuthMiddleware(cfg))
	ledgerRoutes.Use(middleware.NoStore())
	setupLedgerRoutes(ledgerRoutes, settlementHandler)
}

func setupDisplayRoutes(router fiber.Router, handler *handlers.QueueDisplayHandler) {
	router.Get("/", handler.GetDisplayData)
	router.Get("/events", handler.DisplaySSE)
}

// setupQueueRoutes configures front-desk routes (all authenticated staff)
func setupQueueRoutes(router fiber.Router, handler *handlers.QueueHandler) {
	router.Get("/", handler.Snapshot)
	router.Post("/entries", handler.RegisterEntry)
	router.Get("/entries/:id/position", handler.GetPosition)
	router.Get("/entries/:id/history", handler.GetHistory)
}

// setupQueueAdminRoutes configures counter and administrator routes.
// Status transitions are authorized per role inside the core, not here.
func setupQueueAdminRoutes(router fiber.Router, handler *handlers.QueueAdminHandler) {
	router.Patch("/entries/:id/status", handler.ChangeStatus)
	router.Post("/counters/:id/call-next", handler.CallNext)
	router.Post("/counters/:id/call/:entryId", handler.CallSpecific)
	router.Post("/counters/:id/complete/:entryId", handler.Complete)

	// Admin only
	router.Put("/entries/:id/position", middleware.AdminOnly(), handler.SetPosition)
	router.Patch("/counters/:id", middleware.AdminOnly(), handler.SetCounterActive)
	router.Post("/reset", middleware.AdminOnly(), middleware.StrictRateLimiter(), handler.ResetQueue)
}

// setupLedgerRoutes configures sale and settlement routes
func setupLedgerRoutes(router fiber.Router, handler *handlers.SettlementHandler) {
	router.Post("/", handler.CreateTransaction)
	router.Get("/:id", handler.GetLedger)
	router.Post("/:id/settlements", middleware.CashierOrAdmin(), handler.CreateSettlement)
	router.Get("/:id/audit", middleware.AdminOnly(), handler.GetAuditTrail)
}
