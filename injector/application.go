package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/deliveries"
	"github.com/stockpod/stockpod-core/internal/app/middlewares"
)

// Application represents the main application container for stockpod-core
type Application struct {
	HealthHandler           *deliveries.HealthHandler
	BoxHandler              *deliveries.BoxHandler
	TransactionHandler      *deliveries.TransactionHandler
	AuthHandler             *deliveries.AuthHandler
	AdminItemHandler        *deliveries.AdminItemHandler
	AdminBoxHandler         *deliveries.AdminBoxHandler
	AdminTransactionHandler *deliveries.AdminTransactionHandler
	SettingsHandler         *deliveries.SettingsHandler
	AlertHandler            *deliveries.AlertHandler
	AuthMiddleware          *middlewares.AuthMiddleware
	RateLimitMiddleware     *middlewares.RateLimitMiddleware
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	app.HealthHandler.RegisterRoutes(router)

	// Engineer endpoints: QR token is the only credential, so the rate
	// limit keys on device ID first and IP as fallback.
	engineerGroup := router.Group("")
	engineerGroup.Use(app.RateLimitMiddleware.LimitByDevice(middlewares.EngineerAPILimit))
	app.BoxHandler.RegisterRoutes(engineerGroup)
	app.TransactionHandler.RegisterRoutes(engineerGroup)

	// Admin endpoints behind session auth; login itself gets the stricter
	// auth limit inside AuthHandler's group.
	adminGroup := router.Group("/admin")
	adminGroup.Use(app.RateLimitMiddleware.LimitByIP(middlewares.AdminAPILimit))

	authGroup := adminGroup.Group("")
	authGroup.Use(app.RateLimitMiddleware.LimitByIP(middlewares.AuthLimit))
	app.AuthHandler.RegisterRoutes(authGroup)

	protectedGroup := adminGroup.Group("")
	protectedGroup.Use(app.AuthMiddleware.AuthAdmin)
	app.AdminItemHandler.RegisterRoutes(protectedGroup)
	app.AdminBoxHandler.RegisterRoutes(protectedGroup)
	app.AdminTransactionHandler.RegisterRoutes(protectedGroup)
	app.SettingsHandler.RegisterRoutes(protectedGroup)
	app.AlertHandler.RegisterRoutes(protectedGroup)

	// Scheduler endpoint, authenticated by the shared cron secret.
	app.AlertHandler.RegisterCronRoutes(router)
}
