//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/stockpod/stockpod-core/internal/app/deliveries"
	"github.com/stockpod/stockpod-core/internal/app/middlewares"
	"github.com/stockpod/stockpod-core/internal/app/services"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	infrastructures.NewResendClient,
	wire.Bind(new(middlewares.RateLimiter), new(*middlewares.RedisRateLimiter)),
	middlewares.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAuditService,
	services.NewConfigService,
	services.NewLedgerService,
	services.NewItemService,
	services.NewBoxService,
	services.NewReportService,
	services.NewAlertService,
	services.NewAuthService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewBoxHandler,
	deliveries.NewTransactionHandler,
	deliveries.NewAuthHandler,
	deliveries.NewAdminItemHandler,
	deliveries.NewAdminBoxHandler,
	deliveries.NewAdminTransactionHandler,
	deliveries.NewSettingsHandler,
	deliveries.NewAlertHandler,
	wire.Struct(new(Application), "*"), // This tells Wire to build the Application struct
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil // Wire will populate the Application struct based on handlerSet
}
