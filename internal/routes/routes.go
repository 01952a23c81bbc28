// Package routes defines the API routing configuration. It wires the
// repositories, services, and handlers together and groups the endpoints.
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"cargomail/internal/config"
	"cargomail/internal/handlers"
	"cargomail/internal/repositories"
	"cargomail/internal/services/rates"
	"cargomail/internal/services/recalc"
	"cargomail/internal/services/resolver"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	rateRepo := repositories.NewTariffRateRepository(db)
	countryRepo := repositories.NewCountryRepository(db)
	shipmentRepo := repositories.NewShipmentRepository(db)
	sysconfigRepo := repositories.NewSystemConfigRepository(db)

	storeTimeout := config.GetDurationEnv("STORE_TIMEOUT", 5*time.Second)

	resolverService := resolver.NewService(rateRepo, repositories.CacheService, storeTimeout)
	rateService := rates.NewService(
		rateRepo,
		countryRepo,
		shipmentRepo,
		sysconfigRepo,
		repositories.CacheService,
		storeTimeout,
	)
	recalcService := recalc.NewService(
		shipmentRepo,
		resolverService,
		rateService,
		config.GetIntEnv("RECALC_BATCH_SIZE", 500),
		config.GetIntEnv("RECALC_WORKERS", 4),
	)

	countryHandler := handlers.NewCountryHandler(countryRepo)
	rateHandler := handlers.NewRateHandler(rateService)
	calcHandler := handlers.NewCalculationHandler(resolverService, rateService, recalcService)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "CargoMail Tariff Engine API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	api := app.Group("/api")
	api.Get("/health", handlers.HealthCheck)
	api.Get("/countries", countryHandler.List)
	api.Get("/countries/:code", countryHandler.Get)

	// Mutations share a limiter so a misbehaving import script cannot
	// flood the conflict checks.
	mutate := limiter.New(limiter.Config{
		Max:        config.GetIntEnv("MUTATION_RATE_LIMIT", 60),
		Expiration: time.Minute,
	})

	ratesGroup := api.Group("/tariff-rates")
	ratesGroup.Get("/", rateHandler.List)
	ratesGroup.Get("/inactive", rateHandler.ListInactive)
	ratesGroup.Post("/", mutate, rateHandler.Create)
	ratesGroup.Post("/bulk", mutate, rateHandler.BulkCreate)
	ratesGroup.Post("/bulk-deactivate", mutate, rateHandler.BulkDeactivate)
	ratesGroup.Get("/:id", rateHandler.Get)
	ratesGroup.Put("/:id", mutate, rateHandler.Update)
	// DELETE is an alias for deactivate; rows are never hard-deleted.
	ratesGroup.Delete("/:id", mutate, rateHandler.Deactivate)
	ratesGroup.Post("/:id/deactivate", mutate, rateHandler.Deactivate)
	ratesGroup.Post("/:id/reactivate", mutate, rateHandler.Reactivate)

	api.Get("/tariff-categories", rateHandler.Categories)
	api.Get("/tariff-services", rateHandler.Services)
	api.Get("/tariff-system-defaults", rateHandler.SystemDefaults)
	api.Get("/tariff-routes", rateHandler.RoutesOverview)

	api.Post("/calculate-tariff", calcHandler.Calculate)
	api.Post("/batch-recalculate-tariffs", mutate, calcHandler.BatchRecalculate)
}
