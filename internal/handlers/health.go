package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cargomail/internal/repositories"
	"cargomail/internal/utils"
)

// HealthCheck reports service liveness plus cache connectivity.
func HealthCheck(c *fiber.Ctx) error {
	status := fiber.Map{
		"status":  "healthy",
		"service": "tariff-engine",
	}
	if repositories.CacheService != nil {
		if err := repositories.CacheService.HealthCheck(c.Context()); err != nil {
			status["cache"] = "unavailable"
		} else {
			status["cache"] = "ok"
		}
	}
	return utils.Success(c, status)
}
