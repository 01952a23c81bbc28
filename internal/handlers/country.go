package handlers

import (
	"github.com/gofiber/fiber/v2"

	"cargomail/internal/repositories"
	"cargomail/internal/utils"
)

type CountryHandler struct {
	countries repositories.CountryRepository
}

func NewCountryHandler(countries repositories.CountryRepository) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// List returns the country registry used by the rule authoring screens.
func (h *CountryHandler) List(c *fiber.Ctx) error {
	list, err := h.countries.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"countries": list,
		"count":     len(list),
	})
}

// Get returns one country by its code.
func (h *CountryHandler) Get(c *fiber.Ctx) error {
	country, err := h.countries.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, country)
}
