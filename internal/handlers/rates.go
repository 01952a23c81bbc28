package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"cargomail/internal/services/rates"
	"cargomail/internal/utils"
)

type RateHandler struct {
	rates *rates.Service
}

func NewRateHandler(svc *rates.Service) *RateHandler {
	return &RateHandler{rates: svc}
}

// rateBody is the wire form of a rule. Dates travel as YYYY-MM-DD strings;
// optional numerics are pointers so zero values survive a round trip.
type rateBody struct {
	OriginCountry      string   `json:"origin_country"`
	DestinationCountry string   `json:"destination_country"`
	GoodsCategory      string   `json:"goods_category"`
	PostalService      string   `json:"postal_service"`
	StartDate          string   `json:"start_date"`
	EndDate            string   `json:"end_date"`
	MinWeight          *float64 `json:"min_weight"`
	MaxWeight          *float64 `json:"max_weight"`
	TariffRate         *float64 `json:"tariff_rate"`
	CategorySurcharge  *float64 `json:"category_surcharge"`
	MinimumTariff      *float64 `json:"minimum_tariff"`
	MaximumTariff      *float64 `json:"maximum_tariff"`
	Currency           string   `json:"currency"`
	Notes              string   `json:"notes"`
}

func (h *RateHandler) List(c *fiber.Ctx) error {
	list, err := h.rates.ListActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"tariff_rates": list, "count": len(list)})
}

func (h *RateHandler) ListInactive(c *fiber.Ctx) error {
	list, err := h.rates.ListInactive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"tariff_rates": list, "count": len(list)})
}

func (h *RateHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid rate id")
	}
	rate, err := h.rates.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, rate)
}

func (h *RateHandler) Create(c *fiber.Ctx) error {
	var body rateBody
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	input, err := body.toCreateInput()
	if err != nil {
		return utils.BadRequest(c, err.Error())
	}
	rate, err := h.rates.Create(c.Context(), input)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, rate)
}

func (h *RateHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid rate id")
	}

	var body struct {
		OriginCountry      *string  `json:"origin_country"`
		DestinationCountry *string  `json:"destination_country"`
		GoodsCategory      *string  `json:"goods_category"`
		PostalService      *string  `json:"postal_service"`
		StartDate          *string  `json:"start_date"`
		EndDate            *string  `json:"end_date"`
		MinWeight          *float64 `json:"min_weight"`
		MaxWeight          *float64 `json:"max_weight"`
		TariffRate         *float64 `json:"tariff_rate"`
		CategorySurcharge  *float64 `json:"category_surcharge"`
		MinimumTariff      *float64 `json:"minimum_tariff"`
		MaximumTariff      *float64 `json:"maximum_tariff"`
		Currency           *string  `json:"currency"`
		IsActive           *bool    `json:"is_active"`
		Notes              *string  `json:"notes"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	patch := rates.UpdateInput{
		OriginCountry:      body.OriginCountry,
		DestinationCountry: body.DestinationCountry,
		GoodsCategory:      body.GoodsCategory,
		PostalService:      body.PostalService,
		MinWeight:          body.MinWeight,
		MaxWeight:          body.MaxWeight,
		TariffRate:         body.TariffRate,
		CategorySurcharge:  body.CategorySurcharge,
		MinimumTariff:      body.MinimumTariff,
		MaximumTariff:      body.MaximumTariff,
		Currency:           body.Currency,
		IsActive:           body.IsActive,
		Notes:              body.Notes,
	}
	if body.StartDate != nil {
		t, err := parseDate(*body.StartDate)
		if err != nil {
			return utils.BadRequest(c, "start_date must be YYYY-MM-DD")
		}
		patch.StartDate = t
	}
	if body.EndDate != nil {
		t, err := parseDate(*body.EndDate)
		if err != nil {
			return utils.BadRequest(c, "end_date must be YYYY-MM-DD")
		}
		patch.EndDate = t
	}

	rate, err := h.rates.Update(c.Context(), id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, rate)
}

func (h *RateHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid rate id")
	}
	rate, err := h.rates.Deactivate(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "tariff rate deactivated", "tariff_rate": rate})
}

func (h *RateHandler) Reactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return utils.BadRequest(c, "invalid rate id")
	}
	rate, err := h.rates.Reactivate(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "tariff rate reactivated", "tariff_rate": rate})
}

func (h *RateHandler) BulkCreate(c *fiber.Ctx) error {
	var body struct {
		OriginCountry      string                 `json:"origin_country"`
		DestinationCountry string                 `json:"destination_country"`
		PostalService      string                 `json:"postal_service"`
		StartDate          string                 `json:"start_date"`
		EndDate            string                 `json:"end_date"`
		MinWeight          *float64               `json:"min_weight"`
		MaxWeight          *float64               `json:"max_weight"`
		BaseRate           float64                `json:"base_rate"`
		MinimumTariff      float64                `json:"minimum_tariff"`
		MaximumTariff      *float64               `json:"maximum_tariff"`
		Notes              string                 `json:"notes"`
		CategoryConfigs    []rates.CategoryConfig `json:"category_configs"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	start, err := parseDate(body.StartDate)
	if err != nil {
		return utils.BadRequest(c, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(body.EndDate)
	if err != nil {
		return utils.BadRequest(c, "end_date must be YYYY-MM-DD")
	}

	created, err := h.rates.BulkCreate(c.Context(), rates.BulkInput{
		OriginCountry:      body.OriginCountry,
		DestinationCountry: body.DestinationCountry,
		PostalService:      body.PostalService,
		StartDate:          start,
		EndDate:            end,
		MinWeight:          body.MinWeight,
		MaxWeight:          body.MaxWeight,
		BaseRate:           body.BaseRate,
		MinimumTariff:      body.MinimumTariff,
		MaximumTariff:      body.MaximumTariff,
		Notes:              body.Notes,
		CategoryConfigs:    body.CategoryConfigs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return utils.Created(c, fiber.Map{
		"message":       "bulk tariff rates created",
		"total_created": created,
	})
}

func (h *RateHandler) BulkDeactivate(c *fiber.Ctx) error {
	var body struct {
		RateIDs []uint `json:"rate_ids"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if len(body.RateIDs) == 0 {
		return utils.BadRequest(c, "rate_ids is required")
	}
	count, err := h.rates.BulkDeactivate(c.Context(), body.RateIDs)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"message":           "tariff rates deactivated",
		"deactivated_count": count,
	})
}

func (h *RateHandler) Categories(c *fiber.Ctx) error {
	list, err := h.rates.Categories(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"categories": list})
}

func (h *RateHandler) Services(c *fiber.Ctx) error {
	list, err := h.rates.Services(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{"services": list})
}

func (h *RateHandler) SystemDefaults(c *fiber.Ctx) error {
	defaults, stats, err := h.rates.SystemDefaultsSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"defaults":   defaults,
		"statistics": stats,
	})
}

func (h *RateHandler) RoutesOverview(c *fiber.Ctx) error {
	overview, err := h.rates.RoutesOverview(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, fiber.Map{
		"routes": overview,
		"count":  len(overview),
	})
}

func (b rateBody) toCreateInput() (rates.CreateInput, error) {
	input := rates.CreateInput{
		OriginCountry:      b.OriginCountry,
		DestinationCountry: b.DestinationCountry,
		GoodsCategory:      b.GoodsCategory,
		PostalService:      b.PostalService,
		MinWeight:          b.MinWeight,
		MaxWeight:          b.MaxWeight,
		TariffRate:         b.TariffRate,
		CategorySurcharge:  b.CategorySurcharge,
		MinimumTariff:      b.MinimumTariff,
		MaximumTariff:      b.MaximumTariff,
		Currency:           b.Currency,
		Notes:              b.Notes,
	}
	start, err := parseDate(b.StartDate)
	if err != nil {
		return input, fiber.NewError(fiber.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	end, err := parseDate(b.EndDate)
	if err != nil {
		return input, fiber.NewError(fiber.StatusBadRequest, "end_date must be YYYY-MM-DD")
	}
	input.StartDate = start
	input.EndDate = end
	return input, nil
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
