package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cargomail/internal/errors"
	"cargomail/internal/repositories"
	"cargomail/internal/services/rates"
	"cargomail/internal/services/recalc"
	"cargomail/internal/services/resolver"
	"cargomail/internal/services/tariff"
	"cargomail/internal/utils"
)

type CalculationHandler struct {
	resolver *resolver.Service
	rates    *rates.Service
	recalc   *recalc.Service
}

func NewCalculationHandler(res *resolver.Service, rateSvc *rates.Service, recalcSvc *recalc.Service) *CalculationHandler {
	return &CalculationHandler{resolver: res, rates: rateSvc, recalc: recalcSvc}
}

// Calculate resolves the best-matching rule for the request and prices it.
// An unconfigured route is not an error: the response carries the fallback
// result plus an advisory message.
func (h *CalculationHandler) Calculate(c *fiber.Ctx) error {
	var body struct {
		OriginCountry      string   `json:"origin_country"`
		DestinationCountry string   `json:"destination_country"`
		DeclaredValue      float64  `json:"declared_value"`
		Weight             *float64 `json:"weight"`
		GoodsCategory      string   `json:"goods_category"`
		PostalService      string   `json:"postal_service"`
		ShipDate           string   `json:"ship_date"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	req := tariff.Request{
		Origin:        body.OriginCountry,
		Destination:   body.DestinationCountry,
		DeclaredValue: body.DeclaredValue,
		Weight:        body.Weight,
		GoodsCategory: body.GoodsCategory,
		PostalService: body.PostalService,
	}

	asOf := time.Now().UTC()
	if body.ShipDate != "" {
		parsed, err := parseDate(body.ShipDate)
		if err != nil {
			return utils.BadRequest(c, "ship_date must be YYYY-MM-DD")
		}
		req.ShipDate = parsed
		asOf = *parsed
	}

	rate, err := h.resolver.Resolve(c.Context(), req, asOf)
	if err != nil && err != errors.ErrNoConfiguredRate {
		return respondError(c, err)
	}

	defaults, err := h.rates.CalculationDefaults(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	result, err := tariff.Calculate(req, rate, defaults)
	if err != nil {
		return respondError(c, err)
	}

	payload := fiber.Map{"calculation": result}
	if rate == nil {
		payload["message"] = "no configured rate for this route; system default rate applied"
		// Advisory only: what the route's shipment history has actually paid.
		if hist, ok, err := h.rates.HistoricalRate(c.Context(), req.Origin, req.Destination); err == nil && ok {
			payload["historical_rate"] = hist
		}
	} else {
		payload["rate_id"] = rate.ID
	}
	return utils.Success(c, payload)
}

// BatchRecalculate re-prices stored shipments against the current rules.
func (h *CalculationHandler) BatchRecalculate(c *fiber.Ctx) error {
	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Routes    []struct {
			Origin      string `json:"origin"`
			Destination string `json:"destination"`
		} `json:"routes"`
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

	filter := recalc.Filter{StartDate: start, EndDate: end}
	for _, r := range body.Routes {
		if r.Origin == "" || r.Destination == "" {
			return utils.BadRequest(c, "each route needs origin and destination")
		}
		filter.Routes = append(filter.Routes, repositories.Route{
			Origin:      r.Origin,
			Destination: r.Destination,
		})
	}

	result, err := h.recalc.Run(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return utils.Success(c, result)
}
