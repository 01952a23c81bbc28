// Package tariff computes tariff amounts from shipment attributes and a
// resolved rate rule. It is computation-only: no storage, no network, safe to
// call concurrently from the single-calculation and batch paths.
package tariff

import (
	"math"
	"strings"

	"cargomail/internal/errors"
	"cargomail/internal/models"
)

// Round2 rounds a monetary amount to 2 decimal places, half-up. Every
// monetary output passes through here exactly once so repeated calculation of
// the same inputs is byte-for-byte reproducible.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// Calculate derives a tariff amount. rate is the resolved rule, or nil when
// no configured rule matched; defaults supply the fallback parameters.
func Calculate(req Request, rate *models.TariffRate, defaults Defaults) (*Result, error) {
	if strings.TrimSpace(req.Origin) == "" {
		return nil, errors.NewValidation("origin_country", "origin country is required")
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, errors.NewValidation("destination_country", "destination country is required")
	}
	if req.DeclaredValue < 0 {
		return nil, errors.NewValidation("declared_value", "declared value cannot be negative")
	}

	baseRate := defaults.DefaultTariffRate
	surchargeRate := 0.0
	minimumTariff := defaults.DefaultMinimumTariff
	var maximumTariff *float64
	currency := defaults.Currency
	method := models.MethodFallback

	if rate != nil {
		baseRate = rate.TariffRate
		surchargeRate = rate.CategorySurcharge
		minimumTariff = rate.MinimumTariff
		maximumTariff = rate.MaximumTariff
		if rate.Currency != "" {
			currency = rate.Currency
		}
		method = models.MethodConfigured
	}
	if currency == "" {
		currency = "USD"
	}

	combinedRate := baseRate + surchargeRate
	raw := req.DeclaredValue * combinedRate

	amount := raw
	if amount < minimumTariff {
		amount = minimumTariff
	}
	if maximumTariff != nil && amount > *maximumTariff {
		amount = *maximumTariff
	}
	amount = Round2(amount)

	return &Result{
		DeclaredValue:     Round2(req.DeclaredValue),
		BaseRate:          baseRate,
		SurchargeRate:     surchargeRate,
		CombinedRate:      combinedRate,
		MinimumTariff:     minimumTariff,
		MaximumTariff:     maximumTariff,
		CalculatedTariff:  amount,
		Currency:          currency,
		CalculationMethod: method,
		HasSurcharge:      surchargeRate > 0,
		Breakdown: Breakdown{
			BaseAmount:      Round2(req.DeclaredValue * baseRate),
			SurchargeAmount: Round2(req.DeclaredValue * surchargeRate),
			TotalAmount:     amount,
		},
	}, nil
}
