// Package main seeds the tariff engine with reference data: the country
// registry, the fallback rate setting, and a starter set of rate rules.
package main

import (
	"context"
	"log"
	"strconv"
	"time"

	"cargomail/internal/config"
	"cargomail/internal/models"
	"cargomail/internal/repositories"
)

var countries = []models.Country{
	{Code: "CN", Name: "China"},
	{Code: "US", Name: "United States"},
	{Code: "GB", Name: "United Kingdom"},
	{Code: "DE", Name: "Germany"},
	{Code: "FR", Name: "France"},
	{Code: "JP", Name: "Japan"},
	{Code: "KR", Name: "South Korea"},
	{Code: "AU", Name: "Australia"},
	{Code: "CA", Name: "Canada"},
	{Code: "NL", Name: "Netherlands"},
}

func main() {
	config.LoadEnv()

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		if repositories.CacheService != nil {
			_ = repositories.CacheService.Close()
		}
	}()

	ctx := context.Background()
	countryRepo := repositories.NewCountryRepository(repositories.DB)
	rateRepo := repositories.NewTariffRateRepository(repositories.DB)
	sysconfigRepo := repositories.NewSystemConfigRepository(repositories.DB)

	for i := range countries {
		if err := countryRepo.Upsert(ctx, &countries[i]); err != nil {
			log.Fatalf("Failed to seed country %s: %v", countries[i].Code, err)
		}
	}
	log.Printf("✅ Seeded %d countries", len(countries))

	fallbackRate := config.GetFloatEnv("FALLBACK_TARIFF_RATE", 0.8)
	if err := sysconfigRepo.Set(ctx,
		models.ConfigKeyFallbackRate, strconv.FormatFloat(fallbackRate, 'f', -1, 64), "float",
		"Tariff rate applied when no configured rule matches a shipment",
	); err != nil {
		log.Fatalf("Failed to seed fallback rate: %v", err)
	}
	log.Printf("✅ Seeded fallback tariff rate %g", fallbackRate)

	existing, err := rateRepo.ListActive(ctx)
	if err != nil {
		log.Fatalf("Failed to check existing rates: %v", err)
	}
	if len(existing) > 0 {
		log.Printf("Tariff rates already present (%d active), skipping starter rules", len(existing))
		return
	}

	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	max600 := 600.0
	starter := []*models.TariffRate{
		{
			OriginCountry: "CN", DestinationCountry: "US",
			GoodsCategory: models.Wildcard, PostalService: models.Wildcard,
			StartDate: start, EndDate: models.OpenEndDate,
			MinWeight: models.DefaultMinWeight, MaxWeight: models.DefaultMaxWeight,
			TariffRate: 0.50, MinimumTariff: 50, MaximumTariff: &max600,
			Currency: "USD", IsActive: true,
			Notes: "Baseline CN to US rate",
		},
		{
			OriginCountry: "CN", DestinationCountry: "US",
			GoodsCategory: "Gifts", PostalService: models.Wildcard,
			StartDate: start, EndDate: models.OpenEndDate,
			MinWeight: models.DefaultMinWeight, MaxWeight: models.DefaultMaxWeight,
			TariffRate: 0.50, CategorySurcharge: 0.30, MinimumTariff: 50,
			Currency: "USD", IsActive: true,
			Notes: "Gifts carry a 30% surcharge over the baseline",
		},
		{
			OriginCountry: "CN", DestinationCountry: "GB",
			GoodsCategory: models.Wildcard, PostalService: models.Wildcard,
			StartDate: start, EndDate: models.OpenEndDate,
			MinWeight: models.DefaultMinWeight, MaxWeight: models.DefaultMaxWeight,
			TariffRate: 0.35, MinimumTariff: 25,
			Currency: "USD", IsActive: true,
			Notes: "Baseline CN to GB rate",
		},
	}
	if err := rateRepo.CreateBatch(ctx, starter); err != nil {
		log.Fatalf("Failed to seed starter rates: %v", err)
	}
	log.Printf("✅ Seeded %d starter tariff rates", len(starter))
}
