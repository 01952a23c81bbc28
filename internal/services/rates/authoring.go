package rates

import (
	"context"
	"strings"

	"cargomail/internal/errors"
	"cargomail/internal/models"
	"cargomail/internal/validation"
)

// Create validates and persists one rule, rejecting overlaps with active
// rules for the same route/category/service tuple.
func (s *Service) Create(ctx context.Context, input CreateInput) (*models.TariffRate, error) {
	rate, err := s.buildRate(ctx, input)
	if err != nil {
		return nil, err
	}

	unlock := s.lockRoute(rate.OriginCountry, rate.DestinationCountry)
	defer unlock()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	if err := s.checkConflicts(sctx, rate, 0); err != nil {
		return nil, err
	}
	if err := s.rates.Create(sctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, rate.OriginCountry, rate.DestinationCountry)
	return rate, nil
}

// Update patches a rule. Scope, window, and band changes re-run the overlap
// check excluding the rule itself. A patch that moves the rule to another
// route holds both route locks and invalidates cached lookups on both sides,
// so the old route stops resolving the moved rule.
func (s *Service) Update(ctx context.Context, id uint, patch UpdateInput) (*models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rate, err := s.rates.GetByID(sctx, id)
	if err != nil {
		return nil, err
	}
	prevOrigin, prevDestination := rate.OriginCountry, rate.DestinationCountry

	applyPatch(rate, patch)

	if err := s.validateRate(ctx, rate); err != nil {
		return nil, err
	}

	unlock := s.lockRoutes(prevOrigin, prevDestination, rate.OriginCountry, rate.DestinationCountry)
	defer unlock()

	if rate.IsActive {
		if err := s.checkConflicts(sctx, rate, rate.ID); err != nil {
			return nil, err
		}
	}
	if err := s.rates.Update(sctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, prevOrigin, prevDestination)
	if prevOrigin != rate.OriginCountry || prevDestination != rate.DestinationCountry {
		s.invalidate(ctx, rate.OriginCountry, rate.DestinationCountry)
	}
	return rate, nil
}

// BulkCreate expands one base configuration into one rule per category
// config. The operation is atomic: any invalid or conflicting entry rejects
// the entire batch and nothing is written.
func (s *Service) BulkCreate(ctx context.Context, input BulkInput) (int, error) {
	if len(input.CategoryConfigs) == 0 {
		return 0, errors.NewValidation("category_configs", "at least one category config is required")
	}

	v := validation.New()
	v.CheckFraction(input.BaseRate, "base_rate")
	v.Check(input.MinimumTariff >= 0, "minimum_tariff", "cannot be negative")
	seen := make(map[string]bool, len(input.CategoryConfigs))
	for _, cfg := range input.CategoryConfigs {
		name := strings.TrimSpace(cfg.Category)
		v.Check(name != "", "category_configs", "category name cannot be empty")
		v.Check(!seen[name], "category_configs", "duplicate category: "+name)
		seen[name] = true
		v.CheckFraction(cfg.Surcharge, "category_configs")
	}
	if err := v.First(); err != nil {
		ve := err.(validation.ValidationError)
		return 0, errors.NewValidation(ve.Field, ve.Message)
	}

	rows := make([]*models.TariffRate, 0, len(input.CategoryConfigs))
	for _, cfg := range input.CategoryConfigs {
		surcharge := cfg.Surcharge
		rate, err := s.buildRate(ctx, CreateInput{
			OriginCountry:      input.OriginCountry,
			DestinationCountry: input.DestinationCountry,
			GoodsCategory:      strings.TrimSpace(cfg.Category),
			PostalService:      input.PostalService,
			StartDate:          input.StartDate,
			EndDate:            input.EndDate,
			MinWeight:          input.MinWeight,
			MaxWeight:          input.MaxWeight,
			TariffRate:         &input.BaseRate,
			CategorySurcharge:  &surcharge,
			MinimumTariff:      &input.MinimumTariff,
			MaximumTariff:      input.MaximumTariff,
			Notes:              input.Notes,
		})
		if err != nil {
			return 0, err
		}
		rows = append(rows, rate)
	}

	unlock := s.lockRoute(input.OriginCountry, input.DestinationCountry)
	defer unlock()

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	for _, rate := range rows {
		if err := s.checkConflicts(sctx, rate, 0); err != nil {
			return 0, err
		}
	}
	if err := s.rates.CreateBatch(sctx, rows); err != nil {
		return 0, err
	}
	s.invalidate(ctx, input.OriginCountry, input.DestinationCountry)
	return len(rows), nil
}

// buildRate normalizes a CreateInput into a model row and validates it.
func (s *Service) buildRate(ctx context.Context, input CreateInput) (*models.TariffRate, error) {
	if input.TariffRate == nil {
		return nil, errors.NewValidation("tariff_rate", "tariff rate is required")
	}

	rate := &models.TariffRate{
		OriginCountry:      strings.TrimSpace(input.OriginCountry),
		DestinationCountry: strings.TrimSpace(input.DestinationCountry),
		GoodsCategory:      models.Wildcard,
		PostalService:      models.Wildcard,
		StartDate:          todayUTC(),
		EndDate:            models.OpenEndDate,
		MinWeight:          models.DefaultMinWeight,
		MaxWeight:          models.DefaultMaxWeight,
		TariffRate:         *input.TariffRate,
		Currency:           "USD",
		IsActive:           true,
		Notes:              input.Notes,
	}
	if c := strings.TrimSpace(input.GoodsCategory); c != "" {
		rate.GoodsCategory = c
	}
	if p := strings.TrimSpace(input.PostalService); p != "" {
		rate.PostalService = p
	}
	if input.StartDate != nil {
		rate.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		rate.EndDate = *input.EndDate
	}
	if input.MinWeight != nil {
		rate.MinWeight = *input.MinWeight
	}
	if input.MaxWeight != nil {
		rate.MaxWeight = *input.MaxWeight
	}
	if input.CategorySurcharge != nil {
		rate.CategorySurcharge = *input.CategorySurcharge
	}
	if input.MinimumTariff != nil {
		rate.MinimumTariff = *input.MinimumTariff
	}
	rate.MaximumTariff = input.MaximumTariff
	if input.Currency != "" {
		rate.Currency = input.Currency
	}

	if err := s.validateRate(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) validateRate(ctx context.Context, rate *models.TariffRate) error {
	v := validation.New()
	v.Check(rate.OriginCountry != "", "origin_country", "origin country is required")
	v.Check(rate.DestinationCountry != "", "destination_country", "destination country is required")
	v.CheckFraction(rate.TariffRate, "tariff_rate")
	v.CheckFraction(rate.CategorySurcharge, "category_surcharge")
	v.CheckDateOrder(rate.StartDate, rate.EndDate, "start_date")
	v.CheckWeightBand(rate.MinWeight, rate.MaxWeight, "min_weight")
	v.Check(rate.MinimumTariff >= 0, "minimum_tariff", "cannot be negative")
	if rate.MaximumTariff != nil {
		v.Check(*rate.MaximumTariff >= rate.MinimumTariff, "maximum_tariff", "cannot be below minimum tariff")
	}
	if err := v.First(); err != nil {
		ve := err.(validation.ValidationError)
		return errors.NewValidation(ve.Field, ve.Message)
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	for _, check := range []struct {
		field string
		code  string
	}{
		{"origin_country", rate.OriginCountry},
		{"destination_country", rate.DestinationCountry},
	} {
		ok, err := s.countries.Exists(sctx, check.code)
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewValidation(check.field, "unknown country code: "+check.code)
		}
	}
	return nil
}

func applyPatch(rate *models.TariffRate, patch UpdateInput) {
	if patch.OriginCountry != nil {
		rate.OriginCountry = *patch.OriginCountry
	}
	if patch.DestinationCountry != nil {
		rate.DestinationCountry = *patch.DestinationCountry
	}
	if patch.GoodsCategory != nil {
		rate.GoodsCategory = *patch.GoodsCategory
	}
	if patch.PostalService != nil {
		rate.PostalService = *patch.PostalService
	}
	if patch.StartDate != nil {
		rate.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		rate.EndDate = *patch.EndDate
	}
	if patch.MinWeight != nil {
		rate.MinWeight = *patch.MinWeight
	}
	if patch.MaxWeight != nil {
		rate.MaxWeight = *patch.MaxWeight
	}
	if patch.TariffRate != nil {
		rate.TariffRate = *patch.TariffRate
	}
	if patch.CategorySurcharge != nil {
		rate.CategorySurcharge = *patch.CategorySurcharge
	}
	if patch.MinimumTariff != nil {
		rate.MinimumTariff = *patch.MinimumTariff
	}
	if patch.MaximumTariff != nil {
		rate.MaximumTariff = patch.MaximumTariff
	}
	if patch.Currency != nil {
		rate.Currency = *patch.Currency
	}
	if patch.IsActive != nil {
		rate.IsActive = *patch.IsActive
	}
	if patch.Notes != nil {
		rate.Notes = *patch.Notes
	}
}
