package rates

import (
	"context"
	"sort"
	"time"

	"cargomail/internal/models"
	"cargomail/internal/services/tariff"
)

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Categories returns the goods categories known to the system: the union of
// configured rule categories and historical shipment categories, plus the
// wildcard, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	return s.catalog(ctx, s.rates.DistinctCategories, s.shipmentCategories)
}

// Services returns the postal services known to the system, same shape as
// Categories.
func (s *Service) Services(ctx context.Context) ([]string, error) {
	return s.catalog(ctx, s.rates.DistinctServices, s.shipmentServices)
}

func (s *Service) shipmentCategories(ctx context.Context) ([]string, error) {
	if s.shipments == nil {
		return nil, nil
	}
	return s.shipments.DistinctCategories(ctx)
}

func (s *Service) shipmentServices(ctx context.Context) ([]string, error) {
	if s.shipments == nil {
		return nil, nil
	}
	return s.shipments.DistinctServices(ctx)
}

func (s *Service) catalog(ctx context.Context, sources ...func(context.Context) ([]string, error)) ([]string, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	set := map[string]bool{models.Wildcard: true}
	for _, source := range sources {
		values, err := source(sctx)
		if err != nil {
			return nil, err
		}
		for _, v := range values {
			if v != "" {
				set[v] = true
			}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// CalculationDefaults returns the fallback parameters for requests no
// configured rule matches. The fallback rate comes from the system config
// table so operators can tune it without a deploy.
func (s *Service) CalculationDefaults(ctx context.Context) (tariff.Defaults, error) {
	defaults := tariff.Defaults{
		DefaultTariffRate:    DefaultFallbackRate,
		DefaultMinimumTariff: 0,
		Currency:             "USD",
	}
	if s.sysconfig == nil {
		return defaults, nil
	}
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	rate, err := s.sysconfig.GetFloat(sctx, models.ConfigKeyFallbackRate, DefaultFallbackRate)
	if err != nil {
		return defaults, err
	}
	defaults.DefaultTariffRate = rate
	return defaults, nil
}

// SystemDefaultsSummary derives the defaults screen from shipment history:
// the average effective rate across all shipments (or the fallback rate when
// there is no history) and min/max bounds suggested from observed tariffs.
func (s *Service) SystemDefaultsSummary(ctx context.Context) (*SystemDefaults, *SystemStats, error) {
	defaults, err := s.CalculationDefaults(ctx)
	if err != nil {
		return nil, nil, err
	}

	summary := &SystemDefaults{
		DefaultTariffRate: defaults.DefaultTariffRate,
		DefaultCurrency:   defaults.Currency,
	}
	stats := &SystemStats{AverageRate: defaults.DefaultTariffRate}
	if s.shipments == nil {
		return summary, stats, nil
	}

	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	agg, err := s.shipments.SystemAggregates(sctx)
	if err != nil {
		return nil, nil, err
	}

	stats.TotalShipments = agg.TotalShipments
	stats.TotalDeclaredValue = tariff.Round2(agg.TotalDeclaredValue)
	stats.TotalTariffAmount = tariff.Round2(agg.TotalTariffAmount)
	if agg.TotalShipments > 0 && agg.TotalDeclaredValue > 0 {
		stats.AverageRate = agg.TotalTariffAmount / agg.TotalDeclaredValue
		summary.DefaultTariffRate = stats.AverageRate
		summary.DefaultMinimumTariff = tariff.Round2(agg.MinTariffAmount)
		summary.SuggestedMaximumTariff = tariff.Round2(agg.MaxTariffAmount * 1.2)
	}
	return summary, stats, nil
}

// HistoricalRate reports the effective rate observed across a route's
// shipment history. ok is false when the route has no priced history.
func (s *Service) HistoricalRate(ctx context.Context, origin, destination string) (float64, bool, error) {
	if s.shipments == nil {
		return 0, false, nil
	}
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	declared, tariffTotal, err := s.shipments.RouteHistoricalTotals(sctx, origin, destination)
	if err != nil {
		return 0, false, err
	}
	if declared <= 0 {
		return 0, false, nil
	}
	return tariffTotal / declared, true, nil
}

// RoutesOverview joins per-route shipment history with the currently active
// configured rules, flagging routes that still ride on the fallback.
func (s *Service) RoutesOverview(ctx context.Context) ([]RouteOverview, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	configured := make(map[string]*models.TariffRate)
	active, err := s.rates.ListActive(sctx)
	if err != nil {
		return nil, err
	}
	for i := range active {
		rate := &active[i]
		key := rate.OriginCountry + "|" + rate.DestinationCountry
		// One representative rule per route is enough for the overview;
		// prefer the most specific one, matching resolution order.
		if existing, ok := configured[key]; ok {
			if routeSpecificity(rate) <= routeSpecificity(existing) {
				continue
			}
		}
		configured[key] = rate
	}

	if s.shipments == nil {
		return []RouteOverview{}, nil
	}
	aggregates, err := s.shipments.RouteAggregates(sctx)
	if err != nil {
		return nil, err
	}

	overview := make([]RouteOverview, 0, len(aggregates))
	for _, agg := range aggregates {
		row := RouteOverview{
			Origin:             agg.Origin,
			Destination:        agg.Destination,
			Route:              agg.Origin + " -> " + agg.Destination,
			ShipmentCount:      agg.ShipmentCount,
			TotalDeclaredValue: tariff.Round2(agg.TotalDeclaredValue),
			TotalTariffAmount:  tariff.Round2(agg.TotalTariffAmount),
		}
		if agg.TotalDeclaredValue > 0 {
			row.HistoricalRate = agg.TotalTariffAmount / agg.TotalDeclaredValue
		}
		if rate, ok := configured[agg.Origin+"|"+agg.Destination]; ok {
			row.ConfiguredRate = rate
			row.HasConfiguredRate = true
		}
		overview = append(overview, row)
	}
	return overview, nil
}

func routeSpecificity(rate *models.TariffRate) int {
	score := 0
	if rate.GoodsCategory != models.Wildcard {
		score += 2
	}
	if rate.PostalService != models.Wildcard {
		score++
	}
	return score
}
