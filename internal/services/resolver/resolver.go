// Package resolver selects the best-matching active tariff rule for a
// calculation request.
package resolver

import (
	"context"
	"sort"
	"time"

	"cargomail/internal/errors"
	"cargomail/internal/models"
	"cargomail/internal/repositories"
	"cargomail/internal/repositories/cache"
	"cargomail/internal/services/tariff"
)

// LookupCache caches resolution outcomes, including negative ones.
// *cache.CacheService satisfies it.
type LookupCache interface {
	GetLookup(ctx context.Context, key string) (*cache.CachedLookup, bool)
	SetLookup(ctx context.Context, key string, entry *cache.CachedLookup) error
}

type Service struct {
	rates   repositories.TariffRateRepository
	cache   LookupCache
	timeout time.Duration
}

// NewService creates a resolver. lookupCache may be nil to disable caching;
// timeout bounds every storage read.
func NewService(rates repositories.TariffRateRepository, lookupCache LookupCache, timeout time.Duration) *Service {
	if rates == nil {
		panic("rates repository is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{rates: rates, cache: lookupCache, timeout: timeout}
}

// Resolve returns the single best-matching active rule for the request as of
// the given instant, or ErrNoConfiguredRate when the route has no applicable
// rule. asOf is explicit so callers (and tests) pin time instead of relying
// on wall-clock now.
func (s *Service) Resolve(ctx context.Context, req tariff.Request, asOf time.Time) (*models.TariffRate, error) {
	if req.Origin == "" || req.Destination == "" {
		return nil, errors.NewValidation("origin_country", "origin and destination are required")
	}

	// Weighted lookups skip the cache: keying raw weights would make almost
	// every batch-run entry unique, and a weightless key could serve a rule
	// from the wrong band.
	useCache := s.cache != nil && req.Weight == nil
	var key string
	if useCache {
		key = s.lookupKey(req, asOf)
		if entry, ok := s.cache.GetLookup(ctx, key); ok {
			if !entry.Found {
				return nil, errors.ErrNoConfiguredRate
			}
			return entry.Rate, nil
		}
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	candidates, err := s.rates.FindActiveByRoute(storeCtx, req.Origin, req.Destination)
	if err != nil {
		return nil, err
	}

	best := pick(candidates, req, asOf)
	if useCache {
		_ = s.cache.SetLookup(ctx, key, &cache.CachedLookup{Found: best != nil, Rate: best})
	}
	if best == nil {
		return nil, errors.ErrNoConfiguredRate
	}
	return best, nil
}

// pick filters candidates by validity window and weight band, then ranks the
// survivors by specificity. Ties within a tier break deterministically:
// latest updated_at first, then lowest id. The configuration UI rejects new
// same-tier overlaps, so the tie-break only decides among legacy rows.
func pick(candidates []models.TariffRate, req tariff.Request, asOf time.Time) *models.TariffRate {
	reqCategory := ScopeOf(req.GoodsCategory)
	reqService := ScopeOf(req.PostalService)

	matched := make([]models.TariffRate, 0, len(candidates))
	for _, rule := range candidates {
		if !rule.AppliesOn(asOf) {
			continue
		}
		if req.Weight != nil && !rule.CoversWeight(*req.Weight) {
			continue
		}
		if !ScopeOf(rule.GoodsCategory).Matches(reqCategory) {
			continue
		}
		if !ScopeOf(rule.PostalService).Matches(reqService) {
			continue
		}
		matched = append(matched, rule)
	}
	if len(matched) == 0 {
		return nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		si := specificity(ScopeOf(matched[i].GoodsCategory), ScopeOf(matched[i].PostalService))
		sj := specificity(ScopeOf(matched[j].GoodsCategory), ScopeOf(matched[j].PostalService))
		if si != sj {
			return si > sj
		}
		if !matched[i].UpdatedAt.Equal(matched[j].UpdatedAt) {
			return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return &matched[0]
}

func (s *Service) lookupKey(req tariff.Request, asOf time.Time) string {
	return cache.LookupKey(
		req.Origin,
		req.Destination,
		ScopeOf(req.GoodsCategory).String(),
		ScopeOf(req.PostalService).String(),
		asOf.Format("2006-01-02"),
	)
}
