// Package rates manages the tariff rate configuration store: rule authoring,
// conflict enforcement, soft deactivation, and the defaults/overview reads
// behind the management screens.
package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cargomail/internal/errors"
	"cargomail/internal/models"
	"cargomail/internal/repositories"
)

// DefaultFallbackRate applies when the system config table carries no
// fallback_tariff_rate entry.
const DefaultFallbackRate = 0.8

// RouteInvalidator drops cached resolver lookups after a mutation.
// *cache.CacheService satisfies it.
type RouteInvalidator interface {
	InvalidateRoute(ctx context.Context, origin, destination string) error
}

type Service struct {
	rates     repositories.TariffRateRepository
	countries repositories.CountryRepository
	shipments repositories.ShipmentRepository
	sysconfig repositories.SystemConfigRepository
	cache     RouteInvalidator
	timeout   time.Duration

	// Mutations are serialized per route so two concurrent edits cannot
	// both pass the overlap check.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

func NewService(
	rateRepo repositories.TariffRateRepository,
	countryRepo repositories.CountryRepository,
	shipmentRepo repositories.ShipmentRepository,
	sysconfigRepo repositories.SystemConfigRepository,
	invalidator RouteInvalidator,
	timeout time.Duration,
) *Service {
	if rateRepo == nil {
		panic("rate repository is required")
	}
	if countryRepo == nil {
		panic("country repository is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		rates:     rateRepo,
		countries: countryRepo,
		shipments: shipmentRepo,
		sysconfig: sysconfigRepo,
		cache:     invalidator,
		timeout:   timeout,
		keyLocks:  make(map[string]*sync.Mutex),
	}
}

// lockRoute serializes every mutation touching one route, so overlapping
// conflict checks cannot interleave.
func (s *Service) lockRoute(origin, destination string) func() {
	key := origin + "|" + destination
	s.mu.Lock()
	lock, ok := s.keyLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.keyLocks[key] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// lockRoutes locks one or two routes, always in key order so a cross-route
// move cannot deadlock against another mutation locking the same pair.
func (s *Service) lockRoutes(aOrigin, aDestination, bOrigin, bDestination string) func() {
	aKey := aOrigin + "|" + aDestination
	bKey := bOrigin + "|" + bDestination
	if aKey == bKey {
		return s.lockRoute(aOrigin, aDestination)
	}
	if aKey > bKey {
		aOrigin, aDestination, bOrigin, bDestination = bOrigin, bDestination, aOrigin, aDestination
	}
	unlockA := s.lockRoute(aOrigin, aDestination)
	unlockB := s.lockRoute(bOrigin, bDestination)
	return func() {
		unlockB()
		unlockA()
	}
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) invalidate(ctx context.Context, origin, destination string) {
	if s.cache != nil {
		_ = s.cache.InvalidateRoute(ctx, origin, destination)
	}
}

func (s *Service) ListActive(ctx context.Context) ([]models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.rates.ListActive(sctx)
}

func (s *Service) ListInactive(ctx context.Context) ([]models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.rates.ListInactive(sctx)
}

func (s *Service) Get(ctx context.Context, id uint) (*models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()
	return s.rates.GetByID(sctx, id)
}

// Deactivate soft-deletes a rule. Deactivating an already-inactive rule is a
// no-op success.
func (s *Service) Deactivate(ctx context.Context, id uint) (*models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rate, err := s.rates.GetByID(sctx, id)
	if err != nil {
		return nil, err
	}
	if !rate.IsActive {
		return rate, nil
	}

	unlock := s.lockRoute(rate.OriginCountry, rate.DestinationCountry)
	defer unlock()

	rate.IsActive = false
	if err := s.rates.Update(sctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, rate.OriginCountry, rate.DestinationCountry)
	return rate, nil
}

// Reactivate re-enables a deactivated rule, re-running the overlap check
// against the rules that became active in the meantime.
func (s *Service) Reactivate(ctx context.Context, id uint) (*models.TariffRate, error) {
	sctx, cancel := s.storeCtx(ctx)
	defer cancel()

	rate, err := s.rates.GetByID(sctx, id)
	if err != nil {
		return nil, err
	}
	if rate.IsActive {
		return rate, nil
	}

	unlock := s.lockRoute(rate.OriginCountry, rate.DestinationCountry)
	defer unlock()

	if err := s.checkConflicts(sctx, rate, rate.ID); err != nil {
		return nil, err
	}

	rate.IsActive = true
	if err := s.rates.Update(sctx, rate); err != nil {
		return nil, err
	}
	s.invalidate(ctx, rate.OriginCountry, rate.DestinationCountry)
	return rate, nil
}

// BulkDeactivate deactivates a set of rules, skipping ids that do not exist.
func (s *Service) BulkDeactivate(ctx context.Context, ids []uint) (int, error) {
	count := 0
	for _, id := range ids {
		rate, err := s.Deactivate(ctx, id)
		if err != nil {
			if err == errors.ErrRateNotFound {
				continue
			}
			return count, err
		}
		_ = rate
		count++
	}
	return count, nil
}

// checkConflicts rejects a rule whose scope would overlap an active rule at
// the same specificity. Administrators deactivate the old rule first instead
// of relying on silent tie-breaks.
func (s *Service) checkConflicts(ctx context.Context, rate *models.TariffRate, excludeID uint) error {
	blockers, err := s.rates.FindConflicts(ctx, repositories.ConflictProbe{
		OriginCountry:      rate.OriginCountry,
		DestinationCountry: rate.DestinationCountry,
		GoodsCategory:      rate.GoodsCategory,
		PostalService:      rate.PostalService,
		StartDate:          rate.StartDate,
		EndDate:            rate.EndDate,
		MinWeight:          rate.MinWeight,
		MaxWeight:          rate.MaxWeight,
		ExcludeID:          excludeID,
	})
	if err != nil {
		return err
	}
	if len(blockers) == 0 {
		return nil
	}
	ids := make([]uint, len(blockers))
	for i, b := range blockers {
		ids[i] = b.ID
	}
	return &errors.ConflictError{
		Message:     fmt.Sprintf("date and weight ranges overlap %d existing active rate(s)", len(blockers)),
		BlockingIDs: ids,
	}
}
