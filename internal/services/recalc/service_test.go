package recalc

import (
	"context"
	goerrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cargomail/internal/errors"
	"cargomail/internal/models"
	"cargomail/internal/repositories"
	"cargomail/internal/services/tariff"
)

// fakeShipmentStore is an in-memory ShipmentRepository that applies tariff
// write-backs, so back-to-back runs observe each other's updates.
type fakeShipmentStore struct {
	mu         sync.Mutex
	shipments  []models.Shipment
	afterBatch func(processed int)
}

func (f *fakeShipmentStore) ForEachBatch(ctx context.Context, _ repositories.ShipmentFilter, batchSize int, fn func([]models.Shipment) error) error {
	f.mu.Lock()
	snapshot := make([]models.Shipment, len(f.shipments))
	copy(snapshot, f.shipments)
	f.mu.Unlock()

	for start := 0; start < len(snapshot); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + batchSize
		if end > len(snapshot) {
			end = len(snapshot)
		}
		if err := fn(snapshot[start:end]); err != nil {
			return err
		}
		if f.afterBatch != nil {
			f.afterBatch(end)
		}
	}
	return nil
}

func (f *fakeShipmentStore) UpdateTariff(_ context.Context, id uint, amount, rateUsed float64, method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.shipments {
		if f.shipments[i].ID == id {
			f.shipments[i].TariffAmount = amount
			f.shipments[i].TariffRateUsed = rateUsed
			f.shipments[i].TariffCalculationMethod = method
			return nil
		}
	}
	return errors.ErrRateNotFound
}

func (f *fakeShipmentStore) RouteAggregates(context.Context) ([]repositories.RouteAggregate, error) {
	return nil, nil
}

func (f *fakeShipmentStore) SystemAggregates(context.Context) (*repositories.SystemAggregate, error) {
	return &repositories.SystemAggregate{}, nil
}

func (f *fakeShipmentStore) RouteHistoricalTotals(context.Context, string, string) (float64, float64, error) {
	return 0, 0, nil
}

func (f *fakeShipmentStore) DistinctCategories(context.Context) ([]string, error) { return nil, nil }
func (f *fakeShipmentStore) DistinctServices(context.Context) ([]string, error)  { return nil, nil }

// stubResolver returns a fixed rate per route, ErrNoConfiguredRate otherwise.
type stubResolver struct {
	rates map[string]*models.TariffRate
	err   error
}

func (s *stubResolver) Resolve(_ context.Context, req tariff.Request, _ time.Time) (*models.TariffRate, error) {
	if s.err != nil {
		return nil, s.err
	}
	if rate, ok := s.rates[req.Origin+"|"+req.Destination]; ok {
		return rate, nil
	}
	return nil, errors.ErrNoConfiguredRate
}

type stubDefaults struct{}

func (stubDefaults) CalculationDefaults(context.Context) (tariff.Defaults, error) {
	return tariff.Defaults{DefaultTariffRate: 0.8, Currency: "USD"}, nil
}

func shipment(id uint, origin, dest string, declared, tariffAmount float64) models.Shipment {
	return models.Shipment{
		ID:                 id,
		TrackingNumber:     "TRK",
		OriginStation:      origin,
		DestinationStation: dest,
		DeclaredValue:      declared,
		GoodsCategory:      models.Wildcard,
		PostalService:      models.Wildcard,
		TariffAmount:       tariffAmount,
	}
}

func TestRun_UpdatesAndIdempotence(t *testing.T) {
	store := &fakeShipmentStore{
		shipments: []models.Shipment{
			shipment(1, "CN", "US", 100, 0),
			shipment(2, "CN", "US", 200, 0),
			shipment(3, "CN", "GB", 100, 0), // unconfigured route, falls back
		},
	}
	res := &stubResolver{rates: map[string]*models.TariffRate{
		"CN|US": {TariffRate: 0.5, IsActive: true},
	}}

	svc := NewService(store, res, stubDefaults{}, 2, 2)

	first, err := svc.Run(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.True(t, first.Success)
	assert.Equal(t, 3, first.TotalShipments)
	assert.Equal(t, 3, first.UpdatedCount)
	assert.Equal(t, 0, first.SkippedCount)
	assert.NotEmpty(t, first.RunID)

	assert.Equal(t, 50.0, store.shipments[0].TariffAmount)
	assert.Equal(t, models.MethodConfigured, store.shipments[0].TariffCalculationMethod)
	assert.Equal(t, 80.0, store.shipments[2].TariffAmount)
	assert.Equal(t, models.MethodFallback, store.shipments[2].TariffCalculationMethod)

	// Re-running against an unchanged rule set writes nothing.
	second, err := svc.Run(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.Equal(t, 0, second.UpdatedCount)
	assert.Equal(t, 3, second.UnchangedCount)
}

func TestRun_SubCentDifferenceIsUnchanged(t *testing.T) {
	store := &fakeShipmentStore{
		shipments: []models.Shipment{
			shipment(1, "CN", "US", 100, 50.004),
		},
	}
	store.shipments[0].TariffCalculationMethod = models.MethodConfigured
	res := &stubResolver{rates: map[string]*models.TariffRate{
		"CN|US": {TariffRate: 0.5, IsActive: true},
	}}

	svc := NewService(store, res, stubDefaults{}, 10, 1)
	result, err := svc.Run(context.Background(), Filter{})
	assert.NoError(t, err)
	assert.Equal(t, 1, result.UnchangedCount)
	assert.Equal(t, 50.004, store.shipments[0].TariffAmount)
}

func TestRun_SkipsFailuresAndContinues(t *testing.T) {
	store := &fakeShipmentStore{
		shipments: []models.Shipment{
			shipment(1, "", "US", 100, 0), // missing origin station
			shipment(2, "CN", "US", 100, 0),
		},
	}
	res := &stubResolver{rates: map[string]*models.TariffRate{
		"CN|US": {TariffRate: 0.5, IsActive: true},
	}}

	svc := NewService(store, res, stubDefaults{}, 10, 2)
	result, err := svc.Run(context.Background(), Filter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, uint(1), result.Errors[0].ShipmentID)
	assert.Contains(t, result.Errors[0].Reason, "station")
}

func TestRun_ResolverErrorSkipsShipment(t *testing.T) {
	store := &fakeShipmentStore{
		shipments: []models.Shipment{shipment(1, "CN", "US", 100, 0)},
	}
	res := &stubResolver{err: goerrors.New("storage down")}

	svc := NewService(store, res, stubDefaults{}, 10, 1)
	result, err := svc.Run(context.Background(), Filter{})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.UpdatedCount)
	assert.Equal(t, 1, result.SkippedCount)
	assert.Contains(t, result.Errors[0].Reason, "resolution failed")
}

func TestRun_Cancellation(t *testing.T) {
	store := &fakeShipmentStore{}
	for i := uint(1); i <= 10; i++ {
		store.shipments = append(store.shipments, shipment(i, "CN", "US", 100, 0))
	}
	res := &stubResolver{rates: map[string]*models.TariffRate{
		"CN|US": {TariffRate: 0.5, IsActive: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(store, res, stubDefaults{}, 2, 1)
	result, err := svc.Run(ctx, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	// The partial result survives the stop.
	assert.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "stopped")
	assert.Equal(t, 0, result.TotalShipments)
}

func TestRun_MidScanCancellationKeepsPartialCounts(t *testing.T) {
	store := &fakeShipmentStore{}
	for i := uint(1); i <= 6; i++ {
		store.shipments = append(store.shipments, shipment(i, "CN", "US", 100, 0))
	}
	res := &stubResolver{rates: map[string]*models.TariffRate{
		"CN|US": {TariffRate: 0.5, IsActive: true},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	svc := NewService(store, res, stubDefaults{}, 2, 1)

	// Cancel after the first batch completes.
	store.afterBatch = func(processed int) {
		if processed >= 2 {
			cancel()
		}
	}

	result, err := svc.Run(ctx, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotNil(t, result)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.TotalShipments)
	assert.Equal(t, 2, result.UpdatedCount)
}
