package repositories

import (
	"context"
	"time"

	"cargomail/internal/models"
)

// ConflictProbe describes the scope a candidate rule would occupy; the
// repository returns every active rule whose date window and weight band both
// overlap it for the same route/category/service tuple.
type ConflictProbe struct {
	OriginCountry      string
	DestinationCountry string
	GoodsCategory      string
	PostalService      string
	StartDate          time.Time
	EndDate            time.Time
	MinWeight          float64
	MaxWeight          float64
	ExcludeID          uint
}

// TariffRateRepository provides access to configured tariff rate rules.
type TariffRateRepository interface {
	ListActive(ctx context.Context) ([]models.TariffRate, error)
	ListInactive(ctx context.Context) ([]models.TariffRate, error)
	GetByID(ctx context.Context, id uint) (*models.TariffRate, error)
	Create(ctx context.Context, rate *models.TariffRate) error
	// CreateBatch writes all rows in a single transaction; either every row
	// is persisted or none are.
	CreateBatch(ctx context.Context, rates []*models.TariffRate) error
	Update(ctx context.Context, rate *models.TariffRate) error
	// FindActiveByRoute returns every active rule for a route; resolution
	// filtering happens in the resolver.
	FindActiveByRoute(ctx context.Context, origin, destination string) ([]models.TariffRate, error)
	FindConflicts(ctx context.Context, probe ConflictProbe) ([]models.TariffRate, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctServices(ctx context.Context) ([]string, error)
}
