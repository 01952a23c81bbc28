package repositories

import (
	"context"
	goerrors "errors"
	"fmt"

	"cargomail/internal/errors"
	"cargomail/internal/models"

	"gorm.io/gorm"
)

type tariffRateRepository struct {
	db *gorm.DB
}

func NewTariffRateRepository(db *gorm.DB) TariffRateRepository {
	return &tariffRateRepository{db: db}
}

func (r *tariffRateRepository) ListActive(ctx context.Context) ([]models.TariffRate, error) {
	return r.list(ctx, true)
}

func (r *tariffRateRepository) ListInactive(ctx context.Context) ([]models.TariffRate, error) {
	return r.list(ctx, false)
}

func (r *tariffRateRepository) list(ctx context.Context, active bool) ([]models.TariffRate, error) {
	var rates []models.TariffRate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", active).
		Order("origin_country, destination_country, goods_category, postal_service, start_date").
		Find(&rates).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to list tariff rates: %w", err))
	}
	return rates, nil
}

func (r *tariffRateRepository) GetByID(ctx context.Context, id uint) (*models.TariffRate, error) {
	var rate models.TariffRate
	if err := r.db.WithContext(ctx).First(&rate, id).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRateNotFound
		}
		return nil, mapStorageErr(fmt.Errorf("failed to get tariff rate: %w", err))
	}
	return &rate, nil
}

func (r *tariffRateRepository) Create(ctx context.Context, rate *models.TariffRate) error {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return mapStorageErr(fmt.Errorf("failed to create tariff rate: %w", err))
	}
	return nil
}

func (r *tariffRateRepository) CreateBatch(ctx context.Context, rates []*models.TariffRate) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rate := range rates {
			if err := tx.Create(rate).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return mapStorageErr(fmt.Errorf("failed to create tariff rates: %w", err))
	}
	return nil
}

func (r *tariffRateRepository) Update(ctx context.Context, rate *models.TariffRate) error {
	if err := r.db.WithContext(ctx).Save(rate).Error; err != nil {
		return mapStorageErr(fmt.Errorf("failed to update tariff rate: %w", err))
	}
	return nil
}

func (r *tariffRateRepository) FindActiveByRoute(ctx context.Context, origin, destination string) ([]models.TariffRate, error) {
	var rates []models.TariffRate
	err := r.db.WithContext(ctx).
		Where("origin_country = ? AND destination_country = ? AND is_active = ?", origin, destination, true).
		Find(&rates).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to find rates for route: %w", err))
	}
	return rates, nil
}

func (r *tariffRateRepository) FindConflicts(ctx context.Context, probe ConflictProbe) ([]models.TariffRate, error) {
	// Two ranges overlap when each starts before the other ends; applied to
	// both the date window and the weight band.
	q := r.db.WithContext(ctx).
		Where("origin_country = ? AND destination_country = ?", probe.OriginCountry, probe.DestinationCountry).
		Where("goods_category = ? AND postal_service = ?", probe.GoodsCategory, probe.PostalService).
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", probe.EndDate, probe.StartDate).
		Where("min_weight <= ? AND max_weight >= ?", probe.MaxWeight, probe.MinWeight)
	if probe.ExcludeID != 0 {
		q = q.Where("id <> ?", probe.ExcludeID)
	}
	var rates []models.TariffRate
	if err := q.Find(&rates).Error; err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to check rate conflicts: %w", err))
	}
	return rates, nil
}

func (r *tariffRateRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "goods_category")
}

func (r *tariffRateRepository) DistinctServices(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "postal_service")
}

func (r *tariffRateRepository) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&models.TariffRate{}).
		Where("is_active = ?", true).
		Where(column+" <> ?", models.Wildcard).
		Distinct(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to list distinct %s: %w", column, err))
	}
	return values, nil
}
