package repositories

import (
	"context"
	goerrors "errors"
	"fmt"

	"cargomail/internal/errors"
	"cargomail/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type countryRepository struct {
	db *gorm.DB
}

func NewCountryRepository(db *gorm.DB) CountryRepository {
	return &countryRepository{db: db}
}

func (r *countryRepository) List(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	if err := r.db.WithContext(ctx).Order("code").Find(&countries).Error; err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to list countries: %w", err))
	}
	return countries, nil
}

func (r *countryRepository) GetByCode(ctx context.Context, code string) (*models.Country, error) {
	var country models.Country
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&country).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCountryNotFound
		}
		return nil, mapStorageErr(fmt.Errorf("failed to get country: %w", err))
	}
	return &country, nil
}

func (r *countryRepository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Country{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, mapStorageErr(fmt.Errorf("failed to check country: %w", err))
	}
	return count > 0, nil
}

func (r *countryRepository) Upsert(ctx context.Context, country *models.Country) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(country).Error
	if err != nil {
		return mapStorageErr(fmt.Errorf("failed to upsert country: %w", err))
	}
	return nil
}
