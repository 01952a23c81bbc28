package repositories

import (
	"context"
	goerrors "errors"
	"fmt"
	"strconv"

	"cargomail/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type systemConfigRepository struct {
	db *gorm.DB
}

func NewSystemConfigRepository(db *gorm.DB) SystemConfigRepository {
	return &systemConfigRepository{db: db}
}

func (r *systemConfigRepository) Get(ctx context.Context, key string) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	if err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, mapStorageErr(fmt.Errorf("failed to get config %s: %w", key, err))
	}
	return &cfg, nil
}

func (r *systemConfigRepository) GetFloat(ctx context.Context, key string, defaultVal float64) (float64, error) {
	cfg, err := r.Get(ctx, key)
	if err != nil {
		return defaultVal, err
	}
	if cfg == nil {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(cfg.ConfigValue, 64)
	if err != nil {
		return defaultVal, nil
	}
	return f, nil
}

func (r *systemConfigRepository) Set(ctx context.Context, key, value, configType, description string) error {
	cfg := models.SystemConfig{
		ConfigKey:   key,
		ConfigValue: value,
		ConfigType:  configType,
		Description: description,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "config_type", "description", "updated_at"}),
	}).Create(&cfg).Error
	if err != nil {
		return mapStorageErr(fmt.Errorf("failed to set config %s: %w", key, err))
	}
	return nil
}
