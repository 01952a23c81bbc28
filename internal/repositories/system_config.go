package repositories

import (
	"context"

	"cargomail/internal/models"
)

// SystemConfigRepository stores system-wide settings such as the fallback rate.
type SystemConfigRepository interface {
	GetFloat(ctx context.Context, key string, defaultVal float64) (float64, error)
	Set(ctx context.Context, key, value, configType, description string) error
	Get(ctx context.Context, key string) (*models.SystemConfig, error)
}
