package repositories

import (
	"context"

	"cargomail/internal/models"
)

// CountryRepository provides access to the country reference registry.
type CountryRepository interface {
	List(ctx context.Context) ([]models.Country, error)
	GetByCode(ctx context.Context, code string) (*models.Country, error)
	Exists(ctx context.Context, code string) (bool, error)
	Upsert(ctx context.Context, country *models.Country) error
}
