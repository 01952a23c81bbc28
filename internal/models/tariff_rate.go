package models

import (
	"time"
)

// Wildcard is the storage sentinel meaning "applies to all categories/services".
// Service code should compare scopes through resolver.Scope, not this string.
const Wildcard = "*"

// Defaults mirroring the configuration UI: an unset end date means open-ended,
// an unset weight band covers everything.
var (
	OpenEndDate      = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
	DefaultMinWeight = 0.0
	DefaultMaxWeight = 999999.0
)

// TariffRate is a configured tariff rule scoped by route, goods category,
// postal service, validity window and weight band. Rows are never hard-deleted;
// deactivation keeps them for audit.
type TariffRate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OriginCountry      string `gorm:"size:100;not null;index" json:"origin_country"`
	DestinationCountry string `gorm:"size:100;not null;index" json:"destination_country"`

	GoodsCategory string `gorm:"size:100;default:'*';index" json:"goods_category"`
	PostalService string `gorm:"size:100;default:'*';index" json:"postal_service"`

	StartDate time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null;index" json:"end_date"`

	MinWeight float64 `gorm:"default:0;index" json:"min_weight"`
	MaxWeight float64 `gorm:"default:999999;index" json:"max_weight"`

	TariffRate        float64  `gorm:"not null" json:"tariff_rate"`
	CategorySurcharge float64  `gorm:"default:0" json:"category_surcharge"`
	MinimumTariff     float64  `gorm:"default:0" json:"minimum_tariff"`
	MaximumTariff     *float64 `json:"maximum_tariff,omitempty"`

	Currency string `gorm:"size:10;default:'USD'" json:"currency"`
	IsActive bool   `gorm:"default:true;index:idx_active_rates" json:"is_active"`
	Notes    string `gorm:"type:text" json:"notes"`
}

// AppliesOn reports whether asOf falls inside the rule's validity window
// (inclusive on both ends).
func (r *TariffRate) AppliesOn(asOf time.Time) bool {
	day := asOf.Truncate(24 * time.Hour)
	return !day.Before(r.StartDate.Truncate(24*time.Hour)) &&
		!day.After(r.EndDate.Truncate(24*time.Hour))
}

// CoversWeight reports whether the weight falls inside the rule's weight band.
func (r *TariffRate) CoversWeight(weight float64) bool {
	return weight >= r.MinWeight && weight <= r.MaxWeight
}
