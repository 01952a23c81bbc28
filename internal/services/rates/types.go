package rates

import (
	"time"

	"cargomail/internal/models"
)

// CreateInput carries a new rule. Optional fields are pointers; unset ones
// take the configuration defaults (wildcard scopes, open-ended window, full
// weight band).
type CreateInput struct {
	OriginCountry      string
	DestinationCountry string
	GoodsCategory      string
	PostalService      string
	StartDate          *time.Time
	EndDate            *time.Time
	MinWeight          *float64
	MaxWeight          *float64
	TariffRate         *float64
	CategorySurcharge  *float64
	MinimumTariff      *float64
	MaximumTariff      *float64
	Currency           string
	Notes              string
}

// UpdateInput is a patch: nil fields keep their stored values.
type UpdateInput struct {
	OriginCountry      *string
	DestinationCountry *string
	GoodsCategory      *string
	PostalService      *string
	StartDate          *time.Time
	EndDate            *time.Time
	MinWeight          *float64
	MaxWeight          *float64
	TariffRate         *float64
	CategorySurcharge  *float64
	MinimumTariff      *float64
	MaximumTariff      *float64
	Currency           *string
	IsActive           *bool
	Notes              *string
}

// CategoryConfig pairs a goods category with its surcharge over the base rate.
type CategoryConfig struct {
	Category  string  `json:"category"`
	Surcharge float64 `json:"surcharge"`
}

// BulkInput materializes one rule per category config, all sharing the route,
// service scope, validity window, weight band, base rate and bounds.
type BulkInput struct {
	OriginCountry      string
	DestinationCountry string
	PostalService      string
	StartDate          *time.Time
	EndDate            *time.Time
	MinWeight          *float64
	MaxWeight          *float64
	BaseRate           float64
	MinimumTariff      float64
	MaximumTariff      *float64
	Notes              string
	CategoryConfigs    []CategoryConfig
}

// SystemDefaults is the read-only defaults summary backing the management UI.
type SystemDefaults struct {
	DefaultTariffRate      float64 `json:"default_tariff_rate"`
	DefaultMinimumTariff   float64 `json:"default_minimum_tariff"`
	SuggestedMaximumTariff float64 `json:"suggested_maximum_tariff"`
	DefaultCurrency        string  `json:"default_currency"`
}

// SystemStats aggregates historical shipment data.
type SystemStats struct {
	TotalShipments     int64   `json:"total_shipments"`
	TotalDeclaredValue float64 `json:"total_declared_value"`
	TotalTariffAmount  float64 `json:"total_tariff_amount"`
	AverageRate        float64 `json:"average_rate"`
}

// RouteOverview joins a route's shipment history with its configured rule.
type RouteOverview struct {
	Origin             string             `json:"origin"`
	Destination        string             `json:"destination"`
	Route              string             `json:"route"`
	ShipmentCount      int64              `json:"shipment_count"`
	TotalDeclaredValue float64            `json:"total_declared_value"`
	TotalTariffAmount  float64            `json:"total_tariff_amount"`
	HistoricalRate     float64            `json:"historical_rate"`
	ConfiguredRate     *models.TariffRate `json:"configured_rate,omitempty"`
	HasConfiguredRate  bool               `json:"has_configured_rate"`
}
