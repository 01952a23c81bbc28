package repositories

import (
	"context"
	"time"

	"cargomail/internal/models"
)

// Route is an (origin, destination) station-code pair.
type Route struct {
	Origin      string
	Destination string
}

// ShipmentFilter narrows batch recalculation to a date range and/or routes.
// Nil/empty fields match everything.
type ShipmentFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Routes    []Route
}

// RouteAggregate summarizes historical shipments for one route.
type RouteAggregate struct {
	Origin             string  `json:"origin"`
	Destination        string  `json:"destination"`
	ShipmentCount      int64   `json:"shipment_count"`
	TotalDeclaredValue float64 `json:"total_declared_value"`
	TotalTariffAmount  float64 `json:"total_tariff_amount"`
}

// SystemAggregate summarizes all historical shipments for system defaults.
type SystemAggregate struct {
	TotalShipments     int64   `json:"total_shipments"`
	TotalDeclaredValue float64 `json:"total_declared_value"`
	TotalTariffAmount  float64 `json:"total_tariff_amount"`
	MinTariffAmount    float64 `json:"min_tariff_amount"`
	MaxTariffAmount    float64 `json:"max_tariff_amount"`
}

// ShipmentRepository provides the engine's view of the external shipment
// store: bounded-batch reads for recalculation, tariff write-backs, and the
// aggregates behind the routes and system-defaults screens.
type ShipmentRepository interface {
	// ForEachBatch streams matching shipments in batches of batchSize,
	// invoking fn for each batch. Returning an error from fn stops the scan.
	ForEachBatch(ctx context.Context, filter ShipmentFilter, batchSize int, fn func(batch []models.Shipment) error) error
	UpdateTariff(ctx context.Context, id uint, amount, rateUsed float64, method string) error
	RouteAggregates(ctx context.Context) ([]RouteAggregate, error)
	SystemAggregates(ctx context.Context) (*SystemAggregate, error)
	RouteHistoricalTotals(ctx context.Context, origin, destination string) (declared, tariff float64, err error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctServices(ctx context.Context) ([]string, error)
}
