package repositories

import (
	"context"
	"fmt"

	"cargomail/internal/models"

	"gorm.io/gorm"
)

type shipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepository{db: db}
}

func (r *shipmentRepository) scoped(ctx context.Context, filter ShipmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Shipment{})
	if filter.StartDate != nil {
		q = q.Where("shipment_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("shipment_date <= ?", *filter.EndDate)
	}
	if len(filter.Routes) > 0 {
		routes := r.db.Session(&gorm.Session{NewDB: true})
		cond := routes
		for i, route := range filter.Routes {
			pair := routes.Where("origin_station = ? AND destination_station = ?", route.Origin, route.Destination)
			if i == 0 {
				cond = pair
			} else {
				cond = cond.Or(pair)
			}
		}
		q = q.Where(cond)
	}
	return q
}

func (r *shipmentRepository) ForEachBatch(ctx context.Context, filter ShipmentFilter, batchSize int, fn func(batch []models.Shipment) error) error {
	var shipments []models.Shipment
	result := r.scoped(ctx, filter).Order("id").FindInBatches(&shipments, batchSize, func(tx *gorm.DB, _ int) error {
		return fn(shipments)
	})
	if result.Error != nil {
		return mapStorageErr(fmt.Errorf("failed to scan shipments: %w", result.Error))
	}
	return nil
}

func (r *shipmentRepository) UpdateTariff(ctx context.Context, id uint, amount, rateUsed float64, method string) error {
	err := r.db.WithContext(ctx).Model(&models.Shipment{}).Where("id = ?", id).Updates(map[string]interface{}{
		"tariff_amount":             amount,
		"tariff_rate_used":          rateUsed,
		"tariff_calculation_method": method,
	}).Error
	if err != nil {
		return mapStorageErr(fmt.Errorf("failed to update shipment tariff: %w", err))
	}
	return nil
}

func (r *shipmentRepository) RouteAggregates(ctx context.Context) ([]RouteAggregate, error) {
	var aggregates []RouteAggregate
	err := r.db.WithContext(ctx).Model(&models.Shipment{}).
		Select("origin_station AS origin, destination_station AS destination, COUNT(id) AS shipment_count, COALESCE(SUM(declared_value),0) AS total_declared_value, COALESCE(SUM(tariff_amount),0) AS total_tariff_amount").
		Where("origin_station <> '' AND destination_station <> ''").
		Group("origin_station, destination_station").
		Order("origin_station, destination_station").
		Scan(&aggregates).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to aggregate routes: %w", err))
	}
	return aggregates, nil
}

func (r *shipmentRepository) SystemAggregates(ctx context.Context) (*SystemAggregate, error) {
	var agg SystemAggregate
	err := r.db.WithContext(ctx).Model(&models.Shipment{}).
		Select("COUNT(id) AS total_shipments, COALESCE(SUM(declared_value),0) AS total_declared_value, COALESCE(SUM(tariff_amount),0) AS total_tariff_amount, COALESCE(MIN(tariff_amount),0) AS min_tariff_amount, COALESCE(MAX(tariff_amount),0) AS max_tariff_amount").
		Scan(&agg).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to aggregate shipments: %w", err))
	}
	return &agg, nil
}

func (r *shipmentRepository) RouteHistoricalTotals(ctx context.Context, origin, destination string) (float64, float64, error) {
	var totals struct {
		Declared float64
		Tariff   float64
	}
	err := r.db.WithContext(ctx).Model(&models.Shipment{}).
		Select("COALESCE(SUM(declared_value),0) AS declared, COALESCE(SUM(tariff_amount),0) AS tariff").
		Where("origin_station = ? AND destination_station = ?", origin, destination).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, mapStorageErr(fmt.Errorf("failed to total route history: %w", err))
	}
	return totals.Declared, totals.Tariff, nil
}

func (r *shipmentRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "goods_category")
}

func (r *shipmentRepository) DistinctServices(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "postal_service")
}

func (r *shipmentRepository) distinct(ctx context.Context, column string) ([]string, error) {
	var values []string
	err := r.db.WithContext(ctx).Model(&models.Shipment{}).
		Where(column+" <> '' AND "+column+" <> ?", models.Wildcard).
		Distinct(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, mapStorageErr(fmt.Errorf("failed to list distinct %s: %w", column, err))
	}
	return values, nil
}
