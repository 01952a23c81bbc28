// Package recalc re-derives tariff amounts for stored shipments after rate
// configuration changes. Shipments stream through in bounded batches so runs
// over large tables hold a constant amount of memory.
package recalc

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"cargomail/internal/errors"
	"cargomail/internal/models"
	"cargomail/internal/repositories"
	"cargomail/internal/services/tariff"
)

// Epsilon is the write-back threshold: amounts within a cent of the stored
// value are counted as unchanged, making back-to-back runs idempotent.
const Epsilon = 0.01

const (
	defaultBatchSize = 500
	defaultWorkers   = 4
)

// Resolver finds the rate rule a shipment would resolve to.
// *resolver.Service satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, req tariff.Request, asOf time.Time) (*models.TariffRate, error)
}

// DefaultsSource supplies the fallback calculation parameters.
// *rates.Service satisfies it.
type DefaultsSource interface {
	CalculationDefaults(ctx context.Context) (tariff.Defaults, error)
}

// Filter narrows a run to a shipment date range and/or routes.
type Filter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Routes    []repositories.Route
}

// ShipmentError records one shipment the run could not recalculate.
type ShipmentError struct {
	ShipmentID     uint   `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
	Reason         string `json:"reason"`
}

// Result summarizes one recalculation run.
type Result struct {
	RunID          string          `json:"run_id"`
	Success        bool            `json:"success"`
	Message        string          `json:"message"`
	TotalShipments int             `json:"total_shipments"`
	UpdatedCount   int             `json:"updated_count"`
	UnchangedCount int             `json:"unchanged_count"`
	SkippedCount   int             `json:"skipped_count"`
	Errors         []ShipmentError `json:"errors,omitempty"`
}

type Service struct {
	shipments repositories.ShipmentRepository
	resolver  Resolver
	defaults  DefaultsSource
	batchSize int
	workers   int
}

func NewService(shipments repositories.ShipmentRepository, res Resolver, defaults DefaultsSource, batchSize, workers int) *Service {
	if shipments == nil {
		panic("shipment repository is required")
	}
	if res == nil {
		panic("resolver is required")
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Service{
		shipments: shipments,
		resolver:  res,
		defaults:  defaults,
		batchSize: batchSize,
		workers:   workers,
	}
}

// Run recalculates every shipment matching the filter. Per-shipment failures
// are recorded and skipped, never aborting the run; cancelling ctx stops the
// scan after the in-flight batch.
func (s *Service) Run(ctx context.Context, filter Filter) (*Result, error) {
	runID := uuid.NewString()
	result := &Result{RunID: runID}

	defaults := tariff.Defaults{DefaultTariffRate: 0.8, Currency: "USD"}
	if s.defaults != nil {
		d, err := s.defaults.CalculationDefaults(ctx)
		if err != nil {
			return nil, err
		}
		defaults = d
	}

	log.Printf("recalc %s: starting, batch size %d, %d workers", runID, s.batchSize, s.workers)

	var mu sync.Mutex
	batchNum := 0
	err := s.shipments.ForEachBatch(ctx, repositories.ShipmentFilter{
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
		Routes:    filter.Routes,
	}, s.batchSize, func(batch []models.Shipment) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		batchNum++
		s.processBatch(ctx, batch, defaults, result, &mu)
		log.Printf("recalc %s: batch %d done, %d updated, %d unchanged, %d skipped",
			runID, batchNum, result.UpdatedCount, result.UnchangedCount, result.SkippedCount)
		return nil
	})
	if err != nil {
		// Keep the counts from the batches that completed before the stop.
		result.Success = false
		result.Message = fmt.Sprintf("recalculation stopped after %d shipments: %v", result.TotalShipments, err)
		log.Printf("recalc %s: %s", runID, result.Message)
		return result, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("recalculated %d shipments: %d updated, %d unchanged, %d skipped",
		result.TotalShipments, result.UpdatedCount, result.UnchangedCount, result.SkippedCount)
	log.Printf("recalc %s: %s", runID, result.Message)
	return result, nil
}

func (s *Service) processBatch(ctx context.Context, batch []models.Shipment, defaults tariff.Defaults, result *Result, mu *sync.Mutex) {
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for i := range batch {
		shipment := batch[i]
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			outcome, shipErr := s.recalcOne(ctx, shipment, defaults)
			mu.Lock()
			defer mu.Unlock()
			result.TotalShipments++
			switch outcome {
			case outcomeUpdated:
				result.UpdatedCount++
			case outcomeUnchanged:
				result.UnchangedCount++
			case outcomeSkipped:
				result.SkippedCount++
				result.Errors = append(result.Errors, *shipErr)
			}
		}()
	}
	wg.Wait()
}

type outcome int

const (
	outcomeUpdated outcome = iota
	outcomeUnchanged
	outcomeSkipped
)

func (s *Service) recalcOne(ctx context.Context, shipment models.Shipment, defaults tariff.Defaults) (outcome, *ShipmentError) {
	skip := func(reason string) (outcome, *ShipmentError) {
		return outcomeSkipped, &ShipmentError{
			ShipmentID:     shipment.ID,
			TrackingNumber: shipment.TrackingNumber,
			Reason:         reason,
		}
	}

	if shipment.OriginStation == "" || shipment.DestinationStation == "" {
		return skip("missing origin or destination station")
	}

	asOf := time.Now().UTC()
	if shipment.ShipmentDate != nil {
		asOf = *shipment.ShipmentDate
	}

	weight := shipment.BagWeight
	req := tariff.Request{
		Origin:        shipment.OriginStation,
		Destination:   shipment.DestinationStation,
		DeclaredValue: shipment.DeclaredValue,
		Weight:        &weight,
		GoodsCategory: shipment.GoodsCategory,
		PostalService: shipment.PostalService,
	}

	rate, err := s.resolver.Resolve(ctx, req, asOf)
	if err != nil && err != errors.ErrNoConfiguredRate {
		return skip("rate resolution failed: " + err.Error())
	}

	calc, err := tariff.Calculate(req, rate, defaults)
	if err != nil {
		return skip("calculation failed: " + err.Error())
	}

	if math.Abs(calc.CalculatedTariff-shipment.TariffAmount) < Epsilon &&
		calc.CalculationMethod == shipment.TariffCalculationMethod {
		return outcomeUnchanged, nil
	}

	if err := s.shipments.UpdateTariff(ctx, shipment.ID, calc.CalculatedTariff, calc.CombinedRate, calc.CalculationMethod); err != nil {
		return skip("write-back failed: " + err.Error())
	}
	return outcomeUpdated, nil
}
