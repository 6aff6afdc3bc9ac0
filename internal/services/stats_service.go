package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"fleetstats/internal/cache"
	"fleetstats/internal/core"
	logx "fleetstats/internal/log"
	"fleetstats/internal/stats"
)

// ErrUnknownCar is returned when a per-car report is requested for an id
// the record source does not know.
var ErrUnknownCar = errors.New("unknown car")

// RecordSource supplies the record arrays the engine computes over. The
// SQLite repository implements it; tests substitute an in-memory source.
type RecordSource interface {
	ListCars(ctx context.Context) ([]core.Car, error)
	ListFuelEntries(ctx context.Context) ([]core.FuelEntry, error)
	ListExpenseEntries(ctx context.Context) ([]core.ExpenseEntry, error)
	ListIncomeEntries(ctx context.Context) ([]core.IncomeEntry, error)
}

// StatsService orchestrates report computation: it loads records from the
// source, runs the pure engine functions and memoizes results keyed by the
// fingerprint of the exact inputs. A cache hit is only possible when the
// records and options are identical, so memoization never changes output.
type StatsService struct {
	source RecordSource
	opts   stats.Options
	cars   cache.Cache[*stats.CarReport]
	fleets cache.Cache[*stats.FleetStats]
	logger *logx.Logger
}

func NewStatsService(source RecordSource, opts stats.Options, cacheSize int, cacheTTL time.Duration, logger *logx.Logger) *StatsService {
	s := &StatsService{
		source: source,
		opts:   opts,
		logger: logger.WithComponent(logx.ComponentStats),
	}
	if cacheSize > 0 {
		s.cars = cache.NewLRU[*stats.CarReport](cacheSize, cacheTTL)
		s.fleets = cache.NewLRU[*stats.FleetStats](cacheSize, cacheTTL)
	} else {
		s.cars = cache.Disabled[*stats.CarReport]{}
		s.fleets = cache.Disabled[*stats.FleetStats]{}
	}
	return s
}

// Options returns the service's configured defaults. Callers that need a
// different unit or currency copy and adjust before passing them back in.
func (s *StatsService) Options() stats.Options {
	return s.opts
}

type records struct {
	cars     []core.Car
	fuel     []core.FuelEntry
	expenses []core.ExpenseEntry
	incomes  []core.IncomeEntry
}

func (s *StatsService) load(ctx context.Context) (*records, error) {
	var rec records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		rec.cars, err = s.source.ListCars(gctx)
		return err
	})
	g.Go(func() (err error) {
		rec.fuel, err = s.source.ListFuelEntries(gctx)
		return err
	})
	g.Go(func() (err error) {
		rec.expenses, err = s.source.ListExpenseEntries(gctx)
		return err
	})
	g.Go(func() (err error) {
		rec.incomes, err = s.source.ListIncomeEntries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &rec, nil
}

// CarReport computes the full per-car report for carID.
func (s *StatsService) CarReport(ctx context.Context, carID core.RecordID, opts stats.Options) (*stats.CarReport, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !s.knownCar(rec.cars, carID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCar, carID)
	}

	key := "car:" + carID.String() + ":" + stats.Fingerprint(rec.cars, rec.fuel, rec.expenses, rec.incomes, opts)
	if report, ok := s.cars.Get(key); ok {
		s.logger.DebugContext(ctx, "Report served from cache",
			logx.FieldCarID, carID, logx.FieldCacheKey, key, logx.FieldCacheHit, true)
		return report, nil
	}

	start := time.Now()
	report := stats.ComputeCarReport(carID, rec.fuel, rec.expenses, rec.incomes, opts)
	s.cars.Set(key, report)

	s.logger.InfoContext(ctx, "Car report computed",
		logx.FieldCarID, carID,
		logx.FieldFillUps, report.FillUps,
		logx.FieldDuration, time.Since(start))
	return report, nil
}

// FleetReport computes fleet-wide statistics over all known cars.
func (s *StatsService) FleetReport(ctx context.Context, opts stats.Options) (*stats.FleetStats, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	key := "fleet:" + stats.Fingerprint(rec.cars, rec.fuel, rec.expenses, rec.incomes, opts)
	if report, ok := s.fleets.Get(key); ok {
		s.logger.DebugContext(ctx, "Report served from cache",
			logx.FieldCacheKey, key, logx.FieldCacheHit, true)
		return report, nil
	}

	start := time.Now()
	report := stats.ComputeFleetStats(rec.cars, rec.fuel, rec.expenses, rec.incomes, opts)
	s.fleets.Set(key, report)

	s.logger.InfoContext(ctx, "Fleet report computed",
		logx.FieldFillUps, report.TotalFillUps,
		logx.FieldDuration, time.Since(start))
	return report, nil
}

// AllCarReports computes a report per car, fanned out across goroutines.
// The result maps car id to report.
func (s *StatsService) AllCarReports(ctx context.Context, opts stats.Options) (map[core.RecordID]*stats.CarReport, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	reports := make([]*stats.CarReport, len(rec.cars))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, car := range rec.cars {
		i, car := i, car
		g.Go(func() error {
			reports[i] = stats.ComputeCarReport(car.ID, rec.fuel, rec.expenses, rec.incomes, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[core.RecordID]*stats.CarReport, len(rec.cars))
	for i, car := range rec.cars {
		out[car.ID] = reports[i]
	}
	return out, nil
}

// MonthlyTrends returns per-currency monthly cost series.
func (s *StatsService) MonthlyTrends(ctx context.Context, opts stats.Options) (map[string][]stats.MonthlyTrendPoint, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.MonthlyTrendsByCurrency(rec.cars, rec.fuel, rec.expenses, rec.incomes, opts), nil
}

// FuelPrices returns per-currency unit-price series.
func (s *StatsService) FuelPrices(ctx context.Context) (map[string][]stats.FuelPricePoint, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.FuelPricesByCurrency(rec.fuel), nil
}

// ConsumptionSeries returns per-car consumption points over time.
func (s *StatsService) ConsumptionSeries(ctx context.Context, opts stats.Options) (map[string][]stats.ConsumptionPoint, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ConsumptionTrends(rec.cars, rec.fuel, opts), nil
}

// CompareCars returns one summary row per car with at least one fill-up.
func (s *StatsService) CompareCars(ctx context.Context, opts stats.Options) ([]stats.CarComparisonRow, error) {
	rec, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.CarComparison(rec.cars, rec.fuel, opts), nil
}

func (s *StatsService) knownCar(cars []core.Car, id core.RecordID) bool {
	for _, c := range cars {
		if core.MatchesCarID(c.ID, id) {
			return true
		}
	}
	return false
}
