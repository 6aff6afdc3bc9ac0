package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"

	"fleetstats/internal/cli"
	"fleetstats/internal/config"
	"fleetstats/internal/core"
	logx "fleetstats/internal/log"
	"fleetstats/internal/services"
	"fleetstats/internal/stats"
)

type Args struct {
	DB           string `arg:"--db" help:"Path to the SQLite database. Overrides SQLITE_DB_PATH."`
	Report       string `arg:"--report" default:"fleet" help:"Report to compute: 'fleet', 'car', 'monthly', 'prices', 'consumption' or 'compare'."`
	Car          string `arg:"--car" help:"Car id for the 'car' report."`
	Unit         string `arg:"--unit" help:"Consumption unit: 'L/100km', 'km/L', 'G/100mi', 'km/G' or 'mi/L'. Overrides CONSUMPTION_UNIT."`
	BaseCurrency string `arg:"--base-currency" help:"Currency code reported as the fleet base currency."`
	Options      string `arg:"--options" help:"Path to a YAML options file overriding engine thresholds."`
	Seed         bool   `arg:"--seed" help:"Insert a small sample fleet into the database and exit."`
}

func (Args) Description() string {
	return "fleetstats computes fuel economy and cost statistics for a fleet of vehicles."
}

func main() {
	var args Args
	arg.MustParse(&args)

	cli.LoadEnvFile()

	cfg := config.Load()
	if args.DB != "" {
		cfg.SQLiteDBPath = args.DB
	}
	if args.Unit != "" {
		cfg.ConsumptionUnit = args.Unit
	}
	if args.BaseCurrency != "" {
		cfg.BaseCurrency = args.BaseCurrency
	}
	if args.Options != "" {
		cfg.OptionsFile = args.Options
	}

	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(logx.ComponentCLI)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if args.Seed {
		if err := seed(ctx, repo); err != nil {
			logger.Error("Seeding failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Sample fleet inserted", "path", cfg.SQLiteDBPath)
		return
	}

	opts, err := cfg.StatsOptions()
	if err != nil {
		logger.Error("Invalid engine options", "error", err)
		os.Exit(1)
	}

	service := services.NewStatsService(repo, opts, cfg.CacheSize, cfg.CacheTTL, logger)

	result, err := runReport(ctx, service, args, opts)
	if err != nil {
		logger.Error("Report failed", "report", args.Report, "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Error("Failed to encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func runReport(ctx context.Context, service *services.StatsService, args Args, opts stats.Options) (any, error) {
	switch args.Report {
	case "fleet":
		return service.FleetReport(ctx, opts)
	case "car":
		if args.Car == "" {
			return nil, fmt.Errorf("--car is required for the 'car' report")
		}
		return service.CarReport(ctx, core.RecordID(args.Car), opts)
	case "monthly":
		return service.MonthlyTrends(ctx, opts)
	case "prices":
		return service.FuelPrices(ctx)
	case "consumption":
		return service.ConsumptionSeries(ctx, opts)
	case "compare":
		return service.CompareCars(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown report %q", args.Report)
	}
}

// seed inserts a small two-car fleet so reports have something to show on a
// fresh database.
func seed(ctx context.Context, repo seeder) error {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
	}

	carID, err := repo.InsertCar(ctx, core.Car{
		Name: "Daily driver", Brand: "Toyota", Model: "Corolla", Year: 2019,
		VehicleType: "car", ID: "seed-car-1",
	})
	if err != nil {
		return err
	}
	vanID, err := repo.InsertCar(ctx, core.Car{
		Name: "Van", Brand: "Ford", Model: "Transit", Year: 2016,
		VehicleType: "van", ID: "seed-car-2",
	})
	if err != nil {
		return err
	}

	fuel := []core.FuelEntry{
		{CarID: carID, Date: day(1), Mileage: 10000, DistanceUnit: core.DistanceKm,
			Volume: 40, VolumeUnit: core.VolumeLiters, Cost: 60, Currency: "EUR",
			FuelCompany: "Shell", FuelType: "Diesel"},
		{CarID: carID, Date: day(10), Mileage: 10450, DistanceUnit: core.DistanceKm,
			Volume: 38, VolumeUnit: core.VolumeLiters, Cost: 58, Currency: "EUR",
			FuelCompany: "Esso", FuelType: "Diesel"},
		{CarID: carID, Date: day(21), Mileage: 10900, DistanceUnit: core.DistanceKm,
			Volume: 39, VolumeUnit: core.VolumeLiters, Cost: 61, Currency: "EUR",
			FuelCompany: "Shell", FuelType: "Diesel"},
		{CarID: vanID, Date: day(5), Mileage: 82000, DistanceUnit: core.DistanceKm,
			Volume: 60, VolumeUnit: core.VolumeLiters, Cost: 95, Currency: "EUR",
			FuelCompany: "Q8", FuelType: "Diesel"},
		{CarID: vanID, Date: day(19), Mileage: 82800, DistanceUnit: core.DistanceKm,
			Volume: 58, VolumeUnit: core.VolumeLiters, Cost: 92, Currency: "EUR",
			FuelCompany: "Q8", FuelType: "Diesel"},
	}
	for _, e := range fuel {
		if _, err := repo.InsertFuelEntry(ctx, e); err != nil {
			return err
		}
	}

	expenses := []core.ExpenseEntry{
		{CarID: carID, Date: day(8), Category: "Insurance", Amount: 120, Currency: "EUR"},
		{CarID: vanID, Date: day(15), Category: "Maintenance", Amount: 240, Currency: "EUR"},
	}
	for _, e := range expenses {
		if _, err := repo.InsertExpenseEntry(ctx, e); err != nil {
			return err
		}
	}

	_, err = repo.InsertIncomeEntry(ctx, core.IncomeEntry{
		CarID: vanID, Date: day(25), Category: "Delivery", Amount: 300, Currency: "EUR",
	})
	return err
}

type seeder interface {
	InsertCar(ctx context.Context, c core.Car) (core.RecordID, error)
	InsertFuelEntry(ctx context.Context, e core.FuelEntry) (core.RecordID, error)
	InsertExpenseEntry(ctx context.Context, e core.ExpenseEntry) (core.RecordID, error)
	InsertIncomeEntry(ctx context.Context, e core.IncomeEntry) (core.RecordID, error)
}
