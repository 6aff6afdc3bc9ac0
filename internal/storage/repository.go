// Package storage supplies record arrays from a local SQLite database. It
// is the persistence collaborator of the statistics engine: the engine only
// ever sees the typed slices returned here and never touches the database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"fleetstats/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) ListCars(ctx context.Context) ([]core.Car, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, brand, model, year, vehicle_type FROM cars ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []core.Car
	for rows.Next() {
		var c core.Car
		var id string
		if err := rows.Scan(&id, &c.Name, &c.Brand, &c.Model, &c.Year, &c.VehicleType); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		c.ID = core.RecordID(id)
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (r *SQLiteRepository) ListFuelEntries(ctx context.Context) ([]core.FuelEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, date, mileage, distance_unit, volume, volume_unit,
		        cost, currency, partial_fuel_up, fuel_company, fuel_type
		 FROM fuel_entries ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list fuel entries: %w", err)
	}
	defer rows.Close()

	var entries []core.FuelEntry
	for rows.Next() {
		var e core.FuelEntry
		var id, carID, distanceUnit, volumeUnit, date string
		var partial int
		if err := rows.Scan(&id, &carID, &date, &e.Mileage, &distanceUnit,
			&e.Volume, &volumeUnit, &e.Cost, &e.Currency, &partial,
			&e.FuelCompany, &e.FuelType); err != nil {
			return nil, fmt.Errorf("scan fuel entry: %w", err)
		}
		e.ID = core.RecordID(id)
		e.CarID = core.RecordID(carID)
		e.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("fuel entry %s: %w", id, err)
		}
		e.DistanceUnit = core.DistanceUnit(distanceUnit)
		e.VolumeUnit = core.VolumeUnit(volumeUnit)
		e.PartialFuelUp = partial != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) ListExpenseEntries(ctx context.Context) ([]core.ExpenseEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, date, category, amount, currency FROM expense_entries ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list expense entries: %w", err)
	}
	defer rows.Close()

	var entries []core.ExpenseEntry
	for rows.Next() {
		var e core.ExpenseEntry
		var id, carID, date string
		if err := rows.Scan(&id, &carID, &date, &e.Category, &e.Amount, &e.Currency); err != nil {
			return nil, fmt.Errorf("scan expense entry: %w", err)
		}
		e.ID = core.RecordID(id)
		e.CarID = core.RecordID(carID)
		e.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("expense entry %s: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) ListIncomeEntries(ctx context.Context) ([]core.IncomeEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, car_id, date, category, amount, currency FROM income_entries ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("list income entries: %w", err)
	}
	defer rows.Close()

	var entries []core.IncomeEntry
	for rows.Next() {
		var e core.IncomeEntry
		var id, carID, date string
		if err := rows.Scan(&id, &carID, &date, &e.Category, &e.Amount, &e.Currency); err != nil {
			return nil, fmt.Errorf("scan income entry: %w", err)
		}
		e.ID = core.RecordID(id)
		e.CarID = core.RecordID(carID)
		e.Date, err = parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("income entry %s: %w", id, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRepository) InsertCar(ctx context.Context, c core.Car) (core.RecordID, error) {
	id := c.ID
	if id.IsZero() {
		id = core.RecordID(uuid.NewString())
	}
	c.ID = id
	if err := c.Validate(); err != nil {
		return "", fmt.Errorf("validate car: %w", err)
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cars (id, name, brand, model, year, vehicle_type) VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), c.Name, c.Brand, c.Model, c.Year, c.VehicleType)
	if err != nil {
		return "", fmt.Errorf("insert car: %w", err)
	}
	slog.InfoContext(ctx, "Car saved", "id", id, "name", c.Name)
	return id, nil
}

func (r *SQLiteRepository) InsertFuelEntry(ctx context.Context, e core.FuelEntry) (core.RecordID, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validate fuel entry: %w", err)
	}
	id := e.ID
	if id.IsZero() {
		id = core.RecordID(uuid.NewString())
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO fuel_entries
		 (id, car_id, date, mileage, distance_unit, volume, volume_unit,
		  cost, currency, partial_fuel_up, fuel_company, fuel_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), e.CarID.String(), formatDate(e.Date), e.Mileage,
		string(e.DistanceUnit), e.Volume, string(e.VolumeUnit),
		e.Cost, e.Currency, boolToInt(e.PartialFuelUp), e.FuelCompany, e.FuelType)
	if err != nil {
		return "", fmt.Errorf("insert fuel entry: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) InsertExpenseEntry(ctx context.Context, e core.ExpenseEntry) (core.RecordID, error) {
	id := e.ID
	if id.IsZero() {
		id = core.RecordID(uuid.NewString())
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expense_entries (id, car_id, date, category, amount, currency)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), e.CarID.String(), formatDate(e.Date), e.Category, e.Amount, e.Currency)
	if err != nil {
		return "", fmt.Errorf("insert expense entry: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) InsertIncomeEntry(ctx context.Context, e core.IncomeEntry) (core.RecordID, error) {
	id := e.ID
	if id.IsZero() {
		id = core.RecordID(uuid.NewString())
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO income_entries (id, car_id, date, category, amount, currency)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), e.CarID.String(), formatDate(e.Date), e.Category, e.Amount, e.Currency)
	if err != nil {
		return "", fmt.Errorf("insert income entry: %w", err)
	}
	return id, nil
}

// Dates are stored as RFC 3339 text; SQLite has no native timestamp type
// and text keeps the column human-readable.
func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
