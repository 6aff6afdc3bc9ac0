package core

import (
	"errors"
	"time"
)

// RecordID identifies a record. Upstream sources hand us ids in mixed shapes
// (plain strings, stringified database object ids); equality is defined on
// the string representation only.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

// IsZero reports whether the id is empty.
func (id RecordID) IsZero() bool {
	return id == ""
}

// MatchesCarID reports whether two ids refer to the same car. Both must be
// non-empty; empty ids never match anything, including each other. This is
// the single comparison used for attributing records to cars.
func MatchesCarID(a, b RecordID) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.String() == b.String()
}

type (
	// Car identifies a vehicle; the other record types reference it by id.
	Car struct {
		ID          RecordID
		Name        string
		Brand       string
		Model       string
		Year        int
		VehicleType string
	}

	// FuelEntry is one refueling event tied to an odometer reading.
	FuelEntry struct {
		ID            RecordID
		CarID         RecordID
		Date          time.Time
		Mileage       float64
		DistanceUnit  DistanceUnit
		Volume        float64
		VolumeUnit    VolumeUnit
		Cost          float64
		Currency      string
		PartialFuelUp bool
		FuelCompany   string
		FuelType      string
	}

	// ExpenseEntry is a non-fuel cost attributed to a vehicle.
	ExpenseEntry struct {
		ID       RecordID
		CarID    RecordID
		Date     time.Time
		Category string
		Amount   float64
		Currency string
	}

	// IncomeEntry is revenue attributed to a vehicle (e.g. ride-sharing).
	IncomeEntry struct {
		ID       RecordID
		CarID    RecordID
		Date     time.Time
		Category string
		Amount   float64
		Currency string
	}
)

var (
	ErrEmptyCarID   = errors.New("empty car id")
	ErrInvalidYear  = errors.New("invalid year")
	ErrMissingDate  = errors.New("missing date")
	ErrUnknownUnit  = errors.New("unknown unit")
	ErrEmptyCarName = errors.New("empty car name")
)

// Validate checks the fields a record source must always supply.
func (c Car) Validate() error {
	if c.ID.IsZero() {
		return ErrEmptyCarID
	}
	if c.Name == "" {
		return ErrEmptyCarName
	}
	if c.Year != 0 && (c.Year < 1900 || c.Year > 2200) {
		return ErrInvalidYear
	}
	return nil
}

// Validate checks the fields a record source must always supply. Numeric
// plausibility is deliberately not checked here; the statistics engine
// excludes implausible values record by record instead of rejecting input.
func (e FuelEntry) Validate() error {
	if e.CarID.IsZero() {
		return ErrEmptyCarID
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if !e.DistanceUnit.Valid() || !e.VolumeUnit.Valid() {
		return ErrUnknownUnit
	}
	return nil
}
