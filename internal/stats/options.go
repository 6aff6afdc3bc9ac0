// Package stats turns raw odometer/fuel/expense/income records into
// fuel-consumption rates, cost-per-distance figures, multi-currency rollups
// and chart-ready time series. Every entry point is a pure function over the
// record slices it is given; nothing is retained between calls.
package stats

import "fleetstats/internal/core"

const (
	daysPerMonth = 30.44
	daysPerYear  = 365.25
)

// Options carries the tunable parameters of the engine. The interval
// thresholds are data-quality heuristics, not physical constants, so they are
// configurable rather than baked in.
type Options struct {
	// Unit selects how consumption figures are expressed.
	Unit core.ConsumptionUnit

	// BaseCurrency labels the informational fleet-wide total. Amounts are
	// passed through as-is; no FX conversion happens anywhere.
	BaseCurrency string

	// MaxIntervalDistanceKm drops intervals longer than this as implausible
	// for a single tank.
	MaxIntervalDistanceKm float64

	// MaxIntervalGapDays drops intervals whose fill-ups are further apart
	// than this, as stale and unreliable.
	MaxIntervalGapDays float64
}

func DefaultOptions() Options {
	return Options{
		Unit:                  core.LitersPer100Km,
		BaseCurrency:          "EUR",
		MaxIntervalDistanceKm: 2000,
		MaxIntervalGapDays:    60,
	}
}

// normalized fills zero values with defaults so a partially populated
// Options behaves sensibly.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if !o.Unit.Valid() {
		o.Unit = def.Unit
	}
	if o.BaseCurrency == "" {
		o.BaseCurrency = def.BaseCurrency
	}
	if o.MaxIntervalDistanceKm <= 0 {
		o.MaxIntervalDistanceKm = def.MaxIntervalDistanceKm
	}
	if o.MaxIntervalGapDays <= 0 {
		o.MaxIntervalGapDays = def.MaxIntervalGapDays
	}
	return o
}
