package stats

import (
	"math"
	"sort"

	"fleetstats/internal/core"
)

// Interval is the derived span between two chronologically adjacent
// fill-ups of one car, the atomic unit of consumption and cost-per-distance
// computation. It is never persisted.
type Interval struct {
	CarID        core.RecordID
	From         core.FuelEntry
	To           core.FuelEntry
	DistanceKm   float64
	VolumeLiters float64
	Cost         float64

	// UsableForConsumption gates volume/consumption aggregation only.
	// Distance and cost of an emitted interval always count.
	UsableForConsumption bool
}

// BuildIntervals derives validated intervals from one car's fuel entries.
// The input may be in any order; entries are sorted by date internally and
// the input slice is left untouched.
//
// An adjacent pair is skipped entirely when any of its mileage/volume/cost
// values is not finite, when the mileage delta is non-positive (odometer
// reset or data error) or beyond opts.MaxIntervalDistanceKm, or when the
// fill-ups are more than opts.MaxIntervalGapDays apart. Skipped pairs leave
// no trace in the output; they are data-quality omissions, not errors.
//
// If the car has at least one non-partial fill-up on record, only intervals
// ending in a non-partial fill-up are usable for consumption: a partial
// fill-up understates the fuel actually burned over the odometer delta. When
// every fill-up is partial they are all used as a fallback, trading accuracy
// for having any consumption figure at all.
func BuildIntervals(entries []core.FuelEntry, opts Options) []Interval {
	opts = opts.normalized()
	if len(entries) < 2 {
		return nil
	}

	sorted := make([]core.FuelEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	hasNonPartial := false
	for _, e := range sorted {
		if !e.PartialFuelUp {
			hasNonPartial = true
			break
		}
	}

	intervals := make([]Interval, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]

		if !isFinite(prev.Mileage) || !isFinite(curr.Mileage) ||
			!isFinite(curr.Volume) || !isFinite(curr.Cost) {
			continue
		}

		distanceKm := core.ToKilometers(curr.Mileage, curr.DistanceUnit) -
			core.ToKilometers(prev.Mileage, prev.DistanceUnit)
		if distanceKm <= 0 || distanceKm > opts.MaxIntervalDistanceKm {
			continue
		}

		gapDays := curr.Date.Sub(prev.Date).Hours() / 24
		if gapDays > opts.MaxIntervalGapDays {
			continue
		}

		intervals = append(intervals, Interval{
			CarID:                curr.CarID,
			From:                 prev,
			To:                   curr,
			DistanceKm:           distanceKm,
			VolumeLiters:         core.ToLiters(curr.Volume, curr.VolumeUnit),
			Cost:                 curr.Cost,
			UsableForConsumption: !hasNonPartial || !curr.PartialFuelUp,
		})
	}
	return intervals
}

// IntervalsForCar filters entries down to one car before building intervals.
// Intervals never span cars.
func IntervalsForCar(carID core.RecordID, entries []core.FuelEntry, opts Options) []Interval {
	var own []core.FuelEntry
	for _, e := range entries {
		if core.MatchesCarID(e.CarID, carID) {
			own = append(own, e)
		}
	}
	return BuildIntervals(own, opts)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// round2 implements the numeric policy: full float accumulation internally,
// two decimals on every public monetary/consumption figure.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round2p(v float64) *float64 {
	r := round2(v)
	return &r
}
