package stats

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	"fleetstats/internal/core"
)

// Fingerprint derives a stable cache key from a record set and the options
// that shape its aggregation. Per-record hashes are combined with XOR so the
// key does not depend on slice order; the engine sorts internally anyway and
// the same records must always hit the same cache entry.
func Fingerprint(
	cars []core.Car,
	fuel []core.FuelEntry,
	expenses []core.ExpenseEntry,
	incomes []core.IncomeEntry,
	opts Options,
) string {
	opts = opts.normalized()

	var combined uint64
	for _, c := range cars {
		combined ^= hashFields(c.ID.String(), c.Name, c.Brand, c.Model, fmt.Sprint(c.Year))
	}
	for _, e := range fuel {
		combined ^= hashFields(
			e.ID.String(), e.CarID.String(), hashTime(e.Date),
			hashFloat(e.Mileage), string(e.DistanceUnit),
			hashFloat(e.Volume), string(e.VolumeUnit),
			hashFloat(e.Cost), e.Currency, fmt.Sprint(e.PartialFuelUp),
		)
	}
	for _, e := range expenses {
		combined ^= hashFields(e.ID.String(), e.CarID.String(), hashTime(e.Date), e.Category, hashFloat(e.Amount), e.Currency)
	}
	for _, e := range incomes {
		// Salt income hashes so an income entry and an otherwise identical
		// expense entry do not cancel out under XOR.
		combined ^= hashFields("income", e.ID.String(), e.CarID.String(), hashTime(e.Date), e.Category, hashFloat(e.Amount), e.Currency)
	}

	h := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], combined)
	h.Write(buf[:])
	fmt.Fprintf(h, "|%s|%s|%v|%v|%d/%d/%d/%d",
		opts.Unit, opts.BaseCurrency, opts.MaxIntervalDistanceKm, opts.MaxIntervalGapDays,
		len(cars), len(fuel), len(expenses), len(incomes))
	return fmt.Sprintf("%016x", h.Sum64())
}

func hashFields(fields ...string) uint64 {
	h := fnv.New64a()
	for _, f := range fields {
		h.Write([]byte(f))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func hashTime(t time.Time) string {
	return fmt.Sprint(t.UnixNano())
}

func hashFloat(v float64) string {
	return fmt.Sprintf("%016x", math.Float64bits(v))
}
