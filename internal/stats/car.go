package stats

import (
	"fleetstats/internal/core"
)

// FuelCategory is the synthetic category fuel costs are filed under in the
// category breakdown.
const FuelCategory = "Fuel"

// OtherCategory is used when an expense or income entry carries no category.
const OtherCategory = "Other"

// CarStats are the headline per-vehicle figures. Consumption and
// cost-per-distance are nil while the car has fewer than two fuel entries or
// no valid interval; that is insufficient data, not an error.
type CarStats struct {
	AvgConsumption     *float64 `json:"avgConsumption"`
	AvgCostPerDistance *float64 `json:"avgCostPerDistance"`
	TotalDistanceKm    float64  `json:"totalDistanceKm"`
}

// BucketStats aggregates one month (YYYY-MM) or year (YYYY). Interval
// distance and volume are attributed to the bucket of the later fill-up of
// each interval, never split across buckets.
type BucketStats struct {
	Fuel               float64  `json:"fuel"`
	Expenses           float64  `json:"expenses"`
	Incomes            float64  `json:"incomes"`
	Total              float64  `json:"total"`
	AvgConsumption     *float64 `json:"avgConsumption"`
	AvgCostPerDistance *float64 `json:"avgCostPerDistance"`
	TotalDistance      float64  `json:"totalDistance"`
	TotalVolume        float64  `json:"totalVolume"`

	// internal accumulators, not part of the public shape
	intervalCost   float64
	usableDistance float64
	usableVolume   float64
}

// CurrencyStats is the per-currency breakdown. Amounts of different
// currencies are never mixed; NetCost is fuel + expenses − incomes within
// one currency.
type CurrencyStats struct {
	FuelCost        float64  `json:"fuelCost"`
	ExpenseCost     float64  `json:"expenseCost"`
	IncomeCost      float64  `json:"incomeCost"`
	NetCost         float64  `json:"netCost"`
	CostPerDistance *float64 `json:"costPerDistance"`

	intervalCost     float64
	intervalDistance float64
}

// CarReport is the full per-vehicle aggregation.
//
// TotalCost adds income on top of fuel and expense costs. The monthly trend
// series subtracts income instead; the two consumers intentionally disagree
// (see DESIGN.md) and each convention is preserved for its consumer.
type CarReport struct {
	CarID         core.RecordID             `json:"carId"`
	FillUps       int                       `json:"fillUps"`
	Stats         CarStats                  `json:"stats"`
	TotalCost     float64                   `json:"totalCost"`
	MonthlyCosts  map[string]*BucketStats   `json:"monthlyCosts"`
	YearlyCosts   map[string]*BucketStats   `json:"yearlyCosts"`
	CategoryCosts map[string]float64        `json:"categoryCosts"`
	ByCurrency    map[string]*CurrencyStats `json:"byCurrency"`
}

const (
	monthKeyFormat = "2006-01"
	yearKeyFormat  = "2006"
)

// ComputeCarReport aggregates all records attributable to one car. Record
// attribution goes through core.MatchesCarID; entries for other cars are
// ignored, as are records with malformed numeric fields.
func ComputeCarReport(
	carID core.RecordID,
	fuel []core.FuelEntry,
	expenses []core.ExpenseEntry,
	incomes []core.IncomeEntry,
	opts Options,
) *CarReport {
	opts = opts.normalized()

	report := &CarReport{
		CarID:         carID,
		MonthlyCosts:  make(map[string]*BucketStats),
		YearlyCosts:   make(map[string]*BucketStats),
		CategoryCosts: make(map[string]float64),
		ByCurrency:    make(map[string]*CurrencyStats),
	}

	var ownFuel []core.FuelEntry
	for _, e := range fuel {
		if core.MatchesCarID(e.CarID, carID) {
			ownFuel = append(ownFuel, e)
		}
	}
	report.FillUps = len(ownFuel)

	intervals := BuildIntervals(ownFuel, opts)

	// Fuel entry costs feed the bucket, category and currency rollups by the
	// entry's own date regardless of whether the entry anchors a valid
	// interval; a dropped interval only withholds distance and volume.
	var totalCost float64
	for _, e := range ownFuel {
		if !isFinite(e.Cost) {
			continue
		}
		totalCost += e.Cost
		report.CategoryCosts[FuelCategory] += e.Cost

		month := report.monthBucket(e.Date.Format(monthKeyFormat))
		month.Fuel += e.Cost
		year := report.yearBucket(e.Date.Format(yearKeyFormat))
		year.Fuel += e.Cost

		cur := report.currency(e.Currency)
		cur.FuelCost += e.Cost
	}

	for _, e := range expenses {
		if !core.MatchesCarID(e.CarID, carID) || !isFinite(e.Amount) {
			continue
		}
		totalCost += e.Amount
		report.CategoryCosts[categoryOr(e.Category)] += e.Amount

		report.monthBucket(e.Date.Format(monthKeyFormat)).Expenses += e.Amount
		report.yearBucket(e.Date.Format(yearKeyFormat)).Expenses += e.Amount
		report.currency(e.Currency).ExpenseCost += e.Amount
	}

	for _, e := range incomes {
		if !core.MatchesCarID(e.CarID, carID) || !isFinite(e.Amount) {
			continue
		}
		totalCost += e.Amount
		report.CategoryCosts[categoryOr(e.Category)] += e.Amount

		report.monthBucket(e.Date.Format(monthKeyFormat)).Incomes += e.Amount
		report.yearBucket(e.Date.Format(yearKeyFormat)).Incomes += e.Amount
		report.currency(e.Currency).IncomeCost += e.Amount
	}
	report.TotalCost = round2(totalCost)

	// Interval-derived figures: distance and cost always count, volume and
	// consumption only from usable intervals.
	var (
		totalDistance, intervalCost  float64
		usableDistance, usableVolume float64
	)
	for _, iv := range intervals {
		totalDistance += iv.DistanceKm
		intervalCost += iv.Cost
		if iv.UsableForConsumption {
			usableDistance += iv.DistanceKm
			usableVolume += iv.VolumeLiters
		}

		month := report.monthBucket(iv.To.Date.Format(monthKeyFormat))
		month.TotalDistance += iv.DistanceKm
		month.intervalCost += iv.Cost
		year := report.yearBucket(iv.To.Date.Format(yearKeyFormat))
		year.TotalDistance += iv.DistanceKm
		year.intervalCost += iv.Cost
		if iv.UsableForConsumption {
			month.usableDistance += iv.DistanceKm
			month.usableVolume += iv.VolumeLiters
			month.TotalVolume += iv.VolumeLiters
			year.usableDistance += iv.DistanceKm
			year.usableVolume += iv.VolumeLiters
			year.TotalVolume += iv.VolumeLiters
		}

		cur := report.currency(iv.To.Currency)
		cur.intervalCost += iv.Cost
		cur.intervalDistance += iv.DistanceKm
	}

	report.Stats.TotalDistanceKm = round2(totalDistance)
	if len(ownFuel) >= 2 {
		if totalDistance > 0 {
			report.Stats.AvgCostPerDistance = round2p(intervalCost / totalDistance)
		}
		if rate, ok := rate(usableVolume, usableDistance, opts.Unit); ok {
			report.Stats.AvgConsumption = round2p(rate)
		}
	}

	for _, bucket := range report.MonthlyCosts {
		bucket.finalize(opts.Unit)
	}
	for _, bucket := range report.YearlyCosts {
		bucket.finalize(opts.Unit)
	}
	for name, amount := range report.CategoryCosts {
		report.CategoryCosts[name] = round2(amount)
	}
	for _, cur := range report.ByCurrency {
		cur.finalize()
	}

	return report
}

func (r *CarReport) monthBucket(key string) *BucketStats {
	b, ok := r.MonthlyCosts[key]
	if !ok {
		b = &BucketStats{}
		r.MonthlyCosts[key] = b
	}
	return b
}

func (r *CarReport) yearBucket(key string) *BucketStats {
	b, ok := r.YearlyCosts[key]
	if !ok {
		b = &BucketStats{}
		r.YearlyCosts[key] = b
	}
	return b
}

func (r *CarReport) currency(code string) *CurrencyStats {
	c, ok := r.ByCurrency[code]
	if !ok {
		c = &CurrencyStats{}
		r.ByCurrency[code] = c
	}
	return c
}

func (b *BucketStats) finalize(unit core.ConsumptionUnit) {
	b.Total = round2(b.Fuel + b.Expenses + b.Incomes)
	if b.TotalDistance > 0 {
		b.AvgCostPerDistance = round2p(b.intervalCost / b.TotalDistance)
	}
	if r, ok := rate(b.usableVolume, b.usableDistance, unit); ok {
		b.AvgConsumption = round2p(r)
	}
	b.Fuel = round2(b.Fuel)
	b.Expenses = round2(b.Expenses)
	b.Incomes = round2(b.Incomes)
	b.TotalDistance = round2(b.TotalDistance)
	b.TotalVolume = round2(b.TotalVolume)
}

func (c *CurrencyStats) finalize() {
	c.NetCost = round2(c.FuelCost + c.ExpenseCost - c.IncomeCost)
	if c.intervalDistance > 0 {
		c.CostPerDistance = round2p(c.intervalCost / c.intervalDistance)
	}
	c.FuelCost = round2(c.FuelCost)
	c.ExpenseCost = round2(c.ExpenseCost)
	c.IncomeCost = round2(c.IncomeCost)
}

// rate wraps core.ConsumptionRate for the aggregators, which treat a zero
// volume or distance as "no data" rather than a caller bug.
func rate(volumeLiters, distanceKm float64, unit core.ConsumptionUnit) (float64, bool) {
	if volumeLiters <= 0 || distanceKm <= 0 {
		return 0, false
	}
	r, err := core.ConsumptionRate(volumeLiters, distanceKm, unit)
	if err != nil {
		return 0, false
	}
	return r, true
}

func categoryOr(category string) string {
	if category == "" {
		return OtherCategory
	}
	return category
}
