package stats

import (
	"time"

	"fleetstats/internal/core"
)

// FleetStats merges every vehicle's intervals and records into fleet-wide
// totals, extremes and time-normalized averages. Intervals are still built
// per car; no interval ever spans two vehicles.
//
// Pointer fields are nil when the fleet has no data to derive them from.
// TotalCosts follows the additive per-car convention (fuel + expenses +
// incomes); the monthly/yearly buckets merge fuel and expense costs only.
type FleetStats struct {
	TotalFillUps int      `json:"totalFillUps"`
	TotalVolume  float64  `json:"totalVolume"`
	MinVolume    *float64 `json:"minVolume"`
	MaxVolume    *float64 `json:"maxVolume"`

	AvgConsumption   *float64 `json:"avgConsumption"`
	BestConsumption  *float64 `json:"bestConsumption"`
	WorstConsumption *float64 `json:"worstConsumption"`

	TotalCosts        float64  `json:"totalCosts"`
	TotalFuelCosts    float64  `json:"totalFuelCosts"`
	TotalExpenseCosts float64  `json:"totalExpenseCosts"`
	TotalIncomeCosts  float64  `json:"totalIncomeCosts"`
	LowestBill        *float64 `json:"lowestBill"`
	HighestBill       *float64 `json:"highestBill"`

	BestPrice  *float64 `json:"bestPrice"`
	WorstPrice *float64 `json:"worstPrice"`

	TotalDistanceKm      float64  `json:"totalDistanceKm"`
	AvgCostPerDistance   *float64 `json:"avgCostPerDistance"`
	BestCostPerDistance  *float64 `json:"bestCostPerDistance"`
	WorstCostPerDistance *float64 `json:"worstCostPerDistance"`

	AvgCostPerDay       float64 `json:"avgCostPerDay"`
	AvgCostPerMonth     float64 `json:"avgCostPerMonth"`
	AvgCostPerYear      float64 `json:"avgCostPerYear"`
	AvgDistancePerDay   float64 `json:"avgDistancePerDay"`
	AvgDistancePerMonth float64 `json:"avgDistancePerMonth"`
	AvgDistancePerYear  float64 `json:"avgDistancePerYear"`

	// LastOdometer is the km-normalized mileage of the chronologically last
	// fill-up across the fleet.
	LastOdometer float64 `json:"lastOdometer"`

	MonthlyStats map[string]*BucketStats `json:"monthlyStats"`
	YearlyStats  map[string]*BucketStats `json:"yearlyStats"`

	BaseCurrency string `json:"baseCurrency"`
}

// ComputeFleetStats aggregates across all known cars. Records that do not
// match any car in the list are ignored.
func ComputeFleetStats(
	cars []core.Car,
	fuel []core.FuelEntry,
	expenses []core.ExpenseEntry,
	incomes []core.IncomeEntry,
	opts Options,
) *FleetStats {
	opts = opts.normalized()

	fs := &FleetStats{
		MonthlyStats: make(map[string]*BucketStats),
		YearlyStats:  make(map[string]*BucketStats),
		BaseCurrency: opts.BaseCurrency,
	}

	var (
		allIntervals []Interval
		fleetFuel    []core.FuelEntry
	)
	for _, car := range cars {
		var own []core.FuelEntry
		for _, e := range fuel {
			if core.MatchesCarID(e.CarID, car.ID) {
				own = append(own, e)
			}
		}
		fleetFuel = append(fleetFuel, own...)
		allIntervals = append(allIntervals, BuildIntervals(own, opts)...)
	}

	var totalVolume, totalFuelCost float64
	var usableVolume, usableDistance float64
	var totalDistance, intervalCost float64
	var firstDate, lastDate, lastEntryDate time.Time
	var bestConsumption, worstConsumption extremum
	var bestPrice, worstPrice extremum
	var lowestBill, highestBill extremum
	var minVolume, maxVolume extremum
	var bestCostPerDistance, worstCostPerDist extremum

	for _, e := range fleetFuel {
		if !isFinite(e.Cost) || !isFinite(e.Volume) {
			continue
		}
		fs.TotalFillUps++
		liters := core.ToLiters(e.Volume, e.VolumeUnit)
		totalVolume += liters
		totalFuelCost += e.Cost

		if liters > 0 {
			minVolume.takeMin(liters)
			maxVolume.takeMax(liters)
			bestPrice.takeMin(e.Cost / liters)
			worstPrice.takeMax(e.Cost / liters)
		}
		if e.Cost > 0 {
			lowestBill.takeMin(e.Cost)
			highestBill.takeMax(e.Cost)
		}

		if firstDate.IsZero() || e.Date.Before(firstDate) {
			firstDate = e.Date
		}
		if e.Date.After(lastDate) {
			lastDate = e.Date
		}
		if e.Date.After(lastEntryDate) || lastEntryDate.IsZero() {
			lastEntryDate = e.Date
			fs.LastOdometer = round2(core.ToKilometers(e.Mileage, e.DistanceUnit))
		}

		month := fleetBucket(fs.MonthlyStats, e.Date.Format(monthKeyFormat))
		month.Fuel += e.Cost
		year := fleetBucket(fs.YearlyStats, e.Date.Format(yearKeyFormat))
		year.Fuel += e.Cost
	}

	for _, iv := range allIntervals {
		totalDistance += iv.DistanceKm
		intervalCost += iv.Cost

		perKm := iv.Cost / iv.DistanceKm
		bestCostPerDistance.takeMin(perKm)
		worstCostPerDist.takeMax(perKm)

		if iv.UsableForConsumption {
			usableVolume += iv.VolumeLiters
			usableDistance += iv.DistanceKm
			if r, ok := rate(iv.VolumeLiters, iv.DistanceKm, opts.Unit); ok {
				if core.LowerIsBetter(opts.Unit) {
					bestConsumption.takeMin(r)
					worstConsumption.takeMax(r)
				} else {
					bestConsumption.takeMax(r)
					worstConsumption.takeMin(r)
				}
			}
		}

		month := fleetBucket(fs.MonthlyStats, iv.To.Date.Format(monthKeyFormat))
		month.TotalDistance += iv.DistanceKm
		month.intervalCost += iv.Cost
		year := fleetBucket(fs.YearlyStats, iv.To.Date.Format(yearKeyFormat))
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
	}

	var totalExpenseCost, totalIncomeCost float64
	for _, e := range expenses {
		if !matchesAnyCar(cars, e.CarID) || !isFinite(e.Amount) {
			continue
		}
		totalExpenseCost += e.Amount
		if e.Amount > 0 {
			lowestBill.takeMin(e.Amount)
			highestBill.takeMax(e.Amount)
		}
		// Fleet buckets merge fuel and expense costs; income stays out.
		fleetBucket(fs.MonthlyStats, e.Date.Format(monthKeyFormat)).Expenses += e.Amount
		fleetBucket(fs.YearlyStats, e.Date.Format(yearKeyFormat)).Expenses += e.Amount
	}
	for _, e := range incomes {
		if !matchesAnyCar(cars, e.CarID) || !isFinite(e.Amount) {
			continue
		}
		totalIncomeCost += e.Amount
		if e.Amount > 0 {
			lowestBill.takeMin(e.Amount)
			highestBill.takeMax(e.Amount)
		}
	}

	fs.TotalVolume = round2(totalVolume)
	fs.MinVolume = minVolume.rounded()
	fs.MaxVolume = maxVolume.rounded()
	fs.TotalFuelCosts = round2(totalFuelCost)
	fs.TotalExpenseCosts = round2(totalExpenseCost)
	fs.TotalIncomeCosts = round2(totalIncomeCost)
	fs.TotalCosts = round2(totalFuelCost + totalExpenseCost + totalIncomeCost)
	fs.LowestBill = lowestBill.rounded()
	fs.HighestBill = highestBill.rounded()
	fs.BestPrice = bestPrice.rounded()
	fs.WorstPrice = worstPrice.rounded()
	fs.TotalDistanceKm = round2(totalDistance)

	if totalDistance > 0 {
		fs.AvgCostPerDistance = round2p(intervalCost / totalDistance)
	}
	fs.BestCostPerDistance = bestCostPerDistance.rounded()
	fs.WorstCostPerDistance = worstCostPerDist.rounded()

	if r, ok := rate(usableVolume, usableDistance, opts.Unit); ok {
		fs.AvgConsumption = round2p(r)
	}
	fs.BestConsumption = bestConsumption.rounded()
	fs.WorstConsumption = worstConsumption.rounded()

	if !firstDate.IsZero() {
		// Elapsed span is inclusive: a single day of records still counts as
		// one day, not zero.
		days := lastDate.Sub(firstDate).Hours()/24 + 1
		totalCost := totalFuelCost + totalExpenseCost + totalIncomeCost
		fs.AvgCostPerDay = round2(totalCost / days)
		fs.AvgCostPerMonth = round2(totalCost / days * daysPerMonth)
		fs.AvgCostPerYear = round2(totalCost / days * daysPerYear)
		fs.AvgDistancePerDay = round2(totalDistance / days)
		fs.AvgDistancePerMonth = round2(totalDistance / days * daysPerMonth)
		fs.AvgDistancePerYear = round2(totalDistance / days * daysPerYear)
	}

	for _, bucket := range fs.MonthlyStats {
		bucket.finalize(opts.Unit)
	}
	for _, bucket := range fs.YearlyStats {
		bucket.finalize(opts.Unit)
	}

	return fs
}

func fleetBucket(buckets map[string]*BucketStats, key string) *BucketStats {
	b, ok := buckets[key]
	if !ok {
		b = &BucketStats{}
		buckets[key] = b
	}
	return b
}

func matchesAnyCar(cars []core.Car, id core.RecordID) bool {
	for _, car := range cars {
		if core.MatchesCarID(car.ID, id) {
			return true
		}
	}
	return false
}

// extremum tracks a running min or max that may never be fed a value.
type extremum struct {
	value float64
	set   bool
}

func (e *extremum) takeMin(v float64) {
	if !e.set || v < e.value {
		e.value, e.set = v, true
	}
}

func (e *extremum) takeMax(v float64) {
	if !e.set || v > e.value {
		e.value, e.set = v, true
	}
}

func (e extremum) rounded() *float64 {
	if !e.set {
		return nil
	}
	return round2p(e.value)
}
