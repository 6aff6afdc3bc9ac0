package stats

import (
	"sort"
	"time"

	"fleetstats/internal/core"
)

// MonthlyTrendPoint is one month of one currency in the monthly trend
// series. TotalCost here is net of income (fuel + expenses − income), unlike
// CarReport.TotalCost which adds income; the divergence is deliberate and
// documented per consumer.
type MonthlyTrendPoint struct {
	Month       string   `json:"month"`
	TotalCost   float64  `json:"totalCost"`
	FuelCost    float64  `json:"fuelCost"`
	ExpenseCost float64  `json:"expenseCost"`
	IncomeCost  float64  `json:"incomeCost"`
	Distance    float64  `json:"distance"`
	Volume      float64  `json:"volume"`
	FillUps     int      `json:"fillUps"`
	CostPerKm   *float64 `json:"costPerKm"`
	Consumption *float64 `json:"consumption"`

	intervalCost   float64
	usableDistance float64
	usableVolume   float64
}

// FuelPricePoint is one refueling in the price trend series.
type FuelPricePoint struct {
	Date          time.Time `json:"date"`
	PricePerLiter float64   `json:"pricePerLiter"`
	Cost          float64   `json:"cost"`
	Volume        float64   `json:"volume"`
	FuelCompany   string    `json:"fuelCompany"`
	FuelType      string    `json:"fuelType"`
}

// ConsumptionPoint is one valid interval in a car's consumption trend.
// Consumption is nil for intervals excluded from consumption math by the
// partial fill-up rule; distance and cost are still reported.
type ConsumptionPoint struct {
	Date        time.Time `json:"date"`
	Consumption *float64  `json:"consumption"`
	DistanceKm  float64   `json:"distanceKm"`
	Volume      float64   `json:"volume"`
	Cost        float64   `json:"cost"`
	Mileage     float64   `json:"mileage"`
}

// CarComparisonRow summarizes one car for side-by-side comparison. AvgCost
// is the average cost per fill-up.
type CarComparisonRow struct {
	Name           string   `json:"name"`
	AvgConsumption *float64 `json:"avgConsumption"`
	AvgCost        *float64 `json:"avgCost"`
	TotalDistance  float64  `json:"totalDistance"`
	TotalCost      float64  `json:"totalCost"`
	TotalFillUps   int      `json:"totalFillUps"`
	TotalVolume    float64  `json:"totalVolume"`
	Brand          string   `json:"brand"`
	Model          string   `json:"model"`
	Year           int      `json:"year"`
}

// MonthlyTrendsByCurrency reshapes the fleet's records into per-currency
// monthly rows, sorted ascending by month. Amounts of different currencies
// never share a row.
func MonthlyTrendsByCurrency(
	cars []core.Car,
	fuel []core.FuelEntry,
	expenses []core.ExpenseEntry,
	incomes []core.IncomeEntry,
	opts Options,
) map[string][]MonthlyTrendPoint {
	opts = opts.normalized()

	type key struct{ currency, month string }
	points := make(map[key]*MonthlyTrendPoint)
	point := func(currency, month string) *MonthlyTrendPoint {
		k := key{currency, month}
		p, ok := points[k]
		if !ok {
			p = &MonthlyTrendPoint{Month: month}
			points[k] = p
		}
		return p
	}

	for _, car := range cars {
		var own []core.FuelEntry
		for _, e := range fuel {
			if core.MatchesCarID(e.CarID, car.ID) {
				own = append(own, e)
			}
		}
		for _, e := range own {
			if !isFinite(e.Cost) {
				continue
			}
			p := point(e.Currency, e.Date.Format(monthKeyFormat))
			p.FuelCost += e.Cost
			p.FillUps++
		}
		for _, iv := range BuildIntervals(own, opts) {
			p := point(iv.To.Currency, iv.To.Date.Format(monthKeyFormat))
			p.Distance += iv.DistanceKm
			p.intervalCost += iv.Cost
			if iv.UsableForConsumption {
				p.Volume += iv.VolumeLiters
				p.usableDistance += iv.DistanceKm
				p.usableVolume += iv.VolumeLiters
			}
		}
	}

	for _, e := range expenses {
		if !matchesAnyCar(cars, e.CarID) || !isFinite(e.Amount) {
			continue
		}
		point(e.Currency, e.Date.Format(monthKeyFormat)).ExpenseCost += e.Amount
	}
	for _, e := range incomes {
		if !matchesAnyCar(cars, e.CarID) || !isFinite(e.Amount) {
			continue
		}
		point(e.Currency, e.Date.Format(monthKeyFormat)).IncomeCost += e.Amount
	}

	out := make(map[string][]MonthlyTrendPoint)
	for k, p := range points {
		// Income reduces the displayed net cost in this series.
		p.TotalCost = round2(p.FuelCost + p.ExpenseCost - p.IncomeCost)
		if p.Distance > 0 {
			p.CostPerKm = round2p(p.intervalCost / p.Distance)
		}
		if r, ok := rate(p.usableVolume, p.usableDistance, opts.Unit); ok {
			p.Consumption = round2p(r)
		}
		p.FuelCost = round2(p.FuelCost)
		p.ExpenseCost = round2(p.ExpenseCost)
		p.IncomeCost = round2(p.IncomeCost)
		p.Distance = round2(p.Distance)
		p.Volume = round2(p.Volume)
		out[k.currency] = append(out[k.currency], *p)
	}
	for currency := range out {
		rows := out[currency]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	}
	return out
}

// FuelPricesByCurrency derives per-liter price points from every fill-up
// with a positive volume, grouped by currency and sorted by date.
func FuelPricesByCurrency(fuel []core.FuelEntry) map[string][]FuelPricePoint {
	out := make(map[string][]FuelPricePoint)
	for _, e := range fuel {
		if !isFinite(e.Cost) || !isFinite(e.Volume) {
			continue
		}
		liters := core.ToLiters(e.Volume, e.VolumeUnit)
		if liters <= 0 {
			continue
		}
		out[e.Currency] = append(out[e.Currency], FuelPricePoint{
			Date:          e.Date,
			PricePerLiter: round2(e.Cost / liters),
			Cost:          round2(e.Cost),
			Volume:        round2(liters),
			FuelCompany:   e.FuelCompany,
			FuelType:      e.FuelType,
		})
	}
	for currency := range out {
		rows := out[currency]
		sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	}
	return out
}

// ConsumptionTrends produces one row per valid interval for each car, keyed
// by car name.
func ConsumptionTrends(cars []core.Car, fuel []core.FuelEntry, opts Options) map[string][]ConsumptionPoint {
	opts = opts.normalized()

	out := make(map[string][]ConsumptionPoint)
	for _, car := range cars {
		intervals := IntervalsForCar(car.ID, fuel, opts)
		if len(intervals) == 0 {
			continue
		}
		rows := make([]ConsumptionPoint, 0, len(intervals))
		for _, iv := range intervals {
			p := ConsumptionPoint{
				Date:       iv.To.Date,
				DistanceKm: round2(iv.DistanceKm),
				Volume:     round2(iv.VolumeLiters),
				Cost:       round2(iv.Cost),
				Mileage:    round2(core.ToKilometers(iv.To.Mileage, iv.To.DistanceUnit)),
			}
			if iv.UsableForConsumption {
				if r, ok := rate(iv.VolumeLiters, iv.DistanceKm, opts.Unit); ok {
					p.Consumption = round2p(r)
				}
			}
			rows = append(rows, p)
		}
		out[car.Name] = rows
	}
	return out
}

// CarComparison summarizes every car with at least one fill-up.
func CarComparison(cars []core.Car, fuel []core.FuelEntry, opts Options) []CarComparisonRow {
	opts = opts.normalized()

	rows := make([]CarComparisonRow, 0, len(cars))
	for _, car := range cars {
		var own []core.FuelEntry
		for _, e := range fuel {
			if core.MatchesCarID(e.CarID, car.ID) {
				own = append(own, e)
			}
		}
		if len(own) == 0 {
			continue
		}

		row := CarComparisonRow{
			Name:         car.Name,
			TotalFillUps: len(own),
			Brand:        car.Brand,
			Model:        car.Model,
			Year:         car.Year,
		}
		var totalCost, totalVolume float64
		for _, e := range own {
			if isFinite(e.Cost) {
				totalCost += e.Cost
			}
			if isFinite(e.Volume) {
				totalVolume += core.ToLiters(e.Volume, e.VolumeUnit)
			}
		}
		row.TotalCost = round2(totalCost)
		row.TotalVolume = round2(totalVolume)
		row.AvgCost = round2p(totalCost / float64(len(own)))

		var distance, usableDistance, usableVolume float64
		for _, iv := range BuildIntervals(own, opts) {
			distance += iv.DistanceKm
			if iv.UsableForConsumption {
				usableDistance += iv.DistanceKm
				usableVolume += iv.VolumeLiters
			}
		}
		row.TotalDistance = round2(distance)
		if r, ok := rate(usableVolume, usableDistance, opts.Unit); ok {
			row.AvgConsumption = round2p(r)
		}

		rows = append(rows, row)
	}
	return rows
}
