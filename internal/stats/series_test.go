package stats

import (
	"testing"

	"fleetstats/internal/core"
)

func TestMonthlyTrendsByCurrency(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
		fuelEntry("f3", day(40), 50900, 36, 55), // February
	}
	expenses := []core.ExpenseEntry{
		{ID: "e1", CarID: "car1", Date: day(5), Category: "Insurance", Amount: 300, Currency: "EUR"},
	}
	incomes := []core.IncomeEntry{
		{ID: "i1", CarID: "car1", Date: day(6), Category: "Rides", Amount: 100, Currency: "EUR"},
	}

	trends := MonthlyTrendsByCurrency(testCars[:1], fuel, expenses, incomes, DefaultOptions())

	rows, ok := trends["EUR"]
	if !ok {
		t.Fatal("missing EUR series")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Month != "2024-01" || rows[1].Month != "2024-02" {
		t.Errorf("months = %q, %q, want 2024-01, 2024-02 ascending", rows[0].Month, rows[1].Month)
	}

	jan := rows[0]
	if jan.FuelCost != 118 || jan.ExpenseCost != 300 || jan.IncomeCost != 100 {
		t.Errorf("january fuel/expense/income = %v/%v/%v, want 118/300/100", jan.FuelCost, jan.ExpenseCost, jan.IncomeCost)
	}
	// In this series income reduces the displayed net cost.
	if jan.TotalCost != 318 {
		t.Errorf("january TotalCost = %v, want 318 (118+300-100)", jan.TotalCost)
	}
	if jan.FillUps != 2 {
		t.Errorf("january FillUps = %d, want 2", jan.FillUps)
	}
	if jan.Distance != 450 {
		t.Errorf("january Distance = %v, want 450", jan.Distance)
	}

	feb := rows[1]
	if feb.Distance != 450 || feb.FillUps != 1 {
		t.Errorf("february distance/fillups = %v/%d, want 450/1", feb.Distance, feb.FillUps)
	}
	if feb.TotalCost != 55 {
		t.Errorf("february TotalCost = %v, want 55", feb.TotalCost)
	}
}

func TestFuelPricesByCurrency(t *testing.T) {
	zeroVolume := fuelEntry("f0", day(2), 50100, 0, 10)
	usd := fuelEntry("f3", day(15), 50400, 10, 18)
	usd.Currency = "USD"
	usd.FuelCompany = "Shell"
	usd.FuelType = "Diesel"

	fuel := []core.FuelEntry{
		fuelEntry("f2", day(10), 50300, 38, 58),
		zeroVolume,
		fuelEntry("f1", day(1), 50000, 40, 60),
		usd,
	}

	prices := FuelPricesByCurrency(fuel)

	eur, ok := prices["EUR"]
	if !ok {
		t.Fatal("missing EUR series")
	}
	// Zero-volume entry produces no price point.
	if len(eur) != 2 {
		t.Fatalf("got %d EUR rows, want 2", len(eur))
	}
	if !eur[0].Date.Before(eur[1].Date) {
		t.Error("EUR rows not sorted by date")
	}
	if eur[0].PricePerLiter != 1.5 {
		t.Errorf("PricePerLiter = %v, want 1.5", eur[0].PricePerLiter)
	}

	usdRows := prices["USD"]
	if len(usdRows) != 1 {
		t.Fatalf("got %d USD rows, want 1", len(usdRows))
	}
	if usdRows[0].PricePerLiter != 1.8 {
		t.Errorf("USD PricePerLiter = %v, want 1.8", usdRows[0].PricePerLiter)
	}
	if usdRows[0].FuelCompany != "Shell" || usdRows[0].FuelType != "Diesel" {
		t.Errorf("company/type = %q/%q, want Shell/Diesel", usdRows[0].FuelCompany, usdRows[0].FuelType)
	}
}

func TestConsumptionTrends(t *testing.T) {
	partial := fuelEntry("f2", day(10), 50300, 18, 28)
	partial.PartialFuelUp = true
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		partial,
		fuelEntry("f3", day(20), 50700, 35, 52),
	}

	trends := ConsumptionTrends(testCars, fuel, DefaultOptions())

	rows, ok := trends["Daily driver"]
	if !ok {
		t.Fatal("missing series for car name")
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (one per valid interval)", len(rows))
	}
	if rows[0].Consumption != nil {
		t.Errorf("partial interval consumption = %v, want nil", *rows[0].Consumption)
	}
	if rows[0].DistanceKm != 300 {
		t.Errorf("partial interval distance = %v, want 300", rows[0].DistanceKm)
	}
	if rows[1].Consumption == nil || *rows[1].Consumption != 8.75 {
		t.Errorf("consumption = %v, want 8.75 (35L over 400km)", rows[1].Consumption)
	}
	if rows[1].Mileage != 50700 {
		t.Errorf("mileage = %v, want 50700", rows[1].Mileage)
	}

	if _, ok := trends["Van"]; ok {
		t.Error("car without intervals should not appear")
	}
}

func TestCarComparison(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
	}

	rows := CarComparison(testCars, fuel, DefaultOptions())

	// Only the car with fuel entries appears.
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.Name != "Daily driver" || row.Brand != "Toyota" || row.Model != "Corolla" || row.Year != 2019 {
		t.Errorf("car identity mismatch: %+v", row)
	}
	if row.TotalFillUps != 2 {
		t.Errorf("TotalFillUps = %d, want 2", row.TotalFillUps)
	}
	if row.TotalCost != 118 || row.TotalVolume != 78 {
		t.Errorf("TotalCost/TotalVolume = %v/%v, want 118/78", row.TotalCost, row.TotalVolume)
	}
	if row.AvgCost == nil || *row.AvgCost != 59 {
		t.Errorf("AvgCost = %v, want 59 (per fill-up)", row.AvgCost)
	}
	if row.TotalDistance != 450 {
		t.Errorf("TotalDistance = %v, want 450", row.TotalDistance)
	}
	if row.AvgConsumption == nil || *row.AvgConsumption != 8.44 {
		t.Errorf("AvgConsumption = %v, want 8.44", row.AvgConsumption)
	}
}

func TestFingerprint(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
	}

	base := Fingerprint(testCars, fuel, nil, nil, DefaultOptions())

	t.Run("stable across calls", func(t *testing.T) {
		if got := Fingerprint(testCars, fuel, nil, nil, DefaultOptions()); got != base {
			t.Errorf("fingerprint changed between identical calls: %s vs %s", got, base)
		}
	})

	t.Run("order independent", func(t *testing.T) {
		reversed := []core.FuelEntry{fuel[1], fuel[0]}
		if got := Fingerprint(testCars, reversed, nil, nil, DefaultOptions()); got != base {
			t.Errorf("fingerprint depends on slice order: %s vs %s", got, base)
		}
	})

	t.Run("unit changes the key", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Unit = core.KmPerLiter
		if got := Fingerprint(testCars, fuel, nil, nil, opts); got == base {
			t.Error("fingerprint ignores the consumption unit")
		}
	})

	t.Run("record changes the key", func(t *testing.T) {
		changed := append([]core.FuelEntry(nil), fuel...)
		changed[0].Cost = 61
		if got := Fingerprint(testCars, changed, nil, nil, DefaultOptions()); got == base {
			t.Error("fingerprint ignores record content")
		}
	})
}
