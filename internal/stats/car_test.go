package stats

import (
	"math/rand"
	"reflect"
	"testing"

	"fleetstats/internal/core"
)

func TestComputeCarReport_ReferenceScenario(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
	}

	report := ComputeCarReport("car1", fuel, nil, nil, DefaultOptions())

	if report.Stats.TotalDistanceKm != 450 {
		t.Errorf("TotalDistanceKm = %v, want 450", report.Stats.TotalDistanceKm)
	}
	if report.Stats.AvgConsumption == nil || *report.Stats.AvgConsumption != 8.44 {
		t.Errorf("AvgConsumption = %v, want 8.44", report.Stats.AvgConsumption)
	}
	if report.Stats.AvgCostPerDistance == nil || *report.Stats.AvgCostPerDistance != 0.13 {
		t.Errorf("AvgCostPerDistance = %v, want 0.13", report.Stats.AvgCostPerDistance)
	}
	if report.TotalCost != 118 {
		t.Errorf("TotalCost = %v, want 118", report.TotalCost)
	}
	if report.FillUps != 2 {
		t.Errorf("FillUps = %d, want 2", report.FillUps)
	}

	month, ok := report.MonthlyCosts["2024-01"]
	if !ok {
		t.Fatal("missing 2024-01 bucket")
	}
	if month.Fuel != 118 || month.Total != 118 {
		t.Errorf("month fuel/total = %v/%v, want 118/118", month.Fuel, month.Total)
	}
	if month.TotalDistance != 450 || month.TotalVolume != 38 {
		t.Errorf("month distance/volume = %v/%v, want 450/38", month.TotalDistance, month.TotalVolume)
	}
	if month.AvgConsumption == nil || *month.AvgConsumption != 8.44 {
		t.Errorf("month AvgConsumption = %v, want 8.44", month.AvgConsumption)
	}

	year, ok := report.YearlyCosts["2024"]
	if !ok {
		t.Fatal("missing 2024 bucket")
	}
	if year.TotalDistance != 450 {
		t.Errorf("year TotalDistance = %v, want 450", year.TotalDistance)
	}
}

func TestComputeCarReport_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		fuel []core.FuelEntry
	}{
		{"no entries", nil},
		{"single entry", []core.FuelEntry{fuelEntry("f1", day(1), 50000, 40, 60)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ComputeCarReport("car1", tt.fuel, nil, nil, DefaultOptions())
			if report.Stats.AvgConsumption != nil {
				t.Errorf("AvgConsumption = %v, want nil", *report.Stats.AvgConsumption)
			}
			if report.Stats.AvgCostPerDistance != nil {
				t.Errorf("AvgCostPerDistance = %v, want nil", *report.Stats.AvgCostPerDistance)
			}
			if report.Stats.TotalDistanceKm != 0 {
				t.Errorf("TotalDistanceKm = %v, want 0", report.Stats.TotalDistanceKm)
			}
		})
	}
}

func TestComputeCarReport_StaleEntryCostStillCounted(t *testing.T) {
	// The third entry is 100 days after the second: its interval is dropped,
	// but its own fuel cost still reaches the cost rollups.
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
		fuelEntry("f3", day(120), 51000, 42, 65),
	}

	report := ComputeCarReport("car1", fuel, nil, nil, DefaultOptions())

	if report.Stats.TotalDistanceKm != 450 {
		t.Errorf("TotalDistanceKm = %v, want 450 (stale interval dropped)", report.Stats.TotalDistanceKm)
	}
	if report.TotalCost != 183 {
		t.Errorf("TotalCost = %v, want 183 (stale entry cost still counted)", report.TotalCost)
	}
	if report.CategoryCosts[FuelCategory] != 183 {
		t.Errorf("fuel category = %v, want 183", report.CategoryCosts[FuelCategory])
	}
	aprilBucket, ok := report.MonthlyCosts["2024-04"]
	if !ok {
		t.Fatal("missing 2024-04 bucket for the stale entry's own cost")
	}
	if aprilBucket.Fuel != 65 {
		t.Errorf("2024-04 fuel = %v, want 65", aprilBucket.Fuel)
	}
	if aprilBucket.TotalDistance != 0 {
		t.Errorf("2024-04 distance = %v, want 0 (no valid interval ends there)", aprilBucket.TotalDistance)
	}
}

func TestComputeCarReport_BucketAttribution(t *testing.T) {
	// Interval spans January into February; distance belongs to February.
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(25), 50000, 40, 60), // Jan 25
		fuelEntry("f2", day(40), 50450, 38, 58), // Feb 9
	}

	report := ComputeCarReport("car1", fuel, nil, nil, DefaultOptions())

	jan := report.MonthlyCosts["2024-01"]
	feb := report.MonthlyCosts["2024-02"]
	if jan == nil || feb == nil {
		t.Fatal("missing monthly buckets")
	}
	if jan.TotalDistance != 0 {
		t.Errorf("january distance = %v, want 0", jan.TotalDistance)
	}
	if feb.TotalDistance != 450 {
		t.Errorf("february distance = %v, want 450", feb.TotalDistance)
	}
	if jan.Fuel != 60 || feb.Fuel != 58 {
		t.Errorf("fuel costs = %v/%v, want 60/58 (by entry date)", jan.Fuel, feb.Fuel)
	}
}

func TestComputeCarReport_Categories(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
	}
	expenses := []core.ExpenseEntry{
		{ID: "e1", CarID: "car1", Date: day(5), Category: "Insurance", Amount: 300, Currency: "EUR"},
		{ID: "e2", CarID: "car1", Date: day(6), Category: "", Amount: 25, Currency: "EUR"},
	}
	incomes := []core.IncomeEntry{
		{ID: "i1", CarID: "car1", Date: day(7), Category: "", Amount: 80, Currency: "EUR"},
	}

	report := ComputeCarReport("car1", fuel, expenses, incomes, DefaultOptions())

	if got := report.CategoryCosts[FuelCategory]; got != 118 {
		t.Errorf("Fuel category = %v, want 118", got)
	}
	if got := report.CategoryCosts["Insurance"]; got != 300 {
		t.Errorf("Insurance category = %v, want 300", got)
	}
	// Uncategorized expense and income both land in "Other", summed
	// independently, never netted.
	if got := report.CategoryCosts[OtherCategory]; got != 105 {
		t.Errorf("Other category = %v, want 105", got)
	}
	// Per-car total adds income on top of costs.
	if report.TotalCost != 118+325+80 {
		t.Errorf("TotalCost = %v, want %v", report.TotalCost, 118+325+80.0)
	}
}

func TestComputeCarReport_CurrencyBreakdown(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
	}
	usd := fuelEntry("f3", day(30), 50900, 36, 55)
	usd.Currency = "USD"
	fuel = append(fuel, usd)

	expenses := []core.ExpenseEntry{
		{ID: "e1", CarID: "car1", Date: day(5), Category: "Tolls", Amount: 12, Currency: "USD"},
	}
	incomes := []core.IncomeEntry{
		{ID: "i1", CarID: "car1", Date: day(7), Category: "Rides", Amount: 40, Currency: "CHF"},
	}

	report := ComputeCarReport("car1", fuel, expenses, incomes, DefaultOptions())

	// Partition completeness: every currency seen in the records appears.
	for _, currency := range []string{"EUR", "USD", "CHF"} {
		if _, ok := report.ByCurrency[currency]; !ok {
			t.Errorf("missing currency %q in breakdown", currency)
		}
	}
	if len(report.ByCurrency) != 3 {
		t.Errorf("got %d currencies, want 3", len(report.ByCurrency))
	}

	eur := report.ByCurrency["EUR"]
	if eur.FuelCost != 118 || eur.NetCost != 118 {
		t.Errorf("EUR fuel/net = %v/%v, want 118/118", eur.FuelCost, eur.NetCost)
	}
	// EUR cost-per-distance only from the EUR interval: 58 / 450.
	if eur.CostPerDistance == nil || *eur.CostPerDistance != 0.13 {
		t.Errorf("EUR CostPerDistance = %v, want 0.13", eur.CostPerDistance)
	}

	usdStats := report.ByCurrency["USD"]
	if usdStats.NetCost != 55+12 {
		t.Errorf("USD NetCost = %v, want 67", usdStats.NetCost)
	}

	chf := report.ByCurrency["CHF"]
	if chf.NetCost != -40 {
		t.Errorf("CHF NetCost = %v, want -40 (income only)", chf.NetCost)
	}
}

func TestComputeCarReport_Idempotence(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(20), 50450, 38, 58),
		fuelEntry("f3", day(30), 50900, 36, 55),
	}
	expenses := []core.ExpenseEntry{
		{ID: "e1", CarID: "car1", Date: day(5), Category: "Tolls", Amount: 12, Currency: "EUR"},
	}

	a := ComputeCarReport("car1", fuel, expenses, nil, DefaultOptions())
	b := ComputeCarReport("car1", fuel, expenses, nil, DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("two identical calls produced different reports")
	}
}

func TestComputeCarReport_DistanceIndependentOfOrder(t *testing.T) {
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		fuelEntry("f2", day(10), 50300, 30, 45),
		fuelEntry("f3", day(20), 50450, 38, 58),
		fuelEntry("f4", day(30), 50900, 36, 55),
	}

	want := ComputeCarReport("car1", fuel, nil, nil, DefaultOptions()).Stats.TotalDistanceKm

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]core.FuelEntry, len(fuel))
		copy(shuffled, fuel)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got := ComputeCarReport("car1", shuffled, nil, nil, DefaultOptions()).Stats.TotalDistanceKm
		if got != want {
			t.Fatalf("shuffle %d: TotalDistanceKm = %v, want %v", i, got, want)
		}
	}
}

func TestComputeCarReport_IgnoresOtherCars(t *testing.T) {
	foreign := fuelEntry("g1", day(5), 90000, 45, 70)
	foreign.CarID = "car2"
	fuel := []core.FuelEntry{
		fuelEntry("f1", day(1), 50000, 40, 60),
		foreign,
		fuelEntry("f2", day(20), 50450, 38, 58),
	}

	report := ComputeCarReport("car1", fuel, nil, nil, DefaultOptions())
	if report.FillUps != 2 {
		t.Errorf("FillUps = %d, want 2", report.FillUps)
	}
	if report.TotalCost != 118 {
		t.Errorf("TotalCost = %v, want 118", report.TotalCost)
	}
}
