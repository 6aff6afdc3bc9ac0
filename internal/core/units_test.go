package core

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestToKilometers(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  DistanceUnit
		want  float64
	}{
		{"km passes through", 100, DistanceKm, 100},
		{"miles converted", 100, DistanceMiles, 160.934},
		{"zero", 0, DistanceMiles, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToKilometers(tt.value, tt.unit); !almostEqual(got, tt.want) {
				t.Errorf("ToKilometers(%v, %q) = %v, want %v", tt.value, tt.unit, got, tt.want)
			}
		})
	}
}

func TestToLiters(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  VolumeUnit
		want  float64
	}{
		{"liters pass through", 40, VolumeLiters, 40},
		{"gallons converted", 10, VolumeGallons, 37.8541},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToLiters(tt.value, tt.unit); !almostEqual(got, tt.want) {
				t.Errorf("ToLiters(%v, %q) = %v, want %v", tt.value, tt.unit, got, tt.want)
			}
		})
	}
}

func TestConsumptionRate(t *testing.T) {
	// 38 liters over 450 km, the worked reference interval.
	const volume, distance = 38.0, 450.0

	tests := []struct {
		name string
		unit ConsumptionUnit
		want float64
	}{
		{"liters per 100km", LitersPer100Km, (volume / distance) * 100},
		{"km per liter", KmPerLiter, distance / volume},
		{"gallons per 100mi", GallonsPer100Mi, (volume / LitersPerGallon) / (distance / KmPerMile) * 100},
		{"km per gallon", KmPerGallon, distance / (volume / LitersPerGallon)},
		{"miles per liter", MilesPerLiter, (distance / KmPerMile) / volume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConsumptionRate(volume, distance, tt.unit)
			if err != nil {
				t.Fatalf("ConsumptionRate() error = %v", err)
			}
			if !almostEqual(got, tt.want) {
				t.Errorf("ConsumptionRate(%q) = %v, want %v", tt.unit, got, tt.want)
			}
		})
	}
}

func TestConsumptionRate_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		volume   float64
		distance float64
	}{
		{"zero distance", 40, 0},
		{"zero volume", 0, 450},
		{"negative distance", 40, -10},
		{"negative volume", -5, 450},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ConsumptionRate(tt.volume, tt.distance, LitersPer100Km); err != ErrInvalidInterval {
				t.Errorf("ConsumptionRate() error = %v, want %v", err, ErrInvalidInterval)
			}
		})
	}
}

// A rate computed in L/100km converted algebraically must match the rate
// computed directly in km/L.
func TestConsumptionRate_RoundTrip(t *testing.T) {
	intervals := []struct {
		volume   float64
		distance float64
	}{
		{38, 450},
		{5.5, 123.4},
		{60, 1999},
		{0.1, 1},
	}
	for _, iv := range intervals {
		per100, err := ConsumptionRate(iv.volume, iv.distance, LitersPer100Km)
		if err != nil {
			t.Fatalf("ConsumptionRate(L/100km) error = %v", err)
		}
		direct, err := ConsumptionRate(iv.volume, iv.distance, KmPerLiter)
		if err != nil {
			t.Fatalf("ConsumptionRate(km/L) error = %v", err)
		}
		converted := 100 / per100
		if !almostEqual(converted, direct) {
			t.Errorf("round trip mismatch for %+v: converted %v, direct %v", iv, converted, direct)
		}
	}
}

func TestLowerIsBetter(t *testing.T) {
	lower := []ConsumptionUnit{LitersPer100Km, GallonsPer100Mi}
	higher := []ConsumptionUnit{KmPerLiter, KmPerGallon, MilesPerLiter}

	for _, u := range lower {
		if !LowerIsBetter(u) {
			t.Errorf("LowerIsBetter(%q) = false, want true", u)
		}
	}
	for _, u := range higher {
		if LowerIsBetter(u) {
			t.Errorf("LowerIsBetter(%q) = true, want false", u)
		}
	}
}
