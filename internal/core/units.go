package core

import "errors"

// DistanceUnit is the unit a fuel entry's odometer reading is recorded in.
type DistanceUnit string

// VolumeUnit is the unit a fuel entry's volume is recorded in.
type VolumeUnit string

// ConsumptionUnit selects how fuel consumption is expressed.
type ConsumptionUnit string

const (
	DistanceKm    DistanceUnit = "km"
	DistanceMiles DistanceUnit = "mi"

	VolumeLiters  VolumeUnit = "liters"
	VolumeGallons VolumeUnit = "gallons"

	// The five selectable consumption units. For LitersPer100Km and
	// GallonsPer100Mi lower values are better; for the rest higher is better.
	LitersPer100Km  ConsumptionUnit = "L/100km"
	KmPerLiter      ConsumptionUnit = "km/L"
	GallonsPer100Mi ConsumptionUnit = "G/100mi"
	KmPerGallon     ConsumptionUnit = "km/G"
	MilesPerLiter   ConsumptionUnit = "mi/L"
)

const (
	KmPerMile       = 1.60934
	LitersPerGallon = 3.78541
)

// ErrInvalidInterval reports a programmer error: a consumption rate was
// requested for a non-positive distance or volume. The interval builder
// guarantees this never happens for intervals it emits.
var ErrInvalidInterval = errors.New("consumption rate requires positive distance and volume")

func (u DistanceUnit) Valid() bool {
	return u == DistanceKm || u == DistanceMiles
}

func (u VolumeUnit) Valid() bool {
	return u == VolumeLiters || u == VolumeGallons
}

func (u ConsumptionUnit) Valid() bool {
	switch u {
	case LitersPer100Km, KmPerLiter, GallonsPer100Mi, KmPerGallon, MilesPerLiter:
		return true
	}
	return false
}

// ToKilometers converts a distance value to kilometers.
func ToKilometers(value float64, unit DistanceUnit) float64 {
	if unit == DistanceMiles {
		return value * KmPerMile
	}
	return value
}

// ToLiters converts a volume value to liters.
func ToLiters(value float64, unit VolumeUnit) float64 {
	if unit == VolumeGallons {
		return value * LitersPerGallon
	}
	return value
}

// ConsumptionRate computes the consumption of volumeLiters over distanceKm
// expressed in the given unit. Both arguments must be positive; callers are
// expected to have filtered invalid intervals before asking for a rate.
func ConsumptionRate(volumeLiters, distanceKm float64, unit ConsumptionUnit) (float64, error) {
	if distanceKm <= 0 || volumeLiters <= 0 {
		return 0, ErrInvalidInterval
	}
	switch unit {
	case KmPerLiter:
		return distanceKm / volumeLiters, nil
	case GallonsPer100Mi:
		return (volumeLiters / LitersPerGallon) / (distanceKm / KmPerMile) * 100, nil
	case KmPerGallon:
		return distanceKm / (volumeLiters / LitersPerGallon), nil
	case MilesPerLiter:
		return (distanceKm / KmPerMile) / volumeLiters, nil
	default:
		// LitersPer100Km, also the fallback for unrecognized units.
		return (volumeLiters / distanceKm) * 100, nil
	}
}

// LowerIsBetter reports the "better" direction for a consumption unit:
// volume-per-distance units improve downward, distance-per-volume units
// improve upward. Best/worst selection must use this consistently.
func LowerIsBetter(unit ConsumptionUnit) bool {
	return unit == LitersPer100Km || unit == GallonsPer100Mi
}
