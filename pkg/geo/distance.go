// Package geo holds the great-circle math used to measure candidates
// against a search origin.
package geo

import (
	"math"

	"tourism/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by HaversineKm.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between a and b in kilometers.
func HaversineKm(a, b models.Coordinates) float64 {
	phi1 := radians(a.Lat)
	phi2 := radians(b.Lat)
	dPhi := radians(b.Lat - a.Lat)
	dLambda := radians(b.Lng - a.Lng)

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RangeCode converts a search radius in meters into the primary source's
// 1-5 range parameter (300m, 500m, 1km, 2km, 3km).
func RangeCode(radiusMeters int) int {
	switch {
	case radiusMeters <= 300:
		return 1
	case radiusMeters <= 500:
		return 2
	case radiusMeters <= 1000:
		return 3
	case radiusMeters <= 2000:
		return 4
	default:
		return 5
	}
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
