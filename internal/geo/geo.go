// Package geo contains pure geographic computation helpers.
package geo

import (
	"math"

	"boomerang/internal/types"
)

// EarthRadiusMi is the Earth radius in statute miles used across the engine.
// Changing it changes ranking distances, so it is part of the external
// contract.
const EarthRadiusMi = 3959.0

// HaversineMi returns the great-circle distance in statute miles between two
// points specified in decimal degrees.
func HaversineMi(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMi * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
