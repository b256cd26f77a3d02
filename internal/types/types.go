// README: Common identifier and coordinate types shared across modules.
package types

// ID is an opaque order/customer identifier.
type ID string

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lng float64
}

// Valid reports whether the point is a plausible WGS84 coordinate.
// Out-of-range values are treated as missing data by callers.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}
