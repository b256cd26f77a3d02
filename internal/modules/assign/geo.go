// README: Geo ranker; pure proximity annotation and ordering of driver snapshots.
package assign

import (
	"math"
	"sort"

	"boomerang/internal/geo"
	"boomerang/internal/modules/driver"
	"boomerang/internal/types"
)

// Ranked pairs a driver snapshot with its distance to the pickup point.
// Drivers with no usable location carry +Inf so they sort last but are never
// excluded outright.
type Ranked struct {
	Driver     driver.Snapshot
	DistanceMi float64
}

// RankByDistance annotates each driver with the great-circle distance to the
// pickup and returns the list sorted ascending. Malformed coordinates are
// treated the same as missing ones.
func RankByDistance(pickup types.Point, pool []driver.Snapshot) []Ranked {
	ranked := make([]Ranked, len(pool))
	for i, d := range pool {
		ranked[i] = Ranked{Driver: d, DistanceMi: math.Inf(1)}
		if d.Location != nil && d.Location.Valid() && pickup.Valid() {
			ranked[i].DistanceMi = geo.HaversineMi(pickup, *d.Location)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceMi < ranked[j].DistanceMi
	})
	return ranked
}
