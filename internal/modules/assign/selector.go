// README: Candidate selector; eligibility filter plus per-tier pool shaping.
package assign

import (
	"sort"

	"boomerang/internal/modules/driver"
	"boomerang/internal/types"
)

// Eligible filters the raw directory pool down to drivers who may be offered
// orders: online, active, and approved.
func Eligible(pool []driver.Snapshot) []driver.Snapshot {
	out := make([]driver.Snapshot, 0, len(pool))
	for _, d := range pool {
		if d.Eligible() {
			out = append(out, d)
		}
	}
	return out
}

// SelectCandidates shapes the eligible pool for one tier:
//
//	TierProximity: the 5 nearest drivers, or the whole pool when no pickup
//	location is known.
//	TierRating: the top 10 by rating, descending.
//	TierOpen: the entire pool; acceptance order decides, not selection order.
func SelectCandidates(pool []driver.Snapshot, tier Tier, pickup *types.Point) []driver.Snapshot {
	switch tier {
	case TierProximity:
		if pickup == nil || !pickup.Valid() {
			return pool
		}
		ranked := RankByDistance(*pickup, pool)
		n := min(tier0PoolSize, len(ranked))
		out := make([]driver.Snapshot, n)
		for i := 0; i < n; i++ {
			out[i] = ranked[i].Driver
		}
		return out
	case TierRating:
		byRating := make([]driver.Snapshot, len(pool))
		copy(byRating, pool)
		sort.SliceStable(byRating, func(i, j int) bool {
			return byRating[i].EffectiveRating() > byRating[j].EffectiveRating()
		})
		return byRating[:min(tier1PoolSize, len(byRating))]
	default:
		return pool
	}
}
