// README: Geo ranker unit tests (pure functions, no external dependencies).
package assign

import (
	"math"
	"testing"

	"boomerang/internal/geo"
	"boomerang/internal/modules/driver"
	"boomerang/internal/types"
)

func TestHaversineMi_KnownDistance(t *testing.T) {
	// St. Louis Gateway Arch to Kansas City Union Station, roughly 238 mi.
	stl := types.Point{Lat: 38.6247, Lng: -90.1848}
	kc := types.Point{Lat: 39.0997, Lng: -94.5786}

	d := geo.HaversineMi(stl, kc)
	if d < 230 || d > 245 {
		t.Fatalf("expected ~238 mi, got %.1f", d)
	}
}

func TestHaversineMi_ZeroDistance(t *testing.T) {
	p := types.Point{Lat: 38.627, Lng: -90.199}
	if d := geo.HaversineMi(p, p); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestRankByDistance_Ordering(t *testing.T) {
	pickup := types.Point{Lat: 38.627, Lng: -90.199}
	pool := []driver.Snapshot{
		{ID: 1, Location: &types.Point{Lat: 38.6415, Lng: -90.199}}, // ~1 mi
		{ID: 2, Location: &types.Point{Lat: 38.6704, Lng: -90.199}}, // ~3 mi
		{ID: 3, Location: &types.Point{Lat: 38.6299, Lng: -90.199}}, // ~0.2 mi
	}

	ranked := RankByDistance(pickup, pool)
	wantOrder := []int64{3, 1, 2}
	for i, want := range wantOrder {
		if ranked[i].Driver.ID != want {
			t.Fatalf("position %d: expected driver %d, got %d", i, want, ranked[i].Driver.ID)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceMi < ranked[i-1].DistanceMi {
			t.Fatalf("distances not ascending: %v", ranked)
		}
	}
}

func TestRankByDistance_MissingLocationSortsLast(t *testing.T) {
	pickup := types.Point{Lat: 38.627, Lng: -90.199}
	pool := []driver.Snapshot{
		{ID: 1},
		{ID: 2, Location: &types.Point{Lat: 38.7, Lng: -90.2}},
	}

	ranked := RankByDistance(pickup, pool)
	if ranked[0].Driver.ID != 2 {
		t.Fatalf("expected located driver first, got %d", ranked[0].Driver.ID)
	}
	if !math.IsInf(ranked[1].DistanceMi, 1) {
		t.Fatalf("expected +Inf distance for missing location, got %f", ranked[1].DistanceMi)
	}
}

func TestRankByDistance_MalformedTreatedAsMissing(t *testing.T) {
	pickup := types.Point{Lat: 38.627, Lng: -90.199}
	pool := []driver.Snapshot{
		{ID: 1, Location: &types.Point{Lat: 200, Lng: -90.2}}, // out of range
		{ID: 2, Location: &types.Point{Lat: 38.7, Lng: -90.2}},
	}

	ranked := RankByDistance(pickup, pool)
	if ranked[0].Driver.ID != 2 {
		t.Fatalf("expected valid-location driver first, got %d", ranked[0].Driver.ID)
	}
	if !math.IsInf(ranked[1].DistanceMi, 1) {
		t.Fatalf("malformed coordinates should rank as missing, got %f", ranked[1].DistanceMi)
	}
}
