// README: ETA fallback tests (no network).
package maps

import (
	"context"
	"testing"
	"time"

	"boomerang/internal/types"
)

func TestEstimate_FallbackWithoutClient(t *testing.T) {
	svc, err := NewETAService("")
	if err != nil {
		t.Fatalf("new eta service: %v", err)
	}

	// ~1 mile north at 25 mph is about 2.4 minutes.
	origin := types.Point{Lat: 38.627, Lng: -90.199}
	dest := types.Point{Lat: 38.6415, Lng: -90.199}

	eta := svc.Estimate(context.Background(), origin, dest)
	if eta < time.Minute || eta > 4*time.Minute {
		t.Fatalf("fallback ETA out of range: %v", eta)
	}
}

func TestEstimate_ZeroDistance(t *testing.T) {
	svc, _ := NewETAService("")
	p := types.Point{Lat: 38.627, Lng: -90.199}
	if eta := svc.Estimate(context.Background(), p, p); eta != 0 {
		t.Fatalf("expected 0 ETA, got %v", eta)
	}
}
