// README: ETA synthesis via Google Maps Directions, with a haversine fallback.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"boomerang/internal/geo"
	"boomerang/internal/types"
)

// fallbackSpeedMph approximates urban driving when no Maps client is
// configured or the Directions call fails.
const fallbackSpeedMph = 25.0

// ETAService estimates driver travel time to a pickup point. The customer
// only ever sees this estimate, never the driver's raw position stream.
type ETAService struct {
	client *maps.Client
}

// NewETAService creates an ETAService. An empty apiKey yields a service that
// always uses the haversine fallback.
func NewETAService(apiKey string) (*ETAService, error) {
	if apiKey == "" {
		return &ETAService{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &ETAService{client: client}, nil
}

// Estimate returns the expected driving duration from origin to destination.
// It never fails: any Maps error degrades to the straight-line fallback.
func (s *ETAService) Estimate(ctx context.Context, origin, destination types.Point) time.Duration {
	if s.client != nil {
		if d, err := s.directionsETA(ctx, origin, destination); err == nil {
			return d
		}
	}
	return fallbackETA(origin, destination)
}

func (s *ETAService) directionsETA(ctx context.Context, origin, destination types.Point) (time.Duration, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}
	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, fmt.Errorf("no route found")
	}
	return routes[0].Legs[0].Duration, nil
}

func fallbackETA(origin, destination types.Point) time.Duration {
	miles := geo.HaversineMi(origin, destination)
	hours := miles / fallbackSpeedMph
	return time.Duration(hours * float64(time.Hour))
}
