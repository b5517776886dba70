// README: Directions lookup giving the transportation prompt a reference distance and duration.
package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"tripwise/internal/trip"
)

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client  *maps.Client
	timeout time.Duration
}

// NewRouteService bounds every Directions call by timeout (15s when unset).
func NewRouteService(opts Options, timeout time.Duration) (*RouteService, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RouteService{client: client, timeout: timeout}, nil
}

// GetTravelEstimate returns the duration and distance text of the first leg
// of the first route found for mode.
func (s *RouteService) GetTravelEstimate(ctx context.Context, origin, destination string, mode string) (time.Duration, string, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	}
	switch mode {
	case trip.ModeTrain:
		r.Mode = maps.TravelModeTransit
		r.TransitMode = []maps.TransitMode{maps.TransitModeTrain}
	case trip.ModeBus:
		r.Mode = maps.TravelModeTransit
		r.TransitMode = []maps.TransitMode{maps.TransitModeBus}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return 0, "", fmt.Errorf("%w: directions: %v", ErrUnavailable, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, "", ErrNoRoute
	}

	leg := routes[0].Legs[0]
	return leg.Duration, leg.Distance.HumanReadable, nil
}

// Reference renders a one-line summary for the prompt, or "" for flights.
func (s *RouteService) Reference(ctx context.Context, origin, destination string, mode string) (string, error) {
	if mode == trip.ModeFlight {
		return "", nil
	}
	d, dist, err := s.GetTravelEstimate(ctx, origin, destination, mode)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s, about %s by %s", dist, humanDuration(d), mode), nil
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
