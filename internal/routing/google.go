package routing

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"

	"flood-watch/internal/models"
)

type directionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// GoogleDirections asks the Google Directions API for a driving route.
type GoogleDirections struct {
	client  directionsAPI
	timeout time.Duration
}

func NewGoogleDirections(apiKey string) (*GoogleDirections, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google directions: api key is empty")
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("google directions: %w", err)
	}
	return &GoogleDirections{client: c, timeout: 10 * time.Second}, nil
}

func (g *GoogleDirections) ComputePath(ctx context.Context, start, end models.Point, style models.RouteStyle) (*Path, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(start),
		Destination: latLng(end),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return nil, fmt.Errorf("google directions: %w", err)
	}
	if len(routes) == 0 || routes[0].OverviewPolyline.Points == "" {
		return nil, ErrNoPath
	}

	best := routes[0]
	points, err := DecodePoints(best.OverviewPolyline.Points)
	if err != nil {
		return nil, err
	}

	p := &Path{
		Provider: "google",
		Polyline: best.OverviewPolyline.Points,
		Points:   points,
		Style:    style,
	}
	for _, leg := range best.Legs {
		if leg == nil {
			continue
		}
		p.DistanceMeters += leg.Distance.Meters
		p.Duration += leg.Duration
	}
	return p, nil
}

func latLng(p models.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
