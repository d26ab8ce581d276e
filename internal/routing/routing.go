package routing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/twpayne/go-polyline"

	"flood-watch/internal/models"
)

// ErrNoPath is returned when a provider has no path between the endpoints.
var ErrNoPath = errors.New("no path found")

// Path is an opaque renderable path returned by a routing provider.
type Path struct {
	Provider       string            `json:"provider"`
	Polyline       string            `json:"polyline"` // Google encoded polyline
	Points         []models.Point    `json:"points"`
	DistanceMeters int               `json:"distance_meters"`
	Duration       time.Duration     `json:"duration"`
	Style          models.RouteStyle `json:"style"`
}

// PathComputer computes a path between two points.
type PathComputer interface {
	ComputePath(ctx context.Context, start, end models.Point, style models.RouteStyle) (*Path, error)
}

// StraightLine joins the endpoints directly. Used when no road router is configured.
type StraightLine struct{}

func (StraightLine) ComputePath(ctx context.Context, start, end models.Point, style models.RouteStyle) (*Path, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	coords := [][]float64{{start.Lat, start.Lng}, {end.Lat, end.Lng}}
	return &Path{
		Provider:       "straight",
		Polyline:       string(polyline.EncodeCoords(coords)),
		Points:         []models.Point{start, end},
		DistanceMeters: int(math.Round(Haversine(start, end))),
		Style:          style,
	}, nil
}

// Fallback tries Primary and falls back to Secondary on any error other than cancellation.
type Fallback struct {
	Primary   PathComputer
	Secondary PathComputer
}

func (f Fallback) ComputePath(ctx context.Context, start, end models.Point, style models.RouteStyle) (*Path, error) {
	p, err := f.Primary.ComputePath(ctx, start, end, style)
	if err == nil {
		return p, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	p, err2 := f.Secondary.ComputePath(ctx, start, end, style)
	if err2 != nil {
		return nil, fmt.Errorf("primary: %v, secondary: %w", err, err2)
	}
	return p, nil
}

// DecodePoints decodes a Google encoded polyline.
func DecodePoints(encoded string) ([]models.Point, error) {
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	points := make([]models.Point, len(coords))
	for i, c := range coords {
		points[i] = models.Point{Lat: c[0], Lng: c[1]}
	}
	return points, nil
}

// Haversine returns the great-circle distance in meters.
func Haversine(a, b models.Point) float64 {
	const earthRadius = 6371000

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dlat := lat2 - lat1
	dlng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return earthRadius * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
