package viewport

import (
	"fmt"

	"flood-watch/internal/catalog"
	"flood-watch/internal/gazetteer"
	"flood-watch/internal/models"
)

// Settings are the zoom levels and fallback center used by the Resolver.
type Settings struct {
	RegionZoom     int
	CountryZoom    int
	CountryCenter  models.Point
	RouteZoom      int
	DetailZoom     int
	NavigateZoom   int
	UserLocateZoom int
}

func DefaultSettings() Settings {
	return Settings{
		RegionZoom:     11,
		CountryZoom:    7,
		CountryCenter:  models.Point{Lat: 11.1271, Lng: 78.6569},
		RouteZoom:      12,
		DetailZoom:     15,
		NavigateZoom:   16,
		UserLocateZoom: 15,
	}
}

// Validate checks that every zoom is positive and the center is a valid coordinate.
func (s Settings) Validate() error {
	zooms := []struct {
		name string
		v    int
	}{
		{"region", s.RegionZoom},
		{"country", s.CountryZoom},
		{"route", s.RouteZoom},
		{"detail", s.DetailZoom},
		{"navigate", s.NavigateZoom},
		{"user locate", s.UserLocateZoom},
	}
	for _, z := range zooms {
		if z.v < 1 {
			return fmt.Errorf("%s zoom must be positive, got %d", z.name, z.v)
		}
	}
	if !s.CountryCenter.Valid() {
		return fmt.Errorf("country center (%v, %v) is not a valid coordinate", s.CountryCenter.Lat, s.CountryCenter.Lng)
	}
	return nil
}

// Resolver turns selections into viewports. All methods are total.
type Resolver struct {
	settings Settings
}

func NewResolver(s Settings) *Resolver {
	return &Resolver{settings: s}
}

// Default is the whole-country viewport.
func (r *Resolver) Default() models.Viewport {
	return models.Viewport{Center: r.settings.CountryCenter, Zoom: r.settings.CountryZoom}
}

// FocusOnRegion centers on a known region, or falls back to Default when ok
// is false or the region is the all-districts sentinel.
func (r *Resolver) FocusOnRegion(region models.Region, ok bool) models.Viewport {
	if !ok || gazetteer.IsAll(region.Name) {
		return r.Default()
	}
	return models.Viewport{Center: region.Coordinates, Zoom: r.settings.RegionZoom}
}

func (r *Resolver) FocusOnPoint(p models.Point, zoom int) models.Viewport {
	return models.Viewport{Center: p, Zoom: zoom}
}

// Detail zooms in on an alert location.
func (r *Resolver) Detail(p models.Point) models.Viewport {
	return r.FocusOnPoint(p, r.settings.DetailZoom)
}

// Navigate zooms in on a navigation target.
func (r *Resolver) Navigate(p models.Point) models.Viewport {
	return r.FocusOnPoint(p, r.settings.NavigateZoom)
}

// UserLocation centers on the operator's own position.
func (r *Resolver) UserLocation(p models.Point) models.Viewport {
	return r.FocusOnPoint(p, r.settings.UserLocateZoom)
}

func (r *Resolver) FocusOnRoute(route models.Route) models.Viewport {
	return models.Viewport{Center: catalog.Midpoint(route), Zoom: r.settings.RouteZoom}
}
