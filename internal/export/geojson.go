package export

import (
	"flood-watch/internal/catalog"
	"flood-watch/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds [lng, lat] for a Point and a list of them for a LineString.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func position(p models.Point) []float64 {
	return []float64{p.Lng, p.Lat}
}

// AlertsGeoJSON renders alerts as Point features carrying their marker style.
func AlertsGeoJSON(alerts []models.Alert) FeatureCollection {
	features := make([]Feature, 0, len(alerts))

	for _, a := range alerts {
		if a.Coordinates == nil {
			continue
		}
		style := catalog.MarkerStyle(a.Severity)
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: position(*a.Coordinates),
			},
			Properties: map[string]any{
				"id":            a.ID,
				"type":          a.Type,
				"location":      a.Location,
				"district":      a.District,
				"severity":      string(a.Severity),
				"time":          a.Time,
				"description":   a.Description,
				"color":         style.Color,
				"radius_meters": style.RadiusMeters,
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

// RoutesGeoJSON renders routes as two-point LineString features carrying their line style.
func RoutesGeoJSON(routes []models.Route) FeatureCollection {
	features := make([]Feature, 0, len(routes))

	for _, r := range routes {
		if r.StartPoint == nil || r.EndPoint == nil {
			continue
		}
		style := catalog.Classify(r)
		features = append(features, Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "LineString",
				Coordinates: [][]float64{position(*r.StartPoint), position(*r.EndPoint)},
			},
			Properties: map[string]any{
				"id":         r.ID,
				"name":       r.Name,
				"status":     string(r.Status),
				"updated":    r.Updated,
				"district":   r.District,
				"color":      style.Color,
				"line_style": style.LineStyle,
				"dash_array": style.DashArray,
				"opacity":    style.Opacity,
			},
		})
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
