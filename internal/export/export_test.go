package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flood-watch/internal/models"
)

var (
	alerts = []models.Alert{
		{ID: "a1", Type: "Flooding", Location: "Adyar", District: "Chennai", Severity: models.SeverityCritical, Coordinates: &models.Point{Lat: 13.0012, Lng: 80.2565}},
		{ID: "a2", Type: "Waterlogging", Location: "Velachery", District: "Chennai", Severity: models.SeverityLow},
	}
	routes = []models.Route{
		{ID: "r1", Name: "Chennai Evacuation Route 1", Status: models.RouteWarning, District: "Chennai",
			StartPoint: &models.Point{Lat: 13.08, Lng: 80.27}, EndPoint: &models.Point{Lat: 13.18, Lng: 80.37}},
	}
)

func TestAlertsGeoJSON(t *testing.T) {
	fc := AlertsGeoJSON(alerts)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{80.2565, 13.0012}, f.Geometry.Coordinates)
	assert.Equal(t, "a1", f.Properties["id"])
	assert.Equal(t, "red", f.Properties["color"])
	assert.Equal(t, 2000, f.Properties["radius_meters"])
}

func TestAlertsGeoJSONEmpty(t *testing.T) {
	fc := AlertsGeoJSON(nil)
	assert.NotNil(t, fc.Features)
	assert.Empty(t, fc.Features)
}

func TestRoutesGeoJSON(t *testing.T) {
	fc := RoutesGeoJSON(routes)

	require.Len(t, fc.Features, 1)
	f := fc.Features[0]
	assert.Equal(t, "LineString", f.Geometry.Type)
	assert.Equal(t, [][]float64{{80.27, 13.08}, {80.37, 13.18}}, f.Geometry.Coordinates)
	assert.Equal(t, "orange", f.Properties["color"])
	assert.Equal(t, "dashed", f.Properties["line_style"])
}

func TestWriteKML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, "flood-watch", alerts, routes))

	out := buf.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "<name>flood-watch</name>")
	assert.Contains(t, out, "Critical: Adyar")
	assert.NotContains(t, out, "Velachery")
	assert.Contains(t, out, "Chennai Evacuation Route 1")
	assert.Contains(t, out, "<LineString>")
}

func TestKMLColor(t *testing.T) {
	assert.Equal(t, uint8(0xff), kmlColor("green", 1).A)
	assert.Equal(t, uint8(0x7f), kmlColor("red", 0.5).A)
	assert.Equal(t, uint8(0), kmlColor("purple", 1).R)
}
