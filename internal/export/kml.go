package export

import (
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml"

	"flood-watch/internal/catalog"
	"flood-watch/internal/models"
)

var kmlColors = map[string]color.RGBA{
	"red":    {R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
	"orange": {R: 0xfb, G: 0x8c, B: 0x00, A: 0xff},
	"yellow": {R: 0xfd, G: 0xd8, B: 0x35, A: 0xff},
	"blue":   {R: 0x1e, G: 0x88, B: 0xe5, A: 0xff},
	"green":  {R: 0x43, G: 0xa0, B: 0x47, A: 0xff},
}

func kmlColor(name string, opacity float64) color.RGBA {
	c, ok := kmlColors[name]
	if !ok {
		c = color.RGBA{A: 0xff}
	}
	if opacity > 0 && opacity < 1 {
		c.A = uint8(opacity * 0xff)
	}
	return c
}

func coordinate(p models.Point) kml.Coordinate {
	return kml.Coordinate{Lon: p.Lng, Lat: p.Lat}
}

// WriteKML writes alerts and routes as a KML document with one folder each.
func WriteKML(w io.Writer, name string, alerts []models.Alert, routes []models.Route) error {
	alertElems := []kml.Element{kml.Name("Alerts")}
	for _, a := range alerts {
		if a.Coordinates == nil {
			continue
		}
		style := catalog.MarkerStyle(a.Severity)
		alertElems = append(alertElems, kml.Placemark(
			kml.Name(fmt.Sprintf("%s: %s", a.Severity, a.Location)),
			kml.Description(fmt.Sprintf("%s in %s. %s (%s)", a.Type, a.District, a.Description, a.Time)),
			kml.Style(kml.IconStyle(kml.Color(kmlColor(style.Color, 1)))),
			kml.Point(kml.Coordinates(coordinate(*a.Coordinates))),
		))
	}

	routeElems := []kml.Element{kml.Name("Evacuation routes")}
	for _, r := range routes {
		if r.StartPoint == nil || r.EndPoint == nil {
			continue
		}
		style := catalog.Classify(r)
		routeElems = append(routeElems, kml.Placemark(
			kml.Name(r.Name),
			kml.Description(fmt.Sprintf("%s, %s. Updated %s", r.District, r.Status, r.Updated)),
			kml.Style(kml.LineStyle(
				kml.Color(kmlColor(style.Color, style.Opacity)),
				kml.Width(4),
			)),
			kml.LineString(
				kml.Tessellate(true),
				kml.Coordinates(coordinate(*r.StartPoint), coordinate(*r.EndPoint)),
			),
		))
	}

	doc := kml.KML(kml.Document(kml.Name(name), kml.Folder(alertElems...), kml.Folder(routeElems...)))
	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("write kml: %w", err)
	}
	return nil
}
