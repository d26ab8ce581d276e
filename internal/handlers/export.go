package handlers

import (
	"github.com/gofiber/fiber/v2"

	"flood-watch/internal/export"
)

const kmlContentType = "application/vnd.google-earth.kml+xml"

// ExportAlertsGeoJSON handles GET /api/export/alerts.geojson. It takes the same filters as /api/alerts.
func (h *Handlers) ExportAlertsGeoJSON(c *fiber.Ctx) error {
	sev, err := h.severities(c)
	if err != nil {
		return err
	}
	alerts := h.Facade.Search(c.Query("q"), c.Query("district"), sev)
	return c.JSON(export.AlertsGeoJSON(alerts), "application/geo+json")
}

// ExportRoutesGeoJSON handles GET /api/export/routes.geojson.
func (h *Handlers) ExportRoutesGeoJSON(c *fiber.Ctx) error {
	routes := h.Facade.SearchRoutes(c.Query("q"), c.Query("district"))
	return c.JSON(export.RoutesGeoJSON(routes), "application/geo+json")
}

// ExportKML handles GET /api/export/map.kml.
func (h *Handlers) ExportKML(c *fiber.Ctx) error {
	sev, err := h.severities(c)
	if err != nil {
		return err
	}
	text, district := c.Query("q"), c.Query("district")
	alerts := h.Facade.Search(text, district, sev)
	routes := h.Facade.SearchRoutes(text, district)

	c.Set(fiber.HeaderContentType, kmlContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="flood-watch.kml"`)
	return export.WriteKML(c.Response().BodyWriter(), "flood-watch", alerts, routes)
}
