package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"flood-watch/internal/models"
	"flood-watch/internal/query"
)

// GetCustomPath handles GET /api/path?from=lat,lng&to=lat,lng.
func (h *Handlers) GetCustomPath(c *fiber.Ctx) error {
	from, err := query.ParsePoint(c.Query("from"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "from: "+err.Error())
	}
	to, err := query.ParsePoint(c.Query("to"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "to: "+err.Error())
	}

	p, err := h.Facade.CustomPath(c.UserContext(), from, to)
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(p)
}

type placeResponse struct {
	Name     string          `json:"name"`
	Point    models.Point    `json:"point"`
	Provider string          `json:"provider"`
	Viewport models.Viewport `json:"viewport"`
}

// GetGeocode handles GET /api/geocode?q=. District names resolve from the
// gazetteer; anything else goes to the geocoder.
func (h *Handlers) GetGeocode(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return fiber.NewError(fiber.StatusBadRequest, "q is required")
	}

	if region, ok := h.Facade.Gazetteer().FindRegion(q); ok {
		return c.JSON(placeResponse{
			Name:     region.Name,
			Point:    region.Coordinates,
			Provider: "gazetteer",
			Viewport: h.Facade.Focus(query.FocusRegion, region.Name),
		})
	}

	if h.Geocoder == nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown place "+q)
	}
	res, err := h.Geocoder.Search(c.UserContext(), q)
	if err != nil {
		return upstreamError(err)
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "unknown place "+q)
	}
	return c.JSON(placeResponse{
		Name:     res.Name,
		Point:    res.Point,
		Provider: res.Provider,
		Viewport: h.Facade.FocusTarget(query.NavigationTarget{Point: res.Point}),
	})
}
