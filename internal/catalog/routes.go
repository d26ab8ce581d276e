package catalog

import (
	"strings"

	"flood-watch/internal/models"
)

// RouteQuery filters routes by text and region.
type RouteQuery struct {
	Text   string
	Region string
}

// Routes is the evacuation route registry. Same concurrency contract as Alerts.
type Routes struct {
	s *store[models.Route]
}

func NewRoutes() *Routes {
	return &Routes{s: newStore(
		func(r models.Route) string { return r.ID },
		validateRoute,
		func(r models.Route) models.Route {
			r.StartPoint = clonePoint(r.StartPoint)
			r.EndPoint = clonePoint(r.EndPoint)
			return r
		},
	)}
}

func (c *Routes) Ingest(r models.Route) error {
	return c.s.ingest(r)
}

func (c *Routes) Replace(routes []models.Route) BatchResult {
	return c.s.replace(routes)
}

func (c *Routes) Get(id string) (models.Route, bool) {
	return c.s.get(id)
}

func (c *Routes) Remove(id string) bool {
	return c.s.remove(id)
}

func (c *Routes) Clear() {
	c.s.clear()
}

func (c *Routes) Len() int {
	return c.s.len()
}

func (c *Routes) All() []models.Route {
	return c.s.all()
}

// Search returns the routes matching q in insertion order.
func (c *Routes) Search(q RouteQuery) []models.Route {
	text := strings.ToLower(q.Text)
	return c.s.filter(func(r models.Route) bool {
		return matchRegion(q.Region, r.District) && matchText(text, r.Name, r.District)
	})
}

// CountByStatus returns the number of routes per status.
func (c *Routes) CountByStatus() map[models.RouteStatus]int {
	out := make(map[models.RouteStatus]int, len(models.RouteStatuses))
	for _, st := range models.RouteStatuses {
		out[st] = 0
	}
	for _, r := range c.s.load().items {
		out[r.Status]++
	}
	return out
}

// Classify maps a route status to its rendering style.
func Classify(r models.Route) models.RouteStyle {
	switch r.Status {
	case models.RouteWarning:
		return models.RouteStyle{Color: "orange", LineStyle: "dashed", DashArray: "10, 10", Opacity: 1.0}
	case models.RouteClosed:
		return models.RouteStyle{Color: "red", LineStyle: "solid", Opacity: 0.5}
	default:
		return models.RouteStyle{Color: "green", LineStyle: "solid", Opacity: 1.0}
	}
}

// Midpoint is the arithmetic mean of the route's endpoints. A missing
// endpoint is replaced by the other one.
func Midpoint(r models.Route) models.Point {
	start, end := r.StartPoint, r.EndPoint
	switch {
	case start == nil && end == nil:
		return models.Point{}
	case start == nil:
		return *end
	case end == nil:
		return *start
	}
	return models.Point{
		Lat: (start.Lat + end.Lat) / 2,
		Lng: (start.Lng + end.Lng) / 2,
	}
}
