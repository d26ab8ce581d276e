package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"flood-watch/internal/catalog"
	"flood-watch/internal/gazetteer"
	"flood-watch/internal/models"
	"flood-watch/internal/routing"
	"flood-watch/internal/viewport"
)

// ErrNotFound is returned by lookups that need a concrete record.
var ErrNotFound = catalog.ErrNotFound

// FocusKind selects how Focus interprets its target.
type FocusKind string

const (
	FocusRegion   FocusKind = "region"
	FocusAlert    FocusKind = "alert"
	FocusNavigate FocusKind = "navigate" // alert id, at navigation zoom
	FocusRoute    FocusKind = "route"
	FocusPoint    FocusKind = "point" // "lat,lng"
	FocusUser     FocusKind = "user"  // "lat,lng"
)

// Facade composes the gazetteer, catalogs, resolver and router for the
// presentation layer. It owns no state.
type Facade struct {
	regions  *gazetteer.Gazetteer
	alerts   *catalog.Alerts
	routes   *catalog.Routes
	response *catalog.Response
	resolver *viewport.Resolver
	router   routing.PathComputer
}

func NewFacade(g *gazetteer.Gazetteer, a *catalog.Alerts, r *catalog.Routes, resp *catalog.Response, v *viewport.Resolver, router routing.PathComputer) *Facade {
	if router == nil {
		router = routing.StraightLine{}
	}
	if resp == nil {
		resp = catalog.NewResponse()
	}
	return &Facade{regions: g, alerts: a, routes: r, response: resp, resolver: v, router: router}
}

func (f *Facade) Gazetteer() *gazetteer.Gazetteer { return f.regions }
func (f *Facade) Alerts() *catalog.Alerts         { return f.alerts }
func (f *Facade) Routes() *catalog.Routes         { return f.routes }
func (f *Facade) Response() *catalog.Response     { return f.response }

// knownRegion reports whether region is a sentinel or a gazetteer district.
// Filters on any other name match nothing.
func (f *Facade) knownRegion(region string) bool {
	if gazetteer.IsAll(region) {
		return true
	}
	_, ok := f.regions.FindRegion(region)
	return ok
}

func (f *Facade) Search(text, region string, severities catalog.SeveritySet) []models.Alert {
	if !f.knownRegion(region) {
		return []models.Alert{}
	}
	return f.alerts.Search(catalog.AlertQuery{Text: text, Region: region, Severities: severities})
}

func (f *Facade) SearchRoutes(text, region string) []models.Route {
	if !f.knownRegion(region) {
		return []models.Route{}
	}
	return f.routes.Search(catalog.RouteQuery{Text: text, Region: region})
}

// HelpRequests lists help requests in region, optionally narrowed to one status.
func (f *Facade) HelpRequests(region string, status models.RequestStatus) []models.HelpRequest {
	if !f.knownRegion(region) {
		return []models.HelpRequest{}
	}
	return f.response.Requests(region, status)
}

// EmergencyCases lists emergency cases in region.
func (f *Facade) EmergencyCases(region string) []models.EmergencyCase {
	if !f.knownRegion(region) {
		return []models.EmergencyCase{}
	}
	return f.response.Cases(region)
}

func (f *Facade) Teams() []models.Team {
	return f.response.Teams()
}

// UpdateHelpRequest moves a help request to status.
func (f *Facade) UpdateHelpRequest(id string, status models.RequestStatus) (models.HelpRequest, error) {
	return f.response.UpdateRequest(id, status)
}

// AssignTeam dispatches a team to an emergency case.
func (f *Facade) AssignTeam(caseID, teamID string) (models.EmergencyCase, error) {
	return f.response.AssignTeam(caseID, teamID)
}

// Focus resolves a viewport for the target. Unknown targets and malformed
// coordinates yield the default country viewport.
func (f *Facade) Focus(kind FocusKind, target string) models.Viewport {
	switch kind {
	case FocusRegion:
		return f.resolver.FocusOnRegion(f.regions.FindRegion(target))
	case FocusAlert, FocusNavigate:
		a, ok := f.alerts.Get(target)
		if !ok || a.Coordinates == nil {
			return f.resolver.Default()
		}
		if kind == FocusNavigate {
			return f.resolver.Navigate(*a.Coordinates)
		}
		return f.resolver.Detail(*a.Coordinates)
	case FocusRoute:
		r, ok := f.routes.Get(target)
		if !ok {
			return f.resolver.Default()
		}
		return f.resolver.FocusOnRoute(r)
	case FocusPoint, FocusUser:
		p, err := ParsePoint(target)
		if err != nil {
			return f.resolver.Default()
		}
		if kind == FocusUser {
			return f.resolver.UserLocation(p)
		}
		return f.resolver.Detail(p)
	default:
		return f.resolver.Default()
	}
}

// NavigationTarget is a point the operator jumps to, with an optional zoom.
type NavigationTarget struct {
	Point models.Point `json:"point"`
	Zoom  int          `json:"zoom,omitempty"`
}

// FocusTarget centers on a navigation target, using the detail zoom when none is given.
func (f *Facade) FocusTarget(t NavigationTarget) models.Viewport {
	if !t.Point.Valid() {
		return f.resolver.Default()
	}
	if t.Zoom <= 0 {
		return f.resolver.Detail(t.Point)
	}
	return f.resolver.FocusOnPoint(t.Point, t.Zoom)
}

// Selection is the dashboard's full filter and focus state.
type Selection struct {
	Text       string
	Region     string
	Severities catalog.SeveritySet
	FocusKind  FocusKind
	Target     string
	Navigate   *NavigationTarget
}

// Result is everything the map needs to render one Selection.
type Result struct {
	Alerts     []models.Alert  `json:"alerts"`
	Routes     []models.Route  `json:"routes"`
	Localities []string        `json:"localities"`
	Viewport   models.Viewport `json:"viewport"`
}

// Query evaluates a selection. Without an explicit focus the viewport follows the region.
func (f *Facade) Query(s Selection) Result {
	res := Result{
		Alerts:     f.Search(s.Text, s.Region, s.Severities),
		Routes:     f.SearchRoutes(s.Text, s.Region),
		Localities: f.regions.LocalitiesOf(s.Region),
	}

	switch {
	case s.Navigate != nil:
		res.Viewport = f.FocusTarget(*s.Navigate)
	case s.FocusKind != "":
		res.Viewport = f.Focus(s.FocusKind, s.Target)
	default:
		res.Viewport = f.Focus(FocusRegion, s.Region)
	}
	return res
}

// RoutePath asks the routing collaborator for the path of a route.
func (f *Facade) RoutePath(ctx context.Context, routeID string) (*routing.Path, error) {
	r, ok := f.routes.Get(routeID)
	if !ok {
		return nil, fmt.Errorf("route %q: %w", routeID, ErrNotFound)
	}
	p, err := f.router.ComputePath(ctx, *r.StartPoint, *r.EndPoint, catalog.Classify(r))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, routing.ErrNoPath
	}
	return p, nil
}

// CustomPathStyle is used for operator-picked paths that belong to no route.
var CustomPathStyle = models.RouteStyle{Color: "blue", LineStyle: "solid", Opacity: 1.0}

// CustomPath asks the routing collaborator for a path between two arbitrary points.
func (f *Facade) CustomPath(ctx context.Context, start, end models.Point) (*routing.Path, error) {
	if !start.Valid() || !end.Valid() {
		return nil, fmt.Errorf("custom path: invalid endpoint")
	}
	p, err := f.router.ComputePath(ctx, start, end, CustomPathStyle)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, routing.ErrNoPath
	}
	return p, nil
}

// Stats are the dashboard counters.
type Stats struct {
	Alerts         int                        `json:"alerts"`
	BySeverity     map[models.Severity]int    `json:"by_severity"`
	Routes         int                        `json:"routes"`
	ByStatus       map[models.RouteStatus]int `json:"by_status"`
	Districts      int                        `json:"districts"`
	SafeRoutes     int                        `json:"safe_routes"`
	WarningRoutes  int                        `json:"warning_routes"`
	BlockedRoutes  int                        `json:"blocked_routes"`
	CriticalAlerts int                        `json:"critical_alerts"`

	catalog.ResponseCounts
}

func (f *Facade) Stats() Stats {
	bySev := f.alerts.CountBySeverity()
	byStatus := f.routes.CountByStatus()
	return Stats{
		Alerts:         f.alerts.Len(),
		BySeverity:     bySev,
		Routes:         f.routes.Len(),
		ByStatus:       byStatus,
		Districts:      f.regions.Len(),
		SafeRoutes:     byStatus[models.RouteOpen],
		WarningRoutes:  byStatus[models.RouteWarning],
		BlockedRoutes:  byStatus[models.RouteClosed],
		CriticalAlerts: bySev[models.SeverityCritical],
		ResponseCounts: f.response.Counts(),
	}
}

// ParsePoint parses "lat,lng".
func ParsePoint(s string) (models.Point, error) {
	latRaw, lngRaw, ok := strings.Cut(s, ",")
	if !ok {
		return models.Point{}, fmt.Errorf("point %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	p := models.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return models.Point{}, fmt.Errorf("point %q: out of range", s)
	}
	return p, nil
}
