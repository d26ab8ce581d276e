package handlers

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"flood-watch/internal/catalog"
	"flood-watch/internal/config"
	"flood-watch/internal/geocode"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
	"flood-watch/internal/ping"
	"flood-watch/internal/query"
	"flood-watch/internal/routing"
)

// Broadcaster hands a broadcast to the delivery transport. *mq.BroadcastPublisher implements it.
type Broadcaster interface {
	Broadcast(ctx context.Context, b models.Broadcast) error
}

// BroadcastLog records broadcasts. *database.DB implements it.
type BroadcastLog interface {
	InsertBroadcast(ctx context.Context, b models.Broadcast) error
	ListBroadcasts(ctx context.Context, limit int) ([]models.Broadcast, error)
}

// RefreshStatus reports the local refresher's last run. *refresh.Refresher implements it.
type RefreshStatus interface {
	Last() (models.RefreshStats, bool)
}

// StatsReader reads refresh statistics shared between instances. *cache.Cache implements it.
type StatsReader interface {
	GetRefreshStats(ctx context.Context) (models.RefreshStats, bool, error)
}

// HealthChecker pings upstream hosts. *ping.Checker implements it.
type HealthChecker interface {
	CheckAll() []ping.Result
}

// Dependency is a backing service whose state /api/health reports.
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handlers serves the query API. Only Facade is required.
type Handlers struct {
	Facade            *query.Facade
	DefaultSeverities []models.Severity

	Broadcaster Broadcaster
	Log         BroadcastLog
	Refresh     RefreshStatus
	SharedStats StatsReader
	Health      HealthChecker
	Geocoder    geocode.Geocoder

	Dependencies []Dependency
}

// Register mounts every endpoint on r.
func (h *Handlers) Register(r fiber.Router) {
	r.Get("/districts", h.GetDistricts)
	r.Get("/districts/:name", h.GetDistrict)
	r.Get("/districts/:name/localities", h.GetLocalities)

	r.Get("/alerts", h.GetAlerts)
	r.Get("/alerts/:id", h.GetAlert)

	r.Get("/routes", h.GetRoutes)
	r.Get("/routes/:id", h.GetRoute)
	r.Get("/routes/:id/path", h.GetRoutePath)

	r.Get("/path", h.GetCustomPath)
	r.Get("/geocode", h.GetGeocode)

	r.Get("/focus", h.GetFocus)
	r.Post("/query", h.PostQuery)
	r.Get("/stats", h.GetStats)

	r.Get("/export/alerts.geojson", h.ExportAlertsGeoJSON)
	r.Get("/export/routes.geojson", h.ExportRoutesGeoJSON)
	r.Get("/export/map.kml", h.ExportKML)

	r.Get("/requests", h.GetHelpRequests)
	r.Post("/requests/:id/status", h.PostRequestStatus)
	r.Get("/teams", h.GetTeams)
	r.Get("/cases", h.GetCases)
	r.Post("/cases/:id/assign", h.PostAssignTeam)

	r.Get("/broadcasts", h.GetBroadcasts)
	r.Post("/broadcasts", h.PostBroadcast)

	r.Get("/health", h.GetHealth)
}

// ErrorHandler renders every error as {"error": msg} with a matching status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, query.ErrNotFound), errors.Is(err, routing.ErrNoPath):
		code = fiber.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		code = fiber.StatusGatewayTimeout
	}
	if code >= fiber.StatusInternalServerError {
		logger.Errorf(c.UserContext(), "http: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

// ── Views ────────────────────────────────────────────────────────────

type alertView struct {
	models.Alert
	Marker models.MarkerStyle `json:"marker"`
}

type routeView struct {
	models.Route
	Midpoint models.Point      `json:"midpoint"`
	Style    models.RouteStyle `json:"style"`
}

func alertViews(alerts []models.Alert) []alertView {
	out := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, alertView{Alert: a, Marker: catalog.MarkerStyle(a.Severity)})
	}
	return out
}

func routeViews(routes []models.Route) []routeView {
	out := make([]routeView, 0, len(routes))
	for _, r := range routes {
		out = append(out, routeView{Route: r, Midpoint: catalog.Midpoint(r), Style: catalog.Classify(r)})
	}
	return out
}

// ── Districts ────────────────────────────────────────────────────────

// GetDistricts handles GET /api/districts.
func (h *Handlers) GetDistricts(c *fiber.Ctx) error {
	return c.JSON(h.Facade.Gazetteer().RegionNames())
}

// GetDistrict handles GET /api/districts/:name.
func (h *Handlers) GetDistrict(c *fiber.Ctx) error {
	name := param(c, "name")
	region, ok := h.Facade.Gazetteer().FindRegion(name)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown district "+name)
	}
	return c.JSON(region)
}

// GetLocalities handles GET /api/districts/:name/localities. "All Districts"
// returns the union; an unknown name returns an empty list.
func (h *Handlers) GetLocalities(c *fiber.Ctx) error {
	return c.JSON(h.Facade.Gazetteer().LocalitiesOf(param(c, "name")))
}

// ── Alerts ───────────────────────────────────────────────────────────

// GetAlerts handles GET /api/alerts?q=&district=&severity=.
func (h *Handlers) GetAlerts(c *fiber.Ctx) error {
	sev, err := h.severities(c)
	if err != nil {
		return err
	}
	return c.JSON(alertViews(h.Facade.Search(c.Query("q"), c.Query("district"), sev)))
}

// GetAlert handles GET /api/alerts/:id.
func (h *Handlers) GetAlert(c *fiber.Ctx) error {
	id := param(c, "id")
	a, ok := h.Facade.Alerts().Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown alert "+id)
	}
	return c.JSON(alertView{Alert: a, Marker: catalog.MarkerStyle(a.Severity)})
}

// severities reads the severity filter. An absent parameter means the
// configured default; a present but empty one means no severity at all.
func (h *Handlers) severities(c *fiber.Ctx) (catalog.SeveritySet, error) {
	if !c.Context().QueryArgs().Has("severity") {
		return catalog.NewSeveritySet(h.DefaultSeverities...), nil
	}
	list, err := config.ParseSeverities(c.Query("severity"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return catalog.NewSeveritySet(list...), nil
}

// ── Routes ───────────────────────────────────────────────────────────

// GetRoutes handles GET /api/routes?q=&district=.
func (h *Handlers) GetRoutes(c *fiber.Ctx) error {
	return c.JSON(routeViews(h.Facade.SearchRoutes(c.Query("q"), c.Query("district"))))
}

// GetRoute handles GET /api/routes/:id.
func (h *Handlers) GetRoute(c *fiber.Ctx) error {
	id := param(c, "id")
	r, ok := h.Facade.Routes().Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown route "+id)
	}
	return c.JSON(routeView{Route: r, Midpoint: catalog.Midpoint(r), Style: catalog.Classify(r)})
}

// GetRoutePath handles GET /api/routes/:id/path.
func (h *Handlers) GetRoutePath(c *fiber.Ctx) error {
	p, err := h.Facade.RoutePath(c.UserContext(), param(c, "id"))
	if err != nil {
		return upstreamError(err)
	}
	return c.JSON(p)
}

// upstreamError passes lookup misses and timeouts through and reports any
// other collaborator failure as 502.
func upstreamError(err error) error {
	if errors.Is(err, query.ErrNotFound) || errors.Is(err, routing.ErrNoPath) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fiber.NewError(fiber.StatusBadGateway, err.Error())
}

// ── Focus, query, stats ──────────────────────────────────────────────

// GetFocus handles GET /api/focus?kind=&target=. A point focus also accepts &zoom=.
func (h *Handlers) GetFocus(c *fiber.Ctx) error {
	kind := query.FocusKind(c.Query("kind", string(query.FocusRegion)))
	target := c.Query("target")

	if kind == query.FocusPoint && c.Query("zoom") != "" {
		p, err := query.ParsePoint(target)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(h.Facade.FocusTarget(query.NavigationTarget{Point: p, Zoom: c.QueryInt("zoom")}))
	}
	return c.JSON(h.Facade.Focus(kind, target))
}

// queryRequest is the JSON body of POST /api/query. A missing severities
// field means the configured default.
type queryRequest struct {
	Text       string                  `json:"q"`
	District   string                  `json:"district"`
	Severities *[]string               `json:"severities"`
	FocusKind  query.FocusKind         `json:"focus_kind"`
	Target     string                  `json:"target"`
	Navigate   *query.NavigationTarget `json:"navigate"`
}

type queryResponse struct {
	Alerts     []alertView     `json:"alerts"`
	Routes     []routeView     `json:"routes"`
	Localities []string        `json:"localities"`
	Viewport   models.Viewport `json:"viewport"`
}

// PostQuery handles POST /api/query.
func (h *Handlers) PostQuery(c *fiber.Ctx) error {
	var req queryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	sel := query.Selection{
		Text:       req.Text,
		Region:     req.District,
		Severities: catalog.NewSeveritySet(h.DefaultSeverities...),
		FocusKind:  req.FocusKind,
		Target:     req.Target,
		Navigate:   req.Navigate,
	}
	if req.Severities != nil {
		list, err := config.ParseSeverities(strings.Join(*req.Severities, ","))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		sel.Severities = catalog.NewSeveritySet(list...)
	}

	res := h.Facade.Query(sel)
	return c.JSON(queryResponse{
		Alerts:     alertViews(res.Alerts),
		Routes:     routeViews(res.Routes),
		Localities: res.Localities,
		Viewport:   res.Viewport,
	})
}

// GetStats handles GET /api/stats.
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.Facade.Stats())
}

// param returns a path parameter with percent-escapes decoded.
func param(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
