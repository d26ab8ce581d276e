package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"flood-watch/internal/logger"
	"flood-watch/internal/models"
	"flood-watch/internal/ping"
)

// dependencyTimeout bounds each dependency check.
const dependencyTimeout = 2 * time.Second

type healthResponse struct {
	Status       string               `json:"status"`
	Alerts       int                  `json:"alerts"`
	Routes       int                  `json:"routes"`
	Refresh      *models.RefreshStats `json:"refresh"`
	Dependencies []dependencyStatus   `json:"dependencies"`
	Upstreams    []ping.Result        `json:"upstreams"`
}

type dependencyStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// GetHealth handles GET /api/health. It reports "degraded" when the last
// refresh failed, a dependency check fails or an upstream host is
// unreachable, and always answers 200.
func (h *Handlers) GetHealth(c *fiber.Ctx) error {
	res := healthResponse{
		Status:       "ok",
		Alerts:       h.Facade.Alerts().Len(),
		Routes:       h.Facade.Routes().Len(),
		Dependencies: []dependencyStatus{},
		Upstreams:    []ping.Result{},
	}

	if s, ok := h.lastRefresh(c); ok {
		res.Refresh = &s
		if s.Error != "" {
			res.Status = "degraded"
		}
	}

	for _, d := range h.Dependencies {
		st := checkDependency(c.UserContext(), d)
		if !st.OK {
			res.Status = "degraded"
		}
		res.Dependencies = append(res.Dependencies, st)
	}

	if h.Health != nil {
		res.Upstreams = h.Health.CheckAll()
		for _, u := range res.Upstreams {
			if !u.Reachable {
				res.Status = "degraded"
			}
		}
	}

	return c.JSON(res)
}

// lastRefresh prefers this instance's refresher and falls back to the shared store.
func (h *Handlers) lastRefresh(c *fiber.Ctx) (models.RefreshStats, bool) {
	if h.Refresh != nil {
		if s, ok := h.Refresh.Last(); ok {
			return s, true
		}
	}
	if h.SharedStats == nil {
		return models.RefreshStats{}, false
	}
	s, ok, err := h.SharedStats.GetRefreshStats(c.UserContext())
	if err != nil {
		logger.Warnf(c.UserContext(), "http: read shared refresh stats: %v", err)
		return models.RefreshStats{}, false
	}
	return s, ok
}

func checkDependency(ctx context.Context, d Dependency) dependencyStatus {
	ctx, cancel := context.WithTimeout(ctx, dependencyTimeout)
	defer cancel()

	if err := d.Check(ctx); err != nil {
		logger.Warnf(ctx, "http: health: %s: %v", d.Name, err)
		return dependencyStatus{Name: d.Name, Error: err.Error()}
	}
	return dependencyStatus{Name: d.Name, OK: true}
}
