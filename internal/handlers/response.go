package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"flood-watch/internal/catalog"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
)

type requestStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignTeamRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

// GetHelpRequests handles GET /api/requests?district=&status=.
func (h *Handlers) GetHelpRequests(c *fiber.Ctx) error {
	var status models.RequestStatus
	if raw := c.Query("status"); raw != "" {
		s, err := models.ParseRequestStatus(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		status = s
	}
	return c.JSON(h.Facade.HelpRequests(c.Query("district"), status))
}

// PostRequestStatus handles POST /api/requests/:id/status.
func (h *Handlers) PostRequestStatus(c *fiber.Ctx) error {
	var req requestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "status is required")
	}
	status, err := models.ParseRequestStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	id := param(c, "id")
	updated, err := h.Facade.UpdateHelpRequest(id, status)
	if err != nil {
		return responseError(err)
	}
	logger.Infof(c.UserContext(), "http: help request %s is now %s", id, status)
	return c.JSON(updated)
}

// GetTeams handles GET /api/teams.
func (h *Handlers) GetTeams(c *fiber.Ctx) error {
	return c.JSON(h.Facade.Teams())
}

// GetCases handles GET /api/cases?district=.
func (h *Handlers) GetCases(c *fiber.Ctx) error {
	return c.JSON(h.Facade.EmergencyCases(c.Query("district")))
}

// PostAssignTeam handles POST /api/cases/:id/assign.
func (h *Handlers) PostAssignTeam(c *fiber.Ctx) error {
	var req assignTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.TeamID = strings.TrimSpace(req.TeamID)
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "team_id is required")
	}

	id := param(c, "id")
	updated, err := h.Facade.AssignTeam(id, req.TeamID)
	if err != nil {
		return responseError(err)
	}
	logger.Infof(c.UserContext(), "http: team %s assigned to case %s", req.TeamID, id)
	return c.JSON(updated)
}

// responseError maps rescue-operation failures to client errors. Unknown ids
// pass through to the 404 mapping of ErrorHandler.
func responseError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrRequestClosed), errors.Is(err, catalog.ErrTeamUnavailable):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, catalog.ErrInvalidRecord):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}
