package handlers

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"flood-watch/internal/gazetteer"
	"flood-watch/internal/logger"
	"flood-watch/internal/models"
)

const (
	// DefaultBroadcastLimit is how many broadcasts GET /api/broadcasts returns by default.
	DefaultBroadcastLimit = 50
	// MaxBroadcastLimit caps the limit query parameter.
	MaxBroadcastLimit = 500
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// broadcastRequest is the JSON body for POST /api/broadcasts.
type broadcastRequest struct {
	Message  string `json:"message" validate:"required,max=4000"`
	District string `json:"district"`
}

// PostBroadcast handles POST /api/broadcasts. The broadcast is published first
// and then recorded; a failed publish is not recorded.
func (h *Handlers) PostBroadcast(c *fiber.Ctx) error {
	if h.Broadcaster == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "broadcasts are disabled")
	}

	var req broadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	req.Message = strings.TrimSpace(req.Message)
	req.District = strings.TrimSpace(req.District)
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "message is required and must be at most 4000 characters")
	}

	district := req.District
	if gazetteer.IsAll(district) {
		district = ""
	} else if _, ok := h.Facade.Gazetteer().FindRegion(district); !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unknown district "+district)
	}

	ctx := c.UserContext()
	b := models.Broadcast{
		ID:       uuid.NewString(),
		Message:  req.Message,
		District: district,
		SentAt:   time.Now().UTC(),
	}
	if err := h.Broadcaster.Broadcast(ctx, b); err != nil {
		logger.Errorf(ctx, "http: broadcast %s: %v", b.ID, err)
		return fiber.NewError(fiber.StatusBadGateway, "failed to publish broadcast")
	}
	if h.Log != nil {
		if err := h.Log.InsertBroadcast(ctx, b); err != nil {
			logger.Warnf(ctx, "http: broadcast %s published but not recorded: %v", b.ID, err)
		}
	}
	logger.Infof(ctx, "http: broadcast %s published for %q", b.ID, districtOrAll(district))

	return c.Status(fiber.StatusCreated).JSON(b)
}

// GetBroadcasts handles GET /api/broadcasts?limit=.
func (h *Handlers) GetBroadcasts(c *fiber.Ctx) error {
	if h.Log == nil {
		return c.JSON([]models.Broadcast{})
	}

	limit := c.QueryInt("limit", DefaultBroadcastLimit)
	if limit <= 0 {
		limit = DefaultBroadcastLimit
	}
	if limit > MaxBroadcastLimit {
		limit = MaxBroadcastLimit
	}

	list, err := h.Log.ListBroadcasts(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = make([]models.Broadcast, 0)
	}
	return c.JSON(list)
}

func districtOrAll(district string) string {
	if district == "" {
		return gazetteer.AllDistricts
	}
	return district
}
