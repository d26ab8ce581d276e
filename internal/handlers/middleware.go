package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"flood-watch/internal/logger"
)

// RequestContext tags each request with an id, reusing an incoming
// X-Request-ID. Log lines written with c.UserContext() carry request_id and path.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := utils.CopyString(c.Get(fiber.HeaderXRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.SetUserContext(logger.With(c.UserContext(), "request_id", id, "path", utils.CopyString(c.Path())))
		return c.Next()
	}
}
