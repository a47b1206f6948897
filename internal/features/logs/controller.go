package logs

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// ListLogs returns execution history, newest first.
func (ctrl *Controller) ListLogs(c *fiber.Ctx) error {
	q := Query{
		Label:  c.Query("label"),
		Status: c.Query("status"),
		Limit:  int64(c.QueryInt("limit", 50)),
	}
	if since := c.Query("since"); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "since must be RFC3339",
			})
		}
		q.Since = parsed
	}

	entries, err := ctrl.Service.List(c.Context(), q)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": entries})
}
