package runner

import (
	"sellersync/internal/common/models"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// TriggerRun executes one policy immediately. Used by external schedulers
// and the back office "run now" button.
func (ctrl *Controller) TriggerRun(c *fiber.Ctx) error {
	label := c.Params("label")

	summary, err := ctrl.Service.Run(c.Context(), label, models.TriggerManual)
	if err != nil {
		status := fiber.StatusInternalServerError
		if summary == nil {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"summary": summary,
		})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Run finished",
		"processed": summary.Processed,
		"failed":    summary.Failed,
		"items":     summary.Items,
		"summary":   summary,
	})
}

// ListPolicies returns the registered schedules.
func (ctrl *Controller) ListPolicies(c *fiber.Ctx) error {
	policies := ctrl.Service.Policies()

	out := make([]fiber.Map, 0, len(policies))
	for _, p := range policies {
		out = append(out, fiber.Map{
			"label":    p.Label,
			"kind":     p.Kind,
			"schedule": p.Schedule,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}
