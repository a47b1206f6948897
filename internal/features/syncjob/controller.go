package syncjob

import (
	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

// ListActiveJobs returns every job currently mid-run.
func (ctrl *Controller) ListActiveJobs(c *fiber.Ctx) error {
	jobs, err := ctrl.Service.ActiveJobs(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data":  jobs,
		"count": len(jobs),
	})
}

// CleanupJobs deletes finished jobs older than the retention window.
func (ctrl *Controller) CleanupJobs(c *fiber.Ctx) error {
	var body struct {
		RetentionDays int `json:"retention_days"`
	}
	if err := c.BodyParser(&body); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	removed, err := ctrl.Service.CleanupOldJobs(c.Context(), body.RetentionDays)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job cleanup finished",
		"removed": removed,
	})
}
