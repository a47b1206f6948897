package warehouse

import (
	"sellersync/internal/common/models"
	"sellersync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

func (ctrl *Controller) Mirror(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var body struct {
		IntegrationID string          `json:"integrationId"`
		DataType      models.DataType `json:"dataType"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if !body.DataType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dataType must be products or sales"})
	}

	result, err := ctrl.Service.Mirror(c.Context(), claims.AdminID, body.IntegrationID, body.DataType)
	if err != nil {
		if err == ErrNotConfigured {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": result})
}

func (ctrl *Controller) Status(c *fiber.Ctx) error {
	if err := ctrl.Service.Ping(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"connected": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"connected": true})
}
