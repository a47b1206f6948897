package report

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

func (ctrl *Controller) Export(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	dataType := models.DataType(c.Query("type", string(models.DataTypeProducts)))
	if !dataType.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be products or sales"})
	}
	integrationID := c.Query("integrationId")
	if integrationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "integrationId is required"})
	}

	data, filename, err := ctrl.Service.Export(c.Context(), claims.AdminID, integrationID, dataType, c.Query("format", "xlsx"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	if len(filename) > 4 && filename[len(filename)-4:] == ".csv" {
		c.Set(fiber.HeaderContentType, "text/csv")
	} else {
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	return c.Send(data)
}

func (ctrl *Controller) Dashboard(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	dash, err := ctrl.Service.Dashboard(c.Context(), claims.AdminID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": dash})
}
