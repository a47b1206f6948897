package integration

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

// tenantScoped loads an integration and verifies the caller may touch it.
func (ctrl *Controller) tenantScoped(c *fiber.Ctx) (*Integration, error) {
	integ, err := ctrl.Service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "integration not found")
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if claims.Role != string(models.RoleSuperAdmin) && integ.AdminID != claims.AdminID {
		return nil, fiber.NewError(fiber.StatusForbidden, "integration belongs to another admin")
	}
	return integ, nil
}

func (ctrl *Controller) CreateIntegration(c *fiber.Ctx) error {
	var body struct {
		AccountName string          `json:"account_name"`
		APIKey      string          `json:"api_key"`
		AuthScheme  string          `json:"auth_scheme"`
		CronEnabled bool            `json:"cron_enabled"`
		ProductCron bool            `json:"product_cron_enabled"`
		SalesCron   bool            `json:"sales_cron_enabled"`
		Preferences SyncPreferences `json:"sync_preferences"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	integ := &Integration{
		AdminID:         claims.AdminID,
		AccountName:     body.AccountName,
		APIKey:          body.APIKey,
		AuthScheme:      body.AuthScheme,
		CronEnabled:     body.CronEnabled,
		ProductCron:     body.ProductCron,
		SalesCron:       body.SalesCron,
		SyncPreferences: body.Preferences,
	}

	if err := ctrl.Service.Create(c.Context(), integ); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Integration created successfully",
		"data":    integ,
	})
}

func (ctrl *Controller) ListIntegrations(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	integrations, err := ctrl.Service.ListByAdmin(c.Context(), claims.AdminID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": integrations})
}

func (ctrl *Controller) GetIntegration(c *fiber.Ctx) error {
	integ, err := ctrl.tenantScoped(c)
	if err != nil {
		return err
	}
	return c.JSON(integ)
}

func (ctrl *Controller) UpdateIntegration(c *fiber.Ctx) error {
	integ, err := ctrl.tenantScoped(c)
	if err != nil {
		return err
	}

	var updates map[string]interface{}
	if err := c.BodyParser(&updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Tenant and identity fields are not updatable in place
	delete(updates, "_id")
	delete(updates, "id")
	delete(updates, "admin_id")

	if err := ctrl.Service.Update(c.Context(), integ.ID.Hex(), updates); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Integration updated successfully"})
}

func (ctrl *Controller) DeleteIntegration(c *fiber.Ctx) error {
	integ, err := ctrl.tenantScoped(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.Delete(c.Context(), integ.ID.Hex()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"message": "Integration deleted successfully"})
}

func (ctrl *Controller) TestIntegration(c *fiber.Ctx) error {
	integ, err := ctrl.tenantScoped(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.TestCredentials(c.Context(), integ.ID.Hex()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true, "message": "API key is valid"})
}
