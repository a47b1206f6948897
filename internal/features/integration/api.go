package integration

import (
	"sellersync/internal/common/api"
	"sellersync/internal/common/models"
	"sellersync/internal/config"
	"sellersync/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Api struct {
	controller *Controller
	config     *config.Config
}

func NewApi(controller *Controller, config *config.Config) api.Route {
	return &Api{
		controller: controller,
		config:     config,
	}
}

// Setup registers all integration routes
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/integrations",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin, models.RoleTakealotUser))

	group.Post("/", h.controller.CreateIntegration)
	group.Get("/", h.controller.ListIntegrations)
	group.Get("/:id", h.controller.GetIntegration)
	group.Put("/:id", h.controller.UpdateIntegration)
	group.Delete("/:id", h.controller.DeleteIntegration)
	group.Post("/:id/test", h.controller.TestIntegration)
}
