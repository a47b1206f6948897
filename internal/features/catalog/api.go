package catalog

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

// Setup registers the catalog routes. kind is one of category, brand, supplier.
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/catalog/:kind",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin, models.RolePOSUser))

	group.Post("/", h.controller.Create)
	group.Get("/", h.controller.List)
	group.Get("/:id", h.controller.Get)
	group.Put("/:id", h.controller.Update)
	group.Delete("/:id", h.controller.Delete)
}
