package logs

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

// Setup registers the execution log routes
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/logs",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin, models.RoleTakealotUser))

	group.Get("/", h.controller.ListLogs)
}
