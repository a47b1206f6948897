package syncjob

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

// Setup registers the sync job reporting routes
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/sync/jobs",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin))

	group.Get("/", h.controller.ListActiveJobs)
	group.Post("/cleanup", h.controller.CleanupJobs)
}
