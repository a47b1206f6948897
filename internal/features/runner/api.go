package runner

import (
	"sellersync/internal/common/api"
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

// Setup registers the cron trigger routes. These sit behind the shared
// cron secret, not user auth, so an external scheduler can call them.
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/cron", middleware.CronAuthMiddleware(h.config.CronSecret))

	group.Get("/", h.controller.ListPolicies)
	group.Get("/:label", h.controller.TriggerRun)
}
