package system

import (
	"sellersync/internal/common/api"
	"sellersync/internal/config"
	"sellersync/internal/middleware"

	"github.com/gofiber/contrib/websocket"
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

// Setup registers the health check and the execution log tail socket
func (h *Api) Setup(app *fiber.App) {
	app.Get("/api/health", h.controller.Health)

	app.Get("/api/ws/executions",
		middleware.AuthMiddleware(h.config.SkipAuth),
		websocket.New(h.controller.TailExecutions))
}
