package auth

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

// Setup registers login, registration and session routes
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/auth")

	group.Post("/login", h.controller.Login)
	group.Post("/register", h.controller.Register)

	group.Get("/me", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.Me)
	group.Post("/change-password", middleware.AuthMiddleware(h.config.SkipAuth), h.controller.ChangePassword)
}
