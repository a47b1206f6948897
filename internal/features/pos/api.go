package pos

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

// Setup registers the point-of-sale routes
func (h *Api) Setup(app *fiber.App) {
	group := app.Group("/api/pos",
		middleware.AuthMiddleware(h.config.SkipAuth),
		middleware.RequireRole(models.RoleAdmin, models.RolePOSUser))

	group.Post("/products", h.controller.CreateProduct)
	group.Get("/products", h.controller.ListProducts)
	group.Get("/products/:id", h.controller.GetProduct)
	group.Put("/products/:id", h.controller.UpdateProduct)
	group.Delete("/products/:id", h.controller.DeleteProduct)
	group.Post("/products/:id/stock", h.controller.AdjustStock)

	group.Post("/sales", h.controller.Checkout)
	group.Get("/sales", h.controller.ListSales)
	group.Get("/sales/daily", h.controller.DailySummaries)
}
