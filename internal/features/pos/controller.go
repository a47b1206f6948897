package pos

import (
	"strconv"
	"time"

	"sellersync/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Controller struct {
	Service Service
}

func NewController(service Service) *Controller {
	return &Controller{Service: service}
}

func (ctrl *Controller) CreateProduct(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var p Product
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	p.AdminID = claims.AdminID

	created, err := ctrl.Service.CreateProduct(c.Context(), &p)
	if err != nil {
		if err == ErrSKUTaken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func (ctrl *Controller) ListProducts(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	products, err := ctrl.Service.ListProducts(c.Context(), claims.AdminID, c.Query("search"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

func (ctrl *Controller) scopedProduct(c *fiber.Ctx) (*Product, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid product id")
	}
	p, err := ctrl.Service.GetProduct(c.Context(), id)
	if err != nil || p.AdminID != claims.AdminID {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return p, nil
}

func (ctrl *Controller) GetProduct(c *fiber.Ctx) error {
	p, err := ctrl.scopedProduct(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": p})
}

func (ctrl *Controller) UpdateProduct(c *fiber.Ctx) error {
	p, err := ctrl.scopedProduct(c)
	if err != nil {
		return err
	}
	var body Product
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := ctrl.Service.UpdateProduct(c.Context(), p.ID, &body); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *Controller) DeleteProduct(c *fiber.Ctx) error {
	p, err := ctrl.scopedProduct(c)
	if err != nil {
		return err
	}
	if err := ctrl.Service.DeleteProduct(c.Context(), p.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *Controller) AdjustStock(c *fiber.Ctx) error {
	p, err := ctrl.scopedProduct(c)
	if err != nil {
		return err
	}
	var body struct {
		Delta int `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if body.Delta == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "delta must be non-zero"})
	}
	if err := ctrl.Service.AdjustStock(c.Context(), p.ID, body.Delta); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *Controller) Checkout(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var params CheckoutParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	sale, err := ctrl.Service.Checkout(c.Context(), claims.AdminID, claims.UserID, params)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": sale})
}

func (ctrl *Controller) ListSales(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var since time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "since must be RFC3339"})
		}
		since = parsed
	}
	limit, _ := strconv.ParseInt(c.Query("limit", "100"), 10, 64)

	sales, err := ctrl.Service.ListSales(c.Context(), claims.AdminID, since, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": sales})
}

func (ctrl *Controller) DailySummaries(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	days, _ := strconv.Atoi(c.Query("days", "30"))
	summaries, err := ctrl.Service.DailySummaries(c.Context(), claims.AdminID, days)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": summaries})
}
