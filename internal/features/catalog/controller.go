package catalog

import (
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

func (ctrl *Controller) Create(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	var item Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	item.AdminID = claims.AdminID
	item.Kind = Kind(c.Params("kind"))

	created, err := ctrl.Service.Create(c.Context(), &item)
	if err != nil {
		if err == ErrSlugTaken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func (ctrl *Controller) List(c *fiber.Ctx) error {
	claims, ok := middleware.Claims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	kind := Kind(c.Params("kind"))
	if !kind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid kind"})
	}
	items, err := ctrl.Service.List(c.Context(), claims.AdminID, kind)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "data": items})
}

func (ctrl *Controller) scoped(c *fiber.Ctx) (*Item, error) {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}
	item, err := ctrl.Service.Get(c.Context(), id)
	if err != nil || item.AdminID != claims.AdminID {
		return nil, fiber.NewError(fiber.StatusNotFound, "item not found")
	}
	return item, nil
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	item, err := ctrl.scoped(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": item})
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	item, err := ctrl.scoped(c)
	if err != nil {
		return err
	}
	var body Item
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := ctrl.Service.Update(c.Context(), item.ID, &body); err != nil {
		if err == ErrSlugTaken {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	item, err := ctrl.scoped(c)
	if err != nil {
		return err
	}
	if err := ctrl.Service.Delete(c.Context(), item.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true})
}
