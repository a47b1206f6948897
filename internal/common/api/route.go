package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's API struct so main can
// register them all through a single fx group.
type Route interface {
	Setup(app *fiber.App)
}
