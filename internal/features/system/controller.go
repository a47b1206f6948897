package system

import (
	"context"
	"encoding/json"
	"time"

	"sellersync/internal/database"
	"sellersync/internal/features/logs"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Controller struct {
	DB     *database.MongodbDB
	Logs   logs.Service
	Logger *zap.Logger
}

func NewController(db *database.MongodbDB, logsService logs.Service, logger *zap.Logger) *Controller {
	return &Controller{DB: db, Logs: logsService, Logger: logger}
}

func (ctrl *Controller) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	mongoStatus := "ok"
	if err := ctrl.DB.DB.Client().Ping(ctx, nil); err != nil {
		mongoStatus = "unreachable"
	}

	status := fiber.StatusOK
	if mongoStatus != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(fiber.Map{
		"status": mongoStatus,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// TailExecutions streams finished cron executions to the client as
// they happen. The connection stays open until the client goes away.
func (ctrl *Controller) TailExecutions(c *websocket.Conn) {
	events, cancel := ctrl.Logs.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
