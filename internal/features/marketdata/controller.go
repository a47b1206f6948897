package marketdata

import (
	"bufio"
	"context"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/integration"
	"sellersync/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Controller struct {
	Service      Service
	Integrations integration.Service
	Logger       *zap.Logger
}

func NewController(service Service, integrations integration.Service, logger *zap.Logger) *Controller {
	return &Controller{
		Service:      service,
		Integrations: integrations,
		Logger:       logger,
	}
}

type streamRequest struct {
	IntegrationID string `json:"integrationId"`
	DataType      string `json:"dataType"`
	MaxPages      int    `json:"maxPages"`
	PageSize      int    `json:"pageSize"`
}

// loadScoped resolves and tenant-checks the integration named in the body.
func (ctrl *Controller) loadScoped(c *fiber.Ctx, req *streamRequest) (*integration.Integration, models.DataType, error) {
	if err := c.BodyParser(req); err != nil {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	dataType := models.DataType(req.DataType)
	if !dataType.Valid() {
		return nil, "", fiber.NewError(fiber.StatusBadRequest, "dataType must be products or sales")
	}

	integ, err := ctrl.Integrations.Get(c.Context(), req.IntegrationID)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusNotFound, "integration not found")
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		return nil, "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	if claims.Role != string(models.RoleSuperAdmin) && integ.AdminID != claims.AdminID {
		return nil, "", fiber.NewError(fiber.StatusForbidden, "integration belongs to another admin")
	}

	return integ, dataType, nil
}

// FixDuplicates streams a duplicate-removal pass as server-sent events.
// The stream always ends with a completed or error frame; HTTP status is
// 200 either way so event consumers can render the failure.
func (ctrl *Controller) FixDuplicates(c *fiber.Ctx) error {
	var req streamRequest
	integ, dataType, err := ctrl.loadScoped(c, &req)
	if err != nil {
		return err
	}

	integrationID := integ.ID.Hex()
	ctrl.setStreamHeaders(c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		emit := func(ev ProgressEvent) { WriteSSE(w, ev) }

		summary, err := ctrl.Service.RunCleanup(ctx, integrationID, dataType, emit)
		if err != nil {
			ctrl.Logger.Error("duplicate cleanup stream failed",
				zap.String("integration_id", integrationID),
				zap.Error(err))
			WriteSSE(w, ErrorEvent(err.Error()))
			return
		}
		WriteSSE(w, CompletedEvent(summary))
	})

	return nil
}

// FetchData streams a manual multi-page fetch with trailing dedup.
func (ctrl *Controller) FetchData(c *fiber.Ctx) error {
	var req streamRequest
	integ, dataType, err := ctrl.loadScoped(c, &req)
	if err != nil {
		return err
	}

	integrationID := integ.ID.Hex()
	creds := integration.Credentials(integ)
	maxPages, pageSize := req.MaxPages, req.PageSize
	ctrl.setStreamHeaders(c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		emit := func(ev ProgressEvent) { WriteSSE(w, ev) }

		summary, err := ctrl.Service.FetchAndStore(ctx, integrationID, creds, dataType, maxPages, pageSize, emit)
		if err != nil {
			ctrl.Logger.Error("manual fetch stream failed",
				zap.String("integration_id", integrationID),
				zap.Error(err))
			WriteSSE(w, ErrorEvent(err.Error()))
			return
		}
		WriteSSE(w, CompletedEvent(summary))
	})

	return nil
}

func (ctrl *Controller) setStreamHeaders(c *fiber.Ctx) {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
}
