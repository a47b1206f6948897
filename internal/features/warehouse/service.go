package warehouse

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/config"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/marketdata"

	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("warehouse DSN not configured")

// MirrorResult reports one mirror run into the Postgres warehouse.
type MirrorResult struct {
	IntegrationID string          `json:"integration_id"`
	DataType      models.DataType `json:"data_type"`
	RowsWritten   int             `json:"rows_written"`
	RowsSkipped   int             `json:"rows_skipped"`
	Duration      string          `json:"duration"`
}

type Service interface {
	Mirror(ctx context.Context, adminID, integrationID string, dataType models.DataType) (*MirrorResult, error)
	Ping(ctx context.Context) error
}

type ServiceImpl struct {
	DSN          string
	MarketData   marketdata.Service
	Integrations integration.Service
	Logger       *zap.Logger
}

func NewService(cfg *config.Config, md marketdata.Service, integrations integration.Service, logger *zap.Logger) Service {
	return &ServiceImpl{
		DSN:          cfg.WarehouseDSN,
		MarketData:   md,
		Integrations: integrations,
		Logger:       logger,
	}
}

func (s *ServiceImpl) open(ctx context.Context) (*sql.DB, error) {
	if s.DSN == "" {
		return nil, ErrNotConfigured
	}
	db, err := sql.Open("postgres", s.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping warehouse: %w", err)
	}
	return db, nil
}

func (s *ServiceImpl) Ping(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	return db.Close()
}

func tableFor(dataType models.DataType) string {
	if dataType == models.DataTypeSales {
		return "takealot_sales_mirror"
	}
	return "takealot_offers_mirror"
}

func ensureTable(ctx context.Context, db *sql.DB, table string) error {
	_, err := db.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		integration_id TEXT NOT NULL,
		natural_key TEXT,
		fetched_at TIMESTAMPTZ,
		payload JSONB NOT NULL,
		mirrored_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, table))
	return err
}

const mirrorPageSize = 1000

// Mirror copies every stored record for one integration and data type
// into the warehouse, upserting on the record id.
func (s *ServiceImpl) Mirror(ctx context.Context, adminID, integrationID string, dataType models.DataType) (*MirrorResult, error) {
	integ, err := s.Integrations.Get(ctx, integrationID)
	if err != nil || integ.AdminID != adminID {
		return nil, errors.New("integration not found")
	}

	db, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	table := tableFor(dataType)
	if err := ensureTable(ctx, db, table); err != nil {
		return nil, fmt.Errorf("failed to prepare warehouse table: %w", err)
	}

	upsert := fmt.Sprintf(`INSERT INTO %s (id, integration_id, natural_key, fetched_at, payload, mirrored_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			natural_key = $3, fetched_at = $4, payload = $5, mirrored_at = now()`, table)

	start := time.Now()
	result := &MirrorResult{IntegrationID: integrationID, DataType: dataType}

	for offset := int64(0); ; offset += mirrorPageSize {
		rows, err := s.MarketData.List(ctx, dataType, integrationID, mirrorPageSize, offset)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			id, _ := row["_id"].(string)
			if id == "" {
				result.RowsSkipped++
				continue
			}
			naturalKey, _ := row["natural_key"].(string)
			fetchedAt := timeField(row["fetched_at"])

			payload, err := json.Marshal(sanitize(row))
			if err != nil {
				result.RowsSkipped++
				continue
			}
			if _, err := db.ExecContext(ctx, upsert, id, integrationID, naturalKey, fetchedAt, payload); err != nil {
				s.Logger.Warn("warehouse upsert failed",
					zap.String("integration_id", integrationID),
					zap.String("record_id", id),
					zap.Error(err))
				result.RowsSkipped++
				continue
			}
			result.RowsWritten++
		}
		if len(rows) < mirrorPageSize {
			break
		}
	}

	result.Duration = time.Since(start).Round(time.Millisecond).String()
	s.Logger.Info("warehouse mirror finished",
		zap.String("admin_id", adminID),
		zap.String("integration_id", integrationID),
		zap.String("data_type", string(dataType)),
		zap.Int("rows_written", result.RowsWritten),
		zap.Int("rows_skipped", result.RowsSkipped))
	return result, nil
}

func timeField(val interface{}) interface{} {
	switch v := val.(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	default:
		return nil
	}
}

// sanitize converts BSON-specific values into JSON-friendly ones so
// the payload column round-trips cleanly.
func sanitize(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		switch tv := v.(type) {
		case primitive.DateTime:
			out[k] = tv.Time().Format(time.RFC3339)
		case primitive.ObjectID:
			out[k] = tv.Hex()
		default:
			out[k] = v
		}
	}
	return out
}
