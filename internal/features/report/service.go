package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/marketdata"
	"sellersync/internal/features/syncjob"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Dashboard is the landing-page snapshot for one tenant.
type Dashboard struct {
	Integrations int               `json:"integrations"`
	Offers       int64             `json:"offers"`
	Sales        int64             `json:"sales"`
	SalesLast7d  int64             `json:"sales_last_7d"`
	ActiveJobs   int               `json:"active_jobs"`
	LastSyncs    map[string]string `json:"last_syncs"`
}

type Service interface {
	Export(ctx context.Context, adminID, integrationID string, dataType models.DataType, format string) ([]byte, string, error)
	Dashboard(ctx context.Context, adminID string) (*Dashboard, error)
}

type ServiceImpl struct {
	MarketData   marketdata.Service
	Integrations integration.Service
	Jobs         syncjob.Service
	Logger       *zap.Logger
}

func NewService(md marketdata.Service, integrations integration.Service, jobs syncjob.Service, logger *zap.Logger) Service {
	return &ServiceImpl{MarketData: md, Integrations: integrations, Jobs: jobs, Logger: logger}
}

const exportPageSize = 1000

func (s *ServiceImpl) Export(ctx context.Context, adminID, integrationID string, dataType models.DataType, format string) ([]byte, string, error) {
	integ, err := s.Integrations.Get(ctx, integrationID)
	if err != nil || integ.AdminID != adminID {
		return nil, "", fmt.Errorf("integration not found")
	}

	var rows []map[string]interface{}
	for offset := int64(0); ; offset += exportPageSize {
		page, err := s.MarketData.List(ctx, dataType, integrationID, exportPageSize, offset)
		if err != nil {
			return nil, "", err
		}
		rows = append(rows, page...)
		if len(page) < exportPageSize {
			break
		}
	}

	columns := columnsFor(dataType, rows)
	filename := fmt.Sprintf("%s_%s_%s", integ.AccountName, dataType, time.Now().Format("2006-01-02"))

	switch strings.ToLower(format) {
	case "csv":
		return exportCSV(rows, columns, filename)
	case "", "xlsx":
		return exportExcel(rows, columns, filename)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

// columnsFor puts the well-known marketplace fields first and appends
// any remaining keys alphabetically so exports stay stable.
func columnsFor(dataType models.DataType, rows []map[string]interface{}) []string {
	var preferred []string
	if dataType == models.DataTypeSales {
		preferred = []string{"order_id", "order_item_id", "sale_id", "order_date", "sale_status", "product_title", "quantity", "selling_price"}
	} else {
		preferred = []string{"offer_id", "tsin_id", "sku", "title", "status", "selling_price", "stock_at_takealot_total"}
	}

	seen := map[string]bool{"_id": true, "natural_key": true, "fetched_at": true, "first_seen_at": true, "integration_id": true}
	var columns []string
	for _, col := range preferred {
		seen[col] = true
		columns = append(columns, col)
	}
	extra := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			if !seen[k] && !extra[k] {
				extra[k] = true
			}
		}
	}
	rest := make([]string, 0, len(extra))
	for k := range extra {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func cellString(val interface{}) interface{} {
	switch v := val.(type) {
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case primitive.DateTime:
		return v.Time().Format("2006-01-02 15:04:05")
	case primitive.ObjectID:
		return v.Hex()
	case map[string]interface{}:
		return fmt.Sprintf("%v", v)
	case nil:
		return ""
	default:
		return v
	}
}

func exportExcel(rows []map[string]interface{}, columns []string, filename string) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Export"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, cellString(row[col]))
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}
	return buffer.Bytes(), filename + ".xlsx", nil
}

func exportCSV(rows []map[string]interface{}, columns []string, filename string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(columns); err != nil {
		return nil, "", err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, col := range columns {
			record[i] = fmt.Sprintf("%v", cellString(row[col]))
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), filename + ".csv", nil
}

func (s *ServiceImpl) Dashboard(ctx context.Context, adminID string) (*Dashboard, error) {
	integrations, err := s.Integrations.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{
		Integrations: len(integrations),
		LastSyncs:    map[string]string{},
	}
	weekAgo := time.Now().AddDate(0, 0, -7)

	for _, integ := range integrations {
		id := integ.ID.Hex()
		offers, err := s.MarketData.Count(ctx, models.DataTypeProducts, id)
		if err != nil {
			return nil, err
		}
		sales, err := s.MarketData.Count(ctx, models.DataTypeSales, id)
		if err != nil {
			return nil, err
		}
		recent, err := s.MarketData.CountSince(ctx, models.DataTypeSales, id, weekAgo)
		if err != nil {
			return nil, err
		}
		dash.Offers += offers
		dash.Sales += sales
		dash.SalesLast7d += recent

		if integ.LastProductSync != nil {
			dash.LastSyncs[integ.AccountName+"/products"] = integ.LastProductSync.Format(time.RFC3339)
		}
		if integ.LastSalesSync != nil {
			dash.LastSyncs[integ.AccountName+"/sales"] = integ.LastSalesSync.Format(time.RFC3339)
		}
	}

	active, err := s.Jobs.ActiveJobs(ctx)
	if err != nil {
		return nil, err
	}
	for _, job := range active {
		if job.AdminID == adminID {
			dash.ActiveJobs++
		}
	}
	return dash, nil
}
