package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"sellersync/internal/common/models"
)

func TestColumnsForPutsKnownFieldsFirst(t *testing.T) {
	rows := []map[string]interface{}{
		{"zzz_custom": 1, "sku": "ABC", "title": "Mug", "aaa_extra": true},
		{"sku": "DEF", "leadtime_days": 3},
	}

	columns := columnsFor(models.DataTypeProducts, rows)

	if columns[0] != "offer_id" {
		t.Errorf("first column = %q, want offer_id", columns[0])
	}

	idx := map[string]int{}
	for i, c := range columns {
		idx[c] = i
	}
	if idx["aaa_extra"] >= idx["leadtime_days"] || idx["leadtime_days"] >= idx["zzz_custom"] {
		t.Errorf("extra columns not alphabetical: %v", columns)
	}
	if idx["sku"] >= idx["aaa_extra"] {
		t.Errorf("known column sku sorted after extras: %v", columns)
	}

	// Internal bookkeeping fields never leak into exports.
	for _, hidden := range []string{"_id", "natural_key", "fetched_at"} {
		if _, ok := idx[hidden]; ok {
			t.Errorf("column %q should be hidden", hidden)
		}
	}
}

func TestColumnsForSales(t *testing.T) {
	columns := columnsFor(models.DataTypeSales, nil)
	if columns[0] != "order_id" {
		t.Errorf("first sales column = %q, want order_id", columns[0])
	}
}

func TestExportCSV(t *testing.T) {
	rows := []map[string]interface{}{
		{"sku": "ABC-1", "title": "Red Mug", "qty": 7},
		{"sku": "DEF-2", "title": "Blue, \"large\" Cap"},
	}
	data, filename, err := exportCSV(rows, []string{"sku", "title", "qty"}, "demo_products")
	if err != nil {
		t.Fatalf("exportCSV: %v", err)
	}
	if filename != "demo_products.csv" {
		t.Errorf("filename = %q", filename)
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("re-parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d rows, want 3", len(records))
	}
	if strings.Join(records[0], "|") != "sku|title|qty" {
		t.Errorf("header = %v", records[0])
	}
	if records[1][2] != "7" {
		t.Errorf("qty cell = %q, want 7", records[1][2])
	}
	if records[2][1] != `Blue, "large" Cap` {
		t.Errorf("quoted cell mangled: %q", records[2][1])
	}
	if records[2][2] != "" {
		t.Errorf("missing value should export empty, got %q", records[2][2])
	}
}
