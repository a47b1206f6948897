package runner

import (
	"time"

	"sellersync/internal/common/models"
)

type PolicyKind string

const (
	KindSync    PolicyKind = "sync"
	KindDedup   PolicyKind = "dedup"
	KindCleanup PolicyKind = "cleanup"
)

// SyncPolicy is one named schedule: what to sync, how hard, and how
// politely. Every cron cadence the back office runs is a policy instance
// of the same runner instead of its own handler.
type SyncPolicy struct {
	Label         string
	Kind          PolicyKind
	Schedule      string
	DataTypes     []models.DataType
	MaxPages      int
	PagesPerChunk int
	PageSize      int
	BatchSize     int
	BatchDelay    time.Duration
	// Window limits sales pulls to records newer than now-Window; zero
	// means no date filter.
	Window time.Duration
}

// DefaultPolicies mirrors the schedules the back office has always run:
// a fast product tick, hourly sales, nightly and weekly deep pulls, a
// six-month backfill, plus the dedup sweep and job-store cleanup.
func DefaultPolicies() []SyncPolicy {
	return []SyncPolicy{
		{
			Label:         "products-10min",
			Kind:          KindSync,
			Schedule:      "*/10 * * * *",
			DataTypes:     []models.DataType{models.DataTypeProducts},
			PagesPerChunk: 3,
			PageSize:      100,
			BatchSize:     3,
			BatchDelay:    2 * time.Second,
		},
		{
			Label:         "sales-hourly",
			Kind:          KindSync,
			Schedule:      "0 * * * *",
			DataTypes:     []models.DataType{models.DataTypeSales},
			MaxPages:      100,
			PagesPerChunk: 5,
			PageSize:      100,
			BatchSize:     2,
			BatchDelay:    5 * time.Second,
			Window:        30 * 24 * time.Hour,
		},
		{
			Label:         "products-nightly",
			Kind:          KindSync,
			Schedule:      "0 2 * * *",
			DataTypes:     []models.DataType{models.DataTypeProducts},
			PagesPerChunk: 20,
			PageSize:      100,
			BatchSize:     2,
			BatchDelay:    10 * time.Second,
		},
		{
			Label:         "sales-weekly-deep",
			Kind:          KindSync,
			Schedule:      "0 3 * * 0",
			DataTypes:     []models.DataType{models.DataTypeSales},
			MaxPages:      500,
			PagesPerChunk: 10,
			PageSize:      100,
			BatchSize:     2,
			BatchDelay:    15 * time.Second,
			Window:        90 * 24 * time.Hour,
		},
		{
			Label:         "sales-backfill-180d",
			Kind:          KindSync,
			Schedule:      "0 4 1 */6 *",
			DataTypes:     []models.DataType{models.DataTypeSales},
			MaxPages:      2000,
			PagesPerChunk: 10,
			PageSize:      100,
			BatchSize:     1,
			BatchDelay:    30 * time.Second,
			Window:        180 * 24 * time.Hour,
		},
		{
			Label:      "dedup-nightly",
			Kind:       KindDedup,
			Schedule:   "30 2 * * *",
			DataTypes:  []models.DataType{models.DataTypeProducts, models.DataTypeSales},
			BatchSize:  2,
			BatchDelay: 5 * time.Second,
		},
		{
			Label:    "jobs-cleanup",
			Kind:     KindCleanup,
			Schedule: "0 5 * * *",
		},
	}
}

// dateFilter renders a policy window into the seller API's filter params.
func (p SyncPolicy) dateFilter(now time.Time) map[string]string {
	if p.Window <= 0 {
		return nil
	}
	return map[string]string{
		"start_date": now.Add(-p.Window).Format("2006-01-02"),
	}
}

// batchRanges splits n integrations into [start, end) index pairs of at
// most size each; a non-positive size means one batch.
func batchRanges(n, size int) [][2]int {
	if n <= 0 {
		return nil
	}
	if size <= 0 {
		size = n
	}
	var ranges [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}
