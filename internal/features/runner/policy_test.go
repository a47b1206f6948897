package runner

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func TestBatchRanges(t *testing.T) {
	tests := []struct {
		name string
		n    int
		size int
		want [][2]int
	}{
		{
			name: "Even Split",
			n:    6,
			size: 3,
			want: [][2]int{{0, 3}, {3, 6}},
		},
		{
			name: "Remainder Batch",
			n:    7,
			size: 3,
			want: [][2]int{{0, 3}, {3, 6}, {6, 7}},
		},
		{
			name: "Fewer Than Batch Size",
			n:    2,
			size: 3,
			want: [][2]int{{0, 2}},
		},
		{
			name: "Zero Integrations",
			n:    0,
			size: 3,
			want: nil,
		},
		{
			name: "Unbounded Size",
			n:    4,
			size: 0,
			want: [][2]int{{0, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := batchRanges(tt.n, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("batchRanges() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("batch %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDefaultPolicySchedulesParse(t *testing.T) {
	for _, policy := range DefaultPolicies() {
		if _, err := cron.ParseStandard(policy.Schedule); err != nil {
			t.Errorf("policy %s has invalid schedule %q: %v", policy.Label, policy.Schedule, err)
		}
	}
}

func TestDefaultPolicyLabelsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, policy := range DefaultPolicies() {
		if seen[policy.Label] {
			t.Errorf("duplicate policy label %q", policy.Label)
		}
		seen[policy.Label] = true
	}
}

func TestDateFilter(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

	p := SyncPolicy{Window: 30 * 24 * time.Hour}
	filter := p.dateFilter(now)
	if filter["start_date"] != "2025-05-31" {
		t.Errorf("start_date = %q, want 2025-05-31", filter["start_date"])
	}

	if got := (SyncPolicy{}).dateFilter(now); got != nil {
		t.Errorf("no-window policy produced filter %v", got)
	}
}
