package marketdata

import (
	"slices"
	"testing"
	"time"
)

func meta(docID, key string, fetchedAgo time.Duration) RecordMeta {
	return RecordMeta{
		DocID:      docID,
		NaturalKey: key,
		FetchedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC).Add(-fetchedAgo),
	}
}

func TestPlanDuplicateRemoval(t *testing.T) {
	tests := []struct {
		name          string
		metas         []RecordMeta
		wantDeletions []string
		wantKeyless   int
	}{
		{
			name: "Newest Survives",
			metas: []RecordMeta{
				meta("int1_O1_a", "O1", 2*time.Hour),
				meta("int1_O1_b", "O1", 0),
				meta("int1_O1_c", "O1", time.Hour),
			},
			wantDeletions: []string{"int1_O1_a", "int1_O1_c"},
		},
		{
			name: "Tie Broken By Smallest DocID",
			metas: []RecordMeta{
				meta("int1_T1_z", "T1", 0),
				meta("int1_T1_a", "T1", 0),
			},
			wantDeletions: []string{"int1_T1_z"},
		},
		{
			name: "Keyless Never Deleted",
			metas: []RecordMeta{
				meta("int1_nokey_1", "", 0),
				meta("int1_nokey_2", "", 0),
				meta("int1_nokey_3", "", time.Hour),
			},
			wantDeletions: nil,
			wantKeyless:   3,
		},
		{
			name: "Unique Keys Untouched",
			metas: []RecordMeta{
				meta("int1_A", "A", 0),
				meta("int1_B", "B", time.Hour),
			},
			wantDeletions: nil,
		},
		{
			name:          "Empty Input",
			metas:         nil,
			wantDeletions: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := planDuplicateRemoval(tt.metas)

			if !slices.Equal(plan.Deletions, tt.wantDeletions) {
				t.Errorf("Deletions = %v, want %v", plan.Deletions, tt.wantDeletions)
			}
			if plan.Keyless != tt.wantKeyless {
				t.Errorf("Keyless = %d, want %d", plan.Keyless, tt.wantKeyless)
			}
			if plan.Total != len(tt.metas) {
				t.Errorf("Total = %d, want %d", plan.Total, len(tt.metas))
			}

			// Conservation: deletions + survivors + keyless covers the input
			if len(plan.Deletions)+len(plan.SurvivorByKey)+plan.Keyless != plan.Total {
				t.Errorf("conservation broken: %d deleted + %d survivors + %d keyless != %d total",
					len(plan.Deletions), len(plan.SurvivorByKey), plan.Keyless, plan.Total)
			}
		})
	}
}

func TestPlanDuplicateRemovalDeterministic(t *testing.T) {
	// The §8 scenario: order O1 stored three times with distinct
	// timestamps among 150 sales records.
	var metas []RecordMeta
	for i := 0; i < 147; i++ {
		metas = append(metas, meta(
			"intX_S"+string(rune('a'+i%26))+string(rune('0'+i/26)),
			"S"+string(rune('a'+i%26))+string(rune('0'+i/26)),
			time.Duration(i)*time.Minute,
		))
	}
	metas = append(metas,
		meta("intX_O1_old", "O1", 3*time.Hour),
		meta("intX_O1_new", "O1", 0),
		meta("intX_O1_mid", "O1", time.Hour),
	)

	first := planDuplicateRemoval(metas)

	// Shuffle-equivalent: reversed scan order must give the same plan
	reversed := make([]RecordMeta, len(metas))
	for i, m := range metas {
		reversed[len(metas)-1-i] = m
	}
	second := planDuplicateRemoval(reversed)

	if !slices.Equal(first.Deletions, second.Deletions) {
		t.Errorf("plan depends on scan order: %v vs %v", first.Deletions, second.Deletions)
	}

	if survivor := first.SurvivorByKey["O1"]; survivor != "intX_O1_new" {
		t.Errorf("O1 survivor = %q, want the newest record", survivor)
	}
	if len(first.Deletions) != 2 {
		t.Errorf("duplicatesRemoved = %d, want 2", len(first.Deletions))
	}
	if first.Total-len(first.Deletions) != 148 {
		t.Errorf("records after cleanup = %d, want 148", first.Total-len(first.Deletions))
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]string, 1203)
	for i := range ids {
		ids[i] = "id"
	}

	chunks := chunkIDs(ids, 500)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	if len(chunks[0]) != 500 || len(chunks[1]) != 500 || len(chunks[2]) != 203 {
		t.Errorf("chunk sizes = %d/%d/%d, want 500/500/203", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}

	if got := chunkIDs(nil, 500); got != nil {
		t.Errorf("chunkIDs(nil) = %v, want nil", got)
	}
}
