package marketdata

import "time"

// RecordMeta is the projection the duplicate manager works on: one entry per
// stored document, cheap enough to hold an integration's whole collection
// in memory for planning.
type RecordMeta struct {
	DocID      string    `bson:"_id"`
	NaturalKey string    `bson:"natural_key"`
	FetchedAt  time.Time `bson:"fetched_at"`
}

// DedupPlan is the outcome of grouping an integration's records by natural
// key. Deletions lists every document that loses its group; survivors stay
// untouched.
type DedupPlan struct {
	Total         int
	Keyless       int
	Groups        int
	Deletions     []string
	SurvivorByKey map[string]string
}

// DedupSummary is what a cleanup pass reports once the deletes have run.
type DedupSummary struct {
	Total             int `json:"total_records"`
	DuplicatesRemoved int `json:"duplicates_removed"`
	UniqueRemaining   int `json:"unique_records_remaining"`
	Keyless           int `json:"records_without_key"`
	FailedBatches     int `json:"failed_batches"`
}

// FetchSummary reports a manual multi-page fetch.
type FetchSummary struct {
	PagesFetched int          `json:"pages_fetched"`
	ItemsSaved   int          `json:"items_saved"`
	Dedup        DedupSummary `json:"dedup"`
}
