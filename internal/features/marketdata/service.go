package marketdata

import (
	"context"
	"fmt"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/takealot"

	"go.uber.org/zap"
)

const deleteBatchSize = 500

type Service interface {
	SaveRecords(ctx context.Context, integrationID string, dataType models.DataType, records []map[string]interface{}) (int, error)
	RunCleanup(ctx context.Context, integrationID string, dataType models.DataType, emit func(ProgressEvent)) (*DedupSummary, error)
	FetchAndStore(ctx context.Context, integrationID string, creds takealot.Credentials, dataType models.DataType, maxPages, pageSize int, emit func(ProgressEvent)) (*FetchSummary, error)
	Count(ctx context.Context, dataType models.DataType, integrationID string) (int64, error)
	List(ctx context.Context, dataType models.DataType, integrationID string, limit, offset int64) ([]map[string]interface{}, error)
	CountSince(ctx context.Context, dataType models.DataType, integrationID string, since time.Time) (int64, error)
}

type ServiceImpl struct {
	Repo   Repository
	Client takealot.Client
	Logger *zap.Logger

	pageDelay time.Duration
}

func NewService(repo Repository, client takealot.Client, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:      repo,
		Client:    client,
		Logger:    logger,
		pageDelay: time.Second,
	}
}

// SaveRecords upserts one page worth of raw marketplace records. Returns
// how many were written; individual write failures are logged and skipped
// so one bad document does not sink the page.
func (s *ServiceImpl) SaveRecords(ctx context.Context, integrationID string, dataType models.DataType, records []map[string]interface{}) (int, error) {
	saved := 0
	for _, record := range records {
		key := NaturalKey(dataType, record)
		docID := DocID(integrationID, key)

		if err := s.Repo.Upsert(ctx, dataType, docID, integrationID, key, record); err != nil {
			s.Logger.Error("failed to upsert record",
				zap.String("integration_id", integrationID),
				zap.String("data_type", string(dataType)),
				zap.String("doc_id", docID),
				zap.Error(err))
			continue
		}
		saved++
	}

	if saved == 0 && len(records) > 0 {
		return 0, fmt.Errorf("all %d records failed to persist", len(records))
	}
	return saved, nil
}

// RunCleanup performs one duplicate-removal pass over an integration's
// records. The emit callback receives progress events; pass nil when no
// one is listening.
func (s *ServiceImpl) RunCleanup(ctx context.Context, integrationID string, dataType models.DataType, emit func(ProgressEvent)) (*DedupSummary, error) {
	if emit == nil {
		emit = func(ProgressEvent) {}
	}

	metas, err := s.Repo.ListMetas(ctx, dataType, integrationID)
	if err != nil {
		return nil, fmt.Errorf("scan %s for %s: %w", dataType, integrationID, err)
	}
	emit(ScanningEvent(len(metas)))

	plan := planDuplicateRemoval(metas)

	summary := &DedupSummary{
		Total:   plan.Total,
		Keyless: plan.Keyless,
	}

	remaining := len(plan.Deletions)
	for _, batch := range chunkIDs(plan.Deletions, deleteBatchSize) {
		deleted, err := s.Repo.DeleteByIDs(ctx, dataType, batch)
		if err != nil {
			// Count the failure and keep going; the next sweep picks up
			// whatever this batch left behind.
			summary.FailedBatches++
			s.Logger.Error("duplicate delete batch failed",
				zap.String("integration_id", integrationID),
				zap.String("data_type", string(dataType)),
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			remaining -= len(batch)
			continue
		}
		summary.DuplicatesRemoved += int(deleted)
		remaining -= len(batch)
		emit(BatchEvent(summary.DuplicatesRemoved, remaining))
	}

	summary.UniqueRemaining = summary.Total - summary.DuplicatesRemoved

	s.Logger.Info("duplicate cleanup finished",
		zap.String("integration_id", integrationID),
		zap.String("data_type", string(dataType)),
		zap.Int("total", summary.Total),
		zap.Int("removed", summary.DuplicatesRemoved),
		zap.Int("keyless", summary.Keyless),
		zap.Int("failed_batches", summary.FailedBatches))

	return summary, nil
}

// FetchAndStore pulls pages from the seller API until a short page, an
// error, or maxPages, persisting as it goes, then runs a cleanup pass.
// This is the manual "fetch now" path; scheduled syncs go through the
// resumable job store instead.
func (s *ServiceImpl) FetchAndStore(ctx context.Context, integrationID string, creds takealot.Credentials, dataType models.DataType, maxPages, pageSize int, emit func(ProgressEvent)) (*FetchSummary, error) {
	if emit == nil {
		emit = func(ProgressEvent) {}
	}
	if pageSize <= 0 {
		pageSize = 100
	}
	if maxPages <= 0 {
		maxPages = 50
	}

	summary := &FetchSummary{}
	for page := 1; page <= maxPages; page++ {
		records, err := s.Client.FetchPage(ctx, creds, dataType, page, pageSize, nil)
		if err != nil {
			return summary, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if len(records) == 0 {
			break
		}

		saved, err := s.SaveRecords(ctx, integrationID, dataType, records)
		if err != nil {
			return summary, fmt.Errorf("save page %d: %w", page, err)
		}

		summary.PagesFetched++
		summary.ItemsSaved += saved
		emit(PageEvent(page, saved))

		if len(records) < pageSize {
			break
		}

		select {
		case <-time.After(s.pageDelay):
		case <-ctx.Done():
			return summary, ctx.Err()
		}
	}

	dedup, err := s.RunCleanup(ctx, integrationID, dataType, emit)
	if err != nil {
		return summary, err
	}
	summary.Dedup = *dedup

	return summary, nil
}

func (s *ServiceImpl) Count(ctx context.Context, dataType models.DataType, integrationID string) (int64, error) {
	return s.Repo.Count(ctx, dataType, integrationID)
}

func (s *ServiceImpl) List(ctx context.Context, dataType models.DataType, integrationID string, limit, offset int64) ([]map[string]interface{}, error) {
	return s.Repo.List(ctx, dataType, integrationID, limit, offset)
}

func (s *ServiceImpl) CountSince(ctx context.Context, dataType models.DataType, integrationID string, since time.Time) (int64, error) {
	return s.Repo.CountSince(ctx, dataType, integrationID, since)
}
