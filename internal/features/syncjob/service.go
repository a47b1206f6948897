package syncjob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/takealot"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PageFetcher is the slice of the seller API client the job store needs.
// Satisfied by takealot.Client; faked in tests.
type PageFetcher interface {
	FetchPage(ctx context.Context, creds takealot.Credentials, dataType models.DataType, page, pageSize int, filters map[string]string) ([]map[string]interface{}, error)
}

// RecordSink persists fetched pages. Satisfied by marketdata.Service.
type RecordSink interface {
	SaveRecords(ctx context.Context, integrationID string, dataType models.DataType, records []map[string]interface{}) (int, error)
}

type Service interface {
	CreateOrResume(ctx context.Context, params CreateParams) (*ResumeResult, error)
	ProcessChunk(ctx context.Context, jobID string) (*ChunkResult, error)
	ActiveJobs(ctx context.Context) ([]SyncJob, error)
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

type ServiceImpl struct {
	Repo         Repository
	Fetcher      PageFetcher
	Sink         RecordSink
	Integrations integration.Service
	Logger       *zap.Logger

	leaseTTL time.Duration
}

func NewService(repo Repository, fetcher PageFetcher, sink RecordSink, integrations integration.Service, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:         repo,
		Fetcher:      fetcher,
		Sink:         sink,
		Integrations: integrations,
		Logger:       logger,
		leaseTTL:     5 * time.Minute,
	}
}

// CreateOrResume finds the incomplete job for the (integration, dataType,
// label) tuple or creates a fresh one at page 1. A completed job does not
// block future runs: labels are periodic, so the next tick after completion
// starts over.
func (s *ServiceImpl) CreateOrResume(ctx context.Context, params CreateParams) (*ResumeResult, error) {
	if !params.DataType.Valid() {
		return nil, fmt.Errorf("invalid data type %q", params.DataType)
	}
	if params.PageSize <= 0 {
		params.PageSize = 100
	}
	if params.PagesPerChunk <= 0 {
		params.PagesPerChunk = 5
	}

	existing, err := s.Repo.FindIncomplete(ctx, params.IntegrationID, params.DataType, params.CronLabel)
	if err == nil {
		shouldProcess := true
		if existing.MaxPages > 0 && existing.CurrentPage > existing.MaxPages {
			shouldProcess = false
		}
		return &ResumeResult{
			JobID:         existing.JobID,
			ShouldProcess: shouldProcess,
			CurrentPage:   existing.CurrentPage,
			Resumed:       true,
		}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	job := &SyncJob{
		JobID:         uuid.NewString(),
		AdminID:       params.AdminID,
		IntegrationID: params.IntegrationID,
		DataType:      params.DataType,
		CronLabel:     params.CronLabel,
		CurrentPage:   1,
		PageSize:      params.PageSize,
		PagesPerChunk: params.PagesPerChunk,
		MaxPages:      params.MaxPages,
		DateFilter:    params.DateFilter,
	}
	if err := s.Repo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create sync job: %w", err)
	}

	s.Logger.Info("sync job created",
		zap.String("job_id", job.JobID),
		zap.String("integration_id", job.IntegrationID),
		zap.String("data_type", string(job.DataType)),
		zap.String("label", job.CronLabel))

	return &ResumeResult{JobID: job.JobID, ShouldProcess: true, CurrentPage: 1}, nil
}

// ProcessChunk advances one job by up to PagesPerChunk pages. The chunk is
// lease-guarded: a concurrent invocation that loses the race gets a result
// with LeaseHeld set and does no work. Termination per invocation is
// bounded by PagesPerChunk; across invocations the job terminates when the
// API returns a short page or MaxPages is reached.
func (s *ServiceImpl) ProcessChunk(ctx context.Context, jobID string) (*ChunkResult, error) {
	job, err := s.Repo.AcquireLease(ctx, jobID, s.leaseTTL)
	if errors.Is(err, ErrLeaseHeld) {
		return &ChunkResult{JobID: jobID, LeaseHeld: true}, nil
	}
	if err != nil {
		return nil, err
	}

	integ, err := s.Integrations.Get(ctx, job.IntegrationID)
	if err != nil {
		s.fail(ctx, job, fmt.Sprintf("integration lookup: %v", err))
		return nil, fmt.Errorf("integration %s: %w", job.IntegrationID, err)
	}
	creds := integration.Credentials(integ)

	result := &ChunkResult{JobID: job.JobID}

	for i := 0; i < job.PagesPerChunk; i++ {
		if job.MaxPages > 0 && job.CurrentPage > job.MaxPages {
			result.Completed = s.complete(ctx, job)
			return result, nil
		}

		records, err := s.Fetcher.FetchPage(ctx, creds, job.DataType, job.CurrentPage, job.PageSize, job.DateFilter)
		if err != nil {
			// Pages already written stay; the job is parked as failed and a
			// later CreateOrResume starts a new one.
			result.Errors++
			s.fail(ctx, job, err.Error())
			return result, fmt.Errorf("page %d: %w", job.CurrentPage, err)
		}

		saved := 0
		if len(records) > 0 {
			saved, err = s.Sink.SaveRecords(ctx, job.IntegrationID, job.DataType, records)
			if err != nil {
				result.Errors++
				s.fail(ctx, job, err.Error())
				return result, fmt.Errorf("save page %d: %w", job.CurrentPage, err)
			}
		}

		result.PagesProcessed++
		result.ItemsProcessed += len(records)
		result.ItemsSaved += saved

		shortPage := len(records) < job.PageSize

		advanced, err := s.Repo.AdvanceProgress(ctx, job.JobID, job.Version, job.CurrentPage+1, len(records), 0)
		if errors.Is(err, ErrStaleVersion) {
			// Someone else took the job over mid-chunk; stop quietly.
			result.LeaseHeld = true
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("advance job %s: %w", job.JobID, err)
		}
		job = advanced

		if shortPage {
			result.Completed = s.complete(ctx, job)
			return result, nil
		}
	}

	return result, nil
}

func (s *ServiceImpl) complete(ctx context.Context, job *SyncJob) bool {
	if err := s.Repo.Finish(ctx, job.JobID, job.Version, StatusCompleted, ""); err != nil {
		s.Logger.Warn("failed to mark sync job complete",
			zap.String("job_id", job.JobID), zap.Error(err))
		return false
	}

	if err := s.Integrations.TouchLastSync(ctx, job.IntegrationID, job.DataType); err != nil {
		s.Logger.Warn("failed to update integration last sync",
			zap.String("integration_id", job.IntegrationID), zap.Error(err))
	}

	s.Logger.Info("sync job completed",
		zap.String("job_id", job.JobID),
		zap.String("integration_id", job.IntegrationID),
		zap.Int("pages", job.CurrentPage-1),
		zap.Int("items", job.TotalItems))
	return true
}

func (s *ServiceImpl) fail(ctx context.Context, job *SyncJob, msg string) {
	if err := s.Repo.Finish(ctx, job.JobID, job.Version, StatusFailed, msg); err != nil {
		s.Logger.Warn("failed to mark sync job failed",
			zap.String("job_id", job.JobID), zap.Error(err))
	}
}

func (s *ServiceImpl) ActiveJobs(ctx context.Context) ([]SyncJob, error) {
	return s.Repo.ListActive(ctx)
}

func (s *ServiceImpl) CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed, err := s.Repo.DeleteFinishedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.Logger.Info("cleaned up old sync jobs",
			zap.Int64("removed", removed),
			zap.Int("retention_days", retentionDays))
	}
	return removed, nil
}
