package syncjob

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/takealot"

	"go.uber.org/zap"
)

// ---- in-memory fakes ----

type fakeRepo struct {
	mu   sync.Mutex
	jobs map[string]*SyncJob
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{jobs: make(map[string]*SyncJob)}
}

func (r *fakeRepo) Create(ctx context.Context, job *SyncJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job.Status = StatusRunning
	job.Version = 1
	job.CreatedAt = time.Now()
	copied := *job
	r.jobs[job.JobID] = &copied
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, jobID string) (*SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeRepo) FindIncomplete(ctx context.Context, integrationID string, dataType models.DataType, label string) (*SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, job := range r.jobs {
		if job.IntegrationID == integrationID && job.DataType == dataType && job.CronLabel == label && job.Status == StatusRunning {
			copied := *job
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) AcquireLease(ctx context.Context, jobID string, ttl time.Duration) (*SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	if job.Status != StatusRunning {
		return nil, ErrNotFound
	}
	if job.LeaseUntil.After(time.Now()) {
		return nil, ErrLeaseHeld
	}
	job.LeaseUntil = time.Now().Add(ttl)
	job.Version++
	copied := *job
	return &copied, nil
}

func (r *fakeRepo) AdvanceProgress(ctx context.Context, jobID string, version int64, newPage, items, errCount int) (*SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Version != version || job.Status != StatusRunning {
		return nil, ErrStaleVersion
	}
	job.CurrentPage = newPage
	job.TotalItems += items
	job.TotalErrors += errCount
	job.Version++
	copied := *job
	return &copied, nil
}

func (r *fakeRepo) Finish(ctx context.Context, jobID string, version int64, status string, errMsg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok || job.Version != version || job.Status != StatusRunning {
		return ErrStaleVersion
	}
	job.Status = status
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
	job.Version++
	return nil
}

func (r *fakeRepo) ListActive(ctx context.Context) ([]SyncJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []SyncJob
	for _, job := range r.jobs {
		if job.Status == StatusRunning {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteFinishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed int64
	for id, job := range r.jobs {
		if job.Status != StatusRunning && job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
			delete(r.jobs, id)
			removed++
		}
	}
	return removed, nil
}

func (r *fakeRepo) EnsureIndexes(ctx context.Context) error { return nil }

// fakeFetcher serves a fixed number of full pages followed by one short page.
type fakeFetcher struct {
	fullPages int
	pageSize  int
	lastShort int // records on the final short page
	failPage  int // fetch error on this page, 0 disables
	calls     []int
}

func (f *fakeFetcher) FetchPage(ctx context.Context, creds takealot.Credentials, dataType models.DataType, page, pageSize int, filters map[string]string) ([]map[string]interface{}, error) {
	f.calls = append(f.calls, page)
	if f.failPage != 0 && page == f.failPage {
		return nil, errors.New("upstream exploded")
	}

	count := f.lastShort
	if page <= f.fullPages {
		count = f.pageSize
	} else if page > f.fullPages+1 {
		count = 0
	}

	records := make([]map[string]interface{}, count)
	for i := range records {
		records[i] = map[string]interface{}{"tsin_id": float64(page*1000 + i)}
	}
	return records, nil
}

type fakeSink struct {
	saved int
}

func (s *fakeSink) SaveRecords(ctx context.Context, integrationID string, dataType models.DataType, records []map[string]interface{}) (int, error) {
	s.saved += len(records)
	return len(records), nil
}

// stubIntegrations only supports Get and TouchLastSync.
type stubIntegrations struct {
	integ *integration.Integration
}

func (s *stubIntegrations) Create(ctx context.Context, integ *integration.Integration) error {
	return nil
}
func (s *stubIntegrations) Get(ctx context.Context, id string) (*integration.Integration, error) {
	if s.integ == nil {
		return nil, fmt.Errorf("not found")
	}
	return s.integ, nil
}
func (s *stubIntegrations) ListByAdmin(ctx context.Context, adminID string) ([]integration.Integration, error) {
	return nil, nil
}
func (s *stubIntegrations) ListCronEnabled(ctx context.Context, dataType models.DataType) ([]integration.Integration, error) {
	return nil, nil
}
func (s *stubIntegrations) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	return nil
}
func (s *stubIntegrations) Delete(ctx context.Context, id string) error { return nil }
func (s *stubIntegrations) TestCredentials(ctx context.Context, id string) error {
	return nil
}
func (s *stubIntegrations) TouchLastSync(ctx context.Context, id string, dataType models.DataType) error {
	return nil
}

func newTestService(repo Repository, fetcher PageFetcher, sink RecordSink) *ServiceImpl {
	return &ServiceImpl{
		Repo:         repo,
		Fetcher:      fetcher,
		Sink:         sink,
		Integrations: &stubIntegrations{integ: &integration.Integration{AdminID: "admin1", APIKey: "k"}},
		Logger:       zap.NewNop(),
		leaseTTL:     time.Minute,
	}
}

func baseParams() CreateParams {
	return CreateParams{
		AdminID:       "admin1",
		IntegrationID: "int1",
		DataType:      models.DataTypeProducts,
		CronLabel:     "products-10min",
		PagesPerChunk: 3,
		PageSize:      100,
	}
}

// ---- tests ----

func TestCreateOrResumeReturnsSameJob(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeFetcher{}, &fakeSink{})
	ctx := context.Background()

	first, err := svc.CreateOrResume(ctx, baseParams())
	if err != nil {
		t.Fatalf("CreateOrResume() error = %v", err)
	}
	if first.Resumed {
		t.Error("first call reported Resumed = true")
	}

	second, err := svc.CreateOrResume(ctx, baseParams())
	if err != nil {
		t.Fatalf("CreateOrResume() second error = %v", err)
	}
	if second.JobID != first.JobID {
		t.Errorf("second call returned job %s, want %s", second.JobID, first.JobID)
	}
	if !second.Resumed || !second.ShouldProcess {
		t.Errorf("second call = %+v, want resumed and processable", second)
	}
}

func TestCreateOrResumeStartsFreshAfterCompletion(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{fullPages: 0, pageSize: 100, lastShort: 10}
	svc := newTestService(repo, fetcher, &fakeSink{})
	ctx := context.Background()

	first, _ := svc.CreateOrResume(ctx, baseParams())
	result, err := svc.ProcessChunk(ctx, first.JobID)
	if err != nil {
		t.Fatalf("ProcessChunk() error = %v", err)
	}
	if !result.Completed {
		t.Fatal("short first page should complete the job")
	}

	next, err := svc.CreateOrResume(ctx, baseParams())
	if err != nil {
		t.Fatalf("CreateOrResume() after completion error = %v", err)
	}
	if next.JobID == first.JobID {
		t.Error("completed job was resumed; want a fresh job")
	}
	if next.CurrentPage != 1 {
		t.Errorf("fresh job starts at page %d, want 1", next.CurrentPage)
	}
}

func TestProcessChunkAdvancesAndResumes(t *testing.T) {
	repo := newFakeRepo()
	// 7 full pages then a short page: needs three 3-page chunks
	fetcher := &fakeFetcher{fullPages: 7, pageSize: 100, lastShort: 40}
	sink := &fakeSink{}
	svc := newTestService(repo, fetcher, sink)
	ctx := context.Background()

	res, _ := svc.CreateOrResume(ctx, baseParams())

	chunk1, err := svc.ProcessChunk(ctx, res.JobID)
	if err != nil {
		t.Fatalf("chunk 1 error = %v", err)
	}
	if chunk1.PagesProcessed != 3 || chunk1.Completed {
		t.Errorf("chunk 1 = %+v, want 3 pages, not completed", chunk1)
	}

	job, _ := repo.Get(ctx, res.JobID)
	if job.CurrentPage != 4 {
		t.Errorf("cursor after chunk 1 = %d, want 4", job.CurrentPage)
	}
	// Simulate the lease expiring between serverless invocations
	repo.jobs[res.JobID].LeaseUntil = time.Time{}

	chunk2, _ := svc.ProcessChunk(ctx, res.JobID)
	if chunk2.PagesProcessed != 3 || chunk2.Completed {
		t.Errorf("chunk 2 = %+v, want 3 more pages", chunk2)
	}
	repo.jobs[res.JobID].LeaseUntil = time.Time{}

	chunk3, err := svc.ProcessChunk(ctx, res.JobID)
	if err != nil {
		t.Fatalf("chunk 3 error = %v", err)
	}
	if !chunk3.Completed {
		t.Errorf("chunk 3 = %+v, want completed on short page", chunk3)
	}

	job, _ = repo.Get(ctx, res.JobID)
	if job.Status != StatusCompleted {
		t.Errorf("job status = %s, want completed", job.Status)
	}
	if sink.saved != 7*100+40 {
		t.Errorf("sink saw %d records, want 740", sink.saved)
	}
}

func TestProcessChunkStopsAtMaxPages(t *testing.T) {
	repo := newFakeRepo()
	// Fetcher would happily serve 100 full pages; MaxPages must cap it
	fetcher := &fakeFetcher{fullPages: 100, pageSize: 100}
	svc := newTestService(repo, fetcher, &fakeSink{})
	ctx := context.Background()

	params := baseParams()
	params.MaxPages = 2
	params.PagesPerChunk = 10

	res, _ := svc.CreateOrResume(ctx, params)
	chunk, err := svc.ProcessChunk(ctx, res.JobID)
	if err != nil {
		t.Fatalf("ProcessChunk() error = %v", err)
	}
	if chunk.PagesProcessed != 2 {
		t.Errorf("pages processed = %d, want 2", chunk.PagesProcessed)
	}
	if !chunk.Completed {
		t.Error("job should complete once MaxPages is exhausted")
	}
}

func TestProcessChunkLeaseContention(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{fullPages: 10, pageSize: 100}
	svc := newTestService(repo, fetcher, &fakeSink{})
	ctx := context.Background()

	res, _ := svc.CreateOrResume(ctx, baseParams())

	// First invocation holds the lease
	if _, err := repo.AcquireLease(ctx, res.JobID, time.Minute); err != nil {
		t.Fatalf("setup lease: %v", err)
	}

	chunk, err := svc.ProcessChunk(ctx, res.JobID)
	if err != nil {
		t.Fatalf("ProcessChunk() error = %v", err)
	}
	if !chunk.LeaseHeld {
		t.Error("concurrent invocation should report LeaseHeld")
	}
	if chunk.PagesProcessed != 0 {
		t.Errorf("lease loser processed %d pages, want 0", chunk.PagesProcessed)
	}
}

func TestProcessChunkFailureParksJob(t *testing.T) {
	repo := newFakeRepo()
	fetcher := &fakeFetcher{fullPages: 10, pageSize: 100, failPage: 2}
	svc := newTestService(repo, fetcher, &fakeSink{})
	ctx := context.Background()

	res, _ := svc.CreateOrResume(ctx, baseParams())
	chunk, err := svc.ProcessChunk(ctx, res.JobID)
	if err == nil {
		t.Fatal("ProcessChunk() = nil error, want upstream failure")
	}
	if chunk.PagesProcessed != 1 {
		t.Errorf("pages before failure = %d, want 1", chunk.PagesProcessed)
	}

	job, _ := repo.Get(ctx, res.JobID)
	if job.Status != StatusFailed {
		t.Errorf("job status = %s, want failed", job.Status)
	}
	// Page 1 was already persisted and stays that way
	if job.CurrentPage != 2 {
		t.Errorf("cursor = %d, want 2", job.CurrentPage)
	}
}

func TestCleanupOldJobs(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeFetcher{}, &fakeSink{})
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -30)
	recent := time.Now().AddDate(0, 0, -1)
	repo.jobs["old"] = &SyncJob{JobID: "old", Status: StatusCompleted, CompletedAt: &old}
	repo.jobs["recent"] = &SyncJob{JobID: "recent", Status: StatusCompleted, CompletedAt: &recent}
	repo.jobs["active"] = &SyncJob{JobID: "active", Status: StatusRunning}

	removed, err := svc.CleanupOldJobs(ctx, 7)
	if err != nil {
		t.Fatalf("CleanupOldJobs() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := repo.Get(ctx, "recent"); err != nil {
		t.Error("recent completed job should survive the retention window")
	}
	if _, err := repo.Get(ctx, "active"); err != nil {
		t.Error("running job should never be cleaned up")
	}
}
