package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/config"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/logs"
	"sellersync/internal/features/marketdata"
	"sellersync/internal/features/syncjob"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Notifier lets the runner surface run outcomes to admins without pulling
// the notification feature in as a hard dependency. Satisfied by
// notification.Service.
type Notifier interface {
	Notify(ctx context.Context, adminID, title, body string) error
}

// RunSummary aggregates one policy run across all its integrations.
type RunSummary struct {
	Label        string        `json:"label"`
	Processed    int           `json:"processed"`
	Failed       int           `json:"failed"`
	Items        int           `json:"items"`
	PagesFetched int           `json:"pages_fetched"`
	Removed      int64         `json:"removed,omitempty"`
	Details      []string      `json:"details,omitempty"`
	Duration     time.Duration `json:"duration"`
}

type Service interface {
	Run(ctx context.Context, label string, trigger models.Trigger) (*RunSummary, error)
	Policies() []SyncPolicy
	InitializeScheduler(ctx context.Context) error
	StopScheduler() error
}

type ServiceImpl struct {
	Config       *config.Config
	Integrations integration.Service
	Jobs         syncjob.Service
	MarketData   marketdata.Service
	Logs         logs.Service
	Notifier     Notifier
	Logger       *zap.Logger

	policies  []SyncPolicy
	scheduler *cron.Cron
}

func NewService(
	cfg *config.Config,
	integrations integration.Service,
	jobs syncjob.Service,
	marketData marketdata.Service,
	logsService logs.Service,
	notifier Notifier,
	logger *zap.Logger,
) Service {
	return &ServiceImpl{
		Config:       cfg,
		Integrations: integrations,
		Jobs:         jobs,
		MarketData:   marketData,
		Logs:         logsService,
		Notifier:     notifier,
		Logger:       logger,
		policies:     DefaultPolicies(),
	}
}

func (s *ServiceImpl) Policies() []SyncPolicy {
	return s.policies
}

func (s *ServiceImpl) policy(label string) (SyncPolicy, bool) {
	for _, p := range s.policies {
		if p.Label == label {
			return p, true
		}
	}
	return SyncPolicy{}, false
}

// Run executes one policy now. Per-integration failures are isolated:
// they land in the summary and the execution log but never stop the rest
// of the batch.
func (s *ServiceImpl) Run(ctx context.Context, label string, trigger models.Trigger) (*RunSummary, error) {
	policy, ok := s.policy(label)
	if !ok {
		return nil, fmt.Errorf("unknown cron label %q", label)
	}

	start := time.Now()
	entry := s.Logs.Start(ctx, trigger, label)
	summary := &RunSummary{Label: label}

	var err error
	switch policy.Kind {
	case KindCleanup:
		err = s.runCleanup(ctx, summary)
	case KindDedup:
		err = s.runDedup(ctx, policy, summary)
	default:
		err = s.runSync(ctx, policy, summary)
	}

	summary.Duration = time.Since(start)

	entry.IntegrationsProcessed = summary.Processed
	entry.IntegrationsFailed = summary.Failed
	entry.ItemsProcessed = summary.Items
	entry.ErrorCount = summary.Failed
	entry.Details = summary.Details
	if err != nil {
		entry.Status = logs.StatusFailure
		entry.Message = err.Error()
	} else if summary.Failed > 0 {
		entry.Status = logs.StatusFailure
		entry.Message = fmt.Sprintf("%d of %d integrations failed", summary.Failed, summary.Processed+summary.Failed)
	} else {
		entry.Status = logs.StatusSuccess
	}
	s.Logs.Finish(ctx, entry)

	s.Logger.Info("policy run finished",
		zap.String("label", label),
		zap.Int("processed", summary.Processed),
		zap.Int("failed", summary.Failed),
		zap.Int("items", summary.Items),
		zap.Duration("duration", summary.Duration))

	return summary, err
}

func (s *ServiceImpl) runSync(ctx context.Context, policy SyncPolicy, summary *RunSummary) error {
	dateFilter := policy.dateFilter(time.Now())

	for _, dataType := range policy.DataTypes {
		integrations, err := s.Integrations.ListCronEnabled(ctx, dataType)
		if err != nil {
			return fmt.Errorf("list integrations for %s: %w", dataType, err)
		}

		var mu sync.Mutex
		for bi, r := range batchRanges(len(integrations), policy.BatchSize) {
			if bi > 0 && policy.BatchDelay > 0 {
				select {
				case <-time.After(policy.BatchDelay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}

			var wg sync.WaitGroup
			for _, integ := range integrations[r[0]:r[1]] {
				wg.Add(1)
				go func(integ integration.Integration) {
					defer wg.Done()

					items, pages, err := s.syncOne(ctx, policy, dataType, &integ, dateFilter)

					mu.Lock()
					defer mu.Unlock()
					if err != nil {
						summary.Failed++
						summary.Details = append(summary.Details,
							fmt.Sprintf("%s/%s: %v", integ.AccountName, dataType, err))
						s.notifyFailure(ctx, &integ, policy.Label, err)
						return
					}
					summary.Processed++
					summary.Items += items
					summary.PagesFetched += pages
				}(integ)
			}
			wg.Wait()
		}
	}
	return nil
}

func (s *ServiceImpl) syncOne(ctx context.Context, policy SyncPolicy, dataType models.DataType, integ *integration.Integration, dateFilter map[string]string) (items, pages int, err error) {
	pagesPerChunk := policy.PagesPerChunk
	if dataType == models.DataTypeProducts && integ.SyncPreferences.ProductPagesPerChunk > 0 {
		pagesPerChunk = integ.SyncPreferences.ProductPagesPerChunk
	}
	maxPages := policy.MaxPages
	if dataType == models.DataTypeSales && integ.SyncPreferences.SalesMaxPages > 0 {
		maxPages = integ.SyncPreferences.SalesMaxPages
	}

	resume, err := s.Jobs.CreateOrResume(ctx, syncjob.CreateParams{
		AdminID:       integ.AdminID,
		IntegrationID: integ.ID.Hex(),
		DataType:      dataType,
		CronLabel:     policy.Label,
		PagesPerChunk: pagesPerChunk,
		PageSize:      policy.PageSize,
		MaxPages:      maxPages,
		DateFilter:    dateFilter,
	})
	if err != nil {
		return 0, 0, err
	}
	if !resume.ShouldProcess {
		return 0, 0, nil
	}

	chunk, err := s.Jobs.ProcessChunk(ctx, resume.JobID)
	if chunk != nil {
		items, pages = chunk.ItemsProcessed, chunk.PagesProcessed
	}
	return items, pages, err
}

func (s *ServiceImpl) runDedup(ctx context.Context, policy SyncPolicy, summary *RunSummary) error {
	integrations, err := s.Integrations.ListCronEnabled(ctx, "")
	if err != nil {
		return fmt.Errorf("list integrations: %w", err)
	}

	for bi, r := range batchRanges(len(integrations), policy.BatchSize) {
		if bi > 0 && policy.BatchDelay > 0 {
			select {
			case <-time.After(policy.BatchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		for _, integ := range integrations[r[0]:r[1]] {
			if !integ.SyncPreferences.NightlyDedup {
				continue
			}

			failed := false
			for _, dataType := range policy.DataTypes {
				res, err := s.MarketData.RunCleanup(ctx, integ.ID.Hex(), dataType, nil)
				if err != nil {
					failed = true
					summary.Details = append(summary.Details,
						fmt.Sprintf("%s/%s: %v", integ.AccountName, dataType, err))
					continue
				}
				summary.Removed += int64(res.DuplicatesRemoved)
			}
			if failed {
				summary.Failed++
			} else {
				summary.Processed++
			}
		}
	}
	return nil
}

func (s *ServiceImpl) runCleanup(ctx context.Context, summary *RunSummary) error {
	removed, err := s.Jobs.CleanupOldJobs(ctx, s.Config.JobRetentionDays)
	if err != nil {
		return err
	}
	summary.Removed = removed
	summary.Processed = 1
	return nil
}

func (s *ServiceImpl) notifyFailure(ctx context.Context, integ *integration.Integration, label string, err error) {
	if s.Notifier == nil {
		return
	}
	notifyErr := s.Notifier.Notify(ctx, integ.AdminID,
		fmt.Sprintf("Sync failed: %s", integ.AccountName),
		fmt.Sprintf("%s run failed: %v", label, err))
	if notifyErr != nil {
		s.Logger.Warn("failed to deliver failure notification",
			zap.String("label", label), zap.Error(notifyErr))
	}
}

// InitializeScheduler registers every policy with the in-process cron.
// The HTTP cron endpoints trigger the exact same runs for deployments
// that prefer an external scheduler.
func (s *ServiceImpl) InitializeScheduler(ctx context.Context) error {
	s.scheduler = cron.New()

	for _, policy := range s.policies {
		label := policy.Label
		_, err := s.scheduler.AddFunc(policy.Schedule, func() {
			runCtx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
			defer cancel()
			if _, err := s.Run(runCtx, label, models.TriggerCron); err != nil {
				s.Logger.Error("scheduled run failed",
					zap.String("label", label), zap.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("register policy %s: %w", label, err)
		}
	}

	s.scheduler.Start()
	s.Logger.Info("cron scheduler started", zap.Int("policies", len(s.policies)))
	return nil
}

func (s *ServiceImpl) StopScheduler() error {
	if s.scheduler != nil {
		ctx := s.scheduler.Stop()
		<-ctx.Done()
	}
	return nil
}
