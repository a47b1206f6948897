package logs

import (
	"context"
	"sync"
	"time"

	"sellersync/internal/common/models"

	"go.uber.org/zap"
)

type Service interface {
	Start(ctx context.Context, trigger models.Trigger, label string) *ExecutionLog
	Finish(ctx context.Context, entry *ExecutionLog)
	List(ctx context.Context, q Query) ([]ExecutionLog, error)
	Subscribe() (<-chan ExecutionLog, func())
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger

	mu          sync.Mutex
	subscribers map[chan ExecutionLog]struct{}
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:        repo,
		Logger:      logger,
		subscribers: make(map[chan ExecutionLog]struct{}),
	}
}

// Start writes the running entry immediately so a crashed run still leaves
// a trace in the dashboard.
func (s *ServiceImpl) Start(ctx context.Context, trigger models.Trigger, label string) *ExecutionLog {
	entry := &ExecutionLog{
		Trigger:   trigger,
		Label:     label,
		Status:    StatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.Repo.Create(ctx, entry); err != nil {
		s.Logger.Warn("failed to create execution log",
			zap.String("label", label), zap.Error(err))
	}
	return entry
}

// Finish persists the final state and fans it out to live subscribers.
func (s *ServiceImpl) Finish(ctx context.Context, entry *ExecutionLog) {
	now := time.Now()
	entry.FinishedAt = &now
	if entry.Status == StatusRunning {
		entry.Status = StatusSuccess
	}

	if err := s.Repo.Update(ctx, entry); err != nil {
		s.Logger.Warn("failed to update execution log",
			zap.String("label", entry.Label), zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- *entry:
		default:
			// Slow tail consumers miss entries instead of blocking the runner
		}
	}
}

func (s *ServiceImpl) List(ctx context.Context, q Query) ([]ExecutionLog, error) {
	return s.Repo.List(ctx, q)
}

// Subscribe registers a live-tail consumer. The returned cancel func must
// be called when the consumer goes away.
func (s *ServiceImpl) Subscribe() (<-chan ExecutionLog, func()) {
	ch := make(chan ExecutionLog, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subscribers, ch)
		s.mu.Unlock()
		close(ch)
	}
	return ch, cancel
}
