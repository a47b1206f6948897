package logs

import (
	"context"
	"testing"
	"time"

	"sellersync/internal/common/models"

	"go.uber.org/zap"
)

type memRepo struct {
	created []*ExecutionLog
	updated []*ExecutionLog
}

func (m *memRepo) Create(ctx context.Context, entry *ExecutionLog) error {
	m.created = append(m.created, entry)
	return nil
}

func (m *memRepo) Update(ctx context.Context, entry *ExecutionLog) error {
	m.updated = append(m.updated, entry)
	return nil
}

func (m *memRepo) List(ctx context.Context, q Query) ([]ExecutionLog, error) {
	return nil, nil
}

func TestStartFinishLifecycle(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, zap.NewNop())
	ctx := context.Background()

	entry := svc.Start(ctx, models.TriggerCron, "products-10min")
	if entry.Status != StatusRunning {
		t.Fatalf("status after Start = %q, want running", entry.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("running entry not persisted")
	}

	svc.Finish(ctx, entry)
	if entry.Status != StatusSuccess {
		t.Errorf("status defaulted to %q, want success", entry.Status)
	}
	if entry.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}
	if len(repo.updated) != 1 {
		t.Errorf("finished entry not persisted")
	}
}

func TestFinishKeepsExplicitFailure(t *testing.T) {
	svc := NewService(&memRepo{}, zap.NewNop())
	ctx := context.Background()

	entry := svc.Start(ctx, models.TriggerManual, "sales-hourly")
	entry.Status = StatusFailure
	entry.Message = "boom"
	svc.Finish(ctx, entry)

	if entry.Status != StatusFailure {
		t.Errorf("status = %q, want failure", entry.Status)
	}
}

func TestSubscribeReceivesFinishedEntries(t *testing.T) {
	svc := NewService(&memRepo{}, zap.NewNop())
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	defer cancel()

	entry := svc.Start(ctx, models.TriggerCron, "dedup-nightly")
	svc.Finish(ctx, entry)

	select {
	case got := <-events:
		if got.Label != "dedup-nightly" {
			t.Errorf("label = %q", got.Label)
		}
		if got.Status != StatusSuccess {
			t.Errorf("status = %q", got.Status)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered to subscriber")
	}
}

func TestCancelledSubscriberStopsReceiving(t *testing.T) {
	svc := NewService(&memRepo{}, zap.NewNop())
	ctx := context.Background()

	events, cancel := svc.Subscribe()
	cancel()

	// Must not panic writing to a removed subscriber.
	entry := svc.Start(ctx, models.TriggerCron, "jobs-cleanup")
	svc.Finish(ctx, entry)

	if _, ok := <-events; ok {
		t.Error("cancelled subscriber still received an event")
	}
}
