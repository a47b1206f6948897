package notification

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service interface {
	Notify(ctx context.Context, adminID, title, body string) error
	List(ctx context.Context, adminID string, unreadOnly bool, limit int64) ([]Notification, error)
	UnreadCount(ctx context.Context, adminID string) (int64, error)
	MarkRead(ctx context.Context, adminID string, id primitive.ObjectID) error
	MarkAllRead(ctx context.Context, adminID string) error
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Repo: repo, Logger: logger}
}

func (s *ServiceImpl) Notify(ctx context.Context, adminID, title, body string) error {
	n := &Notification{AdminID: adminID, Title: title, Body: body}
	if err := s.Repo.Create(ctx, n); err != nil {
		s.Logger.Error("failed to store notification",
			zap.String("admin_id", adminID),
			zap.String("title", title),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, adminID string, unreadOnly bool, limit int64) ([]Notification, error) {
	return s.Repo.ListByAdmin(ctx, adminID, unreadOnly, limit)
}

func (s *ServiceImpl) UnreadCount(ctx context.Context, adminID string) (int64, error) {
	return s.Repo.CountUnread(ctx, adminID)
}

func (s *ServiceImpl) MarkRead(ctx context.Context, adminID string, id primitive.ObjectID) error {
	return s.Repo.MarkRead(ctx, adminID, id)
}

func (s *ServiceImpl) MarkAllRead(ctx context.Context, adminID string) error {
	return s.Repo.MarkAllRead(ctx, adminID)
}

func (s *ServiceImpl) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.Repo.DeleteOlderThan(ctx, time.Now().Add(-olderThan))
}
