package catalog

import (
	"context"
	"errors"

	"sellersync/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var ErrSlugTaken = errors.New("an item with this name already exists")

type Service interface {
	Create(ctx context.Context, item *Item) (*Item, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Item, error)
	List(ctx context.Context, adminID string, kind Kind) ([]Item, error)
	Update(ctx context.Context, id primitive.ObjectID, item *Item) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Repo: repo, Logger: logger}
}

func (s *ServiceImpl) Create(ctx context.Context, item *Item) (*Item, error) {
	if item.Name == "" {
		return nil, errors.New("name is required")
	}
	if !item.Kind.Valid() {
		return nil, errors.New("invalid kind: " + string(item.Kind))
	}
	item.Slug = utils.Slugify(item.Name)

	created, err := s.Repo.Create(ctx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*Item, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context, adminID string, kind Kind) ([]Item, error) {
	return s.Repo.List(ctx, adminID, kind)
}

func (s *ServiceImpl) Update(ctx context.Context, id primitive.ObjectID, item *Item) error {
	update := bson.M{
		"description":  item.Description,
		"contact_name": item.ContactName,
		"phone":        item.Phone,
		"email":        item.Email,
	}
	if item.Name != "" {
		update["name"] = item.Name
		update["slug"] = utils.Slugify(item.Name)
	}
	if err := s.Repo.Update(ctx, id, update); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.Repo.Delete(ctx, id)
}
