package user

import (
	"context"
	"errors"

	"sellersync/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken    = errors.New("email already registered")
	ErrBadCredential = errors.New("invalid email or password")
	ErrNotFound      = errors.New("user not found")
)

type CreateParams struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name"`
	Role     models.Role `json:"role"`
	AdminID  string      `json:"admin_id"`
}

type Service interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	ListByAdmin(ctx context.Context, adminID string) ([]User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, role models.Role) error
	ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Repo: repo, Logger: logger}
}

func (s *ServiceImpl) Create(ctx context.Context, params CreateParams) (*User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, errors.New("email and password are required")
	}
	if !params.Role.Valid() {
		return nil, errors.New("invalid role: " + string(params.Role))
	}
	if _, err := s.Repo.GetByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:    params.Email,
		Password: string(hash),
		Name:     params.Name,
		Role:     params.Role,
		AdminID:  params.AdminID,
	}
	created, err := s.Repo.Create(ctx, u)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	// Admins are the root of their own tenant.
	if created.AdminID == "" && (created.Role == models.RoleAdmin || created.Role == models.RoleSuperAdmin) {
		created.AdminID = created.ID.Hex()
		if err := s.Repo.Update(ctx, created.ID, bson.M{"admin_id": created.AdminID}); err != nil {
			return nil, err
		}
	}

	s.Logger.Info("user created",
		zap.String("admin_id", created.AdminID),
		zap.String("email", created.Email),
		zap.String("role", string(created.Role)))
	return created, nil
}

func (s *ServiceImpl) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrBadCredential
	}
	if u.Status != "active" {
		return nil, errors.New("account suspended")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrBadCredential
	}
	if err := s.Repo.TouchLastLogin(ctx, u.ID); err != nil {
		s.Logger.Warn("failed to record last login", zap.Error(err))
	}
	return u, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id primitive.ObjectID) (*User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *ServiceImpl) ListByAdmin(ctx context.Context, adminID string) ([]User, error) {
	return s.Repo.ListByAdmin(ctx, adminID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, id primitive.ObjectID, name string, role models.Role) error {
	update := bson.M{}
	if name != "" {
		update["name"] = name
	}
	if role != "" {
		if !role.Valid() {
			return errors.New("invalid role: " + string(role))
		}
		update["role"] = role
	}
	if len(update) == 0 {
		return nil
	}
	return s.Repo.Update(ctx, id, update)
}

func (s *ServiceImpl) ChangePassword(ctx context.Context, id primitive.ObjectID, newPassword string) error {
	if len(newPassword) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.Update(ctx, id, bson.M{"password": string(hash)})
}

func (s *ServiceImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.Repo.Delete(ctx, id)
}
