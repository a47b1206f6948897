package integration

import (
	"context"
	"fmt"
	"time"

	"sellersync/internal/common/models"
	"sellersync/internal/features/takealot"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, integ *Integration) error
	Get(ctx context.Context, id string) (*Integration, error)
	ListByAdmin(ctx context.Context, adminID string) ([]Integration, error)
	ListCronEnabled(ctx context.Context, dataType models.DataType) ([]Integration, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	TestCredentials(ctx context.Context, id string) error
	TouchLastSync(ctx context.Context, id string, dataType models.DataType) error
}

type ServiceImpl struct {
	Repo   Repository
	Client takealot.Client
	Logger *zap.Logger

	// The runner asks for the cron-enabled list on every policy tick;
	// a short TTL keeps that off Mongo without holding stale toggles long.
	cache *gocache.Cache
}

func NewService(repo Repository, client takealot.Client, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:   repo,
		Client: client,
		Logger: logger,
		cache:  gocache.New(30*time.Second, time.Minute),
	}
}

// Credentials builds the API credentials for one integration.
func Credentials(integ *Integration) takealot.Credentials {
	scheme := takealot.AuthSchemeKey
	if integ.AuthScheme == string(takealot.AuthSchemeBearer) {
		scheme = takealot.AuthSchemeBearer
	}
	return takealot.Credentials{APIKey: integ.APIKey, Scheme: scheme}
}

func (s *ServiceImpl) Create(ctx context.Context, integ *Integration) error {
	if integ.AdminID == "" {
		return fmt.Errorf("admin_id is required")
	}
	if integ.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if integ.AuthScheme == "" {
		integ.AuthScheme = string(takealot.AuthSchemeKey)
	}
	if integ.AuthScheme != string(takealot.AuthSchemeKey) && integ.AuthScheme != string(takealot.AuthSchemeBearer) {
		return fmt.Errorf("auth_scheme must be %q or %q", takealot.AuthSchemeKey, takealot.AuthSchemeBearer)
	}

	if err := s.Repo.Create(ctx, integ); err != nil {
		return err
	}

	s.cache.Flush()
	s.Logger.Info("integration created",
		zap.String("integration_id", integ.ID.Hex()),
		zap.String("admin_id", integ.AdminID),
		zap.String("account", integ.AccountName))
	return nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*Integration, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ServiceImpl) ListByAdmin(ctx context.Context, adminID string) ([]Integration, error) {
	return s.Repo.ListByAdmin(ctx, adminID)
}

func (s *ServiceImpl) ListCronEnabled(ctx context.Context, dataType models.DataType) ([]Integration, error) {
	cacheKey := "cron_enabled_" + string(dataType)
	if cached, found := s.cache.Get(cacheKey); found {
		return cached.([]Integration), nil
	}

	integrations, err := s.Repo.ListCronEnabled(ctx, dataType)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, integrations, gocache.DefaultExpiration)
	return integrations, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if err := s.Repo.Update(ctx, id, updates); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// Delete removes the integration document only. Stored offers and sales
// keep their integration_id and age out through retention, matching how
// the back office has always behaved.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

func (s *ServiceImpl) TestCredentials(ctx context.Context, id string) error {
	integ, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.Client.CheckCredentials(ctx, Credentials(integ))
}

func (s *ServiceImpl) TouchLastSync(ctx context.Context, id string, dataType models.DataType) error {
	return s.Repo.TouchLastSync(ctx, id, dataType, time.Now())
}
