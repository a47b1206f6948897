package main

import (
	"context"
	"os"

	"sellersync/internal/common/models"
	"sellersync/internal/config"
	"sellersync/internal/database"
	"sellersync/internal/features/catalog"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/logs"
	"sellersync/internal/features/marketdata"
	"sellersync/internal/features/pos"
	"sellersync/internal/features/syncjob"
	"sellersync/internal/features/takealot"
	"sellersync/internal/features/user"
	"sellersync/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Seed creates the initial superadmin plus a demo admin with one
// integration, so a fresh install has something to log into.
func Seed(
	lc fx.Lifecycle,
	users user.Service,
	integrations integration.Service,
	jobRepo syncjob.Repository,
	userRepo user.Repository,
	catalogRepo catalog.Repository,
	posRepo pos.Repository,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				logger.Info("Starting database seeding")

				for _, ensure := range []func(context.Context) error{
					jobRepo.EnsureIndexes,
					userRepo.EnsureIndexes,
					catalogRepo.EnsureIndexes,
					posRepo.EnsureIndexes,
				} {
					if err := ensure(ctx); err != nil {
						logger.Error("Failed to ensure indexes", zap.Error(err))
					}
				}

				superPassword := os.Getenv("SEED_SUPERADMIN_PASSWORD")
				if superPassword == "" {
					superPassword = "changeme-now"
				}
				super, err := users.Create(ctx, user.CreateParams{
					Email:    "superadmin@sellersync.local",
					Password: superPassword,
					Name:     "Super Admin",
					Role:     models.RoleSuperAdmin,
				})
				if err != nil {
					if err == user.ErrEmailTaken {
						logger.Info("Superadmin exists, skipping")
					} else {
						logger.Fatal("Failed to create superadmin", zap.Error(err))
					}
				} else {
					logger.Info("Superadmin created", zap.String("email", super.Email))
				}

				admin, err := users.Create(ctx, user.CreateParams{
					Email:    "demo@sellersync.local",
					Password: "demo-password",
					Name:     "Demo Seller",
					Role:     models.RoleAdmin,
				})
				if err != nil {
					if err == user.ErrEmailTaken {
						logger.Info("Demo admin exists, skipping seed")
						return
					}
					logger.Fatal("Failed to create demo admin", zap.Error(err))
				}
				logger.Info("Demo admin created", zap.String("email", admin.Email))

				apiKey := os.Getenv("SEED_TAKEALOT_API_KEY")
				if apiKey == "" {
					logger.Info("SEED_TAKEALOT_API_KEY not set, skipping demo integration")
					return
				}
				integ := &integration.Integration{
					AdminID:     admin.AdminID,
					AccountName: "Demo Store",
					APIKey:      apiKey,
					AuthScheme:  string(takealot.AuthSchemeKey),
					CronEnabled: true,
					ProductCron: true,
					SalesCron:   true,
				}
				if err := integrations.Create(ctx, integ); err != nil {
					logger.Error("Failed to create demo integration", zap.Error(err))
					return
				}
				logger.Info("Demo integration created", zap.String("account", integ.AccountName))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			database.NewDatabase,

			takealot.NewClient,
			integration.NewRepository,
			integration.NewService,
			marketdata.NewRepository,
			syncjob.NewRepository,
			logs.NewRepository,
			user.NewRepository,
			user.NewService,
			catalog.NewRepository,
			pos.NewRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
