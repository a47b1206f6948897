package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "sellersync/internal/common/api"
	"sellersync/internal/config"
	"sellersync/internal/database"
	"sellersync/internal/features/auth"
	"sellersync/internal/features/catalog"
	"sellersync/internal/features/integration"
	"sellersync/internal/features/logs"
	"sellersync/internal/features/marketdata"
	"sellersync/internal/features/notification"
	"sellersync/internal/features/pos"
	"sellersync/internal/features/report"
	"sellersync/internal/features/runner"
	"sellersync/internal/features/syncjob"
	"sellersync/internal/features/system"
	"sellersync/internal/features/takealot"
	"sellersync/internal/features/user"
	"sellersync/internal/features/warehouse"
	"sellersync/internal/logger"
	"sellersync/internal/middleware"
	"sellersync/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d route groups\n", len(routes))
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(
	lc fx.Lifecycle,
	jobRepo syncjob.Repository,
	userRepo user.Repository,
	catalogRepo catalog.Repository,
	posRepo pos.Repository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := jobRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure sync job indexes: %v", err)
				}
				if err := userRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure user indexes: %v", err)
				}
				if err := catalogRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure catalog indexes: %v", err)
				}
				if err := posRepo.EnsureIndexes(ctx); err != nil {
					log.Printf("Failed to ensure pos indexes: %v", err)
				}
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database
			database.NewDatabase,

			// Initialize Repository
			integration.NewRepository,
			marketdata.NewRepository,
			syncjob.NewRepository,
			logs.NewRepository,
			user.NewRepository,
			notification.NewRepository,
			catalog.NewRepository,
			pos.NewRepository,

			// Initialize Service
			takealot.NewClient,
			integration.NewService,
			marketdata.NewService,
			syncjob.NewService,
			logs.NewService,
			runner.NewService,
			user.NewService,
			notification.NewService,
			catalog.NewService,
			pos.NewService,
			report.NewService,
			warehouse.NewService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(c takealot.Client) syncjob.PageFetcher { return c },
			func(s marketdata.Service) syncjob.RecordSink { return s },
			func(s notification.Service) runner.Notifier { return s },

			// Initialize Controller
			integration.NewController,
			marketdata.NewController,
			syncjob.NewController,
			logs.NewController,
			runner.NewController,
			auth.NewController,
			user.NewController,
			notification.NewController,
			catalog.NewController,
			pos.NewController,
			report.NewController,
			warehouse.NewController,
			system.NewController,

			// Initialize API Routes
			AsRoute(auth.NewApi),
			AsRoute(user.NewApi),
			AsRoute(integration.NewApi),
			AsRoute(marketdata.NewApi),
			AsRoute(syncjob.NewApi),
			AsRoute(logs.NewApi),
			AsRoute(runner.NewApi),
			AsRoute(notification.NewApi),
			AsRoute(catalog.NewApi),
			AsRoute(pos.NewApi),
			AsRoute(report.NewApi),
			AsRoute(warehouse.NewApi),
			AsRoute(system.NewApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, runnerService runner.Service) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return runnerService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return runnerService.StopScheduler()
					},
				})
			},
			InitializeIndexes,
		),
	)

	app.Run()
}
