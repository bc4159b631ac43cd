package main

import (
	"context"
	"fmt"
	"log"

	common_api "go-safesite/internal/common/api"
	"go-safesite/internal/config"
	"go-safesite/internal/database"
	"go-safesite/internal/features/dashboard"
	"go-safesite/internal/features/finding"
	"go-safesite/internal/features/project"
	"go-safesite/internal/features/report"
	"go-safesite/internal/features/schedule"
	"go-safesite/internal/features/system"
	"go-safesite/internal/features/user"
	"go-safesite/internal/logger"
	"go-safesite/internal/middleware"
	"go-safesite/pkg/utils"

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
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx adds its result to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
	log.Printf("Registered %d routes\n", len(routes))
}

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

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			logger.NewLogger,
			NewFiberServer,
			database.NewDatabase,

			// Repositories
			finding.NewFindingRepository,
			project.NewProjectRepository,
			user.NewUserRepository,

			// Services
			finding.NewOverdueSweeper,
			report.NewResolver,
			report.NewReportService,
			dashboard.NewDashboardService,
			schedule.NewScheduler,

			// Controllers
			report.NewReportController,
			dashboard.NewDashboardController,

			// API Routes
			AsRoute(report.NewReportApi),
			AsRoute(dashboard.NewDashboardApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			func(lc fx.Lifecycle, scheduler schedule.Scheduler) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return scheduler.Start()
					},
					OnStop: func(ctx context.Context) error {
						return scheduler.Stop()
					},
				})
			},
		),
	)

	app.Run()
}
