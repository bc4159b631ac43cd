package dashboard

import (
	"go-safesite/internal/config"
	"go-safesite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DashboardApi struct {
	DashboardController *DashboardController
	Config              *config.Config
}

func NewDashboardApi(dashboardController *DashboardController, config *config.Config) *DashboardApi {
	return &DashboardApi{
		DashboardController: dashboardController,
		Config:              config,
	}
}

func (api *DashboardApi) Setup(app *fiber.App) {
	group := app.Group("/api/dashboard", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/metrics", api.DashboardController.Metrics)
}
