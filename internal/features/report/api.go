package report

import (
	"go-safesite/internal/config"
	"go-safesite/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Post("/preview", api.ReportController.Preview)
	group.Post("/generate", api.ReportController.Generate)
	group.Get("/columns/:source", api.ReportController.Columns)

	// Stubs: template persistence and scheduled delivery.
	group.Post("/", api.ReportController.Create)
	group.Post("/schedules", api.ReportController.CreateSchedule)
}
