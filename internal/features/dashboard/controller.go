package dashboard

import (
	common_models "go-safesite/internal/common/models"
	"go-safesite/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type DashboardController struct {
	DashboardService DashboardService
	Logger           *zap.Logger
}

func NewDashboardController(dashboardService DashboardService, logger *zap.Logger) *DashboardController {
	return &DashboardController{DashboardService: dashboardService, Logger: logger}
}

// Metrics returns the role-scoped site summary.
func (c *DashboardController) Metrics(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return c.unauthenticated(ctx)
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return c.unauthenticated(ctx)
	}
	principal := common_models.Principal{ID: id, Role: common_models.Role(claims.Role)}

	metrics, err := c.DashboardService.Metrics(ctx.Context(), principal)
	if err != nil {
		c.Logger.Error("dashboard metrics failed", zap.Error(err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Dashboard metrics could not be resolved",
		})
	}

	return ctx.JSON(fiber.Map{"success": true, "data": metrics})
}

func (c *DashboardController) unauthenticated(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "User not authenticated",
	})
}
