package report

import (
	"bufio"
	"errors"
	"fmt"

	common_models "go-safesite/internal/common/models"
	"go-safesite/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReportController struct {
	ReportService ReportService
	Logger        *zap.Logger
}

func NewReportController(reportService ReportService, logger *zap.Logger) *ReportController {
	return &ReportController{ReportService: reportService, Logger: logger}
}

// principalFromCtx extracts the authenticated principal injected by the auth
// middleware. The report engine never trusts anything else on the request.
func principalFromCtx(ctx *fiber.Ctx) (common_models.Principal, bool) {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return common_models.Principal{}, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return common_models.Principal{}, false
	}
	return common_models.Principal{ID: id, Role: common_models.Role(claims.Role)}, true
}

func unauthenticated(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "User not authenticated",
	})
}

// Preview resolves a spec and returns the first rows plus the total count.
func (c *ReportController) Preview(ctx *fiber.Ctx) error {
	var spec ReportSpec
	if err := ctx.BodyParser(&spec); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	principal, ok := principalFromCtx(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	preview, err := c.ReportService.Preview(ctx.Context(), &spec, principal)
	if err != nil {
		return c.reportError(ctx, err)
	}

	rows := preview.Rows
	if rows == nil {
		rows = []Row{}
	}
	resp := fiber.Map{
		"success":   true,
		"data":      rows,
		"totalRows": preview.TotalRows,
	}
	if preview.Warning != "" {
		resp["warning"] = preview.Warning
	}
	return ctx.JSON(resp)
}

// Generate resolves the full row set and streams the rendered document.
func (c *ReportController) Generate(ctx *fiber.Ctx) error {
	var spec ReportSpec
	if err := ctx.BodyParser(&spec); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Invalid request body"})
	}

	principal, ok := principalFromCtx(ctx)
	if !ok {
		return unauthenticated(ctx)
	}

	export, err := c.ReportService.Generate(ctx.Context(), &spec, principal)
	if err != nil {
		return c.reportError(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, export.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))

	// Headers are committed once streaming starts; render failures past
	// this point can only be logged.
	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		if err := export.WriteTo(w); err != nil {
			c.Logger.Error("report export stream failed",
				zap.String("filename", export.Filename),
				zap.Error(err))
			return
		}
		w.Flush()
	}))
	return nil
}

// Columns lists the valid column keys for a data source, for report builders.
func (c *ReportController) Columns(ctx *fiber.Ctx) error {
	source := DataSource(ctx.Params("source"))
	columns, ok := ColumnsFor(source)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": fmt.Sprintf("Unknown data source %q", source),
		})
	}
	return ctx.JSON(fiber.Map{"success": true, "data": columns})
}

// Create is the report-template persistence stub. Specs are request-scoped
// for now; TODO(reports): persist templates once the builder UI needs them.
func (c *ReportController) Create(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"success": false,
		"message": "Report template persistence is not implemented",
	})
}

// CreateSchedule is the scheduled-delivery stub.
func (c *ReportController) CreateSchedule(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusNotImplemented).JSON(fiber.Map{
		"success": false,
		"message": "Scheduled report delivery is not implemented",
	})
}

func (c *ReportController) reportError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return unauthenticated(ctx)
	case errors.Is(err, ErrInvalidSpec):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": err.Error()})
	default:
		c.Logger.Error("report request failed", zap.Error(err))
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": "Report data could not be resolved"})
	}
}
