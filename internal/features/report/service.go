package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	common_models "go-safesite/internal/common/models"

	"go.uber.org/zap"
)

// previewLimit caps how many rows a preview response carries. The full
// count still comes back so the UI can show "10 of N".
const previewLimit = 10

// Preview is the bounded result of a preview request.
type Preview struct {
	Rows      []Row
	TotalRows int
	// Warning is set when resolution degraded (store failure) instead of
	// failing the request.
	Warning string
}

// Export is a fully resolved report ready to stream. WriteTo renders into
// the response sink; by the time an Export exists, validation and
// resolution have already succeeded.
type Export struct {
	ContentType string
	Filename    string
	WriteTo     func(w io.Writer) error
}

type ReportService interface {
	Preview(ctx context.Context, spec *ReportSpec, principal common_models.Principal) (*Preview, error)
	Generate(ctx context.Context, spec *ReportSpec, principal common_models.Principal) (*Export, error)
}

type ReportServiceImpl struct {
	Resolver  Resolver
	Logger    *zap.Logger
	renderers map[ExportFormat]Renderer
}

func NewReportService(resolver Resolver, logger *zap.Logger) ReportService {
	return &ReportServiceImpl{
		Resolver: resolver,
		Logger:   logger,
		renderers: map[ExportFormat]Renderer{
			ExportFormatPDF:   NewPDFRenderer(),
			ExportFormatExcel: NewExcelRenderer(),
			ExportFormatCSV:   NewCSVRenderer(),
		},
	}
}

// validate rejects a spec before any store access happens.
func validate(spec *ReportSpec, principal common_models.Principal, forExport bool) error {
	if principal.ID.IsZero() {
		return ErrUnauthenticated
	}

	columns, ok := ColumnsFor(spec.DataSource)
	if !ok {
		return fmt.Errorf("%w: unknown data source %q", ErrInvalidSpec, spec.DataSource)
	}

	start, end := spec.Filters.DateRange.Start, spec.Filters.DateRange.End
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: dateRange start and end are required", ErrInvalidSpec)
	}
	if start.After(end.Time) {
		return fmt.Errorf("%w: dateRange start is after end", ErrInvalidSpec)
	}

	valid := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		valid[c] = struct{}{}
	}
	for _, c := range spec.Columns {
		if _, ok := valid[c]; !ok {
			return fmt.Errorf("%w: column %q is not valid for data source %q", ErrInvalidSpec, c, spec.DataSource)
		}
	}

	if forExport {
		switch spec.ExportFormat {
		case ExportFormatPDF, ExportFormatExcel, ExportFormatCSV:
		default:
			return fmt.Errorf("%w: unknown export format %q", ErrInvalidSpec, spec.ExportFormat)
		}
	}
	return nil
}

func (s *ReportServiceImpl) Preview(ctx context.Context, spec *ReportSpec, principal common_models.Principal) (*Preview, error) {
	if err := validate(spec, principal, false); err != nil {
		return nil, err
	}

	rows, err := s.Resolver.Resolve(ctx, spec, principal)
	if err != nil {
		// A preview degrades on store failure: an empty result with an
		// explicit warning beats a hard error while someone is still
		// assembling the report. Exports never take this path.
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			s.Logger.Warn("report preview degraded to empty result",
				zap.String("dataSource", string(spec.DataSource)),
				zap.Error(err))
			return &Preview{Rows: []Row{}, Warning: "data source unavailable, results incomplete"}, nil
		}
		return nil, err
	}

	total := len(rows)
	if len(rows) > previewLimit {
		rows = rows[:previewLimit]
	}
	return &Preview{Rows: rows, TotalRows: total}, nil
}

func (s *ReportServiceImpl) Generate(ctx context.Context, spec *ReportSpec, principal common_models.Principal) (*Export, error) {
	if err := validate(spec, principal, true); err != nil {
		return nil, err
	}

	// Exports fail loudly on store errors: a wrong document silently
	// handed to a consumer is worse than a failed request.
	rows, err := s.Resolver.Resolve(ctx, spec, principal)
	if err != nil {
		return nil, err
	}

	columns := spec.Columns
	if len(columns) == 0 {
		columns, _ = ColumnsFor(spec.DataSource)
	}

	renderer := s.renderers[spec.ExportFormat]

	return &Export{
		ContentType: contentTypeFor(spec.ExportFormat),
		Filename:    exportFilename(spec.Name, spec.ExportFormat),
		WriteTo: func(w io.Writer) error {
			return renderer.Render(ctx, w, rows, columns)
		},
	}, nil
}

func contentTypeFor(format ExportFormat) string {
	switch format {
	case ExportFormatPDF:
		return "application/pdf"
	case ExportFormatExcel:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func exportFilename(name string, format ExportFormat) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
	if name == "" {
		name = "report"
	}
	ext := "csv"
	switch format {
	case ExportFormatPDF:
		ext = "pdf"
	case ExportFormatExcel:
		ext = "xlsx"
	}
	return name + "." + ext
}
