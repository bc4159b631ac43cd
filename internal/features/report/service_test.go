package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-safesite/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeResolver struct {
	rows  []Row
	err   error
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error) {
	f.calls++
	return f.rows, f.err
}

func validSpec(source DataSource) *ReportSpec {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &ReportSpec{
		Name:       "weekly safety",
		DataSource: source,
		Filters: ReportFilters{
			DateRange: DateRange{Start: Date{Time: start}, End: Date{Time: start.AddDate(0, 0, 6)}},
		},
		ExportFormat: ExportFormatCSV,
	}
}

func TestPreviewRejectsUnauthenticatedBeforeResolution(t *testing.T) {
	resolver := &fakeResolver{}
	svc := NewReportService(resolver, zap.NewNop())

	_, err := svc.Preview(context.Background(), validSpec(DataSourceFindings), common_models.Principal{})

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, resolver.calls, "no store access may happen for an unauthenticated request")
}

func TestPreviewValidation(t *testing.T) {
	principal := managementPrincipal()

	tests := []struct {
		name   string
		mutate func(*ReportSpec)
	}{
		{"unknown data source", func(s *ReportSpec) { s.DataSource = "incidents" }},
		{"missing date range", func(s *ReportSpec) { s.Filters.DateRange = DateRange{} }},
		{"inverted date range", func(s *ReportSpec) {
			s.Filters.DateRange.Start, s.Filters.DateRange.End = s.Filters.DateRange.End, s.Filters.DateRange.Start
		}},
		{"column from another data source", func(s *ReportSpec) { s.Columns = []string{"health_score"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{}
			svc := NewReportService(resolver, zap.NewNop())

			spec := validSpec(DataSourceFindings)
			tt.mutate(spec)

			_, err := svc.Preview(context.Background(), spec, principal)
			assert.ErrorIs(t, err, ErrInvalidSpec)
			assert.Zero(t, resolver.calls)
		})
	}
}

func TestPreviewTruncatesToTen(t *testing.T) {
	var rows []Row
	for i := 0; i < 25; i++ {
		rows = append(rows, &FindingRow{Title: "finding"})
	}
	svc := NewReportService(&fakeResolver{rows: rows}, zap.NewNop())

	preview, err := svc.Preview(context.Background(), validSpec(DataSourceFindings), managementPrincipal())
	require.NoError(t, err)

	assert.Len(t, preview.Rows, 10)
	assert.Equal(t, 25, preview.TotalRows)
	assert.Empty(t, preview.Warning)
}

func TestPreviewDegradesOnStoreFailure(t *testing.T) {
	resolver := &fakeResolver{err: &StoreError{Op: "findings", Err: errors.New("timeout")}}
	svc := NewReportService(resolver, zap.NewNop())

	preview, err := svc.Preview(context.Background(), validSpec(DataSourceFindings), managementPrincipal())
	require.NoError(t, err, "previews degrade instead of failing")

	assert.Empty(t, preview.Rows)
	assert.Zero(t, preview.TotalRows)
	assert.NotEmpty(t, preview.Warning)
}

func TestGenerateFailsLoudlyOnStoreFailure(t *testing.T) {
	resolver := &fakeResolver{err: &StoreError{Op: "findings", Err: errors.New("timeout")}}
	svc := NewReportService(resolver, zap.NewNop())

	_, err := svc.Generate(context.Background(), validSpec(DataSourceFindings), managementPrincipal())

	var storeErr *StoreError
	assert.ErrorAs(t, err, &storeErr, "exports never ship silently wrong data")
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(&fakeResolver{}, zap.NewNop())

	spec := validSpec(DataSourceFindings)
	spec.ExportFormat = "docx"

	_, err := svc.Generate(context.Background(), spec, managementPrincipal())
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestGenerateFilenames(t *testing.T) {
	tests := []struct {
		name     string
		specName string
		format   ExportFormat
		want     string
		wantType string
	}{
		{"csv", "weekly safety", ExportFormatCSV, "weekly safety.csv", "text/csv"},
		{"pdf", "weekly safety", ExportFormatPDF, "weekly safety.pdf", "application/pdf"},
		{"excel", "weekly safety", ExportFormatExcel, "weekly safety.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"default name", "", ExportFormatCSV, "report.csv", "text/csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewReportService(&fakeResolver{}, zap.NewNop())

			spec := validSpec(DataSourceFindings)
			spec.Name = tt.specName
			spec.ExportFormat = tt.format

			export, err := svc.Generate(context.Background(), spec, managementPrincipal())
			require.NoError(t, err)
			assert.Equal(t, tt.want, export.Filename)
			assert.Equal(t, tt.wantType, export.ContentType)
		})
	}
}

func TestGenerateStreamsResolvedRows(t *testing.T) {
	rows := []Row{
		&FindingRow{ID: primitive.NewObjectID().Hex(), Title: "Ladder misuse", Severity: "medium"},
	}
	svc := NewReportService(&fakeResolver{rows: rows}, zap.NewNop())

	spec := validSpec(DataSourceFindings)
	spec.Columns = []string{"title", "severity"}

	export, err := svc.Generate(context.Background(), spec, managementPrincipal())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, export.WriteTo(&buf))
	assert.Equal(t, "title,severity\nLadder misuse,medium\n", buf.String())
}
