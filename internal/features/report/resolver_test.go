package report

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-safesite/internal/common/models"
	"go-safesite/internal/features/finding"
	"go-safesite/internal/features/project"
	"go-safesite/internal/features/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type fakeFindingRepo struct {
	findings   []finding.Finding
	err        error
	lastFilter bson.M
}

func (f *fakeFindingRepo) Find(ctx context.Context, filter bson.M) ([]finding.Finding, error) {
	f.lastFilter = filter
	return f.findings, f.err
}

func (f *fakeFindingRepo) FindByProjectIDs(ctx context.Context, projectIDs []primitive.ObjectID) ([]finding.Finding, error) {
	return f.findings, f.err
}

func (f *fakeFindingRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeProjectRepo struct {
	projects   []project.Project
	err        error
	lastFilter bson.M
}

func (f *fakeProjectRepo) Find(ctx context.Context, filter bson.M) ([]project.Project, error) {
	f.lastFilter = filter
	return f.projects, f.err
}

func (f *fakeProjectRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]project.Project, error) {
	return f.projects, f.err
}

type fakeUserRepo struct {
	names map[primitive.ObjectID]string
	err   error
}

func (f *fakeUserRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) DisplayNames(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	return f.names, f.err
}

func newTestResolver(findings *fakeFindingRepo, projects *fakeProjectRepo, users *fakeUserRepo) Resolver {
	if findings == nil {
		findings = &fakeFindingRepo{}
	}
	if projects == nil {
		projects = &fakeProjectRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewResolver(findings, projects, users, zap.NewNop())
}

func specFor(source DataSource, start, end time.Time) *ReportSpec {
	return &ReportSpec{
		Name:       "test report",
		DataSource: source,
		Filters: ReportFilters{
			DateRange: DateRange{Start: Date{Time: start}, End: Date{Time: end}},
		},
	}
}

func managementPrincipal() common_models.Principal {
	return common_models.Principal{ID: primitive.NewObjectID(), Role: common_models.RoleHSEManager}
}

func TestResolveAnalyticsThreeDayTrend(t *testing.T) {
	projectID := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	day1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	findings := []finding.Finding{
		{
			ID: primitive.NewObjectID(), Title: "Missing guardrail",
			Severity: common_models.SeverityHigh, Status: common_models.StatusOpen,
			ProjectID: projectID, CreatedBy: creator,
			CreatedAt: day1.Add(9 * time.Hour), UpdatedAt: day1.Add(9 * time.Hour),
		},
		{
			ID: primitive.NewObjectID(), Title: "Blocked exit",
			Severity: common_models.SeverityMedium, Status: common_models.StatusClosed,
			ProjectID: projectID, CreatedBy: creator,
			CreatedAt: day1.Add(11 * time.Hour), UpdatedAt: day1.AddDate(0, 0, 1).Add(10 * time.Hour),
		},
	}

	resolver := newTestResolver(&fakeFindingRepo{findings: findings}, nil, nil)
	rows, err := resolver.Resolve(context.Background(), specFor(DataSourceAnalytics, day1, day3), managementPrincipal())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	want := []TrendRow{
		{Date: "2024-01-01", NewFindings: 2, ClosedFindings: 0, TotalFindings: 2, CompletionRate: 0},
		{Date: "2024-01-02", NewFindings: 0, ClosedFindings: 1, TotalFindings: 2, CompletionRate: 50},
		{Date: "2024-01-03", NewFindings: 0, ClosedFindings: 0, TotalFindings: 2, CompletionRate: 50},
	}
	for i := range want {
		got, ok := rows[i].(*TrendRow)
		require.True(t, ok)
		assert.Equal(t, want[i].Date, got.Date, "day %d date", i+1)
		assert.Equal(t, want[i].NewFindings, got.NewFindings, "day %d new", i+1)
		assert.Equal(t, want[i].ClosedFindings, got.ClosedFindings, "day %d closed", i+1)
		assert.Equal(t, want[i].TotalFindings, got.TotalFindings, "day %d total", i+1)
		assert.Equal(t, want[i].CompletionRate, got.CompletionRate, "day %d rate", i+1)
	}
}

func TestBuildTrendRowsProperties(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)

	var findings []finding.Finding
	for i := 0; i < 10; i++ {
		findings = append(findings, finding.Finding{
			Status:    common_models.StatusOpen,
			CreatedAt: start.AddDate(0, 0, i).Add(8 * time.Hour),
			UpdatedAt: start.AddDate(0, 0, i).Add(8 * time.Hour),
		})
	}

	rows := buildTrendRows(findings, start, end)
	require.Len(t, rows, 14, "one row per day, inclusive range")

	prevDate := ""
	prevTotal := -1
	for _, r := range rows {
		row := r.(*TrendRow)
		assert.Greater(t, row.Date, prevDate, "strictly ascending dates")
		assert.GreaterOrEqual(t, row.TotalFindings, prevTotal, "cumulative total never shrinks")
		prevDate = row.Date
		prevTotal = row.TotalFindings
	}
}

func TestResolveFindingsJoinsLabels(t *testing.T) {
	projectID := primitive.NewObjectID()
	creator := primitive.NewObjectID()
	assignee := primitive.NewObjectID()
	created := time.Date(2024, 5, 10, 14, 0, 0, 0, time.UTC)

	findingRepo := &fakeFindingRepo{findings: []finding.Finding{
		{
			ID: primitive.NewObjectID(), Title: "Exposed wiring", Location: "Level 2",
			Severity: common_models.SeverityCritical, Status: common_models.StatusAssigned,
			Category: common_models.CategoryElectrical,
			ProjectID: projectID, CreatedBy: creator, AssignedTo: &assignee,
			CreatedAt: created, UpdatedAt: created,
		},
	}}
	projectRepo := &fakeProjectRepo{projects: []project.Project{
		{ID: projectID, Name: "Harbor Tower", ClientCompany: "Northside Dev", ContractorCompany: "Beacon Build"},
	}}
	userRepo := &fakeUserRepo{names: map[primitive.ObjectID]string{
		creator:  "Dana Reyes",
		assignee: "Lee Chapman",
	}}

	resolver := newTestResolver(findingRepo, projectRepo, userRepo)
	rows, err := resolver.Resolve(context.Background(), specFor(DataSourceFindings, created.AddDate(0, 0, -1), created), managementPrincipal())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0].(*FindingRow)
	assert.Equal(t, "Harbor Tower", row.ProjectName)
	assert.Equal(t, "Beacon Build", row.Company)
	assert.Equal(t, "Dana Reyes", row.CreatedByName)
	assert.Equal(t, "Lee Chapman", row.AssignedToName)
	assert.Equal(t, "critical", row.Severity)
}

func TestResolveFindingsContributorScope(t *testing.T) {
	findingRepo := &fakeFindingRepo{}
	resolver := newTestResolver(findingRepo, nil, nil)

	principal := common_models.Principal{ID: primitive.NewObjectID(), Role: common_models.RoleWorker}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), specFor(DataSourceFindings, start, start), principal)
	require.NoError(t, err)

	or, ok := findingRepo.lastFilter["$or"].([]bson.M)
	require.True(t, ok, "contributor query must carry the ownership clause")
	assert.Contains(t, or, bson.M{"created_by": principal.ID})
	assert.Contains(t, or, bson.M{"assigned_to": principal.ID})
}

func TestResolveFindingsEmptyFiltersOnlyBoundDates(t *testing.T) {
	findingRepo := &fakeFindingRepo{}
	resolver := newTestResolver(findingRepo, nil, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), specFor(DataSourceFindings, start, start.AddDate(0, 0, 7)), managementPrincipal())
	require.NoError(t, err)

	// Empty filter sets narrow nothing: the only predicate is the range.
	require.Len(t, findingRepo.lastFilter, 1)
	rangeFilter, ok := findingRepo.lastFilter["created_at"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, start, rangeFilter["$gte"])
	assert.Equal(t, start.AddDate(0, 0, 8).Add(-time.Millisecond), rangeFilter["$lte"])
}

func TestResolveProjectsRollup(t *testing.T) {
	projectID := primitive.NewObjectID()
	now := time.Now()
	pastDue := now.AddDate(0, 0, -2)

	projectRepo := &fakeProjectRepo{projects: []project.Project{
		{ID: projectID, Name: "Depot Refit", Status: "active", CreatedAt: now.AddDate(0, -1, 0)},
	}}
	findingRepo := &fakeFindingRepo{findings: []finding.Finding{
		{ProjectID: projectID, Status: common_models.StatusOpen},
		{ProjectID: projectID, Status: common_models.StatusInProgress},
		{ProjectID: projectID, Status: common_models.StatusOverdue, DueDate: &pastDue},
		{ProjectID: projectID, Status: common_models.StatusClosed},
	}}

	resolver := newTestResolver(findingRepo, projectRepo, nil)
	spec := specFor(DataSourceProjects, now.AddDate(0, -2, 0), now)
	rows, err := resolver.Resolve(context.Background(), spec, managementPrincipal())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0].(*ProjectRow)
	assert.Equal(t, 4, row.FindingsCount)
	assert.Equal(t, 2, row.OpenFindings)
	assert.Equal(t, 1, row.ClosedFindings)
	assert.Equal(t, 1, row.OverdueFindings)
	assert.Equal(t, 25, row.CompletionRate)
	assert.Equal(t, 25, row.HealthScore)
}

func TestResolveProjectsIsNotRoleScoped(t *testing.T) {
	projectRepo := &fakeProjectRepo{}
	resolver := newTestResolver(nil, projectRepo, nil)

	principal := common_models.Principal{ID: primitive.NewObjectID(), Role: common_models.RoleSubcontractor}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), specFor(DataSourceProjects, start, start), principal)
	require.NoError(t, err)

	_, scoped := projectRepo.lastFilter["$or"]
	assert.False(t, scoped, "project rollups stay unscoped")
}

func TestResolveCombined(t *testing.T) {
	projectID := primitive.NewObjectID()
	created := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	findingRepo := &fakeFindingRepo{findings: []finding.Finding{
		{
			Title: "Scaffold gap", Severity: common_models.SeverityCritical,
			Status: common_models.StatusClosed, ProjectID: projectID,
			CreatedAt: created, UpdatedAt: created.AddDate(0, 0, 4),
		},
		{
			Title: "No hard hat", Severity: common_models.SeverityHigh,
			Status: common_models.StatusOpen, ProjectID: projectID,
			CreatedAt: created, UpdatedAt: created,
		},
	}}
	projectRepo := &fakeProjectRepo{projects: []project.Project{
		{ID: projectID, Name: "Depot Refit"},
	}}

	resolver := newTestResolver(findingRepo, projectRepo, nil)
	rows, err := resolver.Resolve(context.Background(), specFor(DataSourceCombined, created, created.AddDate(0, 0, 30)), managementPrincipal())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	closed := rows[0].(*CombinedRow)
	assert.Equal(t, "Depot Refit", closed.ProjectName)
	assert.Equal(t, 100, closed.ComplianceScore, "closed wins over critical severity")
	if assert.NotNil(t, closed.DaysToResolve) {
		assert.Equal(t, 4, *closed.DaysToResolve)
	}

	open := rows[1].(*CombinedRow)
	assert.Equal(t, 40, open.ComplianceScore)
	assert.Nil(t, open.DaysToResolve)
}

func TestResolveUnknownDataSource(t *testing.T) {
	resolver := newTestResolver(nil, nil, nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), specFor(DataSource("tickets"), start, start), managementPrincipal())
	assert.ErrorIs(t, err, ErrInvalidSpec)
}

func TestResolveStoreFailure(t *testing.T) {
	findingRepo := &fakeFindingRepo{err: errors.New("connection reset")}
	resolver := newTestResolver(findingRepo, nil, nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := resolver.Resolve(context.Background(), specFor(DataSourceFindings, start, start), managementPrincipal())

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "findings", storeErr.Op)
}
