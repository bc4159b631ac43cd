package report

import (
	"context"
	"fmt"
	"time"

	common_models "go-safesite/internal/common/models"
	"go-safesite/internal/features/finding"
	"go-safesite/internal/features/project"
	"go-safesite/internal/features/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Resolver turns a report spec into the row set for its data source. Every
// strategy applies the spec filters, the role scope policy, and returns a
// typed error on store failure; nothing is swallowed here.
type Resolver interface {
	Resolve(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error)
}

type ResolverImpl struct {
	FindingRepo finding.FindingRepository
	ProjectRepo project.ProjectRepository
	UserRepo    user.UserRepository
	Logger      *zap.Logger
}

func NewResolver(findingRepo finding.FindingRepository, projectRepo project.ProjectRepository, userRepo user.UserRepository, logger *zap.Logger) Resolver {
	return &ResolverImpl{
		FindingRepo: findingRepo,
		ProjectRepo: projectRepo,
		UserRepo:    userRepo,
		Logger:      logger,
	}
}

func (r *ResolverImpl) Resolve(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error) {
	switch spec.DataSource {
	case DataSourceFindings:
		return r.resolveFindings(ctx, spec, principal)
	case DataSourceProjects:
		return r.resolveProjects(ctx, spec)
	case DataSourceAnalytics:
		return r.resolveAnalytics(ctx, spec, principal)
	case DataSourceCombined:
		return r.resolveCombined(ctx, spec, principal)
	default:
		return nil, fmt.Errorf("%w: unknown data source %q", ErrInvalidSpec, spec.DataSource)
	}
}

// dayStart truncates to local midnight; dayEnd is the last representable
// millisecond of the same day, matching the inclusive range contract.
func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayEnd(t time.Time) time.Time {
	return dayStart(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

func parseObjectIDs(ids []string) ([]primitive.ObjectID, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid id %q", ErrInvalidSpec, id)
		}
		oids = append(oids, oid)
	}
	return oids, nil
}

// findingsFilter builds the store query for the findings-backed strategies:
// created_at bounded to the inclusive date range, membership predicates for
// each non-empty filter set.
func findingsFilter(filters ReportFilters) (bson.M, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": dayStart(filters.DateRange.Start.Time),
			"$lte": dayEnd(filters.DateRange.End.Time),
		},
	}
	if len(filters.Severity) > 0 {
		filter["severity"] = bson.M{"$in": filters.Severity}
	}
	if len(filters.Status) > 0 {
		filter["status"] = bson.M{"$in": filters.Status}
	}
	if len(filters.Category) > 0 {
		filter["category"] = bson.M{"$in": filters.Category}
	}
	if len(filters.ProjectID) > 0 {
		oids, err := parseObjectIDs(filters.ProjectID)
		if err != nil {
			return nil, err
		}
		filter["project_id"] = bson.M{"$in": oids}
	}
	if len(filters.AssignedTo) > 0 {
		oids, err := parseObjectIDs(filters.AssignedTo)
		if err != nil {
			return nil, err
		}
		filter["assigned_to"] = bson.M{"$in": oids}
	}
	return filter, nil
}

// scopedFindings fetches findings for the spec with role scoping applied.
func (r *ResolverImpl) scopedFindings(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]finding.Finding, error) {
	filter, err := findingsFilter(spec.Filters)
	if err != nil {
		return nil, err
	}
	filter, err = ScopeFilter(filter, principal)
	if err != nil {
		return nil, err
	}
	findings, err := r.FindingRepo.Find(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "findings", Err: err}
	}
	return findings, nil
}

func (r *ResolverImpl) resolveFindings(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error) {
	findings, err := r.scopedFindings(ctx, spec, principal)
	if err != nil {
		return nil, err
	}

	projectNames, companies, err := r.projectLabels(ctx, findings)
	if err != nil {
		return nil, err
	}
	userNames, err := r.userLabels(ctx, findings)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(findings))
	for i := range findings {
		f := &findings[i]
		row := &FindingRow{
			ID:                      f.ID.Hex(),
			Title:                   f.Title,
			Description:             f.Description,
			Location:                f.Location,
			Severity:                string(f.Severity),
			Status:                  string(f.Status),
			Category:                string(f.Category),
			CreatedAt:               f.CreatedAt,
			UpdatedAt:               f.UpdatedAt,
			DueDate:                 f.DueDate,
			RegulatoryReference:     f.RegulatoryReference,
			ImmediateActionRequired: f.ImmediateActionRequired,
			ProjectID:               f.ProjectID.Hex(),
			ProjectName:             projectNames[f.ProjectID],
			Company:                 companies[f.ProjectID],
			CreatedBy:               f.CreatedBy.Hex(),
			CreatedByName:           userNames[f.CreatedBy],
		}
		if f.AssignedTo != nil {
			row.AssignedTo = f.AssignedTo.Hex()
			row.AssignedToName = userNames[*f.AssignedTo]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// resolveProjects is intentionally not role-scoped: project rollups are
// management-facing aggregates, and narrowing the nested findings to one
// contributor would produce misleading health scores.
func (r *ResolverImpl) resolveProjects(ctx context.Context, spec *ReportSpec) ([]Row, error) {
	filter := bson.M{
		"created_at": bson.M{
			"$gte": dayStart(spec.Filters.DateRange.Start.Time),
			"$lte": dayEnd(spec.Filters.DateRange.End.Time),
		},
	}
	if len(spec.Filters.ProjectID) > 0 {
		oids, err := parseObjectIDs(spec.Filters.ProjectID)
		if err != nil {
			return nil, err
		}
		filter["_id"] = bson.M{"$in": oids}
	}

	projects, err := r.ProjectRepo.Find(ctx, filter)
	if err != nil {
		return nil, &StoreError{Op: "projects", Err: err}
	}

	projectIDs := make([]primitive.ObjectID, len(projects))
	for i := range projects {
		projectIDs[i] = projects[i].ID
	}
	findings, err := r.FindingRepo.FindByProjectIDs(ctx, projectIDs)
	if err != nil {
		return nil, &StoreError{Op: "project findings", Err: err}
	}

	byProject := make(map[primitive.ObjectID][]finding.Finding)
	for i := range findings {
		byProject[findings[i].ProjectID] = append(byProject[findings[i].ProjectID], findings[i])
	}

	now := time.Now()
	rows := make([]Row, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		rows = append(rows, buildProjectRow(p, byProject[p.ID], now))
	}
	return rows, nil
}

func buildProjectRow(p *project.Project, findings []finding.Finding, now time.Time) *ProjectRow {
	var open, closed, overdue int
	for i := range findings {
		f := &findings[i]
		switch f.Status {
		case common_models.StatusOpen, common_models.StatusAssigned, common_models.StatusInProgress:
			open++
		case common_models.StatusClosed:
			closed++
		}
		if f.Status != common_models.StatusClosed && f.DueDate != nil && f.DueDate.Before(now) {
			overdue++
		}
	}
	total := len(findings)
	return &ProjectRow{
		ID:                p.ID.Hex(),
		Name:              p.Name,
		ClientCompany:     p.ClientCompany,
		ContractorCompany: p.ContractorCompany,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		FindingsCount:     total,
		OpenFindings:      open,
		ClosedFindings:    closed,
		OverdueFindings:   overdue,
		CompletionRate:    CompletionRate(closed, total),
		HealthScore:       HealthScore(total, overdue, open),
	}
}

func (r *ResolverImpl) resolveAnalytics(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error) {
	findings, err := r.scopedFindings(ctx, spec, principal)
	if err != nil {
		return nil, err
	}
	return buildTrendRows(findings, spec.Filters.DateRange.Start.Time, spec.Filters.DateRange.End.Time), nil
}

// buildTrendRows emits exactly one bucket per calendar day from start to end
// inclusive, ascending. The candidate findings are fetched once for the full
// range and bucketed in memory; swapping in store-side group-by-day only has
// to replace the caller's fetch, not this math.
func buildTrendRows(findings []finding.Finding, start, end time.Time) []Row {
	var rows []Row
	last := dayStart(end)
	for day := dayStart(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		from, to := day, dayEnd(day)

		var created, closedToday, overdueToday, total, closedCum int
		for i := range findings {
			f := &findings[i]
			if !f.CreatedAt.After(to) {
				total++
				if !f.CreatedAt.Before(from) {
					created++
				}
			}
			if f.Status == common_models.StatusClosed && !f.UpdatedAt.After(to) {
				// Cumulative closures key off the closure timestamp, so a
				// finding closed on day 3 does not count as closed on day 1.
				closedCum++
			}
			if f.Status == common_models.StatusClosed && within(f.UpdatedAt, from, to) {
				closedToday++
			}
			if f.Status != common_models.StatusClosed && f.DueDate != nil && within(*f.DueDate, from, to) {
				overdueToday++
			}
		}

		rows = append(rows, &TrendRow{
			Date:            day.Format("2006-01-02"),
			NewFindings:     created,
			ClosedFindings:  closedToday,
			OverdueFindings: overdueToday,
			TotalFindings:   total,
			CompletionRate:  TrendCompletionRate(closedCum, total),
		})
	}
	return rows
}

func within(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

func (r *ResolverImpl) resolveCombined(ctx context.Context, spec *ReportSpec, principal common_models.Principal) ([]Row, error) {
	findings, err := r.scopedFindings(ctx, spec, principal)
	if err != nil {
		return nil, err
	}

	projectNames, _, err := r.projectLabels(ctx, findings)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rows := make([]Row, 0, len(findings))
	for i := range findings {
		f := &findings[i]
		rows = append(rows, &CombinedRow{
			ProjectName:     projectNames[f.ProjectID],
			FindingTitle:    f.Title,
			Severity:        string(f.Severity),
			Status:          string(f.Status),
			CreatedAt:       f.CreatedAt,
			DueDate:         f.DueDate,
			DaysToResolve:   DaysToResolve(f.CreatedAt, f.UpdatedAt, f.Status),
			ComplianceScore: ComplianceScore(f.Status, f.Severity, f.DueDate, now),
		})
	}
	return rows, nil
}

// projectLabels batch-resolves project names and companies for a finding set.
func (r *ResolverImpl) projectLabels(ctx context.Context, findings []finding.Finding) (map[primitive.ObjectID]string, map[primitive.ObjectID]string, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for i := range findings {
		id := findings[i].ProjectID
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}

	projects, err := r.ProjectRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, &StoreError{Op: "project labels", Err: err}
	}

	names := make(map[primitive.ObjectID]string, len(projects))
	companies := make(map[primitive.ObjectID]string, len(projects))
	for i := range projects {
		p := &projects[i]
		names[p.ID] = p.Name
		company := p.ContractorCompany
		if company == "" {
			company = p.ClientCompany
		}
		companies[p.ID] = company
	}
	return names, companies, nil
}

func (r *ResolverImpl) userLabels(ctx context.Context, findings []finding.Finding) (map[primitive.ObjectID]string, error) {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	for i := range findings {
		add(findings[i].CreatedBy)
		if findings[i].AssignedTo != nil {
			add(*findings[i].AssignedTo)
		}
	}

	names, err := r.UserRepo.DisplayNames(ctx, ids)
	if err != nil {
		return nil, &StoreError{Op: "user labels", Err: err}
	}
	return names, nil
}
