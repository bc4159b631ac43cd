package report

import (
	"fmt"
	"strings"
	"time"

	common_models "go-safesite/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DataSource string

const (
	DataSourceFindings  DataSource = "findings"
	DataSourceProjects  DataSource = "projects"
	DataSourceAnalytics DataSource = "analytics"
	DataSourceCombined  DataSource = "combined"
)

type ExportFormat string

const (
	ExportFormatPDF   ExportFormat = "pdf"
	ExportFormatExcel ExportFormat = "excel"
	ExportFormatCSV   ExportFormat = "csv"
)

type ChartType string

const (
	ChartTypeTable ChartType = "table"
	ChartTypeBar   ChartType = "bar"
	ChartTypeLine  ChartType = "line"
	ChartTypePie   ChartType = "pie"
	ChartTypeArea  ChartType = "area"
)

// Date is a calendar date carried in report filters. It accepts the plain
// "2006-01-02" form the report builder sends as well as full RFC3339.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q", s)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

type ReportFilters struct {
	DateRange  DateRange                `json:"dateRange"`
	Severity   []common_models.Severity `json:"severity,omitempty"`
	Status     []common_models.Status   `json:"status,omitempty"`
	Category   []common_models.Category `json:"category,omitempty"`
	ProjectID  []string                 `json:"projectId,omitempty"`
	AssignedTo []string                 `json:"assignedTo,omitempty"`
}

// ReportSpec is the request-scoped description of a report. It is never
// persisted; see the template stub on the controller.
type ReportSpec struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	DataSource   DataSource    `json:"dataSource"`
	Filters      ReportFilters `json:"filters"`
	Columns      []string      `json:"columns,omitempty"`
	ChartType    ChartType     `json:"chartType,omitempty"`
	ExportFormat ExportFormat  `json:"exportFormat,omitempty"`
}

// Row is one resolved record. The concrete shape varies by data source;
// renderers only see the ordered (column, value) projection through Value.
type Row interface {
	Value(column string) any
}

type FindingRow struct {
	ID                      string     `json:"id"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Location                string     `json:"location"`
	Severity                string     `json:"severity"`
	Status                  string     `json:"status"`
	Category                string     `json:"category"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	DueDate                 *time.Time `json:"due_date,omitempty"`
	RegulatoryReference     string     `json:"regulatory_reference"`
	ImmediateActionRequired bool       `json:"immediate_action_required"`
	ProjectID               string     `json:"project_id"`
	ProjectName             string     `json:"project_name"`
	Company                 string     `json:"company"`
	CreatedBy               string     `json:"created_by"`
	CreatedByName           string     `json:"created_by_name"`
	AssignedTo              string     `json:"assigned_to,omitempty"`
	AssignedToName          string     `json:"assigned_to_name,omitempty"`
}

func (r *FindingRow) Value(column string) any {
	switch column {
	case "id":
		return r.ID
	case "title":
		return r.Title
	case "description":
		return r.Description
	case "location":
		return r.Location
	case "severity":
		return r.Severity
	case "status":
		return r.Status
	case "category":
		return r.Category
	case "created_at":
		return r.CreatedAt
	case "updated_at":
		return r.UpdatedAt
	case "due_date":
		return r.DueDate
	case "regulatory_reference":
		return r.RegulatoryReference
	case "immediate_action_required":
		return r.ImmediateActionRequired
	case "project_id":
		return r.ProjectID
	case "project_name":
		return r.ProjectName
	case "company":
		return r.Company
	case "created_by":
		return r.CreatedBy
	case "created_by_name":
		return r.CreatedByName
	case "assigned_to":
		return r.AssignedTo
	case "assigned_to_name":
		return r.AssignedToName
	default:
		return nil
	}
}

type ProjectRow struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ClientCompany     string    `json:"client_company"`
	ContractorCompany string    `json:"contractor_company"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	FindingsCount     int       `json:"findings_count"`
	OpenFindings      int       `json:"open_findings"`
	ClosedFindings    int       `json:"closed_findings"`
	OverdueFindings   int       `json:"overdue_findings"`
	CompletionRate    int       `json:"completion_rate"`
	HealthScore       int       `json:"health_score"`
}

func (r *ProjectRow) Value(column string) any {
	switch column {
	case "id":
		return r.ID
	case "name":
		return r.Name
	case "client_company":
		return r.ClientCompany
	case "contractor_company":
		return r.ContractorCompany
	case "status":
		return r.Status
	case "created_at":
		return r.CreatedAt
	case "findings_count":
		return r.FindingsCount
	case "open_findings":
		return r.OpenFindings
	case "closed_findings":
		return r.ClosedFindings
	case "overdue_findings":
		return r.OverdueFindings
	case "completion_rate":
		return r.CompletionRate
	case "health_score":
		return r.HealthScore
	default:
		return nil
	}
}

// TrendRow is one calendar day's aggregated counts in the analytics source.
type TrendRow struct {
	Date            string `json:"date"`
	NewFindings     int    `json:"new_findings"`
	ClosedFindings  int    `json:"closed_findings"`
	OverdueFindings int    `json:"overdue_findings"`
	TotalFindings   int    `json:"total_findings"`
	CompletionRate  int    `json:"completion_rate"`
}

func (r *TrendRow) Value(column string) any {
	switch column {
	case "date":
		return r.Date
	case "new_findings":
		return r.NewFindings
	case "closed_findings":
		return r.ClosedFindings
	case "overdue_findings":
		return r.OverdueFindings
	case "total_findings":
		return r.TotalFindings
	case "completion_rate":
		return r.CompletionRate
	default:
		return nil
	}
}

type CombinedRow struct {
	ProjectName     string     `json:"project_name"`
	FindingTitle    string     `json:"finding_title"`
	Severity        string     `json:"severity"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DaysToResolve   *int       `json:"days_to_resolve,omitempty"`
	ComplianceScore int        `json:"compliance_score"`
}

func (r *CombinedRow) Value(column string) any {
	switch column {
	case "project_name":
		return r.ProjectName
	case "finding_title":
		return r.FindingTitle
	case "severity":
		return r.Severity
	case "status":
		return r.Status
	case "created_at":
		return r.CreatedAt
	case "due_date":
		return r.DueDate
	case "days_to_resolve":
		return r.DaysToResolve
	case "compliance_score":
		return r.ComplianceScore
	default:
		return nil
	}
}

// reportColumns is the ordered column registry per data source. Requested
// columns are validated against it, and it is the default column set when a
// spec names none.
var reportColumns = map[DataSource][]string{
	DataSourceFindings: {
		"id", "title", "description", "location", "severity", "status",
		"category", "created_at", "updated_at", "due_date",
		"regulatory_reference", "immediate_action_required", "project_id",
		"project_name", "company", "created_by", "created_by_name",
		"assigned_to", "assigned_to_name",
	},
	DataSourceProjects: {
		"id", "name", "client_company", "contractor_company", "status",
		"created_at", "findings_count", "open_findings", "closed_findings",
		"overdue_findings", "completion_rate", "health_score",
	},
	DataSourceAnalytics: {
		"date", "new_findings", "closed_findings", "overdue_findings",
		"total_findings", "completion_rate",
	},
	DataSourceCombined: {
		"project_name", "finding_title", "severity", "status", "created_at",
		"due_date", "days_to_resolve", "compliance_score",
	},
}

// ColumnsFor returns the ordered column keys valid for a data source.
func ColumnsFor(source DataSource) ([]string, bool) {
	cols, ok := reportColumns[source]
	return cols, ok
}

// columnLabel turns a column key into the display label used by the PDF and
// spreadsheet headers: underscores become spaces, the result is upper-cased.
// The CSV header keeps raw keys, so downstream parsers see stable names.
func columnLabel(column string) string {
	return strings.ToUpper(strings.ReplaceAll(column, "_", " "))
}

// cellString coerces a cell value to its exported string form. Absent values
// render as the empty string.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02 15:04:05")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	case *int:
		if t == nil {
			return ""
		}
		return fmt.Sprintf("%d", *t)
	case primitive.ObjectID:
		return t.Hex()
	default:
		return fmt.Sprintf("%v", t)
	}
}
