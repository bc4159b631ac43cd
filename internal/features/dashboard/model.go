package dashboard

// SiteMetrics is the role-scoped summary behind the dashboard landing view.
// All derived numbers come from the report metrics functions so the
// dashboard can never disagree with an exported report.
type SiteMetrics struct {
	TotalFindings   int            `json:"total_findings"`
	OpenFindings    int            `json:"open_findings"`
	ClosedFindings  int            `json:"closed_findings"`
	OverdueFindings int            `json:"overdue_findings"`
	CompletionRate  int            `json:"completion_rate"`
	HealthScore     int            `json:"health_score"`
	BySeverity      map[string]int `json:"by_severity"`
	ByCategory      map[string]int `json:"by_category"`
}
