package report

import (
	"math"
	"time"

	common_models "go-safesite/internal/common/models"
)

// Derived metric formulas shared by the projects and combined strategies and
// by the dashboard summary. Kept apart from query code so the two scoring
// surfaces can never drift and the arithmetic stays unit-testable.
//
// All rounding is half away from zero on the nearest integer; all rates are
// clamped to [0,100].

func clampRate(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// CompletionRate is the percentage of findings in a set that are closed.
// An empty set counts as fully complete.
func CompletionRate(closed, total int) int {
	if total == 0 {
		return 100
	}
	return clampRate(float64(closed) / float64(total) * 100)
}

// TrendCompletionRate is the cumulative completion rate used by the per-day
// trend buckets. Unlike CompletionRate, a day with no findings yet reads 0.
func TrendCompletionRate(closedCumulative, total int) int {
	if total == 0 {
		return 0
	}
	return clampRate(float64(closedCumulative) / float64(total) * 100)
}

// HealthScore penalizes a project for overdue and open findings:
// 100 - 2*overdue% - 0.5*open%, floored at 0.
func HealthScore(total, overdue, open int) int {
	if total == 0 {
		return 100
	}
	overduePct := float64(overdue) / float64(total) * 100
	openPct := float64(open) / float64(total) * 100
	return clampRate(100 - overduePct*2 - openPct*0.5)
}

// ComplianceScore scores a single finding. Precedence: anything overdue
// scores 0, closed findings score 100, everything else falls back to a
// severity-based score.
func ComplianceScore(status common_models.Status, severity common_models.Severity, dueDate *time.Time, now time.Time) int {
	pastDue := dueDate != nil && dueDate.Before(now) &&
		status != common_models.StatusClosed && status != common_models.StatusPendingApproval
	if status == common_models.StatusOverdue || pastDue {
		return 0
	}
	if status == common_models.StatusClosed {
		return 100
	}
	switch severity {
	case common_models.SeverityCritical:
		return 20
	case common_models.SeverityHigh:
		return 40
	case common_models.SeverityMedium:
		return 60
	default:
		return 80
	}
}

// DaysToResolve is the whole-day distance between creation and closure.
// Findings that are not closed resolve to nil.
func DaysToResolve(createdAt, updatedAt time.Time, status common_models.Status) *int {
	if status != common_models.StatusClosed || updatedAt.IsZero() {
		return nil
	}
	days := int(math.Round(updatedAt.Sub(createdAt).Seconds() / 86400))
	return &days
}
