package dashboard

import (
	"context"
	"time"

	common_models "go-safesite/internal/common/models"
	"go-safesite/internal/features/finding"
	"go-safesite/internal/features/report"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

type DashboardService interface {
	Metrics(ctx context.Context, principal common_models.Principal) (*SiteMetrics, error)
}

type DashboardServiceImpl struct {
	FindingRepo finding.FindingRepository
	Logger      *zap.Logger
}

func NewDashboardService(findingRepo finding.FindingRepository, logger *zap.Logger) DashboardService {
	return &DashboardServiceImpl{
		FindingRepo: findingRepo,
		Logger:      logger,
	}
}

func (s *DashboardServiceImpl) Metrics(ctx context.Context, principal common_models.Principal) (*SiteMetrics, error) {
	filter, err := report.ScopeFilter(bson.M{}, principal)
	if err != nil {
		return nil, err
	}

	findings, err := s.FindingRepo.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	return summarize(findings, time.Now()), nil
}

func summarize(findings []finding.Finding, now time.Time) *SiteMetrics {
	metrics := &SiteMetrics{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}

	var open int
	for i := range findings {
		f := &findings[i]
		metrics.BySeverity[string(f.Severity)]++
		metrics.ByCategory[string(f.Category)]++

		switch f.Status {
		case common_models.StatusOpen, common_models.StatusAssigned, common_models.StatusInProgress:
			open++
		case common_models.StatusClosed:
			metrics.ClosedFindings++
		}
		if f.Status != common_models.StatusClosed && f.DueDate != nil && f.DueDate.Before(now) {
			metrics.OverdueFindings++
		}
	}

	metrics.TotalFindings = len(findings)
	metrics.OpenFindings = open
	metrics.CompletionRate = report.CompletionRate(metrics.ClosedFindings, metrics.TotalFindings)
	metrics.HealthScore = report.HealthScore(metrics.TotalFindings, metrics.OverdueFindings, open)
	return metrics
}
