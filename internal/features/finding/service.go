package finding

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweeper periodically promotes stale findings to the overdue status.
type OverdueSweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

type OverdueSweeperImpl struct {
	FindingRepo FindingRepository
	Logger      *zap.Logger
}

func NewOverdueSweeper(findingRepo FindingRepository, logger *zap.Logger) OverdueSweeper {
	return &OverdueSweeperImpl{
		FindingRepo: findingRepo,
		Logger:      logger,
	}
}

func (s *OverdueSweeperImpl) Sweep(ctx context.Context) (int64, error) {
	updated, err := s.FindingRepo.MarkOverdue(ctx, time.Now())
	if err != nil {
		s.Logger.Error("overdue sweep failed", zap.Error(err))
		return 0, err
	}
	if updated > 0 {
		s.Logger.Info("overdue sweep finished", zap.Int64("updated", updated))
	}
	return updated, nil
}
