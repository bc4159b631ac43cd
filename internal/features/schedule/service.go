package schedule

import (
	"context"
	"time"

	"go-safesite/internal/features/finding"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler owns the background cron jobs: the hourly overdue sweep and the
// daily report-delivery slot. Delivery itself is a stub; the job exists so
// the wiring is in place when it lands.
type Scheduler interface {
	Start() error
	Stop() error
}

type SchedulerImpl struct {
	Sweeper finding.OverdueSweeper
	Logger  *zap.Logger
	cron    *cron.Cron
}

func NewScheduler(sweeper finding.OverdueSweeper, logger *zap.Logger) Scheduler {
	return &SchedulerImpl{
		Sweeper: sweeper,
		Logger:  logger,
		cron:    cron.New(),
	}
}

func (s *SchedulerImpl) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.runSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("@daily", s.deliverScheduledReports); err != nil {
		return err
	}
	s.cron.Start()
	s.Logger.Info("scheduler started")
	return nil
}

func (s *SchedulerImpl) Stop() error {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.Logger.Info("scheduler stopped")
	return nil
}

func (s *SchedulerImpl) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Sweeper.Sweep(ctx)
}

func (s *SchedulerImpl) deliverScheduledReports() {
	s.Logger.Info("scheduled report delivery is not implemented, skipping run")
}
