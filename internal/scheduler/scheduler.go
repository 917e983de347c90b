// Package scheduler runs periodic database maintenance on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"fintrack/internal/log"
)

// maintenanceStore is the repository subset the scheduler needs.
type maintenanceStore interface {
	DeactivateExpiredVouchers(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler deactivates expired vouchers hourly and purges expired
// sessions nightly.
type Scheduler struct {
	cron   *cron.Cron
	store  maintenanceStore
	logger *log.Logger
}

func New(store maintenanceStore, logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		logger: logger.WithComponent(log.ComponentScheduler),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.deactivateVouchers); err != nil {
		return fmt.Errorf("schedule voucher deactivation: %w", err)
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.purgeSessions); err != nil {
		return fmt.Errorf("schedule session purge: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) deactivateVouchers() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.DeactivateExpiredVouchers(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("voucher deactivation failed", log.FieldError, err)
		return
	}
	if n > 0 {
		s.logger.Info("expired vouchers deactivated", "count", n)
	}
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.DeleteExpiredSessions(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("session purge failed", log.FieldError, err)
		return
	}
	if n > 0 {
		s.logger.Info("expired sessions purged", "count", n)
	}
}
