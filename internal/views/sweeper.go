package views

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Sweeper periodically closes idle views and purges the ledger.
type Sweeper struct {
	scheduler gocron.Scheduler
}

// StartSweeper schedules Sweep every interval and the ledger purge every
// purgeEvery. It replaces any sweeper already running.
func (m *Manager) StartSweeper(interval, purgeEvery time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	if _, err := s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { m.Sweep(context.Background()) }),
		gocron.WithName("sweep-idle-views"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to schedule view sweep: %w", err)
	}

	if purgeEvery > 0 {
		if _, err := s.NewJob(
			gocron.DurationJob(purgeEvery),
			gocron.NewTask(func() {
				if _, err := m.Purge(context.Background()); err != nil {
					m.logger.Error("Error purging page view ledger", zap.Error(err))
				}
			}),
			gocron.WithName("purge-ledger"),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		); err != nil {
			_ = s.Shutdown()
			return fmt.Errorf("failed to schedule ledger purge: %w", err)
		}
	}

	if m.sweeper != nil {
		_ = m.sweeper.Stop()
	}
	m.sweeper = &Sweeper{scheduler: s}
	s.Start()
	m.logger.Info("View sweeper started", zap.Duration("interval", interval), zap.Duration("purge_every", purgeEvery))
	return nil
}

// Stop shuts the scheduler down and waits for running jobs.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}
