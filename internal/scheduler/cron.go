package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"golistarr/internal/controllers"
)

// Scheduler manages the periodic maintenance jobs
type Scheduler struct {
	cron        *cron.Cron
	cleanupCtrl *controllers.CleanupController
	logger      *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(cleanupCtrl *controllers.CleanupController, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		cleanupCtrl: cleanupCtrl,
		logger:      logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Daily at 03:00: refresh still-active titles from the catalog
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	// Daily at 04:00: sweep orphaned media items and persons
	_, err = s.cron.AddFunc("0 4 * * *", func() {
		s.runSweep()
	})
	if err != nil {
		return fmt.Errorf("failed to add orphan sweep job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runRefresh executes the active-media refresh job
func (s *Scheduler) runRefresh() {
	s.logger.Info("Running scheduled active-media refresh")
	ctx := context.Background()

	if err := s.cleanupCtrl.RefreshActiveMedia(ctx); err != nil {
		s.logger.WithError(err).Error("Active-media refresh failed")
	} else {
		s.logger.Info("Active-media refresh completed successfully")
	}
}

// runSweep executes the orphan sweep job
func (s *Scheduler) runSweep() {
	s.logger.Info("Running scheduled orphan sweep")
	ctx := context.Background()

	if err := s.cleanupCtrl.SweepOrphans(ctx); err != nil {
		s.logger.WithError(err).Error("Orphan sweep failed")
	}
}
