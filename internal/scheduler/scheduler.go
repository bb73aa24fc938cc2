package scheduler

import (
	"fmt"
	"time"

	"cheque-ledger-backend/internal/config"
	"cheque-ledger-backend/internal/logger"

	"github.com/robfig/cron/v3"
)

// Runner is the set of jobs the scheduler triggers.
type Runner interface {
	SendDailyDigest()
	TakeBalanceSnapshots()
}

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs Runner
}

// NewScheduler creates a new scheduler with the provided job runner. It fails
// on an unparsable cron spec.
func NewScheduler(jobRunner Runner, cfg config.SchedulerConfig) (*Scheduler, error) {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	if err := s.registerJobs(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs(cfg config.SchedulerConfig) error {
	entries := []struct {
		name string
		spec string
		job  func()
	}{
		{"TakeBalanceSnapshots", cfg.TakeBalanceSnapshots, s.jobs.TakeBalanceSnapshots},
		{"SendDailyDigest", cfg.SendDailyDigest, s.jobs.SendDailyDigest},
	}

	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.job); err != nil {
			logger.Error("Failed to register job", "job", e.name, "spec", e.spec, "error", err)
			return fmt.Errorf("register %s (%q): %w", e.name, e.spec, err)
		}
		logger.Debug("Registered job", "job", e.name, "spec", e.spec)
	}

	logger.Info("All cron jobs registered successfully", "count", len(entries))
	return nil
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
