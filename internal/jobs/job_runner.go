package jobs

import (
	"context"
	"fmt"
	"time"

	"cheque-ledger-backend/internal/logger"
	"cheque-ledger-backend/internal/repository"
	"cheque-ledger-backend/internal/service"
)

// jobTimeout bounds a single run.
const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	reports   service.ReportService
	email     service.EmailService
	snapshots repository.SnapshotRepository
	now       func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(reports service.ReportService, email service.EmailService, snapshots repository.SnapshotRepository) *JobRunner {
	return &JobRunner{
		reports:   reports,
		email:     email,
		snapshots: snapshots,
		now:       time.Now,
	}
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := jr.now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", jr.now().Sub(start))
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.TakeBalanceSnapshots()
	jr.SendDailyDigest()
}

// today is the current UTC calendar date at midnight.
func (jr *JobRunner) today() time.Time {
	return jr.now().UTC().Truncate(24 * time.Hour)
}

// unavailableError reports a report read that degraded instead of answering.
func unavailableError(report, reason string) error {
	return fmt.Errorf("%s unavailable: %s", report, reason)
}
