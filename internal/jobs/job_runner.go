package jobs

import (
	"context"
	"time"

	"vehicle-rental-backend/internal/config"
	"vehicle-rental-backend/internal/logger"
	"vehicle-rental-backend/internal/repository"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rents  repository.RentRepository
	config *config.Config
	now    func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rents repository.RentRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rents:  rents,
		config: cfg,
		now:    time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx := logger.WithRequestID(context.Background(), jobName+"-"+jr.now().UTC().Format("20060102T150405"))
	logger.InfoContext(ctx, "Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.ErrorContext(ctx, "Job failed", "job", jobName, "error", err)
		return
	}
	logger.InfoContext(ctx, "Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.MarkOverdueRents()
}
