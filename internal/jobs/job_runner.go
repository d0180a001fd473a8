package jobs

import (
	"database/sql"

	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/config"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/logger"
	"github.com/Benardkosgei/ecolithafricaswap-sub000/internal/repository/postgres"
)

// JobRunner coordinates all scheduled settlement jobs.
type JobRunner struct {
	db     *sql.DB
	store  *postgres.Store
	config *config.Config
}

// NewJobRunner creates a new job runner with all dependencies.
func NewJobRunner(db *sql.DB, store *postgres.Store, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:     db,
		store:  store,
		config: cfg,
	}
}

// Config exposes the configuration for schedule registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs every nightly job once (for manual execution).
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireStalePendingPayments()
	jr.ReconcileRentalPaymentStatus()
}
