package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"task-flow-api/internal/repository"
)

// CleanupJob periodically purges field value rows left behind by soft
// deleted tasks. Stale values of live tasks are kept; only rows whose task
// is gone are removed.
type CleanupJob struct {
	taskRepo repository.TaskRepository
	logger   *zap.Logger
	cron     *cron.Cron
	schedule string
}

// NewCleanupJob creates a new cleanup job with the given cron schedule
func NewCleanupJob(taskRepo repository.TaskRepository, schedule string, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		taskRepo: taskRepo,
		logger:   logger,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Start registers and starts the cron schedule
func (j *CleanupJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Started field value cleanup job", zap.String("schedule", j.schedule))
	return nil
}

// Stop stops the cron scheduler and waits for a running job to finish
func (j *CleanupJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run performs one cleanup pass
func (j *CleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := j.taskRepo.DeleteOrphanedFieldValues(ctx)
	if err != nil {
		j.logger.Error("Field value cleanup failed", zap.Error(err))
		return
	}
	if removed > 0 {
		j.logger.Info("Purged orphaned field values", zap.Int64("removed", removed))
	}
}
