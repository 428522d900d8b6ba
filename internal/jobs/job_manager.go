// Package jobs provides the scheduled background tasks of the parcel
// tracking service, built on github.com/robfig/cron/v3.
//
// The only job today is NotificationRedeliveryJob, which re-publishes
// notification events the dispatcher could not deliver on the first attempt.
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(dispatcher, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	redeliveryJob *NotificationRedeliveryJob
}

// NewJobManager creates a job manager wired to the event dispatcher's retry
// buffer.
func NewJobManager(retrier PendingRetrier, logger *slog.Logger) *JobManager {
	return &JobManager{
		redeliveryJob: NewNotificationRedeliveryJob(retrier, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.redeliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification redelivery job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs.
func (jm *JobManager) StopAll() {
	jm.redeliveryJob.Stop()
}
