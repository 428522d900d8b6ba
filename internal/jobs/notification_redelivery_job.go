package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// redeliverySchedule retries buffered events every 30 seconds. Frequent
// enough that a broker blip delays notifications by half a minute at most,
// rare enough not to hammer a broker that is still down.
const redeliverySchedule = "*/30 * * * * *"

// PendingRetrier re-publishes notification events that failed their initial
// fire-and-forget delivery.
type PendingRetrier interface {
	RetryPending(ctx context.Context) (delivered, remaining int)
}

// NotificationRedeliveryJob periodically drains the dispatcher's buffer of
// undelivered events.
type NotificationRedeliveryJob struct {
	retrier PendingRetrier
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewNotificationRedeliveryJob creates the redelivery job around the event
// dispatcher's retry buffer.
func NewNotificationRedeliveryJob(retrier PendingRetrier, logger *slog.Logger) *NotificationRedeliveryJob {
	return &NotificationRedeliveryJob{
		retrier: retrier,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "notification_redelivery_job"),
	}
}

// Start begins the redelivery job on its fixed schedule.
func (j *NotificationRedeliveryJob) Start() error {
	_, err := j.cron.AddFunc(redeliverySchedule, func() {
		ctx := context.Background()

		delivered, remaining := j.retrier.RetryPending(ctx)
		if delivered > 0 || remaining > 0 {
			j.logger.InfoContext(ctx, "Notification redelivery pass finished",
				"delivered", delivered, "remaining", remaining)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification redelivery job started")
	return nil
}

// Stop stops the redelivery job.
func (j *NotificationRedeliveryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification redelivery job stopped")
}
