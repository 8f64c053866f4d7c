package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/academia-dev/academia/internal/models"
	"github.com/academia-dev/academia/internal/tasks"
)

// outboxRetrySchedule is a standard 5-field cron expression. Every
// activation scans the outbox for pending entries whose backoff has
// elapsed.
const outboxRetrySchedule = "*/2 * * * *"

// StartOutboxScheduler periodically re-enqueues pending outbox entries
// for delivery. Runs until the process exits.
func StartOutboxScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(outboxRetrySchedule)
	if err != nil {
		logger.Error().Err(err).Str("schedule", outboxRetrySchedule).Msg("invalid outbox retry schedule")
		return
	}

	// Run immediately on startup, then on the cron schedule
	checkAndEnqueueOutboxRetries(client, db, logger)

	for {
		next := schedule.Next(time.Now())
		time.Sleep(time.Until(next))
		checkAndEnqueueOutboxRetries(client, db, logger)
	}
}

func checkAndEnqueueOutboxRetries(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	var entries []models.EmailOutbox
	err := db.
		Where("status = ? AND attempts > 0 AND attempts < ?", models.OutboxPending, maxSendAttempts).
		Order("last_attempt_at").
		Limit(100).
		Find(&entries).Error
	if err != nil {
		logger.Error().Err(err).Msg("failed to query outbox for retries")
		return
	}

	now := time.Now()
	enqueued := 0
	for _, entry := range entries {
		if entry.LastAttemptAt != nil && now.Sub(*entry.LastAttemptAt) < backoffFor(entry.Attempts) {
			continue
		}

		task, err := tasks.NewOutboxRetryTask(entry.ID)
		if err != nil {
			logger.Error().Err(err).Str("outbox_id", entry.ID).Msg("failed to create outbox retry task")
			continue
		}
		if _, err := client.Enqueue(task, asynq.Timeout(time.Minute)); err != nil {
			logger.Error().Err(err).Str("outbox_id", entry.ID).Msg("failed to enqueue outbox retry task")
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		logger.Info().Int("count", enqueued).Msg("outbox retries enqueued")
	}
}

// backoffFor doubles the retry delay with each attempt, capped at an
// hour
func backoffFor(attempts int) time.Duration {
	delay := time.Duration(1<<uint(attempts)) * time.Minute
	if delay > time.Hour {
		return time.Hour
	}
	return delay
}
