package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// BroadcastRedriveJob periodically re-publishes the current state of tasks
// whose last broadcast could not be confirmed. Runs every ten seconds; the
// redrive command is idempotent, so overlapping sweeps are harmless.
type BroadcastRedriveJob struct {
	handler commands.RedriveBroadcastsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewBroadcastRedriveJob creates the redrive job.
func NewBroadcastRedriveJob(handler commands.RedriveBroadcastsCommandHandler, logger *slog.Logger) *BroadcastRedriveJob {
	return &BroadcastRedriveJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "broadcast_redrive_job"),
	}
}

// Start schedules the redrive sweep every ten seconds.
func (j *BroadcastRedriveJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRedriveBroadcastsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Broadcast redrive sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Broadcast redrive job started (running every 10s)")
	return nil
}

// Stop stops the redrive job.
func (j *BroadcastRedriveJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Broadcast redrive job stopped")
}
