package jobs

import (
	"context"
	"log/slog"

	"orderboard/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReconciliationSchedule reloads the board every five minutes.
const DefaultReconciliationSchedule = "@every 5m"

// BoardReloader is implemented by commands.ReloadBoardCommandHandler.
type BoardReloader interface {
	Handle(ctx context.Context, command commands.ReloadBoardCommand) error
}

// BoardReconciliationJob periodically reloads the whole board from the database so
// that changes missed by the realtime feed eventually show up.
type BoardReconciliationJob struct {
	handler  BoardReloader
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewBoardReconciliationJob creates the job. An empty schedule falls back to
// DefaultReconciliationSchedule.
func NewBoardReconciliationJob(handler BoardReloader, schedule string, logger *slog.Logger) *BoardReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconciliationSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BoardReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "board_reconciliation_job"),
	}
}

// Start schedules the reload.
func (j *BoardReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Board reconciliation job started", "schedule", j.schedule)
	return nil
}

// Run performs a single reload. Failures are logged; the board keeps its previous
// snapshot and exposes the error itself.
func (j *BoardReconciliationJob) Run() {
	ctx := context.Background()
	if err := j.handler.Handle(ctx, commands.NewReloadBoardCommand()); err != nil {
		j.logger.ErrorContext(ctx, "Board reconciliation failed", "error", err)
		return
	}
	j.logger.DebugContext(ctx, "Board reconciled")
}

// Stop stops the scheduler and waits for a running reload to return.
func (j *BoardReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Board reconciliation job stopped")
}
