// Package jobs provides scheduled background tasks for the order board.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. BoardReconciliationJob - Reloads the whole board on a schedule (default "@every 5m")
//
// The realtime feed keeps the board current between reloads. The reconciliation job
// covers notifications lost while the listener was down and rows changed by tools
// that bypass the triggers.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reloadBoardHandler, "@every 5m", logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed reload is logged and retried on the next tick. Overlapping runs are skipped.
package jobs
