// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by live tracking.
//
// # Available Jobs
//
// 1. BroadcastRedriveJob - Runs every ten seconds to re-publish the latest
// known status and location of tasks whose last broadcast was not confirmed
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(redriveHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The redrive command is idempotent: it reads the degraded-task ledger,
// re-publishes current state and clears the mark only after a confirmed
// publish, so a failed sweep simply leaves the work for the next one.
package jobs
