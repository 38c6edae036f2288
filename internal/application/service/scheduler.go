package service

import "context"

// SchedulerService defines the interface for the recurring background jobs.
type SchedulerService interface {
	// InitializeSchedules registers the daily re-arm and history cleanup jobs.
	InitializeSchedules(ctx context.Context) error
	// Stop stops the underlying scheduler.
	Stop()
}
