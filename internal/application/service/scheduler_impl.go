package service

import (
	"context"
	"fmt"
	"shutdownassistant/internal/infrastructure/scheduler"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"sync"

	"github.com/robfig/cron/v3"
)

// Define constants for job types and their cron specs (seconds first).
const (
	jobTypeRearm   = "rearm"
	jobTypeCleanup = "cleanup"

	rearmSpec   = "5 0 0 * * *"  // 00:00:05 every day
	cleanupSpec = "0 30 3 * * *" // 03:30:00 every day
)

type schedulerService struct {
	cronScheduler   *scheduler.Scheduler
	shutdownService ShutdownService
	log             logger.Logger
	// map[jobType]cron.EntryID
	jobStore map[string]cron.EntryID
	mu       sync.Mutex // Protect jobStore access
}

// NewSchedulerService creates a new instance of SchedulerService implementation.
func NewSchedulerService(
	cronScheduler *scheduler.Scheduler,
	shutdownService ShutdownService,
	log logger.Logger,
) SchedulerService {
	return &schedulerService{
		cronScheduler:   cronScheduler,
		shutdownService: shutdownService,
		log:             log,
		jobStore:        make(map[string]cron.EntryID),
	}
}

// storeJobID stores the cron EntryID for a job type, returning any previous one.
func (s *schedulerService) storeJobID(jobType string, entryID cron.EntryID) (cron.EntryID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.jobStore[jobType]
	s.jobStore[jobType] = entryID
	s.log.Debug(fmt.Sprintf("Stored job ID %d for type %s", entryID, jobType))
	return prev, ok
}

// addJob registers fn under jobType, replacing an earlier registration.
func (s *schedulerService) addJob(jobType, spec string, fn func(ctx context.Context) error) error {
	jobFunc := func() {
		s.log.Info(fmt.Sprintf("Executing %s job", jobType))
		// Use background context for cron job execution
		if err := fn(context.Background()); err != nil {
			s.log.Error(fmt.Sprintf("Error running %s job", jobType), err)
		}
	}

	entryID, err := s.cronScheduler.AddJob(spec, jobFunc)
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrScheduling, err)
	}
	if prev, ok := s.storeJobID(jobType, entryID); ok {
		s.cronScheduler.RemoveJob(prev)
	}
	return nil
}

// InitializeSchedules registers the daily re-arm and history cleanup jobs.
func (s *schedulerService) InitializeSchedules(ctx context.Context) error {
	if s.shutdownService == nil {
		s.log.Error("Shutdown service is not set in SchedulerService", nil)
		return fmt.Errorf("%w: shutdown service not set", appErrors.ErrInternalServer)
	}

	if err := s.addJob(jobTypeRearm, rearmSpec, s.shutdownService.RearmDaily); err != nil {
		return err
	}
	if err := s.addJob(jobTypeCleanup, cleanupSpec, s.shutdownService.CleanupHistory); err != nil {
		return err
	}

	s.log.Info("Background jobs registered.")
	s.log.Debug(fmt.Sprintf("Current cron entries: %v", s.cronScheduler.GetEntries()))
	return nil
}

// Stop stops the underlying scheduler.
func (s *schedulerService) Stop() {
	s.cronScheduler.Stop()
}
