package service

import (
	"context"
	"errors"
	"fmt"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/repository"
	"shutdownassistant/internal/domain/timeofday"
	"shutdownassistant/internal/infrastructure/system"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"
)

const (
	historyRetention    = 30 * 24 * time.Hour
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type shutdownService struct {
	scheduleRepo repository.ScheduleRepository
	prefRepo     repository.PreferenceRepository
	actions      system.Actions
	notifier     Notifier
	log          logger.Logger
	now          func() time.Time

	// mu serializes everything that reads the pending schedule and then
	// talks to the OS countdown. Windows refuses a second shutdown -s.
	mu sync.Mutex
}

// ShutdownOption customizes a ShutdownService.
type ShutdownOption func(*shutdownService)

// WithClock replaces time.Now as the reference instant.
func WithClock(now func() time.Time) ShutdownOption {
	return func(s *shutdownService) {
		s.now = now
	}
}

// NewShutdownService creates a new instance of ShutdownService implementation.
// notifier may be nil.
func NewShutdownService(
	scheduleRepo repository.ScheduleRepository,
	prefRepo repository.PreferenceRepository,
	actions system.Actions,
	notifier Notifier,
	log logger.Logger,
	opts ...ShutdownOption,
) ShutdownService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	s := &shutdownService{
		scheduleRepo: scheduleRepo,
		prefRepo:     prefRepo,
		actions:      actions,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule resolves the requested (or stored) time of day and arms the OS countdown.
func (s *shutdownService) Schedule(ctx context.Context, req dto.ScheduleShutdownRequest) (*dto.ScheduleResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule(ctx, req)
}

func (s *shutdownService) schedule(ctx context.Context, req dto.ScheduleShutdownRequest) (*dto.ScheduleResponse, error) {
	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load preference before scheduling", err)
		return nil, err
	}

	value := req.Time
	if strings.TrimSpace(value) == "" {
		value = pref.ScheduledTime
	}

	resolved, err := timeofday.Resolve(value, s.now())
	if err != nil {
		s.log.Warn(fmt.Sprintf("Rejected shutdown time %q from %s", value, req.Source))
		return nil, err
	}

	record, err := s.arm(ctx, resolved, req.Source, func(ctx context.Context) error {
		return s.actions.ScheduleShutdownIn(ctx, resolved.DelaySeconds)
	})
	if err != nil {
		return nil, err
	}

	// The preference is written back on every successful schedule.
	pref.ScheduledTime = resolved.TimeOfDay.String()
	if req.Repeat != nil {
		pref.Repeat = *req.Repeat
	}
	if err := s.prefRepo.Save(ctx, pref); err != nil {
		s.log.Error("Failed to save preference after scheduling", err)
	}

	s.notify(ctx, fmt.Sprintf("Shutdown scheduled for %s (in %s)",
		resolved.Target.Format("2006/01/02 15:04"), time.Duration(resolved.DelaySeconds)*time.Second))

	resp := dto.ToScheduleResponse(record)
	return &resp, nil
}

// arm aborts any pending countdown, runs start, and records the new schedule.
// Callers hold s.mu.
// The history is only touched once the OS has accepted the request, except
// that a successfully aborted countdown is always marked cancelled.
func (s *shutdownService) arm(
	ctx context.Context,
	resolved timeofday.ResolvedSchedule,
	source constant.ScheduleSource,
	start func(ctx context.Context) error,
) (*entity.Schedule, error) {
	now := s.now()
	pending, err := s.findPending(ctx, now)
	if err != nil {
		return nil, err
	}

	if pending != nil {
		if err := s.actions.CancelScheduledShutdown(ctx); err != nil {
			s.log.Warn(fmt.Sprintf("Failed to abort pending shutdown %d before re-arming: %v", pending.ID, err))
		} else {
			s.markPendingCancelled(ctx, now)
		}
	}

	if err := start(ctx); err != nil {
		s.log.Error(fmt.Sprintf("OS refused shutdown request for %s", resolved.TimeOfDay), err)
		return nil, err
	}

	record := &entity.Schedule{
		TimeOfDay:    resolved.TimeOfDay.String(),
		TargetTime:   resolved.Target,
		DelaySeconds: resolved.DelaySeconds,
		Source:       string(source),
		CreatedAt:    now,
	}
	record.SetStatus(constant.ScheduleArmed)
	if _, err := s.scheduleRepo.Create(ctx, record); err != nil {
		// The countdown is already running; history is best effort.
		s.log.Error("Failed to record armed schedule", err)
	}

	s.log.Info(fmt.Sprintf("Shutdown armed for %v (delay %ds, source %s)", resolved.Target, resolved.DelaySeconds, source))
	return record, nil
}

// Cancel aborts the OS countdown and marks pending schedules cancelled.
func (s *shutdownService) Cancel(ctx context.Context, source constant.ScheduleSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if err := s.actions.CancelScheduledShutdown(ctx); err != nil {
		s.log.Error(fmt.Sprintf("Failed to cancel scheduled shutdown (source %s)", source), err)
		// shutdown -a fails when no countdown runs; say so when history agrees.
		if pending, findErr := s.findPending(ctx, now); findErr == nil && pending == nil && errors.Is(err, appErrors.ErrSystemCall) {
			return fmt.Errorf("%w: %w", appErrors.ErrScheduleNotFound, err)
		}
		return err
	}
	n := s.markPendingCancelled(ctx, now)
	s.log.Info(fmt.Sprintf("Cancelled scheduled shutdown (source %s, %d record(s))", source, n))
	s.notify(ctx, "Scheduled shutdown cancelled")
	return nil
}

// ShutdownNow powers the host off with no delay. Requires confirmation.
func (s *shutdownService) ShutdownNow(ctx context.Context, req dto.ConfirmRequest) error {
	if !req.Confirm {
		return fmt.Errorf("%w: immediate shutdown", appErrors.ErrConfirmationRequired)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	resolved := timeofday.ResolvedSchedule{
		TimeOfDay: timeofday.TimeOfDay{Hour: now.Hour(), Minute: now.Minute()},
		Target:    now,
	}
	if _, err := s.arm(ctx, resolved, req.Source, s.actions.ShutdownImmediately); err != nil {
		return err
	}
	s.notify(ctx, "Shutting down now")
	return nil
}

// Crash raises a fatal hard error on the host. Requires confirmation.
func (s *shutdownService) Crash(ctx context.Context, req dto.ConfirmRequest) error {
	if !req.Confirm {
		return fmt.Errorf("%w: system crash", appErrors.ErrConfirmationRequired)
	}

	s.log.Warn(fmt.Sprintf("Triggering system crash (source %s)", req.Source))
	s.notify(ctx, "Triggering system crash")
	if err := s.actions.TriggerImmediateCrash(); err != nil {
		s.log.Error("Crash request failed", err)
		return err
	}
	return nil
}

// Status returns the preference and the pending schedule, if any.
func (s *shutdownService) Status(ctx context.Context) (*dto.StatusResponse, error) {
	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.findPending(ctx, s.now())
	if err != nil {
		return nil, err
	}

	resp := &dto.StatusResponse{Preference: dto.ToPreferenceResponse(pref)}
	if pending != nil {
		p := dto.ToScheduleResponse(pending)
		resp.Pending = &p
	}
	return resp, nil
}

// History lists recent schedules, newest first.
func (s *shutdownService) History(ctx context.Context, limit int) ([]dto.ScheduleResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	schedules, err := s.scheduleRepo.FindRecent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to list schedule history", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return dto.ToScheduleResponseList(schedules), nil
}

// Preview resolves a time of day against now without side effects.
// An empty value previews the stored time.
func (s *shutdownService) Preview(ctx context.Context, value string) (*dto.ResolveResponse, error) {
	if strings.TrimSpace(value) == "" {
		pref, err := s.prefRepo.Load(ctx)
		if err != nil {
			return nil, err
		}
		value = pref.ScheduledTime
	}
	resolved, err := timeofday.Resolve(value, s.now())
	if err != nil {
		return nil, err
	}
	resp := dto.ToResolveResponse(resolved)
	return &resp, nil
}

// RestoreOnStartup re-arms the stored time when the stored preference repeats.
// The stored time is resolved with the usual rule, so a time already past
// today lands on tomorrow.
func (s *shutdownService) RestoreOnStartup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		return err
	}
	if !pref.Stored || !pref.Repeat {
		s.log.Info("Repeat is off or no preference stored, not re-arming on startup.")
		return nil
	}
	_, err = s.schedule(ctx, dto.ScheduleShutdownRequest{Time: pref.ScheduledTime, Source: constant.SourceStartup})
	return err
}

// RearmDaily re-arms the stored time when repeating and nothing is pending.
func (s *shutdownService) RearmDaily(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		return err
	}
	if !pref.Stored || !pref.Repeat {
		s.log.Debug("Repeat is off, skipping daily re-arm.")
		return nil
	}
	pending, err := s.findPending(ctx, s.now())
	if err != nil {
		return err
	}
	if pending != nil {
		s.log.Debug(fmt.Sprintf("Shutdown %d still pending, skipping daily re-arm.", pending.ID))
		return nil
	}
	_, err = s.schedule(ctx, dto.ScheduleShutdownRequest{Time: pref.ScheduledTime, Source: constant.SourceDaily})
	return err
}

// CleanupHistory deletes schedules older than the retention period.
func (s *shutdownService) CleanupHistory(ctx context.Context) error {
	threshold := s.now().Add(-historyRetention)
	n, err := s.scheduleRepo.DeleteOlderThan(ctx, threshold)
	if err != nil {
		s.log.Error("Failed to clean up schedule history", err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Info(fmt.Sprintf("Deleted %d schedule(s) older than %v", n, threshold.Format(time.DateOnly)))
	return nil
}

// findPending returns the latest armed schedule if its target has not passed.
func (s *shutdownService) findPending(ctx context.Context, now time.Time) (*entity.Schedule, error) {
	latest, err := s.scheduleRepo.FindLatestArmed(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.log.Error("Failed to look up pending schedule", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	if !latest.IsPending(now) {
		return nil, nil
	}
	return latest, nil
}

func (s *shutdownService) markPendingCancelled(ctx context.Context, now time.Time) int64 {
	n, err := s.scheduleRepo.CancelPending(ctx, now)
	if err != nil {
		s.log.Error("Failed to mark pending schedules cancelled", err)
	}
	return n
}

func (s *shutdownService) notify(ctx context.Context, message string) {
	if err := s.notifier.Notify(ctx, message); err != nil {
		s.log.Warn(fmt.Sprintf("Failed to notify operator: %v", err))
	}
}
