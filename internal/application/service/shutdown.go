package service

import (
	"context"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
)

// ShutdownService defines the interface for shutdown scheduling logic.
type ShutdownService interface {
	// Schedule resolves the requested (or stored) time of day and arms the OS countdown.
	Schedule(ctx context.Context, req dto.ScheduleShutdownRequest) (*dto.ScheduleResponse, error)
	// Cancel aborts the OS countdown and marks pending schedules cancelled.
	Cancel(ctx context.Context, source constant.ScheduleSource) error
	// ShutdownNow powers the host off with no delay. Requires confirmation.
	ShutdownNow(ctx context.Context, req dto.ConfirmRequest) error
	// Crash raises a fatal hard error on the host. Requires confirmation.
	Crash(ctx context.Context, req dto.ConfirmRequest) error
	// Status returns the preference and the pending schedule, if any.
	Status(ctx context.Context) (*dto.StatusResponse, error)
	// History lists recent schedules, newest first.
	History(ctx context.Context, limit int) ([]dto.ScheduleResponse, error)
	// Preview resolves a time of day against now without side effects.
	Preview(ctx context.Context, value string) (*dto.ResolveResponse, error)
	// RestoreOnStartup re-arms the stored time when the stored preference repeats.
	RestoreOnStartup(ctx context.Context) error
	// RearmDaily re-arms the stored time when repeating and nothing is pending.
	RearmDaily(ctx context.Context) error
	// CleanupHistory deletes schedules older than the retention period.
	CleanupHistory(ctx context.Context) error
}
