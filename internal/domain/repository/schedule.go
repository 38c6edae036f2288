package repository

import (
	"context"
	"shutdownassistant/internal/domain/entity"
	"time"
)

// ScheduleRepository defines the interface for shutdown history operations.
type ScheduleRepository interface {
	// Create records a new schedule. Returns the ID of the created row.
	Create(ctx context.Context, schedule *entity.Schedule) (uint, error)
	// FindLatestArmed returns the most recent armed schedule.
	FindLatestArmed(ctx context.Context) (*entity.Schedule, error)
	// FindRecent returns up to limit schedules, newest first.
	FindRecent(ctx context.Context, limit int) ([]*entity.Schedule, error)
	// CancelPending marks armed schedules whose target is not before now as
	// cancelled and reports how many changed.
	CancelPending(ctx context.Context, now time.Time) (int64, error)
	// DeleteOlderThan deletes schedules created before threshold.
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
}
