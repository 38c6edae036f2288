package sqlite

import (
	"context"
	"errors"
	"fmt"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/repository"
	"time"

	"gorm.io/gorm"
)

type scheduleRepository struct {
	db *gorm.DB
}

// NewScheduleRepository creates a new instance of ScheduleRepository.
func NewScheduleRepository(db *gorm.DB) repository.ScheduleRepository {
	return &scheduleRepository{db: db}
}

// Create records a new schedule. Returns the ID of the created row.
func (r *scheduleRepository) Create(ctx context.Context, schedule *entity.Schedule) (uint, error) {
	if err := r.db.WithContext(ctx).Create(schedule).Error; err != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to create schedule for %s: %w", schedule.TimeOfDay, err)
	}
	return schedule.ID, nil
}

// FindLatestArmed returns the most recent armed schedule.
func (r *scheduleRepository) FindLatestArmed(ctx context.Context) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := r.db.WithContext(ctx).
		Where("status = ?", constant.ScheduleArmed.Int()).
		Order("created_at desc").Order("id desc").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no armed schedule: %w", err)
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to find armed schedule: %w", err)
	}
	return &schedule, nil
}

// FindRecent returns up to limit schedules, newest first.
func (r *scheduleRepository) FindRecent(ctx context.Context, limit int) ([]*entity.Schedule, error) {
	var schedules []*entity.Schedule
	if err := r.db.WithContext(ctx).Order("created_at desc").Order("id desc").Limit(limit).Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("🔴 ERROR: failed to list recent schedules: %w", err)
	}
	return schedules, nil
}

// CancelPending marks armed schedules whose target is not before now as cancelled.
func (r *scheduleRepository) CancelPending(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Schedule{}).
		Where("status = ? AND target_time >= ?", constant.ScheduleArmed.Int(), now).
		Update("status", constant.ScheduleCancelled.Int())
	if res.Error != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to cancel pending schedules: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteOlderThan deletes schedules created before threshold.
func (r *scheduleRepository) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", threshold).Delete(&entity.Schedule{})
	if res.Error != nil {
		return 0, fmt.Errorf("🔴 ERROR: failed to delete schedules older than %v: %w", threshold, res.Error)
	}
	return res.RowsAffected, nil
}
