package entity

import (
	"shutdownassistant/internal/domain/constant"
	"time"
)

// Schedule records one shutdown request handed to the operating system.
type Schedule struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	TimeOfDay    string    `gorm:"column:time_of_day;size:5"`
	TargetTime   time.Time `gorm:"column:target_time;index"`
	DelaySeconds int       `gorm:"column:delay_seconds"`
	Status       int       `gorm:"column:status;index"`
	Source       string    `gorm:"column:source;size:16"`
	CreatedAt    time.Time `gorm:"column:created_at;index"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

// TableName specifies the table name for the Schedule entity.
func (Schedule) TableName() string {
	return "shutdown_schedule"
}

// GetStatus returns the schedule status as a ScheduleStatus type.
func (s *Schedule) GetStatus() constant.ScheduleStatus {
	return constant.ScheduleStatus(s.Status)
}

// SetStatus sets the schedule status.
func (s *Schedule) SetStatus(status constant.ScheduleStatus) {
	s.Status = status.Int()
}

// IsPending reports whether the countdown is armed and has not elapsed at now.
func (s *Schedule) IsPending(now time.Time) bool {
	return s.GetStatus() == constant.ScheduleArmed && !s.TargetTime.Before(now)
}
