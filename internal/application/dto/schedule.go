package dto

import (
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/timeofday"
	"time"
)

// ScheduleShutdownRequest is the DTO for arming a shutdown at a time of day.
type ScheduleShutdownRequest struct {
	// Time is "HH:MM". Empty means the stored preference time.
	Time   string                  `json:"time"`
	Repeat *bool                   `json:"repeat,omitempty"`
	Source constant.ScheduleSource `json:"-"`
}

// ConfirmRequest is the DTO for destructive actions that need an explicit yes.
type ConfirmRequest struct {
	Confirm bool                    `json:"confirm"`
	Source  constant.ScheduleSource `json:"-"`
}

// ScheduleResponse describes one recorded shutdown request.
type ScheduleResponse struct {
	ID           uint      `json:"id" yaml:"id"`
	TimeOfDay    string    `json:"time_of_day" yaml:"time_of_day"`
	TargetTime   time.Time `json:"target_time" yaml:"target_time"`
	DelaySeconds int       `json:"delay_seconds" yaml:"delay_seconds"`
	Status       string    `json:"status" yaml:"status"`
	Source       string    `json:"source" yaml:"source"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}

// ToScheduleResponse converts an entity.Schedule to a ScheduleResponse DTO.
func ToScheduleResponse(s *entity.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ID:           s.ID,
		TimeOfDay:    s.TimeOfDay,
		TargetTime:   s.TargetTime,
		DelaySeconds: s.DelaySeconds,
		Status:       s.GetStatus().String(),
		Source:       s.Source,
		CreatedAt:    s.CreatedAt,
	}
}

// ToScheduleResponseList converts a slice of entity.Schedule to ScheduleResponse DTOs.
func ToScheduleResponseList(schedules []*entity.Schedule) []ScheduleResponse {
	list := make([]ScheduleResponse, len(schedules))
	for i, s := range schedules {
		list[i] = ToScheduleResponse(s)
	}
	return list
}

// ResolveResponse previews a time-of-day resolution without side effects.
type ResolveResponse struct {
	TimeOfDay    string    `json:"time_of_day"`
	TargetTime   time.Time `json:"target_time"`
	DelaySeconds int       `json:"delay_seconds"`
	// FiresAt differs from TargetTime only across a clock change.
	FiresAt time.Time `json:"fires_at"`
}

// ToResolveResponse converts a timeofday.ResolvedSchedule to a ResolveResponse DTO.
func ToResolveResponse(r timeofday.ResolvedSchedule) ResolveResponse {
	return ResolveResponse{
		TimeOfDay:    r.TimeOfDay.String(),
		TargetTime:   r.Target,
		DelaySeconds: r.DelaySeconds,
		FiresAt:      r.FiresAt,
	}
}

// StatusResponse is the combined view of preference and pending schedule.
type StatusResponse struct {
	Preference PreferenceResponse `json:"preference"`
	Pending    *ScheduleResponse  `json:"pending,omitempty"`
}
