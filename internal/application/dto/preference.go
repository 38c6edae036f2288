package dto

import "shutdownassistant/internal/domain/entity"

// PreferenceResponse is the DTO for the stored preference.
type PreferenceResponse struct {
	ScheduledTime string `json:"scheduled_time"`
	AutoStart     bool   `json:"auto_start"`
	Repeat        bool   `json:"repeat"`
}

// ToPreferenceResponse converts an entity.Preference to a PreferenceResponse DTO.
func ToPreferenceResponse(p *entity.Preference) PreferenceResponse {
	return PreferenceResponse{
		ScheduledTime: p.ScheduledTime,
		AutoStart:     p.AutoStart,
		Repeat:        p.Repeat,
	}
}

// UpdatePreferenceRequest changes any subset of the preference.
type UpdatePreferenceRequest struct {
	ScheduledTime *string `json:"scheduled_time,omitempty"`
	AutoStart     *bool   `json:"auto_start,omitempty"`
	Repeat        *bool   `json:"repeat,omitempty"`
}
