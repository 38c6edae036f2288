package service

import (
	"context"
	"fmt"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/repository"
	"shutdownassistant/internal/domain/timeofday"
	"shutdownassistant/internal/infrastructure/system"
	"shutdownassistant/internal/pkg/logger"
)

type preferenceService struct {
	prefRepo repository.PreferenceRepository
	actions  system.Actions
	log      logger.Logger
}

// NewPreferenceService creates a new instance of PreferenceService implementation.
func NewPreferenceService(prefRepo repository.PreferenceRepository, actions system.Actions, log logger.Logger) PreferenceService {
	return &preferenceService{
		prefRepo: prefRepo,
		actions:  actions,
		log:      log,
	}
}

// Get returns the stored preference.
func (s *preferenceService) Get(ctx context.Context) (*dto.PreferenceResponse, error) {
	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load preference", err)
		return nil, err
	}
	resp := dto.ToPreferenceResponse(pref)
	return &resp, nil
}

// Update validates and applies a partial preference change. The time is
// validated before any side effect; the registry is written before the file.
func (s *preferenceService) Update(ctx context.Context, req dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error) {
	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		s.log.Error("Failed to load preference", err)
		return nil, err
	}

	if req.ScheduledTime != nil {
		tod, err := timeofday.Parse(*req.ScheduledTime)
		if err != nil {
			return nil, err
		}
		pref.ScheduledTime = tod.String()
	}
	if req.Repeat != nil {
		pref.Repeat = *req.Repeat
	}
	if req.AutoStart != nil {
		if err := s.actions.SetAutoStart(*req.AutoStart); err != nil {
			s.log.Error(fmt.Sprintf("Failed to set run-at-login to %t", *req.AutoStart), err)
			return nil, err
		}
		pref.AutoStart = *req.AutoStart
	}

	if err := s.prefRepo.Save(ctx, pref); err != nil {
		s.log.Error("Failed to save preference", err)
		return nil, err
	}
	s.log.Info(fmt.Sprintf("Preference updated: time=%s repeat=%t auto_start=%t", pref.ScheduledTime, pref.Repeat, pref.AutoStart))
	resp := dto.ToPreferenceResponse(pref)
	return &resp, nil
}

// SyncAutoStart aligns the stored auto_start flag with the registry. A
// missing registry value means disabled. A preference that was never stored
// is not written.
func (s *preferenceService) SyncAutoStart(ctx context.Context) error {
	enabled, err := s.actions.AutoStartEnabled()
	if err != nil {
		s.log.Warn(fmt.Sprintf("Could not read run-at-login state: %v", err))
		return err
	}

	pref, err := s.prefRepo.Load(ctx)
	if err != nil {
		return err
	}
	if pref.AutoStart == enabled {
		return nil
	}

	s.log.Info(fmt.Sprintf("Run-at-login is %t in the registry, updating preference", enabled))
	pref.AutoStart = enabled
	if !pref.Stored {
		return nil
	}
	return s.prefRepo.Save(ctx, pref)
}
