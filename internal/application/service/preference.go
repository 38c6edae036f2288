package service

import (
	"context"
	"shutdownassistant/internal/application/dto"
)

// PreferenceService defines the interface for the user's shutdown settings.
type PreferenceService interface {
	// Get returns the stored preference.
	Get(ctx context.Context) (*dto.PreferenceResponse, error)
	// Update validates and applies a partial preference change.
	Update(ctx context.Context, req dto.UpdatePreferenceRequest) (*dto.PreferenceResponse, error)
	// SyncAutoStart aligns the stored auto_start flag with the registry.
	SyncAutoStart(ctx context.Context) error
}
