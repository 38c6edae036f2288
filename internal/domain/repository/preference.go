package repository

import (
	"context"
	"shutdownassistant/internal/domain/entity"
)

// PreferenceRepository loads and stores the user's shutdown settings.
type PreferenceRepository interface {
	// Load returns the stored preference, or the defaults when nothing is stored.
	Load(ctx context.Context) (*entity.Preference, error)
	// Save persists the preference.
	Save(ctx context.Context, pref *entity.Preference) error
}
