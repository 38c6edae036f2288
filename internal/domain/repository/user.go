package repository

import (
	"context"
	"shutdownassistant/internal/domain/entity"
)

// UserRepository persists operator sessions.
type UserRepository interface {
	// FindByUserID retrieves a session by the operator's LINE User ID.
	FindByUserID(ctx context.Context, userID string) (*entity.User, error)
	// Save inserts the session or overwrites the stored one.
	Save(ctx context.Context, user *entity.User) error
	// Delete removes a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, userID string) error
}
