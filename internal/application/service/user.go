package service

import (
	"context"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
)

// UserService defines the interface for operator session logic.
type UserService interface {
	// GetOrCreateUser finds an operator session by ID or creates a new one if not found.
	GetOrCreateUser(ctx context.Context, userID string) (*entity.User, error)
	// GetUser finds an operator session by ID. Returns error if not found.
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	// UpdateStatus updates the status of an operator session.
	UpdateStatus(ctx context.Context, req dto.UpdateUserStatusRequest) error
	// DeleteUser handles the unfollow event, deleting the session.
	DeleteUser(ctx context.Context, userID string) error
	// GetUserStatus retrieves the current status of an operator session.
	GetUserStatus(ctx context.Context, userID string) (constant.UserStatus, error)
}
