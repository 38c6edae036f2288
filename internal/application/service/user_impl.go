package service

import (
	"context"
	"errors"
	"fmt"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/repository"
	appErrors "shutdownassistant/internal/pkg/errors" // Alias to avoid collision
	"shutdownassistant/internal/pkg/logger"
	"time"

	"gorm.io/gorm"
)

// ConfirmationTTL is how long a "now" or "crash" question stays answerable.
const ConfirmationTTL = 2 * time.Minute

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
	now      func() time.Time
}

// UserOption customizes a UserService.
type UserOption func(*userService)

// WithUserClock replaces time.Now for session timestamps.
func WithUserClock(now func() time.Time) UserOption {
	return func(s *userService) {
		s.now = now
	}
}

// NewUserService creates a new instance of UserService implementation.
func NewUserService(userRepo repository.UserRepository, log logger.Logger, opts ...UserOption) UserService {
	s := &userService{
		userRepo: userRepo,
		log:      log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreateUser finds an operator session by ID or creates a new one if not found.
func (s *userService) GetOrCreateUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err == nil {
		s.log.Debug(fmt.Sprintf("Found existing operator %s", userID))
		return user, nil
	}
	if !errors.Is(err, appErrors.ErrUserNotFound) {
		return nil, err
	}

	s.log.Info(fmt.Sprintf("Operator %s not found, creating new session.", userID))
	user = &entity.User{ID: userID}
	user.SetStatus(constant.StatusInitial, s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.log.Error("Failed to create operator session", err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

// GetUser finds an operator session by ID. Returns ErrUserNotFound if absent.
func (s *userService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := s.userRepo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		s.log.Error(fmt.Sprintf("Failed to get operator %s", userID), err)
		return nil, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return user, nil
}

// UpdateStatus updates the status of an operator session.
func (s *userService) UpdateStatus(ctx context.Context, req dto.UpdateUserStatusRequest) error {
	user, err := s.GetUser(ctx, req.UserID)
	if err != nil {
		return err // Return ErrUserNotFound or ErrDatabaseOperation
	}

	user.SetStatus(req.Status, s.now())
	if err := s.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	s.log.Debug(fmt.Sprintf("Updated status for operator %s to %d", req.UserID, req.Status))
	return nil
}

// DeleteUser handles the unfollow event, deleting the session.
func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.log.Error(fmt.Sprintf("Failed to delete session for operator %s during unfollow", userID), err)
		return fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}

	s.log.Info(fmt.Sprintf("Deleted session for operator %s due to unfollow.", userID))
	return nil
}

// GetUserStatus retrieves the current status of an operator session. A
// question left unanswered for longer than ConfirmationTTL is dropped and
// the session reads as initial.
func (s *userService) GetUserStatus(ctx context.Context, userID string) (constant.UserStatus, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return constant.StatusInitial, err
	}

	now := s.now()
	if !user.ConfirmationExpired(now, ConfirmationTTL) {
		return user.GetStatus(), nil
	}

	s.log.Info(fmt.Sprintf("Confirmation for operator %s expired, resetting session.", userID))
	user.SetStatus(constant.StatusInitial, now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.log.Error(fmt.Sprintf("Failed to reset expired session for operator %s", userID), err)
		return constant.StatusInitial, fmt.Errorf("%w: %v", appErrors.ErrDatabaseOperation, err)
	}
	return constant.StatusInitial, nil
}
