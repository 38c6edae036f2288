package sqlite

import (
	"context"
	"errors"
	"fmt"
	"shutdownassistant/internal/domain/entity"
	"shutdownassistant/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository over the operator_session table.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByUserID(ctx context.Context, userID string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("operator session %s not found: %w", userID, err)
		}
		return nil, fmt.Errorf("🔴 ERROR: failed to load operator session %s: %w", userID, err)
	}
	return &user, nil
}

// Save upserts on user_id so a session can be written without a prior read.
func (r *userRepository) Save(ctx context.Context, user *entity.User) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(user).Error
	if err != nil {
		return fmt.Errorf("🔴 ERROR: failed to save operator session %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&entity.User{}).Error; err != nil {
		return fmt.Errorf("🔴 ERROR: failed to delete operator session %s: %w", userID, err)
	}
	return nil
}
