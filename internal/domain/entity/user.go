package entity

import (
	"shutdownassistant/internal/domain/constant"
	"time"
)

// User is the conversation state of one LINE operator.
// UpdatedAt is set by the service clock, not by gorm.
type User struct {
	ID        string    `gorm:"column:user_id;primaryKey"`
	Status    int       `gorm:"column:status;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

// TableName specifies the table name for the User entity.
func (User) TableName() string {
	return "operator_session"
}

// GetStatus returns the user status as a UserStatus type.
func (u *User) GetStatus() constant.UserStatus {
	return constant.UserStatus(u.Status)
}

// SetStatus sets the status and stamps the change time.
func (u *User) SetStatus(status constant.UserStatus, at time.Time) {
	u.Status = status.Int()
	u.UpdatedAt = at
}

// AwaitingConfirmation reports whether a yes/no answer is outstanding.
func (u *User) AwaitingConfirmation() bool {
	switch u.GetStatus() {
	case constant.StatusAwaitingShutdownConfirm, constant.StatusAwaitingCrashConfirm:
		return true
	default:
		return false
	}
}

// ConfirmationExpired reports whether an outstanding question was asked
// more than ttl before now.
func (u *User) ConfirmationExpired(now time.Time, ttl time.Duration) bool {
	return u.AwaitingConfirmation() && now.Sub(u.UpdatedAt) > ttl
}
