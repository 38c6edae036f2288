package dto

import (
	"shutdownassistant/internal/domain/constant"
)

// UpdateUserStatusRequest is the DTO for updating an operator's status.
type UpdateUserStatusRequest struct {
	UserID string              `json:"user_id"`
	Status constant.UserStatus `json:"status"`
}
