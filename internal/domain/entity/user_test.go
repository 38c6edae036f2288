package entity

import (
	"shutdownassistant/internal/domain/constant"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_ConfirmationExpired(t *testing.T) {
	asked := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	ttl := 2 * time.Minute

	u := &User{ID: "U1"}
	u.SetStatus(constant.StatusAwaitingShutdownConfirm, asked)
	assert.True(t, u.AwaitingConfirmation())
	assert.False(t, u.ConfirmationExpired(asked.Add(ttl), ttl))
	assert.True(t, u.ConfirmationExpired(asked.Add(ttl+time.Second), ttl))

	u.SetStatus(constant.StatusInitial, asked)
	assert.False(t, u.AwaitingConfirmation())
	assert.False(t, u.ConfirmationExpired(asked.Add(time.Hour), ttl))
}
