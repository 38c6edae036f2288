package service

import (
	"context"
	"errors"
	"path/filepath"
	"shutdownassistant/internal/application/dto"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/infrastructure/database/sqlite"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, opts ...UserOption) UserService {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewUserService(sqlite.NewUserRepository(db), logger.Nop(), opts...)
}

func TestUserService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newUserService(t)

	_, err := svc.GetUser(ctx, "U1")
	assert.True(t, errors.Is(err, appErrors.ErrUserNotFound))

	status, err := svc.GetUserStatus(ctx, "U1")
	assert.Error(t, err)
	assert.Equal(t, constant.StatusInitial, status)

	user, err := svc.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusInitial, user.GetStatus())

	require.NoError(t, svc.UpdateStatus(ctx, dto.UpdateUserStatusRequest{UserID: "U1", Status: constant.StatusAwaitingShutdownConfirm}))
	status, err = svc.GetUserStatus(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusAwaitingShutdownConfirm, status)

	again, err := svc.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusAwaitingShutdownConfirm, again.GetStatus())

	require.NoError(t, svc.DeleteUser(ctx, "U1"))
	_, err = svc.GetUser(ctx, "U1")
	assert.True(t, errors.Is(err, appErrors.ErrUserNotFound))
}

func TestUserService_UpdateUnknownUser(t *testing.T) {
	err := newUserService(t).UpdateStatus(context.Background(), dto.UpdateUserStatusRequest{UserID: "nobody"})
	assert.True(t, errors.Is(err, appErrors.ErrUserNotFound))
}

func TestUserService_ConfirmationExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)
	svc := newUserService(t, WithUserClock(func() time.Time { return now }))

	_, err := svc.GetOrCreateUser(ctx, "U1")
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(ctx, dto.UpdateUserStatusRequest{UserID: "U1", Status: constant.StatusAwaitingCrashConfirm}))

	now = now.Add(ConfirmationTTL)
	status, err := svc.GetUserStatus(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusAwaitingCrashConfirm, status, "still answerable at exactly the TTL")

	now = now.Add(time.Second)
	status, err = svc.GetUserStatus(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusInitial, status)

	user, err := svc.GetUser(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusInitial, user.GetStatus(), "reset is persisted")
}
