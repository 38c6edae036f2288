package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"shutdownassistant/internal/domain/constant"
	"shutdownassistant/internal/domain/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newSchedule(tod string, created time.Time, status constant.ScheduleStatus) *entity.Schedule {
	s := &entity.Schedule{
		TimeOfDay:    tod,
		TargetTime:   created.Add(time.Hour),
		DelaySeconds: 3600,
		Source:       string(constant.SourceAPI),
		CreatedAt:    created,
	}
	s.SetStatus(status)
	return s
}

func TestScheduleRepository_LatestArmed(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(openTestDB(t))
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	_, err := repo.FindLatestArmed(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.Create(ctx, newSchedule("10:00", base, constant.ScheduleArmed))
	require.NoError(t, err)
	id, err := repo.Create(ctx, newSchedule("11:00", base.Add(time.Minute), constant.ScheduleArmed))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newSchedule("12:00", base.Add(2*time.Minute), constant.ScheduleCancelled))
	require.NoError(t, err)

	latest, err := repo.FindLatestArmed(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, latest.ID)
	assert.Equal(t, "11:00", latest.TimeOfDay)
}

func TestScheduleRepository_CancelPending(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(openTestDB(t))
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	// Elapsed countdown: target base+1h is before now.
	elapsedID, err := repo.Create(ctx, newSchedule("10:00", base, constant.ScheduleArmed))
	require.NoError(t, err)
	for i := 1; i <= 2; i++ {
		_, err := repo.Create(ctx, newSchedule("18:00", base.Add(time.Duration(i)*time.Hour), constant.ScheduleArmed))
		require.NoError(t, err)
	}
	_, err = repo.Create(ctx, newSchedule("18:00", base.Add(3*time.Hour), constant.ScheduleCancelled))
	require.NoError(t, err)

	now := base.Add(90 * time.Minute)
	n, err := repo.CancelPending(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	latest, err := repo.FindLatestArmed(ctx)
	require.NoError(t, err)
	assert.Equal(t, elapsedID, latest.ID)
}

func TestScheduleRepository_RecentAndCleanup(t *testing.T) {
	ctx := context.Background()
	repo := NewScheduleRepository(openTestDB(t))
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, newSchedule("18:00", base.AddDate(0, 0, i), constant.ScheduleCancelled))
		require.NoError(t, err)
	}

	recent, err := repo.FindRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.True(t, recent[0].CreatedAt.Equal(base.AddDate(0, 0, 4)))

	n, err := repo.DeleteOlderThan(ctx, base.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	recent, err = repo.FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
}

func TestUserRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))
	asked := time.Date(2024, 1, 1, 17, 0, 0, 0, time.UTC)

	_, err := repo.FindByUserID(ctx, "U1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	user := &entity.User{ID: "U1", UpdatedAt: asked}
	require.NoError(t, repo.Save(ctx, user))

	user.SetStatus(constant.StatusAwaitingCrashConfirm, asked.Add(time.Minute))
	require.NoError(t, repo.Save(ctx, user))

	got, err := repo.FindByUserID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusAwaitingCrashConfirm, got.GetStatus())
	assert.True(t, got.UpdatedAt.Equal(asked.Add(time.Minute)))

	// The upsert must persist the zero status as well.
	got.SetStatus(constant.StatusInitial, asked.Add(2*time.Minute))
	require.NoError(t, repo.Save(ctx, got))
	got, err = repo.FindByUserID(ctx, "U1")
	require.NoError(t, err)
	assert.Equal(t, constant.StatusInitial, got.GetStatus())

	require.NoError(t, repo.Delete(ctx, "U1"))
	_, err = repo.FindByUserID(ctx, "U1")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	require.NoError(t, repo.Delete(ctx, "U1"))
}
