package service

import (
	"context"
	"path/filepath"
	"shutdownassistant/internal/domain/repository"
	"shutdownassistant/internal/infrastructure/config"
	"shutdownassistant/internal/infrastructure/database/sqlite"
	"shutdownassistant/internal/pkg/logger"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type fakeActions struct {
	scheduled    []int
	cancels      int
	immediate    int
	crashes      int
	autoStart    bool
	autoStartSet []bool

	scheduleErr  error
	cancelErr    error
	immediateErr error
	crashErr     error
	autoStartErr error
	readErr      error
}

func (f *fakeActions) ScheduleShutdownIn(ctx context.Context, delaySeconds int) error {
	if f.scheduleErr != nil {
		return f.scheduleErr
	}
	f.scheduled = append(f.scheduled, delaySeconds)
	return nil
}

func (f *fakeActions) CancelScheduledShutdown(ctx context.Context) error {
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancels++
	return nil
}

func (f *fakeActions) ShutdownImmediately(ctx context.Context) error {
	if f.immediateErr != nil {
		return f.immediateErr
	}
	f.immediate++
	return nil
}

func (f *fakeActions) TriggerImmediateCrash() error {
	if f.crashErr != nil {
		return f.crashErr
	}
	f.crashes++
	return nil
}

func (f *fakeActions) AutoStartEnabled() (bool, error) {
	return f.autoStart, f.readErr
}

func (f *fakeActions) SetAutoStart(enabled bool) error {
	if f.autoStartErr != nil {
		return f.autoStartErr
	}
	f.autoStart = enabled
	f.autoStartSet = append(f.autoStartSet, enabled)
	return nil
}

func (f *fakeActions) IsElevated() bool        { return true }
func (f *fakeActions) RelaunchElevated() error { return nil }

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Notify(ctx context.Context, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

type fixture struct {
	schedules repository.ScheduleRepository
	prefs     repository.PreferenceRepository
	actions   *fakeActions
	notifier  *fakeNotifier
	now       time.Time
	svc       ShutdownService
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	f := &fixture{
		schedules: sqlite.NewScheduleRepository(db),
		prefs:     config.NewPreferenceStore(afero.NewMemMapFs(), filepath.Join(dir, "config.ini"), logger.Nop()),
		actions:   &fakeActions{},
		notifier:  &fakeNotifier{},
		now:       now,
	}
	f.svc = NewShutdownService(f.schedules, f.prefs, f.actions, f.notifier, logger.Nop(),
		WithClock(func() time.Time { return f.now }))
	return f
}
