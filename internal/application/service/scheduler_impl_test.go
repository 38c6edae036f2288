package service

import (
	"context"
	"errors"
	"shutdownassistant/internal/infrastructure/scheduler"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerService_RegistersJobsOnce(t *testing.T) {
	f := newFixture(t, day)
	cronScheduler := scheduler.NewScheduler(time.UTC, logger.Nop())
	svc := NewSchedulerService(cronScheduler, f.svc, logger.Nop())
	defer svc.Stop()

	require.NoError(t, svc.InitializeSchedules(context.Background()))
	assert.Len(t, cronScheduler.GetEntries(), 2)

	// Re-initializing replaces rather than duplicates.
	require.NoError(t, svc.InitializeSchedules(context.Background()))
	assert.Len(t, cronScheduler.GetEntries(), 2)
}

func TestSchedulerService_MissingShutdownService(t *testing.T) {
	cronScheduler := scheduler.NewScheduler(time.UTC, logger.Nop())
	svc := NewSchedulerService(cronScheduler, nil, logger.Nop())
	defer svc.Stop()

	err := svc.InitializeSchedules(context.Background())
	assert.True(t, errors.Is(err, appErrors.ErrInternalServer))
}
