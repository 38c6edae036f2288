//go:build !windows

package system

import (
	"context"
	"fmt"
	"runtime"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
)

type unsupportedActions struct {
	log logger.Logger
}

// New returns an Actions whose OS operations all fail with
// ErrUnsupportedPlatform. The process counts as elevated so startup proceeds.
func New(appName string, run CommandRunner, log logger.Logger) Actions {
	log.Warn(fmt.Sprintf("%s only controls Windows hosts; OS actions are disabled on %s", appName, runtime.GOOS))
	return &unsupportedActions{log: log}
}

func (a *unsupportedActions) unsupported(op string) error {
	return fmt.Errorf("%w: %s on %s", appErrors.ErrUnsupportedPlatform, op, runtime.GOOS)
}

func (a *unsupportedActions) ScheduleShutdownIn(ctx context.Context, delaySeconds int) error {
	if err := validateDelay(delaySeconds); err != nil {
		return err
	}
	return a.unsupported("scheduled shutdown")
}

func (a *unsupportedActions) CancelScheduledShutdown(ctx context.Context) error {
	return a.unsupported("shutdown abort")
}

func (a *unsupportedActions) ShutdownImmediately(ctx context.Context) error {
	return a.unsupported("immediate shutdown")
}

func (a *unsupportedActions) TriggerImmediateCrash() error {
	return a.unsupported("hard error crash")
}

func (a *unsupportedActions) AutoStartEnabled() (bool, error) {
	return false, nil
}

func (a *unsupportedActions) SetAutoStart(enabled bool) error {
	return a.unsupported("run-at-login registration")
}

func (a *unsupportedActions) IsElevated() bool {
	return true
}

func (a *unsupportedActions) RelaunchElevated() error {
	return a.unsupported("elevation")
}
