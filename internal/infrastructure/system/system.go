// Package system wraps the operating-system side effects of the assistant:
// the shutdown command, the run-at-login registry value, the privileged
// crash call and process elevation. Only Windows is implemented; other
// platforms get an implementation that reports ErrUnsupportedPlatform.
package system

import (
	"context"
	"fmt"
	"os/exec"
	appErrors "shutdownassistant/internal/pkg/errors"
	"strconv"
	"strings"
)

// Actions is the capability set the application needs from the host.
type Actions interface {
	// ScheduleShutdownIn asks the OS to shut down after delaySeconds.
	ScheduleShutdownIn(ctx context.Context, delaySeconds int) error
	// CancelScheduledShutdown aborts a pending OS shutdown countdown.
	CancelScheduledShutdown(ctx context.Context) error
	// ShutdownImmediately asks the OS to shut down with no delay.
	ShutdownImmediately(ctx context.Context) error
	// TriggerImmediateCrash raises a fatal hard error. It does not return on success.
	TriggerImmediateCrash() error

	// AutoStartEnabled reports whether the run-at-login value is registered.
	AutoStartEnabled() (bool, error)
	// SetAutoStart registers or removes the run-at-login value.
	SetAutoStart(enabled bool) error

	// IsElevated reports whether the process has administrative rights.
	IsElevated() bool
	// RelaunchElevated starts a new elevated copy of the current process.
	RelaunchElevated() error
}

// CommandRunner runs an external command and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands through os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

const shutdownCommand = "shutdown"

// shutdownArgs builds the arguments for a delayed power-off.
func shutdownArgs(delaySeconds int) []string {
	return []string{"-s", "-t", strconv.Itoa(delaySeconds)}
}

// abortArgs builds the arguments that abort a pending shutdown.
func abortArgs() []string {
	return []string{"-a"}
}

// runShutdown executes the shutdown command and folds its output into the error.
func runShutdown(ctx context.Context, run CommandRunner, args []string) error {
	if run == nil {
		run = ExecRunner
	}
	out, err := run(ctx, shutdownCommand, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%w: %s %s: %v", appErrors.ErrSystemCall, shutdownCommand, strings.Join(args, " "), err)
		}
		return fmt.Errorf("%w: %s %s: %v: %s", appErrors.ErrSystemCall, shutdownCommand, strings.Join(args, " "), err, msg)
	}
	return nil
}

func validateDelay(delaySeconds int) error {
	if delaySeconds < 0 {
		return fmt.Errorf("%w: negative shutdown delay %d", appErrors.ErrSystemCall, delaySeconds)
	}
	return nil
}
