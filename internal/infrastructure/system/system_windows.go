//go:build windows

package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	appErrors "shutdownassistant/internal/pkg/errors"
	"shutdownassistant/internal/pkg/logger"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

const (
	seShutdownPrivilege  = 19
	optionShutdownSystem = 6
	hardErrorStatus      = 0xDEADDEAD
)

var (
	ntdll                  = windows.NewLazySystemDLL("ntdll.dll")
	procRtlAdjustPrivilege = ntdll.NewProc("RtlAdjustPrivilege")
	procNtRaiseHardError   = ntdll.NewProc("NtRaiseHardError")
)

type windowsActions struct {
	appName string
	run     CommandRunner
	log     logger.Logger
}

// New returns the Windows implementation of Actions. appName is the name of
// the run-at-login registry value.
func New(appName string, run CommandRunner, log logger.Logger) Actions {
	if run == nil {
		run = ExecRunner
	}
	return &windowsActions{appName: appName, run: run, log: log}
}

// ScheduleShutdownIn runs `shutdown -s -t <delay>`.
func (a *windowsActions) ScheduleShutdownIn(ctx context.Context, delaySeconds int) error {
	if err := validateDelay(delaySeconds); err != nil {
		return err
	}
	a.log.Debug(fmt.Sprintf("Requesting shutdown in %d seconds", delaySeconds))
	return runShutdown(ctx, a.run, shutdownArgs(delaySeconds))
}

// CancelScheduledShutdown runs `shutdown -a`.
func (a *windowsActions) CancelScheduledShutdown(ctx context.Context) error {
	return runShutdown(ctx, a.run, abortArgs())
}

// ShutdownImmediately runs `shutdown -s -t 0`.
func (a *windowsActions) ShutdownImmediately(ctx context.Context) error {
	return runShutdown(ctx, a.run, shutdownArgs(0))
}

// TriggerImmediateCrash enables SeShutdownPrivilege and raises a hard error
// with the shutdown-system response option.
func (a *windowsActions) TriggerImmediateCrash() error {
	if err := procRtlAdjustPrivilege.Find(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrSystemCall, err)
	}
	if err := procNtRaiseHardError.Find(); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrSystemCall, err)
	}

	var wasEnabled uint8
	status, _, _ := procRtlAdjustPrivilege.Call(
		seShutdownPrivilege, 1, 0, uintptr(unsafe.Pointer(&wasEnabled)),
	)
	if status != 0 {
		return fmt.Errorf("%w: RtlAdjustPrivilege returned NTSTATUS 0x%08X", appErrors.ErrSystemCall, uint32(status))
	}

	var response uint32
	status, _, _ = procNtRaiseHardError.Call(
		hardErrorStatus, 0, 0, 0, optionShutdownSystem, uintptr(unsafe.Pointer(&response)),
	)
	if status != 0 {
		return fmt.Errorf("%w: NtRaiseHardError returned NTSTATUS 0x%08X", appErrors.ErrSystemCall, uint32(status))
	}
	return nil
}

// AutoStartEnabled reports whether HKCU\...\Run has a value named appName.
func (a *windowsActions) AutoStartEnabled() (bool, error) {
	key, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: open run key: %v", appErrors.ErrSystemCall, err)
	}
	defer key.Close()

	if _, _, err := key.GetStringValue(a.appName); err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("%w: read run value: %v", appErrors.ErrSystemCall, err)
	}
	return true, nil
}

// SetAutoStart writes the executable path under the run key, or deletes it.
func (a *windowsActions) SetAutoStart(enabled bool) error {
	key, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("%w: open run key: %v", appErrors.ErrSystemCall, err)
	}
	defer key.Close()

	if !enabled {
		if err := key.DeleteValue(a.appName); err != nil && !errors.Is(err, registry.ErrNotExist) {
			return fmt.Errorf("%w: delete run value: %v", appErrors.ErrSystemCall, err)
		}
		a.log.Info(fmt.Sprintf("Removed %s from run-at-login", a.appName))
		return nil
	}

	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%w: executable path: %v", appErrors.ErrSystemCall, err)
	}
	if err := key.SetStringValue(a.appName, exePath); err != nil {
		return fmt.Errorf("%w: write run value: %v", appErrors.ErrSystemCall, err)
	}
	a.log.Info(fmt.Sprintf("Registered %s for run-at-login: %s", a.appName, exePath))
	return nil
}

// IsElevated reports whether the process token is elevated.
func (a *windowsActions) IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// RelaunchElevated starts the current executable again through the "runas"
// verb with the same arguments.
func (a *windowsActions) RelaunchElevated() error {
	exePath, err := os.Executable()
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrElevation, err)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrElevation, err)
	}

	quoted := make([]string, 0, len(os.Args)-1)
	for _, arg := range os.Args[1:] {
		quoted = append(quoted, windows.EscapeArg(arg))
	}

	verbPtr, _ := windows.UTF16PtrFromString("runas")
	exePtr, _ := windows.UTF16PtrFromString(exePath)
	cwdPtr, _ := windows.UTF16PtrFromString(cwd)
	argPtr, _ := windows.UTF16PtrFromString(strings.Join(quoted, " "))

	if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, cwdPtr, windows.SW_NORMAL); err != nil {
		return fmt.Errorf("%w: %v", appErrors.ErrElevation, err)
	}
	return nil
}
