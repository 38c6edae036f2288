package errors

import "errors"

// Custom application errors
var (
	ErrMalformedTime        = errors.New("malformed time; use HH:MM")                   // Time of day could not be parsed
	ErrUserNotFound         = errors.New("operator not found")                          // Operator session not found
	ErrUnauthorized         = errors.New("operator is not allowed to control this host") // LINE user not on the allow list
	ErrInvalidStatus        = errors.New("invalid operator status")                     // Operator session in an unexpected state
	ErrScheduleNotFound     = errors.New("no pending shutdown schedule")                // Nothing armed
	ErrConfirmationRequired = errors.New("confirmation required")                       // Destructive action requested without confirm
	ErrSystemCall           = errors.New("operating system call failed")                // shutdown.exe, registry or ntdll failure
	ErrUnsupportedPlatform  = errors.New("not supported on this platform")              // Non-Windows host
	ErrElevation            = errors.New("failed to acquire administrator rights")      // Relaunch with runas failed
	ErrConfig               = errors.New("failed to read or write the config file")     // INI preference file
	ErrDatabaseOperation    = errors.New("database operation failed")                   // Generic database error
	ErrLineAPI              = errors.New("failed to talk to the LINE API")              // Generic LINE API error
	ErrScheduling           = errors.New("failed to register scheduled job")            // Generic cron error
	ErrInternalServer       = errors.New("internal server error")                       // Generic internal error
)
