package constant

// UserStatus defines the possible states of an operator conversation.
type UserStatus int

const (
	// StatusInitial represents the state where the bot is waiting for a command.
	StatusInitial UserStatus = iota // 0
	// StatusAwaitingShutdownConfirm represents the state where the bot waits for yes/no before shutting down now.
	StatusAwaitingShutdownConfirm // 1
	// StatusAwaitingCrashConfirm represents the state where the bot waits for yes/no before crashing the system.
	StatusAwaitingCrashConfirm // 2
)

func (s UserStatus) Int() int {
	return int(s)
}

// ScheduleStatus is the lifecycle state of a recorded shutdown request.
type ScheduleStatus int

const (
	// ScheduleArmed means the OS countdown was started and not aborted by us.
	ScheduleArmed ScheduleStatus = iota
	// ScheduleCancelled means the countdown was aborted or superseded.
	ScheduleCancelled
)

func (s ScheduleStatus) Int() int {
	return int(s)
}

func (s ScheduleStatus) String() string {
	switch s {
	case ScheduleArmed:
		return "armed"
	case ScheduleCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ScheduleSource names what issued a shutdown request.
type ScheduleSource string

const (
	SourceAPI     ScheduleSource = "api"
	SourceLine    ScheduleSource = "line"
	SourceStartup ScheduleSource = "startup"
	SourceDaily   ScheduleSource = "daily"
	SourceCLI     ScheduleSource = "cli"
)
