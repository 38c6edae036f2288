// Package timeofday resolves a wall-clock "HH:MM" into the next instant it
// occurs and the number of seconds until then. It has no side effects and
// knows nothing about the operating system.
package timeofday

import (
	"fmt"
	appErrors "shutdownassistant/internal/pkg/errors"
	"strings"
	"time"
)

const layout = "15:04"

// TimeOfDay is an hour/minute pair without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String formats the time of day as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseError reports a time string that is not a 24-hour HH:MM value.
// It matches appErrors.ErrMalformedTime under errors.Is.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %q", appErrors.ErrMalformedTime, e.Input)
}

func (e *ParseError) Unwrap() error {
	return appErrors.ErrMalformedTime
}

// Parse reads a 24-hour HH:MM string. A single-digit hour is accepted.
func Parse(s string) (TimeOfDay, error) {
	trimmed := strings.TrimSpace(s)
	t, err := time.Parse(layout, trimmed)
	if err != nil {
		return TimeOfDay{}, &ParseError{Input: s}
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// ScheduleRequest pairs a validated time of day with the instant it is
// interpreted against.
type ScheduleRequest struct {
	TimeOfDay TimeOfDay
	Now       time.Time
}

// ResolvedSchedule is the next occurrence of a time of day.
type ResolvedSchedule struct {
	TimeOfDay    TimeOfDay
	Target       time.Time
	DelaySeconds int
	// FiresAt is Now plus DelaySeconds, when an OS countdown started now
	// actually ends. It is an hour off Target across a clock change.
	FiresAt time.Time
}

// Drift returns how far FiresAt lies from Target, in whole minutes.
func (r ResolvedSchedule) Drift() time.Duration {
	return Drift(r.Target, r.FiresAt)
}

// Drift returns firesAt minus target rounded to the minute. It is zero
// unless a daylight-saving transition falls before target.
func Drift(target, firesAt time.Time) time.Duration {
	return firesAt.Sub(target).Round(time.Minute)
}

// Resolve parses value and resolves it against now.
func Resolve(value string, now time.Time) (ResolvedSchedule, error) {
	tod, err := Parse(value)
	if err != nil {
		return ResolvedSchedule{}, err
	}
	return ScheduleRequest{TimeOfDay: tod, Now: now}.Resolve(), nil
}

// Resolve finds the earliest instant at or after Now whose hour and minute
// match TimeOfDay, with seconds zeroed. When that time has already passed
// today the target moves to the same time tomorrow.
//
// Comparison and subtraction are done on the local wall clock so the delay
// stays in [0, 86400) on daylight-saving transition days too. On those days
// the countdown really ends at Now plus the delay, which is FiresAt, not
// Target.
func (r ScheduleRequest) Resolve() ResolvedSchedule {
	now := wallClock(r.Now)
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, r.TimeOfDay.Hour, r.TimeOfDay.Minute, 0, 0, time.UTC)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	delay := candidate.Sub(now)

	cy, cm, cd := candidate.Date()
	delaySeconds := int(delay / time.Second)
	return ResolvedSchedule{
		TimeOfDay:    r.TimeOfDay,
		Target:       time.Date(cy, cm, cd, r.TimeOfDay.Hour, r.TimeOfDay.Minute, 0, 0, r.Now.Location()),
		DelaySeconds: delaySeconds,
		FiresAt:      r.Now.Add(time.Duration(delaySeconds) * time.Second),
	}
}

// wallClock reinterprets t's local fields in UTC, dropping any zone offset.
func wallClock(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	return time.Date(y, m, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}
