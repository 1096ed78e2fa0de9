package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported indicates the platform has no task scheduler integration
var ErrUnsupported = errors.New("task scheduling not supported on this platform")

// Scheduler persists wake-up triggers with the OS task scheduler. Each
// registration replaces the previous one, so exactly one one-shot trigger
// and one logon trigger exist at a time.
type Scheduler interface {
	// ScheduleOnce registers a one-shot trigger at the given instant
	ScheduleOnce(ctx context.Context, at time.Time, label string) error

	// ScheduleAtLogon registers a trigger fired at each user logon
	ScheduleAtLogon(ctx context.Context) error
}
