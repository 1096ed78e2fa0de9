//go:build !windows

package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/mkarvo/sunshift/pkg/config"
)

// stubScheduler keeps non-Windows builds compiling; daemon mode does its
// own in-process timing and never touches the OS scheduler.
type stubScheduler struct {
	logger *slog.Logger
}

// NewScheduler returns a no-op scheduler on platforms without task scheduler support
func NewScheduler(cfg *config.Config, logger *slog.Logger) (Scheduler, error) {
	return &stubScheduler{logger: logger}, nil
}

func (s *stubScheduler) ScheduleOnce(ctx context.Context, at time.Time, label string) error {
	return ErrUnsupported
}

func (s *stubScheduler) ScheduleAtLogon(ctx context.Context) error {
	return ErrUnsupported
}
