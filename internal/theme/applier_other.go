//go:build !windows

package theme

import (
	"context"
	"log/slog"

	"github.com/mkarvo/sunshift/pkg/config"
)

// stubApplier keeps non-Windows builds compiling; daemon mode with MQTT
// announcements still works, the registry write does not.
type stubApplier struct {
	logger *slog.Logger
}

// NewApplier returns a no-op applier on platforms without theme settings
func NewApplier(cfg *config.Config, logger *slog.Logger) Applier {
	return &stubApplier{logger: logger}
}

func (a *stubApplier) Current() (Theme, error) {
	return Dark, ErrUnsupported
}

func (a *stubApplier) Apply(ctx context.Context, t Theme) error {
	a.logger.Warn("Theme apply skipped", "theme", t.String(), "error", ErrUnsupported)
	return nil
}
