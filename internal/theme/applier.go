package theme

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupported indicates the platform has no theme settings to write
var ErrUnsupported = errors.New("theme switching not supported on this platform")

// ApplyError wraps a failed persistent-settings mutation. Callers log it
// and continue with scheduling; it never aborts the run.
type ApplyError struct {
	Op  string
	Err error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("theme apply failed during %s: %v", e.Op, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Applier reads and writes the OS theme settings and notifies running
// processes of the change. Apply is idempotent: writing the value that is
// already set is a no-op for the OS.
type Applier interface {
	// Current reads the currently configured theme
	Current() (Theme, error)

	// Apply writes the theme settings and broadcasts the change
	Apply(ctx context.Context, t Theme) error
}
