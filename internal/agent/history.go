package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mkarvo/sunshift/pkg/postgres"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS theme_transitions (
	run_id       UUID PRIMARY KEY,
	decided_at   TIMESTAMPTZ NOT NULL,
	theme        TEXT NOT NULL,
	is_daytime   BOOLEAN NOT NULL,
	applied      BOOLEAN NOT NULL,
	sunrise      TIMESTAMPTZ NOT NULL,
	sunset       TIMESTAMPTZ NOT NULL,
	next_trigger TIMESTAMPTZ NOT NULL,
	next_label   TEXT NOT NULL
)`

const insertTransition = `
INSERT INTO theme_transitions
	(run_id, decided_at, theme, is_daytime, applied, sunrise, sunset, next_trigger, next_label)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// History records one row per run in Postgres. Recording failures are
// reported to the caller, which logs and moves on.
type History struct {
	db     postgres.Client
	logger *slog.Logger
}

// NewHistory creates a new transition history recorder
func NewHistory(db postgres.Client, logger *slog.Logger) *History {
	return &History{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the history table when it does not exist yet
func (h *History) EnsureSchema(ctx context.Context) error {
	if _, err := h.db.Exec(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("failed to create theme_transitions table: %w", err)
	}
	return nil
}

// Record inserts one transition row
func (h *History) Record(ctx context.Context, ev TransitionEvent) error {
	_, err := h.db.Exec(ctx, insertTransition,
		ev.RunID, ev.Timestamp, ev.Theme, ev.IsDaytime, ev.Applied,
		ev.Sunrise, ev.Sunset, ev.NextTrigger, ev.NextLabel)
	if err != nil {
		return fmt.Errorf("failed to insert transition row: %w", err)
	}
	return nil
}
