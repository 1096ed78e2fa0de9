package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mkarvo/sunshift/internal/schedule"
	"github.com/mkarvo/sunshift/internal/suntime"
	"github.com/mkarvo/sunshift/internal/theme"
	"github.com/mkarvo/sunshift/pkg/config"
	"github.com/mkarvo/sunshift/pkg/redis"
)

// TransitionEvent describes one completed run: the decision, whether it
// was applied, and the planned next trigger.
type TransitionEvent struct {
	RunID       string    `json:"run_id"`
	Theme       string    `json:"theme"`
	IsDaytime   bool      `json:"is_daytime"`
	Applied     bool      `json:"applied"`
	Sunrise     time.Time `json:"sunrise"`
	Sunset      time.Time `json:"sunset"`
	NextTrigger time.Time `json:"next_trigger"`
	NextLabel   string    `json:"next_label"`
	Timestamp   time.Time `json:"timestamp"`
}

// Agent orchestrates one theme evaluation: fetch sun data, decide, apply
// on mismatch, plan the next transition, and persist the wake-up trigger.
type Agent struct {
	provider  suntime.Provider
	applier   theme.Applier
	scheduler schedule.Scheduler
	cfg       *config.Config
	logger    *slog.Logger
	loc       *time.Location

	announcer *Announcer
	history   *History
	state     redis.Client

	now func() time.Time
}

// New creates a new agent
func New(provider suntime.Provider, applier theme.Applier, scheduler schedule.Scheduler,
	cfg *config.Config, loc *time.Location, logger *slog.Logger) *Agent {
	return &Agent{
		provider:  provider,
		applier:   applier,
		scheduler: scheduler,
		cfg:       cfg,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
	}
}

// WithAnnouncer attaches an optional MQTT announcer
func (a *Agent) WithAnnouncer(an *Announcer) *Agent {
	a.announcer = an
	return a
}

// WithHistory attaches an optional transition history recorder
func (a *Agent) WithHistory(h *History) *Agent {
	a.history = h
	return a
}

// WithStateStore attaches an optional Redis store that keeps the last
// decided theme readable for other automation
func (a *Agent) WithStateStore(store redis.Client) *Agent {
	a.state = store
	return a
}

// Run performs one evaluation and registers the OS scheduler triggers for
// the next one. Sun data and scheduler failures are fatal; a failed theme
// apply is logged and the run continues so the re-scheduling chain stays
// intact.
func (a *Agent) Run(ctx context.Context) error {
	plan, err := a.runCycle(ctx)
	if err != nil {
		return err
	}

	if a.cfg.DryRun {
		a.logger.Info("Dry run, skipping task registration",
			"next_trigger", plan.Trigger,
			"label", plan.Label)
		return nil
	}

	if err := a.scheduler.ScheduleOnce(ctx, plan.Trigger, plan.Label); err != nil {
		return fmt.Errorf("failed to register one-shot trigger: %w", err)
	}
	if err := a.scheduler.ScheduleAtLogon(ctx); err != nil {
		return fmt.Errorf("failed to register logon trigger: %w", err)
	}

	return nil
}

// RunDaemon keeps evaluating in-process, sleeping until each planned
// transition instead of registering OS scheduler tasks.
func (a *Agent) RunDaemon(ctx context.Context) error {
	for {
		plan, err := a.runCycle(ctx)
		if err != nil {
			return err
		}

		// Wake slightly after the transition so the new decision lands
		// on the far side of the boundary
		wait := time.Until(plan.Trigger) + 2*time.Second
		if wait < 0 {
			wait = 2 * time.Second
		}
		a.logger.Info("Sleeping until next transition",
			"next_trigger", plan.Trigger,
			"label", plan.Label,
			"wait", wait.Round(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// runCycle executes the fixed decision sequence and returns the next
// transition plan
func (a *Agent) runCycle(ctx context.Context) (theme.TransitionPlan, error) {
	runID := uuid.New().String()
	now := a.now().In(a.loc)

	a.logger.Info("Evaluating theme",
		"run_id", runID,
		"now", now,
		"latitude", a.cfg.Latitude,
		"longitude", a.cfg.Longitude)

	current, err := a.applier.Current()
	currentKnown := err == nil
	if err != nil {
		a.logger.Warn("Could not read current theme, will apply unconditionally", "error", err)
	}

	today, err := a.provider.SunTimes(ctx, now)
	if err != nil {
		a.logger.Error("Failed to fetch today's sun data", "run_id", runID, "error", err)
		return theme.TransitionPlan{}, fmt.Errorf("today's sun data: %w", err)
	}

	desired, isDaytime := theme.Decide(now, today.Sunrise, today.Sunset)
	a.logger.Info("Theme decided",
		"run_id", runID,
		"desired", desired.String(),
		"is_daytime", isDaytime,
		"sunrise", today.Sunrise,
		"sunset", today.Sunset)

	applied := false
	switch {
	case a.cfg.DryRun:
		a.logger.Info("Dry run, not applying theme", "desired", desired.String())
	case currentKnown && desired == current:
		a.logger.Debug("Theme already correct, nothing to apply", "theme", desired.String())
	default:
		if err := a.applier.Apply(ctx, desired); err != nil {
			// Non-fatal: the next run gets another chance, and the
			// wake-up chain must not break
			a.logger.Error("Failed to apply theme", "run_id", runID, "error", err)
		} else {
			applied = true
			a.logger.Info("Theme applied", "run_id", runID, "theme", desired.String())
		}
	}

	plan, err := theme.PlanNext(ctx, now, today, func(ctx context.Context) (suntime.SunTimes, error) {
		return a.provider.SunTimes(ctx, now.AddDate(0, 0, 1))
	})
	if err != nil {
		a.logger.Error("Failed to plan next transition", "run_id", runID, "error", err)
		return theme.TransitionPlan{}, err
	}

	a.logger.Info("Next transition planned",
		"run_id", runID,
		"next_trigger", plan.Trigger,
		"label", plan.Label)

	event := TransitionEvent{
		RunID:       runID,
		Theme:       desired.String(),
		IsDaytime:   isDaytime,
		Applied:     applied,
		Sunrise:     today.Sunrise,
		Sunset:      today.Sunset,
		NextTrigger: plan.Trigger,
		NextLabel:   plan.Label,
		Timestamp:   now,
	}

	if a.state != nil && !a.cfg.DryRun {
		// No TTL: the value stays valid until the next decision replaces it
		if err := a.state.Set(ctx, redis.ThemeStateKey(), desired.String(), 0); err != nil {
			a.logger.Warn("Failed to record theme state", "run_id", runID, "error", err)
		}
	}
	if a.announcer != nil {
		a.announcer.Announce(event)
	}
	if a.history != nil {
		if err := a.history.Record(ctx, event); err != nil {
			a.logger.Warn("Failed to record transition history", "run_id", runID, "error", err)
		}
	}

	return plan, nil
}
