package agent

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mkarvo/sunshift/pkg/mqtt"
)

// Announcer publishes theme state and transition events over MQTT so
// other automation can react to theme flips. Publishing is best-effort;
// failures are logged and never affect the run.
type Announcer struct {
	client mqtt.Client
	logger *slog.Logger
}

// NewAnnouncer creates a new announcer on top of a connected MQTT client
func NewAnnouncer(client mqtt.Client, logger *slog.Logger) *Announcer {
	return &Announcer{
		client: client,
		logger: logger,
	}
}

// themeState is the retained current-state payload
type themeState struct {
	Theme     string `json:"theme"`
	IsDaytime bool   `json:"is_daytime"`
	Since     string `json:"since"`
}

// Announce publishes the retained theme state and the transition event
func (an *Announcer) Announce(ev TransitionEvent) {
	state := themeState{
		Theme:     ev.Theme,
		IsDaytime: ev.IsDaytime,
		Since:     ev.Timestamp.Format(time.RFC3339),
	}
	if payload, err := json.Marshal(state); err == nil {
		if err := an.client.Publish(mqtt.TopicThemeState, 0, true, payload); err != nil {
			an.logger.Warn("Failed to publish theme state", "error", err)
		}
	}

	if payload, err := json.Marshal(ev); err == nil {
		if err := an.client.Publish(mqtt.TopicTransition, 0, false, payload); err != nil {
			an.logger.Warn("Failed to publish transition event", "error", err)
		}
	}
}
