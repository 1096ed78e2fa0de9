package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/mkarvo/sunshift/pkg/mqtt"
)

// Checker provides the /health endpoint served in daemon mode
type Checker struct {
	mqtt   mqtt.Client // nil when MQTT is disabled
	logger *slog.Logger
}

// NewChecker creates a new health checker with the given dependencies
func NewChecker(mqttClient mqtt.Client, logger *slog.Logger) *Checker {
	return &Checker{
		mqtt:   mqttClient,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Services  *Services `json:"services,omitempty"`
}

// Services represents the status of optional external dependencies
type Services struct {
	MQTT string `json:"mqtt"`
}

// HandlerFunc returns an HTTP handler for health checks. The process
// being alive is enough for 200; dependency state is informational.
func (h *Checker) HandlerFunc() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if h.mqtt != nil {
			status := "disconnected"
			if h.mqtt.IsConnected() {
				status = "connected"
			}
			resp.Services = &Services{MQTT: status}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("Failed to encode health response", "error", err)
		}
	}
}
