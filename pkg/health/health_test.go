package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMQTT struct {
	connected bool
}

func (f *fakeMQTT) Connect(ctx context.Context) error                          { return nil }
func (f *fakeMQTT) Disconnect()                                                {}
func (f *fakeMQTT) Publish(topic string, qos byte, retained bool, p []byte) error { return nil }
func (f *fakeMQTT) IsConnected() bool                                          { return f.connected }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandlerFunc_NoDependencies(t *testing.T) {
	checker := NewChecker(nil, testLogger())

	rec := httptest.NewRecorder()
	checker.HandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Services)
}

func TestHandlerFunc_ReportsMQTTState(t *testing.T) {
	checker := NewChecker(&fakeMQTT{connected: true}, testLogger())

	rec := httptest.NewRecorder()
	checker.HandlerFunc()(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Services)
	assert.Equal(t, "connected", resp.Services.MQTT)
}
