package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkarvo/sunshift/internal/agent"
	"github.com/mkarvo/sunshift/internal/schedule"
	"github.com/mkarvo/sunshift/internal/suntime"
	"github.com/mkarvo/sunshift/internal/theme"
	"github.com/mkarvo/sunshift/pkg/config"
	"github.com/mkarvo/sunshift/pkg/health"
	"github.com/mkarvo/sunshift/pkg/mqtt"
	"github.com/mkarvo/sunshift/pkg/postgres"
	"github.com/mkarvo/sunshift/pkg/redis"
)

func main() {
	// Load configuration with hierarchy: defaults → file → env → flags
	cfg := config.NewConfig()
	if path := os.Getenv("SUNSHIFT_CONFIG"); path != "" {
		if err := cfg.LoadFromFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.LoadFromEnv()
	cfg.LoadFromFlags()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging, mirrored to the log file when configured
	logSink := io.Writer(os.Stdout)
	if cfg.LogPath != "" {
		f, err := os.OpenFile(cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logSink = io.MultiWriter(os.Stdout, f)
	}
	logger := slog.New(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	loc, err := cfg.TimeLocation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("Starting sunshift agent",
		"service_name", cfg.ServiceName,
		"run_mode", cfg.RunMode,
		"sun_provider", cfg.SunProvider,
		"latitude", cfg.Latitude,
		"longitude", cfg.Longitude,
		"dry_run", cfg.DryRun,
		"log_level", cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Sun data provider, optionally wrapped in a Redis day cache
	var provider suntime.Provider
	switch cfg.SunProvider {
	case "solar":
		provider = suntime.NewSolarProvider(cfg, loc, logger)
	default:
		provider = suntime.NewAPIClient(cfg, loc, logger)
	}

	var redisClient redis.Client
	if cfg.RedisHost != "" {
		rc := redis.NewClient(cfg, logger)
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable, sun data cache and state disabled", "error", err)
		} else {
			defer rc.Close()
			redisClient = rc
			provider = suntime.NewCachedProvider(provider, rc, cfg, loc, logger)
		}
	}

	applier := theme.NewApplier(cfg, logger)

	scheduler, err := schedule.NewScheduler(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		os.Exit(1)
	}

	a := agent.New(provider, applier, scheduler, cfg, loc, logger)

	if redisClient != nil {
		a.WithStateStore(redisClient)
	}

	// Optional MQTT transition announcements
	var mqttClient mqtt.Client
	if cfg.MQTTBroker != "" {
		mqttClient = mqtt.NewClient(cfg, logger)
		connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
		if err := mqttClient.Connect(connectCtx); err != nil {
			logger.Warn("MQTT unavailable, announcements disabled", "error", err)
			mqttClient = nil
		} else {
			defer mqttClient.Disconnect()
			a.WithAnnouncer(agent.NewAnnouncer(mqttClient, logger))
		}
		connectCancel()
	}

	// Optional Postgres transition history
	if cfg.PostgresHost != "" {
		pgClient := postgres.NewClient(cfg, logger)
		if err := pgClient.Connect(ctx); err != nil {
			logger.Warn("Postgres unavailable, transition history disabled", "error", err)
		} else {
			defer pgClient.Disconnect()
			history := agent.NewHistory(pgClient, logger)
			if err := history.EnsureSchema(ctx); err != nil {
				logger.Warn("Could not ensure history schema, transition history disabled", "error", err)
			} else {
				a.WithHistory(history)
			}
		}
	}

	switch cfg.RunMode {
	case "daemon":
		runDaemon(ctx, cancel, a, cfg, mqttClient, logger)
	default:
		if err := a.Run(ctx); err != nil {
			logger.Error("Run failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Run complete")
	}
}

// runDaemon keeps the agent alive with its own transition timer, a health
// endpoint, and signal-driven shutdown
func runDaemon(ctx context.Context, cancel context.CancelFunc, a *agent.Agent,
	cfg *config.Config, mqttClient mqtt.Client, logger *slog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	healthChecker := health.NewChecker(mqttClient, logger)
	httpServer := startHealthServer(cfg.HealthPort, healthChecker, logger)

	agentErr := make(chan error, 1)
	go func() {
		agentErr <- a.RunDaemon(ctx)
	}()

	exitCode := 0
	select {
	case <-sigChan:
		logger.Info("Shutdown signal received (SIGTERM/SIGINT)")
	case err := <-agentErr:
		if err != nil {
			logger.Error("Agent failed", "error", err)
			exitCode = 1
		}
	}

	logger.Info("Initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down health server", "error", err)
	}

	logger.Info("Sunshift agent shutdown complete")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

func startHealthServer(port int, checker *health.Checker, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", checker.HandlerFunc())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		logger.Info("Starting health check server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server error", "error", err)
		}
	}()

	return server
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
