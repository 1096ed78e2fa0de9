package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the sunshift agent
type Config struct {
	// Service configuration
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	LogPath     string `yaml:"log_path"`
	HealthPort  int    `yaml:"health_port"`
	RunMode     string `yaml:"run_mode"` // "once" or "daemon"
	DryRun      bool   `yaml:"dry_run"`

	// Location configuration
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	Timezone  string  `yaml:"timezone"` // IANA name, empty means system local

	// Sun data provider configuration
	SunProvider     string `yaml:"sun_provider"` // "api" or "solar"
	SunAPIBaseURL   string `yaml:"sun_api_base_url"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`

	// Theme apply configuration
	ForceShellRestart bool `yaml:"force_shell_restart"`

	// Task scheduler configuration
	TaskName   string `yaml:"task_name"`
	TaskFolder string `yaml:"task_folder"`
	ScriptPath string `yaml:"script_path"` // empty means the current executable

	// MQTT configuration (optional, disabled when broker is empty)
	MQTTBroker   string `yaml:"mqtt_broker"`
	MQTTPort     int    `yaml:"mqtt_port"`
	MQTTUser     string `yaml:"mqtt_user"`
	MQTTPassword string `yaml:"mqtt_password"`
	MQTTClientID string `yaml:"mqtt_client_id"`

	// Redis configuration (optional, disabled when host is empty)
	RedisHost     string `yaml:"redis_host"`
	RedisPort     int    `yaml:"redis_port"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	// Postgres configuration (optional, disabled when host is empty)
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     int    `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`
	PostgresSSLMode  string `yaml:"postgres_ssl_mode"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		ServiceName: "sunshift-agent",
		LogLevel:    "info",
		LogPath:     "",
		HealthPort:  8080,
		RunMode:     "once",
		DryRun:      false,
		// Helsinki coordinates
		Latitude:  60.1695,
		Longitude: 24.9354,
		Timezone:  "",
		// Sun data provider defaults
		SunProvider:     "api",
		SunAPIBaseURL:   "https://api.sunrise-sunset.org",
		FetchTimeoutSec: 10,
		// Theme apply defaults
		ForceShellRestart: false,
		// Task scheduler defaults
		TaskName:   "sunshift",
		TaskFolder: `\sunshift`,
		ScriptPath: "",
		// MQTT defaults
		MQTTBroker:   "",
		MQTTPort:     1883,
		MQTTUser:     "",
		MQTTPassword: "",
		MQTTClientID: "",
		// Redis defaults
		RedisHost:     "",
		RedisPort:     6379,
		RedisPassword: "",
		RedisDB:       0,
		// Postgres defaults
		PostgresHost:     "",
		PostgresPort:     5432,
		PostgresUser:     "sunshift",
		PostgresPassword: "",
		PostgresDB:       "sunshift",
		PostgresSSLMode:  "disable",
	}
}

// LoadFromFile overlays configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables with SUNSHIFT_ prefix
func (c *Config) LoadFromEnv() {
	// Service configuration
	if v := os.Getenv("SUNSHIFT_SERVICE_NAME"); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv("SUNSHIFT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("SUNSHIFT_LOG_PATH"); v != "" {
		c.LogPath = v
	}
	if v := os.Getenv("SUNSHIFT_HEALTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HealthPort = port
		}
	}
	if v := os.Getenv("SUNSHIFT_RUN_MODE"); v != "" {
		c.RunMode = v
	}
	if v := os.Getenv("SUNSHIFT_DRY_RUN"); v != "" {
		if dry, err := strconv.ParseBool(v); err == nil {
			c.DryRun = dry
		}
	}

	// Location configuration
	if v := os.Getenv("SUNSHIFT_LATITUDE"); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			c.Latitude = lat
		}
	}
	if v := os.Getenv("SUNSHIFT_LONGITUDE"); v != "" {
		if lon, err := strconv.ParseFloat(v, 64); err == nil {
			c.Longitude = lon
		}
	}
	if v := os.Getenv("SUNSHIFT_TIMEZONE"); v != "" {
		c.Timezone = v
	}

	// Sun data provider configuration
	if v := os.Getenv("SUNSHIFT_SUN_PROVIDER"); v != "" {
		c.SunProvider = v
	}
	if v := os.Getenv("SUNSHIFT_SUN_API_BASE_URL"); v != "" {
		c.SunAPIBaseURL = v
	}
	if v := os.Getenv("SUNSHIFT_FETCH_TIMEOUT_SEC"); v != "" {
		if timeout, err := strconv.Atoi(v); err == nil {
			c.FetchTimeoutSec = timeout
		}
	}

	// Theme apply configuration
	if v := os.Getenv("SUNSHIFT_FORCE_SHELL_RESTART"); v != "" {
		if force, err := strconv.ParseBool(v); err == nil {
			c.ForceShellRestart = force
		}
	}

	// Task scheduler configuration
	if v := os.Getenv("SUNSHIFT_TASK_NAME"); v != "" {
		c.TaskName = v
	}
	if v := os.Getenv("SUNSHIFT_TASK_FOLDER"); v != "" {
		c.TaskFolder = v
	}
	if v := os.Getenv("SUNSHIFT_SCRIPT_PATH"); v != "" {
		c.ScriptPath = v
	}

	// MQTT configuration
	if v := os.Getenv("SUNSHIFT_MQTT_BROKER"); v != "" {
		c.MQTTBroker = v
	}
	if v := os.Getenv("SUNSHIFT_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MQTTPort = port
		}
	}
	if v := os.Getenv("SUNSHIFT_MQTT_USER"); v != "" {
		c.MQTTUser = v
	}
	if v := os.Getenv("SUNSHIFT_MQTT_PASSWORD"); v != "" {
		c.MQTTPassword = v
	}
	if v := os.Getenv("SUNSHIFT_MQTT_CLIENT_ID"); v != "" {
		c.MQTTClientID = v
	}

	// Redis configuration
	if v := os.Getenv("SUNSHIFT_REDIS_HOST"); v != "" {
		c.RedisHost = v
	}
	if v := os.Getenv("SUNSHIFT_REDIS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.RedisPort = port
		}
	}
	if v := os.Getenv("SUNSHIFT_REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("SUNSHIFT_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.RedisDB = db
		}
	}

	// Postgres configuration
	if v := os.Getenv("SUNSHIFT_POSTGRES_HOST"); v != "" {
		c.PostgresHost = v
	}
	if v := os.Getenv("SUNSHIFT_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.PostgresPort = port
		}
	}
	if v := os.Getenv("SUNSHIFT_POSTGRES_USER"); v != "" {
		c.PostgresUser = v
	}
	if v := os.Getenv("SUNSHIFT_POSTGRES_PASSWORD"); v != "" {
		c.PostgresPassword = v
	}
	if v := os.Getenv("SUNSHIFT_POSTGRES_DB"); v != "" {
		c.PostgresDB = v
	}
	if v := os.Getenv("SUNSHIFT_POSTGRES_SSL_MODE"); v != "" {
		c.PostgresSSLMode = v
	}
}

// LoadFromFlags parses command-line flags and overrides config values
func (c *Config) LoadFromFlags() {
	// Service flags
	pflag.StringVar(&c.ServiceName, "service-name", c.ServiceName, "Service name")
	pflag.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level (debug, info, warn, error)")
	pflag.StringVar(&c.LogPath, "log-path", c.LogPath, "Append-only log file path (empty for console only)")
	pflag.IntVar(&c.HealthPort, "health-port", c.HealthPort, "Health check HTTP port (daemon mode)")
	pflag.StringVar(&c.RunMode, "run-mode", c.RunMode, "Run mode: once (re-scheduled via OS tasks) or daemon")
	pflag.BoolVar(&c.DryRun, "dry-run", c.DryRun, "Log decisions without touching registry or scheduler")

	// Location flags
	pflag.Float64Var(&c.Latitude, "latitude", c.Latitude, "Geographic latitude for sunrise/sunset calculation")
	pflag.Float64Var(&c.Longitude, "longitude", c.Longitude, "Geographic longitude for sunrise/sunset calculation")
	pflag.StringVar(&c.Timezone, "timezone", c.Timezone, "IANA timezone name (empty for system local)")

	// Sun data provider flags
	pflag.StringVar(&c.SunProvider, "sun-provider", c.SunProvider, "Sun data provider: api or solar")
	pflag.StringVar(&c.SunAPIBaseURL, "sun-api-base-url", c.SunAPIBaseURL, "Sunrise/sunset API base URL")
	pflag.IntVar(&c.FetchTimeoutSec, "fetch-timeout", c.FetchTimeoutSec, "Sun data fetch timeout in seconds")

	// Theme apply flags
	pflag.BoolVar(&c.ForceShellRestart, "force-shell-restart", c.ForceShellRestart, "Restart the desktop shell if the settings broadcast fails")

	// Task scheduler flags
	pflag.StringVar(&c.TaskName, "task-name", c.TaskName, "Scheduled task name")
	pflag.StringVar(&c.TaskFolder, "task-folder", c.TaskFolder, "Scheduled task folder")
	pflag.StringVar(&c.ScriptPath, "script-path", c.ScriptPath, "Command the scheduled tasks run (empty for this executable)")

	// MQTT flags
	pflag.StringVar(&c.MQTTBroker, "mqtt-broker", c.MQTTBroker, "MQTT broker hostname (empty disables MQTT)")
	pflag.IntVar(&c.MQTTPort, "mqtt-port", c.MQTTPort, "MQTT broker port")
	pflag.StringVar(&c.MQTTUser, "mqtt-user", c.MQTTUser, "MQTT username")
	pflag.StringVar(&c.MQTTPassword, "mqtt-password", c.MQTTPassword, "MQTT password")
	pflag.StringVar(&c.MQTTClientID, "mqtt-client-id", c.MQTTClientID, "MQTT client ID")

	// Redis flags
	pflag.StringVar(&c.RedisHost, "redis-host", c.RedisHost, "Redis hostname (empty disables the sun data cache)")
	pflag.IntVar(&c.RedisPort, "redis-port", c.RedisPort, "Redis port")
	pflag.StringVar(&c.RedisPassword, "redis-password", c.RedisPassword, "Redis password")
	pflag.IntVar(&c.RedisDB, "redis-db", c.RedisDB, "Redis database number")

	// Postgres flags
	pflag.StringVar(&c.PostgresHost, "postgres-host", c.PostgresHost, "Postgres hostname (empty disables transition history)")
	pflag.IntVar(&c.PostgresPort, "postgres-port", c.PostgresPort, "Postgres port")
	pflag.StringVar(&c.PostgresUser, "postgres-user", c.PostgresUser, "Postgres username")
	pflag.StringVar(&c.PostgresPassword, "postgres-password", c.PostgresPassword, "Postgres password")
	pflag.StringVar(&c.PostgresDB, "postgres-db", c.PostgresDB, "Postgres database name")
	pflag.StringVar(&c.PostgresSSLMode, "postgres-ssl-mode", c.PostgresSSLMode, "Postgres SSL mode")

	pflag.Parse()
}

// Validate checks that required configuration values are set
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if c.RunMode != "once" && c.RunMode != "daemon" {
		return fmt.Errorf("invalid run mode: %s (must be once or daemon)", c.RunMode)
	}
	if c.SunProvider != "api" && c.SunProvider != "solar" {
		return fmt.Errorf("invalid sun provider: %s (must be api or solar)", c.SunProvider)
	}
	if c.SunProvider == "api" && c.SunAPIBaseURL == "" {
		return fmt.Errorf("sun API base URL is required for the api provider")
	}
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.TaskName == "" {
		return fmt.Errorf("task name is required")
	}
	if c.HealthPort <= 0 || c.HealthPort > 65535 {
		return fmt.Errorf("health port must be between 1 and 65535")
	}
	if c.MQTTBroker != "" && (c.MQTTPort <= 0 || c.MQTTPort > 65535) {
		return fmt.Errorf("MQTT port must be between 1 and 65535")
	}
	if c.RedisHost != "" && (c.RedisPort <= 0 || c.RedisPort > 65535) {
		return fmt.Errorf("Redis port must be between 1 and 65535")
	}
	if c.PostgresHost != "" && (c.PostgresPort <= 0 || c.PostgresPort > 65535) {
		return fmt.Errorf("Postgres port must be between 1 and 65535")
	}
	if _, err := c.TimeLocation(); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// TimeLocation resolves the configured timezone, defaulting to system local
func (c *Config) TimeLocation() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// FetchTimeout returns the sun data fetch timeout as a duration
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// MQTTAddress returns the full MQTT broker address
func (c *Config) MQTTAddress() string {
	return fmt.Sprintf("tcp://%s:%d", c.MQTTBroker, c.MQTTPort)
}

// RedisAddress returns the full Redis address
func (c *Config) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// PostgresConnectionString returns the Postgres DSN
func (c *Config) PostgresConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDB, c.PostgresSSLMode)
}
