package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultServerURL is the fixed fallback backend endpoint used when
// INFINO_SERVER_URL is absent or empty.
const DefaultServerURL = "http://localhost:3000"

// EnvPrefix is the environment namespace for all gateway settings:
// INFINO_SERVER_URL, INFINO_GATEWAY_PORT, INFINO_DEFAULT_SEARCH_DAYS, ...
const EnvPrefix = "INFINO_"

// Config holds all gateway settings, resolved once at process start and
// read-only afterwards.
type Config struct {
	// ServerURL is the backend telemetry store base URL (INFINO_SERVER_URL).
	ServerURL string `koanf:"server_url" validate:"required,url"`
	// MetadataURL is the host platform's index admin API, used only for
	// mirror bookkeeping.
	MetadataURL string `koanf:"metadata_url" validate:"required,url"`

	GatewayPort string `koanf:"gateway_port" validate:"required"`

	// DefaultSearchDays is the search lookback applied when a query carries
	// no start_time.
	DefaultSearchDays int `koanf:"default_search_days" validate:"gte=1"`

	// ForwardWorkers and ForwardQueueDepth size the worker pool that is kept
	// isolated from the server's own request goroutines.
	ForwardWorkers    int `koanf:"forward_workers" validate:"gte=1"`
	ForwardQueueDepth int `koanf:"forward_queue_depth" validate:"gte=1"`

	RequestTimeoutSeconds  int `koanf:"request_timeout_seconds" validate:"gte=1"`
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds" validate:"gte=1"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`

	Observability ObservabilityConfig `koanf:"observability"`
}

// ObservabilityConfig enables New Relic APM when a license key is present.
type ObservabilityConfig struct {
	NewRelicAppName    string `koanf:"newrelic_app_name"`
	NewRelicLicenseKey string `koanf:"newrelic_license_key"`
}

// Enabled reports whether APM should be started.
func (o ObservabilityConfig) Enabled() bool {
	return o.NewRelicLicenseKey != ""
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ServerURL:              DefaultServerURL,
		MetadataURL:            "http://localhost:9200",
		GatewayPort:            "8080",
		DefaultSearchDays:      30,
		ForwardWorkers:         8,
		ForwardQueueDepth:      128,
		RequestTimeoutSeconds:  30,
		ShutdownTimeoutSeconds: 10,
		LogLevel:               "info",
		LogFormat:              "json",
		Observability: ObservabilityConfig{
			NewRelicAppName: "infino-gateway",
		},
	}
}

// Load resolves configuration: built-in defaults overlaid with INFINO_*
// environment variables, then validated. An empty INFINO_SERVER_URL falls
// back to DefaultServerURL rather than failing.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		// Observability settings nest one level down.
		if strings.HasPrefix(key, "newrelic_") {
			return "observability." + key
		}
		return key
	}), nil)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	cfg.ServerURL = strings.TrimSuffix(cfg.ServerURL, "/")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchWindow returns the default search lookback as a duration.
func (c *Config) SearchWindow() time.Duration {
	return time.Duration(c.DefaultSearchDays) * 24 * time.Hour
}

// RequestTimeout bounds one backend round trip.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds the in-flight drain at process shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}
