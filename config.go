package amsauth

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config carries every tunable of the session layer. Zero values are
// filled by defaultConfig; env-driven deployments use FromEnv.
type Config struct {
	Service ServiceConfig
	Session SessionConfig
	Storage StorageConfig
	HTTP    HTTPConfig
	Metrics MetricsConfig
}

// ServiceConfig locates the remote authentication service.
type ServiceConfig struct {
	// BaseURL is the auth service root behind the gateway, without a
	// trailing slash.
	BaseURL string `env:"AMSAUTH_SERVICE_URL"`
	// SystemID is this application's subsystem identifier. A session is
	// only authenticated when the token carries a role grant for it.
	SystemID string `env:"AMSAUTH_SYSTEM_ID" envDefault:"ams"`
}

// SessionConfig tunes the session state machine.
type SessionConfig struct {
	// RefreshInterval is the fixed period of the silent background
	// token refresh.
	RefreshInterval time.Duration `env:"AMSAUTH_REFRESH_INTERVAL" envDefault:"4m"`
	// LoginPath is the login entry point handed to the redirect hook on
	// logout and by the route guard.
	LoginPath string `env:"AMSAUTH_LOGIN_PATH" envDefault:"/login"`
}

// StorageConfig selects and locates the primary token store.
type StorageConfig struct {
	StateDir  string `env:"AMSAUTH_STATE_DIR"`
	LegacyDir string `env:"AMSAUTH_LEGACY_STATE_DIR"`
	// RedisPrefix namespaces keys when the Redis-backed shared store is
	// used (see Builder.WithRedis).
	RedisPrefix string `env:"AMSAUTH_REDIS_PREFIX" envDefault:"ams"`
}

// HTTPConfig tunes the auth service client.
type HTTPConfig struct {
	// Timeout bounds every auth service call. Without it a hung verify
	// request would leave the session loading forever.
	Timeout time.Duration `env:"AMSAUTH_HTTP_TIMEOUT" envDefault:"15s"`
}

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool `env:"AMSAUTH_METRICS_ENABLED" envDefault:"true"`
}

func defaultConfig() Config {
	return Config{
		Service: ServiceConfig{SystemID: "ams"},
		Session: SessionConfig{
			RefreshInterval: 4 * time.Minute,
			LoginPath:       "/login",
		},
		Storage: StorageConfig{
			StateDir:    defaultStateDir(),
			RedisPrefix: "ams",
		},
		HTTP:    HTTPConfig{Timeout: 15 * time.Second},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "amsauth")
}

// FromEnv builds a Config from AMSAUTH_* environment variables, filling
// anything unset with the defaults.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Storage.StateDir == "" {
		cfg.Storage.StateDir = defaultStateDir()
	}
	return cfg, nil
}

// Validate reports the first configuration error, if any.
func (c Config) Validate() error {
	if c.Service.BaseURL == "" {
		return errors.New("Service.BaseURL is required")
	}
	if c.Service.SystemID == "" {
		return errors.New("Service.SystemID is required")
	}
	if c.Session.RefreshInterval <= 0 {
		return errors.New("Session.RefreshInterval must be positive")
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("HTTP.Timeout must be positive")
	}
	if c.Storage.StateDir == "" {
		return errors.New("Storage.StateDir is required")
	}
	return nil
}
