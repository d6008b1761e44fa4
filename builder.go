package amsauth

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/amstrack/amsauth/authapi"
	"github.com/amstrack/amsauth/store"
)

// Builder assembles a [Manager]. Construction is allocation-only; no
// network traffic happens until the first auth check.
type Builder struct {
	config   Config
	primary  store.Store
	api      *authapi.Client
	redis    *redis.Client
	logger   *zap.Logger
	redirect func(loginPath string)

	built bool
}

// New creates a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
		logger: zap.NewNop(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore overrides the primary token store. Defaults to a file store
// under Config.Storage.StateDir.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.primary = s
	return b
}

// WithRedis switches the primary token store to Redis, for shared
// deployments where several console processes must observe one session.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAPIClient overrides the auth service client. Used by tests and by
// callers that need custom transports.
func (b *Builder) WithAPIClient(c *authapi.Client) *Builder {
	b.api = c
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithRedirect installs the hook invoked with the login path after a
// logout. The hosting UI performs the actual navigation.
func (b *Builder) WithRedirect(fn func(loginPath string)) *Builder {
	b.redirect = fn
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and constructs the Manager. The
// Manager starts in the checking state (loading, not yet initialized);
// callers run [Manager.CheckAuthStatus] to reach a terminal state.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := b.api
	if api == nil {
		var err error
		api, err = authapi.NewClient(cfg.Service.BaseURL,
			authapi.WithTimeout(cfg.HTTP.Timeout),
			authapi.WithLogger(b.logger),
		)
		if err != nil {
			return nil, err
		}
	}

	primary := b.primary
	if primary == nil {
		if b.redis != nil {
			primary = store.NewRedisStore(b.redis, cfg.Storage.RedisPrefix, cfg.HTTP.Timeout)
		} else {
			primary = store.NewFileStore(cfg.Storage.StateDir, cfg.Storage.LegacyDir)
		}
	}

	layered := &store.Layered{
		Primary:     primary,
		Cookies:     api.CookieToken,
		DropCookies: api.DropCookies,
	}

	b.built = true

	return &Manager{
		config:   cfg,
		store:    layered,
		api:      api,
		logger:   b.logger,
		metrics:  NewMetrics(cfg.Metrics),
		redirect: b.redirect,
		loading:  true,
	}, nil
}
