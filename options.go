package snowclient

import (
	"log/slog"
	"time"
)

// Option configures a Client.
type Option func(*settings)

type settings struct {
	cfg    Config
	driver Driver
	logger *slog.Logger
}

func newSettings(cfg Config, opts []Option) *settings {
	s := &settings{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithWarehouse sets the default warehouse.
func WithWarehouse(name string) Option {
	return func(s *settings) { s.cfg.Warehouse = name }
}

// WithDatabase sets the default database.
func WithDatabase(name string) Option {
	return func(s *settings) { s.cfg.Database = name }
}

// WithSchema sets the default schema.
func WithSchema(name string) Option {
	return func(s *settings) { s.cfg.Schema = name }
}

// WithRole sets the default role.
func WithRole(name string) Option {
	return func(s *settings) { s.cfg.Role = name }
}

// WithApplication sets the client application name reported to Snowflake.
func WithApplication(name string) Option {
	return func(s *settings) { s.cfg.Application = name }
}

// WithLoginTimeout bounds the login request.
func WithLoginTimeout(d time.Duration) Option {
	return func(s *settings) { s.cfg.LoginTimeout = d }
}

// WithDriver replaces the Snowflake driver, typically with a fake in tests.
func WithDriver(d Driver) Option {
	return func(s *settings) { s.driver = d }
}

// WithLogger sets the structured logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}
