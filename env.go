package snowclient

import "os"

// Environment variables read by FromEnv.
const (
	EnvAccount   = "SNOWFLAKE_ACCOUNT"
	EnvUser      = "SNOWFLAKE_USER"
	EnvPassword  = "SNOWFLAKE_PASSWORD"
	EnvWarehouse = "SNOWFLAKE_WAREHOUSE"
	EnvDatabase  = "SNOWFLAKE_DATABASE"
	EnvSchema    = "SNOWFLAKE_SCHEMA"
	EnvRole      = "SNOWFLAKE_ROLE"
)

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// MapLookup serves lookups from a fixed snapshot.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// LoadEnvironment reads the SNOWFLAKE_* variables without validating them.
func LoadEnvironment(lookup LookupFunc) Config {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Config{
		Account:   get(EnvAccount),
		User:      get(EnvUser),
		Password:  get(EnvPassword),
		Warehouse: get(EnvWarehouse),
		Database:  get(EnvDatabase),
		Schema:    get(EnvSchema),
		Role:      get(EnvRole),
	}
}

// ConfigFromEnvironment loads the environment, applies overrides on top
// and checks that account, user and password are present.
func ConfigFromEnvironment(lookup LookupFunc, overrides ...Option) (Config, error) {
	s := newSettings(LoadEnvironment(lookup), overrides)
	if err := s.cfg.Validate(); err != nil {
		return Config{}, err
	}
	return s.cfg, nil
}

// FromEnvironment builds an unconnected client from lookup. Explicit
// options take precedence over the environment.
func FromEnvironment(lookup LookupFunc, opts ...Option) (*Client, error) {
	s := newSettings(LoadEnvironment(lookup), opts)
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	return newClient(s), nil
}

// FromEnv builds an unconnected client from the process environment.
func FromEnv(opts ...Option) (*Client, error) {
	return FromEnvironment(os.LookupEnv, opts...)
}
