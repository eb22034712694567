package snowclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/joacominatel/snowclient/internal/database"
)

// Config holds connection credentials and session defaults.
// Empty optional fields are treated as absent.
type Config struct {
	Account  string
	User     string
	Password string

	Warehouse string
	Database  string
	Schema    string
	Role      string

	// Application is reported to Snowflake as the client name.
	Application string
	// LoginTimeout bounds the login request; zero keeps the driver default.
	LoginTimeout time.Duration
}

// Validate reports every mandatory field that is empty.
func (c Config) Validate() error {
	var missing []string
	if c.Account == "" {
		missing = append(missing, EnvAccount)
	}
	if c.User == "" {
		missing = append(missing, EnvUser)
	}
	if c.Password == "" {
		missing = append(missing, EnvPassword)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// Merge returns c with every non-empty field of o applied on top.
func (c Config) Merge(o Config) Config {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Account, o.Account)
	set(&c.User, o.User)
	set(&c.Password, o.Password)
	set(&c.Warehouse, o.Warehouse)
	set(&c.Database, o.Database)
	set(&c.Schema, o.Schema)
	set(&c.Role, o.Role)
	set(&c.Application, o.Application)
	if o.LoginTimeout > 0 {
		c.LoginTimeout = o.LoginTimeout
	}
	return c
}

// String returns a log-safe summary; the password is never included.
func (c Config) String() string {
	s := c.User + "@" + c.Account
	var opts []string
	for _, kv := range [][2]string{
		{"warehouse", c.Warehouse},
		{"database", c.Database},
		{"schema", c.Schema},
		{"role", c.Role},
	} {
		if kv[1] != "" {
			opts = append(opts, kv[0]+"="+kv[1])
		}
	}
	if len(opts) > 0 {
		s += fmt.Sprintf(" (%s)", strings.Join(opts, ", "))
	}
	return s
}

func (c Config) connConfig() database.ConnConfig {
	return database.ConnConfig{
		Account:      c.Account,
		User:         c.User,
		Password:     c.Password,
		Warehouse:    c.Warehouse,
		Database:     c.Database,
		Schema:       c.Schema,
		Role:         c.Role,
		Application:  c.Application,
		LoginTimeout: c.LoginTimeout,
	}
}
