package snowclient

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConnected is returned when a statement is issued without an open session.
	ErrNotConnected = errors.New("not connected to snowflake")

	// ErrAlreadyConnected is returned by Connect when a session is already open.
	ErrAlreadyConnected = errors.New("already connected to snowflake")

	// ErrMissingConfig is matched by every *ConfigError.
	ErrMissingConfig = errors.New("missing snowflake configuration")
)

// ConfigError reports mandatory settings that were not provided.
type ConfigError struct {
	// Missing holds the environment variable names of the absent settings.
	Missing []string
}

func (e *ConfigError) Error() string {
	switch len(e.Missing) {
	case 0:
		return ErrMissingConfig.Error()
	case 1:
		return fmt.Sprintf("%s is not set", e.Missing[0])
	default:
		return fmt.Sprintf("%s are not set", strings.Join(e.Missing, ", "))
	}
}

func (e *ConfigError) Unwrap() error {
	return ErrMissingConfig
}
