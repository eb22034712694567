package database

import (
	"context"
	"time"
)

// Driver opens handles to the warehouse.
type Driver interface {
	// Open establishes a session using the given settings.
	Open(ctx context.Context, cfg ConnConfig) (Conn, error)
}

// Conn is an open session owned by a single client.
// Implementations are not required to be safe for concurrent use.
type Conn interface {
	// Query runs a statement and returns every row it produced.
	// params holds named bind values and may be nil.
	Query(ctx context.Context, query string, params map[string]any) (*QueryResult, error)

	// Exec runs a statement whose rows are not needed, such as USE.
	Exec(ctx context.Context, statement string) error

	// Ping checks if the session is alive.
	Ping(ctx context.Context) error

	// Close releases the session.
	Close() error
}

// ConnConfig carries the settings a driver needs to open a session.
// Empty optional fields are left to the server defaults.
type ConnConfig struct {
	Account      string
	User         string
	Password     string
	Warehouse    string
	Database     string
	Schema       string
	Role         string
	Application  string
	LoginTimeout time.Duration
}
