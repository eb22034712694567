package snowflake

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/snowflakedb/gosnowflake"

	"github.com/joacominatel/snowclient/internal/database"
	"github.com/joacominatel/snowclient/internal/database/bind"
)

const (
	// DefaultApplication is reported to Snowflake when none is configured.
	DefaultApplication = "snowclient"

	queryTagParam  = "query_tag"
	queryTagPrefix = "snowclient:"
)

// Driver implements the database.Driver interface for Snowflake.
type Driver struct {
	openDB func(cfg *gosnowflake.Config) *sql.DB
}

// New creates a new Snowflake driver.
func New() *Driver {
	return &Driver{openDB: openConnector}
}

func openConnector(cfg *gosnowflake.Config) *sql.DB {
	return sql.OpenDB(gosnowflake.NewConnector(gosnowflake.SnowflakeDriver{}, *cfg))
}

// NewConfig maps connection settings onto the vendor configuration.
// tag becomes the session QUERY_TAG.
func NewConfig(cfg database.ConnConfig, tag string) *gosnowflake.Config {
	app := cfg.Application
	if app == "" {
		app = DefaultApplication
	}

	sf := &gosnowflake.Config{
		Account:      cfg.Account,
		User:         cfg.User,
		Password:     cfg.Password,
		Warehouse:    cfg.Warehouse,
		Database:     cfg.Database,
		Schema:       cfg.Schema,
		Role:         cfg.Role,
		Application:  app,
		LoginTimeout: cfg.LoginTimeout,
	}
	if tag != "" {
		sf.Params = map[string]*string{queryTagParam: &tag}
	}
	return sf
}

// Open logs in and pins a single session for the returned handle.
// USE statements only affect the session they run on, so the pool is
// capped at one connection and every call goes through the same *sql.Conn.
func (d *Driver) Open(ctx context.Context, cfg database.ConnConfig) (database.Conn, error) {
	tag := queryTagPrefix + uuid.NewString()

	db := d.openDB(NewConfig(cfg, tag))
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Conn{db: db, conn: conn, tag: tag}, nil
}

// Conn is an open Snowflake session.
type Conn struct {
	db   *sql.DB
	conn *sql.Conn
	tag  string
}

// Tag returns the QUERY_TAG attached to every statement of this session.
func (c *Conn) Tag() string {
	return c.tag
}

// Query runs a SQL query and returns the results.
// Vendor errors are returned as they come from gosnowflake.
func (c *Conn) Query(ctx context.Context, query string, params map[string]any) (*database.QueryResult, error) {
	start := time.Now()

	stmt, args, err := bind.Rewrite(query, params)
	if err != nil {
		return nil, err
	}

	rows, err := c.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	resultRows := make([]database.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(database.Row, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		resultRows = append(resultRows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &database.QueryResult{
		Columns:  columns,
		Rows:     resultRows,
		RowCount: len(resultRows),
		Duration: time.Since(start),
	}, nil
}

// Exec runs a statement and discards its result.
func (c *Conn) Exec(ctx context.Context, statement string) error {
	_, err := c.conn.ExecContext(ctx, statement)
	return err
}

// Ping checks if the session is alive.
func (c *Conn) Ping(ctx context.Context) error {
	return c.conn.PingContext(ctx)
}

// Close returns the session and shuts the underlying pool.
func (c *Conn) Close() error {
	return errors.Join(c.conn.Close(), c.db.Close())
}
