package snowclient

import (
	"context"
	"errors"
	"log/slog"

	"github.com/joacominatel/snowclient/internal/database/snowflake"
)

// Client wraps one Snowflake session.
type Client struct {
	cfg    Config
	driver Driver
	log    *slog.Logger
	conn   Conn
}

// New creates a client from explicit credentials. It performs no I/O and
// no validation.
func New(account, user, password string, opts ...Option) *Client {
	return newClient(newSettings(Config{
		Account:  account,
		User:     user,
		Password: password,
	}, opts))
}

// NewFromConfig creates a client from a prepared Config.
func NewFromConfig(cfg Config, opts ...Option) *Client {
	return newClient(newSettings(cfg, opts))
}

func newClient(s *settings) *Client {
	c := &Client{
		cfg:    s.cfg,
		driver: s.driver,
		log:    s.logger,
	}
	if c.driver == nil {
		c.driver = snowflake.New()
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	c.log = c.log.With("component", "snowclient", "account", s.cfg.Account)
	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Connected reports whether a session is open.
func (c *Client) Connected() bool {
	return c.conn != nil
}

// Connect opens a session. It fails with ErrAlreadyConnected when one is
// already open; driver errors are returned unchanged.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return ErrAlreadyConnected
	}

	conn, err := c.driver.Open(ctx, c.cfg.connConfig())
	if err != nil {
		c.log.Error("failed to connect to snowflake", "user", c.cfg.User, "error", err)
		return err
	}

	c.conn = conn
	c.log.Info("connected to snowflake", "user", c.cfg.User)
	return nil
}

// Disconnect closes the session if one is open. The handle is cleared even
// when the driver fails to close it. Calling it without a session is a no-op.
func (c *Client) Disconnect() error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil
	if err := conn.Close(); err != nil {
		c.log.Warn("error closing snowflake session", "error", err)
		return err
	}

	c.log.Info("disconnected from snowflake")
	return nil
}

// WithConnection connects, runs fn and disconnects on every exit path,
// including a panic inside fn. A disconnect failure is joined to fn's error.
func (c *Client) WithConnection(ctx context.Context, fn func(ctx context.Context, c *Client) error) (err error) {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	defer func() {
		if derr := c.Disconnect(); derr != nil {
			err = errors.Join(err, derr)
		}
	}()

	return fn(ctx, c)
}

// InitializeContext switches the session to database and then schema,
// skipping empty arguments.
func (c *Client) InitializeContext(ctx context.Context, database, schema string) error {
	return c.ApplyContext(ctx, SessionContext{Database: database, Schema: schema})
}

// ApplyContext issues the USE statements for sc in role, warehouse,
// database, schema order.
func (c *Client) ApplyContext(ctx context.Context, sc SessionContext) error {
	if c.conn == nil {
		return ErrNotConnected
	}

	for _, stmt := range sc.Statements() {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			c.log.Error("failed to initialize context", "statement", stmt, "error", err)
			return err
		}
		c.log.Info("session context set", "statement", stmt)
	}
	return nil
}

// ExecuteQuery runs query and returns every row. When init is non-nil its
// context is applied first. params are handed to the driver for binding and
// never spliced into the query text.
func (c *Client) ExecuteQuery(ctx context.Context, query string, params map[string]any, init *SessionContext) (*QueryResult, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	if init != nil {
		if err := c.ApplyContext(ctx, *init); err != nil {
			return nil, err
		}
	}

	if len(params) == 0 {
		params = nil
	}

	result, err := c.conn.Query(ctx, query, params)
	if err != nil {
		c.log.Error("failed to execute query", "error", err)
		return nil, err
	}

	if result != nil {
		c.log.Info("query executed", "rows", result.RowCount, "duration", result.Duration)
	}
	return result, nil
}

// Ping checks that the session is still alive.
func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.Ping(ctx)
}

// CreateDatabase issues CREATE DATABASE for name.
func (c *Client) CreateDatabase(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("create database: name is empty")
	}
	_, err := c.ExecuteQuery(ctx, "CREATE DATABASE "+Identifier(name), nil, nil)
	return err
}
