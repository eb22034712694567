package snowclient

import (
	"context"

	"github.com/joacominatel/snowclient/internal/database"
)

// fakeDriver records every call made through it, in order.
type fakeDriver struct {
	calls   []string
	opened  []database.ConnConfig
	params  []map[string]any
	openErr error
	execErr error
	qErr    error
	closeEr error
	result  *database.QueryResult
}

func (d *fakeDriver) Open(_ context.Context, cfg database.ConnConfig) (database.Conn, error) {
	d.calls = append(d.calls, "open")
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened = append(d.opened, cfg)
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Query(_ context.Context, query string, params map[string]any) (*database.QueryResult, error) {
	c.d.calls = append(c.d.calls, "query:"+query)
	c.d.params = append(c.d.params, params)
	if c.d.qErr != nil {
		return nil, c.d.qErr
	}
	if c.d.result != nil {
		return c.d.result, nil
	}
	return &database.QueryResult{Columns: []string{}, Rows: []database.Row{}}, nil
}

func (c *fakeConn) Exec(_ context.Context, statement string) error {
	c.d.calls = append(c.d.calls, "exec:"+statement)
	return c.d.execErr
}

func (c *fakeConn) Ping(context.Context) error {
	c.d.calls = append(c.d.calls, "ping")
	return nil
}

func (c *fakeConn) Close() error {
	c.d.calls = append(c.d.calls, "close")
	return c.d.closeEr
}

func (d *fakeDriver) count(call string) int {
	n := 0
	for _, c := range d.calls {
		if c == call {
			n++
		}
	}
	return n
}

