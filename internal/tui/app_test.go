package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/app"
	"github.com/joacominatel/snowclient/internal/config"
	"github.com/joacominatel/snowclient/internal/tui/editor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

type fakeDriver struct {
	openErr error
	queries []string
	closed  int
	release chan struct{} // when set, Query blocks until it is closed
	entered chan struct{} // when set, Query signals on entry
}

func (d *fakeDriver) Open(context.Context, snowclient.ConnConfig) (snowclient.Conn, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	return &fakeConn{d: d}, nil
}

type fakeConn struct {
	d *fakeDriver
}

func (c *fakeConn) Query(_ context.Context, query string, _ map[string]any) (*snowclient.QueryResult, error) {
	c.d.queries = append(c.d.queries, query)
	if c.d.entered != nil {
		c.d.entered <- struct{}{}
	}
	if c.d.release != nil {
		<-c.d.release
	}
	return &snowclient.QueryResult{
		Columns:  []string{"CURRENT_VERSION()"},
		Rows:     []snowclient.Row{{"CURRENT_VERSION()": "8.40.1"}},
		RowCount: 1,
	}, nil
}

func (c *fakeConn) Exec(context.Context, string) error { return nil }
func (c *fakeConn) Ping(context.Context) error         { return nil }
func (c *fakeConn) Close() error {
	c.d.closed++
	return nil
}

var envCreds = snowclient.MapLookup(map[string]string{
	"SNOWFLAKE_ACCOUNT":   "xy12345",
	"SNOWFLAKE_USER":      "alice",
	"SNOWFLAKE_PASSWORD":  "s3cret",
	"SNOWFLAKE_WAREHOUSE": "WH",
})

// step feeds msg to the model and runs the resulting command once.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestSelectEnvironmentAndQuery(t *testing.T) {
	keyring.MockInit()
	d := &fakeDriver{}
	svc := app.NewService(snowclient.WithDriver(d))
	cfg := &config.Config{Profiles: []config.Profile{{Name: "dev", Account: "acct", User: "bob"}}}

	m := NewModel(svc, app.Sources{Config: cfg, Lookup: envCreds}, false)
	assert.Nil(t, m.Init())
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Contains(t, m.View(), "dev (bob@acct)")
	assert.Contains(t, m.View(), "[Environment]")

	// move to the environment entry and connect
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, msg := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.IsType(t, connectedMsg{}, msg)
	m, _ = step(t, m, msg)

	assert.Equal(t, ModeMain, m.mode)
	require.True(t, svc.Connected())
	assert.Equal(t, "alice@xy12345", svc.Label())
	assert.Contains(t, m.View(), "alice@xy12345")

	m, msg = step(t, m, editor.ExecuteQueryMsg{Query: "SELECT CURRENT_VERSION()"})
	require.IsType(t, queryExecutedMsg{}, msg)
	m, _ = step(t, m, msg)
	assert.Equal(t, []string{"SELECT CURRENT_VERSION()"}, d.queries)
	assert.Contains(t, m.View(), "8.40.1")

	// Ctrl+O returns to the picker and closes the session
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, ModeSelectProfile, m.mode)
	assert.False(t, svc.Connected())
	assert.Equal(t, 1, d.closed)
}

func TestAutoConnectFailure(t *testing.T) {
	cause := errors.New("390100: incorrect username or password")
	svc := app.NewService(snowclient.WithDriver(&fakeDriver{openErr: cause}))

	m := NewModel(svc, app.Sources{Lookup: envCreds}, true)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m, _ = step(t, m, cmd())

	assert.Equal(t, ModeSelectProfile, m.mode)
	assert.ErrorIs(t, m.err, cause)
	assert.Contains(t, m.View(), "incorrect username or password")
}

func TestAutoConnectMissingConfig(t *testing.T) {
	svc := app.NewService(snowclient.WithDriver(&fakeDriver{}))

	m := NewModel(svc, app.Sources{Lookup: snowclient.MapLookup(nil)}, true)
	m, _ = step(t, m, m.Init()())

	assert.ErrorIs(t, m.err, snowclient.ErrMissingConfig)
	assert.False(t, svc.Connected())
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(app.NewService(), app.Sources{}, false)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestDescribeSession(t *testing.T) {
	assert.Equal(t, "", describeSession(snowclient.Config{}))
	assert.Equal(t, "SYSADMIN · WH · DB.PUBLIC", describeSession(snowclient.Config{
		Role: "SYSADMIN", Warehouse: "WH", Database: "DB", Schema: "PUBLIC",
	}))
}

func connectedModel(t *testing.T, d *fakeDriver) (Model, *app.Service) {
	t.Helper()
	svc := app.NewService(snowclient.WithDriver(d))
	m := NewModel(svc, app.Sources{Lookup: envCreds}, true)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = step(t, m, m.Init()())
	require.Equal(t, ModeMain, m.mode)
	return m, svc
}

func TestDisconnectWaitsForRunningQuery(t *testing.T) {
	d := &fakeDriver{release: make(chan struct{})}
	m, svc := connectedModel(t, d)

	next, cmd := m.Update(editor.ExecuteQueryMsg{Query: "SELECT CURRENT_VERSION()"})
	m = next.(Model)
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	// a second query and Ctrl+O are refused while the first is in flight
	next, cmd = m.Update(editor.ExecuteQueryMsg{Query: "SELECT 2"})
	m = next.(Model)
	assert.Nil(t, cmd)
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, ModeMain, m.mode)
	assert.True(t, svc.Connected())
	assert.Equal(t, "Wait for the running query to finish", m.statusbar.Message())

	close(d.release)
	m, _ = step(t, m, <-done)
	assert.Contains(t, m.View(), "8.40.1")
	assert.Equal(t, []string{"SELECT CURRENT_VERSION()"}, d.queries)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Equal(t, ModeSelectProfile, m.mode)
	assert.False(t, svc.Connected())
	assert.Equal(t, 1, d.closed)
}

func TestStaleQueryResultDropped(t *testing.T) {
	m, _ := connectedModel(t, &fakeDriver{})

	m, msg := step(t, m, editor.ExecuteQueryMsg{Query: "SELECT CURRENT_VERSION()"})
	require.IsType(t, queryExecutedMsg{}, msg)
	stale := msg.(queryExecutedMsg)
	stale.session--

	m, _ = step(t, m, stale)
	assert.True(t, m.running)
	assert.NotContains(t, m.View(), "8.40.1")

	m, _ = step(t, m, msg)
	assert.False(t, m.running)
	assert.Contains(t, m.View(), "8.40.1")
}

func TestServiceDisconnectWaitsForQuery(t *testing.T) {
	d := &fakeDriver{release: make(chan struct{}), entered: make(chan struct{}, 1)}
	svc := app.NewService(snowclient.WithDriver(d))
	require.NoError(t, svc.Connect(context.Background(), snowclient.Config{Account: "xy12345", User: "alice", Password: "s3cret"}, "alice@xy12345"))

	queried := make(chan error, 1)
	go func() {
		_, err := svc.ExecuteQuery(context.Background(), "SELECT 1", nil, nil)
		queried <- err
	}()
	<-d.entered

	disconnected := make(chan error, 1)
	go func() { disconnected <- svc.Disconnect() }()
	select {
	case <-disconnected:
		t.Fatal("Disconnect returned while a query was running")
	case <-time.After(20 * time.Millisecond):
	}

	close(d.release)
	require.NoError(t, <-queried)
	require.NoError(t, <-disconnected)
	assert.False(t, svc.Connected())
	assert.Equal(t, 1, d.closed)
}
