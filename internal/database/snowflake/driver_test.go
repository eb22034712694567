package snowflake

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/snowflakedb/gosnowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joacominatel/snowclient/internal/database"
	"github.com/joacominatel/snowclient/internal/database/bind"
)

func newMockDriver(t *testing.T) (*Driver, sqlmock.Sqlmock, **gosnowflake.Config) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	var got *gosnowflake.Config
	d := &Driver{openDB: func(cfg *gosnowflake.Config) *sql.DB {
		got = cfg
		return db
	}}
	return d, mock, &got
}

func TestNewConfig(t *testing.T) {
	cfg := database.ConnConfig{
		Account:      "acme-xy12345",
		User:         "loader",
		Password:     "secret",
		Warehouse:    "COMPUTE_WH",
		Database:     "ANALYTICS",
		Schema:       "PUBLIC",
		Role:         "SYSADMIN",
		LoginTimeout: 30 * time.Second,
	}

	sf := NewConfig(cfg, "snowclient:abc")

	assert.Equal(t, "acme-xy12345", sf.Account)
	assert.Equal(t, "loader", sf.User)
	assert.Equal(t, "secret", sf.Password)
	assert.Equal(t, "COMPUTE_WH", sf.Warehouse)
	assert.Equal(t, "ANALYTICS", sf.Database)
	assert.Equal(t, "PUBLIC", sf.Schema)
	assert.Equal(t, "SYSADMIN", sf.Role)
	assert.Equal(t, DefaultApplication, sf.Application)
	assert.Equal(t, 30*time.Second, sf.LoginTimeout)
	require.Contains(t, sf.Params, queryTagParam)
	assert.Equal(t, "snowclient:abc", *sf.Params[queryTagParam])
}

func TestNewConfig_ApplicationAndNoTag(t *testing.T) {
	sf := NewConfig(database.ConnConfig{Account: "a", User: "u", Password: "p", Application: "etl"}, "")
	assert.Equal(t, "etl", sf.Application)
	assert.Nil(t, sf.Params)
	assert.Empty(t, sf.Warehouse)
}

func TestDriver_Open(t *testing.T) {
	d, mock, got := newMockDriver(t)
	mock.ExpectClose()

	conn, err := d.Open(context.Background(), database.ConnConfig{Account: "a", User: "u", Password: "p"})
	require.NoError(t, err)

	require.NotNil(t, *got)
	tag := conn.(*Conn).Tag()
	assert.True(t, strings.HasPrefix(tag, queryTagPrefix))
	assert.Equal(t, tag, *(*got).Params[queryTagParam])

	require.NoError(t, conn.Ping(context.Background()))
	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_Query(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		params    map[string]any
		setupMock func(mock sqlmock.Sqlmock)
		wantCols  []string
		wantRows  []database.Row
		expectErr error
	}{
		{
			name:  "named params bound positionally",
			query: "SELECT * FROM t WHERE age > %(min_age)s",
			params: map[string]any{
				"min_age": int64(25),
			},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM t WHERE age > ?")).
					WithArgs(int64(25)).
					WillReturnRows(sqlmock.NewRows([]string{"NAME", "AGE"}).
						AddRow("ann", int64(31)).
						AddRow([]byte("bob"), int64(40)))
			},
			wantCols: []string{"NAME", "AGE"},
			wantRows: []database.Row{
				{"NAME": "ann", "AGE": int64(31)},
				{"NAME": "bob", "AGE": int64(40)},
			},
		},
		{
			name:  "no params",
			query: "SELECT CURRENT_TIMESTAMP() AS NOW",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT CURRENT_TIMESTAMP() AS NOW")).
					WillReturnRows(sqlmock.NewRows([]string{"NOW"}))
			},
			wantCols: []string{"NOW"},
			wantRows: []database.Row{},
		},
		{
			name:      "missing param never reaches the server",
			query:     "SELECT %(a)s",
			params:    map[string]any{"b": 1},
			setupMock: func(sqlmock.Sqlmock) {},
			expectErr: bind.ErrMissingParam,
		},
		{
			name:  "vendor error returned unchanged",
			query: "SELEC 1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELEC 1").WillReturnError(&gosnowflake.SnowflakeError{Number: 1003, Message: "syntax error"})
			},
			expectErr: &gosnowflake.SnowflakeError{Number: 1003, Message: "syntax error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, mock, _ := newMockDriver(t)
			conn, err := d.Open(context.Background(), database.ConnConfig{})
			require.NoError(t, err)

			tt.setupMock(mock)

			result, err := conn.Query(context.Background(), tt.query, tt.params)
			if tt.expectErr != nil {
				require.Error(t, err)
				if sfErr, ok := tt.expectErr.(*gosnowflake.SnowflakeError); ok {
					var got *gosnowflake.SnowflakeError
					require.ErrorAs(t, err, &got)
					assert.Equal(t, sfErr.Number, got.Number)
				} else {
					assert.ErrorIs(t, err, tt.expectErr)
				}
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCols, result.Columns)
				assert.Equal(t, tt.wantRows, result.Rows)
				assert.Equal(t, len(tt.wantRows), result.RowCount)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestConn_ExecUsesPinnedSession(t *testing.T) {
	d, mock, _ := newMockDriver(t)
	conn, err := d.Open(context.Background(), database.ConnConfig{})
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("USE DATABASE ANALYTICS")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1")).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(int64(1)))
	mock.ExpectClose()

	require.NoError(t, conn.Exec(context.Background(), "USE DATABASE ANALYTICS"))
	result, err := conn.Query(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1)}, result.Values(0))

	require.NoError(t, conn.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
