package bind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewrite(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		params    map[string]any
		wantQuery string
		wantArgs  []any
	}{
		{
			name:      "no params passes query through",
			query:     "SELECT '%(x)s', 100 %% 3",
			params:    nil,
			wantQuery: "SELECT '%(x)s', 100 %% 3",
		},
		{
			name:      "single placeholder",
			query:     "SELECT * FROM t WHERE age > %(min_age)s",
			params:    map[string]any{"min_age": 25},
			wantQuery: "SELECT * FROM t WHERE age > ?",
			wantArgs:  []any{25},
		},
		{
			name:      "repeated and ordered",
			query:     "SELECT %(b)s, %(a)s, %(b)s",
			params:    map[string]any{"a": "x", "b": 2},
			wantQuery: "SELECT ?, ?, ?",
			wantArgs:  []any{2, "x", 2},
		},
		{
			name:      "literals untouched",
			query:     `SELECT '%(a)s', "%(a)s", 'it''s %(a)s', %(a)s`,
			params:    map[string]any{"a": 1},
			wantQuery: `SELECT '%(a)s', "%(a)s", 'it''s %(a)s', ?`,
			wantArgs:  []any{1},
		},
		{
			name:      "comments untouched",
			query:     "SELECT %(a)s -- %(b)s\n/* %(b)s */ FROM t",
			params:    map[string]any{"a": 1},
			wantQuery: "SELECT ? -- %(b)s\n/* %(b)s */ FROM t",
			wantArgs:  []any{1},
		},
		{
			name:      "escaped percent",
			query:     "SELECT name FROM t WHERE name LIKE 'a%' AND pct = 10 %% %(n)s",
			params:    map[string]any{"n": 3},
			wantQuery: "SELECT name FROM t WHERE name LIKE 'a%' AND pct = 10 % ?",
			wantArgs:  []any{3},
		},
		{
			name:      "unused params ignored",
			query:     "SELECT 1",
			params:    map[string]any{"unused": true},
			wantQuery: "SELECT 1",
		},
		{
			name:      "malformed placeholder kept",
			query:     "SELECT %(a)d, %()s, %(a)s",
			params:    map[string]any{"a": 1},
			wantQuery: "SELECT %(a)d, %()s, ?",
			wantArgs:  []any{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := Rewrite(tt.query, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRewrite_MissingParam(t *testing.T) {
	_, _, err := Rewrite("SELECT %(a)s, %(b)s", map[string]any{"a": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingParam)
	assert.Contains(t, err.Error(), "b")
}

func TestRewrite_ValuesNeverInlined(t *testing.T) {
	evil := "1; DROP TABLE users"
	query, args, err := Rewrite("SELECT * FROM t WHERE id = %(id)s", map[string]any{"id": evil})
	require.NoError(t, err)
	assert.NotContains(t, query, evil)
	assert.Equal(t, []any{evil}, args)
}

func TestNames(t *testing.T) {
	names := Names("SELECT %(a)s, '%(skip)s', %(b)s -- %(c)s\n, %(a)s")
	assert.Equal(t, []string{"a", "b", "a"}, names)
}
