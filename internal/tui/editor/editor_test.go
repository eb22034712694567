package editor

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKeywords(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keywords", "select id from users where x = 1", "SELECT id FROM users WHERE x = 1"},
		{"string literal", "select 'from where' from t", "SELECT 'from where' FROM t"},
		{"quoted identifier", `select "select" from t`, `SELECT "select" FROM t`},
		{"comment", "select 1 -- from here\nfrom t", "SELECT 1 -- from here\nFROM t"},
		{"identifier with digits", "select from1 from t2", "SELECT from1 FROM t2"},
		{"snowflake", "use warehouse wh; show databases", "USE WAREHOUSE wh; SHOW DATABASES"},
		{"unterminated literal", "select 'abc", "SELECT 'abc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatKeywords(tt.in))
		})
	}
}

func ctrl(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestExecuteAndHistory(t *testing.T) {
	m := New()
	m.SetSize(80, 10)
	m.SetFocused(true)

	m.SetQuery("  select 1  ")
	m, cmd := m.Update(ctrl(tea.KeyCtrlE))
	require.NotNil(t, cmd)
	assert.Equal(t, ExecuteQueryMsg{Query: "select 1"}, cmd())

	m.SetQuery("select 2")
	m, cmd = m.Update(ctrl(tea.KeyF5))
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"select 1", "select 2"}, m.History())

	m.SetQuery("draft")
	m, _ = m.Update(ctrl(tea.KeyCtrlP))
	assert.Equal(t, "select 2", m.Value())
	m, _ = m.Update(ctrl(tea.KeyCtrlP))
	assert.Equal(t, "select 1", m.Value())
	m, _ = m.Update(ctrl(tea.KeyCtrlP))
	assert.Equal(t, "select 1", m.Value())
	m, _ = m.Update(ctrl(tea.KeyCtrlN))
	m, _ = m.Update(ctrl(tea.KeyCtrlN))
	assert.Equal(t, "draft", m.Value())

	m, _ = m.Update(ctrl(tea.KeyCtrlK))
	assert.Empty(t, m.Value())
}

func TestEmptyQueryIsNotExecuted(t *testing.T) {
	m := New()
	m.SetFocused(true)
	m.SetQuery("   ")
	_, cmd := m.Update(ctrl(tea.KeyCtrlE))
	assert.Nil(t, cmd)
}
