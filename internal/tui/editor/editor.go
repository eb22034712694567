package editor

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/snowclient/internal/tui/theme"
)

// ExecuteQueryMsg is sent when the user triggers query execution.
type ExecuteQueryMsg struct {
	Query string
}

// maxHistory bounds the number of executed queries kept for recall.
const maxHistory = 50

// Snowflake keywords uppercased by FormatKeywords.
var sqlKeywords = map[string]bool{
	"select": true, "from": true, "where": true, "and": true, "or": true,
	"insert": true, "into": true, "update": true, "delete": true, "merge": true,
	"create": true, "drop": true, "alter": true, "table": true, "view": true,
	"join": true, "inner": true, "outer": true, "full": true,
	"left": true, "right": true, "cross": true, "on": true, "using": true,
	"not": true, "in": true, "is": true, "null": true, "like": true, "ilike": true, "rlike": true,
	"order": true, "by": true, "group": true, "having": true, "qualify": true,
	"limit": true, "offset": true, "as": true, "distinct": true, "top": true,
	"count": true, "sum": true, "avg": true, "min": true, "max": true,
	"between": true, "exists": true, "case": true, "when": true,
	"then": true, "else": true, "end": true, "values": true,
	"set": true, "begin": true, "commit": true, "rollback": true,
	"union": true, "all": true, "asc": true, "desc": true, "with": true,
	"over": true, "partition": true, "lateral": true, "flatten": true,
	"use": true, "show": true, "describe": true, "grant": true, "revoke": true,
	"database": true, "databases": true, "schema": true, "schemas": true,
	"warehouse": true, "warehouses": true, "role": true, "roles": true,
	"tables": true, "views": true, "stage": true, "copy": true,
	"replace": true, "if": true, "transient": true, "temporary": true,
	"default": true, "true": true, "false": true,
}

// Model is the SQL query editor component.
type Model struct {
	textarea textarea.Model
	width    int
	height   int
	focused  bool

	history []string
	histPos int // len(history) means the current draft
	draft   string
}

// New creates a new editor model.
func New() Model {
	ta := textarea.New()
	ta.Placeholder = "Enter SQL; use %(name)s for parameters..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Prompt = "│ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
	ta.BlurredStyle.Prompt = lipgloss.NewStyle().Foreground(theme.ColorBorder)

	return Model{
		textarea: ta,
	}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.textarea.SetWidth(w - 2)
	m.textarea.SetHeight(h - 2)
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	if f {
		m.textarea.Focus()
	} else {
		m.textarea.Blur()
	}
}

// Focused returns whether the editor has focus.
func (m Model) Focused() bool {
	return m.focused
}

// Value returns the current editor content.
func (m Model) Value() string {
	return m.textarea.Value()
}

// SetQuery replaces the editor content.
func (m *Model) SetQuery(query string) {
	m.textarea.SetValue(query)
}

// History returns executed queries, oldest first.
func (m Model) History() []string {
	return m.history
}

// Clear empties the editor.
func (m *Model) Clear() {
	m.textarea.Reset()
	m.histPos = len(m.history)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the editor.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+e", "f5":
			query := strings.TrimSpace(m.textarea.Value())
			if query == "" {
				return m, nil
			}
			m.remember(query)
			return m, func() tea.Msg {
				return ExecuteQueryMsg{Query: query}
			}

		case "ctrl+k":
			m.Clear()
			return m, nil

		case "ctrl+l":
			m.textarea.SetValue(FormatKeywords(m.textarea.Value()))
			return m, nil

		case "ctrl+p":
			m.recall(-1)
			return m, nil

		case "ctrl+n":
			m.recall(1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) remember(query string) {
	if n := len(m.history); n == 0 || m.history[n-1] != query {
		m.history = append(m.history, query)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
	}
	m.histPos = len(m.history)
	m.draft = ""
}

// recall moves through history; stepping past the newest entry restores
// the unsent draft.
func (m *Model) recall(step int) {
	pos := m.histPos + step
	if pos < 0 || pos > len(m.history) {
		return
	}
	if m.histPos == len(m.history) {
		m.draft = m.textarea.Value()
	}
	m.histPos = pos
	if pos == len(m.history) {
		m.textarea.SetValue(m.draft)
		return
	}
	m.textarea.SetValue(m.history[pos])
}

// FormatKeywords uppercases SQL keywords outside string literals,
// quoted identifiers and comments.
func FormatKeywords(sql string) string {
	var (
		result strings.Builder
		word   strings.Builder
	)
	flush := func() {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		if sqlKeywords[strings.ToLower(w)] {
			w = strings.ToUpper(w)
		}
		result.WriteString(w)
		word.Reset()
	}

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '\'' || ch == '"':
			flush()
			j := i + 1
			for j < len(runes) && runes[j] != ch {
				j++
			}
			end := min(j+1, len(runes))
			result.WriteString(string(runes[i:end]))
			i = end - 1
		case ch == '-' && i+1 < len(runes) && runes[i+1] == '-':
			flush()
			j := i
			for j < len(runes) && runes[j] != '\n' {
				j++
			}
			result.WriteString(string(runes[i:j]))
			i = j - 1
		case unicode.IsLetter(ch) || ch == '_' || (word.Len() > 0 && (unicode.IsDigit(ch) || ch == '$')):
			word.WriteRune(ch)
		default:
			flush()
			result.WriteRune(ch)
		}
	}
	flush()
	return result.String()
}

// View renders the editor.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	title := titleStyle.Render("Query Editor")
	if len(m.history) > 0 {
		title += theme.StyleMuted.Render("  history: Ctrl+P/Ctrl+N")
	}
	return title + "\n" + m.textarea.View()
}
