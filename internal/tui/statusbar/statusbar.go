package statusbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/snowclient/internal/tui/theme"
)

const defaultHints = "Ctrl+E: Execute │ Tab: Switch pane │ ?: Help │ q: Quit"

// Model is the status bar component.
type Model struct {
	width      int
	connected  bool
	label      string
	context    string
	activePane string
	message    string
}

// New creates a new status bar model.
func New() Model {
	return Model{
		activePane: "editor",
	}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display. context is the
// session's warehouse and database path, shown after the label.
func (m *Model) SetConnected(connected bool, label, context string) {
	m.connected = connected
	m.label = label
	m.context = context
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage sets a temporary status message.
func (m *Model) SetMessage(msg string) {
	m.message = msg
}

// Message returns the current status message.
func (m Model) Message() string {
	return m.message
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (status bar has no interactive behavior).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var left string
	if m.connected {
		left = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render("●") + " " + m.label
		if m.context != "" {
			left += " " + theme.StyleMuted.Render(m.context)
		}
	} else {
		left = lipgloss.NewStyle().Foreground(theme.ColorError).Render("●") + " disconnected"
	}
	left += theme.StyleMuted.Render(" [" + m.activePane + "]")

	right := defaultHints
	if m.message != "" {
		right = m.message
	}

	padding := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right)-4)
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
