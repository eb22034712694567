// Package tui implements the interactive query console.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/app"
	"github.com/joacominatel/snowclient/internal/tui/editor"
	"github.com/joacominatel/snowclient/internal/tui/results"
	"github.com/joacominatel/snowclient/internal/tui/statusbar"
	"github.com/joacominatel/snowclient/internal/tui/theme"
)

const (
	connectTimeout = 60 * time.Second
	queryTimeout   = 5 * time.Minute
)

// Pane identifies a focusable area.
type Pane int

const (
	PaneEditor Pane = iota
	PaneResults
)

func (p Pane) String() string {
	switch p {
	case PaneEditor:
		return "editor"
	case PaneResults:
		return "results"
	default:
		return "unknown"
	}
}

// AppMode tracks the current UI state.
type AppMode int

const (
	ModeSelectProfile AppMode = iota // saved profiles plus the environment
	ModeMain                         // editor and results
)

// target is one entry of the profile picker. An empty profile name
// connects from the environment and flags alone.
type target struct {
	profile string
	label   string
}

// Custom messages for async operations.
type (
	connectedMsg struct {
		label string
		err   error
	}
	queryExecutedMsg struct {
		session int
		result  *snowclient.QueryResult
		err     error
	}
)

// Model is the top-level bubbletea model orchestrating all components.
type Model struct {
	service    *app.Service
	sources    app.Sources
	targets    []target
	cursor     int
	editor     editor.Model
	results    results.Model
	statusbar  statusbar.Model
	activePane Pane
	mode       AppMode
	width      int
	height     int
	err        error
	showHelp   bool
	connecting bool
	running    bool // a query is in flight
	session    int  // bumped on every connect and disconnect
	autoStart  bool
}

// NewModel creates the top-level model. With autoConnect the console
// connects at once using sources as given and skips the picker.
func NewModel(service *app.Service, sources app.Sources, autoConnect bool) Model {
	var targets []target
	if sources.Config != nil {
		for _, p := range sources.Config.Profiles {
			targets = append(targets, target{profile: p.Name, label: p.Name + " (" + p.DisplayString() + ")"})
		}
	}
	targets = append(targets, target{label: "[Environment] SNOWFLAKE_* variables and flags"})

	m := Model{
		service:    service,
		sources:    sources,
		targets:    targets,
		editor:     editor.New(),
		results:    results.New(),
		statusbar:  statusbar.New(),
		activePane: PaneEditor,
		mode:       ModeSelectProfile,
		autoStart:  autoConnect,
	}
	if autoConnect {
		m.connecting = true
	}
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	if m.autoStart {
		return m.connectCmd(m.sources)
	}
	return nil
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if msg.String() == "?" && m.mode == ModeMain && m.activePane != PaneEditor {
			m.showHelp = !m.showHelp
			return m, nil
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.mode {
		case ModeSelectProfile:
			return m.updateSelectProfile(msg)
		case ModeMain:
			return m.updateMain(msg)
		}

	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.err = msg.err
			m.mode = ModeSelectProfile
			m.statusbar.SetMessage("Connection failed")
			return m, nil
		}
		m.err = nil
		m.session++
		m.mode = ModeMain
		m.statusbar.SetConnected(true, msg.label, describeSession(m.service.Config()))
		m.statusbar.SetMessage("")
		m.setFocus(PaneEditor)
		m.layout()
		return m, nil

	case queryExecutedMsg:
		if msg.session != m.session {
			return m, nil
		}
		m.running = false
		m.results.SetLoading(false)
		if msg.err != nil {
			m.results.SetError(msg.err)
			m.statusbar.SetMessage("")
			return m, nil
		}
		m.results.SetResult(msg.result)
		m.statusbar.SetMessage("")
		return m, nil

	case results.StatusNotifyMsg:
		m.statusbar.SetMessage(msg.Message)
		return m, nil

	case editor.ExecuteQueryMsg:
		if m.running {
			m.statusbar.SetMessage("A query is already running")
			return m, nil
		}
		m.running = true
		m.results.SetLoading(true)
		m.statusbar.SetMessage("Executing query...")
		return m, m.executeQueryCmd(msg.Query)
	}

	if m.mode == ModeMain {
		return m.updateComponents(msg)
	}

	return m, nil
}

func (m Model) updateSelectProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.connecting {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.targets)-1 {
			m.cursor++
		}
	case "enter":
		t := m.targets[m.cursor]
		src := m.sources
		src.Profile = t.profile
		if t.profile == "" {
			src.Config = nil
		}
		m.connecting = true
		m.err = nil
		m.statusbar.SetMessage("Connecting...")
		return m, m.connectCmd(src)
	case "q", "esc":
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		if m.activePane != PaneEditor {
			return m, tea.Quit
		}
	case "tab", "shift+tab":
		m.cyclePane()
		return m, nil
	case "ctrl+o":
		if m.running {
			m.statusbar.SetMessage("Wait for the running query to finish")
			return m, nil
		}
		_ = m.service.Disconnect()
		m.session++
		m.mode = ModeSelectProfile
		m.statusbar.SetConnected(false, "", "")
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.activePane {
	case PaneEditor:
		m.editor, cmd = m.editor.Update(msg)
	case PaneResults:
		m.results, cmd = m.results.Update(msg)
	}

	return m, cmd
}

func (m *Model) cyclePane() {
	if m.activePane == PaneEditor {
		m.setFocus(PaneResults)
		return
	}
	m.setFocus(PaneEditor)
}

func (m *Model) setFocus(pane Pane) {
	m.activePane = pane
	m.editor.SetFocused(pane == PaneEditor)
	m.results.SetFocused(pane == PaneResults)
	m.statusbar.SetActivePane(pane.String())
}

// paneHeights splits the space above the status bar between the panes.
func (m Model) paneHeights() (editorHeight, resultsHeight int) {
	avail := m.height - 1 - 4 // status bar and two bordered panes
	editorHeight = max(5, avail*35/100)
	resultsHeight = max(3, avail-editorHeight)
	return editorHeight, resultsHeight
}

func (m *Model) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	editorHeight, resultsHeight := m.paneHeights()
	m.editor.SetSize(m.width-2, editorHeight)
	m.results.SetSize(m.width-2, resultsHeight)
	m.statusbar.SetWidth(m.width)
}

// describeSession renders the session defaults for the status bar.
func describeSession(cfg snowclient.Config) string {
	var parts []string
	if cfg.Role != "" {
		parts = append(parts, cfg.Role)
	}
	if cfg.Warehouse != "" {
		parts = append(parts, cfg.Warehouse)
	}
	if cfg.Database != "" {
		path := cfg.Database
		if cfg.Schema != "" {
			path += "." + cfg.Schema
		}
		parts = append(parts, path)
	}
	return strings.Join(parts, " · ")
}

// Async commands

func (m Model) connectCmd(src app.Sources) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		cfg, label, err := app.Resolve(src)
		if err != nil {
			return connectedMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := service.Connect(ctx, cfg, label); err != nil {
			return connectedMsg{err: err}
		}
		return connectedMsg{label: label}
	}
}

func (m Model) executeQueryCmd(query string) tea.Cmd {
	service := m.service
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
		defer cancel()
		result, err := service.ExecuteQuery(ctx, query, nil, nil)
		return queryExecutedMsg{session: session, result: result, err: err}
	}
}

// View renders the entire application.
func (m Model) View() string {
	if m.showHelp {
		return m.viewHelp()
	}

	if m.mode == ModeSelectProfile {
		return m.viewSelectProfile()
	}
	return m.viewMain()
}

func (m Model) viewSelectProfile() string {
	title := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(1, 0).
		Render("snowclient")
	subtitle := theme.StyleMuted.Render("Snowflake query console")

	parts := []string{"", title, subtitle, "", theme.StyleTitle.Render("Connect with")}
	for i, t := range m.targets {
		if i == len(m.targets)-1 {
			parts = append(parts, "")
		}
		if i == m.cursor {
			parts = append(parts, theme.StyleSelected.Render("> "+t.label))
		} else {
			parts = append(parts, "  "+t.label)
		}
	}

	if m.connecting {
		parts = append(parts, "", theme.StyleMuted.Render("  Connecting..."))
	}
	if m.err != nil {
		parts = append(parts, "", theme.StyleError.Render("  Error: "+m.err.Error()))
	}
	parts = append(parts, "", theme.StyleMuted.Render("  ↑/↓: Navigate  Enter: Connect  q: Quit"))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
}

func (m Model) viewMain() string {
	editorHeight, resultsHeight := m.paneHeights()

	editorBorder := theme.StyleBorder
	if m.activePane == PaneEditor {
		editorBorder = theme.StyleActiveBorder
	}
	editorView := editorBorder.
		Width(m.width - 2).
		Height(editorHeight).
		Render(m.editor.View())

	resultsBorder := theme.StyleBorder
	if m.activePane == PaneResults {
		resultsBorder = theme.StyleActiveBorder
	}
	resultsView := resultsBorder.
		Width(m.width - 2).
		Height(resultsHeight).
		Render(m.results.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		editorView,
		resultsView,
		m.statusbar.View(),
	)
}

func (m Model) viewHelp() string {
	sectionStyle := lipgloss.NewStyle().
		Foreground(theme.ColorHighlight).
		Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	line := func(key, desc string) string {
		return keyStyle.Render("  "+padRight(key, 14)) + theme.StyleMuted.Render(desc)
	}

	help := lipgloss.JoinVertical(lipgloss.Left,
		theme.StyleTitle.Render("snowclient - Keyboard Shortcuts"),
		"",
		sectionStyle.Render("Global"),
		line("q / Ctrl+C", "Quit"),
		line("Tab", "Switch between editor and results"),
		line("Ctrl+O", "Disconnect and pick another profile"),
		line("?", "Toggle this help"),
		"",
		sectionStyle.Render("Editor"),
		line("Ctrl+E / F5", "Execute query"),
		line("Ctrl+K", "Clear editor"),
		line("Ctrl+L", "Uppercase keywords"),
		line("Ctrl+P/Ctrl+N", "Previous/next query from history"),
		"",
		sectionStyle.Render("Results"),
		line("↑/k  ↓/j", "Move between rows"),
		line("←/h  →/l", "Move between columns"),
		line("PgUp/PgDn g G", "Page, first and last row"),
		line("y / Y", "Copy cell / row as JSON"),
		line("e / E", "Export JSON / CSV"),
		"",
		theme.StyleMuted.Render("Press any key to close"),
	)

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		help,
	)
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}
