package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/snowclient/internal/database"
	"github.com/joacominatel/snowclient/internal/tui/theme"
)

const maxColWidth = 40

// Model is the query results component.
type Model struct {
	result    *database.QueryResult
	cells     [][]string
	err       error
	width     int
	height    int
	focused   bool
	loading   bool
	colWidths []int

	cursorY   int // selected row
	cursorX   int // selected column
	scrollY   int // first visible row
	colOffset int // first visible column

	// ExportDir is where e/E write files; empty means the working directory.
	ExportDir string
}

// New creates a new results model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.clampScroll()
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// Result returns the result on display, if any.
func (m Model) Result() *database.QueryResult {
	return m.result
}

// Cursor returns the selected row and column.
func (m Model) Cursor() (row, col int) {
	return m.cursorY, m.cursorX
}

// SetResult sets the query result to display.
func (m *Model) SetResult(r *database.QueryResult) {
	m.result = r
	m.err = nil
	m.loading = false
	m.cursorY, m.cursorX = 0, 0
	m.scrollY, m.colOffset = 0, 0
	m.buildCells()
}

// SetError sets an error to display.
func (m *Model) SetError(err error) {
	m.err = err
	m.result = nil
	m.cells = nil
	m.colWidths = nil
	m.loading = false
	m.cursorY, m.cursorX = 0, 0
	m.scrollY, m.colOffset = 0, 0
}

// buildCells renders every value once and measures column widths.
func (m *Model) buildCells() {
	m.cells = nil
	m.colWidths = nil
	if m.result == nil || len(m.result.Columns) == 0 {
		return
	}

	m.colWidths = make([]int, len(m.result.Columns))
	for i, col := range m.result.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}

	m.cells = make([][]string, len(m.result.Rows))
	for r := range m.result.Rows {
		values := m.result.Values(r)
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = strings.ReplaceAll(database.FormatValue(v), "\n", " ")
			if w := lipgloss.Width(row[i]); w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
		m.cells[r] = row
	}

	for i := range m.colWidths {
		m.colWidths[i] = max(1, min(m.colWidths[i], maxColWidth))
	}
}

func (m Model) visibleRows() int {
	return max(1, m.height-4)
}

func (m *Model) clampScroll() {
	rows := len(m.cells)
	if m.cursorY >= rows {
		m.cursorY = rows - 1
	}
	if m.cursorY < 0 {
		m.cursorY = 0
	}
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if vis := m.visibleRows(); m.cursorY >= m.scrollY+vis {
		m.scrollY = m.cursorY - vis + 1
	}

	cols := len(m.colWidths)
	if m.cursorX >= cols {
		m.cursorX = cols - 1
	}
	if m.cursorX < 0 {
		m.cursorX = 0
	}
	if m.cursorX < m.colOffset {
		m.colOffset = m.cursorX
	}
	for m.colOffset < m.cursorX && !m.columnVisible(m.cursorX) {
		m.colOffset++
	}
}

// columnVisible reports whether col fits on screen from colOffset.
func (m Model) columnVisible(col int) bool {
	if m.width <= 0 {
		return true
	}
	used := 2
	for i := m.colOffset; i <= col && i < len(m.colWidths); i++ {
		used += m.colWidths[i] + 3
	}
	return used <= m.width
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	switch key.String() {
	case "up", "k":
		m.cursorY--
	case "down", "j":
		m.cursorY++
	case "left", "h":
		m.cursorX--
	case "right", "l":
		m.cursorX++
	case "home", "g":
		m.cursorY = 0
	case "end", "G":
		m.cursorY = len(m.cells) - 1
	case "pgup":
		m.cursorY -= m.visibleRows()
	case "pgdown":
		m.cursorY += m.visibleRows()
	case "y":
		cmd = m.copyCellCmd()
	case "Y":
		cmd = m.copyRowCmd()
	case "e":
		cmd = m.exportJSONCmd()
	case "E":
		cmd = m.exportCSVCmd()
	}
	m.clampScroll()
	return m, cmd
}

// View renders the results pane.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(theme.ColorPrimary).
		Bold(true).
		Padding(0, 1)

	if m.loading {
		return titleStyle.Render("Results") + "\n" + theme.StyleMuted.Render("  Executing query...")
	}

	if m.err != nil {
		return titleStyle.Render("Results") + "\n" +
			theme.StyleError.Render("  Error: "+m.err.Error())
	}

	if m.result == nil {
		return titleStyle.Render("Results") + "\n" +
			theme.StyleMuted.Render("  Execute a query to see results")
	}

	stats := fmt.Sprintf("%d row(s) | %s", m.result.RowCount, m.result.Duration.Round(1000).String())
	if len(m.cells) > 0 {
		stats += fmt.Sprintf(" | row %d/%d col %d/%d", m.cursorY+1, len(m.cells), m.cursorX+1, len(m.colWidths))
	}
	header := titleStyle.Render("Results") + "  " + theme.StyleMuted.Render(stats)

	if len(m.result.Columns) == 0 {
		return header + "\n" + theme.StyleSuccess.Render("  Statement executed successfully")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderRow(m.result.Columns, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	end := min(len(m.cells), m.scrollY+m.visibleRows())
	for i := m.scrollY; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.cells[i], i))
	}

	return b.String()
}

// renderRow draws the visible columns of one row; row -1 is the header.
func (m Model) renderRow(cells []string, row int) string {
	var parts []string
	for i := m.colOffset; i < len(cells) && i < len(m.colWidths); i++ {
		if i > m.colOffset && !m.columnVisible(i) {
			break
		}
		display := fit(cells[i], m.colWidths[i])

		switch {
		case row < 0:
			display = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(display)
		case m.focused && row == m.cursorY && i == m.cursorX:
			display = lipgloss.NewStyle().Reverse(true).Render(display)
		case row == m.cursorY:
			display = lipgloss.NewStyle().Foreground(theme.ColorHighlight).Render(display)
		}
		parts = append(parts, display)
	}
	return "  " + strings.Join(parts, " │ ")
}

func (m Model) renderSeparator() string {
	var parts []string
	for i := m.colOffset; i < len(m.colWidths); i++ {
		if i > m.colOffset && !m.columnVisible(i) {
			break
		}
		parts = append(parts, strings.Repeat("─", m.colWidths[i]))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int) string {
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
