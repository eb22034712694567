package results

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	jsoniter "github.com/json-iterator/go"
	"github.com/joacominatel/snowclient/internal/database"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func (m Model) hasRow() bool {
	return m.result != nil && m.cursorY >= 0 && m.cursorY < len(m.cells)
}

// --- Copy ---

func (m Model) copyCellCmd() tea.Cmd {
	if !m.hasRow() || m.cursorX >= len(m.result.Columns) {
		return notify("Nothing to copy")
	}
	val := database.FormatValue(m.result.Values(m.cursorY)[m.cursorX])
	return func() tea.Msg {
		if err := writeClipboard(val); err != nil {
			return StatusNotifyMsg{Message: "Copy failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: "Copied: " + truncateStatus(val, 40)}
	}
}

func (m Model) copyRowCmd() tea.Cmd {
	if !m.hasRow() {
		return notify("No row to copy")
	}
	data, err := rowJSON(m.result, m.cursorY)
	if err != nil {
		return notify("Copy failed: " + err.Error())
	}
	return func() tea.Msg {
		if err := writeClipboard(string(data)); err != nil {
			return StatusNotifyMsg{Message: "Copy failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: "Copied row as JSON"}
	}
}

// --- Export ---

func (m Model) exportJSONCmd() tea.Cmd {
	result := m.result
	if result == nil || len(result.Columns) == 0 {
		return notify("Nothing to export")
	}
	path := m.exportPath("json")
	return func() tea.Msg {
		var b bytes.Buffer
		b.WriteString("[")
		for i := range result.Rows {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n  ")
			data, err := rowJSON(result, i)
			if err != nil {
				return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
			}
			b.Write(data)
		}
		b.WriteString("\n]\n")

		if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(result.Rows), path)}
	}
}

func (m Model) exportCSVCmd() tea.Cmd {
	result := m.result
	if result == nil || len(result.Columns) == 0 {
		return notify("Nothing to export")
	}
	path := m.exportPath("csv")
	return func() tea.Msg {
		f, err := os.Create(path)
		if err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		defer f.Close()

		w := csv.NewWriter(f)
		_ = w.Write(result.Columns)
		record := make([]string, len(result.Columns))
		for i := range result.Rows {
			for j, v := range result.Values(i) {
				record[j] = ""
				if v != nil {
					record[j] = database.FormatValue(v)
				}
			}
			_ = w.Write(record)
		}
		w.Flush()

		if err := w.Error(); err != nil {
			return StatusNotifyMsg{Message: "Export failed: " + err.Error()}
		}
		return StatusNotifyMsg{Message: fmt.Sprintf("Exported %d rows to %s", len(result.Rows), path)}
	}
}

func (m Model) exportPath(ext string) string {
	name := fmt.Sprintf("snowclient_export_%s.%s", time.Now().Format("20060102_150405"), ext)
	return filepath.Join(m.ExportDir, name)
}

// --- Helpers ---

func notify(msg string) tea.Cmd {
	return func() tea.Msg {
		return StatusNotifyMsg{Message: msg}
	}
}

// rowJSON encodes row i as an object whose keys follow column order.
func rowJSON(result *database.QueryResult, i int) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{")
	for j, v := range result.Values(i) {
		if j > 0 {
			b.WriteString(", ")
		}
		key, err := json.Marshal(result.Columns[j])
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteString(": ")
		b.Write(val)
	}
	b.WriteString("}")
	return b.Bytes(), nil
}

// truncateStatus shortens s to maxLen display cells.
func truncateStatus(s string, maxLen int) string {
	return ansi.Truncate(s, maxLen, "...")
}
