package cli

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/joacominatel/snowclient"
	"github.com/joacominatel/snowclient/internal/database"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

func renderResult(w io.Writer, result *snowclient.QueryResult, format string) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, result)
	case FormatCSV:
		return renderCSV(w, result)
	case FormatTable, "":
		return renderTable(w, result)
	default:
		return fmt.Errorf("unknown format %q (want table, json or csv)", format)
	}
}

func renderTable(w io.Writer, result *snowclient.QueryResult) error {
	if len(result.Columns) == 0 {
		_, _ = fmt.Fprintln(w, "Statement executed successfully.")
		return nil
	}
	if len(result.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(result.Columns))
	for i, col := range result.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for i := range result.Rows {
		values := result.Values(i)
		row := make(table.Row, len(values))
		for j, v := range values {
			row[j] = database.FormatValue(v)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(result.Rows))
	return nil
}

func renderJSON(w io.Writer, result *snowclient.QueryResult) error {
	rows := result.Rows
	if rows == nil {
		rows = []snowclient.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func renderCSV(w io.Writer, result *snowclient.QueryResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return err
	}
	record := make([]string, len(result.Columns))
	for i := range result.Rows {
		for j, v := range result.Values(i) {
			record[j] = csvValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvValue(v any) string {
	if v == nil {
		return ""
	}
	return database.FormatValue(v)
}
