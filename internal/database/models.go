package database

import (
	"fmt"
	"time"
)

// Row maps column names to driver-typed values.
type Row map[string]any

// QueryResult holds the result of a SQL query execution.
type QueryResult struct {
	Columns  []string
	Rows     []Row
	RowCount int
	Duration time.Duration
}

// Values returns the cells of row i in column order.
func (r *QueryResult) Values(i int) []any {
	if r == nil || i < 0 || i >= len(r.Rows) {
		return nil
	}
	row := r.Rows[i]
	out := make([]any, len(r.Columns))
	for j, col := range r.Columns {
		out[j] = row[col]
	}
	return out
}

// FormatValue renders a cell for display. NULL is spelled out.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", v)
	}
}
