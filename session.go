package snowclient

import (
	"regexp"
	"strings"
)

// SessionContext selects the role, warehouse, database and schema for the
// statements that follow. Empty fields are left unchanged.
type SessionContext struct {
	Role      string
	Warehouse string
	Database  string
	Schema    string
}

// IsZero reports whether sc would issue no statements.
func (sc SessionContext) IsZero() bool {
	return sc == SessionContext{}
}

// Statements returns the USE statements for sc in execution order.
func (sc SessionContext) Statements() []string {
	var stmts []string
	for _, kv := range [][2]string{
		{"ROLE", sc.Role},
		{"WAREHOUSE", sc.Warehouse},
		{"DATABASE", sc.Database},
		{"SCHEMA", sc.Schema},
	} {
		if kv[1] != "" {
			stmts = append(stmts, "USE "+kv[0]+" "+Identifier(kv[1]))
		}
	}
	return stmts
}

const identPart = `(?:[A-Za-z_][A-Za-z0-9_$]*|"(?:[^"]|"")+")`

var identPath = regexp.MustCompile(`^` + identPart + `(?:\.` + identPart + `)*$`)

// Identifier returns name ready for use as an object name. Plain and
// already-quoted identifiers, dot-qualified or not, are kept as written so
// Snowflake's case folding still applies; anything else is double-quoted.
func Identifier(name string) string {
	if identPath.MatchString(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
