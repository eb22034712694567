// Package bind turns pyformat named placeholders into driver bind markers.
//
// Queries written for the Python connector use %(name)s placeholders. The
// Snowflake Go driver binds positionally with ?, so Rewrite swaps each
// placeholder for a marker and returns the values in the order the markers
// appear. Values never enter the SQL text.
package bind

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingParam is returned when a placeholder has no matching value.
var ErrMissingParam = errors.New("missing bind parameter")

// Marker is the positional bind marker understood by the driver.
const Marker = "?"

// Rewrite replaces every %(name)s outside literals and comments with Marker.
// A doubled %% collapses to a single %. Names may repeat; parameters the
// query never references are ignored. With no params the query is returned
// untouched.
func Rewrite(query string, params map[string]any) (string, []any, error) {
	if len(params) == 0 {
		return query, nil, nil
	}

	runes := []rune(query)
	var (
		b    strings.Builder
		args []any
	)
	b.Grow(len(query))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' || r == '"':
			end := skipQuoted(runes, i, r)
			b.WriteString(string(runes[i:end]))
			i = end - 1
		case r == '-' && at(runes, i+1) == '-':
			end := skipLine(runes, i)
			b.WriteString(string(runes[i:end]))
			i = end - 1
		case r == '/' && at(runes, i+1) == '*':
			end := skipBlock(runes, i)
			b.WriteString(string(runes[i:end]))
			i = end - 1
		case r == '%' && at(runes, i+1) == '%':
			b.WriteRune('%')
			i++
		case r == '%' && at(runes, i+1) == '(':
			name, end, ok := placeholder(runes, i)
			if !ok {
				b.WriteRune(r)
				continue
			}
			v, found := params[name]
			if !found {
				return "", nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
			}
			b.WriteString(Marker)
			args = append(args, v)
			i = end - 1
		default:
			b.WriteRune(r)
		}
	}

	return b.String(), args, nil
}

// Names lists the placeholder names referenced by query in order of appearance.
func Names(query string) []string {
	runes := []rune(query)
	var names []string
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\'' || r == '"':
			i = skipQuoted(runes, i, r) - 1
		case r == '-' && at(runes, i+1) == '-':
			i = skipLine(runes, i) - 1
		case r == '/' && at(runes, i+1) == '*':
			i = skipBlock(runes, i) - 1
		case r == '%' && at(runes, i+1) == '%':
			i++
		case r == '%' && at(runes, i+1) == '(':
			if name, end, ok := placeholder(runes, i); ok {
				names = append(names, name)
				i = end - 1
			}
		}
	}
	return names
}

func at(runes []rune, i int) rune {
	if i < 0 || i >= len(runes) {
		return 0
	}
	return runes[i]
}

// skipQuoted returns the index just past the literal opened at start.
// Doubled quotes and backslash escapes stay inside the literal.
func skipQuoted(runes []rune, start int, quote rune) int {
	for j := start + 1; j < len(runes); j++ {
		switch runes[j] {
		case '\\':
			if quote == '\'' {
				j++
			}
		case quote:
			if at(runes, j+1) == quote {
				j++
				continue
			}
			return j + 1
		}
	}
	return len(runes)
}

func skipLine(runes []rune, start int) int {
	for j := start; j < len(runes); j++ {
		if runes[j] == '\n' {
			return j + 1
		}
	}
	return len(runes)
}

func skipBlock(runes []rune, start int) int {
	for j := start + 2; j < len(runes)-1; j++ {
		if runes[j] == '*' && runes[j+1] == '/' {
			return j + 2
		}
	}
	return len(runes)
}

// placeholder parses %(name)s at start and returns the name and the index
// just past the trailing s.
func placeholder(runes []rune, start int) (string, int, bool) {
	for j := start + 2; j < len(runes); j++ {
		switch runes[j] {
		case ')':
			if j == start+2 || at(runes, j+1) != 's' {
				return "", 0, false
			}
			return string(runes[start+2 : j]), j + 2, true
		case '\n', '(', '%':
			return "", 0, false
		}
	}
	return "", 0, false
}
