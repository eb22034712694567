package cli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

var (
	intPattern   = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)$`)
	floatPattern = regexp.MustCompile(`^[-+]?(0|[1-9][0-9]*)?\.[0-9]+([eE][-+]?[0-9]+)?$`)
)

// parseParams turns repeated name=value flags into query parameters.
// A name may carry a type suffix (name:string, name:int, name:float,
// name:bool) to override inference.
func parseParams(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: want name=value", pair)
		}
		name, typ, _ := strings.Cut(strings.TrimSpace(name), ":")
		if name == "" {
			return nil, fmt.Errorf("invalid param %q: empty name", pair)
		}

		v, err := convertParam(raw, typ)
		if err != nil {
			return nil, fmt.Errorf("invalid param %q: %w", name, err)
		}
		params[name] = v
	}
	return params, nil
}

func convertParam(raw, typ string) (any, error) {
	switch typ {
	case "":
		return inferParam(raw), nil
	case "string", "str":
		return raw, nil
	case "int":
		return cast.ToInt64E(raw)
	case "float":
		return cast.ToFloat64E(raw)
	case "bool":
		return cast.ToBoolE(raw)
	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}

// inferParam picks int, float or bool when the text is unambiguous,
// otherwise keeps it as a string.
func inferParam(raw string) any {
	switch {
	case intPattern.MatchString(raw):
		if v, err := cast.ToInt64E(raw); err == nil {
			return v
		}
	case floatPattern.MatchString(raw):
		if v, err := cast.ToFloat64E(raw); err == nil {
			return v
		}
	case strings.EqualFold(raw, "true"), strings.EqualFold(raw, "false"):
		return cast.ToBool(strings.ToLower(raw))
	}
	return raw
}
