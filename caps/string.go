package caps

import (
	"strconv"
	"strings"
)

// String renders the canonical serialization. Parsing the result yields a
// Caps semantically equal to the receiver; the bytes are stable for a given
// value but not necessarily identical to the originally parsed input.
func (c Caps) String() string {
	if c.Any {
		return "ANY"
	}
	if len(c.Structures) == 0 {
		return "EMPTY"
	}

	parts := make([]string, 0, len(c.Structures))
	for _, s := range c.Structures {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, "; ")
}

// String renders one structure in canonical form
func (s Structure) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	for _, f := range s.Fields {
		sb.WriteString(", ")
		sb.WriteString(f.Name)
		sb.WriteByte('=')
		sb.WriteString(f.Value.String())
	}
	return sb.String()
}

// String renders a field value in canonical form
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return renderString(v.Str)
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindFraction:
		return v.Frac.String()
	case KindIntRange:
		return "[ " + strconv.Itoa(v.IntMin) + ", " + strconv.Itoa(v.IntMax) + " ]"
	case KindFractionRange:
		return "[ " + v.FracMin.String() + ", " + v.FracMax.String() + " ]"
	case KindList:
		members := make([]string, 0, len(v.List))
		for _, m := range v.List {
			members = append(members, m.String())
		}
		return "{ " + strings.Join(members, ", ") + " }"
	default:
		return ""
	}
}

// renderString quotes a string when the bare form would re-parse as a
// different kind (int, boolean, fraction) or contains non-token characters.
func renderString(s string) string {
	if s == "" || needsQuoting(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if _, err := strconv.Atoi(s); err == nil {
		return true
	}
	if s == "true" || s == "false" {
		return true
	}
	if _, ok := parseFraction(s); ok {
		return true
	}
	for i := 0; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return true
		}
	}
	return false
}
