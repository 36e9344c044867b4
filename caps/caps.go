// Package caps implements the media-format capability model: structured
// descriptions of acceptable media formats expressed as a disjunction of typed
// field constraints. A Caps value is immutable once parsed; all operations
// return new values.
package caps

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a Value holds
type Kind int

// Value kinds. A field value is exactly one of these; intersection logic
// switches exhaustively over the pair of kinds.
const (
	KindString Kind = iota
	KindInt
	KindBool
	KindFraction
	KindIntRange
	KindFractionRange
	KindList
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindBool:
		return "boolean"
	case KindFraction:
		return "fraction"
	case KindIntRange:
		return "int_range"
	case KindFractionRange:
		return "fraction_range"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Fraction is an exact rational number (framerates, pixel aspect ratios)
type Fraction struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// Less reports whether f < other, comparing by cross-multiplication.
// Denominators are always positive after parsing.
func (f Fraction) Less(other Fraction) bool {
	return f.Num*other.Den < other.Num*f.Den
}

// Equal reports exact numeric equality
func (f Fraction) Equal(other Fraction) bool {
	return f.Num*other.Den == other.Num*f.Den
}

// Value is the tagged union for a single field constraint
type Value struct {
	Kind Kind

	Str  string
	Int  int
	Bool bool
	Frac Fraction

	// Range bounds, inclusive
	IntMin, IntMax   int
	FracMin, FracMax Fraction

	// List alternatives; members are scalars
	List []Value
}

// MarshalJSON renders the value in a shape convenient for API clients:
// scalars collapse to their natural JSON type, ranges and lists carry a type tag.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindInt:
		return json.Marshal(v.Int)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindFraction:
		return json.Marshal(map[string]string{"type": "fraction", "value": v.Frac.String()})
	case KindIntRange:
		return json.Marshal(map[string]any{"type": "int_range", "min": v.IntMin, "max": v.IntMax})
	case KindFractionRange:
		return json.Marshal(map[string]string{
			"type": "fraction_range", "min": v.FracMin.String(), "max": v.FracMax.String(),
		})
	case KindList:
		return json.Marshal(map[string]any{"type": "list", "values": v.List})
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.Kind)
	}
}

// Equal reports semantic equality of two values
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindInt:
		return v.Int == other.Int
	case KindBool:
		return v.Bool == other.Bool
	case KindFraction:
		return v.Frac.Equal(other.Frac)
	case KindIntRange:
		return v.IntMin == other.IntMin && v.IntMax == other.IntMax
	case KindFractionRange:
		return v.FracMin.Equal(other.FracMin) && v.FracMax.Equal(other.FracMax)
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Field is a named constraint inside a Structure. Field order is
// declaration order and is preserved through parse and serialization.
type Field struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Structure describes one alternative media format: a media-type name plus
// field constraints. A field absent from the list is unconstrained.
type Structure struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Lookup returns the value for a field name
func (s Structure) Lookup(name string) (Value, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Value{}, false
}

// IsFixed reports whether every field is a single concrete value
func (s Structure) IsFixed() bool {
	for _, f := range s.Fields {
		switch f.Value.Kind {
		case KindIntRange, KindFractionRange, KindList:
			return false
		}
	}
	return true
}

// Equal reports semantic equality: same name and the same field constraints,
// regardless of field declaration order.
func (s Structure) Equal(other Structure) bool {
	if s.Name != other.Name || len(s.Fields) != len(other.Fields) {
		return false
	}
	for _, f := range s.Fields {
		ov, ok := other.Lookup(f.Name)
		if !ok || !f.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// Caps is an ordered disjunction of Structures. The zero value is the empty
// caps (no format accepted). The special "any" caps accepts every format.
type Caps struct {
	Any        bool        `json:"any"`
	Structures []Structure `json:"structures"`
}

// NewAny returns caps accepting every format
func NewAny() Caps {
	return Caps{Any: true}
}

// NewEmpty returns caps accepting no format
func NewEmpty() Caps {
	return Caps{}
}

// IsAny reports whether the caps accept every format
func (c Caps) IsAny() bool {
	return c.Any
}

// IsEmpty reports whether the caps accept no format at all
func (c Caps) IsEmpty() bool {
	return !c.Any && len(c.Structures) == 0
}

// IsFixed reports whether the caps describe exactly one concrete format
func (c Caps) IsFixed() bool {
	return !c.Any && len(c.Structures) == 1 && c.Structures[0].IsFixed()
}

// Equal reports semantic equality of two caps sets
func (c Caps) Equal(other Caps) bool {
	if c.Any != other.Any {
		return false
	}
	if len(c.Structures) != len(other.Structures) {
		return false
	}
	for i := range c.Structures {
		if !c.Structures[i].Equal(other.Structures[i]) {
			return false
		}
	}
	return true
}

// MediaTypes returns the distinct media-type names, in first-seen order
func (c Caps) MediaTypes() []string {
	seen := make(map[string]bool, len(c.Structures))
	var names []string
	for _, s := range c.Structures {
		if !seen[s.Name] {
			seen[s.Name] = true
			names = append(names, s.Name)
		}
	}
	return names
}
