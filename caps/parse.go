package caps

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c360/pipewright/errors"
)

// ParseError reports a caps syntax failure with the byte offset it occurred at.
// It unwraps to errors.ErrParsingFailed for classification.
type ParseError struct {
	Position int
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("caps parse error at position %d: %s", e.Position, e.Reason)
}

// Unwrap allows errors.Is checks against the parsing sentinel
func (e *ParseError) Unwrap() error {
	return errors.ErrParsingFailed
}

// Parse parses a caps string into a Caps value.
//
// Grammar (gst-launch style):
//
//	caps      = "ANY" | "EMPTY" | "NONE" | structure *( ";" structure )
//	structure = media-type *( "," field )
//	field     = name "=" [ "(" type ")" ] ( range | list | scalar )
//	range     = "[" scalar "," scalar "]"
//	list      = "{" scalar *( "," scalar ) "}"
//
// Scalars are inferred as int, boolean, fraction, or string; a type annotation
// such as (string) overrides inference. Parse never returns a partially
// constructed Structure: any syntax error fails the whole call.
func Parse(s string) (Caps, error) {
	p := &parser{input: s}
	p.skipSpace()

	switch {
	case p.eof():
		return Caps{}, p.errorf("empty caps string")
	case p.keyword("ANY"):
		return NewAny(), nil
	case p.keyword("EMPTY"), p.keyword("NONE"):
		return NewEmpty(), nil
	}

	var structures []Structure
	for {
		st, err := p.parseStructure()
		if err != nil {
			return Caps{}, err
		}
		structures = append(structures, st)

		p.skipSpace()
		if p.eof() {
			break
		}
		if !p.consume(';') {
			return Caps{}, p.errorf("expected ';' between structures, got %q", p.peek())
		}
		p.skipSpace()
		if p.eof() {
			return Caps{}, p.errorf("trailing ';' without a structure")
		}
	}

	return Caps{Structures: structures}, nil
}

// MustParse parses a caps string, panicking on error. For fixed catalog
// definitions and tests only.
func MustParse(s string) Caps {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

type parser struct {
	input string
	pos   int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for !p.eof() && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

// keyword consumes an exact word when it spans the rest of the input
func (p *parser) keyword(word string) bool {
	rest := strings.TrimSpace(p.input[p.pos:])
	if rest == word {
		p.pos = len(p.input)
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Position: p.pos, Reason: fmt.Sprintf(format, args...)}
}

func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_' || c == '.' || c == '+' || c == '/':
		return true
	default:
		return false
	}
}

// token reads a run of token characters
func (p *parser) token() string {
	start := p.pos
	for !p.eof() && isTokenChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseStructure() (Structure, error) {
	p.skipSpace()
	name := p.token()
	if name == "" {
		return Structure{}, p.errorf("expected media-type name, got %q", p.peek())
	}

	st := Structure{Name: name}
	seen := make(map[string]bool)

	for {
		p.skipSpace()
		if p.eof() || p.peek() == ';' {
			return st, nil
		}
		if !p.consume(',') {
			return Structure{}, p.errorf("expected ',' before next field, got %q", p.peek())
		}
		p.skipSpace()

		fieldName := p.token()
		if fieldName == "" {
			return Structure{}, p.errorf("expected field name")
		}
		if seen[fieldName] {
			return Structure{}, p.errorf("duplicate field %q", fieldName)
		}
		seen[fieldName] = true

		p.skipSpace()
		if !p.consume('=') {
			return Structure{}, p.errorf("expected '=' after field %q", fieldName)
		}

		value, err := p.parseValue()
		if err != nil {
			return Structure{}, err
		}
		st.Fields = append(st.Fields, Field{Name: fieldName, Value: value})
	}
}

func (p *parser) parseValue() (Value, error) {
	p.skipSpace()

	hint, err := p.parseTypeHint()
	if err != nil {
		return Value{}, err
	}

	p.skipSpace()
	switch p.peek() {
	case '[':
		return p.parseRange(hint)
	case '{':
		return p.parseList(hint)
	default:
		return p.parseScalar(hint)
	}
}

// parseTypeHint consumes an optional "(type)" annotation
func (p *parser) parseTypeHint() (string, error) {
	if !p.consume('(') {
		return "", nil
	}
	hint := p.token()
	if !p.consume(')') {
		return "", p.errorf("unterminated type annotation")
	}
	switch hint {
	case "string", "int", "boolean", "bool", "fraction":
		return hint, nil
	default:
		return "", p.errorf("unsupported type annotation %q", hint)
	}
}

func (p *parser) parseRange(hint string) (Value, error) {
	p.consume('[')
	lo, err := p.parseScalar(hint)
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.consume(',') {
		return Value{}, p.errorf("expected ',' in range")
	}
	hi, err := p.parseScalar(hint)
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if !p.consume(']') {
		return Value{}, p.errorf("expected ']' to close range")
	}

	switch {
	case lo.Kind == KindInt && hi.Kind == KindInt:
		if lo.Int > hi.Int {
			return Value{}, p.errorf("range lower bound %d exceeds upper bound %d", lo.Int, hi.Int)
		}
		return Value{Kind: KindIntRange, IntMin: lo.Int, IntMax: hi.Int}, nil
	case lo.Kind == KindFraction && hi.Kind == KindFraction:
		if hi.Frac.Less(lo.Frac) {
			return Value{}, p.errorf("range lower bound %s exceeds upper bound %s", lo.Frac, hi.Frac)
		}
		return Value{Kind: KindFractionRange, FracMin: lo.Frac, FracMax: hi.Frac}, nil
	default:
		return Value{}, p.errorf("range bounds must both be int or both be fraction")
	}
}

func (p *parser) parseList(hint string) (Value, error) {
	p.consume('{')
	var members []Value
	for {
		member, err := p.parseScalar(hint)
		if err != nil {
			return Value{}, err
		}
		members = append(members, member)

		p.skipSpace()
		if p.consume('}') {
			return Value{Kind: KindList, List: members}, nil
		}
		if !p.consume(',') {
			return Value{}, p.errorf("expected ',' or '}' in list")
		}
	}
}

func (p *parser) parseScalar(hint string) (Value, error) {
	p.skipSpace()

	if p.peek() == '"' {
		return p.parseQuoted()
	}

	raw := p.token()
	if raw == "" {
		return Value{}, p.errorf("expected a value")
	}

	switch hint {
	case "string":
		return Value{Kind: KindString, Str: raw}, nil
	case "int":
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Value{}, p.errorf("invalid int %q", raw)
		}
		return Value{Kind: KindInt, Int: n}, nil
	case "boolean", "bool":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, p.errorf("invalid boolean %q", raw)
		}
		return Value{Kind: KindBool, Bool: b}, nil
	case "fraction":
		f, ok := parseFraction(raw)
		if !ok {
			return Value{}, p.errorf("invalid fraction %q", raw)
		}
		return Value{Kind: KindFraction, Frac: f}, nil
	}

	// No annotation: infer the kind
	if n, err := strconv.Atoi(raw); err == nil {
		return Value{Kind: KindInt, Int: n}, nil
	}
	if raw == "true" || raw == "false" {
		return Value{Kind: KindBool, Bool: raw == "true"}, nil
	}
	if f, ok := parseFraction(raw); ok {
		return Value{Kind: KindFraction, Frac: f}, nil
	}
	return Value{Kind: KindString, Str: raw}, nil
}

func (p *parser) parseQuoted() (Value, error) {
	start := p.pos
	p.consume('"')
	var sb strings.Builder
	for {
		if p.eof() {
			p.pos = start
			return Value{}, p.errorf("unterminated quoted string")
		}
		c := p.input[p.pos]
		p.pos++
		switch c {
		case '"':
			return Value{Kind: KindString, Str: sb.String()}, nil
		case '\\':
			if p.eof() {
				p.pos = start
				return Value{}, p.errorf("unterminated escape in quoted string")
			}
			sb.WriteByte(p.input[p.pos])
			p.pos++
		default:
			sb.WriteByte(c)
		}
	}
}

// parseFraction accepts "n/d" with positive denominator
func parseFraction(s string) (Fraction, bool) {
	idx := strings.IndexByte(s, '/')
	if idx <= 0 || idx == len(s)-1 {
		return Fraction{}, false
	}
	num, err := strconv.Atoi(s[:idx])
	if err != nil {
		return Fraction{}, false
	}
	den, err := strconv.Atoi(s[idx+1:])
	if err != nil || den <= 0 {
		return Fraction{}, false
	}
	return Fraction{Num: num, Den: den}, true
}
