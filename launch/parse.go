package launch

import (
	"fmt"
	"strings"

	"github.com/c360/pipewright/caps"
	"github.com/c360/pipewright/element"
)

// Parser resolves pipeline descriptions against an element registry
type Parser struct {
	registry element.Registry
}

// NewParser creates a Parser backed by the given registry
func NewParser(registry element.Registry) *Parser {
	return &Parser{registry: registry}
}

type segment struct {
	text   string
	offset int
}

// splitSegments splits a description on the link operator, keeping offsets.
// A '!' inside a double-quoted property value is part of the value, not a link.
func splitSegments(text string) []segment {
	var segments []segment
	start := 0
	inQuotes := false
	for i := 0; i <= len(text); i++ {
		if i == len(text) {
			segments = append(segments, segment{text: text[start:], offset: start})
			break
		}
		switch {
		case text[i] == '"':
			inQuotes = !inQuotes
		case text[i] == '!' && !inQuotes:
			segments = append(segments, segment{text: text[start:i], offset: start})
			start = i + 1
		}
	}
	return segments
}

// tokenize splits a segment on whitespace, keeping double-quoted runs intact
func tokenize(s string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			current.WriteByte(c)
		case (c == ' ' || c == '\t' || c == '\n') && !inQuotes:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// Parse tokenizes and resolves a pipeline description. It fails on the first
// unresolvable token; use Validate to additionally check link compatibility.
func (p *Parser) Parse(text string) (Descriptor, *ValidationError) {
	desc := Descriptor{Text: text}
	if strings.TrimSpace(text) == "" {
		return desc, &ValidationError{
			Kind:    KindSyntax,
			Message: "empty pipeline description",
		}
	}

	elementCounts := make(map[string]int)
	var pendingFilter *caps.Caps
	prevNode := -1

	for _, seg := range splitSegments(text) {
		tokens := tokenize(seg.text)
		if len(tokens) == 0 {
			return desc, &ValidationError{
				Kind:     KindSyntax,
				Location: seg.offset,
				Message:  "empty segment between link operators",
			}
		}

		// a token with a media type is a caps filter, not an element
		if strings.Contains(tokens[0], "/") {
			filter, err := caps.Parse(strings.TrimSpace(seg.text))
			if err != nil {
				return desc, &ValidationError{
					Kind:     KindInvalidCaps,
					Location: seg.offset,
					Message:  fmt.Sprintf("invalid caps filter: %v", err),
				}
			}
			if prevNode < 0 {
				return desc, &ValidationError{
					Kind:     KindDanglingLink,
					Location: seg.offset,
					Message:  "caps filter has no upstream element",
				}
			}
			if pendingFilter != nil {
				return desc, &ValidationError{
					Kind:     KindDanglingLink,
					Location: seg.offset,
					Message:  "two caps filters in a row with no element between them",
				}
			}
			pendingFilter = &filter
			continue
		}

		node, verr := p.parseNode(tokens, seg.offset, elementCounts)
		if verr != nil {
			return desc, verr
		}
		desc.Nodes = append(desc.Nodes, node)
		idx := len(desc.Nodes) - 1
		if prevNode >= 0 {
			desc.Links = append(desc.Links, Link{From: prevNode, To: idx, Filter: pendingFilter})
			pendingFilter = nil
		}
		prevNode = idx
	}

	if pendingFilter != nil {
		return desc, &ValidationError{
			Kind:     KindDanglingLink,
			Location: len(text),
			Message:  "caps filter has no downstream element",
		}
	}
	return desc, nil
}

func (p *Parser) parseNode(tokens []string, offset int, counts map[string]int) (Node, *ValidationError) {
	name := tokens[0]
	info, ok := p.registry.Get(name)
	if !ok {
		return Node{}, &ValidationError{
			Kind:        KindUnknownElement,
			Location:    offset,
			Message:     fmt.Sprintf("no such element %q", name),
			Suggestions: suggest(name, p.registry.Names(), maxNameSuggestions),
		}
	}

	node := Node{Element: name}
	for _, tok := range tokens[1:] {
		eq := strings.IndexByte(tok, '=')
		if eq <= 0 {
			return Node{}, &ValidationError{
				Kind:     KindSyntax,
				Location: offset,
				Message:  fmt.Sprintf("expected property=value, got %q", tok),
			}
		}
		propName := tok[:eq]
		propValue := strings.Trim(tok[eq+1:], `"`)

		if propName == "name" {
			node.Alias = propValue
			continue
		}
		if _, ok := info.Property(propName); !ok {
			return Node{}, &ValidationError{
				Kind:        KindUnknownProperty,
				Location:    offset,
				Message:     fmt.Sprintf("element %q has no property %q", name, propName),
				Suggestions: suggest(propName, info.PropertyNames(), maxNameSuggestions),
			}
		}
		node.Properties = append(node.Properties, PropertyAssignment{Name: propName, Value: propValue})
	}

	if node.Alias == "" {
		node.Alias = fmt.Sprintf("%s%d", name, counts[name])
	}
	counts[name]++
	return node, nil
}
