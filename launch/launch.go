// Package launch parses textual pipeline descriptions into a typed graph of
// nodes and links, resolving element names and properties against the element
// registry and producing structured diagnostics for anything that does not
// resolve.
package launch

import (
	"fmt"

	"github.com/c360/pipewright/caps"
)

// Kind classifies a validation failure
type Kind string

// Validation failure kinds
const (
	KindSyntax          Kind = "syntax"
	KindUnknownElement  Kind = "unknown-element"
	KindUnknownProperty Kind = "unknown-property"
	KindDanglingLink    Kind = "dangling-link"
	KindInvalidCaps     Kind = "invalid-caps"
)

// ValidationError is a structured parse failure with a position and, for
// unknown names, fuzzy-matched suggestions
type ValidationError struct {
	Kind        Kind     `json:"kind"`
	Location    int      `json:"location"` // byte offset into the description
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Location, e.Message)
}

// PropertyAssignment is one name=value pair on a node, in declaration order
type PropertyAssignment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Node is one element instance in a pipeline description
type Node struct {
	Element    string               `json:"element"`
	Alias      string               `json:"alias"`
	Properties []PropertyAssignment `json:"properties,omitempty"`
}

// Property returns the assigned value for a property name
func (n Node) Property(name string) (string, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Link connects two nodes by index, with an optional caps filter between them
type Link struct {
	From   int        `json:"from"`
	To     int        `json:"to"`
	Filter *caps.Caps `json:"filter,omitempty"`
}

// Descriptor is a parsed pipeline description
type Descriptor struct {
	Text  string `json:"text"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// NodeByAlias returns the node carrying the given instance alias
func (d Descriptor) NodeByAlias(alias string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.Alias == alias {
			return n, true
		}
	}
	return Node{}, false
}
