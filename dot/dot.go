// Package dot renders a parsed pipeline as a Graphviz digraph. The output is
// a pure function of the descriptor: identical input produces identical bytes,
// so callers can cache or diff renderings.
package dot

import (
	"fmt"
	"strings"

	"github.com/c360/pipewright/launch"
)

// Options controls rendering
type Options struct {
	// Name is the graph identifier, "pipeline" when empty
	Name string
	// RankDir is the layout direction, "LR" when empty
	RankDir string
	// ShowProperties includes property assignments in node labels
	ShowProperties bool
}

// Render produces a DOT digraph for a pipeline descriptor
func Render(desc launch.Descriptor, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "pipeline"
	}
	rankDir := opts.RankDir
	if rankDir == "" {
		rankDir = "LR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph %s {\n", quoteID(name))
	fmt.Fprintf(&b, "  rankdir=%s;\n", rankDir)
	b.WriteString("  node [shape=box, style=rounded];\n")

	for i, node := range desc.Nodes {
		fmt.Fprintf(&b, "  n%d [label=%s];\n", i, quoteID(nodeLabel(node, opts.ShowProperties)))
	}
	for _, link := range desc.Links {
		if link.Filter != nil {
			fmt.Fprintf(&b, "  n%d -> n%d [label=%s];\n", link.From, link.To, quoteID(link.Filter.String()))
		} else {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", link.From, link.To)
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeLabel(node launch.Node, showProperties bool) string {
	label := node.Element
	if node.Alias != "" && node.Alias != node.Element {
		label = fmt.Sprintf("%s\\n(%s)", node.Alias, node.Element)
	}
	if showProperties {
		for _, p := range node.Properties {
			label += fmt.Sprintf("\\n%s=%s", p.Name, p.Value)
		}
	}
	return label
}

// quoteID wraps a string in DOT double quotes, escaping embedded quotes
func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
