// Package element provides the element catalog consumed by caps negotiation
// and pipeline parsing: a read-only registry of processing elements with their
// pad templates, properties, and classification metadata.
package element

import (
	"strings"

	"github.com/c360/pipewright/caps"
)

// Direction of a pad: source pads produce data, sink pads consume it
type Direction string

// Pad directions
const (
	DirectionSrc  Direction = "src"
	DirectionSink Direction = "sink"
)

// Presence describes when a pad template materializes on an element instance
type Presence string

// Pad presences
const (
	PresenceAlways    Presence = "always"
	PresenceSometimes Presence = "sometimes"
	PresenceRequest   Presence = "request"
)

// PadTemplate declares a connection point and the formats it accepts
type PadTemplate struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	Presence  Presence  `json:"presence"`
	Caps      caps.Caps `json:"caps"`
}

// Property describes a configurable element property
type Property struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"` // string, int, uint, bool, fraction, enum, caps
	Description string   `json:"description,omitempty"`
	Default     any      `json:"default,omitempty"`
	Minimum     *int     `json:"minimum,omitempty"`
	Maximum     *int     `json:"maximum,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Rank expresses selection priority among elements offering the same function
type Rank int

// Standard ranks
const (
	RankNone      Rank = 0
	RankMarginal  Rank = 64
	RankSecondary Rank = 128
	RankPrimary   Rank = 256
)

// String returns the human-readable rank name
func (r Rank) String() string {
	switch r {
	case RankNone:
		return "none"
	case RankMarginal:
		return "marginal"
	case RankSecondary:
		return "secondary"
	case RankPrimary:
		return "primary"
	default:
		return "custom"
	}
}

// Info holds the full metadata for one element type
type Info struct {
	Name         string        `json:"name"`
	LongName     string        `json:"long_name,omitempty"`
	Description  string        `json:"description"`
	Klass        string        `json:"klass"`
	Author       string        `json:"author,omitempty"`
	Plugin       string        `json:"plugin,omitempty"`
	Rank         Rank          `json:"rank"`
	PadTemplates []PadTemplate `json:"pad_templates"`
	Properties   []Property    `json:"properties"`
}

// Category derives a coarse element category from the klass metadata
func (i Info) Category() string {
	klass := strings.ToLower(i.Klass)
	switch {
	case strings.Contains(klass, "source") || strings.Contains(klass, "src"):
		return "source"
	case strings.Contains(klass, "sink"):
		return "sink"
	case strings.Contains(klass, "decoder"):
		return "decoder"
	case strings.Contains(klass, "encoder"):
		return "encoder"
	case strings.Contains(klass, "demuxer") || strings.Contains(klass, "demux"):
		return "demuxer"
	case strings.Contains(klass, "muxer") || strings.Contains(klass, "mux"):
		return "muxer"
	case strings.Contains(klass, "payloader") && !strings.Contains(klass, "depayloader"):
		return "payloader"
	case strings.Contains(klass, "depayloader"):
		return "depayloader"
	case strings.Contains(klass, "converter"):
		return "converter"
	case strings.Contains(klass, "filter") || strings.Contains(klass, "effect"):
		return "filter"
	case strings.Contains(klass, "parser"):
		return "parser"
	default:
		return "other"
	}
}

// SrcCaps returns the union of all source pad template caps
func (i Info) SrcCaps() caps.Caps {
	return i.directionCaps(DirectionSrc)
}

// SinkCaps returns the union of all sink pad template caps
func (i Info) SinkCaps() caps.Caps {
	return i.directionCaps(DirectionSink)
}

func (i Info) directionCaps(dir Direction) caps.Caps {
	var out caps.Caps
	for _, t := range i.PadTemplates {
		if t.Direction != dir {
			continue
		}
		if t.Caps.IsAny() {
			return caps.NewAny()
		}
		out.Structures = append(out.Structures, t.Caps.Structures...)
	}
	return out
}

// Pads returns the pad templates in a direction, optionally filtered by name
func (i Info) Pads(dir Direction, name string) []PadTemplate {
	var out []PadTemplate
	for _, t := range i.PadTemplates {
		if t.Direction != dir {
			continue
		}
		if name != "" && t.Name != name {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Property looks up a property by name
func (i Info) Property(name string) (Property, bool) {
	for _, p := range i.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// PropertyNames returns all property names, in declaration order
func (i Info) PropertyNames() []string {
	names := make([]string, 0, len(i.Properties))
	for _, p := range i.Properties {
		names = append(names, p.Name)
	}
	return names
}
