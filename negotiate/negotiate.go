// Package negotiate decides whether two sets of capabilities can carry a
// stream between them, and when they cannot, which converter elements would
// bridge the gap.
package negotiate

import (
	"fmt"
	"sort"

	"github.com/c360/pipewright/caps"
	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
	"github.com/c360/pipewright/pkg/cache"
)

// Compatibility classifies the outcome of a caps check
type Compatibility string

// Compatibility outcomes
const (
	Compatible      Compatibility = "compatible"
	Incompatible    Compatibility = "incompatible"
	NeedsConversion Compatibility = "needs-conversion"
)

// maxSuggestions bounds the converter list returned per check
const maxSuggestions = 8

// Result reports the outcome of checking two caps against each other
type Result struct {
	Compatibility Compatibility `json:"compatibility"`
	Intersection  caps.Caps     `json:"intersection"`
	// Suggestions lists converter elements that could bridge the caps,
	// populated only when the caps do not intersect directly
	Suggestions []string `json:"suggestions,omitempty"`
}

// PadPair describes one candidate src/sink pad combination between two elements
type PadPair struct {
	SrcPad       string    `json:"src_pad"`
	SinkPad      string    `json:"sink_pad"`
	Compatible   bool      `json:"compatible"`
	Intersection caps.Caps `json:"intersection"`
}

// LinkReport describes whether two elements can be linked directly
type LinkReport struct {
	Src         string        `json:"src"`
	Sink        string        `json:"sink"`
	Linkable    bool          `json:"linkable"`
	Verdict     Compatibility `json:"verdict"`
	Pairs       []PadPair     `json:"pairs"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// Negotiator checks caps compatibility against an element registry
type Negotiator struct {
	registry    element.Registry
	suggestions *cache.LRU[[]string]
}

// New creates a Negotiator backed by the given registry
func New(registry element.Registry) *Negotiator {
	// capacity sized for a typical interactive session; a full scan of the
	// registry per miss is cheap enough that eviction only costs a rescan
	suggestions, err := cache.NewLRU[[]string](256, 0)
	if err != nil {
		panic(err)
	}
	return &Negotiator{
		registry:    registry,
		suggestions: suggestions,
	}
}

// Check intersects upstream output caps against downstream input caps.
// It never consults the registry: the verdict is compatible or incompatible.
func (n *Negotiator) Check(upstream, downstream caps.Caps) Result {
	intersection := upstream.Intersect(downstream)
	if !intersection.IsEmpty() {
		return Result{
			Compatibility: Compatible,
			Intersection:  intersection,
		}
	}
	return Result{
		Compatibility: Incompatible,
		Intersection:  caps.NewEmpty(),
	}
}

// CheckWithConverters is Check upgraded by a registry lookup: an empty
// intersection becomes needs-conversion when a converter element accepts
// the upstream caps and produces something the downstream caps accept
func (n *Negotiator) CheckWithConverters(upstream, downstream caps.Caps) Result {
	result := n.Check(upstream, downstream)
	if result.Compatibility == Compatible {
		return result
	}

	suggestions := n.SuggestConverters(upstream, downstream)
	if len(suggestions) > 0 {
		return Result{
			Compatibility: NeedsConversion,
			Intersection:  caps.NewEmpty(),
			Suggestions:   suggestions,
		}
	}
	return Result{
		Compatibility: Incompatible,
		Intersection:  caps.NewEmpty(),
	}
}

// SuggestConverters returns converter elements that accept the upstream caps
// on their sink pad and whose src pad caps intersect the downstream caps.
// Converters sharing a media type with the upstream caps sort first, the rest
// alphabetically, capped at 8 entries.
func (n *Negotiator) SuggestConverters(upstream, downstream caps.Caps) []string {
	key := upstream.String() + "|" + downstream.String()
	if cached, ok := n.suggestions.Get(key); ok {
		return cached
	}

	upstreamTypes := make(map[string]bool)
	for _, mt := range upstream.MediaTypes() {
		upstreamTypes[mt] = true
	}

	type candidate struct {
		name      string
		exactType bool
	}
	var candidates []candidate
	for _, info := range n.registry.ListByCategory("converter", 0) {
		if !info.SinkCaps().CanIntersect(upstream) {
			continue
		}
		if !info.SrcCaps().CanIntersect(downstream) {
			continue
		}
		exact := false
		for _, mt := range info.SinkCaps().MediaTypes() {
			if upstreamTypes[mt] {
				exact = true
				break
			}
		}
		candidates = append(candidates, candidate{name: info.Name, exactType: exact})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].exactType != candidates[j].exactType {
			return candidates[i].exactType
		}
		return candidates[i].name < candidates[j].name
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.name)
	}
	n.suggestions.Set(key, names)
	return names
}

// CanLink checks every src pad of one element against every sink pad of
// another and reports which pairs are directly compatible
func (n *Negotiator) CanLink(srcName, sinkName string) (LinkReport, error) {
	src, ok := n.registry.Get(srcName)
	if !ok {
		return LinkReport{}, errors.WrapInvalid(
			errors.ErrElementNotFound,
			"Negotiator", "CanLink",
			fmt.Sprintf("check that element %q is registered", srcName),
		)
	}
	sink, ok := n.registry.Get(sinkName)
	if !ok {
		return LinkReport{}, errors.WrapInvalid(
			errors.ErrElementNotFound,
			"Negotiator", "CanLink",
			fmt.Sprintf("check that element %q is registered", sinkName),
		)
	}

	report := LinkReport{Src: srcName, Sink: sinkName}
	for _, srcPad := range src.Pads(element.DirectionSrc, "") {
		for _, sinkPad := range sink.Pads(element.DirectionSink, "") {
			intersection := srcPad.Caps.Intersect(sinkPad.Caps)
			pair := PadPair{
				SrcPad:       srcPad.Name,
				SinkPad:      sinkPad.Name,
				Compatible:   !intersection.IsEmpty(),
				Intersection: intersection,
			}
			if pair.Compatible {
				report.Linkable = true
			}
			report.Pairs = append(report.Pairs, pair)
		}
	}

	if report.Linkable {
		report.Verdict = Compatible
	} else {
		report.Suggestions = n.SuggestConverters(src.SrcCaps(), sink.SinkCaps())
		if len(report.Suggestions) > 0 {
			report.Verdict = NeedsConversion
		} else {
			report.Verdict = Incompatible
		}
	}
	return report, nil
}
