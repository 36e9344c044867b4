package launch

import (
	"fmt"

	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/negotiate"
)

// Additional diagnostic kinds produced by link validation
const (
	KindIncompatibleLink Kind = "incompatible-link"
	KindNoSource         Kind = "no-source"
	KindNoSink           Kind = "no-sink"
)

// Severity of a diagnostic
type Severity string

// Diagnostic severities
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one validation finding, either a parse failure or a link
// compatibility issue
type Diagnostic struct {
	Kind        Kind     `json:"kind"`
	Severity    Severity `json:"severity"`
	Location    int      `json:"location,omitempty"`
	From        string   `json:"from,omitempty"` // upstream node alias
	To          string   `json:"to,omitempty"`   // downstream node alias
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Validator parses descriptions and checks link compatibility
type Validator struct {
	registry   element.Registry
	parser     *Parser
	negotiator *negotiate.Negotiator
}

// NewValidator creates a Validator backed by the given registry
func NewValidator(registry element.Registry) *Validator {
	return &Validator{
		registry:   registry,
		parser:     NewParser(registry),
		negotiator: negotiate.New(registry),
	}
}

// Parser returns the underlying descriptor parser
func (v *Validator) Parser() *Parser {
	return v.parser
}

// Validate parses a description and, when parsing succeeds, checks every
// link for caps compatibility. A parse failure yields exactly one diagnostic.
func (v *Validator) Validate(text string) (Descriptor, []Diagnostic) {
	desc, verr := v.parser.Parse(text)
	if verr != nil {
		return desc, []Diagnostic{{
			Kind:        verr.Kind,
			Severity:    SeverityError,
			Location:    verr.Location,
			Message:     verr.Message,
			Suggestions: verr.Suggestions,
		}}
	}

	diags := v.ValidateLinks(desc)
	diags = append(diags, v.checkEndpoints(desc)...)
	return desc, diags
}

// ValidateLinks checks every link without an explicit caps filter against the
// endpoints' pad-template caps. All links are checked; validation never stops
// at the first failure.
func (v *Validator) ValidateLinks(desc Descriptor) []Diagnostic {
	var diags []Diagnostic
	for _, link := range desc.Links {
		if link.Filter != nil {
			continue
		}
		from := desc.Nodes[link.From]
		to := desc.Nodes[link.To]

		report, err := v.negotiator.CanLink(from.Element, to.Element)
		if err != nil {
			// nodes resolved at parse time; a registry change mid-validate
			// still must not abort the remaining links
			diags = append(diags, Diagnostic{
				Kind:     KindUnknownElement,
				Severity: SeverityError,
				From:     from.Alias,
				To:       to.Alias,
				Message:  err.Error(),
			})
			continue
		}

		switch report.Verdict {
		case negotiate.Compatible:
		case negotiate.NeedsConversion:
			diags = append(diags, Diagnostic{
				Kind:        KindIncompatibleLink,
				Severity:    SeverityWarning,
				From:        from.Alias,
				To:          to.Alias,
				Message:     fmt.Sprintf("%s cannot link directly to %s, a converter is required", from.Alias, to.Alias),
				Suggestions: report.Suggestions,
			})
		case negotiate.Incompatible:
			diags = append(diags, Diagnostic{
				Kind:     KindIncompatibleLink,
				Severity: SeverityError,
				From:     from.Alias,
				To:       to.Alias,
				Message:  fmt.Sprintf("%s cannot link to %s, no common format and no known converter", from.Alias, to.Alias),
			})
		}
	}
	return diags
}

// checkEndpoints warns when a pipeline does not start at a source or end at a sink
func (v *Validator) checkEndpoints(desc Descriptor) []Diagnostic {
	if len(desc.Nodes) == 0 {
		return nil
	}
	var diags []Diagnostic

	first, _ := v.registry.Get(desc.Nodes[0].Element)
	if first.Category() != "source" {
		diags = append(diags, Diagnostic{
			Kind:     KindNoSource,
			Severity: SeverityWarning,
			From:     desc.Nodes[0].Alias,
			Message:  fmt.Sprintf("pipeline does not start with a source element (%s is a %s)", desc.Nodes[0].Alias, first.Category()),
		})
	}

	last, _ := v.registry.Get(desc.Nodes[len(desc.Nodes)-1].Element)
	if last.Category() != "sink" {
		diags = append(diags, Diagnostic{
			Kind:     KindNoSink,
			Severity: SeverityWarning,
			To:       desc.Nodes[len(desc.Nodes)-1].Alias,
			Message:  fmt.Sprintf("pipeline does not end with a sink element (%s is a %s)", desc.Nodes[len(desc.Nodes)-1].Alias, last.Category()),
		})
	}
	return diags
}
