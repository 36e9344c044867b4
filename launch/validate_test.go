package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/pipewright/caps"
	"github.com/c360/pipewright/element"
)

func TestValidateCleanPipeline(t *testing.T) {
	v := NewValidator(element.Builtin())

	desc, diags := v.Validate("videotestsrc ! videoconvert ! autovideosink")
	assert.Empty(t, diags)
	assert.Len(t, desc.Nodes, 3)
}

func TestValidateUnknownElementSingleDiagnostic(t *testing.T) {
	v := NewValidator(element.Builtin())

	_, diags := v.Validate("videotestsrc ! nosuchelement")
	require.Len(t, diags, 1)
	assert.Equal(t, KindUnknownElement, diags[0].Kind)
	assert.Equal(t, SeverityError, diags[0].Severity)
	assert.NotEmpty(t, diags[0].Suggestions)
}

func TestValidateCollectsAllLinkDiagnostics(t *testing.T) {
	v := NewValidator(element.Builtin())

	// both links are incompatible and both must be reported
	_, diags := v.Validate("audiotestsrc ! x264enc ! autoaudiosink")
	var linkDiags []Diagnostic
	for _, d := range diags {
		if d.Kind == KindIncompatibleLink {
			linkDiags = append(linkDiags, d)
		}
	}
	require.Len(t, linkDiags, 2)
	assert.Equal(t, "audiotestsrc0", linkDiags[0].From)
	assert.Equal(t, "x264enc0", linkDiags[0].To)
	assert.Equal(t, "x264enc0", linkDiags[1].From)
	assert.Equal(t, "autoaudiosink0", linkDiags[1].To)
}

func TestValidateNeedsConversionWarning(t *testing.T) {
	r := element.NewStaticRegistry()
	require.NoError(t, r.Register(element.Info{
		Name: "i420src", Klass: "Source/Video",
		PadTemplates: []element.PadTemplate{
			{Name: "src", Direction: element.DirectionSrc, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw, format=I420")},
		},
	}))
	require.NoError(t, r.Register(element.Info{
		Name: "nv12sink", Klass: "Sink/Video",
		PadTemplates: []element.PadTemplate{
			{Name: "sink", Direction: element.DirectionSink, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw, format=NV12")},
		},
	}))
	require.NoError(t, r.Register(element.Info{
		Name: "pixconvert", Klass: "Filter/Converter/Video",
		PadTemplates: []element.PadTemplate{
			{Name: "sink", Direction: element.DirectionSink, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw, format={ I420, NV12 }")},
			{Name: "src", Direction: element.DirectionSrc, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw, format={ I420, NV12 }")},
		},
	}))

	v := NewValidator(r)
	_, diags := v.Validate("i420src ! nv12sink")
	require.Len(t, diags, 1)
	assert.Equal(t, KindIncompatibleLink, diags[0].Kind)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, []string{"pixconvert"}, diags[0].Suggestions)
}

func TestValidateSkipsFilteredLinks(t *testing.T) {
	v := NewValidator(element.Builtin())

	// the explicit caps filter takes responsibility for the link
	_, diags := v.Validate("audiotestsrc ! audio/x-raw ! autoaudiosink")
	assert.Empty(t, diags)
}

func TestValidateEndpointWarnings(t *testing.T) {
	v := NewValidator(element.Builtin())

	_, diags := v.Validate("videoconvert ! videoscale")
	kinds := make(map[Kind]Severity)
	for _, d := range diags {
		kinds[d.Kind] = d.Severity
	}
	assert.Equal(t, SeverityWarning, kinds[KindNoSource])
	assert.Equal(t, SeverityWarning, kinds[KindNoSink])
}
