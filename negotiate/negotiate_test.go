package negotiate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/pipewright/caps"
	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/errors"
)

func TestCheckCompatible(t *testing.T) {
	n := New(element.Builtin())

	a := caps.MustParse("video/x-raw, format={ I420, NV12 }, width=[ 320, 1920 ]")
	b := caps.MustParse("video/x-raw, format=I420, width=1280")

	result := n.Check(a, b)
	assert.Equal(t, Compatible, result.Compatibility)
	require.Len(t, result.Intersection.Structures, 1)
	assert.Empty(t, result.Suggestions)
}

func TestCheckIncompatibleNeverConsultsRegistry(t *testing.T) {
	// an empty registry cannot offer converters, and Check must not ask for any
	n := New(element.NewStaticRegistry())

	a := caps.MustParse("video/x-raw, format=I420")
	b := caps.MustParse("video/x-raw, format=NV12")

	result := n.Check(a, b)
	assert.Equal(t, Incompatible, result.Compatibility)
	assert.True(t, result.Intersection.IsEmpty())
	assert.Empty(t, result.Suggestions)

	// the same pair with a full registry is still plain incompatible
	full := New(element.Builtin())
	result = full.Check(a, b)
	assert.Equal(t, Incompatible, result.Compatibility)
	assert.Empty(t, result.Suggestions)
}

func TestCheckWithConverters(t *testing.T) {
	n := New(element.Builtin())

	a := caps.MustParse("video/x-raw, format=I420")
	b := caps.MustParse("video/x-raw, format=NV12")

	result := n.CheckWithConverters(a, b)
	assert.Equal(t, NeedsConversion, result.Compatibility)
	assert.Contains(t, result.Suggestions, "videoconvert")
}

func TestCheckWithConvertersNoBridge(t *testing.T) {
	n := New(element.Builtin())

	a := caps.MustParse("application/x-custom-format")
	b := caps.MustParse("application/x-other-format")

	result := n.CheckWithConverters(a, b)
	assert.Equal(t, Incompatible, result.Compatibility)
	assert.Empty(t, result.Suggestions)
}

func TestSuggestConvertersOrdering(t *testing.T) {
	r := element.NewStaticRegistry()
	anyToAny := []element.PadTemplate{
		{Name: "sink", Direction: element.DirectionSink, Presence: element.PresenceAlways, Caps: caps.NewAny()},
		{Name: "src", Direction: element.DirectionSrc, Presence: element.PresenceAlways, Caps: caps.NewAny()},
	}
	videoToVideo := []element.PadTemplate{
		{Name: "sink", Direction: element.DirectionSink, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw")},
		{Name: "src", Direction: element.DirectionSrc, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw")},
	}
	require.NoError(t, r.Register(element.Info{Name: "zgeneric", Klass: "Filter/Converter", PadTemplates: anyToAny}))
	require.NoError(t, r.Register(element.Info{Name: "ageneric", Klass: "Filter/Converter", PadTemplates: anyToAny}))
	require.NoError(t, r.Register(element.Info{Name: "zvideofix", Klass: "Filter/Converter/Video", PadTemplates: videoToVideo}))
	require.NoError(t, r.Register(element.Info{Name: "avideofix", Klass: "Filter/Converter/Video", PadTemplates: videoToVideo}))

	n := New(r)
	got := n.SuggestConverters(
		caps.MustParse("video/x-raw, format=I420"),
		caps.MustParse("video/x-raw, format=NV12"),
	)

	// exact media-type matches lead, alphabetical within each group
	assert.Equal(t, []string{"avideofix", "zvideofix", "ageneric", "zgeneric"}, got)
}

func TestSuggestConvertersCapped(t *testing.T) {
	r := element.NewStaticRegistry()
	tmpl := []element.PadTemplate{
		{Name: "sink", Direction: element.DirectionSink, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw")},
		{Name: "src", Direction: element.DirectionSrc, Presence: element.PresenceAlways, Caps: caps.MustParse("video/x-raw")},
	}
	for _, name := range []string{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"} {
		require.NoError(t, r.Register(element.Info{Name: name, Klass: "Filter/Converter", PadTemplates: tmpl}))
	}

	n := New(r)
	got := n.SuggestConverters(
		caps.MustParse("video/x-raw, format=I420"),
		caps.MustParse("video/x-raw, format=NV12"),
	)
	assert.Len(t, got, maxSuggestions)
}

func TestSuggestConvertersCached(t *testing.T) {
	n := New(element.Builtin())
	a := caps.MustParse("video/x-raw, format=I420")
	b := caps.MustParse("video/x-raw, format=NV12")

	first := n.SuggestConverters(a, b)
	second := n.SuggestConverters(a, b)
	assert.Equal(t, first, second)
	assert.Greater(t, n.suggestions.Stats().Hits, uint64(0))
}

func TestCanLinkDirect(t *testing.T) {
	n := New(element.Builtin())

	report, err := n.CanLink("videotestsrc", "autovideosink")
	require.NoError(t, err)
	assert.True(t, report.Linkable)
	assert.Equal(t, Compatible, report.Verdict)
	require.NotEmpty(t, report.Pairs)
	assert.True(t, report.Pairs[0].Compatible)
	assert.Empty(t, report.Suggestions)
}

func TestCanLinkNeedsConversion(t *testing.T) {
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

	n := New(r)
	report, err := n.CanLink("i420src", "nv12sink")
	require.NoError(t, err)
	assert.False(t, report.Linkable)
	assert.Equal(t, NeedsConversion, report.Verdict)
	assert.Equal(t, []string{"pixconvert"}, report.Suggestions)
}

func TestCanLinkIncompatible(t *testing.T) {
	n := New(element.Builtin())

	report, err := n.CanLink("audiotestsrc", "autovideosink")
	require.NoError(t, err)
	assert.False(t, report.Linkable)
	assert.Equal(t, Incompatible, report.Verdict)
	for _, pair := range report.Pairs {
		assert.False(t, pair.Compatible)
	}
}

func TestCanLinkUnknownElement(t *testing.T) {
	n := New(element.Builtin())

	_, err := n.CanLink("nosuchelement", "fakesink")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrElementNotFound)

	_, err = n.CanLink("videotestsrc", "nosuchelement")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrElementNotFound)
}
