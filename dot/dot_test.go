package dot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/pipewright/element"
	"github.com/c360/pipewright/launch"
)

func mustParse(t *testing.T, text string) launch.Descriptor {
	t.Helper()
	desc, verr := launch.NewParser(element.Builtin()).Parse(text)
	require.Nil(t, verr)
	return desc
}

func TestRenderSimple(t *testing.T) {
	desc := mustParse(t, "videotestsrc ! fakesink")

	got := Render(desc, Options{})
	assert.True(t, strings.HasPrefix(got, `digraph "pipeline" {`))
	assert.Contains(t, got, "rankdir=LR;")
	assert.Contains(t, got, `n0 [label="videotestsrc0\n(videotestsrc)"];`)
	assert.Contains(t, got, "n0 -> n1;")
	assert.True(t, strings.HasSuffix(got, "}\n"))
}

func TestRenderCapsFilterEdgeLabel(t *testing.T) {
	desc := mustParse(t, "videotestsrc ! video/x-raw, format=I420 ! fakesink")

	got := Render(desc, Options{})
	assert.Contains(t, got, `n0 -> n1 [label="video/x-raw, format=I420"];`)
}

func TestRenderProperties(t *testing.T) {
	desc := mustParse(t, "videotestsrc pattern=ball name=cam ! fakesink")

	plain := Render(desc, Options{})
	assert.NotContains(t, plain, "pattern=ball")

	withProps := Render(desc, Options{ShowProperties: true})
	assert.Contains(t, withProps, `pattern=ball`)
	assert.Contains(t, withProps, `cam\n(videotestsrc)`)
}

func TestRenderDeterministic(t *testing.T) {
	desc := mustParse(t, "videotestsrc ! queue ! videoconvert ! autovideosink")

	first := Render(desc, Options{ShowProperties: true})
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(desc, Options{ShowProperties: true}))
	}
}

func TestRenderOptions(t *testing.T) {
	desc := mustParse(t, "videotestsrc ! fakesink")

	got := Render(desc, Options{Name: "my graph", RankDir: "TB"})
	assert.Contains(t, got, `digraph "my graph" {`)
	assert.Contains(t, got, "rankdir=TB;")
}
