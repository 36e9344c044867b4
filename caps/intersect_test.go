package caps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntersectScalarFields(t *testing.T) {
	a := MustParse("video/x-raw, format=I420, width=320")
	b := MustParse("video/x-raw, format=I420, height=240")

	got := a.Intersect(b)
	require.Len(t, got.Structures, 1)

	st := got.Structures[0]
	format, _ := st.Lookup("format")
	assert.Equal(t, "I420", format.Str)
	width, _ := st.Lookup("width")
	assert.Equal(t, 320, width.Int)
	height, _ := st.Lookup("height")
	assert.Equal(t, 240, height.Int)
}

func TestIntersectContradictionIsEmpty(t *testing.T) {
	a := MustParse("video/x-raw, format=I420")
	b := MustParse("video/x-raw, format=NV12")

	got := a.Intersect(b)
	assert.True(t, got.IsEmpty())
	assert.False(t, a.CanIntersect(b))
}

func TestIntersectMediaTypeMismatch(t *testing.T) {
	a := MustParse("video/x-raw, format=I420")
	b := MustParse("audio/x-raw, format=I420")

	assert.True(t, a.Intersect(b).IsEmpty())
}

func TestIntersectRanges(t *testing.T) {
	a := MustParse("video/x-raw, width=[ 16, 1920 ]")
	b := MustParse("video/x-raw, width=[ 640, 4096 ]")

	got := a.Intersect(b)
	require.Len(t, got.Structures, 1)
	width, _ := got.Structures[0].Lookup("width")
	assert.Equal(t, KindIntRange, width.Kind)
	assert.Equal(t, 640, width.IntMin)
	assert.Equal(t, 1920, width.IntMax)
}

func TestIntersectRangeCollapsesToScalar(t *testing.T) {
	a := MustParse("video/x-raw, width=[ 16, 640 ]")
	b := MustParse("video/x-raw, width=[ 640, 4096 ]")

	width, _ := a.Intersect(b).Structures[0].Lookup("width")
	assert.Equal(t, KindInt, width.Kind)
	assert.Equal(t, 640, width.Int)
}

func TestIntersectRangeWithScalar(t *testing.T) {
	a := MustParse("video/x-raw, width=[ 16, 4096 ]")
	b := MustParse("video/x-raw, width=320")

	width, _ := a.Intersect(b).Structures[0].Lookup("width")
	assert.Equal(t, KindInt, width.Kind)
	assert.Equal(t, 320, width.Int)

	c := MustParse("video/x-raw, width=8000")
	assert.True(t, a.Intersect(c).IsEmpty())
}

func TestIntersectFractionRanges(t *testing.T) {
	a := MustParse("video/x-raw, framerate=[ 1/1, 60/1 ]")
	b := MustParse("video/x-raw, framerate=30/1")

	framerate, _ := a.Intersect(b).Structures[0].Lookup("framerate")
	assert.Equal(t, KindFraction, framerate.Kind)
	assert.Equal(t, Fraction{Num: 30, Den: 1}, framerate.Frac)

	c := MustParse("video/x-raw, framerate=120/1")
	assert.True(t, a.Intersect(c).IsEmpty())
}

func TestIntersectLists(t *testing.T) {
	a := MustParse("video/x-raw, format={ I420, NV12, RGBA }")
	b := MustParse("video/x-raw, format={ NV12, RGBA, BGRx }")

	format, _ := a.Intersect(b).Structures[0].Lookup("format")
	require.Equal(t, KindList, format.Kind)
	require.Len(t, format.List, 2)
	assert.Equal(t, "NV12", format.List[0].Str)
	assert.Equal(t, "RGBA", format.List[1].Str)
}

func TestIntersectListCollapsesToScalar(t *testing.T) {
	a := MustParse("video/x-raw, format={ I420, NV12 }")
	b := MustParse("video/x-raw, format=NV12")

	format, _ := a.Intersect(b).Structures[0].Lookup("format")
	assert.Equal(t, KindString, format.Kind)
	assert.Equal(t, "NV12", format.Str)
}

func TestIntersectListWithRange(t *testing.T) {
	a := MustParse("audio/x-raw, rate={ 8000, 44100, 48000 }")
	b := MustParse("audio/x-raw, rate=[ 16000, 96000 ]")

	rate, _ := a.Intersect(b).Structures[0].Lookup("rate")
	require.Equal(t, KindList, rate.Kind)
	require.Len(t, rate.List, 2)
	assert.Equal(t, 44100, rate.List[0].Int)
	assert.Equal(t, 48000, rate.List[1].Int)
}

func TestIntersectAnyIsIdentity(t *testing.T) {
	a := NewAny()
	b := MustParse("video/x-raw, format=I420")

	assert.True(t, a.Intersect(b).Equal(b))
	assert.True(t, b.Intersect(a).Equal(b))
	assert.True(t, a.CanIntersect(b))
	assert.False(t, a.CanIntersect(NewEmpty()))
}

func TestIntersectCommutative(t *testing.T) {
	pairs := [][2]string{
		{"video/x-raw, format=I420, width=[ 16, 1920 ]", "video/x-raw, width=[ 640, 4096 ], height=240"},
		{"video/x-raw, framerate=[ 1/1, 60/1 ]", "video/x-raw, framerate=[ 24/1, 120/1 ]"},
		{"audio/x-raw, rate=48000", "audio/x-raw, rate=[ 8000, 96000 ]"},
		{"video/x-raw, format=I420; audio/x-raw, rate=48000", "audio/x-raw; video/x-raw"},
	}

	for _, pair := range pairs {
		a := MustParse(pair[0])
		b := MustParse(pair[1])

		ab := a.Intersect(b)
		ba := b.Intersect(a)
		assert.True(t, ab.Equal(ba), "intersect not commutative for %q and %q: %q vs %q",
			pair[0], pair[1], ab.String(), ba.String())
	}
}

func TestIntersectIdempotent(t *testing.T) {
	inputs := []string{
		"video/x-raw, format=I420, width=320, height=240",
		"video/x-raw, width=[ 16, 4096 ], framerate=[ 1/1, 60/1 ]",
		"video/x-raw, format={ I420, NV12 }",
	}

	for _, input := range inputs {
		a := MustParse(input)
		got := a.Intersect(a)
		assert.True(t, got.Equal(a), "intersect(a,a) != a for %q: got %q", input, got.String())
	}
}

func TestIntersectMultipleStructuresOrdering(t *testing.T) {
	a := MustParse("video/x-raw, format=I420; audio/x-raw, rate=48000")
	b := MustParse("audio/x-raw; video/x-raw")

	got := a.Intersect(b)
	require.Len(t, got.Structures, 2)
	// Ordered by (a-index, b-index): video first because it is first in a
	assert.Equal(t, "video/x-raw", got.Structures[0].Name)
	assert.Equal(t, "audio/x-raw", got.Structures[1].Name)
}

func TestIntersectKindMismatchIsEmpty(t *testing.T) {
	a := MustParse("video/x-raw, format=I420")
	b := MustParse("video/x-raw, format=42")

	assert.True(t, a.Intersect(b).IsEmpty())
}
