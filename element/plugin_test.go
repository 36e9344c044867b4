package element

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPluginsGroupElements(t *testing.T) {
	r := NewStaticRegistry()
	a := testInfo("alphasrc", "Source/Video")
	a.Plugin = "alpha"
	b := testInfo("alphasink", "Sink/Video")
	b.Plugin = "alpha"
	c := testInfo("betasrc", "Source/Audio")
	c.Plugin = "beta"
	orphan := testInfo("orphansrc", "Source/Video")
	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))
	require.NoError(t, r.Register(c))
	require.NoError(t, r.Register(orphan))

	plugins := Plugins(r)
	require.Len(t, plugins, 3)

	// sorted by plugin name, elements under each sorted by element name
	assert.Equal(t, "alpha", plugins[0].Name)
	assert.Equal(t, 2, plugins[0].ElementCount)
	assert.Equal(t, []string{"alphasink", "alphasrc"}, plugins[0].Elements)
	assert.Equal(t, "beta", plugins[1].Name)
	assert.Equal(t, []string{"betasrc"}, plugins[1].Elements)
	assert.Equal(t, "unknown", plugins[2].Name)
}

func TestPluginByName(t *testing.T) {
	summary, ok := PluginByName(Builtin(), "coreelements")
	require.True(t, ok)
	assert.Contains(t, summary.Elements, "queue")
	assert.Equal(t, len(summary.Elements), summary.ElementCount)

	_, ok = PluginByName(Builtin(), "nosuchplugin")
	assert.False(t, ok)
}
