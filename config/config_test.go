package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/simplegraph/physics"
	"github.com/TFMV/simplegraph/scene"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	assert.Equal(t, "2d", c.Layout)
	assert.Equal(t, 2000.0, c.GraphLayout.Width)
	assert.Equal(t, 2000.0, c.GraphLayout.Height)
	assert.Equal(t, 100, c.GraphLayout.Iterations)
	assert.Equal(t, "2d", c.GraphLayout.Layout)
	assert.Equal(t, 39, c.Limit)
	assert.Equal(t, 390, c.NumNodes)
	assert.Equal(t, 4, c.NumEdges)
	assert.False(t, c.ShowStats)
	assert.False(t, c.ShowInfo)
	assert.False(t, c.ShowLabels)
	assert.False(t, c.Selection)
	require.NoError(t, c.Validate())
}

func TestGraphLayoutFollowsLayout(t *testing.T) {
	c := Config{Layout: "3d"}
	c.ApplyDefaults()
	assert.Equal(t, "3d", c.GraphLayout.Layout)

	c = Config{Layout: "3d", GraphLayout: GraphLayout{Layout: "2d"}}
	c.ApplyDefaults()
	assert.Equal(t, "2d", c.GraphLayout.Layout)
}

func TestParse(t *testing.T) {
	c, err := Parse(`
layout = "3d"
showLabels = true
selection = true
numNodes = 50
seed = 42

[graphLayout]
iterations = 20
noise = 0.5
`)
	require.NoError(t, err)
	assert.Equal(t, "3d", c.Layout)
	assert.Equal(t, "3d", c.GraphLayout.Layout)
	assert.Equal(t, 20, c.GraphLayout.Iterations)
	assert.Equal(t, 2000.0, c.GraphLayout.Width)
	assert.True(t, c.ShowLabels)
	assert.True(t, c.Selection)
	assert.Equal(t, 50, c.NumNodes)
	assert.Equal(t, 4, c.NumEdges)
	assert.Equal(t, int64(42), c.Seed)
}

func TestParseZeroTakesDefault(t *testing.T) {
	c, err := Parse("numNodes = 0\nnumEdges = 0\n")
	require.NoError(t, err)
	assert.Equal(t, 390, c.NumNodes)
	assert.Equal(t, 4, c.NumEdges)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad layout", `layout = "4d"`, "Config.Layout"},
		{"negative nodes", `numNodes = -1`, "Config.NumNodes"},
		{"negative width", "[graphLayout]\nwidth = -5", "Config.GraphLayout.Width"},
		{"noise too high", "[graphLayout]\nnoise = 2.0", "Config.GraphLayout.Noise"},
		{"unknown key", `colour = "red"`, "unknown config keys: colour"},
		{"bad toml", `layout = `, "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simplegraph.toml")
	require.NoError(t, os.WriteFile(path, []byte("numEdges = 2\nshowInfo = true\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.NumEdges)
	assert.True(t, c.ShowInfo)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestConversions(t *testing.T) {
	c := Defaults()
	c.Layout = "3d"
	c.GraphLayout.Layout = "3d"
	c.GraphLayout.Noise = 0.25
	c.ShowLabels = true
	c.Seed = 9

	p := c.Physics()
	assert.Equal(t, physics.Config{Width: 2000, Height: 2000, Iterations: 100, Kind: physics.Kind3D, Noise: 0.25, Seed: 9}, p)

	r := c.Rand()
	so := c.Scene(r)
	assert.Equal(t, "3d", so.Mode)
	assert.True(t, so.ShowLabels)
	assert.Equal(t, 39, so.Limit)
	assert.Same(t, r, so.Rand)

	// Same seed, same sequence.
	assert.Equal(t, c.Rand().Int63(), c.Rand().Int63())
}

func TestPaletteFollowsNoise(t *testing.T) {
	c := Defaults()
	assert.Equal(t, scene.DefaultPalette(), c.Palette())

	c.GraphLayout.Noise = 0.25
	assert.Equal(t, scene.SurrealPalette(), c.Palette())
}
