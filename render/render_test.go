package render

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/scene"
)

var viewpoint = graph.Position{Z: 50000}

// corners builds a three node scene with nodes at fixed corners and
// connectors 0-1 and 1-2.
func corners(t *testing.T, mode string, titles ...string) *scene.Scene {
	t.Helper()
	g := graph.NewGraph(39)
	sc := scene.NewScene(scene.Options{Mode: mode, ShowLabels: true, Limit: 39, Rand: rand.New(rand.NewSource(1))})

	coords := []graph.Position{{X: -100, Y: -100}, {X: 100, Y: 100}, {X: 100, Y: -100}}
	for i, p := range coords {
		n := graph.NewNode(i)
		if i < len(titles) {
			n.Title = titles[i]
		}
		require.NoError(t, g.AddNode(n))
		sc.NodeAdded(n, i)
		*n.Data.Position = p
	}
	require.NoError(t, g.AddEdge(0, 1))
	sc.EdgeAdded(g.Node(0), g.Node(1))
	require.NoError(t, g.AddEdge(1, 2))
	sc.EdgeAdded(g.Node(1), g.Node(2))

	sc.Refresh(viewpoint)
	return sc
}

func TestASCIIRender(t *testing.T) {
	sc := corners(t, scene.Mode2D)
	r := NewASCII(40, 20, false)

	_, _, ok := r.Project(graph.Position{})
	assert.False(t, ok, "no projection before the first frame")

	require.NoError(t, r.Render(sc, viewpoint))
	lines := strings.Split(r.String(), "\n")
	require.Len(t, lines, 21)

	row := func(i int) []rune { return []rune(lines[i]) }
	assert.Len(t, row(0), 40)
	assert.Equal(t, '+', row(0)[0])
	assert.Equal(t, 'O', row(18)[1])
	assert.Equal(t, '@', row(1)[38])
	assert.Equal(t, '#', row(18)[38])
	assert.Contains(t, r.String(), string(edgeSymbol))

	x, y, ok := r.Project(*sc.NodeProxies()[1].Position)
	require.True(t, ok)
	assert.Equal(t, 38.0, x)
	assert.Equal(t, 1.0, y)

	for _, e := range sc.EdgeProxies() {
		assert.True(t, e.Dirty(), "rendering leaves redraw flags to the frame loop")
	}
}

func TestASCIITooSmall(t *testing.T) {
	sc := corners(t, scene.Mode2D)
	r := NewASCII(2, 2, false)
	assert.ErrorIs(t, r.Render(sc, viewpoint), ErrCanvasTooSmall)

	r.Resize(10, 5)
	cols, rows := r.Size()
	assert.Equal(t, 10, cols)
	assert.Equal(t, 5, rows)
	assert.NoError(t, r.Render(sc, viewpoint))
}

func TestSVGRender(t *testing.T) {
	sc := corners(t, scene.Mode2D, "a<b", "b", "c")
	opts := NewDefaultOptions()
	opts.ShowLabels = true
	r := NewSVG(opts)

	require.NoError(t, r.Render(sc, viewpoint))
	out := string(r.Frame())
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Equal(t, 3, strings.Count(out, "<circle"))
	assert.Equal(t, 2, strings.Count(out, "<line"))
	assert.Contains(t, out, "a&lt;b")
	assert.Contains(t, out, opts.Palette.EdgeColor)
}

func TestDOTPinsPositions(t *testing.T) {
	sc := corners(t, scene.Mode2D, "root")
	opts := NewDefaultOptions()
	opts.ShowLabels = true
	r := NewDOT(opts)

	require.NoError(t, r.Render(sc, viewpoint))
	out := string(r.Frame())
	assert.True(t, strings.HasPrefix(out, "graph G {"))
	assert.Equal(t, 3, strings.Count(out, "!\"]"))
	assert.Contains(t, out, `"0" -- "1";`)
	assert.Contains(t, out, `"1" -- "2";`)
	assert.Contains(t, out, `label="root"`)
}

func TestPNGRender(t *testing.T) {
	sc := corners(t, scene.Mode2D)
	r := NewPNG(NewDefaultOptions())

	require.NoError(t, r.Render(sc, viewpoint))
	assert.True(t, bytes.HasPrefix(r.Frame(), []byte("\x89PNG")))
}

func TestJSONSnapshot(t *testing.T) {
	sc := corners(t, scene.Mode3D, "a")
	r := NewJSON(nil)

	require.NoError(t, r.Render(sc, viewpoint))
	var snap Snapshot
	require.NoError(t, json.Unmarshal(r.Frame(), &snap))
	assert.Equal(t, scene.Mode3D, snap.Mode)
	require.Len(t, snap.Nodes, 3)
	assert.Len(t, snap.Edges, 2)
	assert.Len(t, snap.Labels, 3)
	assert.Equal(t, "a", snap.Nodes[0].Title)
	assert.Equal(t, 100.0, snap.Nodes[1].X)
	assert.Equal(t, 1, snap.Nodes[0].Skin)
	assert.Equal(t, SnapshotEdge{Source: 1, Target: 2}, snap.Edges[1])
	assert.Equal(t, -200.0, snap.Labels[0].Y)
}

func TestNew(t *testing.T) {
	for _, f := range Formats {
		r, err := New(f, Options{})
		require.NoError(t, err, f)
		assert.NotEmpty(t, r.Name())
	}

	r, err := New("ASCII", Options{Width: 800, Height: 600})
	require.NoError(t, err)
	cols, rows := r.(*ASCII).Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 30, rows)

	_, err = New("webgl", Options{})
	assert.Error(t, err)
}

func TestProject(t *testing.T) {
	p := graph.Position{X: 10, Y: -4, Z: 25000}

	x, y, ok := project(p, viewpoint, scene.Mode2D)
	require.True(t, ok)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, -4.0, y)

	x, y, ok = project(p, viewpoint, scene.Mode3D)
	require.True(t, ok)
	assert.InDelta(t, 20.0, x, 1e-9)
	assert.InDelta(t, -8.0, y, 1e-9)

	_, _, ok = project(graph.Position{Z: 60000}, viewpoint, scene.Mode3D)
	assert.False(t, ok)
}

func TestFitCentresSingleNode(t *testing.T) {
	g := graph.NewGraph(1)
	sc := scene.NewScene(scene.Options{Rand: rand.New(rand.NewSource(1))})
	n := graph.NewNode(0)
	require.NoError(t, g.AddNode(n))
	sc.NodeAdded(n, 0)

	v := fit(sc, viewpoint, 100, 50, 0, true)
	x, y, ok := v.canvas(*n.Data.Position)
	require.True(t, ok)
	assert.Equal(t, 50.0, x)
	assert.Equal(t, 25.0, y)
}
