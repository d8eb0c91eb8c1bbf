package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/simplegraph/graph"
)

// triangle builds a three-node path with positions attached.
func triangle(t *testing.T, z float64) *graph.Graph {
	t.Helper()
	g := graph.NewGraph(0)
	coords := []graph.Position{{X: 0, Y: 0, Z: z}, {X: 10, Y: 0, Z: z}, {X: 0, Y: 10, Z: z}}
	for i, c := range coords {
		n := graph.NewNode(i)
		p := c
		n.Data.Position = &p
		require.NoError(t, g.AddNode(n))
	}
	require.NoError(t, g.AddEdge(0, 1))
	require.NoError(t, g.AddEdge(1, 2))
	return g
}

func snapshot(g *graph.Graph) []graph.Position {
	var out []graph.Position
	for _, n := range g.Nodes() {
		out = append(out, *n.Data.Position)
	}
	return out
}

func TestForceDirectedConvergesWithinCap(t *testing.T) {
	g := triangle(t, 0)
	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 5, Kind: Kind2D})
	assert.Same(t, s, g.Layout())

	steps := 0
	for !s.IsConverged() {
		s.Step()
		steps++
		require.LessOrEqual(t, steps, 5)
	}
	assert.Equal(t, 5, steps)
}

func TestConvergenceIsSticky(t *testing.T) {
	g := triangle(t, 0)
	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 3})
	for i := 0; i < 3; i++ {
		s.Step()
	}
	require.True(t, s.IsConverged())

	frozen := snapshot(g)
	for i := 0; i < 10; i++ {
		s.Step()
		assert.True(t, s.IsConverged())
	}
	assert.Equal(t, frozen, snapshot(g), "steps after convergence must not move nodes")
}

func TestStepWritesSharedPositions(t *testing.T) {
	g := triangle(t, 0)
	held := g.Node(0).Data.Position

	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 50})
	before := *held
	s.Step()

	assert.Same(t, held, g.Node(0).Data.Position)
	assert.NotEqual(t, before, *held, "overlapping nodes must be pushed apart")
}

func Test2DKeepsDepthFixed(t *testing.T) {
	g := triangle(t, 7)
	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 20, Kind: Kind2D})
	for !s.IsConverged() {
		s.Step()
	}
	for _, p := range snapshot(g) {
		assert.Equal(t, 7.0, p.Z)
	}
}

func Test3DMovesDepth(t *testing.T) {
	g := graph.NewGraph(0)
	for i, c := range []graph.Position{{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 5}} {
		n := graph.NewNode(i)
		p := c
		n.Data.Position = &p
		require.NoError(t, g.AddNode(n))
	}
	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 10, Kind: Kind3D})
	s.Step()
	assert.Less(t, g.Node(0).Data.Position.Z, 0.0)
	assert.Greater(t, g.Node(1).Data.Position.Z, 5.0)
}

func TestEmptyGraphIsConverged(t *testing.T) {
	s := Start(graph.NewGraph(0), Config{Width: 2000, Height: 2000, Iterations: 100})
	assert.True(t, s.IsConverged())
	s.Step()
}

func TestNodesWithoutPositionAreSkipped(t *testing.T) {
	g := triangle(t, 0)
	require.NoError(t, g.AddNode(graph.NewNode(9)))
	require.NoError(t, g.AddEdge(0, 9))

	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 10})
	s.Step()
	assert.Nil(t, g.Node(9).Data.Position)
}

func TestProgress(t *testing.T) {
	fd := NewForceDirected(triangle(t, 0), Config{Width: 2000, Height: 2000, Iterations: 4})
	fd.Initialize()
	assert.Zero(t, fd.Progress())
	fd.Step()
	fd.Step()
	assert.InDelta(t, 0.5, fd.Progress(), 1e-9)
	assert.Equal(t, 2, fd.Iterations())
}

func TestNewSelectsSurreal(t *testing.T) {
	g := triangle(t, 0)
	assert.IsType(t, &ForceDirected{}, New(g, Config{Width: 100, Height: 100}))
	s := New(g, Config{Width: 100, Height: 100, Noise: 0.5, Seed: 42})
	require.IsType(t, &Surreal{}, s)
	assert.Equal(t, "Surreal Force-Directed Layout", s.Name())
}

func TestSurrealStopsWithBase(t *testing.T) {
	g := triangle(t, 0)
	s := Start(g, Config{Width: 2000, Height: 2000, Iterations: 4, Noise: 1, Seed: 7})
	for !s.IsConverged() {
		s.Step()
	}
	frozen := snapshot(g)
	s.Step()
	assert.Equal(t, frozen, snapshot(g))
}
