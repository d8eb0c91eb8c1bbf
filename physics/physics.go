// Package physics provides incremental layout steppers that relax node
// positions a little on every call to Step.
//
// Steppers write straight into each node's shared *graph.Position; there is no
// separate apply phase. Once IsConverged reports true it stays true and Step
// becomes a no-op.
package physics

import (
	"math"

	"github.com/TFMV/simplegraph/graph"
)

// Layout kinds.
const (
	Kind2D = "2d"
	Kind3D = "3d"
)

// Stepper defines the contract the frame loop drives once per tick.
type Stepper interface {
	// Initialize prepares internal state from the current graph snapshot.
	Initialize()
	// Step advances the relaxation by one increment.
	Step()
	// IsConverged is sticky: once true, it stays true.
	IsConverged() bool
	// Name returns the name of the layout algorithm
	Name() string
}

// Config configures a stepper.
type Config struct {
	Width      float64
	Height     float64
	Iterations int
	Kind       string
	// Noise enables the surreal decorator when > 0.
	Noise float64
	Seed  int64
}

// minTemperature is the cooling floor below which the layout is considered settled.
const minTemperature = 1e-6

// ForceDirected implements a Fruchterman-Reingold force-directed layout
type ForceDirected struct {
	graph *graph.Graph
	cfg   Config

	nodes       []*graph.Position
	index       map[int]int
	edges       [][2]int
	disp        []graph.Position
	k           float64 // optimal distance
	temperature float64
	initialTemp float64
	iterations  int
	converged   bool
}

// NewForceDirected creates a force-directed stepper over g.
func NewForceDirected(g *graph.Graph, cfg Config) *ForceDirected {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 100
	}
	if cfg.Kind == "" {
		cfg.Kind = Kind2D
	}
	return &ForceDirected{graph: g, cfg: cfg}
}

// Name returns the name of the layout algorithm
func (fd *ForceDirected) Name() string {
	return "Force-Directed Layout"
}

// Initialize snapshots the nodes that carry a position and the edges between them.
func (fd *ForceDirected) Initialize() {
	fd.nodes = fd.nodes[:0]
	fd.index = make(map[int]int)
	for _, n := range fd.graph.Nodes() {
		if n.Data.Position == nil {
			continue
		}
		fd.index[n.ID] = len(fd.nodes)
		fd.nodes = append(fd.nodes, n.Data.Position)
	}

	fd.edges = fd.edges[:0]
	for _, e := range fd.graph.Edges() {
		a, okA := fd.index[e.Source]
		b, okB := fd.index[e.Target]
		if okA && okB {
			fd.edges = append(fd.edges, [2]int{a, b})
		}
	}

	fd.disp = make([]graph.Position, len(fd.nodes))
	fd.iterations = 0
	fd.converged = len(fd.nodes) == 0
	if fd.converged {
		return
	}

	area := fd.cfg.Width * fd.cfg.Height
	fd.k = math.Sqrt(area / float64(len(fd.nodes)))
	fd.initialTemp = fd.cfg.Width / 10
	fd.temperature = fd.initialTemp
}

// Step performs one iteration of the layout algorithm
func (fd *ForceDirected) Step() {
	if fd.converged {
		return
	}

	for i := range fd.disp {
		fd.disp[i] = graph.Position{}
	}

	// Repulsive forces between every pair: F = k^2 / d
	for i := 0; i < len(fd.nodes); i++ {
		for j := i + 1; j < len(fd.nodes); j++ {
			delta := fd.delta(i, j)
			d := math.Max(0.01, delta.Len())
			f := delta.Scale(fd.k * fd.k / (d * d))
			fd.disp[i] = fd.disp[i].Add(f)
			fd.disp[j] = fd.disp[j].Sub(f)
		}
	}

	// Attractive forces along edges: F = d^2 / k
	for _, e := range fd.edges {
		delta := fd.delta(e[0], e[1])
		d := math.Max(0.01, delta.Len())
		f := delta.Scale(d / fd.k)
		fd.disp[e[0]] = fd.disp[e[0]].Sub(f)
		fd.disp[e[1]] = fd.disp[e[1]].Add(f)
	}

	// Displacement is capped by the current temperature.
	for i, p := range fd.nodes {
		l := fd.disp[i].Len()
		if l == 0 {
			continue
		}
		move := fd.disp[i].Scale(math.Min(l, fd.temperature) / l)
		p.X += move.X
		p.Y += move.Y
		if fd.cfg.Kind == Kind3D {
			p.Z += move.Z
		}
	}

	fd.iterations++
	fd.temperature = fd.initialTemp * (1 - float64(fd.iterations)/float64(fd.cfg.Iterations))
	if fd.iterations >= fd.cfg.Iterations || fd.temperature < minTemperature {
		fd.converged = true
	}
}

// IsConverged reports whether the layout has settled.
func (fd *ForceDirected) IsConverged() bool {
	return fd.converged
}

// Progress returns the fraction of the iteration budget consumed, in [0, 1].
func (fd *ForceDirected) Progress() float64 {
	if fd.converged {
		return 1
	}
	return float64(fd.iterations) / float64(fd.cfg.Iterations)
}

// Iterations returns the number of steps performed so far.
func (fd *ForceDirected) Iterations() int {
	return fd.iterations
}

func (fd *ForceDirected) delta(i, j int) graph.Position {
	d := fd.nodes[i].Sub(*fd.nodes[j])
	if fd.cfg.Kind != Kind3D {
		d.Z = 0
	}
	return d
}

// New builds the stepper described by cfg: a force-directed layout, wrapped in
// the surreal decorator when noise is requested.
func New(g *graph.Graph, cfg Config) Stepper {
	base := NewForceDirected(g, cfg)
	if cfg.Noise > 0 {
		return NewSurreal(base, g, cfg)
	}
	return base
}

// Start builds the stepper for cfg, attaches it to g and initializes it.
func Start(g *graph.Graph, cfg Config) Stepper {
	s := New(g, cfg)
	g.SetLayout(s)
	s.Initialize()
	return s
}
