package physics

import (
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/TFMV/simplegraph/graph"
)

// progresser is implemented by steppers that can report how far through
// their iteration budget they are.
type progresser interface {
	Progress() float64
}

// Surreal is a creative layout that applies noise distortions on top of a
// base stepper. Distortion fades out as the base layout cools and stops
// entirely once it converges, so convergence stays final.
type Surreal struct {
	base       Stepper
	graph      *graph.Graph
	noise      opensimplex.Noise
	noiseScale float64
	distortion float64
	timeStep   float64
	threeD     bool
}

// NewSurreal wraps base with noise distortion of the given intensity.
func NewSurreal(base Stepper, g *graph.Graph, cfg Config) *Surreal {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Surreal{
		base:       base,
		graph:      g,
		noise:      opensimplex.New(seed),
		noiseScale: 0.0005,
		distortion: 20.0 * cfg.Noise,
		threeD:     cfg.Kind == Kind3D,
	}
}

// Name returns the name of the layout algorithm
func (sl *Surreal) Name() string {
	return "Surreal " + sl.base.Name()
}

// Initialize initializes the surreal layout
func (sl *Surreal) Initialize() {
	sl.base.Initialize()
	sl.timeStep = 0
}

// IsConverged delegates to the base stepper.
func (sl *Surreal) IsConverged() bool {
	return sl.base.IsConverged()
}

// Step advances the base layout and then distorts positions.
func (sl *Surreal) Step() {
	if sl.base.IsConverged() {
		return
	}
	sl.base.Step()
	if sl.base.IsConverged() {
		return
	}

	fade := 1.0
	if p, ok := sl.base.(progresser); ok {
		fade = 1 - p.Progress()
	}
	amount := sl.distortion * fade

	for _, n := range sl.graph.Nodes() {
		p := n.Data.Position
		if p == nil {
			continue
		}
		phase := float64(n.ID) * 0.1
		x, y := p.X*sl.noiseScale, p.Y*sl.noiseScale
		p.X += sl.noise.Eval3(x, y, sl.timeStep+phase) * amount
		p.Y += sl.noise.Eval3(x+100, y+100, sl.timeStep+phase) * amount
		if sl.threeD {
			p.Z += sl.noise.Eval3(x+200, y+200, sl.timeStep+phase) * amount
		}
	}

	sl.timeStep += 0.01
}
