// Package host wires a configured session together and drives its frame loop,
// either headless from a timer or inside a terminal program.
package host

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/TFMV/simplegraph/config"
	"github.com/TFMV/simplegraph/frame"
	"github.com/TFMV/simplegraph/generator"
	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/overlay"
	"github.com/TFMV/simplegraph/physics"
	"github.com/TFMV/simplegraph/render"
	"github.com/TFMV/simplegraph/scene"
	"github.com/TFMV/simplegraph/selection"
	"github.com/TFMV/simplegraph/stats"
)

// Session is one generated graph with everything needed to animate it.
type Session struct {
	Config   config.Config
	Graph    *graph.Graph
	Scene    *scene.Scene
	Stepper  physics.Stepper
	Frame    *frame.Orchestrator
	Renderer render.Renderer
	// Steps is the number of expansion steps the generator ran.
	Steps int

	// Optional features; nil when disabled.
	Board  *overlay.Board
	Stats  *stats.Collector
	Picker *selection.Picker
}

// NewSession generates the graph described by cfg, builds its scene, starts
// the layout and assembles the frame loop around renderer. When selection is
// on and renderer can project positions, it is used as the picker's projector.
func NewSession(cfg config.Config, renderer render.Renderer, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rnd := cfg.Rand()
	so := cfg.Scene(rnd)
	so.Logger = logger
	sc := scene.NewScene(so)

	gen, err := generator.New(generator.Options{
		NumNodes: cfg.NumNodes,
		NumEdges: cfg.NumEdges,
		Limit:    cfg.Limit,
		Rand:     rnd,
		Observer: sc,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}
	res := gen.Generate()

	s := &Session{
		Config:   cfg,
		Graph:    res.Graph,
		Scene:    sc,
		Stepper:  physics.Start(res.Graph, cfg.Physics()),
		Renderer: renderer,
		Steps:    res.Steps,
	}

	opts := frame.Options{
		Graph:   s.Graph,
		Scene:   sc,
		Stepper: s.Stepper,
		Logger:  logger,
	}
	if renderer != nil {
		opts.Renderer = renderer
	}
	if cfg.ShowInfo {
		s.Board = overlay.NewBoard()
		opts.Publisher = s.Board
	}
	if cfg.ShowStats {
		s.Stats = stats.NewCollector()
		opts.Stats = s.Stats
	}

	// The picker's callbacks need the orchestrator, which needs the picker.
	var orch *frame.Orchestrator
	if cfg.Selection {
		proj, _ := renderer.(selection.Projector)
		s.Picker = selection.NewPicker(proj, selection.DefaultRadius, selection.Callbacks{
			Selected:   func(p *scene.NodeProxy) { orch.Selected(p) },
			Deselected: func() { orch.Deselected() },
			Clicked: func(p *scene.NodeProxy) {
				logger.Info("clicked", "node", p.ID, "title", p.Node.Title)
			},
		})
		opts.Selector = s.Picker
	}

	orch, err = frame.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create frame loop: %w", err)
	}
	s.Frame = orch

	logger.Info("graph generated",
		"graph", s.Graph.ID,
		"nodes", s.Graph.NodeCount(),
		"edges", s.Graph.EdgeCount(),
		"steps", s.Steps,
		"layout", s.Stepper.Name())
	return s, nil
}

// Tick runs one frame.
func (s *Session) Tick() {
	s.Frame.Tick()
}

// Converged reports whether the layout has settled.
func (s *Session) Converged() bool {
	return s.Frame.State() == frame.Converged
}

// Status returns the current status entries.
func (s *Session) Status() []overlay.Entry {
	return s.Frame.Status()
}
