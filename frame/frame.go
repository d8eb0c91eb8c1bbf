// Package frame implements the per-tick loop that advances the layout,
// refreshes the scene, resolves selection, requests a render and publishes
// status.
//
// The loop does not schedule itself. A host calls Tick once per scheduling
// tick, from one goroutine, and stops calling it to cancel. Within a tick the
// order is fixed: layout step, scene refresh, selection, render, status.
package frame

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/TFMV/simplegraph/graph"
	"github.com/TFMV/simplegraph/overlay"
	"github.com/TFMV/simplegraph/physics"
	"github.com/TFMV/simplegraph/scene"
)

// State is the layout state of the loop.
type State int

const (
	// Calculating is the initial state; the layout is stepped every tick.
	Calculating State = iota
	// Converged is terminal.
	Converged
)

func (s State) String() string {
	switch s {
	case Calculating:
		return "calculating"
	case Converged:
		return "converged"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CalculatingText is published while the layout is still running.
const CalculatingText = "Calculating layout..."

// Renderer draws the scene from a viewpoint.
type Renderer interface {
	Render(s *scene.Scene, viewpoint graph.Position) error
}

// Selector resolves the current pointer state against the node proxies.
type Selector interface {
	Resolve(proxies []*scene.NodeProxy)
}

// Publisher receives the ordered status entries.
type Publisher interface {
	Publish(entries []overlay.Entry)
}

// Stats receives one sample per frame.
type Stats interface {
	SetLayout(converged bool, nodes, edges int)
	Update(d time.Duration)
}

// DefaultViewpoint is the camera position the scene is viewed from.
var DefaultViewpoint = graph.Position{Z: 50000}

// Options configures an Orchestrator. Selector, Publisher and Stats are
// optional; a nil value disables the feature and it is never called.
type Options struct {
	Graph     *graph.Graph
	Scene     *scene.Scene
	Stepper   physics.Stepper
	Renderer  Renderer
	Selector  Selector
	Publisher Publisher
	Stats     Stats
	Viewpoint *graph.Position
	Logger    *log.Logger
}

// Orchestrator is the frame loop state machine.
type Orchestrator struct {
	graph     *graph.Graph
	scene     *scene.Scene
	stepper   physics.Stepper
	renderer  Renderer
	selector  Selector
	publisher Publisher
	stats     Stats
	viewpoint graph.Position
	logger    *log.Logger
	now       func() time.Time

	state    State
	ticks    int
	ticking  bool
	selected *scene.NodeProxy
}

// New validates opts and creates an Orchestrator in the Calculating state.
func New(opts Options) (*Orchestrator, error) {
	if opts.Graph == nil {
		return nil, errors.New("frame: graph is required")
	}
	if opts.Scene == nil {
		return nil, errors.New("frame: scene is required")
	}
	if opts.Stepper == nil {
		return nil, errors.New("frame: layout stepper is required")
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	vp := DefaultViewpoint
	if opts.Viewpoint != nil {
		vp = *opts.Viewpoint
	}

	o := &Orchestrator{
		graph:     opts.Graph,
		scene:     opts.Scene,
		stepper:   opts.Stepper,
		renderer:  opts.Renderer,
		selector:  opts.Selector,
		publisher: opts.Publisher,
		stats:     opts.Stats,
		viewpoint: vp,
		logger:    opts.Logger,
		now:       time.Now,
	}
	if o.stepper.IsConverged() {
		o.state = Converged
	}
	return o, nil
}

// Tick runs one frame. It never returns an error: a failed render is logged
// and the next tick proceeds normally. A call made while a tick is already
// running is ignored.
func (o *Orchestrator) Tick() {
	if o.ticking {
		o.logger.Warn("re-entrant tick ignored", "tick", o.ticks)
		return
	}
	o.ticking = true
	defer func() { o.ticking = false }()

	start := o.now()

	if o.state == Calculating {
		o.stepper.Step()
		if o.stepper.IsConverged() {
			o.state = Converged
			o.logger.Info("layout converged", "layout", o.stepper.Name(), "ticks", o.ticks+1)
		}
	}

	o.scene.Refresh(o.viewpoint)

	if o.selector != nil {
		o.selector.Resolve(o.scene.NodeProxies())
	}

	if err := o.renderer.Render(o.scene, o.viewpoint); err != nil {
		o.logger.Error("render failed", "tick", o.ticks, "err", err)
	} else {
		o.scene.ClearDirty()
	}

	if o.publisher != nil {
		o.publisher.Publish(o.Status())
	}

	if o.stats != nil {
		o.stats.SetLayout(o.state == Converged, o.graph.NodeCount(), o.graph.EdgeCount())
		o.stats.Update(o.now().Sub(start))
	}

	o.ticks++
}

// Status returns the ordered status entries for the current state.
func (o *Orchestrator) Status() []overlay.Entry {
	calc := ""
	if o.state == Calculating {
		calc = CalculatingText
	}
	sel := ""
	if o.selected != nil {
		sel = fmt.Sprintf("Object %d", o.selected.ID)
	}
	return []overlay.Entry{
		{Name: overlay.EntryCalc, Value: calc},
		{Name: overlay.EntryNodes, Value: fmt.Sprintf("Nodes %d", o.graph.NodeCount())},
		{Name: overlay.EntryEdges, Value: fmt.Sprintf("Edges %d", o.graph.EdgeCount())},
		{Name: overlay.EntrySelect, Value: sel},
	}
}

// Selected is the selection callback for a proxy coming under the pointer.
func (o *Orchestrator) Selected(p *scene.NodeProxy) {
	o.selected = p
	o.logger.Debug("selected", "node", p.ID)
}

// Deselected is the selection callback for the pointer leaving a proxy.
func (o *Orchestrator) Deselected() {
	o.selected = nil
}

// Selection returns the currently selected proxy, or nil.
func (o *Orchestrator) Selection() *scene.NodeProxy { return o.selected }

// State returns the layout state.
func (o *Orchestrator) State() State { return o.state }

// Ticks returns the number of completed ticks.
func (o *Orchestrator) Ticks() int { return o.ticks }

// Graph returns the graph being laid out.
func (o *Orchestrator) Graph() *graph.Graph { return o.graph }

// Scene returns the scene kept in sync with the graph.
func (o *Orchestrator) Scene() *scene.Scene { return o.scene }

// Viewpoint returns the position the scene is viewed from.
func (o *Orchestrator) Viewpoint() graph.Position { return o.viewpoint }

type nopRenderer struct{}

func (nopRenderer) Render(*scene.Scene, graph.Position) error { return nil }
